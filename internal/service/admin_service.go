package service

import (
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/model"
	"github.com/prepnest/lms-backend/internal/repository"
)

type AdminService interface {
	Register(req dto.AdminRegisterRequest) (*dto.AdminDTO, error)
	Login(req dto.AdminLoginRequest) (*dto.TokenResponse, error)
	Profile(adminID uint) (*dto.AdminDTO, error)
}

type adminService struct {
	adminRepo repository.AdminRepository
	tokens    TokenService
}

func NewAdminService(adminRepo repository.AdminRepository, tokens TokenService) AdminService {
	return &adminService{adminRepo: adminRepo, tokens: tokens}
}

func (s *adminService) Register(req dto.AdminRegisterRequest) (*dto.AdminDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.adminRepo.EmailTaken(email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, validationErr("email already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &model.Admin{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.adminRepo.Create(admin); err != nil {
		return nil, err
	}
	log.Info().Uint("admin_id", admin.ID).Msg("admin registered")
	return &dto.AdminDTO{ID: admin.ID, Name: admin.Name, Email: admin.Email}, nil
}

func (s *adminService) Login(req dto.AdminLoginRequest) (*dto.TokenResponse, error) {
	admin, err := s.adminRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidAuth
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidAuth
	}
	token, err := s.tokens.Issue(RoleAdmin, admin.ID)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: token}, nil
}

func (s *adminService) Profile(adminID uint) (*dto.AdminDTO, error) {
	admin, err := s.adminRepo.FindByID(adminID)
	if err != nil {
		return nil, asNotFound(err, "admin")
	}
	return &dto.AdminDTO{ID: admin.ID, Name: admin.Name, Email: admin.Email}, nil
}
