package repository

import (
	"github.com/prepnest/lms-backend/internal/model"
	"gorm.io/gorm"
)

type AdminRepository interface {
	Create(a *model.Admin) error
	FindByEmail(email string) (*model.Admin, error)
	FindByID(id uint) (*model.Admin, error)
	EmailTaken(email string) (bool, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(a *model.Admin) error {
	return r.db.Create(a).Error
}

func (r *adminRepository) FindByEmail(email string) (*model.Admin, error) {
	var a model.Admin
	err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&a).Error
	return &a, err
}

func (r *adminRepository) FindByID(id uint) (*model.Admin, error) {
	var a model.Admin
	err := r.db.First(&a, id).Error
	return &a, err
}

func (r *adminRepository) EmailTaken(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Admin{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	return count > 0, err
}
