package service

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/model"
	"github.com/prepnest/lms-backend/internal/repository"
)

// CandidateService handles registration, login and the candidate's own
// views: profile, assigned subjects and accumulated results.
type CandidateService interface {
	Register(req dto.CandidateRegisterDTO) (*dto.CandidateDTO, error)
	Login(req dto.CandidateLoginDTO) (*dto.CandidateLoginResponse, error)
	Me(candidateID uint) (*dto.CandidateDTO, error)
	MySubjects(candidateID uint) ([]model.Subject, error)
	CheckUsername(raw string) dto.UsernameCheckDTO
}

type candidateService struct {
	candidateRepo repository.CandidateRepository
	subjectRepo   repository.SubjectRepository
	tokens        TokenService
}

func NewCandidateService(candidateRepo repository.CandidateRepository, subjectRepo repository.SubjectRepository, tokens TokenService) CandidateService {
	return &candidateService{candidateRepo: candidateRepo, subjectRepo: subjectRepo, tokens: tokens}
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,20}$`)

func (s *candidateService) Register(req dto.CandidateRegisterDTO) (*dto.CandidateDTO, error) {
	if req.Password == "" || strings.ContainsAny(req.Password, " \t\n") {
		return nil, validationErr("invalid password")
	}
	username := strings.TrimSpace(req.Username)
	if username != "" {
		if !usernamePattern.MatchString(username) {
			return nil, validationErr("invalid username")
		}
		taken, err := s.candidateRepo.UsernameTaken(username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, validationErr("username already taken")
		}
	}

	// Resolve whatever mix of names and ids the signup form sent into
	// canonical (id, name) pairs; unknown selections are silently dropped.
	var names []string
	for _, n := range req.Subjects {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	subjects, err := s.subjectRepo.FindByNamesOrIDs(names, req.SubjectIDs)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	cand := &model.Candidate{
		Name:         strings.TrimSpace(req.Name),
		Username:     username,
		ParentEmail:  strings.ToLower(strings.TrimSpace(req.ParentEmail)),
		ParentPhone:  strings.TrimSpace(req.ParentPhone),
		Country:      strings.ToUpper(req.Country),
		Method:       req.Method,
		PasswordHash: string(hash),
	}
	for _, sub := range subjects {
		cand.Subjects = append(cand.Subjects, model.CandidateSubject{
			SubjectID: sub.ID,
			Name:      sub.Name,
		})
	}

	if err := s.candidateRepo.Create(cand); err != nil {
		return nil, err
	}
	log.Info().Uint("candidate_id", cand.ID).Int("subjects", len(cand.Subjects)).Msg("candidate registered")

	out := candidateDTO(cand)
	return &out, nil
}

func (s *candidateService) Login(req dto.CandidateLoginDTO) (*dto.CandidateLoginResponse, error) {
	cand, err := s.candidateRepo.FindByIdentifier(strings.TrimSpace(req.Identifier))
	if err != nil {
		// Uniform rejection: an unknown identifier reads the same as a
		// wrong password.
		return nil, ErrInvalidAuth
	}
	if bcrypt.CompareHashAndPassword([]byte(cand.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidAuth
	}

	token, err := s.tokens.Issue(RoleCandidate, cand.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CandidateLoginResponse{Token: token, Candidate: candidateDTO(cand)}, nil
}

func (s *candidateService) Me(candidateID uint) (*dto.CandidateDTO, error) {
	cand, err := s.candidateRepo.FindByID(candidateID)
	if err != nil {
		return nil, asNotFound(err, "candidate")
	}
	out := candidateDTO(cand)
	return &out, nil
}

// MySubjects returns full subject records in the candidate's selection
// order, chapters and topics included.
func (s *candidateService) MySubjects(candidateID uint) ([]model.Subject, error) {
	ids, err := s.candidateRepo.AssignedSubjectIDs(candidateID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.subjectRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Subject, len(subjects))
	for _, sub := range subjects {
		byID[sub.ID] = sub
	}
	ordered := make([]model.Subject, 0, len(ids))
	for _, id := range ids {
		if sub, ok := byID[id]; ok {
			ordered = append(ordered, sub)
		}
	}
	return ordered, nil
}

var checkPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)
var suggestionStrip = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func (s *candidateService) CheckUsername(raw string) dto.UsernameCheckDTO {
	raw = strings.TrimSpace(raw)
	if !checkPattern.MatchString(raw) {
		return dto.UsernameCheckDTO{Available: false, Reason: "invalid"}
	}
	taken, err := s.candidateRepo.UsernameTaken(raw)
	if err != nil {
		log.Warn().Err(err).Msg("username availability check failed")
		return dto.UsernameCheckDTO{Available: false, Reason: "error"}
	}
	if taken {
		return dto.UsernameCheckDTO{Available: false, Reason: "taken", Suggestions: usernameSuggestions(raw)}
	}
	return dto.UsernameCheckDTO{Available: true}
}

// usernameSuggestions offers five free variants of a taken name.
func usernameSuggestions(raw string) []string {
	base := suggestionStrip.ReplaceAllString(raw, "")
	if len(base) > 16 {
		base = base[:16]
	}
	if base == "" {
		base = "user"
	}
	year := time.Now().Year() % 100
	seen := map[string]struct{}{}
	var out []string
	for len(out) < 5 {
		var pick string
		switch rand.Intn(5) {
		case 0:
			pick = fmt.Sprintf("%s%d", base, 100+rand.Intn(900))
		case 1:
			pick = fmt.Sprintf("%s_%d", base, 100+rand.Intn(900))
		case 2:
			pick = fmt.Sprintf("%s-%d", base, 100+rand.Intn(900))
		case 3:
			pick = fmt.Sprintf("%s%02d", base, year)
		default:
			pick = fmt.Sprintf("%s_%02d", base, year)
		}
		if strings.EqualFold(pick, raw) {
			continue
		}
		if _, dup := seen[pick]; dup {
			continue
		}
		seen[pick] = struct{}{}
		out = append(out, pick)
	}
	return out
}

func candidateDTO(c *model.Candidate) dto.CandidateDTO {
	out := dto.CandidateDTO{
		ID:          c.ID,
		Name:        c.Name,
		Username:    c.Username,
		ParentEmail: c.ParentEmail,
		Country:     c.Country,
		Method:      c.Method,
		Subjects:    []dto.SubjectSelectionDTO{},
		CreatedAt:   c.CreatedAt,
	}
	for _, s := range c.Subjects {
		out.Subjects = append(out.Subjects, dto.SubjectSelectionDTO{SubjectID: s.SubjectID, Name: s.Name})
	}
	return out
}
