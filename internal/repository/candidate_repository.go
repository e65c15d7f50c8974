package repository

import (
	"strings"

	"github.com/prepnest/lms-backend/internal/model"
	"gorm.io/gorm"
)

type CandidateRepository interface {
	Create(c *model.Candidate) error
	FindByID(id uint) (*model.Candidate, error)
	// FindByIdentifier matches the parent email (lower-cased) or the
	// username (case-insensitive).
	FindByIdentifier(identifier string) (*model.Candidate, error)
	UsernameTaken(username string) (bool, error)
	// IsAssigned checks subject membership on the canonical assignment rows.
	IsAssigned(candidateID, subjectID uint) (bool, error)
	AssignedSubjectIDs(candidateID uint) ([]uint, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(c *model.Candidate) error {
	return r.db.Create(c).Error
}

func (r *candidateRepository) FindByID(id uint) (*model.Candidate, error) {
	var c model.Candidate
	err := r.db.Preload("Subjects").First(&c, id).Error
	return &c, err
}

func (r *candidateRepository) FindByIdentifier(identifier string) (*model.Candidate, error) {
	var c model.Candidate
	err := r.db.Preload("Subjects").
		Where("parent_email = ? OR LOWER(username) = LOWER(?)", strings.ToLower(identifier), identifier).
		First(&c).Error
	return &c, err
}

func (r *candidateRepository) UsernameTaken(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Candidate{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&count).Error
	return count > 0, err
}

func (r *candidateRepository) IsAssigned(candidateID, subjectID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.CandidateSubject{}).
		Where("candidate_id = ? AND subject_id = ?", candidateID, subjectID).
		Count(&count).Error
	return count > 0, err
}

func (r *candidateRepository) AssignedSubjectIDs(candidateID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.CandidateSubject{}).
		Where("candidate_id = ?", candidateID).
		Order("id ASC").
		Pluck("subject_id", &ids).Error
	return ids, err
}
