package repository

import (
	"github.com/prepnest/lms-backend/internal/model"
	"gorm.io/gorm"
)

type PracticeRepository interface {
	Create(p *model.Practice) error
	FindByID(id uint) (*model.Practice, error)
	FindByIDWithQuestions(id uint) (*model.Practice, error)
	FindAll() ([]model.Practice, error)
	Delete(p *model.Practice) error
}

type practiceRepository struct {
	db *gorm.DB
}

func NewPracticeRepository(db *gorm.DB) PracticeRepository {
	return &practiceRepository{db: db}
}

func (r *practiceRepository) Create(p *model.Practice) error {
	return r.db.Create(p).Error
}

func (r *practiceRepository) FindByID(id uint) (*model.Practice, error) {
	var p model.Practice
	err := r.db.First(&p, id).Error
	return &p, err
}

func (r *practiceRepository) FindByIDWithQuestions(id uint) (*model.Practice, error) {
	var p model.Practice
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("practice_questions.position ASC")
	}).First(&p, id).Error
	return &p, err
}

func (r *practiceRepository) FindAll() ([]model.Practice, error) {
	var ps []model.Practice
	err := r.db.Order("created_at DESC").Find(&ps).Error
	return ps, err
}

func (r *practiceRepository) Delete(p *model.Practice) error {
	return r.db.Select("Questions").Delete(p).Error
}
