package repository

import (
	"github.com/prepnest/lms-backend/internal/model"
	"gorm.io/gorm"
)

type SubjectTestRepository interface {
	Create(test *model.SubjectTest) error
	FindByID(id uint) (*model.SubjectTest, error)
	FindByIDWithQuestions(id uint) (*model.SubjectTest, error)
	FindByIDs(ids []uint) ([]model.SubjectTest, error)
	FindAll() ([]model.SubjectTest, error)
	Delete(test *model.SubjectTest) error
}

type subjectTestRepository struct {
	db *gorm.DB
}

func NewSubjectTestRepository(db *gorm.DB) SubjectTestRepository {
	return &subjectTestRepository{db: db}
}

func (r *subjectTestRepository) Create(test *model.SubjectTest) error {
	return r.db.Create(test).Error
}

func (r *subjectTestRepository) FindByID(id uint) (*model.SubjectTest, error) {
	var test model.SubjectTest
	err := r.db.First(&test, id).Error
	return &test, err
}

func (r *subjectTestRepository) FindByIDWithQuestions(id uint) (*model.SubjectTest, error) {
	var test model.SubjectTest
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("subject_test_questions.position ASC")
	}).First(&test, id).Error
	return &test, err
}

func (r *subjectTestRepository) FindByIDs(ids []uint) ([]model.SubjectTest, error) {
	var tests []model.SubjectTest
	if len(ids) == 0 {
		return tests, nil
	}
	err := r.db.Where("id IN ?", ids).Order("created_at DESC").Find(&tests).Error
	return tests, err
}

func (r *subjectTestRepository) FindAll() ([]model.SubjectTest, error) {
	var tests []model.SubjectTest
	err := r.db.Order("created_at DESC").Find(&tests).Error
	return tests, err
}

func (r *subjectTestRepository) Delete(test *model.SubjectTest) error {
	return r.db.Select("Questions").Delete(test).Error
}
