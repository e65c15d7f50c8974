package repository

import (
	"github.com/prepnest/lms-backend/internal/model"
	"gorm.io/gorm"
)

// SubjectRepository persists the Subject aggregate. Nested chapters and
// topics are located by id at the service layer and written back through
// the targeted Save/Add methods here; no store-specific positional update
// syntax leaks out of this package.
type SubjectRepository interface {
	Create(s *model.Subject) error
	FindByID(id uint) (*model.Subject, error)
	FindByIDWithChildren(id uint) (*model.Subject, error)
	FindByIDs(ids []uint) ([]model.Subject, error)
	FindByName(name string) (*model.Subject, error)
	FindByNamesOrIDs(names []string, ids []uint) ([]model.Subject, error)
	FindAll() ([]model.Subject, error)

	AddChapter(ch *model.Chapter) error
	SaveChapter(ch *model.Chapter) error
	AddTopic(t *model.Topic) error
	SaveTopic(t *model.Topic) error

	AddLinkedSubjectTests(links []model.LinkedSubjectTest) error
	RemoveLinkedSubjectTest(subjectID, subjectTestID uint) error
}

type subjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Create(s *model.Subject) error {
	return r.db.Create(s).Error
}

func (r *subjectRepository) FindByID(id uint) (*model.Subject, error) {
	var s model.Subject
	err := r.db.First(&s, id).Error
	return &s, err
}

func (r *subjectRepository) FindByIDWithChildren(id uint) (*model.Subject, error) {
	var s model.Subject
	err := r.db.
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("chapters.created_at ASC")
		}).
		Preload("Chapters.Topics", func(db *gorm.DB) *gorm.DB {
			return db.Order("topics.created_at ASC")
		}).
		Preload("LinkedSubjectTests").
		First(&s, id).Error
	return &s, err
}

func (r *subjectRepository) FindByIDs(ids []uint) ([]model.Subject, error) {
	var subjects []model.Subject
	if len(ids) == 0 {
		return subjects, nil
	}
	err := r.db.
		Preload("Chapters").
		Preload("Chapters.Topics").
		Where("id IN ?", ids).
		Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepository) FindByName(name string) (*model.Subject, error) {
	var s model.Subject
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&s).Error
	return &s, err
}

func (r *subjectRepository) FindByNamesOrIDs(names []string, ids []uint) ([]model.Subject, error) {
	var subjects []model.Subject
	q := r.db.Model(&model.Subject{})
	switch {
	case len(names) > 0 && len(ids) > 0:
		q = q.Where("id IN ? OR name IN ?", ids, names)
	case len(ids) > 0:
		q = q.Where("id IN ?", ids)
	case len(names) > 0:
		q = q.Where("name IN ?", names)
	default:
		return subjects, nil
	}
	err := q.Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepository) FindAll() ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.Order("name ASC").Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepository) AddChapter(ch *model.Chapter) error {
	return r.db.Create(ch).Error
}

func (r *subjectRepository) SaveChapter(ch *model.Chapter) error {
	return r.db.Save(ch).Error
}

func (r *subjectRepository) AddTopic(t *model.Topic) error {
	return r.db.Create(t).Error
}

func (r *subjectRepository) SaveTopic(t *model.Topic) error {
	return r.db.Save(t).Error
}

func (r *subjectRepository) AddLinkedSubjectTests(links []model.LinkedSubjectTest) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.Create(&links).Error
}

func (r *subjectRepository) RemoveLinkedSubjectTest(subjectID, subjectTestID uint) error {
	return r.db.
		Where("subject_id = ? AND subject_test_id = ?", subjectID, subjectTestID).
		Delete(&model.LinkedSubjectTest{}).Error
}
