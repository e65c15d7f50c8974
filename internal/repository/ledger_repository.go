package repository

import (
	"errors"

	"github.com/prepnest/lms-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository holds the per-candidate attempt ledgers. One table and
// one set of methods covers both test kinds; the practice ledger has its
// own overwrite-only methods. Find* return (nil, nil) when no row exists.
type LedgerRepository interface {
	Find(candidateID uint, kind model.TestKind, testID uint) (*model.AttemptResult, error)
	// FindForUpdate takes a row lock so the read-modify-write transition
	// in the attempt service cannot lose an update to a concurrent
	// submission for the same candidate and test.
	FindForUpdate(tx *gorm.DB, candidateID uint, kind model.TestKind, testID uint) (*model.AttemptResult, error)
	Save(tx *gorm.DB, r *model.AttemptResult) error
	FindAll(candidateID uint, kind model.TestKind) ([]model.AttemptResult, error)
	PassedTestIDs(candidateID uint, kind model.TestKind) ([]uint, error)

	ReplacePracticeResult(tx *gorm.DB, r *model.PracticeResult) error
	FindPracticeResults(candidateID uint) ([]model.PracticeResult, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Find(candidateID uint, kind model.TestKind, testID uint) (*model.AttemptResult, error) {
	return find(r.db, candidateID, kind, testID)
}

func (r *ledgerRepository) FindForUpdate(tx *gorm.DB, candidateID uint, kind model.TestKind, testID uint) (*model.AttemptResult, error) {
	return find(tx.Clauses(clause.Locking{Strength: "UPDATE"}), candidateID, kind, testID)
}

func find(db *gorm.DB, candidateID uint, kind model.TestKind, testID uint) (*model.AttemptResult, error) {
	var res model.AttemptResult
	err := db.
		Where("candidate_id = ? AND kind = ? AND test_id = ?", candidateID, kind, testID).
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ledgerRepository) Save(tx *gorm.DB, res *model.AttemptResult) error {
	return tx.Save(res).Error
}

func (r *ledgerRepository) FindAll(candidateID uint, kind model.TestKind) ([]model.AttemptResult, error) {
	var results []model.AttemptResult
	err := r.db.
		Where("candidate_id = ? AND kind = ?", candidateID, kind).
		Order("attempted_at DESC").
		Find(&results).Error
	return results, err
}

func (r *ledgerRepository) PassedTestIDs(candidateID uint, kind model.TestKind) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.AttemptResult{}).
		Where("candidate_id = ? AND kind = ? AND status = ?", candidateID, kind, model.StatusPass).
		Pluck("test_id", &ids).Error
	return ids, err
}

// ReplacePracticeResult deletes any prior row for the (candidate,
// practice) pair and inserts the new one. Callers run it inside a
// transaction so the remove-then-insert pair is atomic.
func (r *ledgerRepository) ReplacePracticeResult(tx *gorm.DB, res *model.PracticeResult) error {
	if err := tx.
		Where("candidate_id = ? AND practice_id = ?", res.CandidateID, res.PracticeID).
		Delete(&model.PracticeResult{}).Error; err != nil {
		return err
	}
	return tx.Create(res).Error
}

func (r *ledgerRepository) FindPracticeResults(candidateID uint) ([]model.PracticeResult, error) {
	var results []model.PracticeResult
	err := r.db.
		Where("candidate_id = ?", candidateID).
		Order("updated_at DESC").
		Find(&results).Error
	return results, err
}
