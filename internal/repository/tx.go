package repository

import "gorm.io/gorm"

// TxRunner runs a unit of work inside one database transaction. Services
// depend on this instead of *gorm.DB so the write paths stay exercisable
// with in-memory repositories.
type TxRunner interface {
	InTx(fn func(tx *gorm.DB) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}
