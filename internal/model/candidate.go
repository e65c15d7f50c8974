package model

import "time"

// TestKind selects which attempt ledger a result belongs to. Chapter-level
// and subject-level tests share one ledger table and one state machine.
type TestKind string

const (
	KindChapterTest TestKind = "chapter"
	KindSubjectTest TestKind = "subject"
)

const (
	StatusPass       = "pass"
	StatusFail       = "fail"
	StatusIncomplete = "incomplete"
)

type Candidate struct {
	ID           uint               `gorm:"primarykey" json:"id"`
	Name         string             `json:"name" gorm:"not null"`
	Username     string             `json:"username" gorm:"index"`
	ParentEmail  string             `json:"parent_email" gorm:"not null;index"`
	ParentPhone  string             `json:"parent_phone" gorm:"not null"` // E.164
	Country      string             `json:"country" gorm:"not null"`      // ISO alpha-2
	Method       string             `json:"method" gorm:"not null"`       // chosen payment method
	PasswordHash string             `json:"-" gorm:"not null"`
	Subjects     []CandidateSubject `json:"subjects,omitempty" gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// CandidateSubject is the canonical assignment pair: the id is the
// authority, the name is a display cache. Mixed input shapes (bare ids,
// bare names) are normalized into this at registration.
type CandidateSubject struct {
	ID          uint   `gorm:"primarykey" json:"-"`
	CandidateID uint   `json:"-" gorm:"not null;index;uniqueIndex:idx_candidate_subject"`
	SubjectID   uint   `json:"subject_id" gorm:"not null;uniqueIndex:idx_candidate_subject"`
	Name        string `json:"name"`
}

// AttemptResult is the per-candidate ledger entry for a test, one row per
// (candidate, kind, test). Once Status is "pass" the row is immutable and
// all further submissions are rejected without grading.
type AttemptResult struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CandidateID     uint      `json:"-" gorm:"not null;index;uniqueIndex:idx_candidate_kind_test"`
	Kind            TestKind  `json:"kind" gorm:"not null;uniqueIndex:idx_candidate_kind_test"`
	TestID          uint      `json:"test_id" gorm:"not null;uniqueIndex:idx_candidate_kind_test"`
	ScorePercentage float64   `json:"score_percentage" gorm:"not null"`
	Status          string    `json:"status" gorm:"not null"` // pass | fail | incomplete
	AttemptCount    int       `json:"attempt_count" gorm:"not null;default:1"`
	AttemptedAt     time.Time `json:"attempted_at"`
	TimeTakenSec    int       `json:"time_taken_sec" gorm:"not null;default:0"`
}

// PracticeResult keeps only the latest finish for a (candidate, practice)
// pair; every finish replaces the prior row. No lock, no attempt counter.
type PracticeResult struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CandidateID  uint      `json:"-" gorm:"not null;index;uniqueIndex:idx_candidate_practice"`
	PracticeID   uint      `json:"practice_id" gorm:"not null;uniqueIndex:idx_candidate_practice"`
	SubjectID    uint      `json:"subject_id"`
	ChapterID    uint      `json:"chapter_id"`
	Level        string    `json:"level"`
	Attempted    int       `json:"attempted" gorm:"not null;default:0"`
	Correct      int       `json:"correct" gorm:"not null;default:0"`
	ScorePercent int       `json:"score_percent" gorm:"not null;default:0"`
	UpdatedAt    time.Time `json:"updated_at"`
}
