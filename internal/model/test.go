package model

import "time"

// Test is a chapter-level question bank ingested from an uploaded workbook.
// Banks are immutable after ingestion; re-uploading creates a new bank.
type Test struct {
	ID                      uint           `gorm:"primarykey" json:"id"`
	Title                   string         `json:"title" gorm:"not null"`
	FilePath                string         `json:"file_path" gorm:"not null"` // public URL path under /uploads
	LocalPath               string         `json:"-" gorm:"not null"`         // on-disk path for preview/download/delete
	DurationMin             int            `json:"duration_min" gorm:"not null;default:0"` // 0 = untimed
	RandomizedQuestionCount int            `json:"randomized_question_count" gorm:"not null;default:0"`
	TotalQuestionCount      int            `json:"total_question_count" gorm:"not null;default:0"`
	PassingPercentage       float64        `json:"passing_percentage" gorm:"not null;default:0"`
	Questions               []TestQuestion `json:"questions,omitempty" gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
}

// TestQuestion keeps the positional A-D option shape of the source sheet.
// Answer holds the raw correct-answer cell; matching it against an option
// is deferred to grading time.
type TestQuestion struct {
	ID       uint   `gorm:"primarykey" json:"-"`
	TestID   uint   `json:"-" gorm:"not null;index"`
	Position int    `json:"position" gorm:"not null"` // zero-based original order
	Prompt   string `json:"question" gorm:"type:text;not null"`
	OptionA  string `json:"a" gorm:"type:text"`
	OptionB  string `json:"b" gorm:"type:text"`
	OptionC  string `json:"c" gorm:"type:text"`
	OptionD  string `json:"d" gorm:"type:text"`
	Answer   string `json:"answer" gorm:"type:text"`
}
