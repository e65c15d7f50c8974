package model

import "time"

// Practice is a practice question bank partitioned by per-question
// difficulty level rather than a timed/randomized test.
type Practice struct {
	ID                 uint               `gorm:"primarykey" json:"id"`
	Title              string             `json:"title" gorm:"not null"`
	Category           string             `json:"category" gorm:"not null;default:'general'"` // single level, 'mixed' or 'general'
	TotalQuestionCount int                `json:"total_question_count" gorm:"not null;default:0"`
	FilePath           string             `json:"file_path"`
	LocalPath          string             `json:"-"`
	Questions          []PracticeQuestion `json:"questions,omitempty" gorm:"foreignKey:PracticeID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// PracticeQuestion options are the non-empty subset of up to four option
// cells, in sheet order. CorrectIndex is -1 when the correct-answer text
// did not match any option at ingestion time; grading then falls back to
// text comparison.
type PracticeQuestion struct {
	ID            uint     `gorm:"primarykey" json:"-"`
	PracticeID    uint     `json:"-" gorm:"not null;index"`
	Position      int      `json:"position" gorm:"not null"`
	Prompt        string   `json:"question" gorm:"type:text;not null"`
	Options       []string `json:"options" gorm:"serializer:json;type:text"`
	CorrectAnswer string   `json:"correct_answer" gorm:"type:text;not null"`
	CorrectIndex  int      `json:"correct_index" gorm:"not null;default:-1"`
	Level         string   `json:"level" gorm:"not null;default:'general'"`
}
