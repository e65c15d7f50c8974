package model

import "time"

// SubjectTest is a subject-level question bank. Same shape as Test minus the
// randomized subset size; its stored TotalQuestionCount is the grading
// denominator for submissions against it.
type SubjectTest struct {
	ID                 uint                  `gorm:"primarykey" json:"id"`
	Title              string                `json:"title" gorm:"not null"`
	FilePath           string                `json:"file_path" gorm:"not null"`
	LocalPath          string                `json:"-" gorm:"not null"`
	DurationMin        int                   `json:"duration_min" gorm:"not null;default:0"`
	TotalQuestionCount int                   `json:"total_question_count" gorm:"not null;default:0"`
	PassingPercentage  float64               `json:"passing_percentage" gorm:"not null;default:0"`
	Questions          []SubjectTestQuestion `json:"questions,omitempty" gorm:"foreignKey:SubjectTestID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

type SubjectTestQuestion struct {
	ID            uint   `gorm:"primarykey" json:"-"`
	SubjectTestID uint   `json:"-" gorm:"not null;index"`
	Position      int    `json:"position" gorm:"not null"`
	Prompt        string `json:"question" gorm:"type:text;not null"`
	OptionA       string `json:"a" gorm:"type:text"`
	OptionB       string `json:"b" gorm:"type:text"`
	OptionC       string `json:"c" gorm:"type:text"`
	OptionD       string `json:"d" gorm:"type:text"`
	Answer        string `json:"answer" gorm:"type:text"`
}
