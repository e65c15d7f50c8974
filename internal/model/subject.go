package model

import "time"

// Subject is the aggregate root owning chapters, their topics and the list
// of linked subject-level tests. All nested mutation goes through the
// subject service, which locates the child by id and persists the change.
type Subject struct {
	ID                 uint                `gorm:"primarykey" json:"id"`
	Name               string              `json:"name" gorm:"not null;uniqueIndex"`
	Description        string              `json:"description"`
	Category           string              `json:"category"`
	Chapters           []Chapter           `json:"chapters,omitempty" gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE"`
	LinkedSubjectTests []LinkedSubjectTest `json:"linked_subject_tests,omitempty" gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// Chapter has at most one linked chapter test and at most one linked
// practice set.
type Chapter struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	SubjectID        uint      `json:"subject_id" gorm:"not null;index"`
	Name             string    `json:"name" gorm:"not null"`
	Description      string    `json:"description"`
	PDFPath          string    `json:"pdf_path" gorm:"not null"`
	VideoPath        string    `json:"video_path"`
	LinkedTestID     *uint     `json:"linked_test_id"`
	LinkedPracticeID *uint     `json:"linked_practice_id"`
	Topics           []Topic   `json:"topics,omitempty" gorm:"foreignKey:ChapterID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Topic names a PDF page and a video time range inside a chapter.
type Topic struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ChapterID     uint      `json:"chapter_id" gorm:"not null;index"`
	Name          string    `json:"name" gorm:"not null"`
	PDFPage       int       `json:"pdf_page" gorm:"not null;default:1"`
	VideoStartSec int       `json:"video_start_sec" gorm:"not null;default:0"`
	VideoEndSec   int       `json:"video_end_sec" gorm:"not null;default:0"` // 0 = no end cap
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LinkedSubjectTest pairs the authoritative subject-test id with a cached
// title for display.
type LinkedSubjectTest struct {
	ID            uint   `gorm:"primarykey" json:"-"`
	SubjectID     uint   `json:"-" gorm:"not null;index;uniqueIndex:idx_subject_subject_test"`
	SubjectTestID uint   `json:"subject_test_id" gorm:"not null;uniqueIndex:idx_subject_subject_test"`
	Title         string `json:"title"`
}
