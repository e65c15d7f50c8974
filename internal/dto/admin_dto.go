package dto

import "time"

type AdminRegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AdminDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// TestSummaryDTO lists an ingested chapter-test bank.
type TestSummaryDTO struct {
	ID                      uint      `json:"id"`
	Title                   string    `json:"title"`
	FilePath                string    `json:"file_path"`
	DurationMin             int       `json:"duration_min"`
	RandomizedQuestionCount int       `json:"randomized_question_count"`
	TotalQuestionCount      int       `json:"total_question_count"`
	PassingPercentage       float64   `json:"passing_percentage"`
	CreatedAt               time.Time `json:"created_at"`
}

type SubjectTestSummaryDTO struct {
	ID                 uint      `json:"id"`
	Title              string    `json:"title"`
	FilePath           string    `json:"file_path"`
	DurationMin        int       `json:"duration_min"`
	TotalQuestionCount int       `json:"total_question_count"`
	PassingPercentage  float64   `json:"passing_percentage"`
	CreatedAt          time.Time `json:"created_at"`
}

type PracticeSummaryDTO struct {
	ID                 uint      `json:"id"`
	Title              string    `json:"title"`
	Category           string    `json:"category"`
	TotalQuestionCount int       `json:"total_question_count"`
	CreatedAt          time.Time `json:"created_at"`
}

// BankQuestionDTO is the preview row shape shared by chapter and subject
// test banks.
type BankQuestionDTO struct {
	Position int    `json:"position"`
	Question string `json:"question"`
	A        string `json:"a"`
	B        string `json:"b"`
	C        string `json:"c"`
	D        string `json:"d"`
	Answer   string `json:"answer"`
}

type BankPreviewDTO struct {
	TestTitle string            `json:"test_title"`
	Questions []BankQuestionDTO `json:"questions"`
}

type PracticeQuestionDTO struct {
	Position      int      `json:"position"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	CorrectIndex  int      `json:"correct_index"`
	Level         string   `json:"level"`
}

type PracticePreviewDTO struct {
	Title              string                `json:"title"`
	Category           string                `json:"category"`
	TotalQuestionCount int                   `json:"total_question_count"`
	Questions          []PracticeQuestionDTO `json:"questions"`
}

// --- Subject aggregate administration ---

type SubjectCreateDTO struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Category    string `json:"category" binding:"max=100"`
}

type ChapterCreateDTO struct {
	Name        string `json:"name" binding:"required,min=2,max=150"`
	Description string `json:"description" binding:"max=2000"`
	PDFPath     string `json:"pdf_path" binding:"required"`
	VideoPath   string `json:"video_path"`
}

type TopicDTO struct {
	Name          string `json:"name" binding:"required,min=2,max=200"`
	PDFPage       int    `json:"pdf_page" binding:"min=0"`
	VideoStartSec int    `json:"video_start_sec" binding:"min=0"`
	VideoEndSec   int    `json:"video_end_sec" binding:"min=0"`
}

type LinkTestDTO struct {
	TestID uint `json:"test_id" binding:"required"`
}

type LinkPracticeDTO struct {
	PracticeID uint `json:"practice_id" binding:"required"`
}

type LinkSubjectTestsDTO struct {
	SubjectTestIDs []uint `json:"subject_test_ids" binding:"required,min=1"`
}
