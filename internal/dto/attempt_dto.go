package dto

import (
	"time"

	"github.com/prepnest/lms-backend/internal/grading"
)

// SubmitChapterTestDTO carries the answers for a chapter test. Each answer
// index refers to the original question order even when the client
// presented a randomized subset.
type SubmitChapterTestDTO struct {
	TestID       uint             `json:"test_id" binding:"required"`
	Answers      []grading.Answer `json:"answers" binding:"required,min=1"`
	TimeTakenSec float64          `json:"time_taken_sec"`
}

type SubmitSubjectTestDTO struct {
	SubjectTestID uint             `json:"subject_test_id" binding:"required"`
	Answers       []grading.Answer `json:"answers" binding:"required,min=1"`
	TimeTakenSec  float64          `json:"time_taken_sec"`
}

// AttemptResultDTO mirrors one ledger entry; it is also the payload
// returned alongside a "locked" rejection.
type AttemptResultDTO struct {
	TestID          uint      `json:"test_id"`
	ScorePercentage float64   `json:"score_percentage"`
	Status          string    `json:"status"`
	AttemptCount    int       `json:"attempt_count"`
	AttemptedAt     time.Time `json:"attempted_at"`
	TimeTakenSec    int       `json:"time_taken_sec"`
}

type GradingDTO struct {
	TotalQuestions  int     `json:"total_questions"`
	Attempted       int     `json:"attempted"`
	Correct         int     `json:"correct"`
	ScorePercentage float64 `json:"score_percentage"`
	Passed          bool    `json:"passed"`
	TimeTakenSec    int     `json:"time_taken_sec"`
}

type SubjectRefDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ChapterRefDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CandidateTestDTO is the bank as served for an attempt: answers stripped.
type CandidateTestQuestionDTO struct {
	Position int    `json:"position"`
	Question string `json:"question"`
	A        string `json:"a"`
	B        string `json:"b"`
	C        string `json:"c"`
	D        string `json:"d"`
}

type CandidateTestDTO struct {
	ID                      uint                       `json:"id"`
	Title                   string                     `json:"title"`
	DurationMin             int                        `json:"duration_min"`
	RandomizedQuestionCount int                        `json:"randomized_question_count"`
	TotalQuestionCount      int                        `json:"total_question_count"`
	PassingPercentage       float64                    `json:"passing_percentage"`
	Questions               []CandidateTestQuestionDTO `json:"questions"`
}

type FetchChapterTestResponse struct {
	Subject SubjectRefDTO    `json:"subject"`
	Chapter ChapterRefDTO    `json:"chapter"`
	Test    CandidateTestDTO `json:"test"`
}

type SubmitTestResponse struct {
	Subject SubjectRefDTO `json:"subject"`
	Chapter *ChapterRefDTO `json:"chapter,omitempty"`
	Test    struct {
		ID                uint    `json:"id"`
		Title             string  `json:"title"`
		PassingPercentage float64 `json:"passing_percentage"`
	} `json:"test"`
	Grading      GradingDTO `json:"grading"`
	ResultStored bool       `json:"result_stored"`
}

// LockedResponse is returned with HTTP 409 when a submission or fetch hits
// a passed (locked) ledger entry; it carries the stored result so the UI
// needs no second round-trip.
type LockedResponse struct {
	Message string           `json:"message"`
	Locked  bool             `json:"locked"`
	Result  AttemptResultDTO `json:"result"`
}

type SubjectTestListResponse struct {
	Subject   SubjectRefDTO           `json:"subject"`
	Count     int                     `json:"count"`
	Tests     []SubjectTestSummaryDTO `json:"tests"`
	AllPassed bool                    `json:"all_passed,omitempty"`
	Meta      *SubjectTestListMeta    `json:"meta,omitempty"`
}

type SubjectTestListMeta struct {
	TotalLinked    int `json:"total_linked"`
	PassedCount    int `json:"passed_count"`
	RemainingCount int `json:"remaining_count"`
}

// --- Practice ---

type FinishPracticeDTO struct {
	PracticeID uint                     `json:"practice_id" binding:"required"`
	Level      string                   `json:"level"`
	Answers    []grading.PracticeAnswer `json:"answers"`
}

type PracticeResultDTO struct {
	PracticeID   uint      `json:"practice_id"`
	SubjectID    uint      `json:"subject_id"`
	ChapterID    uint      `json:"chapter_id"`
	Level        string    `json:"level"`
	Attempted    int       `json:"attempted"`
	Correct      int       `json:"correct"`
	Incorrect    int       `json:"incorrect"`
	ScorePercent int       `json:"score_percent"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type FetchPracticeResponse struct {
	Subject  SubjectRefDTO      `json:"subject"`
	Chapter  ChapterRefDTO      `json:"chapter"`
	Practice PracticePreviewDTO `json:"practice"`
}

type CandidateResultsDTO struct {
	TestResults     []AttemptResultDTO  `json:"test_results"`
	SubtestResults  []AttemptResultDTO  `json:"subtest_results"`
	PracticeResults []PracticeResultDTO `json:"practice_results"`
}
