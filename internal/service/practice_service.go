package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/grading"
	"github.com/prepnest/lms-backend/internal/model"
	"github.com/prepnest/lms-backend/internal/repository"
)

// PracticeService runs practice sessions: fetch the linked bank for a
// chapter, and on finish grade the answers server-side against the stored
// bank. Unlike tests, a finish always overwrites the previous result for
// the (candidate, practice) pair; there is no lock and no attempt counter.
type PracticeService interface {
	FetchPractice(candidateID, subjectID, chapterID uint) (*dto.FetchPracticeResponse, error)
	FinishPractice(candidateID, subjectID, chapterID uint, req dto.FinishPracticeDTO) (*dto.PracticeResultDTO, error)
}

type practiceService struct {
	tx           repository.TxRunner
	eligibility  EligibilityService
	practiceRepo repository.PracticeRepository
	ledgerRepo   repository.LedgerRepository
}

func NewPracticeService(tx repository.TxRunner, eligibility EligibilityService, practiceRepo repository.PracticeRepository, ledgerRepo repository.LedgerRepository) PracticeService {
	return &practiceService{tx: tx, eligibility: eligibility, practiceRepo: practiceRepo, ledgerRepo: ledgerRepo}
}

func (s *practiceService) FetchPractice(candidateID, subjectID, chapterID uint) (*dto.FetchPracticeResponse, error) {
	subject, chapter, err := s.eligibility.ChapterAccess(candidateID, subjectID, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.LinkedPracticeID == nil {
		return nil, fmt.Errorf("no practice linked with this chapter: %w", ErrNoLinkage)
	}

	practice, err := s.practiceRepo.FindByIDWithQuestions(*chapter.LinkedPracticeID)
	if err != nil {
		return nil, asNotFound(err, "linked practice")
	}

	resp := &dto.FetchPracticeResponse{
		Subject: dto.SubjectRefDTO{ID: subject.ID, Name: subject.Name},
		Chapter: dto.ChapterRefDTO{ID: chapter.ID, Name: chapter.Name},
		Practice: dto.PracticePreviewDTO{
			Title:              practice.Title,
			Category:           practice.Category,
			TotalQuestionCount: practice.TotalQuestionCount,
			Questions:          []dto.PracticeQuestionDTO{},
		},
	}
	for _, q := range practice.Questions {
		resp.Practice.Questions = append(resp.Practice.Questions, dto.PracticeQuestionDTO{
			Position:     q.Position,
			Question:     q.Prompt,
			Options:      q.Options,
			CorrectIndex: -1, // never reveal the answer on the candidate path
			Level:        q.Level,
		})
	}
	return resp, nil
}

func (s *practiceService) FinishPractice(candidateID, subjectID, chapterID uint, req dto.FinishPracticeDTO) (*dto.PracticeResultDTO, error) {
	subject, chapter, err := s.eligibility.ChapterAccess(candidateID, subjectID, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.LinkedPracticeID == nil || *chapter.LinkedPracticeID != req.PracticeID {
		return nil, validationErr("provided practice does not match chapter link")
	}

	practice, err := s.practiceRepo.FindByIDWithQuestions(req.PracticeID)
	if err != nil {
		return nil, asNotFound(err, "practice")
	}

	// Answers index into the same level-filtered list the client was shown.
	questions := levelQuestions(practice.Questions, req.Level)
	outcome := grading.ScorePractice(questions, req.Answers)

	row := &model.PracticeResult{
		CandidateID:  candidateID,
		PracticeID:   practice.ID,
		SubjectID:    subject.ID,
		ChapterID:    chapter.ID,
		Level:        strings.ToLower(strings.TrimSpace(req.Level)),
		Attempted:    outcome.Attempted,
		Correct:      outcome.Correct,
		ScorePercent: outcome.Percent,
		UpdatedAt:    time.Now(),
	}
	err = s.tx.InTx(func(tx *gorm.DB) error {
		return s.ledgerRepo.ReplacePracticeResult(tx, row)
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Uint("candidate_id", candidateID).
		Uint("practice_id", practice.ID).
		Int("attempted", outcome.Attempted).
		Int("percent", outcome.Percent).
		Msg("practice finished")

	return &dto.PracticeResultDTO{
		PracticeID:   row.PracticeID,
		SubjectID:    row.SubjectID,
		ChapterID:    row.ChapterID,
		Level:        row.Level,
		Attempted:    outcome.Attempted,
		Correct:      outcome.Correct,
		Incorrect:    outcome.Incorrect,
		ScorePercent: outcome.Percent,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

// levelQuestions keeps the bank's original order while narrowing to one
// difficulty level. An empty or "all" level means the whole bank.
func levelQuestions(qs []model.PracticeQuestion, level string) []grading.PracticeQuestion {
	level = strings.ToLower(strings.TrimSpace(level))
	all := level == "" || level == "all"
	var out []grading.PracticeQuestion
	for _, q := range qs {
		if !all && q.Level != level {
			continue
		}
		out = append(out, grading.PracticeQuestion{
			Prompt:        q.Prompt,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			CorrectIndex:  q.CorrectIndex,
			Level:         q.Level,
		})
	}
	return out
}
