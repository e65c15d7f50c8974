package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/grading"
	"github.com/prepnest/lms-backend/internal/model"
	"github.com/prepnest/lms-backend/internal/repository"
)

// AttemptService runs the candidate attempt lifecycle for both test kinds:
// fetch (with the pass-block mirrored on the read path), grade, clamp the
// reported time against the test's budget, and push the result through the
// attempt ledger inside a row-locked transaction.
type AttemptService interface {
	FetchChapterTest(candidateID, subjectID, chapterID uint) (*dto.FetchChapterTestResponse, error)
	SubmitChapterTest(candidateID, subjectID, chapterID uint, req dto.SubmitChapterTestDTO) (*dto.SubmitTestResponse, error)
	ListSubjectTests(candidateID, subjectID uint) (*dto.SubjectTestListResponse, error)
	SubmitSubjectTest(candidateID, subjectID uint, req dto.SubmitSubjectTestDTO) (*dto.SubmitTestResponse, error)
	Results(candidateID uint) (*dto.CandidateResultsDTO, error)
}

type attemptService struct {
	tx              repository.TxRunner
	eligibility     EligibilityService
	testRepo        repository.TestRepository
	subjectTestRepo repository.SubjectTestRepository
	ledgerRepo      repository.LedgerRepository
}

func NewAttemptService(tx repository.TxRunner, eligibility EligibilityService, testRepo repository.TestRepository, subjectTestRepo repository.SubjectTestRepository, ledgerRepo repository.LedgerRepository) AttemptService {
	return &attemptService{
		tx:              tx,
		eligibility:     eligibility,
		testRepo:        testRepo,
		subjectTestRepo: subjectTestRepo,
		ledgerRepo:      ledgerRepo,
	}
}

func (s *attemptService) FetchChapterTest(candidateID, subjectID, chapterID uint) (*dto.FetchChapterTestResponse, error) {
	subject, chapter, err := s.eligibility.ChapterAccess(candidateID, subjectID, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.LinkedTestID == nil {
		return nil, fmt.Errorf("no test linked with this chapter: %w", ErrNoLinkage)
	}
	testID := *chapter.LinkedTestID

	// Same pass-block as the submit path: a candidate who already passed
	// must not even see the questions again.
	entry, err := s.ledgerRepo.Find(candidateID, model.KindChapterTest, testID)
	if err != nil {
		return nil, err
	}
	if entry != nil && entry.Status == model.StatusPass {
		return nil, &LockedError{
			Reason: "You have already passed this test.",
			Result: attemptResultDTO(entry),
		}
	}

	test, err := s.testRepo.FindByIDWithQuestions(testID)
	if err != nil {
		return nil, asNotFound(err, "linked test")
	}

	resp := &dto.FetchChapterTestResponse{
		Subject: dto.SubjectRefDTO{ID: subject.ID, Name: subject.Name},
		Chapter: dto.ChapterRefDTO{ID: chapter.ID, Name: chapter.Name},
		Test: dto.CandidateTestDTO{
			ID:                      test.ID,
			Title:                   test.Title,
			DurationMin:             test.DurationMin,
			RandomizedQuestionCount: test.RandomizedQuestionCount,
			TotalQuestionCount:      test.TotalQuestionCount,
			PassingPercentage:       test.PassingPercentage,
		},
	}
	for _, q := range test.Questions {
		resp.Test.Questions = append(resp.Test.Questions, dto.CandidateTestQuestionDTO{
			Position: q.Position,
			Question: q.Prompt,
			A:        q.OptionA,
			B:        q.OptionB,
			C:        q.OptionC,
			D:        q.OptionD,
		})
	}
	return resp, nil
}

func (s *attemptService) SubmitChapterTest(candidateID, subjectID, chapterID uint, req dto.SubmitChapterTestDTO) (*dto.SubmitTestResponse, error) {
	if len(req.Answers) == 0 {
		return nil, validationErr("non-empty answers are required")
	}
	subject, chapter, err := s.eligibility.ChapterAccess(candidateID, subjectID, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.LinkedTestID == nil {
		return nil, validationErr("this chapter has no linked test")
	}
	if *chapter.LinkedTestID != req.TestID {
		return nil, validationErr("submitted test does not match the linked test for this chapter")
	}

	test, err := s.testRepo.FindByIDWithQuestions(req.TestID)
	if err != nil {
		return nil, asNotFound(err, "test")
	}

	takenSec := grading.ClampElapsed(test.DurationMin, req.TimeTakenSec)
	res := grading.GradeChapterTest(chapterQuestions(test.Questions), req.Answers, test.PassingPercentage)

	if _, err := s.record(candidateID, model.KindChapterTest, test.ID, res, takenSec); err != nil {
		return nil, err
	}
	log.Info().
		Uint("candidate_id", candidateID).
		Uint("test_id", test.ID).
		Float64("score", res.ScorePercentage).
		Bool("passed", res.Passed).
		Msg("chapter test submitted")

	resp := submitResponse(subject, test.ID, test.Title, test.PassingPercentage, res, takenSec)
	resp.Chapter = &dto.ChapterRefDTO{ID: chapter.ID, Name: chapter.Name}
	return resp, nil
}

func (s *attemptService) ListSubjectTests(candidateID, subjectID uint) (*dto.SubjectTestListResponse, error) {
	subject, err := s.eligibility.SubjectAccess(candidateID, subjectID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SubjectTestListResponse{
		Subject: dto.SubjectRefDTO{ID: subject.ID, Name: subject.Name},
		Tests:   []dto.SubjectTestSummaryDTO{},
	}
	ids := make([]uint, 0, len(subject.LinkedSubjectTests))
	for _, l := range subject.LinkedSubjectTests {
		ids = append(ids, l.SubjectTestID)
	}
	if len(ids) == 0 {
		return resp, nil
	}

	passedIDs, err := s.ledgerRepo.PassedTestIDs(candidateID, model.KindSubjectTest)
	if err != nil {
		return nil, err
	}
	passed := make(map[uint]struct{}, len(passedIDs))
	for _, id := range passedIDs {
		passed[id] = struct{}{}
	}

	tests, err := s.subjectTestRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	for _, t := range tests {
		if _, ok := passed[t.ID]; ok {
			continue
		}
		resp.Tests = append(resp.Tests, dto.SubjectTestSummaryDTO{
			ID:                 t.ID,
			Title:              t.Title,
			FilePath:           t.FilePath,
			DurationMin:        t.DurationMin,
			TotalQuestionCount: t.TotalQuestionCount,
			PassingPercentage:  t.PassingPercentage,
			CreatedAt:          t.CreatedAt,
		})
	}
	resp.Count = len(resp.Tests)
	resp.Meta = &dto.SubjectTestListMeta{
		TotalLinked:    len(ids),
		PassedCount:    len(ids) - len(resp.Tests),
		RemainingCount: len(resp.Tests),
	}
	resp.AllPassed = len(resp.Tests) == 0
	return resp, nil
}

func (s *attemptService) SubmitSubjectTest(candidateID, subjectID uint, req dto.SubmitSubjectTestDTO) (*dto.SubmitTestResponse, error) {
	if len(req.Answers) == 0 {
		return nil, validationErr("non-empty answers are required")
	}
	subject, err := s.eligibility.SubjectAccess(candidateID, subjectID)
	if err != nil {
		return nil, err
	}
	linked := false
	for _, l := range subject.LinkedSubjectTests {
		if l.SubjectTestID == req.SubjectTestID {
			linked = true
			break
		}
	}
	if !linked {
		return nil, validationErr("this subject does not have the provided subject test linked")
	}

	test, err := s.subjectTestRepo.FindByIDWithQuestions(req.SubjectTestID)
	if err != nil {
		return nil, asNotFound(err, "subject test")
	}

	takenSec := grading.ClampElapsed(test.DurationMin, req.TimeTakenSec)
	res := grading.GradeSubjectTest(subjectQuestions(test.Questions), req.Answers, test.TotalQuestionCount, test.PassingPercentage)

	if _, err := s.record(candidateID, model.KindSubjectTest, test.ID, res, takenSec); err != nil {
		return nil, err
	}
	log.Info().
		Uint("candidate_id", candidateID).
		Uint("subject_test_id", test.ID).
		Float64("score", res.ScorePercentage).
		Bool("passed", res.Passed).
		Msg("subject test submitted")

	return submitResponse(subject, test.ID, test.Title, test.PassingPercentage, res, takenSec), nil
}

func (s *attemptService) Results(candidateID uint) (*dto.CandidateResultsDTO, error) {
	out := &dto.CandidateResultsDTO{
		TestResults:     []dto.AttemptResultDTO{},
		SubtestResults:  []dto.AttemptResultDTO{},
		PracticeResults: []dto.PracticeResultDTO{},
	}
	tests, err := s.ledgerRepo.FindAll(candidateID, model.KindChapterTest)
	if err != nil {
		return nil, err
	}
	for i := range tests {
		out.TestResults = append(out.TestResults, attemptResultDTO(&tests[i]))
	}
	subtests, err := s.ledgerRepo.FindAll(candidateID, model.KindSubjectTest)
	if err != nil {
		return nil, err
	}
	for i := range subtests {
		out.SubtestResults = append(out.SubtestResults, attemptResultDTO(&subtests[i]))
	}
	practice, err := s.ledgerRepo.FindPracticeResults(candidateID)
	if err != nil {
		return nil, err
	}
	for _, p := range practice {
		out.PracticeResults = append(out.PracticeResults, dto.PracticeResultDTO{
			PracticeID:   p.PracticeID,
			SubjectID:    p.SubjectID,
			ChapterID:    p.ChapterID,
			Level:        p.Level,
			Attempted:    p.Attempted,
			Correct:      p.Correct,
			Incorrect:    p.Attempted - p.Correct,
			ScorePercent: p.ScorePercent,
			UpdatedAt:    p.UpdatedAt,
		})
	}
	return out, nil
}

// record runs one ledger transition under a row lock so two concurrent
// submissions for the same (candidate, kind, test) serialize: the second
// either sees the first's fail row (and bumps the counter) or its pass row
// (and is rejected locked). Two concurrent FIRST attempts both see no row,
// so the loser's insert trips the unique index; the transition is re-run
// once and proceeds against the winner's committed row.
func (s *attemptService) record(candidateID uint, kind model.TestKind, testID uint, res grading.Result, takenSec int) (*model.AttemptResult, error) {
	saved, err := s.transition(candidateID, kind, testID, res, takenSec)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		saved, err = s.transition(candidateID, kind, testID, res, takenSec)
	}
	return saved, err
}

func (s *attemptService) transition(candidateID uint, kind model.TestKind, testID uint, res grading.Result, takenSec int) (*model.AttemptResult, error) {
	var saved *model.AttemptResult
	err := s.tx.InTx(func(tx *gorm.DB) error {
		existing, err := s.ledgerRepo.FindForUpdate(tx, candidateID, kind, testID)
		if err != nil {
			return err
		}

		var prior *grading.LedgerEntry
		row := existing
		if existing != nil {
			prior = &grading.LedgerEntry{
				ScorePercentage: existing.ScorePercentage,
				Status:          existing.Status,
				AttemptCount:    existing.AttemptCount,
				AttemptedAt:     existing.AttemptedAt,
				TimeTakenSec:    existing.TimeTakenSec,
			}
		} else {
			row = &model.AttemptResult{CandidateID: candidateID, Kind: kind, TestID: testID}
		}

		entry, locked := grading.ApplyAttempt(prior, res, takenSec, time.Now())
		if locked {
			return &LockedError{Reason: lockedMessage(kind), Result: attemptResultDTO(existing)}
		}

		row.ScorePercentage = entry.ScorePercentage
		row.Status = entry.Status
		row.AttemptCount = entry.AttemptCount
		row.AttemptedAt = entry.AttemptedAt
		row.TimeTakenSec = entry.TimeTakenSec
		if err := s.ledgerRepo.Save(tx, row); err != nil {
			return err
		}
		saved = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func lockedMessage(kind model.TestKind) string {
	if kind == model.KindSubjectTest {
		return "You have already passed this subject test."
	}
	return "You have already passed this test."
}

func attemptResultDTO(r *model.AttemptResult) dto.AttemptResultDTO {
	if r == nil {
		return dto.AttemptResultDTO{}
	}
	return dto.AttemptResultDTO{
		TestID:          r.TestID,
		ScorePercentage: r.ScorePercentage,
		Status:          r.Status,
		AttemptCount:    r.AttemptCount,
		AttemptedAt:     r.AttemptedAt,
		TimeTakenSec:    r.TimeTakenSec,
	}
}

func submitResponse(subject *model.Subject, testID uint, title string, passing float64, res grading.Result, takenSec int) *dto.SubmitTestResponse {
	resp := &dto.SubmitTestResponse{
		Subject: dto.SubjectRefDTO{ID: subject.ID, Name: subject.Name},
		Grading: dto.GradingDTO{
			TotalQuestions:  res.TotalQuestions,
			Attempted:       res.Attempted,
			Correct:         res.Correct,
			ScorePercentage: res.ScorePercentage,
			Passed:          res.Passed,
			TimeTakenSec:    takenSec,
		},
		ResultStored: true,
	}
	resp.Test.ID = testID
	resp.Test.Title = title
	resp.Test.PassingPercentage = passing
	return resp
}

// Option keys are positional; empty option cells keep their key so a
// submitted letter always resolves to the stored cell text.
func chapterQuestions(qs []model.TestQuestion) []grading.Question {
	out := make([]grading.Question, len(qs))
	for i, q := range qs {
		out[i] = grading.Question{
			Prompt: q.Prompt,
			Options: []grading.Option{
				{Key: "A", Text: q.OptionA},
				{Key: "B", Text: q.OptionB},
				{Key: "C", Text: q.OptionC},
				{Key: "D", Text: q.OptionD},
			},
			Answer: q.Answer,
		}
	}
	return out
}

func subjectQuestions(qs []model.SubjectTestQuestion) []grading.Question {
	out := make([]grading.Question, len(qs))
	for i, q := range qs {
		out[i] = grading.Question{
			Prompt: q.Prompt,
			Options: []grading.Option{
				{Key: "A", Text: q.OptionA},
				{Key: "B", Text: q.OptionB},
				{Key: "C", Text: q.OptionC},
				{Key: "D", Text: q.OptionD},
			},
			Answer: q.Answer,
		}
	}
	return out
}
