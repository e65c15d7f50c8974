package service

import (
	"os"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/repository"
)

// BankService is the admin view over ingested banks: listings, previews
// re-read from the stored workbook, original-file downloads and deletion.
// Deleting a bank removes its workbook from disk as well.
type BankService interface {
	ListTests() ([]dto.TestSummaryDTO, error)
	PreviewTest(id uint) (*dto.BankPreviewDTO, error)
	TestFile(id uint) (localPath string, err error)
	DeleteTest(id uint) error

	ListSubjectTests() ([]dto.SubjectTestSummaryDTO, error)
	PreviewSubjectTest(id uint) (*dto.BankPreviewDTO, error)
	SubjectTestFile(id uint) (localPath string, err error)
	DeleteSubjectTest(id uint) error

	ListPractices() ([]dto.PracticeSummaryDTO, error)
	PreviewPractice(id uint) (*dto.PracticePreviewDTO, error)
	PracticeFile(id uint) (localPath string, err error)
	DeletePractice(id uint) error
}

type bankService struct {
	testRepo        repository.TestRepository
	subjectTestRepo repository.SubjectTestRepository
	practiceRepo    repository.PracticeRepository
}

func NewBankService(testRepo repository.TestRepository, subjectTestRepo repository.SubjectTestRepository, practiceRepo repository.PracticeRepository) BankService {
	return &bankService{testRepo: testRepo, subjectTestRepo: subjectTestRepo, practiceRepo: practiceRepo}
}

func (s *bankService) ListTests() ([]dto.TestSummaryDTO, error) {
	tests, err := s.testRepo.FindAll()
	if err != nil {
		return nil, err
	}
	out := []dto.TestSummaryDTO{}
	if err := copier.Copy(&out, &tests); err != nil {
		return nil, err
	}
	return out, nil
}

// PreviewTest re-reads the stored workbook so the admin sees exactly what
// was uploaded, answer column included.
func (s *bankService) PreviewTest(id uint) (*dto.BankPreviewDTO, error) {
	test, err := s.testRepo.FindByID(id)
	if err != nil {
		return nil, asNotFound(err, "test")
	}
	questions, err := previewPositional(test.LocalPath)
	if err != nil {
		return nil, err
	}
	return &dto.BankPreviewDTO{TestTitle: test.Title, Questions: questions}, nil
}

func (s *bankService) TestFile(id uint) (string, error) {
	test, err := s.testRepo.FindByID(id)
	if err != nil {
		return "", asNotFound(err, "test")
	}
	return test.LocalPath, nil
}

func (s *bankService) DeleteTest(id uint) error {
	test, err := s.testRepo.FindByID(id)
	if err != nil {
		return asNotFound(err, "test")
	}
	removeBankFile(test.LocalPath)
	return s.testRepo.Delete(test)
}

func (s *bankService) ListSubjectTests() ([]dto.SubjectTestSummaryDTO, error) {
	tests, err := s.subjectTestRepo.FindAll()
	if err != nil {
		return nil, err
	}
	out := []dto.SubjectTestSummaryDTO{}
	if err := copier.Copy(&out, &tests); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *bankService) PreviewSubjectTest(id uint) (*dto.BankPreviewDTO, error) {
	test, err := s.subjectTestRepo.FindByID(id)
	if err != nil {
		return nil, asNotFound(err, "subject test")
	}
	questions, err := previewPositional(test.LocalPath)
	if err != nil {
		return nil, err
	}
	return &dto.BankPreviewDTO{TestTitle: test.Title, Questions: questions}, nil
}

func (s *bankService) SubjectTestFile(id uint) (string, error) {
	test, err := s.subjectTestRepo.FindByID(id)
	if err != nil {
		return "", asNotFound(err, "subject test")
	}
	return test.LocalPath, nil
}

func (s *bankService) DeleteSubjectTest(id uint) error {
	test, err := s.subjectTestRepo.FindByID(id)
	if err != nil {
		return asNotFound(err, "subject test")
	}
	removeBankFile(test.LocalPath)
	return s.subjectTestRepo.Delete(test)
}

func (s *bankService) ListPractices() ([]dto.PracticeSummaryDTO, error) {
	practices, err := s.practiceRepo.FindAll()
	if err != nil {
		return nil, err
	}
	out := []dto.PracticeSummaryDTO{}
	if err := copier.Copy(&out, &practices); err != nil {
		return nil, err
	}
	return out, nil
}

// PreviewPractice serves the stored rows, answers included; this is the
// admin path, so nothing is stripped.
func (s *bankService) PreviewPractice(id uint) (*dto.PracticePreviewDTO, error) {
	practice, err := s.practiceRepo.FindByIDWithQuestions(id)
	if err != nil {
		return nil, asNotFound(err, "practice")
	}
	out := &dto.PracticePreviewDTO{
		Title:              practice.Title,
		Category:           practice.Category,
		TotalQuestionCount: practice.TotalQuestionCount,
		Questions:          []dto.PracticeQuestionDTO{},
	}
	for _, q := range practice.Questions {
		out.Questions = append(out.Questions, dto.PracticeQuestionDTO{
			Position:      q.Position,
			Question:      q.Prompt,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			CorrectIndex:  q.CorrectIndex,
			Level:         q.Level,
		})
	}
	return out, nil
}

func (s *bankService) PracticeFile(id uint) (string, error) {
	practice, err := s.practiceRepo.FindByID(id)
	if err != nil {
		return "", asNotFound(err, "practice")
	}
	return practice.LocalPath, nil
}

func (s *bankService) DeletePractice(id uint) error {
	practice, err := s.practiceRepo.FindByID(id)
	if err != nil {
		return asNotFound(err, "practice")
	}
	removeBankFile(practice.LocalPath)
	return s.practiceRepo.Delete(practice)
}

func previewPositional(localPath string) ([]dto.BankQuestionDTO, error) {
	rows, err := firstSheetRows(localPath)
	if err != nil {
		return nil, err
	}
	out := []dto.BankQuestionDTO{}
	for i := 2; i < len(rows); i++ {
		q, ok := positionalQuestion(rows[i], len(out))
		if !ok {
			continue
		}
		out = append(out, dto.BankQuestionDTO{
			Position: q.Position,
			Question: q.Prompt,
			A:        q.OptionA,
			B:        q.OptionB,
			C:        q.OptionC,
			D:        q.OptionD,
			Answer:   q.Answer,
		})
	}
	return out, nil
}

func removeBankFile(localPath string) {
	if localPath == "" {
		return
	}
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", localPath).Msg("could not remove bank file")
	}
}
