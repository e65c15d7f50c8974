package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/prepnest/lms-backend/config"
	"github.com/prepnest/lms-backend/internal/model"
	"github.com/prepnest/lms-backend/internal/repository"
)

// IngestService turns uploaded spreadsheets into persisted question banks.
// The original workbook is kept on disk next to the parsed record so admins
// can preview and re-download it later.
type IngestService interface {
	IngestTest(originalName string, src io.Reader) (*model.Test, error)
	IngestSubjectTest(originalName string, src io.Reader) (*model.SubjectTest, error)
	IngestPractice(originalName string, src io.Reader) (*model.Practice, error)
}

type ingestService struct {
	uploadsDir      string
	testRepo        repository.TestRepository
	subjectTestRepo repository.SubjectTestRepository
	practiceRepo    repository.PracticeRepository
}

func NewIngestService(cfg *config.Config, testRepo repository.TestRepository, subjectTestRepo repository.SubjectTestRepository, practiceRepo repository.PracticeRepository) IngestService {
	return &ingestService{
		uploadsDir:      cfg.Uploads.Dir,
		testRepo:        testRepo,
		subjectTestRepo: subjectTestRepo,
		practiceRepo:    practiceRepo,
	}
}

var titleSeparators = regexp.MustCompile(`[_-]+`)

// TitleFromFilename strips the extension and turns separators into spaces.
func TitleFromFilename(name, fallback string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	title := strings.TrimSpace(titleSeparators.ReplaceAllString(base, " "))
	if title == "" {
		return fallback
	}
	return title
}

func (s *ingestService) IngestTest(originalName string, src io.Reader) (*model.Test, error) {
	localPath, publicPath, err := s.saveUpload("tests", originalName, src)
	if err != nil {
		return nil, err
	}
	rows, err := firstSheetRows(localPath)
	if err != nil {
		s.discard(localPath)
		return nil, err
	}

	meta := rowAt(rows, 1)
	test := &model.Test{
		Title:                   TitleFromFilename(originalName, "Test"),
		FilePath:                publicPath,
		LocalPath:               localPath,
		DurationMin:             cellInt(meta, 6),
		TotalQuestionCount:      cellInt(meta, 7),
		RandomizedQuestionCount: cellInt(meta, 8),
		PassingPercentage:       cellFloat(meta, 9),
	}
	for i := 2; i < len(rows); i++ {
		q, ok := positionalQuestion(rows[i], len(test.Questions))
		if !ok {
			continue
		}
		test.Questions = append(test.Questions, model.TestQuestion{
			Position: q.Position,
			Prompt:   q.Prompt,
			OptionA:  q.OptionA,
			OptionB:  q.OptionB,
			OptionC:  q.OptionC,
			OptionD:  q.OptionD,
			Answer:   q.Answer,
		})
	}

	if err := s.testRepo.Create(test); err != nil {
		s.discard(localPath)
		return nil, fmt.Errorf("creating test: %w", err)
	}
	log.Info().Uint("test_id", test.ID).Str("title", test.Title).Int("questions", len(test.Questions)).Msg("chapter test ingested")
	return test, nil
}

func (s *ingestService) IngestSubjectTest(originalName string, src io.Reader) (*model.SubjectTest, error) {
	localPath, publicPath, err := s.saveUpload("subject-tests", originalName, src)
	if err != nil {
		return nil, err
	}
	rows, err := firstSheetRows(localPath)
	if err != nil {
		s.discard(localPath)
		return nil, err
	}

	meta := rowAt(rows, 1)
	st := &model.SubjectTest{
		Title:              TitleFromFilename(originalName, "Subject Test"),
		FilePath:           publicPath,
		LocalPath:          localPath,
		DurationMin:        cellInt(meta, 6),
		PassingPercentage:  cellFloat(meta, 8),
		TotalQuestionCount: cellInt(meta, 7),
	}
	for i := 2; i < len(rows); i++ {
		q, ok := positionalQuestion(rows[i], len(st.Questions))
		if !ok {
			continue
		}
		st.Questions = append(st.Questions, model.SubjectTestQuestion{
			Position: q.Position,
			Prompt:   q.Prompt,
			OptionA:  q.OptionA,
			OptionB:  q.OptionB,
			OptionC:  q.OptionC,
			OptionD:  q.OptionD,
			Answer:   q.Answer,
		})
	}
	// The parsed count wins over the declared one unless nothing parsed.
	if len(st.Questions) > 0 {
		st.TotalQuestionCount = len(st.Questions)
	}

	if err := s.subjectTestRepo.Create(st); err != nil {
		s.discard(localPath)
		return nil, fmt.Errorf("creating subject test: %w", err)
	}
	log.Info().Uint("subject_test_id", st.ID).Str("title", st.Title).Int("questions", len(st.Questions)).Msg("subject test ingested")
	return st, nil
}

func (s *ingestService) IngestPractice(originalName string, src io.Reader) (*model.Practice, error) {
	localPath, publicPath, err := s.saveUpload("practice", originalName, src)
	if err != nil {
		return nil, err
	}
	rows, err := firstSheetRows(localPath)
	if err != nil {
		s.discard(localPath)
		return nil, err
	}

	parsed := parsePracticeRows(rows)
	practice := &model.Practice{
		Title:              TitleFromFilename(originalName, "Practice"),
		Category:           parsed.Category,
		TotalQuestionCount: parsed.Total,
		FilePath:           publicPath,
		LocalPath:          localPath,
		Questions:          parsed.Questions,
	}

	if err := s.practiceRepo.Create(practice); err != nil {
		s.discard(localPath)
		return nil, fmt.Errorf("creating practice: %w", err)
	}
	log.Info().Uint("practice_id", practice.ID).Str("title", practice.Title).Str("category", practice.Category).Msg("practice bank ingested")
	return practice, nil
}

// saveUpload writes the uploaded file under the uploads dir with a
// uuid-prefixed name so concurrent uploads with equal filenames never clash.
func (s *ingestService) saveUpload(subdir, originalName string, src io.Reader) (localPath, publicPath string, err error) {
	dir := filepath.Join(s.uploadsDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("creating upload dir: %w", err)
	}
	name := uuid.NewString() + "-" + filepath.Base(originalName)
	localPath = filepath.Join(dir, name)
	dst, err := os.Create(localPath)
	if err != nil {
		return "", "", fmt.Errorf("saving upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(localPath)
		return "", "", fmt.Errorf("saving upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(localPath)
		return "", "", fmt.Errorf("saving upload: %w", err)
	}
	return localPath, "/uploads/" + subdir + "/" + name, nil
}

func (s *ingestService) discard(localPath string) {
	if err := os.Remove(localPath); err != nil {
		log.Warn().Err(err).Str("path", localPath).Msg("could not remove rejected upload")
	}
}

func firstSheetRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, validationErr("unreadable workbook: %v", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, validationErr("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, validationErr("unreadable sheet %q: %v", sheets[0], err)
	}
	return rows, nil
}

func rowAt(rows [][]string, i int) []string {
	if i < 0 || i >= len(rows) {
		return nil
	}
	return rows[i]
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellInt(row []string, i int) int {
	return int(cellFloat(row, i))
}

func cellFloat(row []string, i int) float64 {
	v, err := strconv.ParseFloat(cell(row, i), 64)
	if err != nil {
		return 0
	}
	return v
}

type positionalRow struct {
	Position int
	Prompt   string
	OptionA  string
	OptionB  string
	OptionC  string
	OptionD  string
	Answer   string
}

func positionalQuestion(row []string, position int) (positionalRow, bool) {
	prompt := cell(row, 0)
	if prompt == "" {
		return positionalRow{}, false
	}
	return positionalRow{
		Position: position,
		Prompt:   prompt,
		OptionA:  cell(row, 1),
		OptionB:  cell(row, 2),
		OptionC:  cell(row, 3),
		OptionD:  cell(row, 4),
		Answer:   cell(row, 5),
	}, true
}

type parsedPractice struct {
	Total     int
	Category  string
	Questions []model.PracticeQuestion
}

// parsePracticeRows handles the header-addressed practice format: a header
// row names the columns, and the declared total may appear in more than one
// "Total Number of Questions" column, of which the largest positive value wins.
func parsePracticeRows(rows [][]string) parsedPractice {
	var out parsedPractice
	if len(rows) == 0 {
		out.Category = "general"
		return out
	}

	header := rows[0]
	var questionCol, answerCol, categoryCol = -1, -1, -1
	var optionCols, totalCols []int
	for i, h := range header {
		switch name := strings.TrimSpace(h); {
		case name == "Question":
			questionCol = i
		case name == "CorrectAnswer":
			answerCol = i
		case name == "Category":
			categoryCol = i
		case name == "Option1" || name == "Option2" || name == "Option3" || name == "Option4":
			optionCols = append(optionCols, i)
		case strings.HasPrefix(name, "Total Number of Questions"):
			totalCols = append(totalCols, i)
		}
	}

	data := rows[1:]
	for _, row := range data {
		for _, c := range totalCols {
			if v := cellInt(row, c); v > out.Total {
				out.Total = v
			}
		}
	}
	if out.Total == 0 {
		out.Total = len(data)
	}

	categories := map[string]struct{}{}
	for _, row := range data {
		if c := cell(row, categoryCol); c != "" {
			categories[c] = struct{}{}
		}
	}
	switch len(categories) {
	case 0:
		out.Category = "general"
	case 1:
		for c := range categories {
			out.Category = c
		}
	default:
		out.Category = "mixed"
	}

	for _, row := range data {
		prompt := cell(row, questionCol)
		if prompt == "" {
			continue
		}
		var options []string
		for _, c := range optionCols {
			if v := cell(row, c); v != "" {
				options = append(options, v)
			}
		}
		answer := cell(row, answerCol)
		correctIndex := -1
		for i, o := range options {
			if o == answer {
				correctIndex = i
				break
			}
		}
		level := strings.ToLower(cell(row, categoryCol))
		if level == "" {
			level = "general"
		}
		out.Questions = append(out.Questions, model.PracticeQuestion{
			Position:      len(out.Questions),
			Prompt:        prompt,
			Options:       options,
			CorrectAnswer: answer,
			CorrectIndex:  correctIndex,
			Level:         level,
		})
	}
	return out
}
