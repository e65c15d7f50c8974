// Package grading implements the deterministic scoring core: answer
// resolution, the two percentage variants, the attempt-ledger state
// machine, time-budget clamping and practice scoring. It never touches
// the database or configuration.
package grading

import (
	"math"
	"strings"
)

// Question is the bank-neutral view a grader needs: options keyed by their
// position letter, in original sheet order, plus the raw correct-answer
// cell. Matching the answer text to an option is done here, not at
// ingestion time.
type Question struct {
	Prompt  string
	Options []Option
	Answer  string
}

type Option struct {
	Key  string // position letter, "A".."D"
	Text string
}

// Answer is one submitted entry. Index always refers to the original,
// unshuffled question order regardless of how the client presented a
// randomized subset. Selected is either an option key or literal text.
type Answer struct {
	Index    int    `json:"index"`
	Selected string `json:"selected"`
}

// Result is the outcome of grading one submission.
type Result struct {
	TotalQuestions  int     `json:"total_questions"`
	Attempted       int     `json:"attempted"`
	Correct         int     `json:"correct"`
	ScorePercentage float64 `json:"score_percentage"`
	Passed          bool    `json:"passed"`
}

// resolveSelected turns a submitted selection into comparable text. An
// exact (case-insensitive) option key selects that option's text on the
// question; anything else is treated as literal answer text.
func resolveSelected(q Question, selected string) string {
	up := strings.ToUpper(selected)
	for _, opt := range q.Options {
		if opt.Key == up {
			return opt.Text
		}
	}
	return selected
}

// countCorrect walks the submission once: entries whose index is out of
// range are ignored entirely, valid entries count as attempted, and a
// trimmed case-sensitive match against the stored answer counts as correct.
func countCorrect(questions []Question, answers []Answer) (attempted, correct int) {
	for _, a := range answers {
		if a.Index < 0 || a.Index >= len(questions) {
			continue
		}
		attempted++
		q := questions[a.Index]
		chosen := resolveSelected(q, a.Selected)
		if strings.TrimSpace(chosen) == strings.TrimSpace(q.Answer) {
			correct++
		}
	}
	return attempted, correct
}

// GradeChapterTest scores a chapter-test submission. The percentage
// denominator is the number of answers attempted, so an incomplete
// submission is scored only against what was answered.
func GradeChapterTest(questions []Question, answers []Answer, passingPercentage float64) Result {
	attempted, correct := countCorrect(questions, answers)

	score := 0.0
	if attempted > 0 {
		score = round2(float64(correct) / float64(attempted) * 100)
	}
	return Result{
		TotalQuestions:  len(questions),
		Attempted:       attempted,
		Correct:         correct,
		ScorePercentage: score,
		Passed:          attempted > 0 && score >= passingPercentage,
	}
}

// GradeSubjectTest scores a subject-test submission. Unlike the chapter
// variant, the denominator is the bank's declared total question count
// (falling back to the parsed count), so unanswered questions count
// against the score.
func GradeSubjectTest(questions []Question, answers []Answer, declaredTotal int, passingPercentage float64) Result {
	attempted, correct := countCorrect(questions, answers)

	total := declaredTotal
	if total <= 0 {
		total = len(questions)
	}
	score := 0.0
	if total > 0 {
		score = round2(float64(correct) / float64(total) * 100)
	}
	return Result{
		TotalQuestions:  total,
		Attempted:       attempted,
		Correct:         correct,
		ScorePercentage: score,
		Passed:          attempted > 0 && score >= passingPercentage,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
