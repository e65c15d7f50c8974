package grading

import "math"

// PracticeQuestion is the level-filtered view used by the practice scorer.
type PracticeQuestion struct {
	Prompt        string
	Options       []string
	CorrectAnswer string
	CorrectIndex  int // -1 when the answer text matched no option at ingestion
	Level         string
}

// PracticeAnswer selects one option index for a question, identified by its
// index within the level-filtered question list.
type PracticeAnswer struct {
	Index    int `json:"index"`
	Selected int `json:"selected"`
}

type PracticeOutcome struct {
	Attempted int `json:"attempted"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Percent   int `json:"percent"`
}

// ScorePractice grades a practice session. Correctness is the stored
// correct-option index matching the selection OR the option text at the
// selection equalling the stored answer text; either suffices, so a bank
// with a wrong or absent index still grades by text. Unanswered questions
// are simply not counted.
func ScorePractice(questions []PracticeQuestion, answers []PracticeAnswer) PracticeOutcome {
	var attempted, correct int
	for _, a := range answers {
		if a.Index < 0 || a.Index >= len(questions) {
			continue
		}
		attempted++
		q := questions[a.Index]

		okByIndex := q.CorrectIndex >= 0 && a.Selected == q.CorrectIndex
		okByText := a.Selected >= 0 && a.Selected < len(q.Options) &&
			q.CorrectAnswer != "" && q.Options[a.Selected] == q.CorrectAnswer
		if okByIndex || okByText {
			correct++
		}
	}

	percent := 0
	if attempted > 0 {
		percent = int(math.Round(float64(correct) / float64(attempted) * 100))
	}
	return PracticeOutcome{
		Attempted: attempted,
		Correct:   correct,
		Incorrect: attempted - correct,
		Percent:   percent,
	}
}
