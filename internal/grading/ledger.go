package grading

import "time"

// LedgerEntry is the attempt-ledger state for one (candidate, test) pair.
// The state machine is: no entry -> mutable fail/incomplete entry ->
// locked pass entry (terminal).
type LedgerEntry struct {
	ScorePercentage float64
	Status          string // "pass" | "fail" | "incomplete"
	AttemptCount    int
	AttemptedAt     time.Time
	TimeTakenSec    int
}

const statusPass = "pass"

// Locked reports whether the entry has reached the terminal pass state.
func (e *LedgerEntry) Locked() bool {
	return e != nil && e.Status == statusPass
}

// ApplyAttempt runs one transition of the ledger state machine. A nil
// existing entry yields a first attempt with count 1; a mutable entry is
// overwritten with the new score and its count incremented; a locked entry
// is returned unchanged with locked=true and must not be written back.
func ApplyAttempt(existing *LedgerEntry, res Result, timeTakenSec int, now time.Time) (entry LedgerEntry, locked bool) {
	if existing.Locked() {
		return *existing, true
	}

	status := StatusFor(res)
	if existing == nil {
		return LedgerEntry{
			ScorePercentage: res.ScorePercentage,
			Status:          status,
			AttemptCount:    1,
			AttemptedAt:     now,
			TimeTakenSec:    timeTakenSec,
		}, false
	}

	count := existing.AttemptCount
	if count < 1 {
		count = 1
	}
	return LedgerEntry{
		ScorePercentage: res.ScorePercentage,
		Status:          status,
		AttemptCount:    count + 1,
		AttemptedAt:     now,
		TimeTakenSec:    timeTakenSec,
	}, false
}

// StatusFor maps a grading result to its ledger status.
func StatusFor(res Result) string {
	if res.Passed {
		return statusPass
	}
	return "fail"
}
