package grading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyAttemptFirstAttempt(t *testing.T) {
	now := time.Now()
	res := Result{ScorePercentage: 40, Passed: false}

	entry, locked := ApplyAttempt(nil, res, 120, now)
	assert.False(t, locked)
	assert.Equal(t, 1, entry.AttemptCount)
	assert.Equal(t, "fail", entry.Status)
	assert.Equal(t, 40.0, entry.ScorePercentage)
	assert.Equal(t, 120, entry.TimeTakenSec)
	assert.Equal(t, now, entry.AttemptedAt)
}

func TestApplyAttemptOverwritesFailedEntry(t *testing.T) {
	prior := &LedgerEntry{ScorePercentage: 40, Status: "fail", AttemptCount: 1, TimeTakenSec: 90}
	res := Result{ScorePercentage: 80, Passed: true}
	now := time.Now()

	entry, locked := ApplyAttempt(prior, res, 60, now)
	assert.False(t, locked)
	assert.Equal(t, 2, entry.AttemptCount)
	assert.Equal(t, "pass", entry.Status)
	assert.Equal(t, 80.0, entry.ScorePercentage)
	assert.Equal(t, 60, entry.TimeTakenSec)
}

func TestApplyAttemptLockedAfterPass(t *testing.T) {
	prior := &LedgerEntry{ScorePercentage: 90, Status: "pass", AttemptCount: 2}

	// A later, even better submission must not touch the entry and must
	// not bump the counter.
	entry, locked := ApplyAttempt(prior, Result{ScorePercentage: 100, Passed: true}, 10, time.Now())
	assert.True(t, locked)
	assert.Equal(t, *prior, entry)
	assert.Equal(t, 2, entry.AttemptCount)
	assert.Equal(t, 90.0, entry.ScorePercentage)
}

func TestApplyAttemptRepairsCorruptCount(t *testing.T) {
	prior := &LedgerEntry{Status: "fail", AttemptCount: 0}
	entry, locked := ApplyAttempt(prior, Result{ScorePercentage: 10}, 0, time.Now())
	assert.False(t, locked)
	assert.Equal(t, 2, entry.AttemptCount)
}

func TestLockedNilSafe(t *testing.T) {
	var e *LedgerEntry
	assert.False(t, e.Locked())
	assert.False(t, (&LedgerEntry{Status: "fail"}).Locked())
	assert.True(t, (&LedgerEntry{Status: "pass"}).Locked())
}
