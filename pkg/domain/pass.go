package domain

import (
	"context"
	"time"
)

type Outcome string

const (
	OutcomeMoved       Outcome = "moved"
	OutcomeRenamed     Outcome = "renamed"
	OutcomeOverwritten Outcome = "overwritten"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeFailed      Outcome = "failed"
)

// Move is a single attempted relocation within a pass.
type Move struct {
	File    string
	Target  string
	Outcome Outcome
	Error   string
}

// Pass is the result of one scan of a job's source directory.
type Pass struct {
	Id  string
	Job string

	StartedAt  time.Time
	FinishedAt time.Time

	Moved       int
	Renamed     int
	Overwritten int
	Skipped     int
	Failed      int

	// set when the pass was aborted (source unavailable, cancellation)
	Error string

	Moves []Move
}

func (p *Pass) add(move Move) {
	switch move.Outcome {
	case OutcomeMoved:
		p.Moved++
	case OutcomeRenamed:
		p.Renamed++
	case OutcomeOverwritten:
		p.Overwritten++
	case OutcomeSkipped:
		p.Skipped++
	case OutcomeFailed:
		p.Failed++
	}

	p.Moves = append(p.Moves, move)
}

// Relocated is the number of files that actually changed location.
func (p Pass) Relocated() int {
	return p.Moved + p.Renamed + p.Overwritten
}

type PassRecorder interface {
	RecordPass(ctx context.Context, pass Pass) error
}

type noopRecorder struct{}

func (noopRecorder) RecordPass(context.Context, Pass) error {
	return nil
}

// NoopRecorder discards passes; used when the journal is disabled.
func NoopRecorder() PassRecorder {
	return noopRecorder{}
}
