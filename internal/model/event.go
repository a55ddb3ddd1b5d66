package model

import "time"

type EventType string

const (
	EventCreate EventType = "CREATE"
	EventWrite  EventType = "WRITE"
	EventRemove EventType = "REMOVE"
)

type FileEvent struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}

// SyncTrigger is the single signal a collapsed burst of FileEvents produces.
// Reason is the last event observed before the quiet window elapsed; earlier
// events in the same burst are not attributed.
type SyncTrigger struct {
	Reason  FileEvent
	FiredAt time.Time
}

type SyncOutcome struct {
	Trigger    SyncTrigger
	ExitCode   int
	Stdout     string
	Stderr     string
	StartedAt  time.Time
	FinishedAt time.Time
	Err        error
}

func (o SyncOutcome) Success() bool {
	return o.Err == nil && o.ExitCode == 0
}
