package model

import (
	"time"

	"gorm.io/gorm"
)

type SyncStatus string

const (
	StatusSuccess SyncStatus = "SUCCESS"
	StatusFailed  SyncStatus = "FAILED"
)

type History struct {
	gorm.Model
	Status     SyncStatus `gorm:"not null" json:"status"`
	EventType  string     `gorm:"not null" json:"event_type"`
	Path       string     `gorm:"not null" json:"path"`
	ExitCode   int        `json:"exit_code"`
	ErrMsg     string     `json:"err_msg,omitempty"`
	StartedAt  time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt time.Time  `gorm:"not null" json:"finished_at"`
}
