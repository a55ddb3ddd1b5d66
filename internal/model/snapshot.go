package model

import "time"

type Snapshot struct {
	Root         string     `json:"root"`
	LogPath      string     `json:"log_path"`
	Watching     bool       `json:"watching"`
	AutoSync     bool       `json:"auto_sync"`
	FilesTracked int        `json:"files_tracked"`
	Synced       int        `json:"synced"`
	Failed       int        `json:"failed"`
	StartedAt    time.Time  `json:"started_at"`
	LastSync     *time.Time `json:"last_sync"`
}
