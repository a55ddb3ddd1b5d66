package repository

import (
	"mdsync/internal/db"
	"mdsync/internal/model"
)

type HistoryRepository struct{}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Save(outcome model.SyncOutcome) error {
	status := model.StatusSuccess
	errMsg := ""
	if !outcome.Success() {
		status = model.StatusFailed
		if outcome.Err != nil {
			errMsg = outcome.Err.Error()
		}
	}

	history := model.History{
		Status:     status,
		EventType:  string(outcome.Trigger.Reason.Type),
		Path:       outcome.Trigger.Reason.Path,
		ExitCode:   outcome.ExitCode,
		ErrMsg:     errMsg,
		StartedAt:  outcome.StartedAt,
		FinishedAt: outcome.FinishedAt,
	}

	return db.DB.Create(&history).Error
}

type Stats struct {
	Total   int64 `json:"total"`
	Success int64 `json:"success"`
	Failed  int64 `json:"failed"`
}

func (r *HistoryRepository) GetStats() (Stats, error) {
	var stats Stats
	if err := db.DB.Model(&model.History{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	if err := db.DB.Model(&model.History{}).
		Where("status = ?", model.StatusSuccess).
		Count(&stats.Success).Error; err != nil {
		return stats, err
	}

	stats.Failed = stats.Total - stats.Success
	return stats, nil
}

func (r *HistoryRepository) GetRecent(limit int) ([]model.History, error) {
	var histories []model.History
	result := db.DB.
		Order("finished_at desc").
		Limit(limit).
		Find(&histories)

	return histories, result.Error
}

func (r *HistoryRepository) GetFailed() ([]model.History, error) {
	var histories []model.History
	result := db.DB.
		Where("status = ?", model.StatusFailed).
		Order("finished_at desc").
		Find(&histories)

	return histories, result.Error
}
