package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"mdsync/internal/audit"
	"mdsync/internal/config"
	"mdsync/internal/logger"
	"mdsync/internal/model"
	"mdsync/internal/pipeline"
	"mdsync/internal/registry"
	"mdsync/internal/repository"
	"mdsync/internal/supervisor"
	"mdsync/internal/watcher"

	"go.uber.org/zap"
)

// Manager owns the whole watch pipeline: registry, filesystem watcher,
// debouncer and supervisor, wired as channel stages. All registry mutation
// happens on the watcher goroutine and all counter mutation on the pipeline
// goroutine, so the only locks live inside Registry and State where the
// status endpoint reads across goroutines.
type Manager struct {
	cfg    *config.Config
	reg    *registry.Registry
	aud    *audit.Logger
	w      *watcher.Watcher
	sup    *supervisor.Supervisor
	repo   *repository.HistoryRepository
	state  *State
	doneCh chan struct{}
}

func NewManager(cfg *config.Config) (*Manager, error) {
	// The registry keys on the absolute paths fsnotify reports, so the root
	// must be resolved before either sees it.
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watched root: %w", err)
	}
	cfg.Root = root

	aud, err := audit.New(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	reg := registry.New(cfg.Root, cfg.Extensions)

	w, err := watcher.New(reg, aud, cfg.BufferSize)
	if err != nil {
		_ = aud.Close()
		return nil, err
	}

	return &Manager{
		cfg:    cfg,
		reg:    reg,
		aud:    aud,
		w:      w,
		sup:    supervisor.New(cfg.SyncCommand, cfg.SyncArgs, cfg.AutoSync, aud),
		repo:   repository.NewHistoryRepository(),
		state:  NewState(),
		doneCh: make(chan struct{}),
	}, nil
}

// Start validates the watched root, runs the initial scan and installs the
// watcher. Any error here is a startup validation failure and the caller is
// expected to exit non-zero.
func (m *Manager) Start() error {
	if err := os.MkdirAll(m.cfg.Root, 0755); err != nil {
		_ = m.aud.Close()
		return fmt.Errorf("failed to create watched root: %w", err)
	}

	count, err := m.reg.Initialize()
	if err != nil {
		_ = m.aud.Close()
		return fmt.Errorf("initial scan failed: %w", err)
	}

	if err := m.w.Watch(m.cfg.Root); err != nil {
		_ = m.aud.Close()
		return err
	}

	m.state.SetWatching(true)
	m.aud.Record("watching started: %d files tracked under %s", count, m.cfg.Root)
	logger.Log.Info("initial scan complete",
		zap.Int("files", count),
		zap.String("root", m.cfg.Root))

	go m.runPipeline()
	return nil
}

func (m *Manager) runPipeline() {
	defer close(m.doneCh)

	filtered := pipeline.Filter(m.w.Events(), m.cfg.IgnoreList)
	triggers := pipeline.Debounce(filtered, m.cfg.Debounce)
	outcomes := m.sup.Run(triggers)

	for outcome := range outcomes {
		m.state.RecordSync(outcome)

		if err := m.repo.Save(outcome); err != nil {
			logger.Log.Warn("failed to save history",
				zap.Error(err))
		}
	}
}

// Stop tears the pipeline down from the source: the watcher's event channel
// closes, a pending debounce timer is abandoned without firing, and an
// in-flight sync subprocess is allowed to finish before the outcome channel
// drains. The audit log is flushed last.
func (m *Manager) Stop() {
	m.w.Stop()
	m.state.SetWatching(false)
	<-m.doneCh

	m.aud.Record("watching stopped")
	_ = m.aud.Close()
}

func (m *Manager) Snapshot() model.Snapshot {
	snap := m.state.Snapshot()
	snap.Root = m.cfg.Root
	snap.LogPath = m.cfg.LogPath
	snap.AutoSync = m.cfg.AutoSync
	snap.FilesTracked = m.reg.Size()
	return snap
}

func (m *Manager) History() *repository.HistoryRepository {
	return m.repo
}
