package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mdsync/internal/logger"

	"go.uber.org/zap"
)

// Logger appends timestamped lines to a single log file. It is the only
// writer of that file. Write failures are swallowed here so that a full disk
// or a permission change never takes down the watch pipeline; the failed line
// is simply lost.
type Logger struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

func New(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{path: path, f: f}, nil
}

func (l *Logger) Path() string {
	return l.path
}

// Record appends one line. This is the single place where a log write error
// is dropped on purpose.
func (l *Logger) Record(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("%s | %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		fmt.Sprintf(format, args...))

	if _, err := l.f.WriteString(line); err != nil {
		logger.Log.Debug("audit write dropped",
			zap.String("path", l.path),
			zap.Error(err))
	}
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.f.Sync(); err != nil {
		logger.Log.Debug("audit sync failed", zap.Error(err))
	}
	return l.f.Close()
}
