package daemon

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mdsync/internal/config"
	"mdsync/internal/db"
	"mdsync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, syncCommand string, syncArgs []string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, db.Init(filepath.Join(dir, "test.db")))

	return &config.Config{
		Root:        filepath.Join(dir, "content"),
		Extensions:  []string{".md"},
		Debounce:    150 * time.Millisecond,
		AutoSync:    true,
		LogPath:     filepath.Join(dir, "audit.log"),
		SyncCommand: syncCommand,
		SyncArgs:    syncArgs,
		IgnoreList:  config.Default.IgnoreList,
		BufferSize:  100,
	}
}

func auditLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func indexOf(lines []string, substr string) int {
	for i, line := range lines {
		if strings.Contains(line, substr) {
			return i
		}
	}
	return -1
}

func TestManager_EndToEndSuccess(t *testing.T) {
	cfg := testConfig(t, "true", nil)

	m, err := NewManager(cfg)
	require.NoError(t, err)
	require.NoError(t, m.Start())

	require.NoError(t, os.WriteFile(filepath.Join(cfg.Root, "a.md"), []byte("# a"), 0644))

	// Quiet window plus slack for the subprocess.
	time.Sleep(time.Second)
	m.Stop()

	lines := auditLines(t, cfg.LogPath)
	created := indexOf(lines, "event CREATE")
	fired := indexOf(lines, "sync trigger fired")
	succeeded := indexOf(lines, "sync succeeded")

	require.GreaterOrEqual(t, created, 0, "missing created line:\n%s", strings.Join(lines, "\n"))
	require.GreaterOrEqual(t, fired, 0, "missing trigger line")
	require.GreaterOrEqual(t, succeeded, 0, "missing success line")
	assert.Less(t, created, fired)
	assert.Less(t, fired, succeeded)

	snap := m.Snapshot()
	assert.Equal(t, 1, snap.FilesTracked)
	assert.Equal(t, 1, snap.Synced)
	assert.Zero(t, snap.Failed)

	histories, err := m.History().GetRecent(10)
	require.NoError(t, err)
	require.Len(t, histories, 1)
	assert.Equal(t, model.StatusSuccess, histories[0].Status)
}

func TestManager_EndToEndFailure(t *testing.T) {
	cfg := testConfig(t, "sh", []string{"-c", "exit 1"})

	m, err := NewManager(cfg)
	require.NoError(t, err)
	require.NoError(t, m.Start())

	require.NoError(t, os.WriteFile(filepath.Join(cfg.Root, "a.md"), []byte("# a"), 0644))
	time.Sleep(time.Second)

	// The watcher survives the failure and processes the next change.
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Root, "b.md"), []byte("# b"), 0644))
	time.Sleep(time.Second)
	m.Stop()

	lines := auditLines(t, cfg.LogPath)
	assert.GreaterOrEqual(t, indexOf(lines, "sync failed, exit code 1"), 0,
		"missing failure line:\n%s", strings.Join(lines, "\n"))

	snap := m.Snapshot()
	assert.Equal(t, 2, snap.FilesTracked)
	assert.Zero(t, snap.Synced)
	assert.Equal(t, 2, snap.Failed)
}

func TestManager_ShutdownAbandonsPendingTrigger(t *testing.T) {
	cfg := testConfig(t, "true", nil)
	cfg.Debounce = 5 * time.Second

	m, err := NewManager(cfg)
	require.NoError(t, err)
	require.NoError(t, m.Start())

	require.NoError(t, os.WriteFile(filepath.Join(cfg.Root, "a.md"), []byte("# a"), 0644))

	// Let the event reach the debouncer, then stop well before the window.
	time.Sleep(300 * time.Millisecond)
	m.Stop()

	lines := auditLines(t, cfg.LogPath)
	assert.GreaterOrEqual(t, indexOf(lines, "event CREATE"), 0)
	assert.Equal(t, -1, indexOf(lines, "sync trigger fired"))

	snap := m.Snapshot()
	assert.Zero(t, snap.Synced)
	assert.Zero(t, snap.Failed)
}

func TestManager_StartFailureClosesAuditLog(t *testing.T) {
	cfg := testConfig(t, "true", nil)

	// A regular file where the root should be makes MkdirAll fail.
	require.NoError(t, os.WriteFile(cfg.Root, []byte("not a dir"), 0644))

	m, err := NewManager(cfg)
	require.NoError(t, err)
	require.Error(t, m.Start())

	// Startup validation failed before watching began; the same log path can
	// be reopened immediately by a later run.
	m2, err := NewManager(cfg)
	require.NoError(t, err)
	require.Error(t, m2.Start())
}

func TestManager_StartCreatesMissingRoot(t *testing.T) {
	cfg := testConfig(t, "true", nil)

	m, err := NewManager(cfg)
	require.NoError(t, err)

	_, statErr := os.Stat(cfg.Root)
	require.True(t, os.IsNotExist(statErr))

	require.NoError(t, m.Start())
	defer m.Stop()

	info, err := os.Stat(cfg.Root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
