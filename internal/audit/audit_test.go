package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_AppendsTimestampedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	l, err := New(path)
	require.NoError(t, err)

	l.Record("event CREATE %s", "/content/a.md")
	l.Record("sync trigger fired: WRITE %s", "/content/a.md")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "event CREATE /content/a.md")
	assert.Contains(t, lines[1], "sync trigger fired: WRITE /content/a.md")

	for _, line := range lines {
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} \| `, line)
	}
}

func TestRecord_AppendsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	l, err := New(path)
	require.NoError(t, err)
	l.Record("first run")
	require.NoError(t, l.Close())

	l, err = New(path)
	require.NoError(t, err)
	l.Record("second run")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}

func TestNew_UnwritableDirFails(t *testing.T) {
	_, err := New(filepath.Join(string(os.PathSeparator), "proc", "no", "such", "dir", "audit.log"))
	assert.Error(t, err)
}

func TestRecord_WriteFailureIsSwallowed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	l, err := New(path)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	// Writing to a closed file must not panic or surface an error.
	assert.NotPanics(t, func() {
		l.Record("dropped line")
	})
}
