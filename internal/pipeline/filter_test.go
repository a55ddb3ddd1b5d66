package pipeline

import (
	"testing"

	"mdsync/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFilter_DropsIgnoredPaths(t *testing.T) {
	ignoreList := []string{".git", "*.tmp", "*.swp"}

	inCh := make(chan model.FileEvent, 8)
	inCh <- model.FileEvent{Path: "/content/posts/a.md"}
	inCh <- model.FileEvent{Path: "/content/.git/config.md"}
	inCh <- model.FileEvent{Path: "/content/posts/draft.tmp"}
	inCh <- model.FileEvent{Path: "/content/posts/.a.md.swp"}
	inCh <- model.FileEvent{Path: "/content/b.md"}
	close(inCh)

	var passed []string
	for event := range Filter(inCh, ignoreList) {
		passed = append(passed, event.Path)
	}

	assert.Equal(t, []string{"/content/posts/a.md", "/content/b.md"}, passed)
}

func TestShouldIgnore_MatchesAnySegment(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"plain content file", "/content/posts/a.md", false},
		{"inside git dir", "/content/.git/objects/ab", true},
		{"swap file", "/content/a.md.swp", true},
		{"tilde backup", "/content/a.md~", true},
		{"tmp anywhere", "/content/deep/nested/x.tmp", true},
	}

	ignoreList := []string{".git", "*.tmp", "*.swp", "*~"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldIgnore(tt.path, ignoreList))
		})
	}
}
