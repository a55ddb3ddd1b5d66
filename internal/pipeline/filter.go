package pipeline

import (
	"path/filepath"
	"strings"

	"mdsync/internal/model"
)

// Filter drops events whose path matches any ignore pattern. Patterns are
// matched per path segment so ".git" ignores everything under a .git
// directory anywhere in the tree.
func Filter(inCh <-chan model.FileEvent, ignoreList []string) <-chan model.FileEvent {
	outCh := make(chan model.FileEvent, cap(inCh))

	go func() {
		defer close(outCh)

		for event := range inCh {
			if shouldIgnore(event.Path, ignoreList) {
				continue
			}
			outCh <- event
		}
	}()

	return outCh
}

func shouldIgnore(path string, ignoreList []string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		for _, pattern := range ignoreList {
			if matched, err := filepath.Match(pattern, part); err == nil && matched {
				return true
			}
		}
	}

	return false
}
