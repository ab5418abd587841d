package cache

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/glorpus-work/pack/internal/logger"
)

// Operation renders cache maintenance results for the command line.
type Operation struct {
	manager Manager
}

// NewOperation creates a new cache operation instance.
func NewOperation(manager Manager) *Operation {
	return &Operation{
		manager: manager,
	}
}

// Clear removes all entries and describes the outcome.
func (op *Operation) Clear() (string, error) {
	logger.Debug("Clearing cache", logger.Fields{"directory": op.manager.GetDirectory()})

	count, err := op.manager.Clear()
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "Cache is already empty (0 entries removed)", nil
	}
	return fmt.Sprintf("Cleared %d cache %s", count, plural(count, "entry", "entries")), nil
}

// Info returns the cache statistics together with a printable summary.
func (op *Operation) Info() (*Info, string, error) {
	info, err := op.manager.GetInfo()
	if err != nil {
		return nil, "", err
	}

	return info, fmt.Sprintf(`Cache Information:
  Location: %s
  Entries:  %d
  Size:     %s`,
		info.Directory,
		info.Entries,
		humanize.Bytes(uint64(info.TotalSize)),
	), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
