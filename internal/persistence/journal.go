package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// JournalManager maps match ids to journal files under one directory.
type JournalManager struct {
	Dir string
}

// NewJournalManager returns a manager rooted at dir.
func NewJournalManager(dir string) *JournalManager {
	return &JournalManager{Dir: dir}
}

// Path returns the journal file of a match.
func (j *JournalManager) Path(matchID int) string {
	return filepath.Join(j.Dir, "match-"+strconv.Itoa(matchID)+".jsonl")
}

// Create starts a fresh journal for a match, truncating any old one.
func (j *JournalManager) Create(matchID int) (*Store, error) {
	if err := os.MkdirAll(j.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", j.Dir, err)
	}
	path := j.Path(matchID)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to reset journal %s: %w", path, err)
	}
	return NewStore(path)
}

// Open reopens an existing journal.
func (j *JournalManager) Open(matchID int) (*Store, error) {
	path := j.Path(matchID)
	if stat, err := os.Stat(path); err != nil || stat.IsDir() {
		return nil, fmt.Errorf("journal not found: %s", path)
	}
	return NewStore(path)
}
