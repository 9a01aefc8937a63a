// Package persistence keeps the append-only match journal: one JSON line
// per record, wrapped with its type so Load can rebuild concrete records.
package persistence

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrEmptyJournal is returned by Header when the journal has no records.
var ErrEmptyJournal = errors.New("journal has no header")

// RecordWrapper facilitates serialization of polymorphic records.
type RecordWrapper struct {
	Type   RecordType      `json:"type"`
	Record json.RawMessage `json:"data"`
}

// Store handles append-only storing of a match journal.
type Store struct {
	file *os.File
}

// NewStore opens or creates the file at path for appending lines.
func NewStore(path string) (*Store, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	return &Store{file: file}, nil
}

// Path returns the journal file name.
func (s *Store) Path() string { return s.file.Name() }

// Append marshals a record to one journal line and syncs it to disk.
func (s *Store) Append(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	wrapperData, err := json.Marshal(RecordWrapper{Type: rec.Type(), Record: data})
	if err != nil {
		return err
	}

	if _, err := s.file.Write(append(wrapperData, '\n')); err != nil {
		return err
	}
	return s.file.Sync()
}

// Load reads every journal line back into concrete records, in order.
func (s *Store) Load() ([]Record, error) {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var records []Record
	scanner := bufio.NewScanner(s.file)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var wrapper RecordWrapper
		if err := json.Unmarshal(scanner.Bytes(), &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode wrapper: %w", err)
		}

		var rec Record
		switch wrapper.Type {
		case RecordHeader:
			rec = &HeaderRecord{}
		case RecordTurn:
			rec = &TurnRecord{}
		case RecordEnd:
			rec = &EndRecord{}
		default:
			return nil, fmt.Errorf("unknown record type in journal: %s", wrapper.Type)
		}

		if err := json.Unmarshal(wrapper.Record, rec); err != nil {
			return nil, fmt.Errorf("failed to parse %s record: %w", wrapper.Type, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Header returns the first record, which must be the match header.
func Header(records []Record) (*HeaderRecord, error) {
	if len(records) == 0 {
		return nil, ErrEmptyJournal
	}
	h, ok := records[0].(*HeaderRecord)
	if !ok {
		return nil, fmt.Errorf("journal starts with a %s record: %w", records[0].Type(), ErrEmptyJournal)
	}
	return h, nil
}

// Close handles safe shutdown.
func (s *Store) Close() error {
	return s.file.Close()
}
