package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"

	"relief-bknd/internal/models"
)

// CSVStore is the local-file fallback backend: one request per row,
// header row of field names, quoting handled by encoding/csv. Updates
// re-read the file before rewriting it, so concurrent-process writes
// resolve last-writer-wins.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore opens the store at path, creating the file with its
// header row when it does not exist yet.
func NewCSVStore(path string) (*CSVStore, error) {
	s := &CSVStore{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()

		w := csv.NewWriter(f)
		if err := w.Write(Header); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	return s, nil
}

func (s *CSVStore) Append(ctx context.Context, req *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(EncodeRow(req)); err != nil {
		return fmt.Errorf("appending request: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("appending request: %w", err)
	}
	return nil
}

func (s *CSVStore) Update(ctx context.Context, id string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-read before writing so updates from other processes since our
	// last read are not clobbered wholesale.
	requests, err := s.readAll()
	if err != nil {
		return err
	}

	found := false
	for i := range requests {
		if requests[i].ID == id {
			applyPatch(&requests[i], patch)
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}

	return s.writeAll(requests)
}

func (s *CSVStore) List(ctx context.Context, filter Filter) ([]models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requests, err := s.readAll()
	if err != nil {
		return nil, err
	}

	out := make([]models.Request, 0, len(requests))
	for i := range requests {
		if filter.matches(&requests[i]) {
			out = append(out, requests[i])
		}
	}
	return out, nil
}

func (s *CSVStore) readAll() ([]models.Request, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	// Skip the header row.
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var requests []models.Request
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.path, err)
		}
		req, err := DecodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.path, err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func (s *CSVStore) writeAll(requests []models.Request) error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range requests {
		if err := w.Write(EncodeRow(&requests[i])); err != nil {
			f.Close()
			return fmt.Errorf("writing request: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
