package decisionlog

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

// JSONLStore appends decisions to a JSONL file, one record per line.
type JSONLStore struct {
	path string
	mu   sync.Mutex
}

func NewJSONLStore(path string) (*JSONLStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLStore{path: path}, nil
}

func (s *JSONLStore) Append(ctx context.Context, d model.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(d)
}

func (s *JSONLStore) Query(ctx context.Context, q Query) ([]model.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var res []model.Decision
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var d model.Decision
		if err := json.Unmarshal(scanner.Bytes(), &d); err != nil {
			continue
		}
		if q.matches(d) {
			res = append(res, d)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tail(res, q.Limit), nil
}

func (s *JSONLStore) Close() error { return nil }
