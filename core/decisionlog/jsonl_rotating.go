package decisionlog

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

// RotatingJSONLStore is a JSONLStore with size- and age-based rotation of
// the underlying file.
type RotatingJSONLStore struct {
	logger *lumberjack.Logger
	path   string
}

// NewRotatingJSONLStore creates a store with rotation options in megabytes
// and days.
func NewRotatingJSONLStore(path string, maxSizeMB, maxBackups, maxAgeDays int) (*RotatingJSONLStore, error) {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   false,
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &RotatingJSONLStore{logger: lj, path: path}, nil
}

// Append writes the decision and triggers rotation if needed.
func (s *RotatingJSONLStore) Append(ctx context.Context, d model.Decision) error {
	_ = ctx
	return json.NewEncoder(s.logger).Encode(d)
}

// Query reads the live file and every rotated sibling. Results are sorted
// chronologically before the limit applies, since rotated files glob in
// lexical order.
func (s *RotatingJSONLStore) Query(ctx context.Context, q Query) ([]model.Decision, error) {
	_ = ctx
	files, err := filepath.Glob(s.path + "*")
	if err != nil {
		return nil, err
	}
	var res []model.Decision
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
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
		_ = f.Close()
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return tail(res, q.Limit), nil
}

// Close closes the underlying writer.
func (s *RotatingJSONLStore) Close() error {
	return s.logger.Close()
}
