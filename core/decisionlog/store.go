package decisionlog

import (
	"context"
	"time"

	"github.com/MathiasVDS1/ProjectManagement/core/model"
)

// Query defines filters for retrieving decisions. Zero fields match
// everything; Limit caps the result to the most recent decisions.
type Query struct {
	Start   time.Time
	End     time.Time
	Site    string
	Service model.Service
	Limit   int
}

func (q Query) matches(d model.Decision) bool {
	if !q.Start.IsZero() && d.CreatedAt.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && d.CreatedAt.After(q.End) {
		return false
	}
	if q.Site != "" && d.Site != q.Site {
		return false
	}
	if q.Service != "" && d.Service != q.Service {
		return false
	}
	return true
}

// tail keeps the last n decisions of a chronologically ordered slice.
func tail(res []model.Decision, n int) []model.Decision {
	if n > 0 && len(res) > n {
		return res[len(res)-n:]
	}
	return res
}

// Store persists decisions and supports querying.
type Store interface {
	Append(ctx context.Context, d model.Decision) error
	Query(ctx context.Context, q Query) ([]model.Decision, error)
	Close() error
}

// NopStore discards decisions.
type NopStore struct{}

func (NopStore) Append(context.Context, model.Decision) error { return nil }

func (NopStore) Query(context.Context, Query) ([]model.Decision, error) { return nil, nil }

func (NopStore) Close() error { return nil }
