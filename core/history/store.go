// Package history persists run summaries so that past invocations can be
// compared. Two backends exist: a rotating JSONL file and a SQLite database.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/schedsim/core/metrics"
)

// Query defines filters for retrieving summaries. Zero values match everything.
type Query struct {
	Start  time.Time
	End    time.Time
	Policy string
	RunID  string
	// Limit keeps the most recent entries when positive.
	Limit int
}

func (q Query) match(s metrics.RunSummary) bool {
	if !q.Start.IsZero() && s.Time.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && s.Time.After(q.End) {
		return false
	}
	if q.Policy != "" && s.Policy != q.Policy {
		return false
	}
	if q.RunID != "" && s.RunID != q.RunID {
		return false
	}
	return true
}

// Store persists run summaries and supports querying.
type Store interface {
	Append(ctx context.Context, s metrics.RunSummary) error
	Query(ctx context.Context, q Query) ([]metrics.RunSummary, error)
	Close() error
}

const (
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// Config selects and tunes the history backend. An empty backend disables history.
type Config struct {
	Backend    string `json:"backend"`
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Path == "" {
		switch c.Backend {
		case BackendSQLite:
			c.Path = "runs.db"
		default:
			c.Path = "runs.jsonl"
		}
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 30
	}
}

// Validate checks the backend name and rotation settings.
func (c Config) Validate() error {
	switch c.Backend {
	case "", BackendJSONL, BackendSQLite:
	default:
		return fmt.Errorf("history.backend must be empty, %q or %q, got %q", BackendJSONL, BackendSQLite, c.Backend)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("history rotation settings must not be negative")
	}
	return nil
}

// Enabled reports whether a backend is configured.
func (c Config) Enabled() bool { return c.Backend != "" }

// Open creates the configured store.
func Open(c Config) (Store, error) {
	c.SetDefaults()
	switch c.Backend {
	case BackendJSONL:
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	case BackendSQLite:
		return NewSQLiteStore(c.Path)
	default:
		return nil, fmt.Errorf("history backend %q not available", c.Backend)
	}
}

func limit(res []metrics.RunSummary, n int) []metrics.RunSummary {
	if n > 0 && len(res) > n {
		return res[len(res)-n:]
	}
	return res
}
