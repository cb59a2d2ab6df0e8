// Package cache holds derived insights for a short time. Entries are never
// authoritative: a miss or an error means the caller recomputes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

const keyPrefix = "mindtrack:insights:v1"

type InsightCache interface {
	Get(ctx context.Context, key string) (*wellness.Insights, bool, error)
	Set(ctx context.Context, key string, in *wellness.Insights) error
	Close() error
}

// HistoryEntry identifies one prior check-in for fingerprinting.
type HistoryEntry struct {
	ID          string
	CompletedAt time.Time
}

// Key derives a cache key from the check-in and the exact history window it
// was evaluated against. Any change to that window yields a new key.
func Key(checkInID string, history []HistoryEntry) string {
	h := sha256.New()
	for _, e := range history {
		fmt.Fprintf(h, "%s|%d;", e.ID, e.CompletedAt.UTC().UnixNano())
	}
	sum := hex.EncodeToString(h.Sum(nil))
	return strings.Join([]string{keyPrefix, checkInID, sum[:16]}, ":")
}

type noopCache struct{}

// NewNoop returns a cache that never hits.
func NewNoop() InsightCache { return noopCache{} }

func (noopCache) Get(context.Context, string) (*wellness.Insights, bool, error) {
	return nil, false, nil
}
func (noopCache) Set(context.Context, string, *wellness.Insights) error { return nil }
func (noopCache) Close() error                                          { return nil }
