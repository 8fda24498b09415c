// Package redis mirrors recent analysis summaries into Redis so dashboards
// can read them without touching the SQLite audit log. Writes are best-effort:
// a failed mirror never fails the request.
package redis

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/slipcast-io/slipcast/pkg/store"
)

const recentKey = "slipcast:analyses:recent"

// defaultCap bounds the mirrored list length.
const defaultCap = 100

type RecentAnalysesMirror struct {
	client *redis.Client
	cap    int64
}

func NewRecentAnalysesMirror(client *redis.Client) *RecentAnalysesMirror {
	return &RecentAnalysesMirror{client: client, cap: defaultCap}
}

// Push prepends a record and trims the list to capacity.
func (m *RecentAnalysesMirror) Push(ctx context.Context, rec *store.AnalysisRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		log.Printf("Failed to marshal analysis record: %v", err)
		return
	}
	if err := m.client.LPush(ctx, recentKey, data).Err(); err != nil {
		log.Printf("Failed to LPUSH %s: %v", recentKey, err)
		return
	}
	if err := m.client.LTrim(ctx, recentKey, 0, m.cap-1).Err(); err != nil {
		log.Printf("Failed to LTRIM %s: %v", recentKey, err)
	}
}

// Recent returns up to limit mirrored records, newest first.
func (m *RecentAnalysesMirror) Recent(ctx context.Context, limit int) []*store.AnalysisRecord {
	if limit <= 0 || int64(limit) > m.cap {
		limit = int(m.cap)
	}
	values, err := m.client.LRange(ctx, recentKey, 0, int64(limit)-1).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Failed to LRANGE %s: %v", recentKey, err)
		}
		return nil
	}

	var records []*store.AnalysisRecord
	for _, val := range values {
		var rec store.AnalysisRecord
		if err := json.Unmarshal([]byte(val), &rec); err != nil {
			log.Printf("Failed to unmarshal mirrored record: %v", err)
			continue
		}
		records = append(records, &rec)
	}
	return records
}

// Clear drops the mirrored list.
func (m *RecentAnalysesMirror) Clear(ctx context.Context) {
	if err := m.client.Del(ctx, recentKey).Err(); err != nil {
		log.Printf("Failed to DEL %s: %v", recentKey, err)
	}
}
