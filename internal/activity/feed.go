// AngelaMos | 2026
// feed.go

package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Entry struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	Action         string    `json:"action"`
	Kind           string    `json:"kind"`
	ResourceID     string    `json:"resource_id"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"created_at"`
}

// Recorder is what mutating services depend on.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

type Config struct {
	MaxEntries int
	TTL        time.Duration
}

// Feed keeps the most recent activity of each organization in a capped
// Redis list, newest first.
type Feed struct {
	client *redis.Client
	config Config
	logger *slog.Logger
}

func NewFeed(client *redis.Client, cfg Config, logger *slog.Logger) *Feed {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 200
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{client: client, config: cfg, logger: logger}
}

func key(organizationID string) string {
	return "activity:" + organizationID
}

// Record appends entry to the organization's feed. Failures are logged and
// swallowed; the feed never fails the mutation that produced the entry.
func (f *Feed) Record(ctx context.Context, entry Entry) {
	if err := f.push(ctx, entry); err != nil {
		f.logger.Warn("record activity failed",
			"error", err,
			"organization_id", entry.OrganizationID,
			"action", entry.Action,
		)
	}
}

func (f *Feed) push(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}

	k := key(entry.OrganizationID)

	pipe := f.client.TxPipeline()
	pipe.LPush(ctx, k, payload)
	pipe.LTrim(ctx, k, 0, int64(f.config.MaxEntries-1))
	if f.config.TTL > 0 {
		pipe.Expire(ctx, k, f.config.TTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push entry: %w", err)
	}

	return nil
}

// Recent returns up to limit entries, newest first. Entries that cannot be
// decoded are skipped.
func (f *Feed) Recent(
	ctx context.Context,
	organizationID string,
	limit int,
) ([]Entry, error) {
	if limit <= 0 || limit > f.config.MaxEntries {
		limit = f.config.MaxEntries
	}

	raw, err := f.client.LRange(ctx, key(organizationID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read activity: %w", err)
	}

	return decodeEntries(raw, f.logger), nil
}

func (f *Feed) Clear(ctx context.Context, organizationID string) error {
	if err := f.client.Del(ctx, key(organizationID)).Err(); err != nil {
		return fmt.Errorf("clear activity: %w", err)
	}
	return nil
}

func decodeEntries(raw []string, logger *slog.Logger) []Entry {
	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			logger.Debug("skipping malformed activity entry", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Record(context.Context, Entry) {}

var (
	_ Recorder = (*Feed)(nil)
	_ Recorder = Nop{}
)
