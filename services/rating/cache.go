package rating

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"interviewhub/models"

	"github.com/go-redis/redis/v8"
)

const summaryKeyPrefix = "rating:summary:"

// SummaryCache sits in front of the summary store. Writers overwrite entries
// with Set; readers populate misses with Fill, which never replaces an entry a
// writer stored in the meantime. A nil summary records "no reviews".
type SummaryCache interface {
	Get(ctx context.Context, interviewerID string) (*models.InterviewerRatingSummary, bool, error)
	Set(ctx context.Context, interviewerID string, summary *models.InterviewerRatingSummary) error
	Fill(ctx context.Context, interviewerID string, summary *models.InterviewerRatingSummary) error
	Invalidate(ctx context.Context, interviewerID string) error
}

// RedisSummaryCache stores summaries as JSON under rating:summary:<interviewerId>.
// The "no reviews" entry is the JSON literal null.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func summaryKey(interviewerID string) string {
	return summaryKeyPrefix + interviewerID
}

// Get returns ok=false on a miss. A hit with a nil summary means the
// interviewer has no reviews.
func (c *RedisSummaryCache) Get(ctx context.Context, interviewerID string) (*models.InterviewerRatingSummary, bool, error) {
	data, err := c.client.Get(ctx, summaryKey(interviewerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached summary: %w", err)
	}
	var summary *models.InterviewerRatingSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached summary: %w", err)
	}
	return summary, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, interviewerID string, summary *models.InterviewerRatingSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey(interviewerID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache summary: %w", err)
	}
	return nil
}

func (c *RedisSummaryCache) Fill(ctx context.Context, interviewerID string, summary *models.InterviewerRatingSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := c.client.SetNX(ctx, summaryKey(interviewerID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache summary: %w", err)
	}
	return nil
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context, interviewerID string) error {
	return c.client.Del(ctx, summaryKey(interviewerID)).Err()
}
