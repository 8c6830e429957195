// Copyright (c) 2026 Healthy Tips. All rights reserved.
// Author: dimitar.nikolovv@gmail.com

package video

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dimitarnikolovv/healthy-tips/internal/platform/constants"
)

// # View Counters

// ViewCounter tracks per-video playback counts in Redis.
//
// # Reliability
//
// Counters are volatile convenience data, not the source of truth about
// anything. Every operation is best effort: a Redis outage degrades the
// stats page, never the video pipeline.
type ViewCounter struct {
	client *redis.Client
	logger *slog.Logger
}

// NewViewCounter creates a view counter on the given Redis client.
func NewViewCounter(client *redis.Client, logger *slog.Logger) *ViewCounter {
	return &ViewCounter{client: client, logger: logger}
}

// Record increments the view counter for a video. Failures are logged and
// swallowed so the stream redirect is never blocked by the cache.
func (counter *ViewCounter) Record(ctx context.Context, videoID string) {
	key := constants.RedisPrefixVideoViews + videoID
	if err := counter.client.Incr(ctx, key).Err(); err != nil {
		counter.logger.WarnContext(ctx, "view_counter_incr_failed",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()),
		)
	}
}

// Count returns the recorded views for one video. A missing key is zero.
func (counter *ViewCounter) Count(ctx context.Context, videoID string) (int64, error) {
	value, err := counter.client.Get(ctx, constants.RedisPrefixVideoViews+videoID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return strconv.ParseInt(value, 10, 64)
}

// Totals scans every view counter and returns the per-video counts plus the
// grand total. Used by the admin stats endpoint.
func (counter *ViewCounter) Totals(ctx context.Context) (map[string]int64, int64, error) {
	perVideo := make(map[string]int64)
	var total int64

	iter := counter.client.Scan(ctx, 0, constants.RedisPrefixVideoViews+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		value, err := counter.client.Get(ctx, key).Int64()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, 0, err
		}

		videoID := strings.TrimPrefix(key, constants.RedisPrefixVideoViews)
		perVideo[videoID] = value
		total += value
	}
	if err := iter.Err(); err != nil {
		return nil, 0, err
	}

	return perVideo, total, nil
}
