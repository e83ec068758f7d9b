// Package ratelimit caps how fast one admin client can call the API, using
// a sliding window held in process memory or in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Result is the state of one key's window after a request was counted.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is how long the client should wait, rounded up to a second.
func (r Result) RetryAfter(now time.Time) int {
	d := r.ResetAt.Sub(now)
	if d <= 0 {
		return 1
	}
	return int((d + time.Second - 1) / time.Second)
}

// MemoryWindow keeps one sliding window of timestamps per key.
type MemoryWindow struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
}

func NewMemoryWindow() *MemoryWindow {
	return &MemoryWindow{windows: make(map[string][]time.Time), now: time.Now}
}

func (s *MemoryWindow) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stamps := s.windows[key]
	cutoff := now.Add(-window)
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	stamps = stamps[i:]

	if len(stamps) >= limit {
		s.windows[key] = stamps
		return Result{Limit: limit, ResetAt: stamps[0].Add(window)}, nil
	}
	stamps = append(stamps, now)
	s.windows[key] = stamps
	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(stamps),
		ResetAt:   stamps[0].Add(window),
	}, nil
}

// RedisWindow shares windows between server processes. Each key is a sorted
// set of request timestamps in microseconds, trimmed and counted by one
// script so concurrent requests cannot overshoot the limit.
type RedisWindow struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisWindow(client redis.UniversalClient, prefix string) *RedisWindow {
	return &RedisWindow{client: client, prefix: prefix}
}

var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now_us = tonumber(ARGV[1])
	local window_us = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', now_us - window_us)
	local count = redis.call('ZCARD', key)
	local allowed = 0
	if count < limit then
		redis.call('ZADD', key, now_us, ARGV[4])
		redis.call('PEXPIRE', key, math.ceil(window_us / 1000))
		count = count + 1
		allowed = 1
	end

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local first_us = ARGV[1]
	if oldest[2] then
		first_us = oldest[2]
	end
	return { allowed, count, first_us }
`)

func (s *RedisWindow) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := time.Now()
	// The member must be unique or two requests in the same microsecond
	// would count once.
	vals, err := slidingWindow.Run(ctx, s.client, []string{s.prefix + key},
		now.UnixMicro(), window.Microseconds(), limit, uuid.NewString(),
	).Slice()
	if err != nil {
		return Result{}, fmt.Errorf("check rate window %s: %w", key, err)
	}
	if len(vals) != 3 {
		return Result{}, fmt.Errorf("check rate window %s: unexpected reply %v", key, vals)
	}

	allowed, _ := vals[0].(int64)
	count, _ := vals[1].(int64)
	raw, _ := vals[2].(string)
	first, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Result{}, fmt.Errorf("parse rate window %s: %w", key, err)
	}
	return Result{
		Allowed:   allowed == 1,
		Limit:     limit,
		Remaining: max(limit-int(count), 0),
		ResetAt:   time.UnixMicro(int64(first)).Add(window),
	}, nil
}
