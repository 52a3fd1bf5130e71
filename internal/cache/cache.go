package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

const (
	ReportKeyPrefix   = "reports:"
	OverviewReportKey = ReportKeyPrefix + "overview"
	ReportKeyPattern  = ReportKeyPrefix + "*"
)

// TeacherReportKey returns the cache key for one teacher's report
func TeacherReportKey(teacherID string) string {
	return ReportKeyPrefix + "teacher:" + teacherID
}

type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
}
