package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

const dashboardStatsKey = "helpdesk:dashboard:stats"

// DashboardService computes the staff dashboard statistics. Results are
// cached in Redis for a short TTL; a cache or Redis failure falls back to
// computing from Postgres directly.
type DashboardService struct {
	tickets  repository.TicketRepository
	reports  repository.ReportRepository
	redis    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs the service. redis may be nil, in which
// case caching is disabled.
func NewDashboardService(
	tickets repository.TicketRepository,
	reports repository.ReportRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		tickets:  tickets,
		reports:  reports,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// StatusBreakdown counts tickets per lifecycle state.
type StatusBreakdown struct {
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
}

// MonthlyPoint is one month of the creation trend.
type MonthlyPoint struct {
	Year  int   `json:"year"`
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

// CategorySlice is one slice of the per-category distribution.
type CategorySlice struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// TopStudent is one entry of the most-active-students list.
type TopStudent struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Count int64  `json:"count"`
}

// DashboardStats is the full dashboard payload.
type DashboardStats struct {
	TotalTickets           int64           `json:"total_tickets"`
	ByStatus               StatusBreakdown `json:"by_status"`
	ByCategory             []CategorySlice `json:"by_category"`
	MonthlyTrend           []MonthlyPoint  `json:"monthly_trend"`
	TopStudents            []TopStudent    `json:"top_students"`
	AverageResolutionHours *float64        `json:"average_resolution_hours"`
	GeneratedAt            time.Time       `json:"generated_at"`
}

// Stats returns the dashboard payload, serving from cache when fresh.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, stats)
	return stats, nil
}

// Invalidate drops the cached payload so the next read recomputes.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, dashboardStatsKey).Err(); err != nil && s.logger != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func (s *DashboardService) compute(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{GeneratedAt: time.Now()}

	var err error
	if stats.TotalTickets, err = s.tickets.CountAll(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.ByStatus.Open, err = s.tickets.CountByStatus(ctx, domain.TicketStatusOpen); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.ByStatus.InProgress, err = s.tickets.CountByStatus(ctx, domain.TicketStatusInProgress); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.ByStatus.Resolved, err = s.tickets.CountByStatus(ctx, domain.TicketStatusResolved); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.ByStatus.Closed, err = s.tickets.CountByStatus(ctx, domain.TicketStatusClosed); err != nil {
		return nil, apperrors.MapError(err)
	}

	byCategory, err := s.tickets.CountByCategory(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	stats.ByCategory = make([]CategorySlice, 0, len(byCategory))
	for _, entry := range byCategory {
		stats.ByCategory = append(stats.ByCategory, CategorySlice{Category: entry.CategoryName, Count: entry.Count})
	}

	since := time.Now().AddDate(0, -12, 0)
	trend, err := s.tickets.MonthlyTrend(ctx, since)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	stats.MonthlyTrend = make([]MonthlyPoint, 0, len(trend))
	for _, entry := range trend {
		stats.MonthlyTrend = append(stats.MonthlyTrend, MonthlyPoint{Year: entry.Year, Month: entry.Month, Count: entry.Count})
	}

	top, err := s.tickets.TopStudents(ctx, 5)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	stats.TopStudents = make([]TopStudent, 0, len(top))
	for _, entry := range top {
		stats.TopStudents = append(stats.TopStudents, TopStudent{Name: entry.StudentName, Email: entry.StudentEmail, Count: entry.Count})
	}

	if stats.AverageResolutionHours, err = s.reports.AverageResolutionHours(ctx, repository.ReportFilter{}); err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

func (s *DashboardService) fromCache(ctx context.Context) *DashboardStats {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, dashboardStatsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) && s.logger != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil
	}
	var stats DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		if s.logger != nil {
			s.logger.Warn("dashboard cache payload corrupt", zap.Error(err))
		}
		return nil
	}
	return &stats
}

func (s *DashboardService) toCache(ctx context.Context, stats *DashboardStats) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, dashboardStatsKey, raw, s.cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}
