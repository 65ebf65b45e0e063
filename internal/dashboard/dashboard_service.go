package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Mimo68/Gestion-brigade/internal/employee"
	"github.com/Mimo68/Gestion-brigade/internal/leave"
	"github.com/Mimo68/Gestion-brigade/internal/shared/cache"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const statsCacheTTL = 30 * time.Second

type Service interface {
	Stats(ctx context.Context, today time.Time) (StatsResponse, error)
}

type service struct {
	employees employee.Repository
	leaves    leave.Repository
	rdb       *redis.Client
	sf        *singleflight.Group
	logger    *zap.Logger
}

func NewService(
	employees employee.Repository,
	leaves leave.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{
		employees: employees,
		leaves:    leaves,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

// Stats is a pure read-side aggregation. The short-lived cache entry is
// also dropped by the employee and leave write sides on every mutation.
func (s *service) Stats(ctx context.Context, today time.Time) (StatsResponse, error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cache.DashboardStatsKey).Result(); err == nil {
			var resp StatsResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Singleflight keeps a dashboard refresh storm from fanning out into
	// parallel aggregation queries.
	v, err, _ := s.sf.Do(cache.DashboardStatsKey, func() (interface{}, error) {
		totalEmployees, err := s.employees.Count(ctx)
		if err != nil {
			s.logger.Error("count employees failed", zap.Error(err))
			return StatsResponse{}, err
		}

		currentLeaves, err := s.leaves.CountCurrent(ctx, day)
		if err != nil {
			s.logger.Error("count current leaves failed", zap.Error(err))
			return StatsResponse{}, err
		}

		employeesOnLeave, err := s.leaves.CountEmployeesOnLeave(ctx, day)
		if err != nil {
			s.logger.Error("count employees on leave failed", zap.Error(err))
			return StatsResponse{}, err
		}

		resp := StatsResponse{
			TotalEmployees:     totalEmployees,
			CurrentLeaves:      currentLeaves,
			AvailableEmployees: totalEmployees - employeesOnLeave,
			EmployeesOnLeave:   employeesOnLeave,
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cache.DashboardStatsKey, jsonData, statsCacheTTL)
			}
		}

		return resp, nil
	})

	if err != nil {
		return StatsResponse{}, err
	}

	return v.(StatsResponse), nil
}
