package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Mimo68/Gestion-brigade/internal/dashboard"
	"github.com/Mimo68/Gestion-brigade/internal/shared/cache"

	employeeMock "github.com/Mimo68/Gestion-brigade/internal/employee/mock"
	leaveMock "github.com/Mimo68/Gestion-brigade/internal/leave/mock"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type serviceDeps struct {
	service   dashboard.Service
	employees *employeeMock.MockRepository
	leaves    *leaveMock.MockRepository
	redisMock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	dbRedis, redisMock := redismock.NewClientMock()
	employeeRepo := employeeMock.NewMockRepository(ctrl)
	leaveRepo := leaveMock.NewMockRepository(ctrl)

	svc := dashboard.NewService(employeeRepo, leaveRepo, dbRedis)

	return &serviceDeps{
		service:   svc,
		employees: employeeRepo,
		leaves:    leaveRepo,
		redisMock: redisMock,
	}
}

func TestDashboardService_Stats(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 5, 11, 45, 0, 0, time.UTC)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	t.Run("aggregates counts on cache miss", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.redisMock.ExpectGet(cache.DashboardStatsKey).RedisNil()
		deps.employees.EXPECT().Count(gomock.Any()).Return(int64(40), nil)
		deps.leaves.EXPECT().CountCurrent(gomock.Any(), day).Return(int64(7), nil)
		deps.leaves.EXPECT().CountEmployeesOnLeave(gomock.Any(), day).Return(int64(5), nil)

		expected := dashboard.StatsResponse{
			TotalEmployees:     40,
			CurrentLeaves:      7,
			AvailableEmployees: 35,
			EmployeesOnLeave:   5,
		}
		payload, err := json.Marshal(expected)
		assert.NoError(t, err)
		deps.redisMock.ExpectSet(cache.DashboardStatsKey, payload, 30*time.Second).SetVal("OK")

		resp, err := deps.service.Stats(ctx, now)

		assert.NoError(t, err)
		assert.Equal(t, expected, resp)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("serves cached payload without touching repositories", func(t *testing.T) {
		deps := setupServiceTest(t)

		cached := dashboard.StatsResponse{
			TotalEmployees:     12,
			CurrentLeaves:      2,
			AvailableEmployees: 10,
			EmployeesOnLeave:   2,
		}
		payload, err := json.Marshal(cached)
		assert.NoError(t, err)
		deps.redisMock.ExpectGet(cache.DashboardStatsKey).SetVal(string(payload))

		resp, err := deps.service.Stats(ctx, now)

		assert.NoError(t, err)
		assert.Equal(t, cached, resp)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("negative count failure", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.redisMock.ExpectGet(cache.DashboardStatsKey).RedisNil()
		deps.employees.EXPECT().Count(gomock.Any()).Return(int64(0), errors.New("db down"))

		_, err := deps.service.Stats(ctx, now)

		assert.Error(t, err)
	})

	t.Run("available never counts an employee twice", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.redisMock.ExpectGet(cache.DashboardStatsKey).RedisNil()
		// 3 concurrent leaves held by only 2 distinct employees
		deps.employees.EXPECT().Count(gomock.Any()).Return(int64(10), nil)
		deps.leaves.EXPECT().CountCurrent(gomock.Any(), day).Return(int64(3), nil)
		deps.leaves.EXPECT().CountEmployeesOnLeave(gomock.Any(), day).Return(int64(2), nil)
		payload, err := json.Marshal(dashboard.StatsResponse{
			TotalEmployees:     10,
			CurrentLeaves:      3,
			AvailableEmployees: 8,
			EmployeesOnLeave:   2,
		})
		assert.NoError(t, err)
		deps.redisMock.ExpectSet(cache.DashboardStatsKey, payload, 30*time.Second).SetVal("OK")

		resp, err := deps.service.Stats(ctx, now)

		assert.NoError(t, err)
		assert.Equal(t, int64(8), resp.AvailableEmployees)
		assert.Equal(t, int64(3), resp.CurrentLeaves)
	})
}
