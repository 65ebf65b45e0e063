package employee_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Mimo68/Gestion-brigade/internal/employee"
	employeeerrors "github.com/Mimo68/Gestion-brigade/internal/employee/errors"
	"github.com/Mimo68/Gestion-brigade/internal/shared/cache"

	employeeMock "github.com/Mimo68/Gestion-brigade/internal/employee/mock"
	kafkaMock "github.com/Mimo68/Gestion-brigade/internal/messaging/kafka/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *employeeMock.MockRepository
	outbox    *kafkaMock.MockOutboxRepository
	redisMock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	dbRedis, redisMock := redismock.NewClientMock()
	repo := employeeMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := employee.NewService(db, repo, outboxRepo, dbRedis, employee.FallbackLeaveHours)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		outbox:    outboxRepo,
		redisMock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success - entitlement from contract table", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "Jean Dupont", e.Name)
				assert.Equal(t, employee.ContractCDI, e.ContractType)
				assert.Equal(t, 200, e.TotalLeaveHours)
				assert.Equal(t, 0, e.UsedLeaveHours)
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.redisMock.ExpectDel(cache.DashboardStatsKey).SetVal(1)

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			Name:         "Jean Dupont",
			StartDate:    "2022-05-01",
			ContractType: employee.ContractCDI,
		})

		assert.NoError(t, err)
		assert.Equal(t, 200, resp.TotalLeaveHours)
		assert.Equal(t, 200, resp.RemainingLeaveHours)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success - explicit entitlement wins over contract table", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, 150, e.TotalLeaveHours)
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.redisMock.ExpectDel(cache.DashboardStatsKey).SetVal(1)

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			Name:            "Marie Martin",
			StartDate:       "2023-01-15",
			ContractType:    employee.ContractCDI,
			TotalLeaveHours: 150,
		})

		assert.NoError(t, err)
		assert.Equal(t, 150, resp.TotalLeaveHours)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success - unknown contract uses fallback", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, employee.FallbackLeaveHours, e.TotalLeaveHours)
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.redisMock.ExpectDel(cache.DashboardStatsKey).SetVal(1)

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			Name:         "Pierre Durand",
			StartDate:    "2021-09-01",
			ContractType: "Interim",
		})

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid start date", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			Name:         "Sophie Bernard",
			StartDate:    "05/01/2022",
			ContractType: employee.ContractCDD,
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidStartDate)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	stored := func() *employee.Employee {
		return &employee.Employee{
			ID:              id,
			Name:            "Michel Dubois",
			StartDate:       time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC),
			ContractType:    employee.ContractCDI,
			TotalLeaveHours: 200,
			UsedLeaveHours:  40,
		}
	}

	t.Run("negative empty payload", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{})

		assert.ErrorIs(t, err, employeeerrors.ErrEmptyUpdate)
	})

	t.Run("contract change reallocates entitlement", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDForUpdate(gomock.Any(), id.String()).Return(stored(), nil)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, employee.ContractArt60, e.ContractType)
				assert.Equal(t, 120, e.TotalLeaveHours)
				assert.Equal(t, 40, e.UsedLeaveHours)
				return nil
			})
		deps.redisMock.ExpectDel(cache.DashboardStatsKey).SetVal(1)

		contract := employee.ContractArt60
		resp, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{
			ContractType: &contract,
		})

		assert.NoError(t, err)
		assert.Equal(t, 120, resp.TotalLeaveHours)
		assert.Equal(t, 80, resp.RemainingLeaveHours)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("pinned hours win over contract change", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByIDForUpdate(gomock.Any(), id.String()).Return(stored(), nil)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, employee.ContractCDD, e.ContractType)
				assert.Equal(t, 180, e.TotalLeaveHours)
				return nil
			})
		deps.redisMock.ExpectDel(cache.DashboardStatsKey).SetVal(1)

		contract := employee.ContractCDD
		hours := 180
		_, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{
			ContractType:    &contract,
			TotalLeaveHours: &hours,
		})

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByIDForUpdate(gomock.Any(), id.String()).
			Return(nil, gorm.ErrRecordNotFound)

		name := "Nobody"
		_, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{Name: &name})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_AdjustBalance(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("negative both fields nil", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.AdjustBalance(ctx, id.String(), employee.AdjustBalanceRequest{})

		assert.ErrorIs(t, err, employeeerrors.ErrEmptyBalanceAdjust)
	})

	t.Run("success - remaining may go negative", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindByIDForUpdate(gomock.Any(), id.String()).
			Return(&employee.Employee{
				ID:              id,
				TotalLeaveHours: 200,
				UsedLeaveHours:  40,
			}, nil)
		deps.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, 100, e.TotalLeaveHours)
				assert.Equal(t, 120, e.UsedLeaveHours)
				return nil
			})
		deps.redisMock.ExpectDel(cache.DashboardStatsKey).SetVal(1)

		total := 100
		used := 120
		resp, err := deps.service.AdjustBalance(ctx, id.String(), employee.AdjustBalanceRequest{
			TotalLeaveHours: &total,
			UsedLeaveHours:  &used,
		})

		assert.NoError(t, err)
		assert.Equal(t, -20, resp.RemainingLeaveHours)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().Delete(gomock.Any(), id.String()).Return(int64(1), nil)
		deps.redisMock.ExpectDel(cache.DashboardStatsKey).SetVal(1)

		err := deps.service.Delete(ctx, id.String())

		assert.NoError(t, err)
	})

	t.Run("negative no rows deleted", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().Delete(gomock.Any(), id.String()).Return(int64(0), nil)

		err := deps.service.Delete(ctx, id.String())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindAll(gomock.Any(), employee.MaxFetchLimit).
			Return([]employee.Employee{
				{
					ID:              uuid.New(),
					Name:            "Isabelle Moreau",
					StartDate:       time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC),
					ContractType:    employee.ContractCDD,
					TotalLeaveHours: 160,
					UsedLeaveHours:  24,
				},
			}, nil)

		resp, err := deps.service.GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Isabelle Moreau", resp[0].Name)
		assert.Equal(t, "2021-02-01", resp[0].StartDate)
		assert.Equal(t, 136, resp[0].RemainingLeaveHours)
	})
}
