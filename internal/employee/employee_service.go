package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	employeeerrors "github.com/Mimo68/Gestion-brigade/internal/employee/errors"
	"github.com/Mimo68/Gestion-brigade/internal/events"
	"github.com/Mimo68/Gestion-brigade/internal/messaging/kafka"
	"github.com/Mimo68/Gestion-brigade/internal/shared/cache"
	"github.com/Mimo68/Gestion-brigade/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	AdjustBalance(ctx context.Context, id string, req AdjustBalanceRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db           *sql.DB
	repo         Repository
	outbox       kafka.OutboxRepository
	rdb          *redis.Client
	defaultHours int
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	defaultHours int,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		outbox:       outbox,
		rdb:          rdb,
		defaultHours: defaultHours,
		logger:       l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
		zap.String("contract_type", req.ContractType),
	)

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		s.logger.Warn("create employee invalid start_date",
			zap.String("start_date", req.StartDate),
		)
		return EmployeeResponse{}, employeeerrors.ErrInvalidStartDate
	}

	totalHours := req.TotalLeaveHours
	if totalHours == 0 {
		totalHours = DefaultLeaveHours(req.ContractType, s.defaultHours)
	}

	empl := &Employee{
		ID:              uuid.New(),
		Name:            req.Name,
		StartDate:       startDate,
		ContractType:    req.ContractType,
		TotalLeaveHours: totalHours,
		UsedLeaveHours:  0,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeCreatedEvent{
			EventType:       "employee_created",
			RequestID:       rid,
			EmployeeID:      empl.ID.String(),
			ContractType:    empl.ContractType,
			TotalLeaveHours: empl.TotalLeaveHours,
			OccurredAt:      time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   empl.ID.String(),
			EventType:     event.EventType,
			Topic:         events.EmployeeCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateStatsCache(ctx)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.Int("total_leave_hours", empl.TotalLeaveHours),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAll(ctx, MaxFetchLimit)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(employees), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested", zap.String("employee_id", id))

	if req.Name == nil && req.StartDate == nil && req.ContractType == nil &&
		req.TotalLeaveHours == nil && req.UsedLeaveHours == nil {
		return EmployeeResponse{}, employeeerrors.ErrEmptyUpdate
	}

	var startDate time.Time
	if req.StartDate != nil {
		var err error
		startDate, err = parseDate(*req.StartDate)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidStartDate
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil {
		empl.Name = *req.Name
	}
	if req.StartDate != nil {
		empl.StartDate = startDate
	}
	if req.ContractType != nil {
		empl.ContractType = *req.ContractType
		// Changing the contract re-allocates the entitlement from the table,
		// unless the same request pins the hours explicitly.
		if req.TotalLeaveHours == nil {
			empl.TotalLeaveHours = DefaultLeaveHours(*req.ContractType, s.defaultHours)
		}
	}
	if req.TotalLeaveHours != nil {
		empl.TotalLeaveHours = *req.TotalLeaveHours
	}
	if req.UsedLeaveHours != nil {
		empl.UsedLeaveHours = *req.UsedLeaveHours
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateStatsCache(ctx)
	s.logger.Info("update employee success", zap.String("employee_id", id))

	return mapToResponse(*empl), nil
}

// AdjustBalance is the administrative escape hatch: it sets balance fields
// directly, without any bounds check against each other. Remaining hours can
// go negative here.
func (s *service) AdjustBalance(ctx context.Context, id string, req AdjustBalanceRequest) (EmployeeResponse, error) {
	s.logger.Debug("adjust balance requested", zap.String("employee_id", id))

	if req.TotalLeaveHours == nil && req.UsedLeaveHours == nil {
		return EmployeeResponse{}, employeeerrors.ErrEmptyBalanceAdjust
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("adjust balance begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if req.TotalLeaveHours != nil {
		empl.TotalLeaveHours = *req.TotalLeaveHours
	}
	if req.UsedLeaveHours != nil {
		empl.UsedLeaveHours = *req.UsedLeaveHours
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("adjust balance persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("adjust balance commit failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateStatsCache(ctx)
	s.logger.Info("adjust balance success",
		zap.String("employee_id", id),
		zap.Int("total_leave_hours", empl.TotalLeaveHours),
		zap.Int("used_leave_hours", empl.UsedLeaveHours),
	)

	return mapToResponse(*empl), nil
}

// Delete removes the employee only. Leave records are intentionally left in
// place; cancellation tolerates the orphaned reference.
func (s *service) Delete(ctx context.Context, id string) error {
	s.logger.Debug("delete employee requested", zap.String("employee_id", id))

	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	if rows == 0 {
		return employeeerrors.ErrEmployeeNotFound
	}

	s.invalidateStatsCache(ctx)
	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateStatsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, cache.DashboardStatsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate dashboard stats cache",
			zap.Error(err),
			zap.String("key", cache.DashboardStatsKey),
		)
	}
}

func parseDate(v string) (time.Time, error) {
	return time.Parse("2006-01-02", v)
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                  empl.ID.String(),
		Name:                empl.Name,
		StartDate:           empl.StartDate.Format("2006-01-02"),
		ContractType:        empl.ContractType,
		TotalLeaveHours:     empl.TotalLeaveHours,
		UsedLeaveHours:      empl.UsedLeaveHours,
		RemainingLeaveHours: empl.RemainingLeaveHours(),
	}
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
