package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Mimo68/Gestion-brigade/internal/employee"
	employeeerrors "github.com/Mimo68/Gestion-brigade/internal/employee/errors"
	"github.com/Mimo68/Gestion-brigade/internal/events"
	leaveerrors "github.com/Mimo68/Gestion-brigade/internal/leave/errors"
	"github.com/Mimo68/Gestion-brigade/internal/messaging/kafka"
	"github.com/Mimo68/Gestion-brigade/internal/shared/cache"
	"github.com/Mimo68/Gestion-brigade/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Book(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context) ([]LeaveResponse, error)
	GetCurrent(ctx context.Context, today time.Time) ([]LeaveResponse, error)
	Cancel(ctx context.Context, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	outbox    kafka.OutboxRepository
	rdb       *redis.Client
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		outbox:    outbox,
		rdb:       rdb,
		logger:    l,
	}
}

// Book consumes balance and records the leave in a single transaction.
// The FOR UPDATE lock on the employee row serializes concurrent bookings,
// so two requests that jointly exceed the entitlement cannot both pass the
// availability check.
func (s *service) Book(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("book leave requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.Int("hours_count", req.HoursCount),
	)

	employeeID, startDate, endDate, err := validateBookRequest(req)
	if err != nil {
		s.logger.Warn("book leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	leaveType := req.LeaveType
	if leaveType == "" {
		leaveType = DefaultLeaveType
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("book leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	emps := s.employees.WithTx(tx)
	empl, err := emps.FindByIDForUpdate(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		s.logger.Error("book leave employee lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if empl.UsedLeaveHours+req.HoursCount > empl.TotalLeaveHours {
		s.logger.Warn("book leave insufficient balance",
			zap.String("employee_id", req.EmployeeID),
			zap.Int("requested_hours", req.HoursCount),
			zap.Int("remaining_hours", empl.RemainingLeaveHours()),
		)
		return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
	}

	empl.UsedLeaveHours += req.HoursCount
	if err := emps.Update(ctx, empl); err != nil {
		s.logger.Error("book leave balance update failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &Leave{
		ID:           uuid.New(),
		EmployeeID:   employeeID,
		EmployeeName: empl.Name,
		StartDate:    startDate,
		EndDate:      endDate,
		DaysCount:    CountBusinessDays(startDate, endDate),
		HoursCount:   req.HoursCount,
		LeaveType:    leaveType,
		Status:       StatusInProgress,
		CreatedAt:    time.Now().UTC(),
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("book leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.queueOutboxEvent(ctx, tx, l.ID.String(), events.LeaveBookedTopic, events.LeaveBookedEvent{
		EventType:  "leave_booked",
		RequestID:  rid,
		LeaveID:    l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		HoursCount: l.HoursCount,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("book leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.invalidateStatsCache(ctx)
	s.logger.Info("book leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("hours_count", l.HoursCount),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAll(ctx, MaxFetchLimit)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetCurrent(ctx context.Context, today time.Time) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindCurrent(ctx, truncateToDate(today), MaxFetchLimit)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

// Cancel deletes the record and refunds the booked hours in one
// transaction. The refund floors at zero, and an orphaned record (employee
// already deleted) still cancels, silently skipping the refund.
func (s *service) Cancel(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("cancel leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		s.logger.Error("cancel leave lookup failed", zap.Error(err))
		return err
	}

	emps := s.employees.WithTx(tx)
	empl, err := emps.FindByIDForUpdate(ctx, l.EmployeeID.String())
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Warn("cancel leave employee missing, skipping balance refund",
			zap.String("leave_id", id),
			zap.String("employee_id", l.EmployeeID.String()),
		)
	case err != nil:
		s.logger.Error("cancel leave employee lookup failed", zap.Error(err))
		return err
	default:
		empl.UsedLeaveHours -= l.HoursCount
		if empl.UsedLeaveHours < 0 {
			empl.UsedLeaveHours = 0
		}
		if err := emps.Update(ctx, empl); err != nil {
			s.logger.Error("cancel leave balance refund failed", zap.Error(err))
			return err
		}
	}

	rows, err := qtx.Delete(ctx, id)
	if err != nil {
		s.logger.Error("cancel leave delete failed", zap.Error(err))
		return err
	}
	if rows == 0 {
		return leaveerrors.ErrLeaveNotFound
	}

	if err := s.queueOutboxEvent(ctx, tx, id, events.LeaveCancelledTopic, events.LeaveCancelledEvent{
		EventType:     "leave_cancelled",
		RequestID:     rid,
		LeaveID:       id,
		EmployeeID:    l.EmployeeID.String(),
		HoursRefunded: l.HoursCount,
		OccurredAt:    time.Now().UTC(),
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.Error(err))
		return err
	}

	s.invalidateStatsCache(ctx)
	s.logger.Info("cancel leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
	)
	return nil
}

func (s *service) queueOutboxEvent(ctx context.Context, tx *sql.Tx, aggregateID, topic string, event any) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal leave event failed", zap.Error(err))
		return err
	}

	eventType := ""
	switch e := event.(type) {
	case events.LeaveBookedEvent:
		eventType = e.EventType
	case events.LeaveCancelledEvent:
		eventType = e.EventType
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("leave outbox persist failed",
			zap.String("leave_id", aggregateID),
			zap.Error(err),
		)
		return err
	}
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

func validateBookRequest(req CreateLeaveRequest) (uuid.UUID, time.Time, time.Time, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidEmployeeID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	if req.HoursCount < 0 {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidHours
	}
	return employeeID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mapToResponse(l Leave) LeaveResponse {
	return LeaveResponse{
		ID:           l.ID.String(),
		EmployeeID:   l.EmployeeID.String(),
		EmployeeName: l.EmployeeName,
		StartDate:    l.StartDate.Format("2006-01-02"),
		EndDate:      l.EndDate.Format("2006-01-02"),
		DaysCount:    l.DaysCount,
		HoursCount:   l.HoursCount,
		LeaveType:    l.LeaveType,
		Status:       l.Status,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
