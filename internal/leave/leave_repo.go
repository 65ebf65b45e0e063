package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"
)

// MaxFetchLimit caps list fetches, mirroring the employee repository.
const MaxFetchLimit = 1000

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAll(ctx context.Context, limit int) ([]Leave, error)
	FindByID(ctx context.Context, id string) (*Leave, error)
	// FindByIDForUpdate locks the leave row inside a transaction so that
	// concurrent cancellations of the same record serialize.
	FindByIDForUpdate(ctx context.Context, id string) (*Leave, error)
	FindCurrent(ctx context.Context, today time.Time, limit int) ([]Leave, error)
	Delete(ctx context.Context, id string) (int64, error)
	CountCurrent(ctx context.Context, today time.Time) (int64, error)
	CountEmployeesOnLeave(ctx context.Context, today time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
INSERT INTO leaves (id, employee_id, employee_name, start_date, end_date, days_count, hours_count, leave_type, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
`, l.ID, l.EmployeeID, l.EmployeeName, l.StartDate, l.EndDate, l.DaysCount, l.HoursCount, l.LeaveType, l.Status)
		return err
	}
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context, limit int) ([]Leave, error) {
	if limit <= 0 || limit > MaxFetchLimit {
		limit = MaxFetchLimit
	}
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Limit(limit).
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Leave, error) {
	if r.tx == nil {
		return r.FindByID(ctx, id)
	}

	row := r.tx.QueryRowContext(ctx, `
SELECT id, employee_id, employee_name, start_date, end_date, days_count, hours_count, leave_type, status, created_at
FROM leaves
WHERE id = $1
FOR UPDATE
`, id)

	var l Leave
	err := row.Scan(
		&l.ID,
		&l.EmployeeID,
		&l.EmployeeName,
		&l.StartDate,
		&l.EndDate,
		&l.DaysCount,
		&l.HoursCount,
		&l.LeaveType,
		&l.Status,
		&l.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindCurrent(ctx context.Context, today time.Time, limit int) ([]Leave, error) {
	if limit <= 0 || limit > MaxFetchLimit {
		limit = MaxFetchLimit
	}
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Where("start_date <= ?", today).
		Where("end_date >= ?", today).
		Where("status = ?", StatusInProgress).
		Order("start_date DESC").
		Limit(limit).
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, `DELETE FROM leaves WHERE id = $1`, id)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}
	res := r.db.WithContext(ctx).Delete(&Leave{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *repository) CountCurrent(ctx context.Context, today time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("start_date <= ?", today).
		Where("end_date >= ?", today).
		Where("status = ?", StatusInProgress).
		Count(&count).Error
	return count, err
}

func (r *repository) CountEmployeesOnLeave(ctx context.Context, today time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("start_date <= ?", today).
		Where("end_date >= ?", today).
		Where("status = ?", StatusInProgress).
		Distinct("employee_id").
		Count(&count).Error
	return count, err
}
