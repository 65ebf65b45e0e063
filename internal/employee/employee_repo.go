package employee

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

// MaxFetchLimit caps list fetches. The front-end never pages past this;
// callers that need more must paginate explicitly.
const MaxFetchLimit = 1000

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	CreateBatch(ctx context.Context, employees []Employee) error
	FindAll(ctx context.Context, limit int) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	// FindByIDForUpdate takes a FOR UPDATE row lock when running inside a
	// transaction. Balance mutations must go through this to serialize
	// concurrent bookings against the same employee.
	FindByIDForUpdate(ctx context.Context, id string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id string) (int64, error)
	Count(ctx context.Context) (int64, error)
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
INSERT INTO employees (id, name, start_date, contract_type, total_leave_hours, used_leave_hours, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
`, e.ID, e.Name, e.StartDate, e.ContractType, e.TotalLeaveHours, e.UsedLeaveHours)
		return err
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) CreateBatch(ctx context.Context, employees []Employee) error {
	if len(employees) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(employees, 100).Error
}

func (r *repository) FindAll(ctx context.Context, limit int) ([]Employee, error) {
	if limit <= 0 || limit > MaxFetchLimit {
		limit = MaxFetchLimit
	}
	var employees []Employee
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Limit(limit).
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Employee, error) {
	if r.tx == nil {
		return r.FindByID(ctx, id)
	}

	row := r.tx.QueryRowContext(ctx, `
SELECT id, name, start_date, contract_type, total_leave_hours, used_leave_hours, created_at, updated_at
FROM employees
WHERE id = $1
FOR UPDATE
`, id)

	var e Employee
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.StartDate,
		&e.ContractType,
		&e.TotalLeaveHours,
		&e.UsedLeaveHours,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
UPDATE employees
SET name = $2, start_date = $3, contract_type = $4, total_leave_hours = $5, used_leave_hours = $6, updated_at = now()
WHERE id = $1
`, e.ID, e.Name, e.StartDate, e.ContractType, e.TotalLeaveHours, e.UsedLeaveHours)
		return err
	}
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Employee{}).Count(&count).Error
	return count, err
}
