package employeeerrors

import (
	"net/http"

	"github.com/Mimo68/Gestion-brigade/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidStartDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid start_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrEmptyUpdate = apperror.New(
		apperror.CodeInvalidInput,
		"update payload must contain at least one field",
		http.StatusBadRequest,
	)
	ErrEmptyBalanceAdjust = apperror.New(
		apperror.CodeInvalidInput,
		"balance adjustment must set total_leave_hours or used_leave_hours",
		http.StatusBadRequest,
	)
)
