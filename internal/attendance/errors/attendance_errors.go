package attendanceerrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrInvalidMemberID = apperror.New(
		apperror.CodeInvalidInput,
		"Member id must be a valid UUID",
		http.StatusBadRequest,
	)

	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"Month must be given as YYYY-MM",
		http.StatusBadRequest,
	)

	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"Already clocked in for today",
		http.StatusConflict,
	)

	ErrNotClockedIn = apperror.New(
		apperror.CodeInvalidState,
		"No clock-in exists for today",
		http.StatusUnprocessableEntity,
	)

	ErrAlreadyClockedOut = apperror.New(
		apperror.CodeConflict,
		"Already clocked out for today",
		http.StatusConflict,
	)
)
