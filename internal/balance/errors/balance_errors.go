package balanceerrors

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

	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"Deduction days must be greater than zero",
		http.StatusBadRequest,
	)

	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"No leave balance exists for this member and year",
		http.StatusNotFound,
	)

	ErrBalanceNotUsable = apperror.New(
		apperror.CodeInvalidState,
		"The leave balance is expired or disabled",
		http.StatusUnprocessableEntity,
	)

	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"Remaining leave balance is not enough for this request",
		http.StatusUnprocessableEntity,
	)
)
