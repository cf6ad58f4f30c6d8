package requesterrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"Request id must be a valid UUID",
		http.StatusBadRequest,
	)

	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"The request period is invalid",
		http.StatusBadRequest,
	)

	ErrUnknownUnit = apperror.New(
		apperror.CodeInvalidInput,
		"The request unit is not recognized",
		http.StatusBadRequest,
	)

	ErrHalfDaySpansDays = apperror.New(
		apperror.CodeInvalidInput,
		"A half-day request must start and end on the same date",
		http.StatusBadRequest,
	)

	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Request not found",
		http.StatusNotFound,
	)

	ErrNotRequester = apperror.New(
		apperror.CodeForbidden,
		"Only the requester may cancel this request",
		http.StatusForbidden,
	)

	ErrNotCancelable = apperror.New(
		apperror.CodeInvalidState,
		"Only pending requests can be canceled",
		http.StatusUnprocessableEntity,
	)
)
