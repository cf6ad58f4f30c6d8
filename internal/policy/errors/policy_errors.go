package policyerrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidPolicyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid policy id",
		http.StatusBadRequest,
	)
	ErrInvalidTargetID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid assignment target id",
		http.StatusBadRequest,
	)
	ErrUnknownPolicyType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown policy type code",
		http.StatusBadRequest,
	)
	ErrUnknownScopeType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown policy scope type",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveWindow = apperror.New(
		apperror.CodeInvalidInput,
		"effective_from must be before or equal effective_to",
		http.StatusBadRequest,
	)
	ErrInvalidRuleDocument = apperror.New(
		apperror.CodeInvalidInput,
		"policy rule document failed validation",
		http.StatusBadRequest,
	)
	ErrPolicyNotFound = apperror.New(
		apperror.CodeNotFound,
		"policy not found",
		http.StatusNotFound,
	)
	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"policy assignment not found",
		http.StatusNotFound,
	)
	ErrNoApplicablePolicy = apperror.New(
		apperror.CodeNotFound,
		"no applicable policy for this member",
		http.StatusUnprocessableEntity,
	)
	ErrMissingLeaveRule = apperror.New(
		apperror.CodeInvalidState,
		"policy has no leave rule configured",
		http.StatusUnprocessableEntity,
	)
	ErrMissingWorkTimeRule = apperror.New(
		apperror.CodeInvalidState,
		"policy has no work time rule configured",
		http.StatusUnprocessableEntity,
	)
	ErrMissingOvertimeRule = apperror.New(
		apperror.CodeInvalidState,
		"policy has no overtime rule configured",
		http.StatusUnprocessableEntity,
	)
)
