package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrValidation         = errors.New("validation failed")
	ErrConfiguration      = errors.New("service misconfigured")
	ErrGatewayAuth        = errors.New("gateway authentication failed")
	ErrGatewayUnavailable = errors.New("gateway unavailable")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrDraftIncomplete    = errors.New("order draft incomplete")
	ErrLockBusy           = errors.New("resource lock busy")

	// Infra-layer errors surfaced through repository ports
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context")
)
