package service

import "errors"

// Sentinel errors returned by application services. Handlers map these
// onto HTTP status codes; callers test them with errors.Is.
var (
	ErrRequestNotFound   = errors.New("request not found")
	ErrQuoteNotFound     = errors.New("quote not found")
	ErrMachineNotFound   = errors.New("machine not found")
	ErrQuoteMismatch     = errors.New("quote does not belong to request")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrInvalidStage      = errors.New("operation not allowed in current stage")
)
