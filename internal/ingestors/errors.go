package ingestors

import (
	"web-analytics/internal/shared/svcerrors"
)

// IngestionService errors
const (
	codeValidationFailed = "ING_1000"
)

// errValidationFailed returns an error for batch-level validation failures.
// Per-event rejections carry the sanitizer's own code instead.
func errValidationFailed(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeValidationFailed, msg, cause)
}
