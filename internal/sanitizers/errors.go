package sanitizers

import (
	"web-analytics/internal/shared/svcerrors"
)

// EventSanitizer errors
const (
	codeEventRejected = "SAN_1000"
)

// errEventRejected returns an error for events that fail boundary validation.
// Rejected events never enter the pipeline and are never retried server-side.
func errEventRejected(msg string, cause error) *svcerrors.ServiceError {
	return svcerrors.NewInvalidArgumentError(codeEventRejected, msg, cause)
}
