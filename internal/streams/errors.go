package streams

import (
	"web-analytics/internal/shared/svcerrors"
)

// EventArchiveConsumer errors
const (
	codeArchiveAppendFailed = "STR_9000"
)

func errArchiveAppendFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeArchiveAppendFailed, cause)
}
