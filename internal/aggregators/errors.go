package aggregators

import (
	"fmt"

	"web-analytics/internal/shared/svcerrors"
)

const (
	codeInternalArchiveProduceFailed = "AGG_9000"
)

// errInternalArchiveProduceFailed returns an error when an ingested event
// cannot be handed to the archive stream.
func errInternalArchiveProduceFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalArchiveProduceFailed, fmt.Errorf("archiveProduceFailed: %w", cause))
}
