package rollups

import (
	"fmt"

	"web-analytics/internal/shared/svcerrors"
)

const (
	codeInternalEventQueryFailed   = "RLP_9000"
	codeInternalRollupUpsertFailed = "RLP_9001"
	codeInternalRetentionFailed    = "RLP_9002"
)

// errInternalEventQueryFailed returns an error when the event archive cannot
// serve a rollup window.
func errInternalEventQueryFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalEventQueryFailed, fmt.Errorf("eventQueryFailed: %w", cause))
}

// errInternalRollupUpsertFailed returns an error when a computed rollup
// record cannot be persisted.
func errInternalRollupUpsertFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalRollupUpsertFailed, fmt.Errorf("rollupUpsertFailed: %w", cause))
}

func errInternalRetentionFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalRetentionFailed, fmt.Errorf("retentionFailed: %w", cause))
}
