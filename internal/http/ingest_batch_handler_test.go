package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"web-analytics/internal/ingestors"
	ingestormocks "web-analytics/internal/ingestors/mocks"
	"web-analytics/internal/sanitizers"
	"web-analytics/internal/shared/svcerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestIngestBatchHandler_Handle_Success(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockIngestionService := ingestormocks.NewMockIngestionService(ctrl)
	handler := NewIngestBatchHandler(mockIngestionService)

	body := []byte(`{"events":[{"type":"page_view","data":{"sessionId":"s1"}},{"type":"bogus","data":{"sessionId":"s2"}}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/events/batch", bytes.NewReader(body))
	req.Header.Set(headerContentType, "application/json")
	rr := httptest.NewRecorder()

	mockIngestionService.EXPECT().
		IngestBatch(gomock.Any(), gomock.Len(2), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, raws []*sanitizers.RawEvent, _ any, _ any) (*ingestors.BatchResult, error) {
			assert.Equal(t, "page_view", raws[0].Type)
			return &ingestors.BatchResult{
				Total:      2,
				Successful: 1,
				Failed:     1,
				Results: []ingestors.EventResult{
					{Success: true, EventType: "page_view", EventID: "e1"},
					{Success: false, EventType: "bogus", Error: "unknown event kind"},
				},
			}, nil
		})

	err := handler.Handle(rr, req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp batchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.Successful)
	assert.Equal(t, 1, resp.Summary.Failed)
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].Success)
	assert.False(t, resp.Results[1].Success)
	assert.Equal(t, "unknown event kind", resp.Results[1].Error)
}

func TestIngestBatchHandler_Handle_MalformedBody(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockIngestionService := ingestormocks.NewMockIngestionService(ctrl)
	handler := NewIngestBatchHandler(mockIngestionService)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/events/batch", bytes.NewReader([]byte(`[`)))
	rr := httptest.NewRecorder()

	err := handler.Handle(rr, req)

	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, codeMalformedBody, svcErr.Code)
}

func TestIngestBatchHandler_Handle_ServiceError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockIngestionService := ingestormocks.NewMockIngestionService(ctrl)
	handler := NewIngestBatchHandler(mockIngestionService)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/events/batch", bytes.NewReader([]byte(`{"events":[]}`)))
	req.Header.Set(headerContentType, "application/json")
	rr := httptest.NewRecorder()

	expectedErr := svcerrors.NewInvalidArgumentError("ING_1000", "events cannot be empty", nil)
	mockIngestionService.EXPECT().
		IngestBatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, expectedErr)

	err := handler.Handle(rr, req)

	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "ING_1000", svcErr.Code)
}
