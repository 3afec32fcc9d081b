package rollups

import (
	"context"
	"errors"
	"testing"
	"time"

	"web-analytics/internal/models"
	"web-analytics/internal/shared/configs"
	"web-analytics/internal/stores/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testRollupConfig() configs.RollupConfig {
	return configs.RollupConfig{
		Granularities:       []string{"hour", "day"},
		QueryTimeoutSeconds: 5,
		RetentionDays:       30,
	}
}

func TestRunRollup_ComputesAndUpserts(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEventStore := mocks.NewMockEventStore(ctrl)
	mockRollupStore := mocks.NewMockRollupStore(ctrl)
	service := NewRollupService(testRollupConfig(), []models.Granularity{models.GranularityHour}, mockEventStore, mockRollupStore, NewRollupCalculator())

	asOf := time.Date(2026, 3, 14, 11, 0, 30, 0, time.UTC)
	windowStart := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	windowEnd := windowStart.Add(time.Hour)

	events := []*models.Event{
		evt(models.KindPageView, "s1", windowStart.Add(time.Minute), map[string]string{models.AttrCountry: "DE"}),
		evt(models.KindPageView, "s1", windowStart.Add(2*time.Minute), nil),
	}

	mockEventStore.EXPECT().
		Query(gomock.Any(), windowStart, windowEnd).
		Return(events, nil)
	mockRollupStore.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, record *models.RollupRecord) error {
			assert.Equal(t, models.GranularityHour, record.Granularity)
			assert.Equal(t, windowStart, record.WindowStart)
			assert.Equal(t, windowEnd, record.WindowEnd)
			assert.Equal(t, int64(2), record.TotalEvents)
			assert.Equal(t, int64(2), record.PageViews)
			assert.Equal(t, int64(1), record.UniqueVisitors)
			return nil
		})

	svcErr := service.RunRollup(context.Background(), models.GranularityHour, asOf)
	assert.Nil(t, svcErr)
}

func TestRunRollup_RerunProducesSameRecord(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEventStore := mocks.NewMockEventStore(ctrl)
	mockRollupStore := mocks.NewMockRollupStore(ctrl)
	service := NewRollupService(testRollupConfig(), []models.Granularity{models.GranularityHour}, mockEventStore, mockRollupStore, NewRollupCalculator())

	asOf := time.Date(2026, 3, 14, 11, 0, 30, 0, time.UTC)
	windowStart := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	events := []*models.Event{
		evt(models.KindSessionStart, "s1", windowStart.Add(time.Minute), nil),
		evt(models.KindPageView, "s1", windowStart.Add(2*time.Minute), map[string]string{models.AttrCountry: "US"}),
		evt(models.KindSessionEnd, "s1", windowStart.Add(3*time.Minute), map[string]string{models.AttrDurationMs: "120000"}),
	}

	var upserted []*models.RollupRecord
	mockEventStore.EXPECT().
		Query(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(events, nil).
		Times(2)
	mockRollupStore.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, record *models.RollupRecord) error {
			upserted = append(upserted, record)
			return nil
		}).
		Times(2)

	require.Nil(t, service.RunRollup(context.Background(), models.GranularityHour, asOf))
	require.Nil(t, service.RunRollup(context.Background(), models.GranularityHour, asOf))

	require.Len(t, upserted, 2)
	first, second := upserted[0], upserted[1]
	// identical apart from the computation timestamp
	second.ComputedAt = first.ComputedAt
	assert.Equal(t, first, second)
}

func TestRunRollup_QueryError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEventStore := mocks.NewMockEventStore(ctrl)
	mockRollupStore := mocks.NewMockRollupStore(ctrl)
	service := NewRollupService(testRollupConfig(), []models.Granularity{models.GranularityHour}, mockEventStore, mockRollupStore, NewRollupCalculator())

	mockEventStore.EXPECT().
		Query(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("archive down"))

	svcErr := service.RunRollup(context.Background(), models.GranularityHour, time.Now())
	require.NotNil(t, svcErr)
	assert.Equal(t, codeInternalEventQueryFailed, svcErr.Code)
}

func TestRunRollup_UpsertError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEventStore := mocks.NewMockEventStore(ctrl)
	mockRollupStore := mocks.NewMockRollupStore(ctrl)
	service := NewRollupService(testRollupConfig(), []models.Granularity{models.GranularityDay}, mockEventStore, mockRollupStore, NewRollupCalculator())

	mockEventStore.EXPECT().
		Query(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)
	mockRollupStore.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		Return(errors.New("disk full"))

	svcErr := service.RunRollup(context.Background(), models.GranularityDay, time.Now())
	require.NotNil(t, svcErr)
	assert.Equal(t, codeInternalRollupUpsertFailed, svcErr.Code)
}

func TestEnforceRetention(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEventStore := mocks.NewMockEventStore(ctrl)
	mockRollupStore := mocks.NewMockRollupStore(ctrl)
	granularities := []models.Granularity{models.GranularityHour, models.GranularityDay}
	service := NewRollupService(testRollupConfig(), granularities, mockEventStore, mockRollupStore, NewRollupCalculator())

	asOf := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	cutoff := asOf.Add(-30 * 24 * time.Hour)

	mockEventStore.EXPECT().
		DeleteOlderThan(gomock.Any(), cutoff).
		Return(int64(123), nil)
	mockRollupStore.EXPECT().
		DeleteOlderThan(gomock.Any(), models.GranularityHour, cutoff).
		Return(24, nil)
	mockRollupStore.EXPECT().
		DeleteOlderThan(gomock.Any(), models.GranularityDay, cutoff).
		Return(1, nil)

	assert.Nil(t, service.EnforceRetention(context.Background(), asOf))
}

func TestEnforceRetention_EventDeleteError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEventStore := mocks.NewMockEventStore(ctrl)
	mockRollupStore := mocks.NewMockRollupStore(ctrl)
	service := NewRollupService(testRollupConfig(), []models.Granularity{models.GranularityHour}, mockEventStore, mockRollupStore, NewRollupCalculator())

	mockEventStore.EXPECT().
		DeleteOlderThan(gomock.Any(), gomock.Any()).
		Return(int64(0), errors.New("archive down"))

	svcErr := service.EnforceRetention(context.Background(), time.Now())
	require.NotNil(t, svcErr)
	assert.Equal(t, codeInternalRetentionFailed, svcErr.Code)
}
