package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"web-analytics/internal/models"
	"web-analytics/internal/shared/filestorages"
)

var ErrRollupNotFound = errors.New("rollup record not found")

// RollupStore persists one record per (granularity, window start). Upsert
// overwrites atomically, which is what makes scheduled rollup reruns
// idempotent.
//
//go:generate mockgen -source=rollup_store.go -destination=./mocks/rollup_store_mock.go -package=mocks
type RollupStore interface {
	Upsert(ctx context.Context, record *models.RollupRecord) error
	Get(ctx context.Context, granularity models.Granularity, windowStart time.Time) (*models.RollupRecord, error)
	// DeleteOlderThan removes records of the granularity whose window starts
	// before cutoff and returns the number removed.
	DeleteOlderThan(ctx context.Context, granularity models.Granularity, cutoff time.Time) (int, error)
}

type rollupStore struct {
	fileStorage filestorages.FileStorage
	dir         string
}

func NewRollupStore(fileStorage filestorages.FileStorage) RollupStore {
	return &rollupStore{fileStorage: fileStorage, dir: "rollups"}
}

func (s *rollupStore) Upsert(ctx context.Context, record *models.RollupRecord) error {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal rollup record: %w", err)
	}
	key := s.getKey(record.Granularity, record.WindowStart)
	_, err = s.fileStorage.Put(ctx, key, bytes.NewReader(jsonData), filestorages.PutOptions{AllowOverwrite: true})
	if err != nil {
		return fmt.Errorf("failed to put rollup record: %w", err)
	}
	return nil
}

func (s *rollupStore) Get(ctx context.Context, granularity models.Granularity, windowStart time.Time) (*models.RollupRecord, error) {
	key := s.getKey(granularity, windowStart)
	readCloser, err := s.fileStorage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, ErrRollupNotFound
		}
		return nil, fmt.Errorf("failed to get rollup record: %w", err)
	}

	defer readCloser.Close()
	data, err := io.ReadAll(readCloser)
	if err != nil {
		return nil, fmt.Errorf("failed to read rollup record: %w", err)
	}
	var record models.RollupRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rollup record: %w", err)
	}
	return &record, nil
}

func (s *rollupStore) DeleteOlderThan(ctx context.Context, granularity models.Granularity, cutoff time.Time) (int, error) {
	prefix := fmt.Sprintf("%s/%s", s.dir, granularity)
	keys, err := s.fileStorage.List(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list rollup records: %w", err)
	}

	deleted := 0
	for _, key := range keys {
		stamp := strings.TrimSuffix(path.Base(key), ".json")
		windowStart, err := granularity.ParseWindowStart(stamp)
		if err != nil {
			continue
		}
		if !windowStart.Before(cutoff) {
			continue
		}
		if err := s.fileStorage.Delete(ctx, key); err != nil && !errors.Is(err, filestorages.ErrFileNotFound) {
			return deleted, fmt.Errorf("failed to delete rollup record %s: %w", key, err)
		}
		deleted++
	}
	return deleted, nil
}

func (s *rollupStore) getKey(granularity models.Granularity, windowStart time.Time) string {
	return fmt.Sprintf("%s/%s/%s.json", s.dir, granularity, granularity.FormatWindowStart(windowStart))
}
