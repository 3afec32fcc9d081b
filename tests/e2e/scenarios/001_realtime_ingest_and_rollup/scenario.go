package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// ### Start - fixed configs (no change)
// These values define deterministic test data generation and must match expected results.
// DO NOT MODIFY: Changing these will break the test's deterministic behavior.
const (
	totalSessions   = 200 // Unique sessions to simulate
	pagesPerSession = 8   // page_view events per session
	endedSessions   = 100 // Sessions that send an explicit session_end
)

var (
	pages      = []string{"/", "/pricing", "/docs", "/blog"}
	features   = []string{"search", "export", "share", "upload"}
	countries  = []string{"US", "DE", "JP", "BR"}
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
		"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
		"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
	}
)

// ### End - fixed configs

type rawEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

type batchRequest struct {
	Events []rawEvent `json:"events"`
}

type batchResponse struct {
	Summary struct {
		Total      int `json:"total"`
		Successful int `json:"successful"`
		Failed     int `json:"failed"`
	} `json:"summary"`
}

type snapshotResponse struct {
	OnlineUsers     int `json:"onlineUsers"`
	CurrentSessions int `json:"currentSessions"`
	EventsPerMinute struct {
		Current  uint64 `json:"current"`
		Previous uint64 `json:"previous"`
	} `json:"eventsPerMinute"`
	FeatureUsage map[string]uint64 `json:"featureUsage"`
	SystemHealth struct {
		Status string `json:"status"`
		Score  int    `json:"score"`
	} `json:"systemHealth"`
}

// main runs the e2e scenario: 001_realtime_ingest_and_rollup
//
// This scenario exercises the end-to-end flow of analytics event ingestion,
// real-time aggregation, and minute-level rollup. It simulates a population of
// browser sessions sending page views, feature usage and session lifecycle
// events, then verifies the live snapshot and the durable rollup output.
//
// What it tests:
//   - Single event ingestion via POST /api/analytics/events
//   - Batch ingestion via POST /api/analytics/events/batch (per-event outcomes)
//   - Rejection of malformed events (400) without poisoning the batch
//   - Live snapshot via GET /api/analytics/real-time (online users, per-minute
//     counts, feature usage, health)
//   - Minute rollup records written to the file storage directory
//
// Expected results:
//   - All well-formed events are accepted with 201
//   - The one malformed event in the mixed batch is reported failed, the rest succeed
//   - Snapshot shows onlineUsers == totalSessions and a healthy status
//   - A rollups/minute/*.json record appears within two minutes
func main() {
	// these configs can be changed to run the scenario
	baseURL := "http://localhost:8080"    // Base URL of the web-analytics API server
	batchSize := 100                      // Events per batch request (server max)
	parallel := 4                         // Number of concurrent batch requests to send
	fileStorageDir := ".tmp/file-storage" // File storage directory path relative to project root
	wantCleanFileStorage := true          // If true, clean up file storage directory before running scenario
	rollupWait := 150 * time.Second       // How long to wait for the minute rollup record

	// Get project root directory by looking for go.mod file
	// Start from current working directory and walk up until we find go.mod
	projectRoot, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to get current working directory: %v\n", err)
		os.Exit(1)
	}
	for i := 0; i < 10; i++ {
		goModPath := filepath.Join(projectRoot, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			break
		}
		parent := filepath.Dir(projectRoot)
		if parent == projectRoot {
			fmt.Fprintf(os.Stderr, "ERROR: Could not find go.mod file. Please run from project root\n")
			os.Exit(1)
		}
		projectRoot = parent
	}

	storagePath, err := filepath.Abs(filepath.Join(projectRoot, fileStorageDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to resolve file storage path: %v\n", err)
		os.Exit(1)
	}

	if wantCleanFileStorage {
		fmt.Printf("Cleaning file storage directory: %s\n", storagePath)
		if err := os.RemoveAll(storagePath); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: Failed to clean file storage directory: %v\n", err)
		}
		fmt.Println()
	}

	fmt.Println("Starting e2e scenario: 001_realtime_ingest_and_rollup")
	fmt.Printf("BASE_URL: %s\n", baseURL)
	fmt.Printf("TOTAL_SESSIONS: %d\n", totalSessions)
	fmt.Printf("PAGES_PER_SESSION: %d\n", pagesPerSession)
	fmt.Printf("ENDED_SESSIONS: %d\n", endedSessions)
	fmt.Printf("BATCH_SIZE: %d\n", batchSize)
	fmt.Printf("PARALLEL: %d\n", parallel)
	fmt.Printf("FILE_STORAGE_PATH: %s\n", storagePath)
	fmt.Println()

	// Generate all events
	events := generateAllEvents()
	fmt.Printf("Generated %d events\n", len(events))

	// Split into batches
	batches := make([][]rawEvent, 0, len(events)/batchSize+1)
	for start := 0; start < len(events); start += batchSize {
		end := start + batchSize
		if end > len(events) {
			end = len(events)
		}
		batches = append(batches, events[start:end])
	}
	fmt.Printf("Generated %d batches to send\n", len(batches))
	fmt.Println()

	// Send all batches through a bounded worker pool
	workerChan := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errors []error
	var acceptedEvents int64
	var rejectedEvents int64

	for i, batch := range batches {
		wg.Add(1)
		workerChan <- struct{}{} // Acquire worker slot

		go func(batchIndex int, batch []rawEvent) {
			defer wg.Done()
			defer func() { <-workerChan }() // Release worker slot

			summary, err := sendBatch(baseURL, batch)
			if err != nil {
				mu.Lock()
				errors = append(errors, fmt.Errorf("batch %d: %w", batchIndex, err))
				mu.Unlock()
				fmt.Fprintf(os.Stderr, "ERROR: Batch %d failed: %v\n", batchIndex, err)
				return
			}
			atomic.AddInt64(&acceptedEvents, int64(summary.Summary.Successful))
			atomic.AddInt64(&rejectedEvents, int64(summary.Summary.Failed))
			fmt.Printf("Batch %d completed (%d/%d accepted)\n", batchIndex, summary.Summary.Successful, summary.Summary.Total)
		}(i, batch)
	}
	wg.Wait()
	fmt.Println()

	if len(errors) > 0 {
		fmt.Fprintf(os.Stderr, "ERROR: %d batch sends failed\n", len(errors))
		os.Exit(1)
	}
	if rejected := atomic.LoadInt64(&rejectedEvents); rejected != 0 {
		fmt.Fprintf(os.Stderr, "ERROR: expected 0 rejected events in clean batches, got %d\n", rejected)
		os.Exit(1)
	}

	// A mixed batch: one malformed event among well-formed ones
	mixed := []rawEvent{
		pageViewEvent("e2e-session-000", 0),
		{Type: "not_a_real_kind", Data: map[string]any{"sessionId": "e2e-session-000"}},
		featureUseEvent("e2e-session-000", 0),
	}
	summary, err := sendBatch(baseURL, mixed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: mixed batch failed: %v\n", err)
		os.Exit(1)
	}
	if summary.Summary.Successful != 2 || summary.Summary.Failed != 1 {
		fmt.Fprintf(os.Stderr, "ERROR: mixed batch expected 2 accepted / 1 failed, got %d/%d\n",
			summary.Summary.Successful, summary.Summary.Failed)
		os.Exit(1)
	}
	fmt.Println("Mixed batch rejected exactly the malformed event")

	// Single event endpoint: accepted and rejected cases
	if status, err := sendSingle(baseURL, pageViewEvent("e2e-session-001", 1)); err != nil || status != http.StatusCreated {
		fmt.Fprintf(os.Stderr, "ERROR: single event expected 201, got %d (%v)\n", status, err)
		os.Exit(1)
	}
	if status, err := sendSingle(baseURL, rawEvent{Type: "page_view", Data: map[string]any{}}); err != nil || status != http.StatusBadRequest {
		fmt.Fprintf(os.Stderr, "ERROR: event without sessionId expected 400, got %d (%v)\n", status, err)
		os.Exit(1)
	}
	fmt.Println("Single event endpoint behaves as expected")
	fmt.Println()

	// Verify the live snapshot
	snapshot, err := fetchSnapshot(baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to fetch snapshot: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("=== Snapshot ===")
	fmt.Printf("Online users: %d\n", snapshot.OnlineUsers)
	fmt.Printf("Current sessions: %d\n", snapshot.CurrentSessions)
	fmt.Printf("Events this minute: %d\n", snapshot.EventsPerMinute.Current)
	fmt.Printf("Health: %s (%d)\n", snapshot.SystemHealth.Status, snapshot.SystemHealth.Score)

	if snapshot.OnlineUsers != totalSessions {
		fmt.Fprintf(os.Stderr, "ERROR: expected %d online users, got %d\n", totalSessions, snapshot.OnlineUsers)
		os.Exit(1)
	}
	if snapshot.CurrentSessions != totalSessions-endedSessions {
		fmt.Fprintf(os.Stderr, "ERROR: expected %d current sessions, got %d\n", totalSessions-endedSessions, snapshot.CurrentSessions)
		os.Exit(1)
	}
	if snapshot.EventsPerMinute.Current == 0 {
		fmt.Fprintf(os.Stderr, "ERROR: expected nonzero events this minute\n")
		os.Exit(1)
	}
	for _, feature := range features {
		if snapshot.FeatureUsage[feature] == 0 {
			fmt.Fprintf(os.Stderr, "ERROR: expected feature %q in snapshot usage\n", feature)
			os.Exit(1)
		}
	}
	fmt.Println()

	// Wait for the minute rollup record to land in file storage
	fmt.Printf("Waiting up to %s for a minute rollup record...\n", rollupWait)
	rollupDir := filepath.Join(storagePath, "rollups", "minute")
	deadline := time.Now().Add(rollupWait)
	found := false
	for time.Now().Before(deadline) {
		matches, _ := filepath.Glob(filepath.Join(rollupDir, "*.json"))
		if len(matches) > 0 {
			fmt.Printf("Found rollup record: %s\n", matches[0])
			found = true
			break
		}
		time.Sleep(5 * time.Second)
	}
	if !found {
		fmt.Fprintf(os.Stderr, "ERROR: no minute rollup record appeared in %s\n", rollupDir)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("=== Statistics ===")
	fmt.Printf("Accepted events: %d\n", atomic.LoadInt64(&acceptedEvents))
	fmt.Printf("Rejected events: %d\n", atomic.LoadInt64(&rejectedEvents))
	fmt.Println("Scenario completed successfully")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func sessionID(sessionIndex int) string {
	return fmt.Sprintf("e2e-session-%03d", sessionIndex)
}

func pageViewEvent(session string, i int) rawEvent {
	return rawEvent{
		Type: "page_view",
		Data: map[string]any{
			"sessionId": session,
			"page":      pages[i%len(pages)],
			"userAgent": userAgents[i%len(userAgents)],
			"country":   countries[i%len(countries)],
		},
	}
}

func featureUseEvent(session string, i int) rawEvent {
	return rawEvent{
		Type: "feature_use",
		Data: map[string]any{
			"sessionId": session,
			"feature":   features[i%len(features)],
			"success":   true,
			"country":   countries[i%len(countries)],
		},
	}
}

// generateAllEvents builds every session's lifecycle: a start, page views,
// one feature use, and for the first endedSessions sessions an explicit end.
func generateAllEvents() []rawEvent {
	events := make([]rawEvent, 0, totalSessions*(pagesPerSession+3))
	for s := 0; s < totalSessions; s++ {
		session := sessionID(s)
		events = append(events, rawEvent{
			Type: "session_start",
			Data: map[string]any{
				"sessionId": session,
				"userAgent": userAgents[s%len(userAgents)],
				"country":   countries[s%len(countries)],
			},
		})
		for p := 0; p < pagesPerSession; p++ {
			events = append(events, pageViewEvent(session, s+p))
		}
		events = append(events, featureUseEvent(session, s))
		if s < endedSessions {
			events = append(events, rawEvent{
				Type: "session_end",
				Data: map[string]any{"sessionId": session},
			})
		}
	}
	return events
}

func sendBatch(baseURL string, batch []rawEvent) (*batchResponse, error) {
	jsonData, err := json.Marshal(batchRequest{Events: batch})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch: %w", err)
	}

	req, err := http.NewRequest("POST", baseURL+"/api/analytics/events/batch", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
	}

	var parsed batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode batch response: %w", err)
	}
	return &parsed, nil
}

func sendSingle(baseURL string, event rawEvent) (int, error) {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	resp, err := http.Post(baseURL+"/api/analytics/events", "application/json", bytes.NewReader(jsonData))
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

func fetchSnapshot(baseURL string) (*snapshotResponse, error) {
	resp, err := http.Get(baseURL + "/api/analytics/real-time")
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var snapshot snapshotResponse
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}
