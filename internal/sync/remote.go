package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteStore receives payment records for remote reconciliation.
type RemoteStore interface {
	PushPayment(ctx context.Context, record map[string]string) error
}

// HTTPRemoteStore POSTs payment records as JSON to a sync endpoint.
type HTTPRemoteStore struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPRemoteStore(endpoint string, apiKey string) *HTTPRemoteStore {
	return &HTTPRemoteStore{
		endpoint: endpoint,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (store *HTTPRemoteStore) PushPayment(ctx context.Context, record map[string]string) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, store.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if store.apiKey != "" {
		req.Header.Set("X-Api-Key", store.apiKey)
	}

	resp, err := store.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sync endpoint status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
