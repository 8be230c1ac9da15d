// Package docstore is a client for a Firestore-style document REST API: get
// by path, write with merge semantics, per-user document trees. Requests are
// authenticated with an OAuth2 token source when one is configured.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"caltrack/internal/domain"
)

// Client talks to the remote document store.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ domain.LogStore = (*Client)(nil)
var _ domain.ProfileStore = (*Client)(nil)

// New creates a Client for the store at baseURL. When ts is non-nil every
// request carries a bearer token from it.
func New(baseURL string, ts oauth2.TokenSource) *Client {
	httpClient := &http.Client{Timeout: 12 * time.Second}
	if ts != nil {
		httpClient = &http.Client{
			Timeout:   12 * time.Second,
			Transport: &oauth2.Transport{Source: ts},
		}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    httpClient,
	}
}

func (c *Client) get(ctx context.Context, path string, dst any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("get %s failed with status %d", path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}

// merge PATCHes the document at path; the store folds the payload into any
// existing document, leaving unspecified fields untouched.
func (c *Client) merge(ctx context.Context, path string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("merge %s failed with status %d", path, resp.StatusCode)
	}
	return nil
}

type dayDoc struct {
	DayID     string             `json:"dayId"`
	Foods     []domain.FoodEntry `json:"foods"`
	Totals    domain.Totals      `json:"totals"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// GetDayLog fetches the log document for (userID, dayID); nil when absent.
func (c *Client) GetDayLog(ctx context.Context, userID, dayID string) (*domain.DayLog, error) {
	var doc dayDoc
	ok, err := c.get(ctx, fmt.Sprintf("/logs/%s/days/%s", userID, dayID), &doc)
	if err != nil || !ok {
		return nil, err
	}
	return &domain.DayLog{DayID: dayID, Foods: doc.Foods, Totals: doc.Totals}, nil
}

// MergeDayLog writes the log document with merge semantics.
func (c *Client) MergeDayLog(ctx context.Context, userID string, l domain.DayLog) error {
	return c.merge(ctx, fmt.Sprintf("/logs/%s/days/%s", userID, l.DayID), dayDoc{
		DayID:     l.DayID,
		Foods:     l.Foods,
		Totals:    l.Totals,
		UpdatedAt: time.Now().UTC(),
	})
}

// GetProfile fetches the profile document for userID; nil when absent.
func (c *Client) GetProfile(ctx context.Context, userID string) (*domain.ProfileDoc, error) {
	var doc domain.ProfileDoc
	ok, err := c.get(ctx, "/users/"+userID, &doc)
	if err != nil || !ok {
		return nil, err
	}
	return &doc, nil
}

// MergeProfile writes the profile document with merge semantics. A zero
// CreatedAt is omitted from the payload so the store keeps the original.
func (c *Client) MergeProfile(ctx context.Context, userID string, doc domain.ProfileDoc) error {
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	payload := struct {
		Email     string         `json:"email"`
		Profile   domain.Profile `json:"profile"`
		CreatedAt *time.Time     `json:"createdAt,omitempty"`
		UpdatedAt time.Time      `json:"updatedAt"`
	}{
		Email:     doc.Email,
		Profile:   doc.Profile,
		UpdatedAt: doc.UpdatedAt,
	}
	if !doc.CreatedAt.IsZero() {
		payload.CreatedAt = &doc.CreatedAt
	}
	return c.merge(ctx, "/users/"+userID, payload)
}
