package cloudapps_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cloudapps "github.com/cd1zz/defender-for-cloud-apps-api-client"
)

func TestErrorClassification(t *testing.T) {
	t.Run("401 returns AuthenticationError", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid token", http.StatusUnauthorized)
		})

		_, err := client.Alerts.List(t.Context(), nil, nil)
		require.Error(t, err)

		var authErr *cloudapps.AuthenticationError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
		assert.Contains(t, authErr.Error(), "authentication failed")
	})

	t.Run("429 returns RateLimitError after retries", func(t *testing.T) {
		var calls int
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := client.Alerts.List(t.Context(), nil, nil)
		require.Error(t, err)

		var rateErr *cloudapps.RateLimitError
		require.ErrorAs(t, err, &rateErr)
		assert.Equal(t, http.StatusTooManyRequests, rateErr.StatusCode)

		// The transport retried before surfacing (setup allows one retry).
		assert.Equal(t, 2, calls)
	})

	t.Run("other non-success statuses return APIError", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such record", http.StatusNotFound)
		})

		_, err := client.Alerts.Get(t.Context(), "missing")
		require.Error(t, err)

		var apiErr *cloudapps.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "no such record", apiErr.Message)
	})

	t.Run("specific errors match APIError via errors.As", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := client.Alerts.List(t.Context(), nil, nil)
		require.Error(t, err)

		var apiErr *cloudapps.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	})

	t.Run("empty success body yields no items", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		alerts, err := client.Alerts.List(t.Context(), nil, nil)
		require.NoError(t, err)
		assert.Empty(t, alerts)
	})

	t.Run("network failure returns APIError without status", func(t *testing.T) {
		client, err := cloudapps.NewClient(
			cloudapps.WithBaseURL("http://127.0.0.1:1"),
			cloudapps.WithAPIToken("test-token"),
			cloudapps.WithRateLimitInterval(0),
			cloudapps.WithMaxRetries(1),
		)
		require.NoError(t, err)
		t.Cleanup(client.Close)

		_, err = client.Alerts.List(t.Context(), nil, nil)
		require.Error(t, err)

		var apiErr *cloudapps.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Zero(t, apiErr.StatusCode)
	})
}

func TestBulkError(t *testing.T) {
	err := &cloudapps.BulkError{Failures: []cloudapps.BulkFailure{
		{Name: "corp-hq", Err: errors.New("boom")},
		{Name: "corp-dr", Err: errors.New("boom")},
	}}

	assert.Contains(t, err.Error(), "2 item(s) failed")
	assert.Contains(t, err.Error(), "corp-hq")
	assert.Contains(t, err.Error(), "corp-dr")
}
