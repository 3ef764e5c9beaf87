package cloudapps_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cloudapps "github.com/cd1zz/defender-for-cloud-apps-api-client"
)

func TestActivityService_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/activities/", r.URL.Path)

			writeData(t, w, []cloudapps.Activity{
				{
					ID:        "act-1",
					AppName:   "Microsoft OneDrive",
					IPAddress: "203.0.113.10",
					User:      cloudapps.ActivityUser{Username: "admin@example.com"},
					Location:  cloudapps.ActivityLocation{Country: "FI", City: "Helsinki"},
				},
			})
		})

		activities, err := client.Activities.List(t.Context(), nil, nil)
		require.NoError(t, err)

		require.Len(t, activities, 1)
		assert.Equal(t, "act-1", activities[0].ID)
		assert.Equal(t, "admin@example.com", activities[0].User.Username)
		assert.Equal(t, "FI", activities[0].Location.Country)
	})

	t.Run("date filter reaches the wire", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(t, r)
			filters := body["filters"].(map[string]any)
			assert.Contains(t, filters, "date")
			assert.Contains(t, filters["date"].(map[string]any), "gte")
			writeData(t, w, []cloudapps.Activity{})
		})

		filters := cloudapps.NewFilterBuilder().
			GreaterThanOrEqual("date", cloudapps.DaysAgoMillis(7)).
			Build()
		_, err := client.Activities.List(t.Context(), filters, nil)
		require.NoError(t, err)
	})
}

func TestActivityService_Get(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/activities/act-1/", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]any{
			"data": cloudapps.Activity{ID: "act-1", EventActionType: "Logon"},
		})
		assert.NoError(t, err)
	})

	activity, err := client.Activities.Get(t.Context(), "act-1")
	require.NoError(t, err)

	assert.Equal(t, "act-1", activity.ID)
	assert.Equal(t, "Logon", activity.EventActionType)
}

func TestActivityService_ProvideFeedback(t *testing.T) {
	t.Run("with comment", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/activities/act-1/feedback/", r.URL.Path)

			body := decodeBody(t, r)
			assert.Equal(t, "benign", body["feedback"])
			assert.Equal(t, "routine admin login", body["feedbackText"])

			w.WriteHeader(http.StatusOK)
		})

		err := client.Activities.ProvideFeedback(t.Context(), "act-1", "benign", "routine admin login")
		require.NoError(t, err)
	})

	t.Run("without comment", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(t, r)
			assert.Equal(t, "suspicious", body["feedback"])
			assert.NotContains(t, body, "feedbackText")
			w.WriteHeader(http.StatusOK)
		})

		err := client.Activities.ProvideFeedback(t.Context(), "act-1", "suspicious", "")
		require.NoError(t, err)
	})
}

func TestActivityService_Search(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		filters := body["filters"].(map[string]any)
		assert.Equal(t, map[string]any{"eq": "failed login"}, filters["text"])
		assert.Equal(t, map[string]any{"eq": float64(11161)}, filters["service"])
		writeData(t, w, []cloudapps.Activity{{ID: "act-9"}})
	})

	filters := cloudapps.NewFilterBuilder().Equals("service", 11161).Build()
	activities, err := client.Activities.Search(t.Context(), "failed login", filters, 25)
	require.NoError(t, err)

	require.Len(t, activities, 1)
	assert.Equal(t, "act-9", activities[0].ID)
}
