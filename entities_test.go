package cloudapps_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cloudapps "github.com/cd1zz/defender-for-cloud-apps-api-client"
)

func TestEntityService_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/entities", r.URL.Path)

			writeData(t, w, []cloudapps.Entity{
				{ID: "e1", Username: "admin@example.com", RiskScore: 7},
			})
		})

		entities, err := client.Entities.List(t.Context(), nil, nil)
		require.NoError(t, err)

		require.Len(t, entities, 1)
		assert.Equal(t, "e1", entities[0].ID)
		assert.Equal(t, 7, entities[0].RiskScore)
	})

	t.Run("sorting is nested under a sort object", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(t, r)
			assert.NotContains(t, body, "sortField")
			assert.NotContains(t, body, "sortDirection")
			assert.Equal(t, map[string]any{
				"sortField":     "riskScore",
				"sortDirection": "desc",
			}, body["sort"])
			writeData(t, w, []cloudapps.Entity{})
		})

		_, err := client.Entities.List(t.Context(), nil, &cloudapps.ListOptions{
			SortField:     "riskScore",
			SortDirection: cloudapps.SortDescending,
		})
		require.NoError(t, err)
	})

	t.Run("no sort object without a sort field", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(t, r)
			assert.NotContains(t, body, "sort")
			writeData(t, w, []cloudapps.Entity{})
		})

		_, err := client.Entities.List(t.Context(), nil, nil)
		require.NoError(t, err)
	})
}

func TestEntityService_Get(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/entities/e1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(cloudapps.Entity{
			ID:       "e1",
			Username: "admin@example.com",
			RiskFactors: []cloudapps.RiskFactor{
				{Factor: "impossible travel", Score: 4},
			},
		})
		assert.NoError(t, err)
	})

	entity, err := client.Entities.Get(t.Context(), "e1")
	require.NoError(t, err)

	assert.Equal(t, "admin@example.com", entity.Username)
	require.Len(t, entity.RiskFactors, 1)
	assert.Equal(t, "impossible travel", entity.RiskFactors[0].Factor)
}

func TestEntityService_ByUsername(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(t, r)
			filters := body["filters"].(map[string]any)
			assert.Equal(t, map[string]any{"eq": "admin@example.com"}, filters["user.username"])
			assert.Equal(t, map[string]any{"eq": "example.com"}, filters["user.domain"])
			assert.Equal(t, float64(1), body["limit"])

			writeData(t, w, []cloudapps.Entity{{ID: "e1", Username: "admin@example.com"}})
		})

		entity, err := client.Entities.ByUsername(t.Context(), "admin@example.com", "example.com")
		require.NoError(t, err)
		require.NotNil(t, entity)
		assert.Equal(t, "e1", entity.ID)
	})

	t.Run("not found returns nil without error", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeData(t, w, []cloudapps.Entity{})
		})

		entity, err := client.Entities.ByUsername(t.Context(), "ghost@example.com", "")
		require.NoError(t, err)
		assert.Nil(t, entity)
	})
}

func TestEntityService_Risky(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		filters := body["filters"].(map[string]any)
		assert.Equal(t, map[string]any{"gte": float64(5)}, filters["riskScore"])
		assert.Equal(t, map[string]any{"eq": "user"}, filters["entity.type"])
		writeData(t, w, []cloudapps.Entity{{ID: "e2", RiskScore: 8}})
	})

	entities, err := client.Entities.Risky(t.Context(), 5, cloudapps.EntityTypeUser, 20)
	require.NoError(t, err)
	assert.Len(t, entities, 1)
}

func TestEntityService_Search(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeData(t, w, []cloudapps.Entity{
			{ID: "e1", Username: "alice@example.com"},
			{ID: "e2", Email: "alice.backup@example.com"},
			{ID: "e3", Username: "bob@example.com"},
		})
	})

	entities, err := client.Entities.Search(t.Context(), "alice", "", 50)
	require.NoError(t, err)

	require.Len(t, entities, 2)
	assert.Equal(t, "e1", entities[0].ID)
	assert.Equal(t, "e2", entities[1].ID)
}

func TestEntityService_RiskFactors(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(cloudapps.Entity{
			ID: "e1",
			RiskFactors: []cloudapps.RiskFactor{
				{Factor: "mass download", Score: 3},
				{Factor: "new country", Score: 2},
			},
		})
		assert.NoError(t, err)
	})

	factors, err := client.Entities.RiskFactors(t.Context(), "e1")
	require.NoError(t, err)
	assert.Len(t, factors, 2)
}
