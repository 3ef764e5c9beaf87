package cloudapps_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cloudapps "github.com/cd1zz/defender-for-cloud-apps-api-client"
)

func TestFileService_List(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/files/", r.URL.Path)

		writeData(t, w, []cloudapps.File{
			{ID: "f1", Name: "budget.xlsx", FileType: cloudapps.FileTypeSpreadsheet},
		})
	})

	files, err := client.Files.List(t.Context(), nil, nil)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "budget.xlsx", files[0].Name)
}

func TestFileService_Get(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/files/f1/", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(cloudapps.File{ID: "f1", Sharing: cloudapps.SharingPublic})
		assert.NoError(t, err)
	})

	file, err := client.Files.Get(t.Context(), "f1")
	require.NoError(t, err)
	assert.Equal(t, cloudapps.SharingPublic, file.Sharing)
}

func TestFileService_Sharing(t *testing.T) {
	t.Run("public scoped to an app", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(t, r)
			filters := body["filters"].(map[string]any)
			assert.Equal(t, map[string]any{"eq": "Public"}, filters["sharing"])
			assert.Equal(t, map[string]any{"eq": float64(15600)}, filters["service"])
			writeData(t, w, []cloudapps.File{})
		})

		_, err := client.Files.Public(t.Context(), 15600, 10)
		require.NoError(t, err)
	})

	t.Run("external without app filter", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(t, r)
			filters := body["filters"].(map[string]any)
			assert.Equal(t, map[string]any{"eq": "External"}, filters["sharing"])
			assert.NotContains(t, filters, "service")
			writeData(t, w, []cloudapps.File{})
		})

		_, err := client.Files.External(t.Context(), 0, 10)
		require.NoError(t, err)
	})
}

func TestFileService_Quarantined(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		filters := body["filters"].(map[string]any)
		assert.Equal(t, map[string]any{"eq": true}, filters["quarantined"])
		writeData(t, w, []cloudapps.File{{ID: "f2", Quarantined: true}})
	})

	files, err := client.Files.Quarantined(t.Context(), 10)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestFileService_ByOwner(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		filters := body["filters"].(map[string]any)
		assert.Equal(t, map[string]any{"eq": "entity-1"}, filters["owner.entity"])
		writeData(t, w, []cloudapps.File{})
	})

	_, err := client.Files.ByOwner(t.Context(), "entity-1", 10)
	require.NoError(t, err)
}

func TestFileService_ByExtension(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		filters := body["filters"].(map[string]any)
		assert.Equal(t, map[string]any{"eq": "docx"}, filters["extension"])
		writeData(t, w, []cloudapps.File{})
	})

	_, err := client.Files.ByExtension(t.Context(), "docx", 10)
	require.NoError(t, err)
}

func TestFileService_RecentlyModified(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		filters := body["filters"].(map[string]any)

		comparison, ok := filters["modifiedDate"].(map[string]any)
		require.True(t, ok)
		threshold, ok := comparison["gte"].(float64)
		require.True(t, ok)
		assert.Less(t, int64(threshold), cloudapps.NowMillis())

		writeData(t, w, []cloudapps.File{})
	})

	_, err := client.Files.RecentlyModified(t.Context(), 7, 10)
	require.NoError(t, err)
}
