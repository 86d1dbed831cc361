package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-lessons/pkg/simplelessons"
	"github.com/tendant/simple-lessons/pkg/simplelessons/api"
	"github.com/tendant/simple-lessons/pkg/simplelessons/session"
	"github.com/tendant/simple-lessons/pkg/simplelessons/store/memory"
)

// setupTestServer wires a router over the memory store with a static session,
// the embedder configuration that needs no JWT middleware.
func setupTestServer(t *testing.T) (*httptest.Server, simplelessons.Service, *session.StaticProvider) {
	t.Helper()

	store := memory.New()
	sessions := session.NewStatic("owner-1")
	svc, err := simplelessons.New(
		simplelessons.WithRecordStore(store),
		simplelessons.WithSessionProvider(sessions),
	)
	require.NoError(t, err)

	server := httptest.NewServer(api.NewRouter(svc, nil))
	t.Cleanup(server.Close)
	return server, svc, sessions
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestLessonEndpoints(t *testing.T) {
	server, _, _ := setupTestServer(t)

	var lessonID string

	t.Run("create", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/lessons", map[string]any{
			"title":           "Intro to Go",
			"description":     "First steps",
			"difficultyLevel": "beginner",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		lesson := decodeBody[simplelessons.Lesson](t, resp)
		assert.NotEmpty(t, lesson.ID)
		assert.Equal(t, "Intro to Go", lesson.Title)
		lessonID = lesson.ID
	})

	t.Run("create invalid", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/lessons", map[string]any{
			"title": "No description",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("get by id and legacy shape", func(t *testing.T) {
		for _, id := range []string{lessonID, "lesson_" + lessonID} {
			resp := doJSON(t, http.MethodGet, server.URL+"/api/lessons/"+id, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode, "id %q", id)

			lesson := decodeBody[simplelessons.Lesson](t, resp)
			assert.Equal(t, lessonID, lesson.ID)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/lessons/nope", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("update", func(t *testing.T) {
		resp := doJSON(t, http.MethodPut, server.URL+"/api/lessons/"+lessonID, map[string]any{
			"title": "Intro to Go, revised",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		lesson := decodeBody[simplelessons.Lesson](t, resp)
		assert.Equal(t, "Intro to Go, revised", lesson.Title)
		assert.Equal(t, "First steps", lesson.Description)
	})

	t.Run("list", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/lessons", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		lessons := decodeBody[[]simplelessons.Lesson](t, resp)
		require.Len(t, lessons, 1)
	})

	t.Run("delete", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, server.URL+"/api/lessons/"+lessonID, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, http.MethodGet, server.URL+"/api/lessons/"+lessonID, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUnauthenticatedRequests(t *testing.T) {
	server, _, sessions := setupTestServer(t)
	sessions.Clear()

	resp := doJSON(t, http.MethodGet, server.URL+"/api/lessons", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/lessons", map[string]any{
		"title": "t", "description": "d",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestModuleEndpoints(t *testing.T) {
	server, _, _ := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/modules", map[string]any{
		"title":       "Go Course",
		"description": "From zero",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	module := decodeBody[simplelessons.Module](t, resp)

	base := fmt.Sprintf("%s/api/modules/%s", server.URL, module.ID)

	resp = doJSON(t, http.MethodPost, base+"/lessons", map[string]any{
		"title": "Generics", "description": "d", "difficultyLevel": "advanced",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	advanced := decodeBody[simplelessons.Lesson](t, resp)

	resp = doJSON(t, http.MethodPost, base+"/lessons", map[string]any{
		"title": "Hello World", "description": "d", "difficultyLevel": "beginner",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	beginner := decodeBody[simplelessons.Lesson](t, resp)

	t.Run("suggested sequence", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, base+"/sequence", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		sequence := decodeBody[[]simplelessons.Lesson](t, resp)
		require.Len(t, sequence, 2)
		assert.Equal(t, beginner.ID, sequence[0].ID)
		assert.Equal(t, advanced.ID, sequence[1].ID)
	})

	t.Run("persist order", func(t *testing.T) {
		resp := doJSON(t, http.MethodPut, base+"/sequence", map[string]any{
			"lessons": []string{beginner.ID, advanced.ID},
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, http.MethodGet, base, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		got := decodeBody[simplelessons.Module](t, resp)
		assert.Equal(t, []string{beginner.ID, advanced.ID}, got.Lessons)
		assert.Equal(t, 2, got.LessonCount)
	})

	t.Run("delete", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, base, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestExploreEndpoints(t *testing.T) {
	server, svc, sessions := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/lessons", map[string]any{
		"title": "Shared", "description": "d", "isPublic": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	lesson := decodeBody[simplelessons.Lesson](t, resp)

	// The explore surface works without any session.
	sessions.Clear()

	t.Run("list public", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/explore", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		lessons := decodeBody[[]simplelessons.Lesson](t, resp)
		require.Len(t, lessons, 1)
		assert.Equal(t, lesson.ID, lessons[0].ID)
		assert.EqualValues(t, 0, lessons[0].Views)
	})

	t.Run("record view", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/explore/"+lesson.ID+"/views", nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		// Unknown ids still answer 204; the counter is best effort.
		resp = doJSON(t, http.MethodPost, server.URL+"/api/explore/nope/views", nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		public, err := svc.ListPublicLessons(context.Background())
		require.NoError(t, err)
		require.Len(t, public, 1)
		assert.EqualValues(t, 1, public[0].Views)
	})
}
