package talks_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/talks-explorer/internal/talks"
)

// upstream is a fake talks API answering every request with the same status and body,
// recording the escaped request URIs it receives.
type upstream struct {
	mu       sync.Mutex
	requests []string
	status   int
	body     string
}

func newUpstream(t *testing.T, status int, body string) (*upstream, *httptest.Server) {
	t.Helper()

	u := &upstream{status: status, body: body}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.requests = append(u.requests, r.URL.RequestURI())
		u.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(u.status)
		_, _ = w.Write([]byte(u.body))
	}))
	t.Cleanup(srv.Close)

	return u, srv
}

func (u *upstream) Requests() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.requests...)
}

func TestClientTalks(t *testing.T) {
	ctx := context.Background()

	t.Run("Decode the talks of a successful response", func(t *testing.T) {
		body := `[{"id":1,"title":"Intro","speakers":[{"firstName":"Ada"}],"categories":[],"duration":30}]`
		up, srv := newUpstream(t, http.StatusOK, body)

		got, err := talks.NewClient(srv.URL).Talks(ctx, talks.AllTalks())
		require.NoError(t, err)
		require.Len(t, got, 1)

		assert.Equal(t, talks.ID("1"), got[0].ID)
		assert.Equal(t, "Intro", got[0].Title)
		assert.Equal(t, []talks.Speaker{{FirstName: "Ada"}}, got[0].Speakers)
		assert.Empty(t, got[0].Categories)
		assert.Equal(t, "30", got[0].Duration.String())
		assert.Empty(t, got[0].Summary)
		assert.Equal(t, []string{"/api/talks"}, up.Requests())
	})

	t.Run("Accept string identifiers and null fields", func(t *testing.T) {
		body := `[{"id":"tc-101","title":"Testcontainers","duration":null,"speakers":null}]`
		_, srv := newUpstream(t, http.StatusOK, body)

		got, err := talks.NewClient(srv.URL).Talks(ctx, talks.AllTalks())
		require.NoError(t, err)
		require.Len(t, got, 1)

		assert.Equal(t, talks.ID("tc-101"), got[0].ID)
		assert.Empty(t, got[0].Duration)
		assert.Nil(t, got[0].Speakers)
	})

	t.Run("A successful response that is not an array has no talks", func(t *testing.T) {
		for _, body := range []string{`{"talks":[]}`, `null`, `"nothing"`, `[]`} {
			_, srv := newUpstream(t, http.StatusOK, body)

			got, err := talks.NewClient(srv.URL).Talks(ctx, talks.AllTalks())
			require.NoError(t, err, body)
			assert.Empty(t, got, body)
		}
	})

	t.Run("An unparsable successful response is an error", func(t *testing.T) {
		_, srv := newUpstream(t, http.StatusOK, `<html>oops</html>`)

		_, err := talks.NewClient(srv.URL).Talks(ctx, talks.AllTalks())
		require.Error(t, err)

		var apiErr *talks.APIError
		assert.False(t, errors.As(err, &apiErr))
	})

	t.Run("Non-2xx responses carry the server message", func(t *testing.T) {
		_, srv := newUpstream(t, http.StatusNotFound, `{"message":"No talks found for category: rust"}`)

		_, err := talks.NewClient(srv.URL).Talks(ctx, talks.ByCategory("rust"))
		require.Error(t, err)

		var apiErr *talks.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "No talks found for category: rust", apiErr.Error())
	})

	t.Run("Non-2xx responses without envelope report the status", func(t *testing.T) {
		_, srv := newUpstream(t, http.StatusBadGateway, `upstream is down`)

		_, err := talks.NewClient(srv.URL).Talks(ctx, talks.AllTalks())
		require.Error(t, err)
		assert.Equal(t, "HTTP error! status: 502", err.Error())
	})

	t.Run("Transport failures are wrapped", func(t *testing.T) {
		_, srv := newUpstream(t, http.StatusOK, `[]`)
		baseURL := srv.URL
		srv.Close()

		_, err := talks.NewClient(baseURL).Talks(ctx, talks.AllTalks())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetching "+baseURL+"/api/talks")
	})
}

func TestClientEncodesQueries(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		query talks.Query
		want  string
	}{
		{name: "all", query: talks.AllTalks(), want: "/api/talks"},
		{name: "category", query: talks.ByCategory("Cloud Native"), want: "/api/talks/category/Cloud%20Native"},
		{name: "category with slash", query: talks.ByCategory("CI/CD"), want: "/api/talks/category/CI%2FCD"},
		{name: "title", query: talks.ByTitle("go & tests"), want: "/api/talks/search?title=go%20%26%20tests"},
		{name: "title with plus", query: talks.ByTitle("c++"), want: "/api/talks/search?title=c%2B%2B"},
		{name: "speaker", query: talks.BySpeaker("Ada Lovelace"), want: "/api/talks/speaker?name=Ada%20Lovelace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up, srv := newUpstream(t, http.StatusOK, `[]`)

			_, err := talks.NewClient(srv.URL + "/").Talks(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, up.Requests())
			assert.Equal(t, tt.want, tt.query.Path())
		})
	}
}

func TestClientCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("Decode the category labels", func(t *testing.T) {
		up, srv := newUpstream(t, http.StatusOK, `["Cloud","Go","Testing"]`)

		got, err := talks.NewClient(srv.URL).Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Cloud", "Go", "Testing"}, got)
		assert.Equal(t, []string{"/api/categories"}, up.Requests())
	})

	t.Run("Failures ignore the response body", func(t *testing.T) {
		_, srv := newUpstream(t, http.StatusInternalServerError, `{"message":"boom"}`)

		_, err := talks.NewClient(srv.URL).Categories(ctx)
		require.Error(t, err)
		assert.Equal(t, "HTTP error! status: 500", err.Error())
	})
}

func TestClientSpeakers(t *testing.T) {
	_, srv := newUpstream(t, http.StatusOK, `[{"firstName":"Grace","lastName":"Hopper"},{"lastName":"Lovelace"}]`)

	got, err := talks.NewClient(srv.URL).Speakers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Grace Hopper", got[0].FullName())
	assert.Equal(t, "Lovelace", got[1].FullName())
}

// memoryCache is an in-process talks.Cache.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.items[key]
	return body, ok
}

func (m *memoryCache) Set(_ context.Context, key string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = body
}

func TestClientCache(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful responses are served from the cache", func(t *testing.T) {
		up, srv := newUpstream(t, http.StatusOK, `["Go"]`)
		cache := &memoryCache{items: map[string][]byte{}}
		client := talks.NewClient(srv.URL, talks.WithCache(cache))

		for i := 0; i < 3; i++ {
			got, err := client.Categories(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Go"}, got)
		}

		assert.Len(t, up.Requests(), 1)
		assert.Contains(t, cache.items, "/api/categories")
	})

	t.Run("Failed responses are not cached", func(t *testing.T) {
		up, srv := newUpstream(t, http.StatusServiceUnavailable, `{"message":"try later"}`)
		cache := &memoryCache{items: map[string][]byte{}}
		client := talks.NewClient(srv.URL, talks.WithCache(cache))

		for i := 0; i < 2; i++ {
			_, err := client.Talks(ctx, talks.AllTalks())
			require.Error(t, err)
		}

		assert.Len(t, up.Requests(), 2)
		assert.Empty(t, cache.items)
	})
}
