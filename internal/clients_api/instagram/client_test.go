package instagram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// newTestClient points a client at a stub API server with rate limiting
// and retries disabled so tests stay instant.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Options{
		BaseURL:     srv.URL,
		Username:    "pilot",
		Password:    "secret",
		SessionFile: filepath.Join(t.TempDir(), "session.json"),
	})
	c.rateLimiter = rate.NewLimiter(rate.Inf, 0)
	c.retryOpts.MaxRetries = 0
	return c
}

func TestFetchFeedAppliesLimit(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feed/timeline/", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("count"))
		w.Write([]byte(`{"items":[{"id":"1"},{"id":"2"},{"id":"3"},{"id":"4"},{"id":"5"},{"id":"6"}],"status":"ok"}`))
	}))

	posts, err := c.FetchFeed(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, posts, 5)
}

func TestLikeRejectsBadStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail"}`))
	}))

	err := c.Like(context.Background(), "media-1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "like", apiErr.Op)
}

func TestCommentValidatesLength(t *testing.T) {
	called := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	err := c.Comment(context.Background(), "media-1", "x")
	require.Error(t, err)
	assert.False(t, called, "short comment must be rejected before any request")
}

func TestUnauthorizedBecomesAuthError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"fail","message":"login_required"}`))
	}))

	_, err := c.FetchFeed(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestSessionTokenSentAsBearer(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	c.SetSessionToken("tok-123")

	require.NoError(t, c.Like(context.Background(), "media-1"))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestLoginPasswordFlowDumpsSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/accounts/login/":
			w.Write([]byte(`{"logged_in_user":{"pk":"777","username":"pilot"},"token":"tok-abc","status":"ok"}`))
		default:
			w.Write([]byte(`{"status":"ok"}`))
		}
	}))

	require.NoError(t, c.Login(context.Background()))
	assert.Equal(t, "tok-abc", c.SessionToken())
	assert.Equal(t, "777", c.AccountID())

	// The session cache must be reusable by a fresh client.
	data, err := os.ReadFile(c.sessionFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tok-abc")
}

func TestLoginPrefersCachedSession(t *testing.T) {
	loginCalls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/accounts/login/":
			loginCalls++
			w.Write([]byte(`{"logged_in_user":{"pk":"777","username":"pilot"},"token":"tok-abc","status":"ok"}`))
		case "/accounts/current_user/":
			w.Write([]byte(`{"user":{"pk":"777","username":"pilot"},"status":"ok"}`))
		default:
			w.Write([]byte(`{"status":"ok"}`))
		}
	})

	c := newTestClient(t, handler)
	require.NoError(t, c.Login(context.Background()))
	require.Equal(t, 1, loginCalls)

	// Second client with the same session file restores without logging in.
	c2 := NewClient(Options{
		BaseURL:     c.baseURL,
		Username:    "pilot",
		Password:    "secret",
		SessionFile: c.sessionFile,
	})
	c2.rateLimiter = rate.NewLimiter(rate.Inf, 0)
	c2.retryOpts.MaxRetries = 0

	require.NoError(t, c2.Login(context.Background()))
	assert.Equal(t, 1, loginCalls)
	assert.Equal(t, "tok-abc", c2.SessionToken())
}

func TestLoginRejectedReturnsAuthError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail"}`))
	}))

	err := c.Login(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestListRelations(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/friendships/777/following/":
			w.Write([]byte(`{"users":[{"pk":"1","username":"a"},{"pk":"2","username":"b"}],"status":"ok"}`))
		case "/friendships/777/followers/":
			w.Write([]byte(`{"users":[{"pk":"2","username":"b"}],"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))

	following, err := c.ListFollowing(context.Background(), "777")
	require.NoError(t, err)
	require.Len(t, following, 2)
	assert.Equal(t, "a", following["1"].Username)

	followers, err := c.ListFollowers(context.Background(), "777")
	require.NoError(t, err)
	_, ok := followers["2"]
	assert.True(t, ok)
}
