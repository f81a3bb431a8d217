package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	httpapi "github.com/lanternsoft/lantern/internal/http"
	"github.com/lanternsoft/lantern/internal/service"
	"github.com/lanternsoft/lantern/internal/store/drivers/sqlite"
	"github.com/lanternsoft/lantern/pkg/cryptox"
	"github.com/lanternsoft/lantern/pkg/jwtx"
)

// newTestServer wires a full router over a temp sqlite database, identity
// sign-in disabled.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSigner("test-key", pemKey)
	require.NoError(t, err)
	verifier := jwtx.NewVerifier("lantern-test")
	verifier.AddSigner(signer)

	tokens := service.NewTokenService(signer, verifier, st, "lantern-test")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := httpapi.NewRouter(verifier, "test", st, logger)
	router.Guard = service.NewAccessGuard(verifier)
	router.TokenService = tokens
	router.AccountService = service.NewAccountService(st, tokens, nil)
	router.PostService = service.NewPostService(st)
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, bearer string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, url, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

type sessionBody struct {
	Account struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"account"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func register(t *testing.T, baseURL, username string) sessionBody {
	t.Helper()

	resp, raw := doJSON(t, http.MethodPost, baseURL+"/v1/auth/register", "", map[string]string{
		"email":     username + "@example.com",
		"username":  username,
		"password":  "hunter2hunter2",
		"firstName": "Test",
		"lastName":  "User",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register failed: %s", raw)

	var session sessionBody
	require.NoError(t, json.Unmarshal(raw, &session))
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.RefreshToken)
	return session
}

// Covers the happy path and the theft-response path end to end: register,
// use the access token, rotate, then replay the consumed refresh token and
// watch every session die while the outstanding access token keeps working.
func TestAuthFlowWithReuseDetection(t *testing.T) {
	srv := newTestServer(t)
	session := register(t, srv.URL, "alice")

	// Access token admits.
	resp, raw := doJSON(t, http.MethodGet, srv.URL+"/v1/users/me", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "me failed: %s", raw)

	// Rotate.
	resp, raw = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/refresh", session.RefreshToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "refresh failed: %s", raw)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	var next sessionBody
	require.NoError(t, json.Unmarshal(raw, &next))
	require.NotEqual(t, session.RefreshToken, next.RefreshToken)

	// Replay of the consumed token: rejected, and it takes the whole session
	// set with it.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/refresh", session.RefreshToken, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The successor token died in the clear too.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/refresh", next.RefreshToken, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// But the access token is verified statelessly and keeps working until
	// it expires.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v1/users/me", next.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogoutFlow(t *testing.T) {
	srv := newTestServer(t)
	session := register(t, srv.URL, "alice")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/logout", session.RefreshToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The revoked credential no longer rotates.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/refresh", session.RefreshToken, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginEndpoint(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv.URL, "alice")

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/login", "", map[string]string{
		"username": "alice",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login failed: %s", raw)

	// Wrong password and unknown user return the same body.
	resp, badPass := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, badUser := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/login", "", map[string]string{
		"username": "nobody", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.JSONEq(t, string(badPass), string(badUser))
}

func TestGuardRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t)
	session := register(t, srv.URL, "alice")

	t.Run("no token", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/v1/users/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/v1/users/me", "garbage", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("refresh token cannot authorize", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/v1/users/me", session.RefreshToken, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestPostsOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv.URL, "alice")
	bob := register(t, srv.URL, "bob")

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/v1/posts", alice.AccessToken,
		map[string]string{"content": "hello world"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create failed: %s", raw)

	var post struct {
		ID    string `json:"id"`
		Owner string `json:"owner"`
	}
	require.NoError(t, json.Unmarshal(raw, &post))
	require.Equal(t, alice.Account.ID, post.Owner)

	t.Run("foreign update forbidden", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPut, srv.URL+"/v1/posts/"+post.ID, bob.AccessToken,
			map[string]string{"content": "hijacked"})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("anyone comments", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/v1/posts/"+post.ID+"/comments", bob.AccessToken,
			map[string]string{"content": "nice"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, raw := doJSON(t, http.MethodGet, srv.URL+"/v1/posts/"+post.ID+"/comments", alice.AccessToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var comments []struct {
			Content string `json:"content"`
		}
		require.NoError(t, json.Unmarshal(raw, &comments))
		require.Len(t, comments, 1)
	})

	t.Run("owner deletes", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/v1/posts/"+post.ID, alice.AccessToken, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v1/posts/"+post.ID, alice.AccessToken, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUsersOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv.URL, "alice")
	bob := register(t, srv.URL, "bob")

	t.Run("list excludes caller", func(t *testing.T) {
		resp, raw := doJSON(t, http.MethodGet, srv.URL+"/v1/users", alice.AccessToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var users []struct {
			Username string `json:"username"`
		}
		require.NoError(t, json.Unmarshal(raw, &users))
		require.Len(t, users, 1)
		require.Equal(t, "bob", users[0].Username)
	})

	t.Run("search", func(t *testing.T) {
		resp, raw := doJSON(t, http.MethodGet, srv.URL+"/v1/users/search/Test", alice.AccessToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var users []struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(raw, &users))
		require.Len(t, users, 2)
	})

	t.Run("foreign profile update forbidden", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPut, srv.URL+"/v1/users/"+bob.Account.ID, alice.AccessToken,
			map[string]string{"firstName": "Mallory"})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/register", "", map[string]string{
			"email":     "alice@example.com",
			"username":  "alice-two",
			"password":  "hunter2hunter2",
			"firstName": "Test",
			"lastName":  "User",
		})
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("delete own account", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/v1/users/me", bob.AccessToken, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v1/users/"+bob.Account.ID, alice.AccessToken, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, raw := doJSON(t, http.MethodGet, srv.URL+"/livez", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(raw, &health))
	require.Equal(t, "ok", health.Status)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/readyz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
