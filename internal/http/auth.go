package http

import (
	"encoding/json"
	"net/http"

	"github.com/lanternsoft/lantern/internal/domain"
	"github.com/lanternsoft/lantern/internal/service"
	"github.com/lanternsoft/lantern/pkg/httpx"
)

// AuthHandler serves the /v1/auth/* endpoints.
type AuthHandler struct {
	Accounts *service.AccountService
	Tokens   *service.TokenService
}

// sessionResponse is the payload of every successful sign-in or rotation.
type sessionResponse struct {
	Account domain.Profile `json:"account"`
	domain.SessionPair
}

// HandleRegister godoc
//
//	@Summary		Register a new account
//	@Description	Creates an account and returns its first session pair.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	domain.AccountDraft	true	"Registration fields"
//	@Success		201	{object}	sessionResponse
//	@Failure		400	{object}	httpx.ErrorBody
//	@Failure		409	{object}	httpx.ErrorBody
//	@Router			/v1/auth/register [post]
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var draft domain.AccountDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	account, pair, err := h.Accounts.Register(r.Context(), draft)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse{Account: account.Profile(), SessionPair: pair})
}

// HandleLogin godoc
//
//	@Summary	Sign in with username and password
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body	object	true	"username, password"
//	@Success	200	{object}	sessionResponse
//	@Failure	401	{object}	httpx.ErrorBody
//	@Router		/v1/auth/login [post]
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	account, pair, err := h.Accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Account: account.Profile(), SessionPair: pair})
}

// HandleGoogle godoc
//
//	@Summary	Sign in with a Google ID token
//	@Tags		Auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body	object	true	"idToken"
//	@Success	200	{object}	sessionResponse
//	@Failure	401	{object}	httpx.ErrorBody
//	@Router		/v1/auth/google [post]
func (h *AuthHandler) HandleGoogle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"idToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	account, pair, err := h.Accounts.LoginWithIdentity(r.Context(), req.IDToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{Account: account.Profile(), SessionPair: pair})
}

// HandleRefresh godoc
//
//	@Summary		Rotate a refresh credential
//	@Description	Exchanges the bearer refresh token for a fresh pair. The presented token is consumed. Presenting an already-used token signs the whole account out everywhere.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	domain.SessionPair
//	@Failure		401	{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/v1/auth/refresh [post]
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	raw := httpx.BearerToken(r)
	if raw == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}

	pair, err := h.Tokens.Rotate(r.Context(), raw)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, pair)
}

// HandleLogout godoc
//
//	@Summary		Sign out
//	@Description	Revokes the bearer refresh token's session. Succeeds even when the session is already gone.
//	@Tags			Auth
//	@Success		204
//	@Failure		401	{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/v1/auth/logout [post]
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	raw := httpx.BearerToken(r)
	if raw == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
		return
	}

	if err := h.Tokens.Revoke(r.Context(), raw); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
