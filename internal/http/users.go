package http

import (
	"encoding/json"
	"net/http"

	"github.com/lanternsoft/lantern/internal/domain"
	"github.com/lanternsoft/lantern/internal/service"
	"github.com/lanternsoft/lantern/pkg/httpx"
)

// UsersHandler serves the /v1/users/* endpoints. All routes sit behind the
// access guard; the caller's account id comes from the request context.
type UsersHandler struct {
	Accounts *service.AccountService
}

func profiles(accounts []domain.Account) []domain.Profile {
	out := make([]domain.Profile, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Profile())
	}
	return out
}

// HandleMe godoc
//
//	@Summary	Get the caller's own profile
//	@Tags		Users
//	@Produce	json
//	@Success	200	{object}	domain.Profile
//	@Security	BearerAuth
//	@Router		/v1/users/me [get]
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	account, err := h.Accounts.Get(r.Context(), httpx.AccountIDFromCtx(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, account.Profile())
}

// HandleList godoc
//
//	@Summary	List all other accounts
//	@Tags		Users
//	@Produce	json
//	@Success	200	{array}	domain.Profile
//	@Security	BearerAuth
//	@Router		/v1/users [get]
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.List(r.Context(), httpx.AccountIDFromCtx(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profiles(accounts))
}

// HandleSearch godoc
//
//	@Summary		Search accounts by name
//	@Description	Case-insensitive contains match. The first word matches first names, the rest matches last names.
//	@Tags			Users
//	@Produce		json
//	@Param			name	path	string	true	"Name fragment"
//	@Success		200	{array}		domain.Profile
//	@Failure		400	{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/v1/users/search/{name} [get]
func (h *UsersHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.SearchByName(r.Context(), r.PathValue("name"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, profiles(accounts))
}

// HandleGet godoc
//
//	@Summary	Get one account's profile
//	@Tags		Users
//	@Produce	json
//	@Param		id	path	string	true	"Account id"
//	@Success	200	{object}	domain.Profile
//	@Failure	404	{object}	httpx.ErrorBody
//	@Security	BearerAuth
//	@Router		/v1/users/{id} [get]
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	account, err := h.Accounts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, account.Profile())
}

// HandleUpdate godoc
//
//	@Summary		Update a profile
//	@Description	Self-service only. Omitted fields keep their value; changing email or username re-checks uniqueness.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string	true	"Account id"
//	@Param			request	body	service.AccountPatch	true	"Fields to update"
//	@Success		200	{object}	domain.Profile
//	@Failure		403	{object}	httpx.ErrorBody
//	@Failure		409	{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/v1/users/{id} [put]
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch service.AccountPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	account, err := h.Accounts.Update(r.Context(), httpx.AccountIDFromCtx(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, account.Profile())
}

// HandleDelete godoc
//
//	@Summary		Delete the caller's own account
//	@Description	Sessions, posts and comments are removed with it.
//	@Tags			Users
//	@Success		204
//	@Security		BearerAuth
//	@Router			/v1/users/me [delete]
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	callerID := httpx.AccountIDFromCtx(r.Context())
	if err := h.Accounts.Delete(r.Context(), callerID, callerID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
