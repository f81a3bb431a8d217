package http

import (
	"encoding/json"
	"net/http"

	"github.com/lanternsoft/lantern/internal/domain"
	"github.com/lanternsoft/lantern/internal/service"
	"github.com/lanternsoft/lantern/pkg/httpx"
)

// PostsHandler serves the /v1/posts/* endpoints, comments included.
type PostsHandler struct {
	Posts *service.PostService
}

// HandleCreate godoc
//
//	@Summary	Create a post
//	@Tags		Posts
//	@Accept		json
//	@Produce	json
//	@Param		request	body	domain.PostDraft	true	"Post fields"
//	@Success	201	{object}	domain.Post
//	@Failure	400	{object}	httpx.ErrorBody
//	@Security	BearerAuth
//	@Router		/v1/posts [post]
func (h *PostsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var draft domain.PostDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	post, err := h.Posts.Create(r.Context(), httpx.AccountIDFromCtx(r.Context()), draft)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, post)
}

// HandleList godoc
//
//	@Summary	List posts
//	@Tags		Posts
//	@Produce	json
//	@Param		owner	query	string	false	"Only posts by this account"
//	@Success	200	{array}	domain.Post
//	@Security	BearerAuth
//	@Router		/v1/posts [get]
func (h *PostsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Posts.List(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, posts)
}

// HandleGet godoc
//
//	@Summary	Get one post
//	@Tags		Posts
//	@Produce	json
//	@Param		id	path	string	true	"Post id"
//	@Success	200	{object}	domain.Post
//	@Failure	404	{object}	httpx.ErrorBody
//	@Security	BearerAuth
//	@Router		/v1/posts/{id} [get]
func (h *PostsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.Posts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, post)
}

// HandleUpdate godoc
//
//	@Summary		Update a post
//	@Description	Owner only.
//	@Tags			Posts
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string	true	"Post id"
//	@Param			request	body	domain.PostDraft	true	"Post fields"
//	@Success		200	{object}	domain.Post
//	@Failure		403	{object}	httpx.ErrorBody
//	@Failure		404	{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/v1/posts/{id} [put]
func (h *PostsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var draft domain.PostDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	post, err := h.Posts.Update(r.Context(), httpx.AccountIDFromCtx(r.Context()), r.PathValue("id"), draft)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, post)
}

// HandleDelete godoc
//
//	@Summary		Delete a post
//	@Description	Owner only. Comments are removed with it.
//	@Tags			Posts
//	@Param			id	path	string	true	"Post id"
//	@Success		204
//	@Failure		403	{object}	httpx.ErrorBody
//	@Failure		404	{object}	httpx.ErrorBody
//	@Security		BearerAuth
//	@Router			/v1/posts/{id} [delete]
func (h *PostsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Posts.Delete(r.Context(), httpx.AccountIDFromCtx(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddComment godoc
//
//	@Summary	Comment on a post
//	@Tags		Posts
//	@Accept		json
//	@Produce	json
//	@Param		id		path	string	true	"Post id"
//	@Param		request	body	object	true	"content"
//	@Success	201	{object}	domain.Comment
//	@Failure	404	{object}	httpx.ErrorBody
//	@Security	BearerAuth
//	@Router		/v1/posts/{id}/comments [post]
func (h *PostsHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	comment, err := h.Posts.AddComment(r.Context(), httpx.AccountIDFromCtx(r.Context()), r.PathValue("id"), req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, comment)
}

// HandleListComments godoc
//
//	@Summary	List a post's comments
//	@Tags		Posts
//	@Produce	json
//	@Param		id	path	string	true	"Post id"
//	@Success	200	{array}		domain.Comment
//	@Failure	404	{object}	httpx.ErrorBody
//	@Security	BearerAuth
//	@Router		/v1/posts/{id}/comments [get]
func (h *PostsHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.Posts.ListComments(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, comments)
}
