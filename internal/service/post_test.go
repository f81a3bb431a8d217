package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lanternsoft/lantern/internal/domain"
	"github.com/lanternsoft/lantern/internal/service"
)

func TestPostLifecycle(t *testing.T) {
	st := newTestStore(t)
	posts := service.NewPostService(st)
	alice := seedAccount(t, st, "alice")
	bob := seedAccount(t, st, "bob")

	post, err := posts.Create(t.Context(), alice.ID, domain.PostDraft{Content: "hello world"})
	require.NoError(t, err)
	require.Equal(t, alice.ID, post.OwnerID)

	t.Run("blank content rejected", func(t *testing.T) {
		_, err := posts.Create(t.Context(), alice.ID, domain.PostDraft{Content: "   "})
		require.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("owner updates", func(t *testing.T) {
		updated, err := posts.Update(t.Context(), alice.ID, post.ID, domain.PostDraft{Content: "edited"})
		require.NoError(t, err)
		require.Equal(t, "edited", updated.Content)
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		_, err := posts.Update(t.Context(), bob.ID, post.ID, domain.PostDraft{Content: "hijacked"})
		require.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		require.ErrorIs(t, posts.Delete(t.Context(), bob.ID, post.ID), service.ErrForbidden)
	})

	t.Run("owner filter", func(t *testing.T) {
		_, err := posts.Create(t.Context(), bob.ID, domain.PostDraft{Content: "bob's post"})
		require.NoError(t, err)

		all, err := posts.List(t.Context(), "")
		require.NoError(t, err)
		require.Len(t, all, 2)

		mine, err := posts.List(t.Context(), alice.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		require.Equal(t, alice.ID, mine[0].OwnerID)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, posts.Delete(t.Context(), alice.ID, post.ID))
		_, err := posts.Get(t.Context(), post.ID)
		require.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestComments(t *testing.T) {
	st := newTestStore(t)
	posts := service.NewPostService(st)
	alice := seedAccount(t, st, "alice")
	bob := seedAccount(t, st, "bob")

	post, err := posts.Create(t.Context(), alice.ID, domain.PostDraft{Content: "discuss"})
	require.NoError(t, err)

	// Anyone signed in may comment, not just the owner.
	first, err := posts.AddComment(t.Context(), bob.ID, post.ID, "first!")
	require.NoError(t, err)
	require.Equal(t, bob.ID, first.AuthorID)

	_, err = posts.AddComment(t.Context(), alice.ID, post.ID, "thanks")
	require.NoError(t, err)

	list, err := posts.ListComments(t.Context(), post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "first!", list[0].Content, "comments come back oldest first")

	t.Run("blank comment rejected", func(t *testing.T) {
		_, err := posts.AddComment(t.Context(), bob.ID, post.ID, "")
		require.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := posts.AddComment(t.Context(), bob.ID, "no-such-post", "hello")
		require.ErrorIs(t, err, service.ErrNotFound)

		_, err = posts.ListComments(t.Context(), "no-such-post")
		require.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("comments die with the post", func(t *testing.T) {
		require.NoError(t, posts.Delete(t.Context(), alice.ID, post.ID))
		_, err := posts.ListComments(t.Context(), post.ID)
		require.ErrorIs(t, err, service.ErrNotFound)
	})
}
