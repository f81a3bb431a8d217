package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lanternsoft/lantern/internal/domain"
	"github.com/lanternsoft/lantern/internal/store"
	"github.com/lanternsoft/lantern/pkg/idx"
)

// PostService owns the post and comment content. Posts are mutable only by
// their owner; comments may be left by any authenticated account.
type PostService struct {
	Store store.Store
}

func NewPostService(st store.Store) *PostService {
	return &PostService{Store: st}
}

func (s *PostService) Create(ctx context.Context, ownerID string, draft domain.PostDraft) (domain.Post, error) {
	if strings.TrimSpace(draft.Content) == "" {
		return domain.Post{}, ErrValidation
	}

	now := time.Now()
	post := domain.Post{
		ID:        idx.New().String(),
		OwnerID:   ownerID,
		Content:   draft.Content,
		ImageURL:  draft.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Posts().Create(ctx, post); err != nil {
		return domain.Post{}, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id string) (domain.Post, error) {
	post, err := s.Store.Posts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Post{}, ErrNotFound
		}
		return domain.Post{}, err
	}
	return post, nil
}

// List returns all posts, newest first, or only ownerID's when non-empty.
func (s *PostService) List(ctx context.Context, ownerID string) ([]domain.Post, error) {
	return s.Store.Posts().List(ctx, ownerID)
}

// Update replaces the post body. Only the owner may update.
func (s *PostService) Update(ctx context.Context, callerID, postID string, draft domain.PostDraft) (domain.Post, error) {
	if strings.TrimSpace(draft.Content) == "" {
		return domain.Post{}, ErrValidation
	}

	post, err := s.Get(ctx, postID)
	if err != nil {
		return domain.Post{}, err
	}
	if post.OwnerID != callerID {
		return domain.Post{}, ErrForbidden
	}

	post.Content = draft.Content
	post.ImageURL = draft.ImageURL
	post.UpdatedAt = time.Now()
	if err := s.Store.Posts().Update(ctx, post); err != nil {
		return domain.Post{}, fmt.Errorf("update post: %w", err)
	}
	return post, nil
}

// Delete removes a post and its comments. Only the owner may delete.
func (s *PostService) Delete(ctx context.Context, callerID, postID string) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.OwnerID != callerID {
		return ErrForbidden
	}
	return s.Store.Posts().Delete(ctx, postID)
}

// AddComment appends a comment to an existing post.
func (s *PostService) AddComment(ctx context.Context, authorID, postID, content string) (domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Comment{}, ErrValidation
	}
	if _, err := s.Get(ctx, postID); err != nil {
		return domain.Comment{}, err
	}

	comment := domain.Comment{
		ID:        idx.New().String(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.Store.Comments().Create(ctx, comment); err != nil {
		return domain.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// ListComments returns a post's comments, oldest first.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	if _, err := s.Get(ctx, postID); err != nil {
		return nil, err
	}
	return s.Store.Comments().ListForPost(ctx, postID)
}
