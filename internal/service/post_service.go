// Package service holds the write paths and the follow graph on top of the repositories.
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

const (
	maxPostTextLen    = 10000
	maxCommentTextLen = 2000
	maxImageRefLen    = 255
)

// PostService creates, edits and removes posts and comments. Every change to a post
// invalidates the cached global feed before it is reported as done.
type PostService struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	comments repository.CommentRepository
	cache    cache.FeedCache
	cacheLog *observability.CacheLogger
	log      *observability.StructuredLogger
}

// CreatePostInput is a new post. GroupSlug and Image are optional.
type CreatePostInput struct {
	AuthorID  uint
	Text      string
	GroupSlug string
	Image     string
}

// UpdatePostInput edits a post. Nil fields are left alone; an empty GroupSlug removes the group.
type UpdatePostInput struct {
	EditorID  uint
	PostID    uint
	Text      *string
	GroupSlug *string
	Image     *string
}

// NewPostService returns a PostService. feedCache may be nil.
func NewPostService(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	comments repository.CommentRepository,
	feedCache cache.FeedCache,
) *PostService {
	backend := "none"
	if feedCache != nil {
		backend = feedCache.Backend()
	}
	return &PostService{
		posts:    posts,
		groups:   groups,
		comments: comments,
		cache:    feedCache,
		cacheLog: observability.NewCacheLogger(backend),
		log:      observability.NewStructuredLogger(),
	}
}

func validatePostText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", models.NewValidationError("Text is required")
	}
	if utf8.RuneCountInString(text) > maxPostTextLen {
		return "", models.NewValidationError("Text too long (max 10000 characters)")
	}
	return text, nil
}

func validateImage(image string) (string, error) {
	image = strings.TrimSpace(image)
	if len(image) > maxImageRefLen {
		return "", models.NewValidationError("Image reference too long")
	}
	return image, nil
}

func (s *PostService) resolveGroup(ctx context.Context, slug string) (*uint, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &group.ID, nil
}

// CreatePost persists a post, then invalidates the global feed, then returns it.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text, err := validatePostText(in.Text)
	if err != nil {
		return nil, err
	}
	image, err := validateImage(in.Image)
	if err != nil {
		return nil, err
	}
	groupID, err := s.resolveGroup(ctx, in.GroupSlug)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     text,
		AuthorID: in.AuthorID,
		GroupID:  groupID,
		Image:    image,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	s.invalidateGlobal(ctx)

	s.log.LogServiceCall(ctx, "PostService", "CreatePost", map[string]interface{}{
		"post_id":   post.ID,
		"author_id": post.AuthorID,
	})
	return post, nil
}

// GetPost returns a post with its author's post count and its comments.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.PostDetail, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.posts.Count(ctx, repository.PostsByAuthor(post.AuthorID))
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.PostDetail{Post: post, AuthorPostCount: count, Comments: comments}, nil
}

// UpdatePost edits a post on behalf of its author.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.EditorID {
		return nil, models.NewForbiddenError("Only the author can edit this post")
	}

	if in.Text != nil {
		text, err := validatePostText(*in.Text)
		if err != nil {
			return nil, err
		}
		post.Text = text
	}
	if in.Image != nil {
		image, err := validateImage(*in.Image)
		if err != nil {
			return nil, err
		}
		post.Image = image
	}
	if in.GroupSlug != nil {
		groupID, err := s.resolveGroup(ctx, *in.GroupSlug)
		if err != nil {
			return nil, err
		}
		post.GroupID = groupID
		post.Group = nil
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	s.invalidateGlobal(ctx)
	return post, nil
}

// DeletePost removes a post and its comments on behalf of its author.
func (s *PostService) DeletePost(ctx context.Context, editorID, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != editorID {
		return models.NewForbiddenError("Only the author can delete this post")
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	s.invalidateGlobal(ctx)
	return nil
}

// AddComment attaches a comment to an existing post.
func (s *PostService) AddComment(ctx context.Context, authorID, postID uint, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if utf8.RuneCountInString(text) > maxCommentTextLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, AuthorID: authorID, Text: text}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns the comments of an existing post, newest first.
func (s *PostService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

// invalidateGlobal drops the cached global feed. The write is already durable, so a
// failure here is logged and the TTL bounds how long the stale feed can be served.
func (s *PostService) invalidateGlobal(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cache.GlobalFeedKey); err != nil {
		s.cacheLog.LogInvalidationFailure(ctx, cache.GlobalFeedKey, err)
	}
}
