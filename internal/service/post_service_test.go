package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost_PersistsThenInvalidates(t *testing.T) {
	var calls []string
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post) error {
		calls = append(calls, "persist")
		p.ID = 42
		return nil
	}
	c := &cacheStub{invalidateFn: func(context.Context, string) error {
		calls = append(calls, "invalidate")
		return nil
	}}
	svc := NewPostService(posts, noopGroupRepo(), noopCommentRepo(), c)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: 3, Text: "  hello  ", GroupSlug: "cats"})
	require.NoError(t, err)
	assert.Equal(t, []string{"persist", "invalidate"}, calls)
	assert.Equal(t, []string{cache.GlobalFeedKey}, c.invalidated)
	assert.Equal(t, uint(42), post.ID)
	assert.Equal(t, "hello", post.Text)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, uint(7), *post.GroupID)
}

func TestCreatePost_Validation(t *testing.T) {
	c := &cacheStub{}
	svc := NewPostService(noopPostRepo(), noopGroupRepo(), noopCommentRepo(), c)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreatePostInput
		code string
	}{
		{"blank text", CreatePostInput{AuthorID: 1, Text: "   "}, models.CodeValidation},
		{"text too long", CreatePostInput{AuthorID: 1, Text: strings.Repeat("я", maxPostTextLen+1)}, models.CodeValidation},
		{"image too long", CreatePostInput{AuthorID: 1, Text: "x", Image: strings.Repeat("a", 300)}, models.CodeValidation},
		{"unknown group", CreatePostInput{AuthorID: 1, Text: "x", GroupSlug: "dogs"}, models.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tt.in)
			assertCode(t, tt.code, err)
		})
	}
	assert.Empty(t, c.invalidated, "rejected writes never touch the cache")

	_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 1, Text: strings.Repeat("я", maxPostTextLen)})
	assert.NoError(t, err)
}

func TestCreatePost_StoreFailureSkipsInvalidation(t *testing.T) {
	posts := noopPostRepo()
	posts.createFn = func(context.Context, *models.Post) error { return models.NewInternalError(errors.New("db down")) }
	c := &cacheStub{}
	svc := NewPostService(posts, noopGroupRepo(), noopCommentRepo(), c)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: 1, Text: "x"})
	assertCode(t, models.CodeInternal, err)
	assert.Empty(t, c.invalidated)
}

func TestCreatePost_InvalidationFailureStillAcknowledges(t *testing.T) {
	c := &cacheStub{invalidateFn: func(context.Context, string) error { return errors.New("redis down") }}
	svc := NewPostService(noopPostRepo(), noopGroupRepo(), noopCommentRepo(), c)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: 1, Text: "x"})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
}

func TestCreatePost_NoCache(t *testing.T) {
	svc := NewPostService(noopPostRepo(), noopGroupRepo(), noopCommentRepo(), nil)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: 1, Text: "x"})
	assert.NoError(t, err)
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()
	text := "edited"
	noGroup := ""

	t.Run("author edits and clears group", func(t *testing.T) {
		var saved *models.Post
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			gid := uint(7)
			return &models.Post{ID: id, AuthorID: 1, Text: "old", GroupID: &gid}, nil
		}
		posts.updateFn = func(_ context.Context, p *models.Post) error { saved = p; return nil }
		c := &cacheStub{}
		svc := NewPostService(posts, noopGroupRepo(), noopCommentRepo(), c)

		got, err := svc.UpdatePost(ctx, UpdatePostInput{EditorID: 1, PostID: 5, Text: &text, GroupSlug: &noGroup})
		require.NoError(t, err)
		assert.Equal(t, "edited", got.Text)
		assert.Nil(t, saved.GroupID)
		assert.Equal(t, []string{cache.GlobalFeedKey}, c.invalidated)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		c := &cacheStub{}
		svc := NewPostService(noopPostRepo(), noopGroupRepo(), noopCommentRepo(), c)
		_, err := svc.UpdatePost(ctx, UpdatePostInput{EditorID: 2, PostID: 5, Text: &text})
		assertCode(t, models.CodeForbidden, err)
		assert.Empty(t, c.invalidated)
	})

	t.Run("missing post", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewPostService(posts, noopGroupRepo(), noopCommentRepo(), &cacheStub{})
		_, err := svc.UpdatePost(ctx, UpdatePostInput{EditorID: 1, PostID: 5, Text: &text})
		assertCode(t, models.CodeNotFound, err)
	})

	t.Run("blank text", func(t *testing.T) {
		blank := " "
		svc := NewPostService(noopPostRepo(), noopGroupRepo(), noopCommentRepo(), &cacheStub{})
		_, err := svc.UpdatePost(ctx, UpdatePostInput{EditorID: 1, PostID: 5, Text: &blank})
		assertCode(t, models.CodeValidation, err)
	})
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()

	c := &cacheStub{}
	deleted := uint(0)
	posts := noopPostRepo()
	posts.deleteFn = func(_ context.Context, id uint) error { deleted = id; return nil }
	svc := NewPostService(posts, noopGroupRepo(), noopCommentRepo(), c)

	assertCode(t, models.CodeForbidden, svc.DeletePost(ctx, 2, 5))
	assert.Zero(t, deleted)

	require.NoError(t, svc.DeletePost(ctx, 1, 5))
	assert.Equal(t, uint(5), deleted)
	assert.Equal(t, []string{cache.GlobalFeedKey}, c.invalidated)
}

func TestGetPost(t *testing.T) {
	posts := noopPostRepo()
	posts.countFn = func(_ context.Context, f repository.PostFilter) (int64, error) {
		assert.Equal(t, []uint{1}, f.AuthorIDs)
		return 12, nil
	}
	comments := noopCommentRepo()
	comments.listByPostFn = func(_ context.Context, postID uint) ([]models.Comment, error) {
		return []models.Comment{{ID: 2, PostID: postID}, {ID: 1, PostID: postID}}, nil
	}
	svc := NewPostService(posts, noopGroupRepo(), comments, nil)

	detail, err := svc.GetPost(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, uint(5), detail.Post.ID)
	assert.Equal(t, int64(12), detail.AuthorPostCount)
	assert.Len(t, detail.Comments, 2)
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	c := &cacheStub{}

	var created *models.Comment
	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, cm *models.Comment) error { created = cm; return nil }
	svc := NewPostService(noopPostRepo(), noopGroupRepo(), comments, c)

	got, err := svc.AddComment(ctx, 3, 5, " nice ")
	require.NoError(t, err)
	assert.Equal(t, "nice", got.Text)
	assert.Equal(t, uint(5), created.PostID)
	assert.Empty(t, c.invalidated, "comments are not part of the cached feed")

	_, err = svc.AddComment(ctx, 3, 5, "")
	assertCode(t, models.CodeValidation, err)

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc = NewPostService(posts, noopGroupRepo(), comments, c)
	_, err = svc.AddComment(ctx, 3, 5, "hi")
	assertCode(t, models.CodeNotFound, err)
	_, err = svc.ListComments(ctx, 5)
	assertCode(t, models.CodeNotFound, err)
}
