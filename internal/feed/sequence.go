package feed

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// Sequence is an ordered, newest-first run of posts that can be counted and sliced
// without being realised in full.
type Sequence interface {
	Len(ctx context.Context) (int, error)
	Slice(ctx context.Context, offset, limit int) ([]models.Post, error)
}

// sliceSequence serves an already realised selection, such as a cached global feed.
type sliceSequence []models.Post

func (s sliceSequence) Len(context.Context) (int, error) { return len(s), nil }

func (s sliceSequence) Slice(_ context.Context, offset, limit int) ([]models.Post, error) {
	if offset >= len(s) {
		return []models.Post{}, nil
	}
	end := offset + limit
	if end > len(s) {
		end = len(s)
	}
	out := make([]models.Post, end-offset)
	copy(out, s[offset:end])
	return out, nil
}

// storeSequence defers to a filtered range scan on the content store.
type storeSequence struct {
	posts  repository.PostRepository
	filter repository.PostFilter
}

func (s storeSequence) Len(ctx context.Context) (int, error) {
	n, err := s.posts.Count(ctx, s.filter)
	return int(n), err
}

func (s storeSequence) Slice(ctx context.Context, offset, limit int) ([]models.Post, error) {
	return s.posts.Scan(ctx, s.filter, limit, offset)
}
