package feed

import (
	"context"
	"strconv"
	"time"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

// FollowGraph lists the authors a user follows.
type FollowGraph interface {
	FollowedAuthors(ctx context.Context, userID uint) ([]uint, error)
}

// Selector builds the ordered post sequence for a feed request.
type Selector struct {
	posts   repository.PostRepository
	groups  repository.GroupRepository
	users   repository.UserRepository
	follows FollowGraph
	cache   cache.FeedCache
	ttl     time.Duration
	log     *observability.CacheLogger
}

// NewSelector wires a selector. feedCache may be nil, in which case the global feed is live too.
func NewSelector(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	users repository.UserRepository,
	follows FollowGraph,
	feedCache cache.FeedCache,
	ttl time.Duration,
) *Selector {
	backend := "none"
	if feedCache != nil {
		backend = feedCache.Backend()
	}
	return &Selector{
		posts:   posts,
		groups:  groups,
		users:   users,
		follows: follows,
		cache:   feedCache,
		ttl:     ttl,
		log:     observability.NewCacheLogger(backend),
	}
}

// Select resolves req to a newest-first sequence.
func (s *Selector) Select(ctx context.Context, req Request) (Sequence, error) {
	switch req.Kind {
	case KindGlobal:
		return s.global(ctx)

	case KindGroup:
		group, err := s.groups.GetBySlug(ctx, req.Param)
		if err != nil {
			return nil, err
		}
		return s.live(repository.PostsInGroup(group.ID)), nil

	case KindAuthor:
		author, err := s.users.GetByUsername(ctx, req.Param)
		if err != nil {
			return nil, err
		}
		return s.live(repository.PostsByAuthor(author.ID)), nil

	case KindSubscription:
		userID, err := strconv.ParseUint(req.Param, 10, 32)
		if err != nil || userID == 0 {
			return nil, models.NewValidationError("subscription feed needs a user id")
		}
		authors, err := s.follows.FollowedAuthors(ctx, uint(userID))
		if err != nil {
			return nil, err
		}
		if len(authors) == 0 {
			return sliceSequence{}, nil
		}
		return s.live(repository.PostsByAuthors(authors)), nil

	default:
		return nil, models.NewValidationError("unknown feed kind " + strconv.Quote(string(req.Kind)))
	}
}

func (s *Selector) live(filter repository.PostFilter) Sequence {
	return storeSequence{posts: s.posts, filter: filter}
}

// global serves the whole global selection from the cache, filling it on a miss.
// A failing cache never fails the request.
func (s *Selector) global(ctx context.Context) (Sequence, error) {
	if s.cache == nil {
		return s.live(repository.AllPosts()), nil
	}

	posts, token, hit, err := s.cache.Get(ctx, cache.GlobalFeedKey)
	if err != nil {
		s.log.LogFallback(ctx, cache.GlobalFeedKey, "get", err)
		return s.live(repository.AllPosts()), nil
	}
	if hit {
		return sliceSequence(posts), nil
	}

	posts, err = s.posts.Scan(ctx, repository.AllPosts(), 0, 0)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, cache.GlobalFeedKey, token, posts, s.ttl); err != nil {
		s.log.LogFallback(ctx, cache.GlobalFeedKey, "put", err)
	}
	return sliceSequence(posts), nil
}
