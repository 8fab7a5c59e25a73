package service

import (
	"context"

	"yatube/internal/repository"
)

// FollowService is the subscription graph: directed follower -> author edges.
type FollowService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(follows repository.FollowRepository, users repository.UserRepository) *FollowService {
	return &FollowService{follows: follows, users: users}
}

// Follow adds the edge follower -> author. Following yourself is silently ignored and
// following twice leaves a single edge. NOT_FOUND if the author does not exist.
func (s *FollowService) Follow(ctx context.Context, followerID, authorID uint) error {
	if followerID == authorID {
		return nil
	}
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return err
	}
	return s.follows.Create(ctx, followerID, authorID)
}

// Unfollow removes the edge, NOT_FOUND if there is none.
func (s *FollowService) Unfollow(ctx context.Context, followerID, authorID uint) error {
	return s.follows.Delete(ctx, followerID, authorID)
}

// IsFollowing reports whether the edge exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	if followerID == authorID {
		return false, nil
	}
	return s.follows.Exists(ctx, followerID, authorID)
}

// FollowedAuthors lists the ids of every author followerID follows.
func (s *FollowService) FollowedAuthors(ctx context.Context, followerID uint) ([]uint, error) {
	return s.follows.AuthorIDs(ctx, followerID)
}

// FollowByUsername resolves username and follows them.
func (s *FollowService) FollowByUsername(ctx context.Context, followerID uint, username string) error {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.Follow(ctx, followerID, author.ID)
}

// UnfollowByUsername resolves username and unfollows them.
func (s *FollowService) UnfollowByUsername(ctx context.Context, followerID uint, username string) error {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.Unfollow(ctx, followerID, author.ID)
}

// IsFollowingUsername resolves username and reports whether followerID follows them.
func (s *FollowService) IsFollowingUsername(ctx context.Context, followerID uint, username string) (bool, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return s.IsFollowing(ctx, followerID, author.ID)
}
