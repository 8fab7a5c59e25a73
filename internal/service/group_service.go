package service

import (
	"context"
	"regexp"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

const (
	maxSlugLen  = 50
	maxTitleLen = 200
)

// GroupService manages topic groups.
type GroupService struct {
	groups repository.GroupRepository
}

// NewGroupService returns a new GroupService.
func NewGroupService(groups repository.GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

// CreateGroup adds a group. Slugs are lowercase letters, digits, '-' and '_', and unique.
func (s *GroupService) CreateGroup(ctx context.Context, slug, title, description string) (*models.Group, error) {
	slug = strings.TrimSpace(slug)
	title = strings.TrimSpace(title)
	if slug == "" || len(slug) > maxSlugLen || !slugPattern.MatchString(slug) {
		return nil, models.NewValidationError("Slug must be 1-50 characters of a-z, 0-9, '-' or '_'")
	}
	if title == "" || len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title is required (max 200 characters)")
	}

	group := &models.Group{Slug: slug, Title: title, Description: strings.TrimSpace(description)}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroup returns the group with slug.
func (s *GroupService) GetGroup(ctx context.Context, slug string) (*models.Group, error) {
	return s.groups.GetBySlug(ctx, slug)
}

// ListGroups returns every group ordered by title.
func (s *GroupService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.groups.List(ctx)
}
