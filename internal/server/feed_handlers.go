package server

import (
	"yatube/internal/feed"
	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

type groupFeedResponse struct {
	Group *models.Group `json:"group"`
	*feed.Page
}

type authorFeedResponse struct {
	Author    *models.User `json:"author"`
	Following bool         `json:"following"`
	*feed.Page
}

func pageNumber(c *fiber.Ctx) int {
	return feed.ParsePageNumber(c.Query("page"))
}

// GetGlobalFeed handles GET /api/feed
// @Summary Global feed
// @Description Every post, newest first. Served from the feed cache when warm.
// @Tags feed
// @Produce json
// @Param page query int false "Page number (1-indexed, clamped to the last page)"
// @Success 200 {object} feed.Page
// @Failure 500 {object} models.ErrorResponse
// @Router /feed [get]
func (s *Server) GetGlobalFeed(c *fiber.Ctx) error {
	page, err := s.feedService.GetFeed(c.UserContext(), feed.GlobalFeed(), pageNumber(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(page)
}

// GetGroupFeed handles GET /api/groups/:slug/feed
// @Summary Group feed
// @Tags feed
// @Produce json
// @Param slug path string true "Group slug"
// @Param page query int false "Page number"
// @Success 200 {object} object{group=models.Group,results=[]models.Post,page=int,count=int,num_pages=int,has_next=bool,has_previous=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /groups/{slug}/feed [get]
func (s *Server) GetGroupFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	slug := c.Params("slug")

	group, err := s.groupService.GetGroup(ctx, slug)
	if err != nil {
		return respondErr(c, err)
	}
	page, err := s.feedService.GetFeed(ctx, feed.GroupFeed(slug), pageNumber(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(groupFeedResponse{Group: group, Page: page})
}

// GetAuthorFeed handles GET /api/users/:username/feed
// @Summary Author profile feed
// @Description Posts by one author; following reports whether the caller follows them.
// @Tags feed
// @Produce json
// @Param username path string true "Author username"
// @Param page query int false "Page number"
// @Success 200 {object} object{author=models.User,following=bool,results=[]models.Post,page=int,count=int,num_pages=int,has_next=bool,has_previous=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username}/feed [get]
func (s *Server) GetAuthorFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	username := c.Params("username")

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return respondErr(c, err)
	}

	following := false
	if viewer, ok := middleware.CurrentUserID(c); ok {
		if following, err = s.followService.IsFollowing(ctx, viewer, author.ID); err != nil {
			return respondErr(c, err)
		}
	}

	page, err := s.feedService.GetFeed(ctx, feed.AuthorFeed(username), pageNumber(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(authorFeedResponse{Author: author, Following: following, Page: page})
}

// GetSubscriptionFeed handles GET /api/follow/feed
// @Summary Subscription feed
// @Description Posts by every author the caller follows.
// @Tags feed
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} feed.Page
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /follow/feed [get]
func (s *Server) GetSubscriptionFeed(c *fiber.Ctx) error {
	page, err := s.feedService.GetFeed(c.UserContext(), feed.SubscriptionFeed(userID(c)), pageNumber(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(page)
}
