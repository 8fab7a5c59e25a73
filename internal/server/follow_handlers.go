package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/:username/follow
// @Summary Follow an author
// @Description Idempotent. Following yourself is accepted and ignored.
// @Tags follows
// @Produce json
// @Param username path string true "Author username"
// @Success 200 {object} object{following=bool}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{username}/follow [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	username := c.Params("username")

	if err := s.followService.FollowByUsername(ctx, userID(c), username); err != nil {
		return respondErr(c, err)
	}
	following, err := s.followService.IsFollowingUsername(ctx, userID(c), username)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"following": following})
}

// UnfollowUser handles DELETE /api/users/:username/follow
// @Summary Unfollow an author
// @Tags follows
// @Param username path string true "Author username"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{username}/follow [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	if err := s.followService.UnfollowByUsername(c.UserContext(), userID(c), c.Params("username")); err != nil {
		return respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetFollowStatus handles GET /api/users/:username/follow
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	following, err := s.followService.IsFollowingUsername(c.UserContext(), userID(c), c.Params("username"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"following": following})
}
