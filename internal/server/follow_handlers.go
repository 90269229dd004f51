package server

import (
	"plume/internal/models"
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFollowing returns the follow rows where the caller is the follower
// (protected); filterable by the followed user's username via ?search=.
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c)

	follows, err := s.followService.ListFollowing(ctx, userID, c.Query("search"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(follows)
}

// GetFollowers returns the follow rows where the caller is being followed
// (protected); filterable by the follower's username via ?search=.
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c)

	follows, err := s.followService.ListFollowers(ctx, userID, c.Query("search"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(follows)
}

// CreateFollow subscribes the caller to another user by username (protected)
func (s *Server) CreateFollow(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Following string `json:"following"`
		Notify    *bool  `json:"notify"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.followService.CreateFollow(ctx, service.CreateFollowInput{
		UserID:            userID,
		FollowingUsername: req.Following,
		Notify:            req.Notify,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}
