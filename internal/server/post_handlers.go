package server

import (
	"bytes"
	"encoding/json"

	"plume/internal/models"
	"plume/internal/repository"
	"plume/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts returns the post feed (public). Ordered by publication time
// descending unless overridden; supports text search and limit/offset.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	currentUserID, _ := s.optionalUserID(c)
	page := parsePagination(c)

	posts, err := s.postService.ListPosts(ctx, repository.PostListParams{
		Limit:    page.Limit,
		Offset:   page.Offset,
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetPost returns a single post (public)
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	currentUserID, _ := s.optionalUserID(c)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(ctx, postID, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// CreatePost creates a post (protected). The author is always the caller;
// author values in the body are ignored.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Text  string `json:"text"`
		Group *uint  `json:"group"`
		Image string `json:"image"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:  userID,
		Text:    req.Text,
		GroupID: req.Group,
		Image:   req.Image,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdatePost replaces a post's mutable fields (only owner)
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	return s.updatePost(c, false)
}

// PartialUpdatePost applies only the provided fields (only owner)
func (s *Server) PartialUpdatePost(c *fiber.Ctx) error {
	return s.updatePost(c, true)
}

func (s *Server) updatePost(c *fiber.Ctx, partial bool) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	in, ok := parsePostUpdateBody(c, partial)
	if !ok {
		return nil
	}
	in.UserID = userID
	in.PostID = postID

	updated, err := s.postService.UpdatePost(ctx, in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(updated)
}

// parsePostUpdateBody decodes the body keeping track of which keys were
// present, so PATCH can distinguish an omitted group from "group": null.
// On failure it writes the 400 response and returns ok=false.
func parsePostUpdateBody(c *fiber.Ctx, partial bool) (service.UpdatePostInput, bool) {
	in := service.UpdatePostInput{Partial: partial}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return in, false
	}

	if v, ok := raw["text"]; ok && !isJSONNull(v) {
		var text string
		if err := json.Unmarshal(v, &text); err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid text value"))
			return in, false
		}
		in.Text = &text
	}
	if v, ok := raw["group"]; ok {
		if isJSONNull(v) {
			in.ClearGroup = true
		} else {
			var group uint
			if err := json.Unmarshal(v, &group); err != nil {
				_ = models.RespondWithError(c, fiber.StatusBadRequest,
					models.NewValidationError("Invalid group value"))
				return in, false
			}
			in.GroupID = &group
		}
	}
	if v, ok := raw["image"]; ok && !isJSONNull(v) {
		var image string
		if err := json.Unmarshal(v, &image); err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid image value"))
			return in, false
		}
		in.Image = &image
	}

	return in, true
}

func isJSONNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// DeletePost deletes a post (only owner)
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, userID, postID); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost records a like for the caller. Liking a post twice is a
// validation error; there is no unlike endpoint.
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	likesCount, err := s.postService.LikePost(ctx, userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"liked":       true,
		"likes_count": likesCount,
	})
}
