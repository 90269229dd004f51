package server

import (
	"github.com/gofiber/fiber/v2"
)

// Groups are read-only over HTTP and open to anonymous callers; lifecycle
// is managed through the groupadmin tool.

// GetGroups returns all groups (public); supports text search over title
// and description.
func (s *Server) GetGroups(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := parsePagination(c)

	groups, err := s.groupService.ListGroups(ctx, page.Limit, page.Offset, c.Query("search"))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(groups)
}

// GetGroup returns a single group (public)
func (s *Server) GetGroup(c *fiber.Ctx) error {
	ctx := c.UserContext()

	groupID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	group, err := s.groupService.GetGroup(ctx, groupID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(group)
}
