package server

import (
	"scribe/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Profile handles GET /profile. It loads the current user by the email
// claimed in the session token, with owned posts and their likes expanded,
// and renders the profile view.
func (s *Server) Profile(c *fiber.Ctx) error {
	ctx := c.Context()
	email := c.Locals("email").(string)
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByEmailWithPosts(ctx, email)
	if err != nil {
		// A valid token for a vanished user means stale claims.
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Render("profile", fiber.Map{
		"User":          user,
		"CurrentUserID": userID,
	})
}
