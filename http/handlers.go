package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ViniZap4/lumi-notes/auth"
	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/store"
)

func (s *Server) HandleRegister(c *fiber.Ctx) error {
	var req domain.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || strings.TrimSpace(req.Password) == "" {
		return badRequest("username, email and password are required")
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		return badRequest(fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes))
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	user, err := s.store.CreateUser(c.UserContext(), req, hash)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return fiber.NewError(fiber.StatusConflict, "username or email already in use")
		}
		return err
	}
	return created(c, "registration successful", user)
}

func (s *Server) HandleLogin(c *fiber.Ctx) error {
	var req domain.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		return badRequest("email and password are required")
	}

	user, hash, err := s.store.UserByEmail(c.UserContext(), strings.TrimSpace(req.Email))
	if err != nil || !auth.CheckPassword(req.Password, hash) {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return fiber.NewError(fiber.StatusUnauthorized, "invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return err
	}
	return ok(c, "login successful", domain.LoginResponse{Token: token, User: user})
}

func (s *Server) HandleMe(c *fiber.Ctx) error {
	user, err := s.store.UserByID(c.UserContext(), auth.UserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "user no longer exists")
		}
		return err
	}
	return ok(c, "", user)
}

// HandleNotes lists the caller's notes, newest first. Optional filters:
// folder_id, tag_id, favorite=true, search.
func (s *Server) HandleNotes(c *fiber.Ctx) error {
	var q store.NoteQuery
	if v := c.Query("folder_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest("invalid folder_id")
		}
		q.FolderID = &id
	}
	if v := c.Query("tag_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return badRequest("invalid tag_id")
		}
		q.TagID = &id
	}
	q.FavoriteOnly = c.QueryBool("favorite", false)
	q.Search = c.Query("search")

	notes, err := s.store.ListNotes(c.UserContext(), auth.UserID(c), q)
	if err != nil {
		return err
	}
	return ok(c, "", notes)
}

func (s *Server) HandleGetNote(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	note, err := s.store.GetNote(c.UserContext(), auth.UserID(c), id)
	if err != nil {
		return storeErr("note", err)
	}
	return ok(c, "", note)
}

func parseNoteInput(c *fiber.Ctx) (domain.NoteInput, error) {
	var in domain.NoteInput
	if err := c.BodyParser(&in); err != nil {
		return in, badRequest("invalid request body")
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, badRequest("note title is required")
	}
	return in, nil
}

func (s *Server) HandleCreateNote(c *fiber.Ctx) error {
	in, err := parseNoteInput(c)
	if err != nil {
		return err
	}
	note, err := s.store.CreateNote(c.UserContext(), auth.UserID(c), in)
	if err != nil {
		return err
	}
	return created(c, "note created", note)
}

func (s *Server) HandleUpdateNote(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	in, err := parseNoteInput(c)
	if err != nil {
		return err
	}
	note, err := s.store.UpdateNote(c.UserContext(), auth.UserID(c), id, in)
	if err != nil {
		return storeErr("note", err)
	}
	return ok(c, "note updated", note)
}

func (s *Server) HandleDeleteNote(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.store.DeleteNote(c.UserContext(), auth.UserID(c), id); err != nil {
		return storeErr("note", err)
	}
	return ok(c, "note deleted", nil)
}

func (s *Server) HandleAssignTag(c *fiber.Ctx) error {
	noteID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	tagID, err := paramID(c, "tagId")
	if err != nil {
		return err
	}
	a, err := s.store.AssignTag(c.UserContext(), auth.UserID(c), noteID, tagID)
	if err != nil {
		return storeErr("tag assignment", err)
	}
	return created(c, "tag assigned", a)
}

func (s *Server) HandleRemoveTag(c *fiber.Ctx) error {
	noteID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	tagID, err := paramID(c, "tagId")
	if err != nil {
		return err
	}
	if err := s.store.RemoveTag(c.UserContext(), auth.UserID(c), noteID, tagID); err != nil {
		return storeErr("tag assignment", err)
	}
	return ok(c, "tag removed from note", nil)
}
