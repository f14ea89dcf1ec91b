package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ViniZap4/lumi-notes/auth"
	"github.com/ViniZap4/lumi-notes/domain"
	"github.com/ViniZap4/lumi-notes/store"
)

type folderBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsFavorite  bool   `json:"is_favorite"`
}

func (s *Server) HandleFolders(c *fiber.Ctx) error {
	folders, err := s.store.ListFolders(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return ok(c, "", folders)
}

func (s *Server) HandleGetFolder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	folder, err := s.store.GetFolder(c.UserContext(), auth.UserID(c), id)
	if err != nil {
		return storeErr("folder", err)
	}
	return ok(c, "", folder)
}

func (s *Server) HandleCreateFolder(c *fiber.Ctx) error {
	var req folderBody
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest("folder name is required")
	}
	folder, err := s.store.CreateFolder(c.UserContext(), auth.UserID(c), req.Name, req.Description)
	if err != nil {
		return storeErr("folder", err)
	}
	if req.IsFavorite {
		fav := true
		folder, err = s.store.UpdateFolder(c.UserContext(), auth.UserID(c), folder.ID, domain.FolderPatch{IsFavorite: &fav})
		if err != nil {
			return err
		}
	}
	return created(c, "folder created", folder)
}

// HandleUpdateFolder replaces name, description and favorite flag.
func (s *Server) HandleUpdateFolder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req folderBody
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest("folder name is required")
	}
	patch := domain.FolderPatch{Name: &req.Name, Description: &req.Description, IsFavorite: &req.IsFavorite}
	folder, err := s.store.UpdateFolder(c.UserContext(), auth.UserID(c), id, patch)
	if err != nil {
		return storeErr("folder", err)
	}
	return ok(c, "folder updated", folder)
}

// HandlePatchFolder changes only the fields present in the body.
func (s *Server) HandlePatchFolder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var patch domain.FolderPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest("invalid request body")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return badRequest("folder name must not be empty")
		}
		patch.Name = &name
	}
	folder, err := s.store.UpdateFolder(c.UserContext(), auth.UserID(c), id, patch)
	if err != nil {
		return storeErr("folder", err)
	}
	return ok(c, "folder updated", folder)
}

func (s *Server) HandleDeleteFolder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.store.DeleteFolder(c.UserContext(), auth.UserID(c), id); err != nil {
		return storeErr("folder", err)
	}
	return ok(c, "folder deleted", nil)
}

func (s *Server) HandleFolderNotes(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx, userID := c.UserContext(), auth.UserID(c)
	if _, err := s.store.GetFolder(ctx, userID, id); err != nil {
		return storeErr("folder", err)
	}
	notes, err := s.store.ListNotes(ctx, userID, store.NoteQuery{FolderID: &id})
	if err != nil {
		return err
	}
	return ok(c, "", notes)
}

type tagBody struct {
	Name string `json:"name"`
}

func parseTagName(c *fiber.Ctx) (string, error) {
	var req tagBody
	if err := c.BodyParser(&req); err != nil {
		return "", badRequest("invalid request body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", badRequest("tag name is required")
	}
	return name, nil
}

func (s *Server) HandleTags(c *fiber.Ctx) error {
	tags, err := s.store.ListTags(c.UserContext(), auth.UserID(c))
	if err != nil {
		return err
	}
	return ok(c, "", tags)
}

func (s *Server) HandleGetTag(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	tag, err := s.store.GetTag(c.UserContext(), auth.UserID(c), id)
	if err != nil {
		return storeErr("tag", err)
	}
	return ok(c, "", tag)
}

func (s *Server) HandleCreateTag(c *fiber.Ctx) error {
	name, err := parseTagName(c)
	if err != nil {
		return err
	}
	tag, err := s.store.CreateTag(c.UserContext(), auth.UserID(c), name)
	if err != nil {
		return storeErr("tag", err)
	}
	return created(c, "tag created", tag)
}

func (s *Server) HandleUpdateTag(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	name, err := parseTagName(c)
	if err != nil {
		return err
	}
	tag, err := s.store.RenameTag(c.UserContext(), auth.UserID(c), id, name)
	if err != nil {
		return storeErr("tag", err)
	}
	return ok(c, "tag updated", tag)
}

func (s *Server) HandleDeleteTag(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := s.store.DeleteTag(c.UserContext(), auth.UserID(c), id); err != nil {
		return storeErr("tag", err)
	}
	return ok(c, "tag deleted", nil)
}

func (s *Server) HandleTagNotes(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx, userID := c.UserContext(), auth.UserID(c)
	if _, err := s.store.GetTag(ctx, userID, id); err != nil {
		return storeErr("tag", err)
	}
	notes, err := s.store.ListNotes(ctx, userID, store.NoteQuery{TagID: &id})
	if err != nil {
		return err
	}
	return ok(c, "", notes)
}
