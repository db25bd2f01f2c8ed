package handler

import (
	"github.com/gofiber/fiber/v2"

	"docshare/internal/auth"
	"docshare/internal/model"
	"docshare/internal/service"
)

// sharedDocument is what a visitor sees after presenting a valid link.
type sharedDocument struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	URL      string `json:"url"`
}

type shareList struct {
	Items []model.ShareDescriptor `json:"data"`
}

func shareCode(c *fiber.Ctx) *string {
	code := c.Query("code")
	if code == "" {
		return nil
	}
	return &code
}

// CreateShare godoc
// @Summary Create or replace the share link of a document
// @Tags shares
// @Accept json
// @Produce json
// @Param id path int true "document id"
// @Param request body service.ShareRequest true "link settings"
// @Success 201 {object} model.ShareDescriptor
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Security BearerAuth
// @Router /documents/{id}/share [post]
func CreateShare(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req service.ShareRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		desc, err := svc.CreateOrReplace(c.UserContext(), id, auth.UserID(c), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(desc)
	}
}

// GetShare godoc
// @Summary Current share link of a document
// @Tags shares
// @Produce json
// @Param id path int true "document id"
// @Success 200 {object} model.ShareDescriptor
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /documents/{id}/share [get]
func GetShare(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		desc, err := svc.Current(c.UserContext(), id, auth.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(desc)
	}
}

// RevokeShare godoc
// @Summary Revoke the share link of a document
// @Tags shares
// @Param id path int true "document id"
// @Success 204
// @Failure 403 {object} errorPayload
// @Security BearerAuth
// @Router /documents/{id}/share [delete]
func RevokeShare(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Revoke(c.UserContext(), id, auth.UserID(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListShares godoc
// @Summary The caller's documents with an active share link
// @Tags shares
// @Produce json
// @Success 200 {object} shareList
// @Security BearerAuth
// @Router /shares [get]
func ListShares(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListShared(c.UserContext(), auth.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(shareList{Items: items})
	}
}

// CheckShare godoc
// @Summary Describe a share link before its code is entered
// @Tags public
// @Produce json
// @Param uuid path string true "share uuid"
// @Success 200 {object} model.ShareInfo
// @Failure 404 {object} errorPayload
// @Router /s/{uuid}/check [get]
func CheckShare(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := svc.Inspect(c.UserContext(), c.Params("uuid"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(info)
	}
}

// ResolveShare godoc
// @Summary Open a share link
// @Tags public
// @Produce json
// @Param uuid path string true "share uuid"
// @Param code query string false "access code"
// @Success 200 {object} sharedDocument
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /s/{uuid} [get]
func ResolveShare(shares service.ShareService, docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := shares.Resolve(c.UserContext(), c.Params("uuid"), shareCode(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		u, err := docs.PresignURL(c.UserContext(), doc, 0)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(sharedDocument{
			Filename: doc.Filename,
			Size:     doc.Size,
			MimeType: doc.MimeType,
			URL:      u,
		})
	}
}

// DownloadShared godoc
// @Summary Download through a share link
// @Tags public
// @Produce octet-stream
// @Param uuid path string true "share uuid"
// @Param code query string false "access code"
// @Success 200 {file} file
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /s/{uuid}/download [get]
func DownloadShared(shares service.ShareService, docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := shares.Resolve(c.UserContext(), c.Params("uuid"), shareCode(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return deliver(c, docs, doc)
	}
}
