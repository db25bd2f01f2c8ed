package handler

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"docshare/internal/auth"
	"docshare/internal/model"
	"docshare/internal/service"
)

// presignResponse carries a direct download URL.
type presignResponse struct {
	URL string `json:"url"`
}

func documentID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListDocuments godoc
// @Summary List the caller's documents
// @Tags documents
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} service.DocumentListResult
// @Failure 400 {object} errorPayload
// @Security BearerAuth
// @Router /documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.ListMine(c.UserContext(), auth.UserID(c), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument godoc
// @Summary Upload a file, reusing an identical earlier upload
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "file to upload"
// @Param is_public formData bool false "readable by anyone"
// @Success 201 {object} model.Document "stored"
// @Success 200 {object} model.Document "existing document reused"
// @Failure 400 {object} errorPayload
// @Security BearerAuth
// @Router /documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		h := md5.New()
		if _, err := io.Copy(h, f); err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file")
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		isPublic, _ := strconv.ParseBool(c.FormValue("is_public", "false"))

		doc, reused, err := svc.CreateOrReuse(c.UserContext(), service.UploadInput{
			OwnerID:     auth.UserID(c),
			ContentHash: hex.EncodeToString(h.Sum(nil)),
			Size:        fh.Size,
			MimeType:    ct,
			Filename:    fh.Filename,
			IsPublic:    isPublic,
			Body:        f,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		if reused {
			return c.Status(fiber.StatusOK).JSON(doc)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument godoc
// @Summary Document metadata for its owner, or anyone when public
// @Tags documents
// @Produce json
// @Param id path int true "document id"
// @Success 200 {object} model.Document
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.FetchForOwnerOrPublic(c.UserContext(), id, auth.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument streams the bytes and counts the download.
// @Summary Download a document
// @Tags documents
// @Produce octet-stream
// @Param id path int true "document id"
// @Success 200 {file} file
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/download [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.FetchForOwnerOrPublic(c.UserContext(), id, auth.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return deliver(c, svc, doc)
	}
}

// maxPreviewTTLSeconds keeps the ttl query well inside time.Duration range;
// the storage gateway applies the real upper bound.
const maxPreviewTTLSeconds = 24 * 60 * 60

// PreviewDocument godoc
// @Summary Time-limited direct URL for a document
// @Tags documents
// @Produce json
// @Param id path int true "document id"
// @Param ttl query int false "lifetime in seconds"
// @Success 200 {object} presignResponse
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Router /documents/{id}/preview [get]
func PreviewDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		ttl, err := strconv.Atoi(c.Query("ttl", "0"))
		if err != nil || ttl < 0 || ttl > maxPreviewTTLSeconds {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TTL", "invalid ttl")
		}
		doc, err := svc.FetchForOwnerOrPublic(c.UserContext(), id, auth.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		u, err := svc.PresignURL(c.UserContext(), doc, time.Duration(ttl)*time.Second)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(presignResponse{URL: u})
	}
}

// deliver writes doc as an attachment. The body is buffered by fiber, so a
// failed copy can still be turned into an error response.
func deliver(c *fiber.Ctx, svc service.DocumentService, doc *model.Document) error {
	c.Attachment(doc.Filename)
	if doc.MimeType != "" {
		c.Set(fiber.HeaderContentType, doc.MimeType)
	}
	if err := svc.Deliver(c.UserContext(), doc, c.Response().BodyWriter()); err != nil {
		c.Response().ResetBody()
		c.Response().Header.Del(fiber.HeaderContentDisposition)
		return writeServiceError(c, err)
	}
	return nil
}
