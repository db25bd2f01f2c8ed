package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"docshare/internal/auth"
	"docshare/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Owner routes require a bearer token; document reads accept anonymous callers
// for public documents; /s/* is open to anyone holding the link.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, shareSvc service.ShareService, jwtSecret []byte) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	requireUser := auth.RequireUser(jwtSecret)
	optionalUser := auth.OptionalUser(jwtSecret)

	app.Post("/documents", requireUser, UploadDocument(docSvc))
	app.Get("/documents", requireUser, ListDocuments(docSvc))
	app.Get("/documents/:id", optionalUser, GetDocument(docSvc))
	app.Get("/documents/:id/download", optionalUser, DownloadDocument(docSvc))
	app.Get("/documents/:id/preview", optionalUser, PreviewDocument(docSvc))

	app.Post("/documents/:id/share", requireUser, CreateShare(shareSvc))
	app.Get("/documents/:id/share", requireUser, GetShare(shareSvc))
	app.Delete("/documents/:id/share", requireUser, RevokeShare(shareSvc))
	app.Get("/shares", requireUser, ListShares(shareSvc))

	app.Get("/s/:uuid/check", CheckShare(shareSvc))
	app.Get("/s/:uuid/download", DownloadShared(shareSvc, docSvc))
	app.Get("/s/:uuid", ResolveShare(shareSvc, docSvc))
}
