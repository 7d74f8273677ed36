// Package api exposes the content store over HTTP/JSON: public gallery
// reads plus the admin mutations the dashboard calls. Authentication is
// handled upstream and out of scope here.
package api

import (
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/EMNTV/excellencemedianumerique/internal/common"
	"github.com/EMNTV/excellencemedianumerique/internal/logging"
	"github.com/EMNTV/excellencemedianumerique/internal/media"
	"github.com/EMNTV/excellencemedianumerique/internal/media/store"
	"github.com/EMNTV/excellencemedianumerique/internal/uploads"
)

// Handler carries the dependencies of every route.
type Handler struct {
	store    *store.Store
	images   *uploads.ImageGateway
	validate *validator.Validate
	logger   logging.Logger
}

// NewHandler wires a Handler.
func NewHandler(s *store.Store, images *uploads.ImageGateway, logger logging.Logger) *Handler {
	return &Handler{
		store:    s,
		images:   images,
		validate: validator.New(),
		logger:   logger.With("component", "api"),
	}
}

// Register mounts all routes on app.
func (h *Handler) Register(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/content", h.getContent)
	api.Get("/content/:category", h.getCategory)
	api.Get("/stats", h.getStats)

	admin := api.Group("/admin")
	admin.Post("/clear", h.clear)
	admin.Post("/uploads", h.uploadImage)
	admin.Post("/:category", h.addRecord)
	admin.Patch("/:category/:id", h.updateRecord)
	admin.Delete("/:category/:id", h.deleteRecord)
	admin.Put("/:category/order", h.reorder)
}

func (h *Handler) category(c fiber.Ctx) (media.Category, bool) {
	cat, err := media.ParseCategory(c.Params("category"))
	if err != nil {
		return 0, false
	}
	return cat, true
}

func (h *Handler) getContent(c fiber.Ctx) error {
	doc, err := h.store.Document()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(doc)
}

func (h *Handler) getCategory(c fiber.Ctx) error {
	cat, ok := h.category(c)
	if !ok {
		return badRequest(c, "unknown category")
	}

	doc, err := h.store.Document()
	if err != nil {
		return h.fail(c, err)
	}

	// Press renders as one scroll; only video categories paginate.
	if cat == media.CategoryPress {
		return c.JSON(pageResponse{
			Items:      doc.PressData,
			Page:       1,
			PerPage:    len(doc.PressData),
			Total:      len(doc.PressData),
			TotalPages: 1,
		})
	}

	videos := doc.Videos(cat)
	perPage := doc.Settings.VideosPerPage
	page := fiber.Query(c, "page", 1)
	if page < 1 {
		page = 1
	}

	totalPages := (len(videos) + perPage - 1) / perPage
	start := (page - 1) * perPage
	end := start + perPage
	if start > len(videos) {
		start = len(videos)
	}
	if end > len(videos) {
		end = len(videos)
	}

	return c.JSON(pageResponse{
		Items:      videos[start:end],
		Page:       page,
		PerPage:    perPage,
		Total:      len(videos),
		TotalPages: totalPages,
	})
}

func (h *Handler) getStats(c fiber.Ctx) error {
	stats, err := h.store.Stats()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(stats)
}

func (h *Handler) addRecord(c fiber.Ctx) error {
	cat, ok := h.category(c)
	if !ok {
		return badRequest(c, "unknown category")
	}

	if cat == media.CategoryPress {
		var req addPressRequest
		if err := c.Bind().Body(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		if err := h.validate.Struct(req); err != nil {
			return h.fail(c, err)
		}

		rec, err := h.store.AddPress(c.Context(), store.PressFields{
			Title:       req.Title,
			Description: req.Description,
			Image:       req.Image,
		})
		if err != nil {
			return h.fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	}

	var req addVideoRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.fail(c, err)
	}

	embed, err := media.EmbedURL(req.URL)
	if err != nil {
		return badRequest(c, "invalid youtube url")
	}

	rec, err := h.store.AddVideo(c.Context(), cat, store.VideoFields{Title: req.Title, URL: embed})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *Handler) updateRecord(c fiber.Ctx) error {
	cat, ok := h.category(c)
	if !ok {
		return badRequest(c, "unknown category")
	}
	id := c.Params("id")

	if cat == media.CategoryPress {
		var req updatePressRequest
		if err := c.Bind().Body(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		if err := h.validate.Struct(req); err != nil {
			return h.fail(c, err)
		}

		rec, err := h.store.UpdatePress(c.Context(), id, store.PressPatch{
			Title:       req.Title,
			Description: req.Description,
			Image:       req.Image,
		})
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(rec)
	}

	var req updateVideoRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.fail(c, err)
	}

	patch := store.VideoPatch{Title: req.Title}
	if req.URL != nil {
		embed, err := media.EmbedURL(*req.URL)
		if err != nil {
			return badRequest(c, "invalid youtube url")
		}
		patch.URL = &embed
	}

	rec, err := h.store.UpdateVideo(c.Context(), cat, id, patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(rec)
}

func (h *Handler) deleteRecord(c fiber.Ctx) error {
	cat, ok := h.category(c)
	if !ok {
		return badRequest(c, "unknown category")
	}

	if err := h.store.Delete(c.Context(), cat, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) reorder(c fiber.Ctx) error {
	cat, ok := h.category(c)
	if !ok {
		return badRequest(c, "unknown category")
	}

	var req reorderRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := h.validate.Struct(req); err != nil {
		return h.fail(c, err)
	}

	if err := h.store.Reorder(c.Context(), cat, *req.IDs); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) clear(c fiber.Ctx) error {
	if err := h.store.Clear(c.Context()); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) uploadImage(c fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file is required")
	}
	if fh.Size > common.MaxUploadSize {
		return badRequest(c, "file too large")
	}

	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "unreadable file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, "unreadable file")
	}

	url, err := h.images.UploadImage(c.Context(), fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(uploadResponse{
		URL:         url,
		Placeholder: url == common.PlaceholderImageURL,
	})
}
