package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/komunidad/bulletin-board/internal/api/metrics"
	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/search"
)

// AnnouncementService is the repository the handler drives.
type AnnouncementService interface {
	ListByArea(ctx context.Context, areaID string) ([]domain.Announcement, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Announcement, error)
	ListAll(ctx context.Context) ([]domain.Announcement, error)
	GetByID(ctx context.Context, id string) (*domain.Announcement, error)
	Create(ctx context.Context, draft domain.AnnouncementDraft) (string, error)
	Update(ctx context.Context, actorUID, id string, patch domain.AnnouncementPatch) error
	Delete(ctx context.Context, actorUID, id string) error
}

// AnnouncementHandler handles HTTP requests for announcements.
type AnnouncementHandler struct {
	service AnnouncementService
	now     func() time.Time
}

func NewAnnouncementHandler(service AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service, now: time.Now}
}

// List handles GET /v1/announcements.
//
// @Summary      List announcements
// @Description  Filters by author when author_id is given, else by area when area_id is given, else returns all. Newest first.
// @Tags         announcements
// @Produce      json
// @Security     BearerAuth
// @Param        area_id    query     string  false  "Area id"
// @Param        author_id  query     string  false  "Author uid"
// @Success      200        {object}  announcementListResponse
// @Failure      401        {object}  ErrorResponse
// @Router       /v1/announcements [get]
func (h *AnnouncementHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		list []domain.Announcement
		err  error
	)
	switch {
	case c.QueryParam("author_id") != "":
		list, err = h.service.ListByAuthor(ctx, c.QueryParam("author_id"))
	case c.QueryParam("area_id") != "":
		list, err = h.service.ListByArea(ctx, c.QueryParam("area_id"))
	default:
		list, err = h.service.ListAll(ctx)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, announcementListResponse{Results: list, Total: len(list)})
}

// Search handles GET /v1/announcements/search.
//
// @Summary      Search announcements across all areas
// @Tags         announcements
// @Produce      json
// @Security     BearerAuth
// @Param        category  query     string  false  "Category, or All"
// @Param        area_id   query     string  false  "Area id, or all"
// @Param        range     query     string  false  "all, today, week, month or 3months"
// @Param        q         query     string  false  "Free text"
// @Param        sort      query     string  false  "newest, oldest or relevant"
// @Success      200       {object}  searchResponse
// @Failure      422       {object}  ErrorResponse
// @Router       /v1/announcements/search [get]
func (h *AnnouncementHandler) Search(c echo.Context) error {
	var req searchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cfg := search.DefaultConfig()
	if req.Category != "" {
		cfg.Category = req.Category
	}
	if req.AreaID != "" {
		cfg.AreaID = req.AreaID
	}
	if req.Range != "" {
		cfg.DateRange = search.DateRange(req.Range)
	}
	if req.Sort != "" {
		cfg.Sort = search.SortOrder(req.Sort)
	}
	cfg.Query = req.Query

	all, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}

	now := h.now()
	results := search.Rank(all, cfg, now)
	metrics.SearchResults.Observe(float64(len(results)))

	return c.JSON(http.StatusOK, searchResponse{
		Results:     results,
		Total:       len(results),
		Active:      cfg.Active(),
		GeneratedAt: now,
	})
}

// Get handles GET /v1/announcements/:id.
//
// @Summary      Get an announcement
// @Tags         announcements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Announcement id"
// @Success      200  {object}  domain.Announcement
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/announcements/{id} [get]
func (h *AnnouncementHandler) Get(c echo.Context) error {
	a, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Create handles POST /v1/announcements. The announcement is posted to the
// caller's own area with the caller as author.
//
// @Summary      Post an announcement
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAnnouncementRequest  true  "Announcement"
// @Success      201   {object}  createdResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /v1/announcements [post]
func (h *AnnouncementHandler) Create(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}

	var req createAnnouncementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.service.Create(c.Request().Context(), domain.AnnouncementDraft{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		AreaID:      profile.AreaID,
		AuthorID:    profile.UID,
	})
	if err != nil {
		return err
	}

	metrics.AnnouncementsCreatedTotal.WithLabelValues(req.Category).Inc()
	c.Response().Header().Set(echo.HeaderLocation, "/v1/announcements/"+id)
	return c.JSON(http.StatusCreated, createdResponse{ID: id})
}

// Update handles PATCH /v1/announcements/:id. Only the author may edit.
//
// @Summary      Edit an announcement
// @Tags         announcements
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string                     true  "Announcement id"
// @Param        body  body  updateAnnouncementRequest  true  "Fields to change"
// @Success      204
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /v1/announcements/{id} [patch]
func (h *AnnouncementHandler) Update(c echo.Context) error {
	uid, err := ctxUID(c)
	if err != nil {
		return err
	}

	var req updateAnnouncementRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	patch := domain.AnnouncementPatch{Title: req.Title, Description: req.Description, Category: req.Category}
	if patch.Empty() {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "nothing to update")
	}

	if err := h.service.Update(c.Request().Context(), uid, c.Param("id"), patch); err != nil {
		return err
	}
	metrics.AnnouncementsChangedTotal.WithLabelValues("update").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/announcements/:id. Only the author may delete.
//
// @Summary      Delete an announcement
// @Tags         announcements
// @Security     BearerAuth
// @Param        id  path  string  true  "Announcement id"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c echo.Context) error {
	uid, err := ctxUID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), uid, c.Param("id")); err != nil {
		return err
	}
	metrics.AnnouncementsChangedTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
