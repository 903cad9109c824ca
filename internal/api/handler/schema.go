package handler

import (
	"time"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

// ErrorResponse is the standard error envelope returned on all 4xx/5xx
// responses. Code is the stable error code; Redirect is set when the access
// guard names the route the client should go to instead.
type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// --- Auth ---

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token string `json:"token"`
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// --- Profiles ---

type createProfileRequest struct {
	Role   string `json:"role"    validate:"required,oneof=resident official"`
	AreaID string `json:"area_id" validate:"required"`
}

// --- Announcements ---

type createAnnouncementRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category"    validate:"required"`
}

type updateAnnouncementRequest struct {
	Title       *string `json:"title"       validate:"omitnil,min=1,max=200"`
	Description *string `json:"description" validate:"omitnil,min=1"`
	Category    *string `json:"category"    validate:"omitnil,min=1"`
}

type searchRequest struct {
	Category string `query:"category"`
	AreaID   string `query:"area_id"`
	Range    string `query:"range" validate:"omitempty,oneof=all today week month 3months"`
	Query    string `query:"q"`
	Sort     string `query:"sort"  validate:"omitempty,oneof=newest oldest relevant"`
}

type createdResponse struct {
	ID string `json:"id"`
}

type announcementListResponse struct {
	Results []domain.Announcement `json:"results"`
	Total   int                   `json:"total"`
}

type searchResponse struct {
	Results     []domain.Announcement `json:"results"`
	Total       int                   `json:"total"`
	Active      bool                  `json:"filters_active"`
	GeneratedAt time.Time             `json:"generated_at"`
}
