package apiclient

import (
	"context"
	"net/url"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/ports"
)

// Get implements ports.ProfileRepository.
func (c *Client) Get(ctx context.Context, uid string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := c.do(ctx, "GET", "/v1/profiles/"+url.PathEscape(uid), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create implements ports.ProfileRepository. On success the current
// identity is emitted again so session observers reload the profile.
func (c *Client) Create(ctx context.Context, p *domain.UserProfile) error {
	body := struct {
		Role   domain.Role `json:"role"`
		AreaID string      `json:"area_id"`
	}{Role: p.Role, AreaID: p.AreaID}
	if err := c.do(ctx, "PUT", "/v1/profiles/"+url.PathEscape(p.UID), nil, body, nil); err != nil {
		return err
	}
	c.session.republish()
	return nil
}

// Areas adapts the client to ports.AreaRepository.
type Areas struct{ c *Client }

func (c *Client) Areas() Areas { return Areas{c: c} }

func (a Areas) List(ctx context.Context) ([]domain.Area, error) {
	var areas []domain.Area
	if err := a.c.do(ctx, "GET", "/v1/areas", nil, nil, &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

// Announcements adapts the client to ports.AnnouncementStore.
type Announcements struct{ c *Client }

func (c *Client) Announcements() Announcements { return Announcements{c: c} }

type listResponse struct {
	Results []domain.Announcement `json:"results"`
}

func (a Announcements) Query(ctx context.Context, q ports.AnnouncementQuery) ([]domain.Announcement, error) {
	params := url.Values{}
	if q.AreaID != "" {
		params.Set("area_id", q.AreaID)
	}
	if q.AuthorID != "" {
		params.Set("author_id", q.AuthorID)
	}

	var resp listResponse
	if err := a.c.do(ctx, "GET", "/v1/announcements", params, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (a Announcements) Get(ctx context.Context, id string) (*domain.Announcement, error) {
	var ann domain.Announcement
	if err := a.c.do(ctx, "GET", "/v1/announcements/"+url.PathEscape(id), nil, nil, &ann); err != nil {
		return nil, err
	}
	return &ann, nil
}

// Add posts the draft. The server takes the area and author from the
// caller's session.
func (a Announcements) Add(ctx context.Context, d domain.AnnouncementDraft) (string, error) {
	body := struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}{d.Title, d.Description, d.Category}

	var resp struct {
		ID string `json:"id"`
	}
	if err := a.c.do(ctx, "POST", "/v1/announcements", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (a Announcements) Update(ctx context.Context, id string, p domain.AnnouncementPatch) error {
	body := struct {
		Title       *string `json:"title,omitempty"`
		Description *string `json:"description,omitempty"`
		Category    *string `json:"category,omitempty"`
	}{p.Title, p.Description, p.Category}
	return a.c.do(ctx, "PATCH", "/v1/announcements/"+url.PathEscape(id), nil, body, nil)
}

func (a Announcements) Delete(ctx context.Context, id string) error {
	return a.c.do(ctx, "DELETE", "/v1/announcements/"+url.PathEscape(id), nil, nil, nil)
}
