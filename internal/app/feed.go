package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/guard"
	"github.com/komunidad/bulletin-board/internal/core/search"
	"github.com/komunidad/bulletin-board/internal/core/service"
)

// HomeCategories are the chips of the resident feed.
var HomeCategories = append([]string{search.AllCategories}, domain.FormCategories...)

// Home is the resident feed: the announcements of the resident's own area.
type Home struct {
	Profile  *domain.UserProfile
	AreaName string
	Category string
	Query    string
	Loading  bool

	// All is the feed as loaded; Visible is All narrowed by Category and
	// Query.
	All     []domain.Announcement
	Visible []domain.Announcement

	d Deps
}

func NewHome(d Deps) *Home {
	return &Home{Category: search.AllCategories, d: d}
}

// Load fills the feed for profile. A nil profile means the session is gone
// and the login route is returned.
func (s *Home) Load(ctx context.Context, profile *domain.UserProfile) string {
	if profile == nil {
		return guard.RouteLogin
	}
	s.Profile = profile
	s.Loading = true

	var (
		list     []domain.Announcement
		areaName string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.d.Announcements.ListByArea(gctx, profile.AreaID)
		return err
	})
	g.Go(func() error {
		areas, err := s.d.Areas.List(gctx)
		if err != nil {
			// the feed still renders without a name
			s.d.Log.Warn().Err(err).Msg("load area name")
			return nil
		}
		for _, a := range areas {
			if a.ID == profile.AreaID {
				areaName = a.Name
			}
		}
		return nil
	})
	err := g.Wait()
	if done(ctx) {
		return ""
	}

	s.Loading = false
	s.AreaName = areaName
	if err != nil {
		s.d.Log.Error().Err(err).Msg("load feed")
		s.d.Notifier.Notify(LevelDanger, "Failed to load announcements")
		return ""
	}
	s.All = list
	s.apply()
	return ""
}

// Refresh reloads the feed, keeping the current list on failure.
func (s *Home) Refresh(ctx context.Context) {
	if s.Profile == nil {
		return
	}
	list, err := s.d.Announcements.ListByArea(ctx, s.Profile.AreaID)
	if done(ctx) || err != nil {
		return
	}
	s.All = list
	s.apply()
}

func (s *Home) SelectCategory(category string) {
	s.Category = category
	s.apply()
}

func (s *Home) SetQuery(q string) {
	s.Query = q
	s.apply()
}

func (s *Home) apply() {
	cfg := search.DefaultConfig()
	cfg.Category = s.Category
	cfg.Query = s.Query
	s.Visible = search.Rank(s.All, cfg, s.d.now())
}

// Label returns the relative date shown on a feed card.
func (s *Home) Label(a domain.Announcement) string {
	return search.RelativeLabel(a.DatePosted, s.d.now())
}

func (s *Home) Logout(ctx context.Context) string { return logout(ctx, s.d) }

// Detail shows a single announcement.
type Detail struct {
	Announcement *domain.Announcement
	// Missing is set when the id is unknown.
	Missing bool

	d Deps
}

func NewDetail(d Deps) *Detail { return &Detail{d: d} }

func (s *Detail) Load(ctx context.Context, id string) {
	if id == "" {
		return
	}
	a, err := s.d.Announcements.GetByID(ctx, id)
	if done(ctx) {
		return
	}
	switch {
	case domain.IsNotFound(err):
		s.Announcement, s.Missing = nil, true
		s.d.Notifier.Notify(LevelWarning, "Announcement not found")
		return
	case err != nil:
		s.d.Log.Error().Err(err).Str("id", id).Msg("load announcement")
		s.d.Notifier.Notify(LevelDanger, "Failed to load announcement")
		return
	}
	s.Announcement, s.Missing = a, false
}

// Posted returns the posting date in the detail layout, in the local zone of
// the screen's clock.
func (s *Detail) Posted() string {
	if s.Announcement == nil {
		return ""
	}
	return s.Announcement.DatePosted.In(s.d.now().Location()).Format(DetailDateLayout)
}

// Search browses announcements from every area.
type Search struct {
	Config  search.Config
	Areas   []domain.Area
	Results []domain.Announcement
	Loading bool

	all []domain.Announcement
	d   Deps
}

func NewSearch(d Deps) *Search {
	return &Search{Config: search.DefaultConfig(), d: d}
}

// Load fetches every announcement and the area list together.
func (s *Search) Load(ctx context.Context) {
	s.Loading = true

	var (
		all   []domain.Announcement
		areas []domain.Area
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = s.d.Announcements.ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		if areas, err = s.d.Areas.List(gctx); err != nil {
			s.d.Log.Warn().Err(err).Msg("load areas for search")
		}
		return nil
	})
	err := g.Wait()
	if done(ctx) {
		return
	}

	s.Loading = false
	if areas != nil {
		s.Areas = areas
	}
	if err != nil {
		s.d.Log.Error().Err(err).Msg("load search data")
		s.d.Notifier.Notify(LevelDanger, "Failed to load announcements")
		return
	}
	s.all = all
	s.apply()
}

func (s *Search) SetQuery(q string) {
	s.Config.Query = q
	s.apply()
}

func (s *Search) SelectCategory(category string) {
	s.Config.Category = category
	s.apply()
}

func (s *Search) SelectDateRange(r search.DateRange) {
	s.Config.DateRange = r
	s.apply()
}

func (s *Search) SelectArea(areaID string) {
	s.Config.AreaID = areaID
	s.apply()
}

func (s *Search) SelectSort(order search.SortOrder) {
	s.Config.Sort = order
	s.apply()
}

// ClearAll resets every filter and the sort order.
func (s *Search) ClearAll() {
	s.Config = search.DefaultConfig()
	s.apply()
}

// Active reports whether any filter is narrowing the results.
func (s *Search) Active() bool { return s.Config.Active() }

// AreaName resolves an area id for a result card.
func (s *Search) AreaName(id string) string {
	return service.NameOf(s.Areas, id)
}

func (s *Search) Label(a domain.Announcement) string {
	return search.RelativeLabel(a.DatePosted, s.d.now())
}

func (s *Search) apply() {
	s.Results = search.Rank(s.all, s.Config, s.d.now())
}
