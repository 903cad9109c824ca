package domain

import "time"

// Suggested announcement categories offered by the authoring form. The store
// does not enforce them.
const (
	CategoryGeneral          = "General"
	CategoryEvent            = "Event"
	CategoryEmergency        = "Emergency"
	CategoryCommunityService = "Community Service"
	CategoryHealth           = "Health"
	CategoryEducation        = "Education"
	CategoryInfrastructure   = "Infrastructure"
	CategorySafety           = "Safety"
)

// FormCategories lists the categories an official can pick when authoring.
var FormCategories = []string{
	CategoryGeneral,
	CategoryEvent,
	CategoryEmergency,
	CategoryCommunityService,
	CategoryHealth,
	CategoryEducation,
	CategoryInfrastructure,
	CategorySafety,
}

// Announcement is a bulletin posted by an official for one area.
// AreaID, AuthorID and DatePosted never change after creation.
type Announcement struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category"`
	AreaID      string    `json:"area_id" bson:"area_id"`
	AuthorID    string    `json:"author_id" bson:"author_id"`
	DatePosted  time.Time `json:"date_posted" bson:"date_posted"`
}

// AnnouncementDraft carries the caller-supplied fields of a new announcement.
// The store assigns the id and the posting date.
type AnnouncementDraft struct {
	Title       string
	Description string
	Category    string
	AreaID      string
	AuthorID    string
}

// AnnouncementPatch holds the editable fields. Nil means "leave unchanged".
type AnnouncementPatch struct {
	Title       *string
	Description *string
	Category    *string
}

// Empty reports whether the patch changes nothing.
func (p AnnouncementPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil
}

// Apply returns a copy of a with the patch fields written over it.
func (p AnnouncementPatch) Apply(a Announcement) Announcement {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	return a
}
