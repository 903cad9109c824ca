package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/ports"
)

const collectionAnnouncements = "announcements"

type AnnouncementStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewAnnouncementStore(db *mongo.Database) *AnnouncementStore {
	return &AnnouncementStore{col: db.Collection(collectionAnnouncements), now: time.Now}
}

// Query returns matching announcements ordered by date posted, newest first.
func (r *AnnouncementStore) Query(ctx context.Context, q ports.AnnouncementQuery) ([]domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if q.AreaID != "" {
		filter["area_id"] = q.AreaID
	}
	if q.AuthorID != "" {
		filter["author_id"] = q.AuthorID
	}

	opts := options.Find().SetSort(bson.D{{Key: "date_posted", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find announcements: %w", err)
	}
	defer cur.Close(ctx)

	list := []domain.Announcement{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode announcements: %w", err)
	}
	return list, nil
}

func (r *AnnouncementStore) Get(ctx context.Context, id string) (*domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Announcement
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAnnouncementNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Add inserts the draft with a generated id and the current time.
func (r *AnnouncementStore) Add(ctx context.Context, d domain.AnnouncementDraft) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	a := domain.Announcement{
		ID:          primitive.NewObjectID().Hex(),
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		AreaID:      d.AreaID,
		AuthorID:    d.AuthorID,
		DatePosted:  postedAt(r.now()),
	}
	if _, err := r.col.InsertOne(ctx, a); err != nil {
		return "", err
	}
	return a.ID, nil
}

// postedAt rounds t up to the millisecond, the precision BSON dates keep, so
// the stored value is never earlier than t.
func postedAt(t time.Time) time.Time {
	t = t.UTC()
	if r := t.Truncate(time.Millisecond); !r.Equal(t) {
		return r.Add(time.Millisecond)
	}
	return t
}

// Update sets only the fields present in the patch.
func (r *AnnouncementStore) Update(ctx context.Context, id string, p domain.AnnouncementPatch) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrAnnouncementNotFound
	}
	return nil
}

func (r *AnnouncementStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrAnnouncementNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing the area feed and the
// official dashboard queries.
func (r *AnnouncementStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "area_id", Value: 1}, {Key: "date_posted", Value: -1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "date_posted", Value: -1}}},
		{Keys: bson.D{{Key: "date_posted", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
