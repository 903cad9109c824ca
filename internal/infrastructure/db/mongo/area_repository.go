package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/komunidad/bulletin-board/internal/core/domain"
)

const collectionAreas = "barangays"

type AreaRepository struct {
	col *mongo.Collection
}

func NewAreaRepository(db *mongo.Database) *AreaRepository {
	return &AreaRepository{col: db.Collection(collectionAreas)}
}

// List returns all areas ordered by name.
func (r *AreaRepository) List(ctx context.Context) ([]domain.Area, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find areas: %w", err)
	}
	defer cur.Close(ctx)

	areas := []domain.Area{}
	if err := cur.All(ctx, &areas); err != nil {
		return nil, fmt.Errorf("decode areas: %w", err)
	}
	return areas, nil
}

// InsertNames adds one area per name with generated ids. Names already
// present are skipped. Returns the number inserted.
func (r *AreaRepository) InsertNames(ctx context.Context, names []string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	inserted := 0
	for _, name := range names {
		res, err := r.col.UpdateOne(ctx,
			bson.M{"name": name},
			bson.M{"$setOnInsert": bson.M{"_id": primitive.NewObjectID().Hex(), "name": name}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return inserted, fmt.Errorf("upsert area %q: %w", name, err)
		}
		if res.UpsertedCount > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func (r *AreaRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
