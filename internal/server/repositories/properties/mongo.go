package properties

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/propman/internal/common"
	"github.com/dmitrijs2005/propman/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("mongo insert: %w", err)
	}
	return p, nil
}

func (r *MongoRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]models.Property, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	return items, nil
}

func (r *MongoRepository) Get(ctx context.Context, ownerID, id string) (*models.Property, error) {
	p := &models.Property{}
	err := r.col.FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	return p, nil
}

func (r *MongoRepository) Update(ctx context.Context, p *models.Property) (*models.Property, error) {
	update := bson.M{"$set": bson.M{
		"title":   p.Title,
		"type":    p.Type,
		"address": p.Address,
		"city":    p.City,
		"lat":     p.Lat,
		"lng":     p.Lng,
		"notes":   p.Notes,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	updated := &models.Property{}
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": p.ID, "owner_id": p.OwnerID}, update, opts).Decode(updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("mongo update: %w", err)
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
