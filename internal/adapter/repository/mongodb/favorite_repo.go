package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// FavoriteRepository implements domain.FavoriteRepository using MongoDB.
type FavoriteRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewFavoriteRepository creates the repository and ensures the unique
// (user_id, listing_id) index that backs duplicate detection.
func NewFavoriteRepository(db *mongo.Database, log *logger.Logger) *FavoriteRepository {
	collection := db.Collection(favoriteCollectionName)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "listing_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "listing_id", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("failed to create indexes for favorites collection", zap.Error(err))
	}

	return &FavoriteRepository{
		collection: collection,
		logger:     log.Named("FavoriteRepository"),
	}
}

func (r *FavoriteRepository) Add(ctx context.Context, favorite *domain.Favorite) error {
	if _, err := r.collection.InsertOne(ctx, toFavoriteDocument(favorite)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateFavorite
		}
		r.logger.Error("failed to insert favorite", zap.Error(err),
			zap.String("user_id", favorite.UserID), zap.String("listing_id", favorite.ListingID))
		return fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "listing_id": listingID})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	favorites := make([]*domain.Favorite, 0, len(docs))
	for _, doc := range docs {
		favorites = append(favorites, toDomainFavorite(doc))
	}
	return favorites, nil
}

func (r *FavoriteRepository) RemoveByUser(ctx context.Context, userID string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return nil
}
