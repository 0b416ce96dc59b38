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

const messageCollectionName = "messages"

// MessageRepository implements domain.MessageRepository using MongoDB.
// Messages are insert-only; there is no update path.
type MessageRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewMessageRepository(db *mongo.Database, log *logger.Logger) *MessageRepository {
	collection := db.Collection(messageCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "from_user_id", Value: 1}}},
		{Keys: bson.D{{Key: "to_user_id", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("failed to create indexes for messages collection", zap.Error(err))
	}

	return &MessageRepository{
		collection: collection,
		logger:     log.Named("MessageRepository"),
	}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	if _, err := r.collection.InsertOne(ctx, toMessageDocument(message)); err != nil {
		r.logger.Error("failed to insert message", zap.Error(err), zap.String("message_id", message.ID))
		return fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return nil
}

// FindByUser returns every message the user sent or received, newest first.
func (r *MessageRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	match := bson.M{"$or": bson.A{
		bson.M{"from_user_id": userID},
		bson.M{"to_user_id": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, match, opts)
}

// FindConversation returns the user's messages for one listing, ascending by
// created_at so the thread reads top to bottom.
func (r *MessageRepository) FindConversation(ctx context.Context, listingID, userID string) ([]*domain.Message, error) {
	match := bson.M{
		"listing_id": listingID,
		"$or": bson.A{
			bson.M{"from_user_id": userID},
			bson.M{"to_user_id": userID},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.find(ctx, match, opts)
}

func (r *MessageRepository) RemoveByUser(ctx context.Context, userID string) error {
	match := bson.M{"$or": bson.A{
		bson.M{"from_user_id": userID},
		bson.M{"to_user_id": userID},
	}}
	if _, err := r.collection.DeleteMany(ctx, match); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return nil
}

func (r *MessageRepository) find(ctx context.Context, match bson.M, opts *options.FindOptions) ([]*domain.Message, error) {
	cursor, err := r.collection.Find(ctx, match, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	messages := make([]*domain.Message, 0, len(docs))
	for _, doc := range docs {
		messages = append(messages, toDomainMessage(doc))
	}
	return messages, nil
}
