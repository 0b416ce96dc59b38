package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/encounterhub/listing-service/internal/listing/domain"
	"github.com/encounterhub/listing-service/internal/listing/query"
	"github.com/encounterhub/listing-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	listingCollectionName  = "listings"
	favoriteCollectionName = "favorites"
)

// ListingRepository implements domain.ListingRepository using MongoDB.
type ListingRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
	favorites  *mongo.Collection
	logger     *logger.Logger
}

// NewListingRepository creates the repository and ensures its indexes.
func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	collection := db.Collection(listingCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "location.city", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Indexes may already exist or be managed externally; not fatal.
		log.Error("failed to create indexes for listings collection", zap.Error(err))
	}

	return &ListingRepository{
		db:         db,
		collection: collection,
		favorites:  db.Collection(favoriteCollectionName),
		logger:     log.Named("ListingRepository"),
	}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	doc := toListingDocument(listing)
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: listing id already exists", domain.ErrConflict)
		}
		r.logger.Error("failed to insert listing", zap.Error(err), zap.String("listing_id", listing.ID))
		return fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	var doc listingDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to find listing", zap.Error(err), zap.String("listing_id", id))
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return toDomainListing(&doc), nil
}

func (r *ListingRepository) FindByFilter(ctx context.Context, filter domain.Filter) ([]*domain.Listing, error) {
	plan := query.Compile(filter)

	opts := options.Find().
		SetSort(plan.Sort).
		SetSkip(plan.Skip).
		SetLimit(plan.Limit)

	cursor, err := r.collection.Find(ctx, plan.Predicate, opts)
	if err != nil {
		r.logger.Error("failed to query listings", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return toDomainListings(docs), nil
}

func (r *ListingRepository) CountByFilter(ctx context.Context, filter domain.Filter) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, query.Predicate(filter.WithoutWindow()))
	if err != nil {
		r.logger.Error("failed to count listings", zap.Error(err))
		return 0, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return total, nil
}

func (r *ListingRepository) FindByUser(ctx context.Context, userID string, status *domain.ListingStatus) ([]*domain.Listing, error) {
	match := bson.M{}
	if userID != "" {
		match["user_id"] = userID
	}
	if status != nil {
		match["status"] = *status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, match, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return toDomainListings(docs), nil
}

func (r *ListingRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Listing, error) {
	if len(ids) == 0 {
		return []*domain.Listing{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return toDomainListings(docs), nil
}

func (r *ListingRepository) UpdateFields(ctx context.Context, id string, update domain.ListingUpdate) (*domain.Listing, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.PricingTiers != nil {
		var tiers []tierDocument
		for _, t := range *update.PricingTiers {
			tiers = append(tiers, tierDocument{Hours: t.Hours, Price: t.Price})
		}
		set["pricing_tiers"] = tiers
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Gender != nil {
		set["gender"] = *update.Gender
	}
	if update.Race != nil {
		set["race"] = *update.Race
	}
	if update.Age != nil {
		set["age"] = *update.Age
	}
	if update.Location != nil {
		set["location"] = locationDocument{
			Country:  update.Location.Country,
			Region:   update.Location.Region,
			City:     update.Location.City,
			District: update.Location.District,
		}
	}
	if update.Services != nil {
		set["services"] = *update.Services
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Images != nil {
		set["images"] = *update.Images
	}
	if update.Videos != nil {
		set["videos"] = *update.Videos
	}

	return r.findOneAndSet(ctx, id, set)
}

func (r *ListingRepository) UpdateStatus(ctx context.Context, id string, status domain.ListingStatus) (*domain.Listing, error) {
	return r.findOneAndSet(ctx, id, bson.M{"status": status, "updated_at": time.Now().UTC()})
}

func (r *ListingRepository) SetFeatured(ctx context.Context, id string, featured bool) (*domain.Listing, error) {
	return r.findOneAndSet(ctx, id, bson.M{"featured": featured, "updated_at": time.Now().UTC()})
}

func (r *ListingRepository) findOneAndSet(ctx context.Context, id string, set bson.M) (*domain.Listing, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc listingDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("failed to update listing", zap.Error(err), zap.String("listing_id", id))
		return nil, fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	return toDomainListing(&doc), nil
}

func (r *ListingRepository) AppendMedia(ctx context.Context, id string, images, videos []string) error {
	push := bson.M{}
	if len(images) > 0 {
		push["images"] = bson.M{"$each": images}
	}
	if len(videos) > 0 {
		push["videos"] = bson.M{"$each": videos}
	}
	if len(push) == 0 {
		return nil
	}
	res, err := r.collection.UpdateByID(ctx, id, bson.M{
		"$push": push,
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ListingRepository) IncrementViews(ctx context.Context, id string) error {
	res, err := r.collection.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the listing and its favorite rows in one transaction where
// the deployment supports it (replica set); on standalone MongoDB it falls
// back to ordered deletes with the listing removed first, so a lost race
// surfaces as not-found on the losing operation.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	run := func(sc context.Context) error {
		res, err := r.collection.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrRepository, err)
		}
		if res.DeletedCount == 0 {
			return domain.ErrNotFound
		}
		if _, err := r.favorites.DeleteMany(sc, bson.M{"listing_id": id}); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrRepository, err)
		}
		return nil
	}

	err := r.withTransaction(ctx, run)
	if err != nil && isTransactionUnsupported(err) {
		r.logger.Warn("transactions unsupported, deleting listing without one", zap.String("listing_id", id))
		return run(ctx)
	}
	return err
}

// DeleteByUser removes every listing a user owns together with the favorite
// rows pointing at them.
func (r *ListingRepository) DeleteByUser(ctx context.Context, userID string) error {
	run := func(sc context.Context) error {
		cursor, err := r.collection.Find(sc, bson.M{"user_id": userID},
			options.Find().SetProjection(bson.M{"_id": 1}))
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrRepository, err)
		}
		var docs []struct {
			ID string `bson:"_id"`
		}
		if err := cursor.All(sc, &docs); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrRepository, err)
		}
		if len(docs) == 0 {
			return nil
		}
		ids := make([]string, 0, len(docs))
		for _, d := range docs {
			ids = append(ids, d.ID)
		}
		if _, err := r.collection.DeleteMany(sc, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrRepository, err)
		}
		if _, err := r.favorites.DeleteMany(sc, bson.M{"listing_id": bson.M{"$in": ids}}); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrRepository, err)
		}
		return nil
	}

	err := r.withTransaction(ctx, run)
	if err != nil && isTransactionUnsupported(err) {
		r.logger.Warn("transactions unsupported, cascading user delete without one", zap.String("user_id", userID))
		return run(ctx)
	}
	return err
}

func (r *ListingRepository) withTransaction(ctx context.Context, fn func(context.Context) error) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRepository, err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func isTransactionUnsupported(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction numbers are only allowed") ||
		strings.Contains(msg, "replica set member or mongos")
}
