package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"casaads/internal/db"
	"casaads/internal/model"
)

// ListingRepository defines persistence operations over listings.
type ListingRepository interface {
	List(ctx context.Context, page, limit int64) (listings []model.Listing, total int64, err error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error)
	Insert(ctx context.Context, listing *model.Listing) error
	UpdateByID(ctx context.Context, id primitive.ObjectID, update *model.ListingUpdate) (*model.Listing, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	CountByReferenceID(ctx context.Context, referenceID string) (int64, error)
}

type listingRepository struct {
	coll *mongo.Collection
}

// NewListingRepository builds a collection-backed repository.
func NewListingRepository(database *mongo.Database) ListingRepository {
	return &listingRepository{coll: database.Collection(db.AdsCollection)}
}

// List returns one page of listings, newest first. The _id tiebreaker keeps
// the skip/limit window stable for documents created in the same instant.
func (r *listingRepository) List(ctx context.Context, page, limit int64) ([]model.Listing, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}

	listings := make([]model.Listing, 0)
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *listingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error) {
	var listing model.Listing
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) Insert(ctx context.Context, listing *model.Listing) error {
	if listing.ID.IsZero() {
		listing.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, listing)
	return err
}

// UpdateByID applies only the supplied fields and returns the updated document.
func (r *listingRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, update *model.ListingUpdate) (*model.Listing, error) {
	raw, err := bson.Marshal(update)
	if err != nil {
		return nil, err
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var listing model.Listing
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&listing)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error) {
	var listing model.Listing
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

func (r *listingRepository) CountByReferenceID(ctx context.Context, referenceID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"property.referenceId": referenceID})
}
