package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"casaads/internal/cache"
	apperrors "casaads/internal/errors"
	"casaads/internal/model"
	"casaads/internal/repository"
	"casaads/internal/validation"
)

const (
	defaultPage  int64 = 1
	defaultLimit int64 = 10
	maxLimit     int64 = 100

	firstPageCacheKey = "ads:page:first"
	firstPageCacheTTL = time.Minute
	viewMarkerTTL     = 30 * time.Minute
)

// ListingPage is one window of the listing collection.
type ListingPage struct {
	Total int64           `json:"total"`
	Page  int64           `json:"page"`
	Ads   []model.Listing `json:"ads"`
}

// ListingService owns listing reads and authenticated writes. Write paths run
// the schema validator before touching the store; all failures surface as
// coded errors for the central normalizer.
type ListingService interface {
	List(ctx context.Context, page, limit int64) (*ListingPage, error)
	Get(ctx context.Context, id primitive.ObjectID, viewerKey string) (*model.Listing, error)
	Create(ctx context.Context, listing *model.Listing, createdBy primitive.ObjectID) (*model.Listing, error)
	Update(ctx context.Context, id primitive.ObjectID, update *model.ListingUpdate) (*model.Listing, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*model.Listing, error)
}

type listingService struct {
	listings repository.ListingRepository
	cache    *cache.Client
}

// NewListingService creates a new listing service. The cache client may be nil;
// caching and view dedupe then degrade gracefully.
func NewListingService(listings repository.ListingRepository, cacheClient *cache.Client) ListingService {
	return &listingService{listings: listings, cache: cacheClient}
}

// List returns the requested page, defaulting to page 1 with 10 items. Pages
// beyond the data yield an empty slice, not an error. The default first page is
// briefly cached since it is by far the hottest read.
func (s *listingService) List(ctx context.Context, page, limit int64) (*ListingPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	cacheable := page == defaultPage && limit == defaultLimit
	if cacheable {
		if data, _ := s.cache.Get(ctx, firstPageCacheKey); data != nil {
			var cached ListingPage
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	listings, total, err := s.listings.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}

	result := &ListingPage{Total: total, Page: page, Ads: listings}
	if cacheable {
		if data, err := json.Marshal(result); err == nil {
			_ = s.cache.Set(ctx, firstPageCacheKey, data, firstPageCacheTTL)
		}
	}
	return result, nil
}

// Get returns one listing and counts the view, deduped per viewer for a while
// so refreshes don't inflate the counter.
func (s *listingService) Get(ctx context.Context, id primitive.ObjectID, viewerKey string) (*model.Listing, error) {
	listing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("ad not found")
		}
		return nil, fmt.Errorf("find ad: %w", err)
	}

	if viewerKey != "" {
		marker := "ads:viewed:" + id.Hex() + ":" + viewerKey
		if fresh, _ := s.cache.SetNX(ctx, marker, []byte("1"), viewMarkerTTL); fresh {
			// best effort: a failed counter bump never fails the read
			if err := s.listings.IncrementViews(ctx, id); err == nil {
				listing.Views++
			}
		}
	}

	return listing, nil
}

// Create validates the full payload, rejects duplicate reference ids and
// inserts with server-managed fields reset.
func (s *listingService) Create(ctx context.Context, listing *model.Listing, createdBy primitive.ObjectID) (*model.Listing, error) {
	if err := validation.Struct(listing); err != nil {
		return nil, err
	}

	count, err := s.listings.CountByReferenceID(ctx, listing.Property.ReferenceID)
	if err != nil {
		return nil, fmt.Errorf("check reference id: %w", err)
	}
	if count > 0 {
		return nil, apperrors.Duplicate("property.referenceId")
	}

	now := time.Now()
	listing.ID = primitive.NilObjectID
	listing.CreatedBy = createdBy
	listing.Favorites = 0
	listing.Views = 0
	listing.CreatedAt = now
	listing.UpdatedAt = now

	// a racing insert still trips the unique index; the raw duplicate-key
	// error maps to the same 409
	if err := s.listings.Insert(ctx, listing); err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, firstPageCacheKey)
	return listing, nil
}

// Update validates the supplied fields and applies only those.
func (s *listingService) Update(ctx context.Context, id primitive.ObjectID, update *model.ListingUpdate) (*model.Listing, error) {
	if err := validation.Struct(update); err != nil {
		return nil, err
	}

	listing, err := s.listings.UpdateByID(ctx, id, update)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("ad not found")
		}
		return nil, err
	}

	_ = s.cache.Delete(ctx, firstPageCacheKey)
	return listing, nil
}

// Delete removes the listing and returns it.
func (s *listingService) Delete(ctx context.Context, id primitive.ObjectID) (*model.Listing, error) {
	listing, err := s.listings.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("ad not found")
		}
		return nil, fmt.Errorf("delete ad: %w", err)
	}

	_ = s.cache.Delete(ctx, firstPageCacheKey)
	return listing, nil
}
