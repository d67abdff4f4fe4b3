package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "casaads/internal/errors"
	"casaads/internal/model"
	"casaads/internal/validation"
)

// MockListingRepository is a mock implementation of ListingRepository.
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) List(ctx context.Context, page, limit int64) ([]model.Listing, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingRepository) Insert(ctx context.Context, listing *model.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, update *model.ListingUpdate) (*model.Listing, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) CountByReferenceID(ctx context.Context, referenceID string) (int64, error) {
	args := m.Called(ctx, referenceID)
	return args.Get(0).(int64), args.Error(1)
}

func validListing() *model.Listing {
	return &model.Listing{
		Title:        "Bright two-bedroom flat",
		ContactEmail: "owner@example.com",
		ContactPhone: "+34 600 123 456",
		OfferType:    model.OfferRent,
		Price:        1250,
		Currency:     "EUR",
		Property: model.Property{
			ReferenceID: "REF-2001",
			Characteristics: model.Characteristics{
				Type:     "apartment",
				Area:     82,
				Bedrooms: 2,
				Features: []string{"balcony"},
			},
			Location: model.Location{
				Address: "12 Riverside Walk",
				City:    "Valencia",
				State:   "Valencia",
				ZipCode: "46001",
				Country: "ES",
				Coordinates: model.Coordinates{
					Latitude:  39.4699,
					Longitude: -0.3763,
					Accuracy:  10,
				},
			},
			Images: []string{"https://example.com/1.jpg"},
		},
		Description:   "Recently renovated flat.",
		AvailableFrom: time.Now().AddDate(0, 1, 0),
		Status:        model.StatusAvailable,
		Logo:          "https://example.com/logo.png",
	}
}

func violatedFields(t *testing.T, err error) []string {
	t.Helper()
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field)
	}
	return fields
}

func TestListingService_Create(t *testing.T) {
	owner := primitive.NewObjectID()

	t.Run("valid payload succeeds with zeroed counters", func(t *testing.T) {
		mockRepo := new(MockListingRepository)
		mockRepo.On("CountByReferenceID", mock.Anything, "REF-2001").Return(int64(0), nil)
		mockRepo.On("Insert", mock.Anything, mock.AnythingOfType("*model.Listing")).Return(nil)

		svc := NewListingService(mockRepo, nil)
		payload := validListing()
		payload.Favorites = 99
		payload.Views = 42

		created, err := svc.Create(context.Background(), payload, owner)

		assert.NoError(t, err)
		assert.Equal(t, int64(0), created.Favorites)
		assert.Equal(t, int64(0), created.Views)
		assert.Equal(t, owner, created.CreatedBy)
		mockRepo.AssertExpectations(t)
	})

	t.Run("violations accumulate and block the write", func(t *testing.T) {
		mockRepo := new(MockListingRepository)
		svc := NewListingService(mockRepo, nil)

		payload := validListing()
		payload.Price = -10
		payload.Property.Location.Coordinates.Latitude = 95
		payload.Property.Location.Coordinates.Longitude = -200
		payload.OfferType = "lease"
		payload.ContactPhone = "call me maybe"

		created, err := svc.Create(context.Background(), payload, owner)

		assert.Nil(t, created)
		fields := violatedFields(t, err)
		assert.Contains(t, fields, "price")
		assert.Contains(t, fields, "property.location.coordinates.latitude")
		assert.Contains(t, fields, "property.location.coordinates.longitude")
		assert.Contains(t, fields, "offerType")
		assert.Contains(t, fields, "contactPhone")
		mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("duplicate reference id conflicts", func(t *testing.T) {
		mockRepo := new(MockListingRepository)
		mockRepo.On("CountByReferenceID", mock.Anything, "REF-2001").Return(int64(1), nil)

		svc := NewListingService(mockRepo, nil)
		created, err := svc.Create(context.Background(), validListing(), owner)

		assert.Nil(t, created)
		var appErr *apperrors.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 409, appErr.StatusCode)
		assert.Equal(t, "property.referenceId", appErr.Field)
		mockRepo.AssertExpectations(t)
	})
}

func TestListingService_List(t *testing.T) {
	tests := []struct {
		name          string
		page, limit   int64
		wantPage      int64
		wantLimit     int64
		returnedCount int
		total         int64
	}{
		{name: "defaults applied", page: 0, limit: 0, wantPage: 1, wantLimit: 10, returnedCount: 10, total: 15},
		{name: "second page remainder", page: 2, limit: 10, wantPage: 2, wantLimit: 10, returnedCount: 5, total: 15},
		{name: "out of range page is empty", page: 9, limit: 10, wantPage: 9, wantLimit: 10, returnedCount: 0, total: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings := make([]model.Listing, tt.returnedCount)
			mockRepo := new(MockListingRepository)
			mockRepo.On("List", mock.Anything, tt.wantPage, tt.wantLimit).Return(listings, tt.total, nil)

			svc := NewListingService(mockRepo, nil)
			result, err := svc.List(context.Background(), tt.page, tt.limit)

			assert.NoError(t, err)
			assert.Equal(t, tt.total, result.Total)
			assert.Equal(t, tt.wantPage, result.Page)
			assert.Len(t, result.Ads, tt.returnedCount)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestListingService_Get(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("missing listing is a 404", func(t *testing.T) {
		mockRepo := new(MockListingRepository)
		mockRepo.On("FindByID", mock.Anything, id).Return(nil, mongo.ErrNoDocuments)

		svc := NewListingService(mockRepo, nil)
		listing, err := svc.Get(context.Background(), id, "")

		assert.Nil(t, listing)
		var appErr *apperrors.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.StatusCode)
		assert.Equal(t, "ad not found", appErr.Message)
	})

	t.Run("view counted for a fresh viewer", func(t *testing.T) {
		stored := validListing()
		stored.ID = id
		stored.Views = 7

		mockRepo := new(MockListingRepository)
		mockRepo.On("FindByID", mock.Anything, id).Return(stored, nil)
		mockRepo.On("IncrementViews", mock.Anything, id).Return(nil)

		svc := NewListingService(mockRepo, nil)
		listing, err := svc.Get(context.Background(), id, "203.0.113.7")

		assert.NoError(t, err)
		assert.Equal(t, int64(8), listing.Views)
		mockRepo.AssertExpectations(t)
	})

	t.Run("anonymous-keyless read does not count", func(t *testing.T) {
		stored := validListing()
		stored.ID = id

		mockRepo := new(MockListingRepository)
		mockRepo.On("FindByID", mock.Anything, id).Return(stored, nil)

		svc := NewListingService(mockRepo, nil)
		_, err := svc.Get(context.Background(), id, "")

		assert.NoError(t, err)
		mockRepo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
	})
}

func TestListingService_Update(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("negative price is rejected before the store", func(t *testing.T) {
		mockRepo := new(MockListingRepository)
		svc := NewListingService(mockRepo, nil)

		price := float64(-500)
		_, err := svc.Update(context.Background(), id, &model.ListingUpdate{Price: &price})

		fields := violatedFields(t, err)
		assert.Contains(t, fields, "price")
		mockRepo.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("title alone updates", func(t *testing.T) {
		title := "New"
		updated := validListing()
		updated.ID = id
		updated.Title = title

		mockRepo := new(MockListingRepository)
		mockRepo.On("UpdateByID", mock.Anything, id, mock.AnythingOfType("*model.ListingUpdate")).Return(updated, nil)

		svc := NewListingService(mockRepo, nil)
		listing, err := svc.Update(context.Background(), id, &model.ListingUpdate{Title: &title})

		assert.NoError(t, err)
		assert.Equal(t, "New", listing.Title)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		title := "New"
		mockRepo := new(MockListingRepository)
		mockRepo.On("UpdateByID", mock.Anything, id, mock.AnythingOfType("*model.ListingUpdate")).Return(nil, mongo.ErrNoDocuments)

		svc := NewListingService(mockRepo, nil)
		_, err := svc.Update(context.Background(), id, &model.ListingUpdate{Title: &title})

		var appErr *apperrors.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.StatusCode)
	})
}

func TestListingService_Delete(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("returns the removed listing", func(t *testing.T) {
		stored := validListing()
		stored.ID = id

		mockRepo := new(MockListingRepository)
		mockRepo.On("DeleteByID", mock.Anything, id).Return(stored, nil)

		svc := NewListingService(mockRepo, nil)
		listing, err := svc.Delete(context.Background(), id)

		assert.NoError(t, err)
		assert.Equal(t, id, listing.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		mockRepo := new(MockListingRepository)
		mockRepo.On("DeleteByID", mock.Anything, id).Return(nil, mongo.ErrNoDocuments)

		svc := NewListingService(mockRepo, nil)
		_, err := svc.Delete(context.Background(), id)

		var appErr *apperrors.Error
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.StatusCode)
	})
}
