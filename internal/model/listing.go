package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Offer types.
const (
	OfferBuy   = "buy"
	OfferRent  = "rent"
	OfferShare = "share"
)

// Listing statuses.
const (
	StatusAvailable = "available"
	StatusSold      = "sold"
	StatusRented    = "rented"
)

// Coordinates is a geolocation point with a reported accuracy.
type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" bson:"longitude" validate:"gte=-180,lte=180"`
	Accuracy  float64 `json:"accuracy" bson:"accuracy" validate:"gte=0"`
}

// Characteristics describes the physical attributes of a property.
type Characteristics struct {
	Type          string   `json:"type" bson:"type" validate:"required"`
	Area          float64  `json:"area" bson:"area" validate:"required,gt=0"`
	Bedrooms      int      `json:"bedrooms" bson:"bedrooms" validate:"gte=0"`
	Bathrooms     int      `json:"bathrooms" bson:"bathrooms" validate:"gte=0"`
	Floor         int      `json:"floor" bson:"floor"`
	Elevator      bool     `json:"elevator" bson:"elevator"`
	YearBuilt     int      `json:"yearBuilt" bson:"yearBuilt"`
	ParkingSpaces int      `json:"parkingSpaces" bson:"parkingSpaces" validate:"gte=0"`
	Furnished     bool     `json:"furnished" bson:"furnished"`
	Pool          bool     `json:"pool" bson:"pool"`
	Garden        bool     `json:"garden" bson:"garden"`
	Features      []string `json:"features" bson:"features" validate:"required"`
}

// Location is a postal address plus coordinates.
type Location struct {
	Address     string      `json:"address" bson:"address" validate:"required"`
	City        string      `json:"city" bson:"city" validate:"required"`
	State       string      `json:"state" bson:"state" validate:"required"`
	ZipCode     string      `json:"zipCode" bson:"zipCode" validate:"required"`
	Country     string      `json:"country" bson:"country" validate:"required"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
}

// Property groups the reference id, characteristics, location and imagery of a
// listing. The reference id is unique across all listings (store-enforced).
type Property struct {
	ReferenceID     string          `json:"referenceId" bson:"referenceId" validate:"required"`
	Characteristics Characteristics `json:"characteristics" bson:"characteristics"`
	Location        Location        `json:"location" bson:"location"`
	Images          []string        `json:"images" bson:"images" validate:"required,dive,url"`
}

// Listing is a classified ad for a property. The validate tags describe the
// create profile: every field is required per its constraint. Favorites, views,
// id and timestamps are server-managed and ignored on input.
type Listing struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title" validate:"required,max=100"`
	ContactEmail  string             `json:"contactEmail" bson:"contactEmail" validate:"required,email"`
	ContactPhone  string             `json:"contactPhone" bson:"contactPhone" validate:"required,phone"`
	OfferType     string             `json:"offerType" bson:"offerType" validate:"required,oneof=buy rent share"`
	Price         float64            `json:"price" bson:"price" validate:"required,gt=0"`
	Currency      string             `json:"currency" bson:"currency" validate:"required,oneof=USD EUR GBP"`
	Property      Property           `json:"property" bson:"property"`
	Description   string             `json:"description" bson:"description" validate:"required,max=2000"`
	AvailableFrom time.Time          `json:"availableFrom" bson:"availableFrom" validate:"required"`
	Status        string             `json:"status" bson:"status" validate:"required,oneof=available sold rented"`
	Professional  bool               `json:"professional" bson:"professional"`
	Logo          string             `json:"logo" bson:"logo" validate:"required,url"`
	Favorites     int64              `json:"favorites" bson:"favorites"`
	Views         int64              `json:"views" bson:"views"`
	CreatedBy     primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ListingUpdate is the partial-update profile: every field optional, but when
// supplied it obeys the same rule as on create. A supplied nested property
// replaces the embedded document wholly and is validated as such. The bson
// omitempty tags make the struct marshal into a $set document containing only
// the supplied fields.
type ListingUpdate struct {
	Title         *string    `json:"title,omitempty" bson:"title,omitempty" validate:"omitempty,min=1,max=100"`
	ContactEmail  *string    `json:"contactEmail,omitempty" bson:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone  *string    `json:"contactPhone,omitempty" bson:"contactPhone,omitempty" validate:"omitempty,phone"`
	OfferType     *string    `json:"offerType,omitempty" bson:"offerType,omitempty" validate:"omitempty,oneof=buy rent share"`
	Price         *float64   `json:"price,omitempty" bson:"price,omitempty" validate:"omitempty,gt=0"`
	Currency      *string    `json:"currency,omitempty" bson:"currency,omitempty" validate:"omitempty,oneof=USD EUR GBP"`
	Property      *Property  `json:"property,omitempty" bson:"property,omitempty"`
	Description   *string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,min=1,max=2000"`
	AvailableFrom *time.Time `json:"availableFrom,omitempty" bson:"availableFrom,omitempty"`
	Status        *string    `json:"status,omitempty" bson:"status,omitempty" validate:"omitempty,oneof=available sold rented"`
	Professional  *bool      `json:"professional,omitempty" bson:"professional,omitempty"`
	Logo          *string    `json:"logo,omitempty" bson:"logo,omitempty" validate:"omitempty,url"`
}

// IsEmpty reports whether no field was supplied at all.
func (u *ListingUpdate) IsEmpty() bool {
	return u.Title == nil && u.ContactEmail == nil && u.ContactPhone == nil &&
		u.OfferType == nil && u.Price == nil && u.Currency == nil &&
		u.Property == nil && u.Description == nil && u.AvailableFrom == nil &&
		u.Status == nil && u.Professional == nil && u.Logo == nil
}
