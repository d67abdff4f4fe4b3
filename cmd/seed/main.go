package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"casaads/internal/config"
	"casaads/internal/db"
	"casaads/internal/model"
	"casaads/internal/repository"
)

const (
	adminEmail    = "admin@casaads.local"
	adminPassword = "change-me-now"
)

func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	log.Println("Connected to database")

	users := repository.NewUserRepository(database)
	listings := repository.NewListingRepository(database)

	if err := seedAdmin(ctx, users); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	created, skipped := 0, 0
	for _, listing := range sampleListings() {
		count, err := listings.CountByReferenceID(ctx, listing.Property.ReferenceID)
		if err != nil {
			log.Fatalf("Failed to check listing %s: %v", listing.Property.ReferenceID, err)
		}
		if count > 0 {
			skipped++
			continue
		}
		l := listing
		if err := listings.Insert(ctx, &l); err != nil {
			log.Fatalf("Failed to insert listing %s: %v", listing.Property.ReferenceID, err)
		}
		created++
	}

	log.Printf("Seed complete: %d listings created, %d already present", created, skipped)
}

func seedAdmin(ctx context.Context, users repository.UserRepository) error {
	_, err := users.FindByEmail(ctx, adminEmail)
	if err == nil {
		log.Println("Admin user already present")
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), 10)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now()
	admin := &model.User{
		Name:         "Administrator",
		Email:        adminEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("Admin user created: %s", adminEmail)
	return nil
}

func sampleListings() []model.Listing {
	now := time.Now()
	base := model.Listing{
		ContactEmail: "sales@casaads.local",
		ContactPhone: "+34 600 000 000",
		Currency:     "EUR",
		Status:       model.StatusAvailable,
		Professional: true,
		Logo:         "https://cdn.casaads.local/logos/casaads.png",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	flat := base
	flat.Title = "Bright two-bedroom flat near the river"
	flat.OfferType = model.OfferRent
	flat.Price = 1250
	flat.Description = "Recently renovated flat with balcony and open kitchen."
	flat.AvailableFrom = now.AddDate(0, 1, 0)
	flat.Property = model.Property{
		ReferenceID: "REF-1001",
		Characteristics: model.Characteristics{
			Type: "apartment", Area: 82, Bedrooms: 2, Bathrooms: 1, Floor: 3,
			Elevator: true, YearBuilt: 1998, ParkingSpaces: 0, Furnished: true,
			Features: []string{"balcony", "open kitchen"},
		},
		Location: model.Location{
			Address: "12 Riverside Walk", City: "Valencia", State: "Valencia",
			ZipCode: "46001", Country: "ES",
			Coordinates: model.Coordinates{Latitude: 39.4699, Longitude: -0.3763, Accuracy: 10},
		},
		Images: []string{"https://cdn.casaads.local/ads/ref-1001/1.jpg"},
	}

	villa := base
	villa.Title = "Detached villa with pool and garden"
	villa.OfferType = model.OfferBuy
	villa.Price = 485000
	villa.Description = "South-facing villa on a quiet street, ten minutes from the beach."
	villa.AvailableFrom = now.AddDate(0, 2, 0)
	villa.Property = model.Property{
		ReferenceID: "REF-1002",
		Characteristics: model.Characteristics{
			Type: "villa", Area: 240, Bedrooms: 4, Bathrooms: 3, Floor: 0,
			Elevator: false, YearBuilt: 2011, ParkingSpaces: 2, Furnished: false,
			Pool: true, Garden: true,
			Features: []string{"pool", "garden", "terrace"},
		},
		Location: model.Location{
			Address: "4 Calle del Mar", City: "Alicante", State: "Alicante",
			ZipCode: "03001", Country: "ES",
			Coordinates: model.Coordinates{Latitude: 38.3452, Longitude: -0.481, Accuracy: 8},
		},
		Images: []string{"https://cdn.casaads.local/ads/ref-1002/1.jpg", "https://cdn.casaads.local/ads/ref-1002/2.jpg"},
	}

	room := base
	room.Title = "Room in shared student flat"
	room.OfferType = model.OfferShare
	room.Price = 380
	room.Description = "Furnished room in a three-bedroom flat next to the university."
	room.AvailableFrom = now.AddDate(0, 0, 14)
	room.Property = model.Property{
		ReferenceID: "REF-1003",
		Characteristics: model.Characteristics{
			Type: "room", Area: 14, Bedrooms: 1, Bathrooms: 1, Floor: 2,
			Elevator: false, YearBuilt: 1985, ParkingSpaces: 0, Furnished: true,
			Features: []string{"shared kitchen", "wifi"},
		},
		Location: model.Location{
			Address: "27 Avenida Universidad", City: "Granada", State: "Granada",
			ZipCode: "18001", Country: "ES",
			Coordinates: model.Coordinates{Latitude: 37.1773, Longitude: -3.5986, Accuracy: 15},
		},
		Images: []string{"https://cdn.casaads.local/ads/ref-1003/1.jpg"},
	}

	return []model.Listing{flat, villa, room}
}
