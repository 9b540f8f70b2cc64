package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"rentflow/internal/database"
	"rentflow/internal/domain"
)

func main() {
	db, err := database.Connect("rentflow.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// cleanup in FK-safe order
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM reservation_assignments")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM assets")
	db.Exec("DELETE FROM unit_types")

	log.Println("Creating unit types...")
	unitTypes := []domain.UnitType{
		{ProviderID: 1, Name: "Mountain bike", Description: "27.5\" hardtail", TotalQuantity: 5, PricePerDay: 35},
		{ProviderID: 1, Name: "E-bike", Description: "City e-bike, 80km range", TotalQuantity: 3, PricePerDay: 55},
		{ProviderID: 2, Name: "Kayak (tandem)", Description: "Two-seater touring kayak", TotalQuantity: 4, PricePerDay: 40},
	}
	for i := range unitTypes {
		if err := db.Create(&unitTypes[i]).Error; err != nil {
			log.Fatal("seed unit type failed:", err)
		}
	}

	log.Println("Creating assets...")
	for _, ut := range unitTypes {
		for i := 0; i < ut.TotalQuantity; i++ {
			a := domain.Asset{
				UnitTypeID:     ut.ID,
				Serial:         fmt.Sprintf("%s-%03d", shortCode(ut.Name), i+1),
				Status:         domain.AssetAvailable,
				ConditionScore: 60 + rand.Intn(41),
			}
			if err := db.Create(&a).Error; err != nil {
				log.Fatal("seed asset failed:", err)
			}
		}
	}

	log.Println("Creating a sample hold...")
	start := time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	expires := time.Now().UTC().Add(domain.HoldTTL)
	res := domain.Reservation{
		ProviderID:     1,
		UnitTypeID:     unitTypes[0].ID,
		CustomerName:   "Sam Carter",
		CustomerEmail:  "sam.carter@example.com",
		Quantity:       2,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 3),
		Status:         domain.ReservationHold,
		ExpiresAt:      &expires,
		TotalPrice:     210,
		IdempotencyKey: "seed-hold-0001",
	}
	if err := db.Create(&res).Error; err != nil {
		log.Fatal("seed reservation failed:", err)
	}

	log.Println("Seed completed.")
}

func shortCode(name string) string {
	code := make([]rune, 0, 3)
	for _, r := range name {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' {
			code = append(code, r)
		}
		if len(code) == 3 {
			break
		}
	}
	return string(code)
}
