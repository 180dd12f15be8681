package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/vroomprestige/vroom-api/internal/domain/cars"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&cars.Brand{}, &cars.VehicleType{}, &cars.Car{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	bmw := cars.Brand{Name: "BMW"}
	audi := cars.Brand{Name: "Audi"}
	for _, b := range []*cars.Brand{&bmw, &audi} {
		if err := db.Create(b).Error; err != nil {
			t.Fatalf("brand: %v", err)
		}
	}
	berline := cars.VehicleType{Name: "Berline"}
	suv := cars.VehicleType{Name: "SUV"}
	for _, v := range []*cars.VehicleType{&berline, &suv} {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("type: %v", err)
		}
	}

	rows := []cars.Car{
		{Model: "M3", Year: 2023, RentalPrice: 250, StatusID: cars.StatusAvailable, BrandID: bmw.ID, TypeID: berline.ID},
		{Model: "X5", Year: 2022, RentalPrice: 220, StatusID: cars.StatusRented, BrandID: bmw.ID, TypeID: suv.ID},
		{Model: "Q7", Year: 2023, RentalPrice: 180, StatusID: cars.StatusAvailable, BrandID: audi.ID, TypeID: suv.ID},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("car: %v", err)
		}
	}
}

func TestFindAllFilters(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewCarRepository(db)
	ctx := context.Background()

	all, err := repo.FindAll(ctx, cars.Filter{})
	if err != nil {
		t.Fatalf("unfiltered: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 cars got %d", len(all))
	}
	if all[0].BrandName == "" || all[0].TypeName == "" {
		t.Fatalf("join names missing: %+v", all[0])
	}

	byBrand, err := repo.FindAll(ctx, cars.Filter{Brand: "BMW"})
	if err != nil {
		t.Fatalf("brand filter: %v", err)
	}
	if len(byBrand) != 2 {
		t.Fatalf("expected 2 BMW got %d", len(byBrand))
	}

	byType, err := repo.FindAll(ctx, cars.Filter{Type: "SUV"})
	if err != nil {
		t.Fatalf("type filter: %v", err)
	}
	if len(byType) != 2 {
		t.Fatalf("expected 2 SUV got %d", len(byType))
	}

	combined, err := repo.FindAll(ctx, cars.Filter{Brand: "BMW", Type: "SUV"})
	if err != nil {
		t.Fatalf("combined filter: %v", err)
	}
	if len(combined) != 1 || combined[0].Model != "X5" {
		t.Fatalf("expected only X5 got %+v", combined)
	}
}

func TestFindAllSearchMatchesModelAndBrand(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewCarRepository(db)
	ctx := context.Background()

	byModel, err := repo.FindAll(ctx, cars.Filter{Search: "Q7"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byModel) != 1 || byModel[0].Model != "Q7" {
		t.Fatalf("expected Q7 got %+v", byModel)
	}

	byBrandName, err := repo.FindAll(ctx, cars.Filter{Search: "Aud"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byBrandName) != 1 || byBrandName[0].BrandName != "Audi" {
		t.Fatalf("expected Audi match got %+v", byBrandName)
	}
}

func TestFindFeaturedCapsAtSixAvailable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCarRepository(db)
	ctx := context.Background()

	brand := cars.Brand{Name: "BMW"}
	if err := db.Create(&brand).Error; err != nil {
		t.Fatalf("brand: %v", err)
	}
	vt := cars.VehicleType{Name: "Berline"}
	if err := db.Create(&vt).Error; err != nil {
		t.Fatalf("type: %v", err)
	}
	for i := 0; i < 8; i++ {
		status := cars.StatusAvailable
		if i == 0 {
			status = cars.StatusRented
		}
		car := cars.Car{Model: fmt.Sprintf("Serie %d", i), Year: 2020 + i%4, RentalPrice: 100, StatusID: status, BrandID: brand.ID, TypeID: vt.ID}
		if err := db.Create(&car).Error; err != nil {
			t.Fatalf("car: %v", err)
		}
	}

	featured, err := repo.FindFeatured(ctx)
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(featured) != 6 {
		t.Fatalf("expected 6 featured got %d", len(featured))
	}
	for _, row := range featured {
		if row.StatusID != cars.StatusAvailable {
			t.Fatalf("rented car featured: %+v", row)
		}
	}
}

func TestLookupResolution(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := NewCarRepository(db)
	ctx := context.Background()

	id, err := repo.FindBrandIDByName(ctx, "Audi")
	if err != nil {
		t.Fatalf("brand lookup: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected Audi id")
	}

	missing, err := repo.FindBrandIDByName(ctx, "Tesla")
	if err != nil {
		t.Fatalf("missing brand lookup: %v", err)
	}
	if missing != 0 {
		t.Fatalf("expected 0 for unknown brand got %d", missing)
	}

	typeID, err := repo.FindTypeIDByName(ctx, "SUV")
	if err != nil {
		t.Fatalf("type lookup: %v", err)
	}
	if typeID == 0 {
		t.Fatalf("expected SUV id")
	}
}
