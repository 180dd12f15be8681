package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/vroomprestige/vroom-api/internal/domain/cars"
	carRepository "github.com/vroomprestige/vroom-api/internal/domain/cars/repository"
	"github.com/vroomprestige/vroom-api/internal/domain/reservations"
	reservationRepository "github.com/vroomprestige/vroom-api/internal/domain/reservations/repository"
	"github.com/vroomprestige/vroom-api/internal/domain/users"
	userRepository "github.com/vroomprestige/vroom-api/internal/domain/users/repository"
	"github.com/vroomprestige/vroom-api/pkg/response"

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
	if err := db.AutoMigrate(&users.User{}, &cars.Brand{}, &cars.VehicleType{}, &cars.Car{}, &reservations.Reservation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestUsecase(t *testing.T) (*ReservationUsecase, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	resRepo := reservationRepository.NewReservationRepository(db)
	carRepo := carRepository.NewCarRepository(db)
	userRepo := userRepository.NewUserRepository(db)
	return NewReservationUsecase(resRepo, carRepo, userRepo), db
}

func seedUserAndCar(t *testing.T, db *gorm.DB) (users.User, cars.Car) {
	t.Helper()
	user := users.User{ID: "USRtest", Email: "u@test", Password: "x", Role: "CLIENT", RegisteredAt: time.Now()}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	brand := cars.Brand{Name: "Audi"}
	if err := db.Create(&brand).Error; err != nil {
		t.Fatalf("brand: %v", err)
	}
	vt := cars.VehicleType{Name: "SUV"}
	if err := db.Create(&vt).Error; err != nil {
		t.Fatalf("type: %v", err)
	}
	car := cars.Car{
		Model:       "Q7",
		Year:        2023,
		RentalPrice: 180,
		StatusID:    cars.StatusAvailable,
		BrandID:     brand.ID,
		TypeID:      vt.ID,
	}
	if err := db.Create(&car).Error; err != nil {
		t.Fatalf("car: %v", err)
	}
	return user, car
}

func carStatus(t *testing.T, db *gorm.DB, carID int) string {
	t.Helper()
	var car cars.Car
	if err := db.Where("IdVoiture = ?", carID).First(&car).Error; err != nil {
		t.Fatalf("load car: %v", err)
	}
	return car.StatusID
}

func TestCreateSelfStartsPending(t *testing.T) {
	uc, db := newTestUsecase(t)
	user, car := seedUserAndCar(t, db)

	resp, err := uc.CreateSelf(context.Background(), user.ID, reservations.CreateRequest{
		CarID:     car.ID,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-05",
		Amount:    720,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var stored reservations.Reservation
	if err := db.Where("IdReservation = ?", resp.ID).First(&stored).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.Status != reservations.StatusPending {
		t.Fatalf("expected pending got %s", stored.Status)
	}
	// A self-service booking never flips the car status.
	if got := carStatus(t, db, car.ID); got != cars.StatusAvailable {
		t.Fatalf("car status changed: %s", got)
	}
}

func TestCreateSelfAllowsOverlappingDates(t *testing.T) {
	uc, db := newTestUsecase(t)
	user, car := seedUserAndCar(t, db)

	req := reservations.CreateRequest{
		CarID:     car.ID,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-05",
		Amount:    720,
	}
	if _, err := uc.CreateSelf(context.Background(), user.ID, req); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	// Same car, same window: accepted without complaint.
	if _, err := uc.CreateSelf(context.Background(), user.ID, req); err != nil {
		t.Fatalf("overlapping booking: %v", err)
	}

	var count int64
	if err := db.Model(&reservations.Reservation{}).Where("IdVoiture = ?", car.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 reservations got %d", count)
	}
}

func TestCreateSelfRejectsBadDate(t *testing.T) {
	uc, db := newTestUsecase(t)
	user, car := seedUserAndCar(t, db)

	_, err := uc.CreateSelf(context.Background(), user.ID, reservations.CreateRequest{
		CarID:     car.ID,
		StartDate: "next tuesday",
		EndDate:   "2026-09-05",
		Amount:    100,
	})
	apiErr, ok := err.(*response.APIError)
	if !ok || apiErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %v", err)
	}
}

func TestAdminCreateConfirmedMarksCarRented(t *testing.T) {
	uc, db := newTestUsecase(t)
	user, car := seedUserAndCar(t, db)

	_, err := uc.AdminCreate(context.Background(), reservations.AdminWriteRequest{
		UserID:    user.ID,
		CarID:     car.ID,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-05",
		Amount:    720,
		Status:    reservations.StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if got := carStatus(t, db, car.ID); got != cars.StatusRented {
		t.Fatalf("expected rented got %s", got)
	}
}

func TestAdminWriteEchoesLegacyDateFormat(t *testing.T) {
	uc, db := newTestUsecase(t)
	user, car := seedUserAndCar(t, db)

	created, err := uc.AdminCreate(context.Background(), reservations.AdminWriteRequest{
		UserID:    user.ID,
		CarID:     car.ID,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-05T18:30:00",
		Amount:    720,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.StartDate != "2026-09-01 00:00:00" {
		t.Fatalf("unexpected start date: %s", created.StartDate)
	}
	if created.EndDate != "2026-09-05 18:30:00" {
		t.Fatalf("unexpected end date: %s", created.EndDate)
	}

	updated, err := uc.AdminUpdate(context.Background(), created.ID, reservations.AdminWriteRequest{
		UserID:    user.ID,
		CarID:     car.ID,
		StartDate: "2026-09-02",
		EndDate:   "2026-09-06",
		Amount:    720,
		Status:    reservations.StatusPending,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.StartDate != "2026-09-02 00:00:00" || updated.EndDate != "2026-09-06 00:00:00" {
		t.Fatalf("unexpected updated dates: %s / %s", updated.StartDate, updated.EndDate)
	}
}

func TestAdminCreateUnknownUser(t *testing.T) {
	uc, db := newTestUsecase(t)
	_, car := seedUserAndCar(t, db)

	_, err := uc.AdminCreate(context.Background(), reservations.AdminWriteRequest{
		UserID:    "USRnope",
		CarID:     car.ID,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-05",
		Amount:    720,
	})
	apiErr, ok := err.(*response.APIError)
	if !ok || apiErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %v", err)
	}
}

func TestAdminUpdateTogglesCarStatus(t *testing.T) {
	uc, db := newTestUsecase(t)
	user, car := seedUserAndCar(t, db)

	created, err := uc.AdminCreate(context.Background(), reservations.AdminWriteRequest{
		UserID:    user.ID,
		CarID:     car.ID,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-05",
		Amount:    720,
		Status:    reservations.StatusPending,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := carStatus(t, db, car.ID); got != cars.StatusAvailable {
		t.Fatalf("pending booking flipped car status: %s", got)
	}

	write := reservations.AdminWriteRequest{
		UserID:    user.ID,
		CarID:     car.ID,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-05",
		Amount:    720,
		Status:    reservations.StatusConfirmed,
	}
	if _, err := uc.AdminUpdate(context.Background(), created.ID, write); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := carStatus(t, db, car.ID); got != cars.StatusRented {
		t.Fatalf("expected rented got %s", got)
	}

	// Re-submitting the same status is idempotent for the car.
	if err := db.Model(&cars.Car{}).Where("IdVoiture = ?", car.ID).
		Update("IdStatut", "STAT999").Error; err != nil {
		t.Fatalf("mark: %v", err)
	}
	if _, err := uc.AdminUpdate(context.Background(), created.ID, write); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if got := carStatus(t, db, car.ID); got != "STAT999" {
		t.Fatalf("unchanged status touched car: %s", got)
	}
	if err := db.Model(&cars.Car{}).Where("IdVoiture = ?", car.ID).
		Update("IdStatut", cars.StatusRented).Error; err != nil {
		t.Fatalf("restore: %v", err)
	}

	write.Status = reservations.StatusCancelled
	if _, err := uc.AdminUpdate(context.Background(), created.ID, write); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := carStatus(t, db, car.ID); got != cars.StatusAvailable {
		t.Fatalf("expected available after cancel got %s", got)
	}
}

func TestAdminDeleteLeavesCarStatus(t *testing.T) {
	uc, db := newTestUsecase(t)
	user, car := seedUserAndCar(t, db)

	created, err := uc.AdminCreate(context.Background(), reservations.AdminWriteRequest{
		UserID:    user.ID,
		CarID:     car.ID,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-05",
		Amount:    720,
		Status:    reservations.StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := uc.AdminDelete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	if err := db.Model(&reservations.Reservation{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("reservation not deleted")
	}
	// Deleting does not release the car.
	if got := carStatus(t, db, car.ID); got != cars.StatusRented {
		t.Fatalf("delete reconciled car status: %s", got)
	}
}

func TestAdminDeleteUnknownReservation(t *testing.T) {
	uc, db := newTestUsecase(t)
	seedUserAndCar(t, db)

	err := uc.AdminDelete(context.Background(), "RESnope")
	apiErr, ok := err.(*response.APIError)
	if !ok || apiErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %v", err)
	}
}
