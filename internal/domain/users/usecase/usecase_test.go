package usecase

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/vroomprestige/vroom-api/internal/domain/cars"
	"github.com/vroomprestige/vroom-api/internal/domain/reservations"
	"github.com/vroomprestige/vroom-api/internal/domain/users"
	"github.com/vroomprestige/vroom-api/internal/domain/users/repository"
	"github.com/vroomprestige/vroom-api/pkg/constant"
	"github.com/vroomprestige/vroom-api/pkg/response"
	"golang.org/x/crypto/bcrypt"

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

func newTestUsecase(t *testing.T) (*UserUsecase, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewUserUsecase(repository.NewUserRepository(db)), db
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _ := newTestUsecase(t)

	created, err := uc.Register(context.Background(), users.RegisterRequest{
		Email:    "jean@test.fr",
		Password: "secret42",
		Name:     "Dupont",
		Surname:  "Jean",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.HasPrefix(created.ID, "USR") {
		t.Fatalf("unexpected id: %s", created.ID)
	}
	if created.Role != constant.RoleClient {
		t.Fatalf("expected CLIENT role got %s", created.Role)
	}
	if created.Photo != constant.DefaultProfilePhoto {
		t.Fatalf("expected default photo got %s", created.Photo)
	}
	if created.Password == "secret42" {
		t.Fatalf("password stored in clear")
	}

	logged, err := uc.Login(context.Background(), users.LoginRequest{
		Email:    "jean@test.fr",
		Password: "secret42",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != created.ID {
		t.Fatalf("login returned wrong account")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _ := newTestUsecase(t)

	req := users.RegisterRequest{Email: "jean@test.fr", Password: "secret42", Name: "Dupont", Surname: "Jean"}
	if _, err := uc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := uc.Register(context.Background(), req)
	apiErr, ok := err.(*response.APIError)
	if !ok || apiErr.Code != http.StatusBadRequest || apiErr.Message != "email_already_exists" {
		t.Fatalf("expected duplicate-email 400 got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	uc, _ := newTestUsecase(t)

	if _, err := uc.Register(context.Background(), users.RegisterRequest{
		Email: "jean@test.fr", Password: "secret42", Name: "Dupont", Surname: "Jean",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, req := range []users.LoginRequest{
		{Email: "jean@test.fr", Password: "wrong"},
		{Email: "nobody@test.fr", Password: "secret42"},
	} {
		_, err := uc.Login(context.Background(), req)
		apiErr, ok := err.(*response.APIError)
		if !ok || apiErr.Code != http.StatusUnauthorized || apiErr.Message != "invalid_credentials" {
			t.Fatalf("expected 401 invalid_credentials for %s got %v", req.Email, err)
		}
	}
}

func TestLoginTrimsEmail(t *testing.T) {
	uc, _ := newTestUsecase(t)

	if _, err := uc.Register(context.Background(), users.RegisterRequest{
		Email: "jean@test.fr", Password: "secret42", Name: "Dupont", Surname: "Jean",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := uc.Login(context.Background(), users.LoginRequest{
		Email:    "  jean@test.fr  ",
		Password: "secret42",
	}); err != nil {
		t.Fatalf("login with padded email: %v", err)
	}
}

func TestAdminUpdateRehashesPassword(t *testing.T) {
	uc, db := newTestUsecase(t)

	created, err := uc.Register(context.Background(), users.RegisterRequest{
		Email: "jean@test.fr", Password: "secret42", Name: "Dupont", Surname: "Jean",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := uc.AdminUpdate(context.Background(), created.ID, users.AdminUpdateRequest{
		Password: "newpass99",
		Phone:    "0601020304",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var stored users.User
	if err := db.Where("IdUser = ?", created.ID).First(&stored).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.Phone != "0601020304" {
		t.Fatalf("phone not written: %s", stored.Phone)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newpass99")); err != nil {
		t.Fatalf("password not rehashed: %v", err)
	}
	// Untouched fields survive the partial update.
	if stored.Name != "Dupont" {
		t.Fatalf("name clobbered: %s", stored.Name)
	}
}

func TestAdminUpdateRejectsTakenEmail(t *testing.T) {
	uc, _ := newTestUsecase(t)

	first, err := uc.Register(context.Background(), users.RegisterRequest{
		Email: "jean@test.fr", Password: "secret42", Name: "Dupont", Surname: "Jean",
	})
	if err != nil {
		t.Fatalf("register first: %v", err)
	}
	if _, err := uc.Register(context.Background(), users.RegisterRequest{
		Email: "marie@test.fr", Password: "secret42", Name: "Martin", Surname: "Marie",
	}); err != nil {
		t.Fatalf("register second: %v", err)
	}

	err = uc.AdminUpdate(context.Background(), first.ID, users.AdminUpdateRequest{Email: "marie@test.fr"})
	apiErr, ok := err.(*response.APIError)
	if !ok || apiErr.Code != http.StatusBadRequest || apiErr.Message != "email_already_in_use" {
		t.Fatalf("expected email conflict got %v", err)
	}

	// Re-submitting the account's own email is fine.
	if err := uc.AdminUpdate(context.Background(), first.ID, users.AdminUpdateRequest{Email: "jean@test.fr"}); err != nil {
		t.Fatalf("own email rejected: %v", err)
	}
}

func TestAdminDeleteCascadesReservations(t *testing.T) {
	uc, db := newTestUsecase(t)

	victim, err := uc.Register(context.Background(), users.RegisterRequest{
		Email: "jean@test.fr", Password: "secret42", Name: "Dupont", Surname: "Jean",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	brand := cars.Brand{Name: "Audi"}
	if err := db.Create(&brand).Error; err != nil {
		t.Fatalf("brand: %v", err)
	}
	vt := cars.VehicleType{Name: "SUV"}
	if err := db.Create(&vt).Error; err != nil {
		t.Fatalf("type: %v", err)
	}
	car := cars.Car{Model: "Q7", Year: 2023, RentalPrice: 180, StatusID: cars.StatusAvailable, BrandID: brand.ID, TypeID: vt.ID}
	if err := db.Create(&car).Error; err != nil {
		t.Fatalf("car: %v", err)
	}
	res := reservations.Reservation{
		ID:        "REScascade",
		StartDate: time.Now(),
		EndDate:   time.Now().Add(48 * time.Hour),
		Amount:    360,
		Status:    reservations.StatusPending,
		UserID:    victim.ID,
		CarID:     car.ID,
	}
	if err := db.Create(&res).Error; err != nil {
		t.Fatalf("reservation: %v", err)
	}

	if err := uc.AdminDelete(context.Background(), victim.ID, "USRadmin"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var userCount, resCount int64
	if err := db.Model(&users.User{}).Count(&userCount).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if err := db.Model(&reservations.Reservation{}).Count(&resCount).Error; err != nil {
		t.Fatalf("count reservations: %v", err)
	}
	if userCount != 0 || resCount != 0 {
		t.Fatalf("cascade left orphans: users=%d reservations=%d", userCount, resCount)
	}
}

func TestAdminDeleteRejectsSelf(t *testing.T) {
	uc, _ := newTestUsecase(t)

	admin, err := uc.AdminCreate(context.Background(), users.AdminCreateRequest{
		Name: "Root", Surname: "Admin", Email: "admin@test.fr", Password: "secret42", Role: constant.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	err = uc.AdminDelete(context.Background(), admin.ID, admin.ID)
	apiErr, ok := err.(*response.APIError)
	if !ok || apiErr.Code != http.StatusBadRequest || apiErr.Message != "cannot_delete_own_account" {
		t.Fatalf("expected self-delete rejection got %v", err)
	}
}

func TestAdminCreateDefaultsRole(t *testing.T) {
	uc, _ := newTestUsecase(t)

	created, err := uc.AdminCreate(context.Background(), users.AdminCreateRequest{
		Name: "Martin", Surname: "Marie", Email: "marie@test.fr", Password: "secret42",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Role != constant.RoleClient {
		t.Fatalf("expected CLIENT default got %s", created.Role)
	}
}
