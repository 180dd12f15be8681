package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/vroomprestige/vroom-api/internal/domain/cars"
	"github.com/vroomprestige/vroom-api/internal/domain/reservations"
	"github.com/vroomprestige/vroom-api/internal/domain/users"
	"github.com/vroomprestige/vroom-api/pkg/response"
)

type ReservationRepository interface {
	FindAllRows(ctx context.Context) ([]reservations.Row, error)
	FindRowsByUser(ctx context.Context, userID string) ([]reservations.Row, error)
	FindByID(ctx context.Context, reservationID string) (*reservations.Reservation, error)
	Create(ctx context.Context, res *reservations.Reservation, carStatus string) error
	Update(ctx context.Context, res *reservations.Reservation, carStatus string) error
	Delete(ctx context.Context, reservationID string) error
	CountActiveByCar(ctx context.Context, carID int) (int64, error)
}

// CarFinder resolves car existence checks. Satisfied by the cars repository.
type CarFinder interface {
	FindByID(ctx context.Context, carID int) (*cars.Car, error)
}

// UserFinder resolves user existence checks. Satisfied by the users repository.
type UserFinder interface {
	FindByID(ctx context.Context, userID string) (*users.User, error)
}

type ReservationUsecase struct {
	repo     ReservationRepository
	carRepo  CarFinder
	userRepo UserFinder
}

func NewReservationUsecase(repo ReservationRepository, carRepo CarFinder, userRepo UserFinder) *ReservationUsecase {
	return &ReservationUsecase{
		repo:     repo,
		carRepo:  carRepo,
		userRepo: userRepo,
	}
}

func (u *ReservationUsecase) ListAll(ctx context.Context) ([]reservations.Row, error) {
	rows, err := u.repo.FindAllRows(ctx)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return rows, nil
}

func (u *ReservationUsecase) ListForUser(ctx context.Context, userID string) ([]reservations.Row, error) {
	rows, err := u.repo.FindRowsByUser(ctx, userID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return rows, nil
}

// CreateSelf books a car for the authenticated user. The reservation starts
// in Pending and no overlap check is made against existing bookings for the
// same car: double booking is a known, accepted behavior of this product.
func (u *ReservationUsecase) CreateSelf(ctx context.Context, userID string, req reservations.CreateRequest) (*reservations.CreateResponse, error) {
	start, err := reservations.ParseDate(req.StartDate)
	if err != nil {
		return nil, response.NewError(http.StatusBadRequest, "invalid_start_date", err.Error())
	}
	end, err := reservations.ParseDate(req.EndDate)
	if err != nil {
		return nil, response.NewError(http.StatusBadRequest, "invalid_end_date", err.Error())
	}

	res := reservations.Reservation{
		ID:        "RES" + ksuid.New().String(),
		StartDate: start,
		EndDate:   end,
		Amount:    req.Amount,
		Status:    reservations.StatusPending,
		UserID:    userID,
		CarID:     req.CarID,
		CreatedAt: time.Now(),
	}

	if err := u.repo.Create(ctx, &res, ""); err != nil {
		return nil, response.InternalServerError(err)
	}

	return &reservations.CreateResponse{
		ID:      res.ID,
		Message: "reservation_created_successfully",
	}, nil
}

// AdminCreate books a car on behalf of any user with a caller-supplied
// status. A reservation created directly in Confirmed marks the car rented
// within the same transaction.
func (u *ReservationUsecase) AdminCreate(ctx context.Context, req reservations.AdminWriteRequest) (*reservations.AdminWriteResponse, error) {
	user, err := u.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.NewError(http.StatusNotFound, "user_not_found", nil)
	}

	car, err := u.carRepo.FindByID(ctx, req.CarID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if car == nil {
		return nil, response.NewError(http.StatusNotFound, "car_not_found", nil)
	}

	start, err := reservations.ParseDate(req.StartDate)
	if err != nil {
		return nil, response.NewError(http.StatusBadRequest, "invalid_start_date", err.Error())
	}
	end, err := reservations.ParseDate(req.EndDate)
	if err != nil {
		return nil, response.NewError(http.StatusBadRequest, "invalid_end_date", err.Error())
	}

	status := req.Status
	if status == "" {
		status = reservations.StatusPending
	}

	res := reservations.Reservation{
		ID:        "RES" + ksuid.New().String(),
		StartDate: start,
		EndDate:   end,
		Amount:    req.Amount,
		Status:    status,
		UserID:    req.UserID,
		CarID:     req.CarID,
		CreatedAt: time.Now(),
	}

	carStatus := ""
	if status == reservations.StatusConfirmed {
		carStatus = cars.StatusRented
	}

	if err := u.repo.Create(ctx, &res, carStatus); err != nil {
		return nil, response.InternalServerError(err)
	}

	return &reservations.AdminWriteResponse{
		ID:        res.ID,
		StartDate: reservations.FormatDate(res.StartDate),
		EndDate:   reservations.FormatDate(res.EndDate),
		Amount:    res.Amount,
		Status:    res.Status,
	}, nil
}

// AdminUpdate rewrites a reservation. A status transition into Confirmed
// marks the car rented; a transition out of Confirmed marks it available
// again. An unchanged status, or a transition not touching Confirmed, leaves
// the car untouched, so repeated identical writes do not toggle anything.
func (u *ReservationUsecase) AdminUpdate(ctx context.Context, reservationID string, req reservations.AdminWriteRequest) (*reservations.AdminWriteResponse, error) {
	existing, err := u.repo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if existing == nil {
		return nil, response.NewError(http.StatusNotFound, "reservation_not_found", nil)
	}

	user, err := u.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if user == nil {
		return nil, response.NewError(http.StatusNotFound, "user_not_found", nil)
	}

	car, err := u.carRepo.FindByID(ctx, req.CarID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if car == nil {
		return nil, response.NewError(http.StatusNotFound, "car_not_found", nil)
	}

	start, err := reservations.ParseDate(req.StartDate)
	if err != nil {
		return nil, response.NewError(http.StatusBadRequest, "invalid_start_date", err.Error())
	}
	end, err := reservations.ParseDate(req.EndDate)
	if err != nil {
		return nil, response.NewError(http.StatusBadRequest, "invalid_end_date", err.Error())
	}

	carStatus := ""
	if existing.Status != req.Status {
		if req.Status == reservations.StatusConfirmed {
			carStatus = cars.StatusRented
		} else if existing.Status == reservations.StatusConfirmed {
			carStatus = cars.StatusAvailable
		}
	}

	updated := reservations.Reservation{
		ID:        reservationID,
		StartDate: start,
		EndDate:   end,
		Amount:    req.Amount,
		Status:    req.Status,
		UserID:    req.UserID,
		CarID:     req.CarID,
	}

	if err := u.repo.Update(ctx, &updated, carStatus); err != nil {
		return nil, response.InternalServerError(err)
	}

	return &reservations.AdminWriteResponse{
		ID:        reservationID,
		StartDate: reservations.FormatDate(start),
		EndDate:   reservations.FormatDate(end),
		Amount:    req.Amount,
		Status:    req.Status,
	}, nil
}

// AdminDelete removes a reservation unconditionally. The car's status is not
// reconciled; a documented known gap.
func (u *ReservationUsecase) AdminDelete(ctx context.Context, reservationID string) error {
	existing, err := u.repo.FindByID(ctx, reservationID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if existing == nil {
		return response.NewError(http.StatusNotFound, "reservation_not_found", nil)
	}

	if err := u.repo.Delete(ctx, reservationID); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}
