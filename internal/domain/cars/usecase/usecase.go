package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"strconv"

	"github.com/vroomprestige/vroom-api/internal/domain/cars"
	"github.com/vroomprestige/vroom-api/pkg/constant"
	"github.com/vroomprestige/vroom-api/pkg/response"
	"gorm.io/datatypes"
)

type CarRepository interface {
	FindAll(ctx context.Context, filter cars.Filter) ([]cars.CarRow, error)
	FindFeatured(ctx context.Context) ([]cars.CarRow, error)
	FindByID(ctx context.Context, carID int) (*cars.Car, error)
	FindRowByID(ctx context.Context, carID int) (*cars.CarRow, error)
	Create(ctx context.Context, car *cars.Car) error
	UpdateFields(ctx context.Context, carID int, updates map[string]interface{}) (int64, error)
	Delete(ctx context.Context, carID int) error
	FindAllBrands(ctx context.Context) ([]cars.Brand, error)
	FindAllTypes(ctx context.Context) ([]cars.VehicleType, error)
	FindBrandIDByName(ctx context.Context, name string) (int, error)
	FindTypeIDByName(ctx context.Context, name string) (int, error)
}

// ReservationCounter reports how many reservations for a car are still in a
// non-terminal status. Satisfied by the reservations repository.
type ReservationCounter interface {
	CountActiveByCar(ctx context.Context, carID int) (int64, error)
}

type CarUsecase struct {
	repo         CarRepository
	reservations ReservationCounter
}

func NewCarUsecase(repo CarRepository, reservations ReservationCounter) *CarUsecase {
	return &CarUsecase{
		repo:         repo,
		reservations: reservations,
	}
}

// resolveRef turns an id-or-name reference into a numeric id using the given
// exact-name lookup. The single resolution path shared by create and update.
func resolveRef(ctx context.Context, ref cars.Ref, message string, lookup func(context.Context, string) (int, error)) (int, error) {
	value := string(ref)
	if id, err := strconv.Atoi(value); err == nil {
		return id, nil
	}
	id, err := lookup(ctx, value)
	if err != nil {
		return 0, response.InternalServerError(err)
	}
	if id == 0 {
		return 0, response.NewError(http.StatusBadRequest, message, value)
	}
	return id, nil
}

func (u *CarUsecase) resolveBrand(ctx context.Context, ref cars.Ref) (int, error) {
	return resolveRef(ctx, ref, "invalid_brand", u.repo.FindBrandIDByName)
}

func (u *CarUsecase) resolveType(ctx context.Context, ref cars.Ref) (int, error) {
	return resolveRef(ctx, ref, "invalid_vehicle_type", u.repo.FindTypeIDByName)
}

// ListCars returns the filtered public catalog.
func (u *CarUsecase) ListCars(ctx context.Context, filter cars.Filter) ([]cars.CarRow, error) {
	rows, err := u.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return rows, nil
}

func (u *CarUsecase) ListFeatured(ctx context.Context) ([]cars.CarRow, error) {
	rows, err := u.repo.FindFeatured(ctx)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return rows, nil
}

func (u *CarUsecase) ListBrands(ctx context.Context) ([]cars.Brand, error) {
	brands, err := u.repo.FindAllBrands(ctx)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return brands, nil
}

func (u *CarUsecase) ListTypes(ctx context.Context) ([]cars.VehicleType, error) {
	types, err := u.repo.FindAllTypes(ctx)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	return types, nil
}

// CreateCar inserts a new car, resolving brand/type references and applying
// fleet defaults for the optional fields.
func (u *CarUsecase) CreateCar(ctx context.Context, req cars.CreateCarRequest) (*cars.CreateCarResponse, error) {
	brandID, err := u.resolveBrand(ctx, req.Brand)
	if err != nil {
		return nil, err
	}

	typeID, err := u.resolveType(ctx, req.Type)
	if err != nil {
		return nil, err
	}

	car := cars.Car{
		Model:        req.Model,
		Doors:        4,
		Transmission: "Automatique",
		Year:         req.Year,
		Color:        "Blanc",
		Photo:        constant.DefaultCarPhoto,
		Fuel:         "Essence",
		Power:        100,
		RentalPrice:  req.RentalPrice,
		Description:  fmt.Sprintf("%s %s", req.Brand, req.Model),
		Seats:        5,
		StatusID:     req.StatusID,
		BrandID:      brandID,
		TypeID:       typeID,
	}

	if req.Doors != 0 {
		car.Doors = req.Doors
	}
	if req.Transmission != "" {
		car.Transmission = req.Transmission
	}
	if req.Color != "" {
		car.Color = req.Color
	}
	if req.Photo != "" {
		car.Photo = req.Photo
	}
	if req.Fuel != "" {
		car.Fuel = req.Fuel
	}
	if req.Power != 0 {
		car.Power = req.Power
	}
	if req.Seats != 0 {
		car.Seats = req.Seats
	}
	if req.Description != "" {
		car.Description = req.Description
	}
	if len(req.ExtraPhotos) > 0 {
		encoded, err := json.Marshal(req.ExtraPhotos)
		if err != nil {
			return nil, response.InternalServerError(err)
		}
		car.ExtraPhotos = datatypes.JSON(encoded)
	}

	if err := u.repo.Create(ctx, &car); err != nil {
		return nil, response.InternalServerError(err)
	}

	return &cars.CreateCarResponse{
		ID:          car.ID,
		Brand:       string(req.Brand),
		Model:       car.Model,
		Year:        car.Year,
		RentalPrice: car.RentalPrice,
		Photo:       car.Photo,
	}, nil
}

// UpdateCar performs a field-by-field diff against the stored row and writes
// only the columns whose supplied value differs. A request where nothing
// differs returns the current row with NoChanges set and performs no write.
func (u *CarUsecase) UpdateCar(ctx context.Context, carID int, req cars.UpdateCarRequest) (*cars.UpdateCarResult, error) {
	current, err := u.repo.FindByID(ctx, carID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}
	if current == nil {
		return nil, response.NewError(http.StatusNotFound, "car_not_found", nil)
	}

	updates := map[string]interface{}{}

	setString := func(column string, value *string, current string) {
		if value != nil && *value != current {
			updates[column] = *value
		}
	}
	setInt := func(column string, value *int, current int) {
		if value != nil && *value != current {
			updates[column] = *value
		}
	}

	setString("Modele", req.Model, current.Model)
	setInt("Annee", req.Year, current.Year)
	if req.RentalPrice != nil && math.Abs(*req.RentalPrice-current.RentalPrice) > 0.001 {
		updates["PrixLocation"] = *req.RentalPrice
	}
	setString("IdStatut", req.StatusID, current.StatusID)
	setInt("NbPorte", req.Doors, current.Doors)
	setString("BoiteVitesse", req.Transmission, current.Transmission)
	setString("Couleur", req.Color, current.Color)
	setString("Energie", req.Fuel, current.Fuel)
	setInt("Puissance", req.Power, current.Power)
	setInt("NbPlaces", req.Seats, current.Seats)
	setString("Description", req.Description, current.Description)
	setString("Photo", req.Photo, current.Photo)

	if req.Brand != nil {
		brandID, err := u.resolveBrand(ctx, *req.Brand)
		if err != nil {
			return nil, err
		}
		if brandID != current.BrandID {
			updates["IdMarque"] = brandID
		}
	}

	if req.Type != nil {
		typeID, err := u.resolveType(ctx, *req.Type)
		if err != nil {
			return nil, err
		}
		if typeID != current.TypeID {
			updates["IdType"] = typeID
		}
	}

	if req.ExtraPhotos != nil {
		var stored []string
		if len(current.ExtraPhotos) > 0 {
			if err := json.Unmarshal(current.ExtraPhotos, &stored); err != nil {
				stored = nil
			}
		}
		if !reflect.DeepEqual(req.ExtraPhotos, stored) {
			encoded, err := json.Marshal(req.ExtraPhotos)
			if err != nil {
				return nil, response.InternalServerError(err)
			}
			updates["PhotosSupplementaires"] = datatypes.JSON(encoded)
		}
	}

	if len(updates) == 0 {
		row, err := u.repo.FindRowByID(ctx, carID)
		if err != nil {
			return nil, response.InternalServerError(err)
		}
		return &cars.UpdateCarResult{NoChanges: true, Car: row}, nil
	}

	affected, err := u.repo.UpdateFields(ctx, carID, updates)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	row, err := u.repo.FindRowByID(ctx, carID)
	if err != nil {
		return nil, response.InternalServerError(err)
	}

	return &cars.UpdateCarResult{AffectedRows: affected, Car: row}, nil
}

// DeleteCar removes a car unless a reservation in a non-terminal status still
// references it.
func (u *CarUsecase) DeleteCar(ctx context.Context, carID int) error {
	car, err := u.repo.FindByID(ctx, carID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if car == nil {
		return response.NewError(http.StatusNotFound, "car_not_found", nil)
	}

	active, err := u.reservations.CountActiveByCar(ctx, carID)
	if err != nil {
		return response.InternalServerError(err)
	}
	if active > 0 {
		return response.NewError(http.StatusConflict, "car_has_active_reservations",
			"cancel or complete all reservations for this car first")
	}

	if err := u.repo.Delete(ctx, carID); err != nil {
		return response.InternalServerError(err)
	}
	return nil
}
