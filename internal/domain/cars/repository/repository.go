package repository

import (
	"context"
	"errors"

	"github.com/vroomprestige/vroom-api/internal/domain/cars"
	"gorm.io/gorm"
)

type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

func joinedCars(db *gorm.DB) *gorm.DB {
	return db.Table("Voiture").
		Select("Voiture.*, MarqueVoiture.NomMarque, TypeVehicule.NomType").
		Joins("JOIN MarqueVoiture ON Voiture.IdMarque = MarqueVoiture.IdMarque").
		Joins("JOIN TypeVehicule ON Voiture.IdType = TypeVehicule.IdType")
}

// FindAll returns joined car rows matching the optional filters. Brand and
// type filter by exact name; search matches model or brand name by substring.
func (r *CarRepository) FindAll(ctx context.Context, filter cars.Filter) ([]cars.CarRow, error) {
	query := joinedCars(r.db.WithContext(ctx))

	if filter.Brand != "" {
		query = query.Where("MarqueVoiture.NomMarque = ?", filter.Brand)
	}
	if filter.Type != "" {
		query = query.Where("TypeVehicule.NomType = ?", filter.Type)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("Voiture.Modele LIKE ? OR MarqueVoiture.NomMarque LIKE ?", pattern, pattern)
	}

	var rows []cars.CarRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindFeatured returns up to six available cars for the landing page.
func (r *CarRepository) FindFeatured(ctx context.Context) ([]cars.CarRow, error) {
	var rows []cars.CarRow
	err := joinedCars(r.db.WithContext(ctx)).
		Where("Voiture.IdStatut = ?", cars.StatusAvailable).
		Limit(6).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CarRepository) FindByID(ctx context.Context, carID int) (*cars.Car, error) {
	var car cars.Car
	err := r.db.WithContext(ctx).Where("IdVoiture = ?", carID).First(&car).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &car, nil
}

func (r *CarRepository) FindRowByID(ctx context.Context, carID int) (*cars.CarRow, error) {
	var row cars.CarRow
	err := joinedCars(r.db.WithContext(ctx)).
		Where("Voiture.IdVoiture = ?", carID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *CarRepository) Create(ctx context.Context, car *cars.Car) error {
	return r.db.WithContext(ctx).Create(car).Error
}

// UpdateFields applies a column→value map built by the usecase's field diff.
// Values are always bound parameters, never interpolated SQL text.
func (r *CarRepository) UpdateFields(ctx context.Context, carID int, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&cars.Car{}).
		Where("IdVoiture = ?", carID).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *CarRepository) Delete(ctx context.Context, carID int) error {
	return r.db.WithContext(ctx).
		Where("IdVoiture = ?", carID).
		Delete(&cars.Car{}).Error
}

// Lookup tables

func (r *CarRepository) FindAllBrands(ctx context.Context) ([]cars.Brand, error) {
	var brands []cars.Brand
	err := r.db.WithContext(ctx).Find(&brands).Error
	return brands, err
}

func (r *CarRepository) FindAllTypes(ctx context.Context) ([]cars.VehicleType, error) {
	var types []cars.VehicleType
	err := r.db.WithContext(ctx).Find(&types).Error
	return types, err
}

// FindBrandIDByName resolves an exact brand name; 0 means not found.
func (r *CarRepository) FindBrandIDByName(ctx context.Context, name string) (int, error) {
	var brand cars.Brand
	err := r.db.WithContext(ctx).Where("NomMarque = ?", name).First(&brand).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return brand.ID, nil
}

// FindTypeIDByName resolves an exact type name; 0 means not found.
func (r *CarRepository) FindTypeIDByName(ctx context.Context, name string) (int, error) {
	var vt cars.VehicleType
	err := r.db.WithContext(ctx).Where("NomType = ?", name).First(&vt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return vt.ID, nil
}
