package repository

import (
	"context"
	"errors"

	"github.com/vroomprestige/vroom-api/internal/domain/cars"
	"github.com/vroomprestige/vroom-api/internal/domain/reservations"
	"gorm.io/gorm"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func joinedReservations(db *gorm.DB) *gorm.DB {
	return db.Table("Reservation").
		Select("Reservation.*, Voiture.Modele, MarqueVoiture.NomMarque, Voiture.Photo").
		Joins("JOIN Voiture ON Reservation.IdVoiture = Voiture.IdVoiture").
		Joins("JOIN MarqueVoiture ON Voiture.IdMarque = MarqueVoiture.IdMarque").
		Order("Reservation.DateReservation DESC")
}

// FindAllRows returns every reservation joined with car details, newest first.
func (r *ReservationRepository) FindAllRows(ctx context.Context) ([]reservations.Row, error) {
	var rows []reservations.Row
	if err := joinedReservations(r.db.WithContext(ctx)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindRowsByUser returns one user's reservations joined with car details.
func (r *ReservationRepository) FindRowsByUser(ctx context.Context, userID string) ([]reservations.Row, error) {
	var rows []reservations.Row
	err := joinedReservations(r.db.WithContext(ctx)).
		Where("Reservation.IdUser = ?", userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, reservationID string) (*reservations.Reservation, error) {
	var res reservations.Reservation
	err := r.db.WithContext(ctx).Where("IdReservation = ?", reservationID).First(&res).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

// Create inserts a reservation. When carStatus is non-empty the referenced
// car's status is flipped in the same transaction, so the availability
// projection cannot be left half-applied.
func (r *ReservationRepository) Create(ctx context.Context, res *reservations.Reservation, carStatus string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(res).Error; err != nil {
			return err
		}
		if carStatus != "" {
			return tx.Model(&cars.Car{}).
				Where("IdVoiture = ?", res.CarID).
				Update("IdStatut", carStatus).Error
		}
		return nil
	})
}

// Update rewrites a reservation row and, when carStatus is non-empty, flips
// the car's status inside the same transaction.
func (r *ReservationRepository) Update(ctx context.Context, res *reservations.Reservation, carStatus string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"DateDebut":          res.StartDate,
			"DateFin":            res.EndDate,
			"MontantReservation": res.Amount,
			"Statut":             res.Status,
			"IdUser":             res.UserID,
			"IdVoiture":          res.CarID,
		}
		err := tx.Model(&reservations.Reservation{}).
			Where("IdReservation = ?", res.ID).
			Updates(updates).Error
		if err != nil {
			return err
		}
		if carStatus != "" {
			return tx.Model(&cars.Car{}).
				Where("IdVoiture = ?", res.CarID).
				Update("IdStatut", carStatus).Error
		}
		return nil
	})
}

// Delete removes a reservation. The affected car's status is not reconciled.
func (r *ReservationRepository) Delete(ctx context.Context, reservationID string) error {
	return r.db.WithContext(ctx).
		Where("IdReservation = ?", reservationID).
		Delete(&reservations.Reservation{}).Error
}

// CountActiveByCar counts reservations for a car in a non-terminal status.
func (r *ReservationRepository) CountActiveByCar(ctx context.Context, carID int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&reservations.Reservation{}).
		Where("IdVoiture = ? AND Statut NOT IN ?", carID,
			[]string{reservations.StatusCancelled, reservations.StatusCompleted}).
		Count(&count).Error
	return count, err
}
