package reservations

import (
	"fmt"
	"time"
)

// Reservation lifecycle states. Persisted values are shared with the legacy
// database and clients, hence the French labels. Only Confirmed drives the
// car-status projection; Cancelled and Completed are terminal.
const (
	StatusPending   = "En attente"
	StatusConfirmed = "Confirmée"
	StatusCancelled = "Annulée"
	StatusCompleted = "Terminée"
)

// IsTerminal reports whether a status ends the reservation's claim on a car.
func IsTerminal(status string) bool {
	return status == StatusCancelled || status == StatusCompleted
}

// Reservation is a rental booking row.
type Reservation struct {
	ID        string    `json:"IdReservation" gorm:"column:IdReservation;primaryKey;type:varchar(40)"`
	StartDate time.Time `json:"DateDebut" gorm:"column:DateDebut;not null"`
	EndDate   time.Time `json:"DateFin" gorm:"column:DateFin;not null"`
	Amount    float64   `json:"MontantReservation" gorm:"column:MontantReservation;type:decimal(10,2);not null"`
	Status    string    `json:"Statut" gorm:"column:Statut;type:varchar(30);not null"`
	UserID    string    `json:"IdUser" gorm:"column:IdUser;type:varchar(40);not null;index"`
	CarID     int       `json:"IdVoiture" gorm:"column:IdVoiture;not null;index"`
	CreatedAt time.Time `json:"DateReservation" gorm:"column:DateReservation;autoCreateTime"`
}

// TableName overrides the table name for Reservation
func (Reservation) TableName() string {
	return "Reservation"
}

// Row is a reservation joined with the car's model, brand name and photo,
// the shape both reservation listings return.
type Row struct {
	Reservation `gorm:"embedded"`
	CarModel    string `json:"Modele" gorm:"column:Modele"`
	BrandName   string `json:"NomMarque" gorm:"column:NomMarque"`
	CarPhoto    string `json:"Photo" gorm:"column:Photo"`
}

// dateLayouts accepted for reservation date inputs, canonicalized to a MySQL
// datetime on write.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatDate renders a date the way the legacy dashboard expects,
// YYYY-MM-DD HH:MM:SS.
func FormatDate(t time.Time) string {
	return t.Format(dateLayouts[0])
}

// ParseDate canonicalizes a caller-supplied date string.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}

// Request DTOs

// CreateRequest is the self-service booking payload.
type CreateRequest struct {
	CarID     int     `json:"carId" validate:"required,gt=0"`
	StartDate string  `json:"startDate" validate:"required"`
	EndDate   string  `json:"endDate" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
}

// AdminWriteRequest is the admin create/update payload.
type AdminWriteRequest struct {
	UserID    string  `json:"IdUser" validate:"required"`
	CarID     int     `json:"IdVoiture" validate:"required,gt=0"`
	StartDate string  `json:"DateDebut" validate:"required"`
	EndDate   string  `json:"DateFin" validate:"required"`
	Amount    float64 `json:"MontantReservation" validate:"required,gt=0"`
	Status    string  `json:"Statut"`
}

// Response DTOs

type CreateResponse struct {
	ID      string `json:"reservationId"`
	Message string `json:"message"`
}

// AdminWriteResponse echoes an admin write. Dates go out as the
// YYYY-MM-DD HH:MM:SS strings the legacy dashboard parses.
type AdminWriteResponse struct {
	ID        string  `json:"IdReservation"`
	StartDate string  `json:"DateDebut"`
	EndDate   string  `json:"DateFin"`
	Amount    float64 `json:"MontantReservation"`
	Status    string  `json:"Statut"`
}
