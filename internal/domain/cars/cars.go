package cars

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Car status sentinels stored in Voiture.IdStatut.
const (
	StatusAvailable = "STAT001"
	StatusRented    = "STAT002"
)

// Car represents a vehicle row. Column and JSON names follow the legacy
// vroom_prestige schema consumed by the existing clients.
type Car struct {
	ID           int            `json:"IdVoiture" gorm:"column:IdVoiture;primaryKey;autoIncrement"`
	Model        string         `json:"Modele" gorm:"column:Modele;type:varchar(100);not null"`
	Doors        int            `json:"NbPorte" gorm:"column:NbPorte"`
	Transmission string         `json:"BoiteVitesse" gorm:"column:BoiteVitesse;type:varchar(50)"`
	Year         int            `json:"Annee" gorm:"column:Annee;not null"`
	Color        string         `json:"Couleur" gorm:"column:Couleur;type:varchar(50)"`
	Photo        string         `json:"Photo" gorm:"column:Photo;type:varchar(255)"`
	ExtraPhotos  datatypes.JSON `json:"PhotosSupplementaires" gorm:"column:PhotosSupplementaires"`
	Fuel         string         `json:"Energie" gorm:"column:Energie;type:varchar(50)"`
	Power        int            `json:"Puissance" gorm:"column:Puissance"`
	RentalPrice  float64        `json:"PrixLocation" gorm:"column:PrixLocation;type:decimal(10,2);not null"`
	Description  string         `json:"Description" gorm:"column:Description;type:text"`
	Seats        int            `json:"NbPlaces" gorm:"column:NbPlaces"`
	StatusID     string         `json:"IdStatut" gorm:"column:IdStatut;type:varchar(20);not null"`
	BrandID      int            `json:"IdMarque" gorm:"column:IdMarque;not null;index"`
	TypeID       int            `json:"IdType" gorm:"column:IdType;not null;index"`
}

// TableName overrides the table name for Car
func (Car) TableName() string {
	return "Voiture"
}

// Brand is the MarqueVoiture lookup table.
type Brand struct {
	ID   int    `json:"IdMarque" gorm:"column:IdMarque;primaryKey;autoIncrement"`
	Name string `json:"NomMarque" gorm:"column:NomMarque;type:varchar(100);not null;uniqueIndex"`
}

// TableName overrides the table name for Brand
func (Brand) TableName() string {
	return "MarqueVoiture"
}

// VehicleType is the TypeVehicule lookup table.
type VehicleType struct {
	ID   int    `json:"IdType" gorm:"column:IdType;primaryKey;autoIncrement"`
	Name string `json:"NomType" gorm:"column:NomType;type:varchar(100);not null;uniqueIndex"`
}

// TableName overrides the table name for VehicleType
func (VehicleType) TableName() string {
	return "TypeVehicule"
}

// CarRow is a car joined with its brand and type names, the shape every read
// endpoint returns.
type CarRow struct {
	Car       `gorm:"embedded"`
	BrandName string `json:"NomMarque" gorm:"column:NomMarque"`
	TypeName  string `json:"NomType" gorm:"column:NomType"`
}

// Ref accepts either a numeric id or a display name in JSON payloads; brand
// and type references arrive both ways from the clients.
type Ref string

func (r *Ref) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = Ref(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = Ref(n.String())
	return nil
}

// Request DTOs

// CreateCarRequest carries the admin car-creation payload. Brand and type may
// be ids or display names.
type CreateCarRequest struct {
	Model        string   `json:"Modele" validate:"required"`
	Doors        int      `json:"NbPorte"`
	Transmission string   `json:"BoiteVitesse"`
	Year         int      `json:"Annee" validate:"required,gt=0"`
	Color        string   `json:"Couleur"`
	Photo        string   `json:"Photo"`
	Fuel         string   `json:"Energie"`
	Power        int      `json:"Puissance"`
	RentalPrice  float64  `json:"PrixLocation" validate:"required,gt=0"`
	Description  string   `json:"Description"`
	Seats        int      `json:"NbPlaces"`
	StatusID     string   `json:"IdStatut" validate:"required"`
	Brand        Ref      `json:"IdMarque" validate:"required"`
	Type         Ref      `json:"Type" validate:"required"`
	ExtraPhotos  []string `json:"PhotosSupplementaires"`
}

// UpdateCarRequest is a partial update: nil means "not supplied".
type UpdateCarRequest struct {
	Model        *string  `json:"Modele"`
	Doors        *int     `json:"NbPorte"`
	Transmission *string  `json:"BoiteVitesse"`
	Year         *int     `json:"Annee"`
	Color        *string  `json:"Couleur"`
	Photo        *string  `json:"Photo"`
	Fuel         *string  `json:"Energie"`
	Power        *int     `json:"Puissance"`
	RentalPrice  *float64 `json:"PrixLocation"`
	Description  *string  `json:"Description"`
	Seats        *int     `json:"NbPlaces"`
	StatusID     *string  `json:"IdStatut"`
	Brand        *Ref     `json:"NomMarque"`
	Type         *Ref     `json:"Type"`
	ExtraPhotos  []string `json:"PhotosSupplementaires"`
}

// Filter narrows the public catalog listing.
type Filter struct {
	Brand  string
	Type   string
	Search string
}

// Response DTOs

// CreateCarResponse returns the store-assigned id plus the echo of the key
// fields, as the admin dashboard expects.
type CreateCarResponse struct {
	ID          int     `json:"IdVoiture"`
	Brand       string  `json:"IdMarque"`
	Model       string  `json:"Modele"`
	Year        int     `json:"Annee"`
	RentalPrice float64 `json:"PrixLocation"`
	Photo       string  `json:"Photo"`
}

// UpdateCarResult reports a partial update. NoChanges is set when every
// supplied field matched the stored row and no write was issued.
type UpdateCarResult struct {
	NoChanges    bool    `json:"no_changes"`
	AffectedRows int64   `json:"affected_rows"`
	Car          *CarRow `json:"car"`
}
