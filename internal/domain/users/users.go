package users

import "time"

// User is an account row. Column and JSON names follow the legacy
// vroom_prestige schema consumed by the existing clients.
type User struct {
	ID           string    `json:"IdUser" gorm:"column:IdUser;primaryKey;type:varchar(40)"`
	Name         string    `json:"Nom" gorm:"column:Nom;type:varchar(100)"`
	Surname      string    `json:"Prenom" gorm:"column:Prenom;type:varchar(100)"`
	Email        string    `json:"Email" gorm:"column:Email;type:varchar(255);not null;uniqueIndex"`
	Password     string    `json:"-" gorm:"column:MotDePasse;type:varchar(255);not null"`
	Phone        string    `json:"Tel" gorm:"column:Tel;type:varchar(30)"`
	Address      string    `json:"Adresse" gorm:"column:Adresse;type:varchar(255)"`
	Photo        string    `json:"PhotoProfil" gorm:"column:PhotoProfil;type:varchar(255)"`
	Role         string    `json:"Role" gorm:"column:Role;type:varchar(20);not null"`
	RegisteredAt time.Time `json:"DateInscription" gorm:"column:DateInscription;autoCreateTime"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "Users"
}

// Summary is the column subset the admin dashboard lists.
type Summary struct {
	ID           string    `json:"IdUser" gorm:"column:IdUser"`
	Name         string    `json:"Nom" gorm:"column:Nom"`
	Surname      string    `json:"Prenom" gorm:"column:Prenom"`
	Email        string    `json:"Email" gorm:"column:Email"`
	Phone        string    `json:"Tel" gorm:"column:Tel"`
	Role         string    `json:"Role" gorm:"column:Role"`
	RegisteredAt time.Time `json:"DateInscription" gorm:"column:DateInscription"`
}

// Request DTOs

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"nom" validate:"required"`
	Surname  string `json:"prenom" validate:"required"`
	Phone    string `json:"tel"`
	Address  string `json:"adresse"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateRequest is the self-service profile update; email and role
// cannot be changed through this path.
type ProfileUpdateRequest struct {
	Name    string `json:"nom"`
	Surname string `json:"prenom"`
	Phone   string `json:"tel"`
	Address string `json:"adresse"`
}

// AdminCreateRequest creates an account from the admin dashboard.
type AdminCreateRequest struct {
	Name     string `json:"Nom" validate:"required"`
	Surname  string `json:"Prenom" validate:"required"`
	Email    string `json:"Email" validate:"required,email"`
	Phone    string `json:"Tel"`
	Password string `json:"MotDePasse" validate:"required,min=6"`
	Role     string `json:"Role"`
}

// AdminUpdateRequest is a partial account update; empty fields are skipped.
type AdminUpdateRequest struct {
	Name     string `json:"Nom"`
	Surname  string `json:"Prenom"`
	Email    string `json:"Email"`
	Phone    string `json:"Tel"`
	Password string `json:"MotDePasse"`
	Role     string `json:"Role"`
}

// Response DTOs

type AdminCreateResponse struct {
	ID      string `json:"IdUser"`
	Name    string `json:"Nom"`
	Surname string `json:"Prenom"`
	Email   string `json:"Email"`
	Role    string `json:"Role"`
}
