package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velora-labs/velora-backend/pkg/enums"
)

// User is a storefront account. PasswordHash holds an argon2id digest
// and is never serialized.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string         `gorm:"column:name;not null"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Phone        *string        `gorm:"column:phone"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'USER'"`
	Addresses    []Address      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// Address is a shipping destination owned by a user.
type Address struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	FirstName   string    `gorm:"column:first_name;not null"`
	LastName    string    `gorm:"column:last_name;not null"`
	Street      string    `gorm:"column:street;not null"`
	AptNumber   *string   `gorm:"column:apt_number"`
	City        string    `gorm:"column:city;not null"`
	State       string    `gorm:"column:state;not null"`
	Country     string    `gorm:"column:country;not null"`
	ZipCode     string    `gorm:"column:zip_code;not null"`
	PhoneNumber string    `gorm:"column:phone_number;not null"`
	Default     bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
