package driver

import (
	"strings"
	"time"
)

// Driver represents a driver account able to log in and work services.
type Driver struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code         string `gorm:"type:varchar(50);not null;unique" json:"code"`
	Username     string `gorm:"type:varchar(100);not null;unique" json:"username"`
	Password     string `gorm:"type:varchar(255);not null" json:"-"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	LastName     string `gorm:"type:varchar(255)" json:"last_name"`
	Email        string `gorm:"type:varchar(255)" json:"email"`
	EmailAlt     *string `gorm:"type:varchar(255)" json:"email_alt,omitempty"`
	Phone        string `gorm:"type:varchar(50)" json:"phone"`
	PhoneAlt     *string `gorm:"type:varchar(50)" json:"phone_alt,omitempty"`
	Company      string `gorm:"type:varchar(255)" json:"company"`
	LicensePlate string `gorm:"type:varchar(20)" json:"license_plate"`

	Status    string    `gorm:"type:varchar(20);not null;default:activo" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FullName joins the driver's name parts for display.
func (d Driver) FullName() string {
	return strings.TrimSpace(d.Name + " " + d.LastName)
}

// Label is the free-text identity written on every tracking update:
// driver name plus license plate.
func (d Driver) Label() string {
	return d.FullName() + " (" + d.LicensePlate + ")"
}
