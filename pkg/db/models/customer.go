package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer places orders. Deleting a customer removes their orders.
type Customer struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name        string     `gorm:"column:name;not null"`
	Email       string     `gorm:"column:email;not null"`
	Phone       *string    `gorm:"column:phone"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth;type:date"`
	Address     *string    `gorm:"column:address"`
	ZipCode     *string    `gorm:"column:zip_code"`
	City        *string    `gorm:"column:city"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Customer) TableName() string { return "customers" }
