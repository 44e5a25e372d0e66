package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
)

// CustomerDTO is the customer payload returned to clients.
type CustomerDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	DateOfBirth *string   `json:"date_of_birth,omitempty"`
	Address     *string   `json:"address,omitempty"`
	ZipCode     *string   `json:"zip_code,omitempty"`
	City        *string   `json:"city,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DateLayout is the wire format of DateOfBirth.
const DateLayout = "2006-01-02"

func NewCustomerDTO(customer *models.Customer) *CustomerDTO {
	dto := &CustomerDTO{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		Address:   customer.Address,
		ZipCode:   customer.ZipCode,
		City:      customer.City,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
	if customer.DateOfBirth != nil {
		formatted := customer.DateOfBirth.Format(DateLayout)
		dto.DateOfBirth = &formatted
	}
	return dto
}
