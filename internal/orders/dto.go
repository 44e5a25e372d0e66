package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/db/models"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/money"
)

// OrderDTO is the order payload returned to clients. Totals are derived on
// every read.
type OrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	Number        string            `json:"number"`
	CustomerID    uuid.UUID         `json:"customer_id"`
	Customer      *CustomerSummary  `json:"customer,omitempty"`
	Status        enums.OrderStatus `json:"status"`
	ShippingPrice *string           `json:"shipping_price,omitempty"`
	Notes         *string           `json:"notes,omitempty"`
	Items         []OrderItemDTO    `json:"items"`
	Total         string            `json:"total"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     *time.Time        `json:"deleted_at,omitempty"`
}

type CustomerSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type OrderItemDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	LineTotal   string    `json:"line_total"`
}

func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:         order.ID,
		Number:     order.Number,
		CustomerID: order.CustomerID,
		Status:     order.Status,
		Notes:      order.Notes,
		Items:      make([]OrderItemDTO, 0, len(order.Items)),
		Total:      money.Format(order.Total()),
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	if order.ShippingPrice != nil {
		formatted := money.Format(*order.ShippingPrice)
		dto.ShippingPrice = &formatted
	}
	if order.Customer != nil {
		dto.Customer = &CustomerSummary{ID: order.Customer.ID, Name: order.Customer.Name, Email: order.Customer.Email}
	}
	for _, item := range order.Items {
		line := OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: money.Format(item.UnitPrice),
			LineTotal: money.Format(item.LineTotal()),
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
		}
		dto.Items = append(dto.Items, line)
	}
	if order.DeletedAt.Valid {
		deletedAt := order.DeletedAt.Time
		dto.DeletedAt = &deletedAt
	}
	return dto
}
