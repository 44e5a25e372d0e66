package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"
)

// Order is the aggregate root for a customer purchase. Number is assigned
// once at creation and never rewritten.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID    uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	Customer      *Customer         `gorm:"foreignKey:CustomerID"`
	Number        string            `gorm:"column:number;not null;<-:create"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	ShippingPrice *decimal.Decimal  `gorm:"column:shipping_price;type:numeric(10,2)"`
	Notes         *string           `gorm:"column:notes"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt    `gorm:"column:deleted_at;index"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is a line of an order. UnitPrice is copied from the product when
// the line is written and is never re-derived.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (OrderItem) TableName() string { return "order_items" }

// LineTotal is quantity times the snapshot unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums line totals and the shipping price. A missing shipping price
// counts as zero.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	if o.ShippingPrice != nil {
		total = total.Add(*o.ShippingPrice)
	}
	return total
}
