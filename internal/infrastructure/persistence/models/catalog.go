package models

import (
	"github.com/shopspring/decimal"

	"github.com/oms/backend/internal/domain/order"
)

// ProductModel is the persistence model for catalog products
type ProductModel struct {
	BaseModel
	Name        string          `gorm:"type:varchar(255);not null"`
	SKU         string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Placeholder bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *order.Product {
	return &order.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		SKU:         m.SKU,
		Price:       m.Price,
		Placeholder: m.Placeholder,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *order.Product) {
	m.BaseModel.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.SKU = p.SKU
	m.Price = p.Price
	m.Placeholder = p.Placeholder
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *order.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
