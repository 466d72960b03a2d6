package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse producto del catálogo vigente.
type ProductResponse struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku,omitempty"`
	Description    string          `json:"description,omitempty"`
	Price          decimal.Decimal `json:"price"`
	PricePerDay    decimal.Decimal `json:"price_per_day"`
	Stock          int             `json:"stock"`
	StockAvailable int             `json:"stock_available"`
	ProductType    string          `json:"product_type"`
}

// ClientResponse cliente del catálogo vigente.
type ClientResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Document string `json:"document,omitempty"`
}

// ProductListResponse lista de productos con la hora del último refresco.
type ProductListResponse struct {
	Items     []ProductResponse `json:"items"`
	FetchedAt *time.Time        `json:"fetched_at,omitempty"`
}

// ClientListResponse lista de clientes con la hora del último refresco.
type ClientListResponse struct {
	Items     []ClientResponse `json:"items"`
	FetchedAt *time.Time       `json:"fetched_at,omitempty"`
}
