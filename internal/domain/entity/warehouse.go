package entity

import "time"

// Warehouse bodega destino; InputLocationID es la ubicación de recepción.
type Warehouse struct {
	ID              string
	Name            string
	Address         string
	InputLocationID string
	StockLocationID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
