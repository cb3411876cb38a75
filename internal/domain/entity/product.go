package entity

import (
	"github.com/shopspring/decimal"
)

// Product producto del catálogo con los datos logísticos que usa el contenedor.
// Para el producto "tipo de contenedor", Volume es la capacidad nominal.
type Product struct {
	ID           string
	Code         string
	Name         string
	UomID        string
	WeightNet    decimal.Decimal // kg por unidad
	Volume       decimal.Decimal // m3 por unidad
	ProduceDelay float64         // días de tránsito hasta llegada
	SaleDelay    float64         // días desde la salida hasta mercado
}
