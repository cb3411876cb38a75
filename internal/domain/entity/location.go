package entity

// Usos de ubicación de stock.
const (
	LocationUsageSupplier = "supplier"
	LocationUsageInternal = "internal"
	LocationUsageCustomer = "customer"
	LocationUsageTransit  = "transit"
)

// Location ubicación de stock.
type Location struct {
	ID    string
	Name  string
	Usage string
}
