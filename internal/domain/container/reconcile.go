package container

import (
	"sort"

	"github.com/jhoicas/container-tracker/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Quantities cantidad agregada por producto (productID → cantidad).
type Quantities map[string]decimal.Decimal

// Products devuelve los IDs de producto ordenados, para iterar de forma determinista.
func (q Quantities) Products() []string {
	ids := make([]string, 0, len(q))
	for id := range q {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AggregateByProduct suma las cantidades por producto. Los movimientos cancelados no cuentan.
func AggregateByProduct(moves []*entity.Movement) Quantities {
	out := make(Quantities)
	for _, m := range moves {
		if m == nil || m.State == entity.MoveCancel {
			continue
		}
		out[m.ProductID] = out[m.ProductID].Add(m.Quantity)
	}
	return out
}

// Shortfall responde, por cada producto de expected, cuánto de lo esperado no está cubierto por actual:
//
//	shortfall(p) = min(max(0, expected[p] - actual[p]), expected[p])
//
// Solo se devuelven valores estrictamente positivos; los productos que solo están en actual se ignoran.
// No es simétrica: Shortfall(a, b) y Shortfall(b, a) responden preguntas distintas.
func Shortfall(expected, actual Quantities) Quantities {
	out := make(Quantities)
	for productID, qty := range expected {
		diff := decimal.Max(decimal.Zero, qty.Sub(actual[productID]))
		diff = decimal.Min(diff, qty)
		if diff.GreaterThan(decimal.Zero) {
			out[productID] = diff
		}
	}
	return out
}
