package container

import (
	"time"

	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

// Dates las cuatro fechas hito del contenedor. nil = sin valor.
type Dates struct {
	ETD *time.Time
	ETA *time.Time
	ETM *time.Time
	RDV *time.Time
}

// IsEmpty indica si no hay ninguna fecha.
func (d Dates) IsEmpty() bool {
	return d.ETD == nil && d.ETA == nil && d.ETM == nil && d.RDV == nil
}

// Equal compara las cuatro fechas (nil solo es igual a nil).
func (d Dates) Equal(o Dates) bool {
	return sameTime(d.ETD, o.ETD) && sameTime(d.ETA, o.ETA) &&
		sameTime(d.ETM, o.ETM) && sameTime(d.RDV, o.RDV)
}

// DatesOf devuelve las fechas almacenadas en el contenedor.
func DatesOf(c *entity.Container) Dates {
	return Dates{ETD: c.ETD, ETA: c.ETA, ETM: c.ETM, RDV: c.RDV}
}

// DeriveDates calcula las fechas hito desde los movimientos enlazados:
//
//	ETM = max(fecha de los movimientos)
//	ETA = ETM - produce_delay días
//	ETD = ETM - sale_delay días
//	RDV = ETM (fecha y hora)
//
// Los movimientos sin fecha se excluyen. Sin movimientos con fecha el resultado es vacío.
// ETD, ETA y ETM se truncan al día; RDV conserva la hora.
func DeriveDates(moves []*entity.Movement, product *entity.Product) Dates {
	var latest *time.Time
	for _, m := range moves {
		if m == nil || m.Date == nil || m.Date.IsZero() {
			continue
		}
		if latest == nil || m.Date.After(*latest) {
			d := *m.Date
			latest = &d
		}
	}
	if latest == nil {
		return Dates{}
	}

	var produceDelay, saleDelay float64
	if product != nil {
		produceDelay = product.ProduceDelay
		saleDelay = product.SaleDelay
	}
	etm := DateOnly(*latest)
	eta := DateOnly(latest.Add(-days(produceDelay)))
	etd := DateOnly(latest.Add(-days(saleDelay)))
	rdv := *latest
	return Dates{ETD: &etd, ETA: &eta, ETM: &etm, RDV: &rdv}
}

// ResolveDates aplica la política de prioridad campo a campo: explícito > almacenado > derivado.
func ResolveDates(explicit, stored, derived Dates) Dates {
	return Dates{
		ETD: firstTime(explicit.ETD, stored.ETD, derived.ETD),
		ETA: firstTime(explicit.ETA, stored.ETA, derived.ETA),
		ETM: firstTime(explicit.ETM, stored.ETM, derived.ETM),
		RDV: firstTime(explicit.RDV, stored.RDV, derived.RDV),
	}
}

// DateOnly trunca t a medianoche en su propia zona horaria.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func days(n float64) time.Duration {
	return time.Duration(n * float64(24*time.Hour))
}

func firstTime(ts ...*time.Time) *time.Time {
	for _, t := range ts {
		if t != nil {
			v := *t
			return &v
		}
	}
	return nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
