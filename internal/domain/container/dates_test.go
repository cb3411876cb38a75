package container_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/container-tracker/internal/domain/container"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

func at(s string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestDeriveDates_SinMovimientos_NoDerivaNada(t *testing.T) {
	d := container.DeriveDates(nil, &entity.Product{ProduceDelay: 3})
	assert.True(t, d.IsEmpty())
}

func TestDeriveDates_UsaLaFechaMasReciente(t *testing.T) {
	moves := []*entity.Movement{
		{ID: "m1", Date: at("2026-03-01 08:00:00")},
		{ID: "m2", Date: at("2026-03-10 14:30:00")},
		{ID: "m3", Date: at("2026-03-05 23:59:59")},
	}
	product := &entity.Product{ProduceDelay: 2, SaleDelay: 7}

	d := container.DeriveDates(moves, product)
	require.False(t, d.IsEmpty())

	assert.Equal(t, *at("2026-03-10 00:00:00"), *d.ETM)
	assert.Equal(t, *at("2026-03-08 00:00:00"), *d.ETA, "ETA = ETM - produce_delay")
	assert.Equal(t, *at("2026-03-03 00:00:00"), *d.ETD, "ETD = ETM - sale_delay")
	assert.Equal(t, *at("2026-03-10 14:30:00"), *d.RDV, "RDV conserva la hora")
}

func TestDeriveDates_IgnoraMovimientosSinFecha(t *testing.T) {
	moves := []*entity.Movement{
		{ID: "m1", Date: nil},
		{ID: "m2", Date: at("2026-01-15 10:00:00")},
		{ID: "m3", Date: &time.Time{}},
	}
	d := container.DeriveDates(moves, nil)
	require.NotNil(t, d.ETM)
	assert.Equal(t, *at("2026-01-15 00:00:00"), *d.ETM)
	assert.Equal(t, *d.ETM, *d.ETA, "sin producto los plazos son cero")
}

func TestDeriveDates_SoloMovimientosSinFecha_NoDerivaNada(t *testing.T) {
	d := container.DeriveDates([]*entity.Movement{{ID: "m1"}}, nil)
	assert.True(t, d.IsEmpty())
}

func TestDeriveDates_PlazosNoNegativos_ETAyETDNoSuperanETM(t *testing.T) {
	moves := []*entity.Movement{{ID: "m1", Date: at("2026-05-20 06:00:00")}}
	for _, delays := range [][2]float64{{0, 0}, {0.5, 1.5}, {10, 3}, {30, 30}} {
		d := container.DeriveDates(moves, &entity.Product{ProduceDelay: delays[0], SaleDelay: delays[1]})
		assert.False(t, d.ETA.After(*d.ETM), "ETA <= ETM con plazos %v", delays)
		assert.False(t, d.ETD.After(*d.ETM), "ETD <= ETM con plazos %v", delays)
	}
}

func TestDeriveDates_EsDeterminista(t *testing.T) {
	moves := []*entity.Movement{
		{ID: "m1", Date: at("2026-02-01 00:00:00")},
		{ID: "m2", Date: at("2026-02-03 12:00:00")},
	}
	p := &entity.Product{ProduceDelay: 1, SaleDelay: 2}
	assert.True(t, container.DeriveDates(moves, p).Equal(container.DeriveDates(moves, p)))
}

func TestResolveDates_ExplicitoGanaAlmacenadoYDerivado(t *testing.T) {
	explicit := container.Dates{ETD: at("2026-01-01 00:00:00")}
	stored := container.Dates{ETD: at("2026-02-01 00:00:00"), ETA: at("2026-02-02 00:00:00")}
	derived := container.Dates{
		ETD: at("2026-03-01 00:00:00"), ETA: at("2026-03-02 00:00:00"),
		ETM: at("2026-03-03 00:00:00"), RDV: at("2026-03-03 09:00:00"),
	}

	r := container.ResolveDates(explicit, stored, derived)
	assert.Equal(t, *explicit.ETD, *r.ETD)
	assert.Equal(t, *stored.ETA, *r.ETA)
	assert.Equal(t, *derived.ETM, *r.ETM)
	assert.Equal(t, *derived.RDV, *r.RDV)
}

func TestResolveDates_SinDerivadas_ConservaValoresPrevios(t *testing.T) {
	stored := container.Dates{ETM: at("2026-04-04 00:00:00")}
	r := container.ResolveDates(container.Dates{}, stored, container.Dates{})
	assert.True(t, r.Equal(stored))
}
