package container_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/container-tracker/internal/domain/container"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

func TestComputeMetrics_PesoVolumenYRestante(t *testing.T) {
	box := &entity.Product{ID: "c40", Volume: decimal.NewFromInt(67)}
	products := map[string]*entity.Product{
		"X": {ID: "X", WeightNet: decimal.RequireFromString("2.5"), Volume: decimal.RequireFromString("0.5")},
		"Y": {ID: "Y", WeightNet: decimal.NewFromInt(10), Volume: decimal.NewFromInt(1)},
	}
	incoming := []*entity.Movement{
		{ProductID: "X", Quantity: qty(100)},
		{ProductID: "Y", Quantity: qty(12)},
		{ProductID: "desconocido", Quantity: qty(1000)},
	}

	m := container.ComputeMetrics(box, incoming, products)
	assert.True(t, decimal.NewFromInt(370).Equal(m.Weight), "100*2.5 + 12*10")
	assert.True(t, decimal.NewFromInt(62).Equal(m.Volume), "100*0.5 + 12*1")
	assert.True(t, decimal.NewFromInt(5).Equal(m.RemainingVolume))
}

func TestComputeMetrics_SobreCargado_RestanteNegativo(t *testing.T) {
	box := &entity.Product{Volume: decimal.NewFromInt(10)}
	products := map[string]*entity.Product{"X": {Volume: decimal.NewFromInt(1)}}
	m := container.ComputeMetrics(box, []*entity.Movement{{ProductID: "X", Quantity: qty(15)}}, products)
	assert.True(t, decimal.NewFromInt(-5).Equal(m.RemainingVolume))
}

func TestValidateSSCC(t *testing.T) {
	assert.NoError(t, container.ValidateSSCC("c1", ""))
	assert.NoError(t, container.ValidateSSCC("c1", "123456789012345678"))
	assert.Error(t, container.ValidateSSCC("c1", "12345678901234567"))
	assert.Error(t, container.ValidateSSCC("c1", "12345678901234567A"))
}

func TestNormalizeIncoterm(t *testing.T) {
	code, err := container.NormalizeIncoterm("c1", " fob ")
	assert.NoError(t, err)
	assert.Equal(t, "FOB", code)

	_, err = container.NormalizeIncoterm("c1", "XYZ")
	assert.Error(t, err)
}
