package container

import (
	"github.com/jhoicas/container-tracker/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ComputeMetrics calcula peso, volumen y volumen restante a partir de los movimientos de entrada:
//
//	Weight          = Σ cantidad * peso neto del producto
//	Volume          = Σ cantidad * volumen del producto
//	RemainingVolume = volumen nominal del contenedor - Volume
//
// Productos desconocidos aportan cero.
func ComputeMetrics(containerProduct *entity.Product, incoming []*entity.Movement, products map[string]*entity.Product) entity.ContainerMetrics {
	weight, volume := decimal.Zero, decimal.Zero
	for _, m := range incoming {
		if m == nil {
			continue
		}
		p, ok := products[m.ProductID]
		if !ok || p == nil {
			continue
		}
		weight = weight.Add(m.Quantity.Mul(p.WeightNet))
		volume = volume.Add(m.Quantity.Mul(p.Volume))
	}
	capacity := decimal.Zero
	if containerProduct != nil {
		capacity = containerProduct.Volume
	}
	return entity.ContainerMetrics{
		Weight:          weight,
		Volume:          volume,
		RemainingVolume: capacity.Sub(volume),
	}
}
