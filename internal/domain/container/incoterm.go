package container

import (
	"strings"

	"github.com/jhoicas/container-tracker/internal/domain"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

var incoterms = map[string]struct{}{
	"EXW": {}, "FCA": {}, "FAS": {}, "FOB": {}, "CFR": {}, "CIF": {}, "CPT": {}, "CIP": {},
	"DAF": {}, "DES": {}, "DEQ": {}, "DDU": {}, "DDP": {}, "DAP": {}, "DAT": {}, "DPU": {},
}

// NormalizeIncoterm valida el código y lo devuelve en mayúsculas.
func NormalizeIncoterm(containerID, code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if _, ok := incoterms[c]; !ok {
		return "", domain.NewValidationError(containerID, domain.RuleIncoterm, "incoterm desconocido: "+code)
	}
	return c, nil
}

// RequiredLocationUsage uso que debe tener la ubicación de stock del contenedor al reservar.
// La factura de proveedor exige que el contenido siga en ubicación de proveedor para todos los incoterms.
func RequiredLocationUsage(string) string {
	return entity.LocationUsageSupplier
}
