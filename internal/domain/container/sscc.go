package container

import (
	"github.com/jhoicas/container-tracker/internal/domain"
)

// SSCCLength longitud del Serial Shipping Container Code.
const SSCCLength = 18

// ValidateSSCC verifica que el código tenga 18 caracteres numéricos. Vacío es válido (opcional hasta booking).
func ValidateSSCC(containerID, sscc string) error {
	if sscc == "" {
		return nil
	}
	if len(sscc) != SSCCLength {
		return domain.NewValidationError(containerID, domain.RuleSSCCFormat, "el SSCC debe tener 18 dígitos")
	}
	for _, r := range sscc {
		if r < '0' || r > '9' {
			return domain.NewValidationError(containerID, domain.RuleSSCCFormat, "el SSCC solo admite dígitos")
		}
	}
	return nil
}
