package container

import (
	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

// Campos editables del contenedor.
const (
	FieldName                 = "name"
	FieldSSCC                 = "sscc"
	FieldProduct              = "product_id"
	FieldIncoterm             = "incoterm"
	FieldPartner              = "partner_id"
	FieldAddress              = "address_id"
	FieldStockLocation        = "stock_location_id"
	FieldDestinationWarehouse = "destination_warehouse_id"
	FieldETD                  = "etd"
	FieldETA                  = "eta"
	FieldETM                  = "etm"
	FieldRDV                  = "rdv"
)

var editableIn = map[string][]entity.ContainerState{
	FieldProduct:       {entity.StateDraft},
	FieldStockLocation: {entity.StateDraft},
	FieldPartner:       {entity.StateDraft, entity.StateBooking},
	FieldAddress:       {entity.StateDraft, entity.StateBooking},
	FieldSSCC:          {entity.StateDraft, entity.StateBooking},
	FieldETD:           {entity.StateDraft, entity.StateBooking},
	FieldETA:           {entity.StateBooking, entity.StateFreight},
	FieldETM:           {entity.StateBooking, entity.StateFreight, entity.StateClearance, entity.StateApproaching},
	FieldRDV:           {entity.StateApproaching},
}

// FieldEditable indica si el campo puede modificarse en el estado s.
// En estados terminales nada es editable; los campos sin regla propia lo son en cualquier otro estado.
func FieldEditable(field string, s entity.ContainerState) bool {
	if s.IsTerminal() {
		return false
	}
	states, ok := editableIn[field]
	if !ok {
		return true
	}
	for _, st := range states {
		if st == s {
			return true
		}
	}
	return false
}
