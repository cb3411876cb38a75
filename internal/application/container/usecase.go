package container

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/container-tracker/internal/application/dto"
	"github.com/jhoicas/container-tracker/internal/domain"
	rules "github.com/jhoicas/container-tracker/internal/domain/container"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
)

// UseCase casos de uso del contenedor: CRUD, fechas, enlaces de entrada y transiciones de estado.
// Toda escritura pasa por TxRunner; los eventos se publican después del Commit.
type UseCase struct {
	txRunner  TxRunner
	publisher EventPublisher
	pushDates DatePushStrategy
	log       zerolog.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso. pushDates es la estrategia que usan las transiciones.
func NewUseCase(txRunner TxRunner, publisher EventPublisher, pushDates DatePushStrategy, log zerolog.Logger) *UseCase {
	if pushDates == nil {
		pushDates = NoDatePush{}
	}
	return &UseCase{
		txRunner:  txRunner,
		publisher: publisher,
		pushDates: pushDates,
		log:       log.With().Str("component", "containers").Logger(),
		now:       time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Create crea un contenedor en borrador.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateContainerRequest) (*dto.ContainerResponse, error) {
	if strings.TrimSpace(in.Name) == "" || in.ProductID == "" || in.StockLocationID == "" || in.DestinationWarehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	incoterm, err := rules.NormalizeIncoterm("", in.IncotermCode)
	if err != nil {
		return nil, err
	}
	if err := rules.ValidateSSCC("", in.SSCC); err != nil {
		return nil, err
	}

	now := uc.now()
	c := &entity.Container{
		ID:                     uuid.New().String(),
		Name:                   strings.TrimSpace(in.Name),
		SSCC:                   in.SSCC,
		ProductID:              in.ProductID,
		IncotermCode:           incoterm,
		PartnerID:              in.PartnerID,
		AddressID:              in.AddressID,
		StockLocationID:        in.StockLocationID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		ETD:                    in.ETD,
		ETA:                    in.ETA,
		ETM:                    in.ETM,
		RDV:                    in.RDV,
		State:                  entity.StateDraft,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	var resp *dto.ContainerResponse
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		if err := checkReferences(ctx, r, c); err != nil {
			return err
		}
		if err := r.Containers.Create(ctx, c); err != nil {
			return err
		}
		resp, err = buildResponse(ctx, r, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("container_id", c.ID).Msg("contenedor creado")
	return resp, nil
}

// Get devuelve el contenedor con sus métricas. (nil, nil) si no existe.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.ContainerResponse, error) {
	var resp *dto.ContainerResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		c, err := r.Containers.GetByID(ctx, id)
		if err != nil || c == nil {
			return err
		}
		resp, err = buildResponse(ctx, r, c)
		return err
	})
	return resp, err
}

// List lista contenedores, opcionalmente filtrados por estado.
func (uc *UseCase) List(ctx context.Context, state string, page dto.PageRequest) (*dto.ContainerListResponse, error) {
	page.DefaultPage()
	st := entity.ContainerState(state)
	if state != "" && !st.Valid() {
		return nil, domain.ErrInvalidInput
	}
	out := &dto.ContainerListResponse{Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		list, err := r.Containers.List(ctx, st, page.Limit, page.Offset)
		if err != nil {
			return err
		}
		out.Items = make([]dto.ContainerResponse, 0, len(list))
		for _, c := range list {
			resp, err := buildResponse(ctx, r, c)
			if err != nil {
				return err
			}
			out.Items = append(out.Items, *resp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update aplica una escritura parcial respetando qué campos son editables en el estado actual.
// Las fechas se resuelven explícito > almacenado > derivado de las salidas; push decide si se propagan.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateContainerRequest, push DatePushStrategy) (*dto.ContainerResponse, error) {
	if push == nil {
		push = uc.pushDates
	}
	var resp *dto.ContainerResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		c, err := r.Containers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if err := applyPatch(c, in); err != nil {
			return err
		}
		if err := checkReferences(ctx, r, c); err != nil {
			return err
		}

		outgoing, err := r.Ledger.Read(ctx, c.OutgoingMoveIDs)
		if err != nil {
			return err
		}
		product, err := r.Products.GetByID(ctx, c.ProductID)
		if err != nil {
			return err
		}
		explicit := rules.Dates{ETD: in.ETD, ETA: in.ETA, ETM: in.ETM, RDV: in.RDV}
		dates := rules.ResolveDates(explicit, rules.DatesOf(c), rules.DeriveDates(outgoing, product))
		c.ETD, c.ETA, c.ETM, c.RDV = dates.ETD, dates.ETA, dates.ETM, dates.RDV
		c.UpdatedAt = uc.now()

		if err := r.Containers.Update(ctx, c); err != nil {
			return err
		}
		if err := push.Push(ctx, r, c); err != nil {
			return err
		}
		resp, err = buildResponse(ctx, r, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete elimina contenedores. Solo se permite en borrador; el lote es todo o nada.
func (uc *UseCase) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return domain.ErrInvalidInput
	}
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		for _, id := range ids {
			c, err := r.Containers.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("contenedor %s: %w", id, domain.ErrNotFound)
			}
			if c.State != entity.StateDraft {
				return domain.NewValidationError(c.ID, domain.RuleNotDraft, "solo se pueden eliminar contenedores en borrador")
			}
			if err := r.Containers.Delete(ctx, c.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Strs("container_ids", ids).Msg("contenedores eliminados")
	return nil
}

// Copy crea un borrador nuevo con los datos del contenedor, sin movimientos, fechas ni SSCC.
func (uc *UseCase) Copy(ctx context.Context, id string) (*dto.ContainerResponse, error) {
	var resp *dto.ContainerResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		src, err := r.Containers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if src == nil {
			return domain.ErrNotFound
		}
		now := uc.now()
		c := &entity.Container{
			ID:                     uuid.New().String(),
			Name:                   src.Name + " (copia)",
			ProductID:              src.ProductID,
			IncotermCode:           src.IncotermCode,
			PartnerID:              src.PartnerID,
			AddressID:              src.AddressID,
			StockLocationID:        src.StockLocationID,
			DestinationWarehouseID: src.DestinationWarehouseID,
			State:                  entity.StateDraft,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		if err := r.Containers.Create(ctx, c); err != nil {
			return err
		}
		resp, err = buildResponse(ctx, r, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetDerivedDates calcula las fechas desde los movimientos de salida sin escribir nada.
func (uc *UseCase) GetDerivedDates(ctx context.Context, id string) (*dto.DerivedDatesResponse, error) {
	var out *dto.DerivedDatesResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		c, err := r.Containers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		outgoing, err := r.Ledger.Read(ctx, c.OutgoingMoveIDs)
		if err != nil {
			return err
		}
		product, err := r.Products.GetByID(ctx, c.ProductID)
		if err != nil {
			return err
		}
		d := rules.DeriveDates(outgoing, product)
		out = &dto.DerivedDatesResponse{ETD: d.ETD, ETA: d.ETA, ETM: d.ETM, RDV: d.RDV}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func applyPatch(c *entity.Container, in dto.UpdateContainerRequest) error {
	lock := func(field string) error {
		if rules.FieldEditable(field, c.State) {
			return nil
		}
		return domain.NewValidationError(c.ID, domain.RuleFieldLocked,
			fmt.Sprintf("el campo %s no se puede modificar en estado %s", field, c.State))
	}
	setString := func(field string, dst *string, v *string) error {
		if v == nil || *v == *dst {
			return nil
		}
		if err := lock(field); err != nil {
			return err
		}
		*dst = *v
		return nil
	}
	setTime := func(field string, dst **time.Time, v *time.Time) error {
		if v == nil {
			return nil
		}
		if *dst != nil && (*dst).Equal(*v) {
			return nil
		}
		return lock(field)
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return domain.ErrInvalidInput
	}
	if in.IncotermCode != nil {
		code, err := rules.NormalizeIncoterm(c.ID, *in.IncotermCode)
		if err != nil {
			return err
		}
		in.IncotermCode = &code
	}
	if in.SSCC != nil {
		if err := rules.ValidateSSCC(c.ID, *in.SSCC); err != nil {
			return err
		}
	}
	steps := []error{
		setString(rules.FieldName, &c.Name, in.Name),
		setString(rules.FieldSSCC, &c.SSCC, in.SSCC),
		setString(rules.FieldProduct, &c.ProductID, in.ProductID),
		setString(rules.FieldIncoterm, &c.IncotermCode, in.IncotermCode),
		setString(rules.FieldPartner, &c.PartnerID, in.PartnerID),
		setString(rules.FieldAddress, &c.AddressID, in.AddressID),
		setString(rules.FieldStockLocation, &c.StockLocationID, in.StockLocationID),
		setString(rules.FieldDestinationWarehouse, &c.DestinationWarehouseID, in.DestinationWarehouseID),
		setTime(rules.FieldETD, &c.ETD, in.ETD),
		setTime(rules.FieldETA, &c.ETA, in.ETA),
		setTime(rules.FieldETM, &c.ETM, in.ETM),
		setTime(rules.FieldRDV, &c.RDV, in.RDV),
	}
	for _, err := range steps {
		if err != nil {
			return err
		}
	}
	return nil
}

// checkReferences valida que producto, ubicación y bodega de destino existan.
func checkReferences(ctx context.Context, r Repos, c *entity.Container) error {
	p, err := r.Products.GetByID(ctx, c.ProductID)
	if err != nil {
		return err
	}
	loc, err := r.Locations.GetByID(ctx, c.StockLocationID)
	if err != nil {
		return err
	}
	wh, err := r.Warehouses.GetByID(ctx, c.DestinationWarehouseID)
	if err != nil {
		return err
	}
	if p == nil || loc == nil || wh == nil {
		return domain.ErrNotFound
	}
	return nil
}

func buildResponse(ctx context.Context, r Repos, c *entity.Container) (*dto.ContainerResponse, error) {
	product, err := r.Products.GetByID(ctx, c.ProductID)
	if err != nil {
		return nil, err
	}
	incoming, err := r.Ledger.Read(ctx, c.IncomingMoveIDs)
	if err != nil {
		return nil, err
	}
	products, err := r.Products.GetByIDs(ctx, productIDs(incoming))
	if err != nil {
		return nil, err
	}
	m := rules.ComputeMetrics(product, incoming, products)
	return &dto.ContainerResponse{
		ID:                     c.ID,
		Name:                   c.Name,
		State:                  string(c.State),
		SSCC:                   c.SSCC,
		ProductID:              c.ProductID,
		IncotermCode:           c.IncotermCode,
		PartnerID:              c.PartnerID,
		AddressID:              c.AddressID,
		StockLocationID:        c.StockLocationID,
		DestinationWarehouseID: c.DestinationWarehouseID,
		ETD:                    c.ETD,
		ETA:                    c.ETA,
		ETM:                    c.ETM,
		RDV:                    c.RDV,
		IncomingMoveIDs:        append([]string{}, c.IncomingMoveIDs...),
		OutgoingMoveIDs:        append([]string{}, c.OutgoingMoveIDs...),
		Weight:                 m.Weight,
		Volume:                 m.Volume,
		RemainingVolume:        m.RemainingVolume,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
	}, nil
}

func productIDs(moves ...[]*entity.Movement) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, list := range moves {
		for _, m := range list {
			if m == nil {
				continue
			}
			if _, ok := seen[m.ProductID]; ok {
				continue
			}
			seen[m.ProductID] = struct{}{}
			ids = append(ids, m.ProductID)
		}
	}
	return ids
}
