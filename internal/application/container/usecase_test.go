package container_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/container-tracker/internal/application/container"
	"github.com/jhoicas/container-tracker/internal/application/dto"
	"github.com/jhoicas/container-tracker/internal/domain"
	"github.com/jhoicas/container-tracker/internal/domain/entity"
	"github.com/jhoicas/container-tracker/internal/infrastructure/memory"
)

var now = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

const validSSCC = "340123450000000018"

type fakePublisher struct {
	events []container.TransitionEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, key string, value interface{}) error {
	if p.err != nil {
		return p.err
	}
	evt := value.(container.TransitionEvent)
	if key != evt.ContainerID {
		return errors.New("clave distinta del contenedor")
	}
	p.events = append(p.events, evt)
	return nil
}

type fixture struct {
	store *memory.Store
	pub   *fakePublisher
	uc    *container.UseCase
}

// newFixture catálogo base: contenedor de 67 m3, producto X de 0.1 m3 y 2 kg,
// ubicación de proveedor, bodega destino y un movimiento de entrada de 100 X.
func newFixture(t *testing.T, push container.DatePushStrategy) *fixture {
	t.Helper()
	s := memory.NewStore()
	s.AddProduct(entity.Product{ID: "box", Name: "Contenedor 40'", Volume: decimal.NewFromInt(67), ProduceDelay: 2, SaleDelay: 5})
	s.AddProduct(entity.Product{ID: "px", Name: "X", UomID: "unit", WeightNet: decimal.NewFromInt(2), Volume: decimal.RequireFromString("0.1")})
	s.AddLocation(entity.Location{ID: "loc-sup", Name: "Proveedor", Usage: entity.LocationUsageSupplier})
	s.AddLocation(entity.Location{ID: "loc-int", Name: "Interna", Usage: entity.LocationUsageInternal})
	s.AddWarehouse(entity.Warehouse{ID: "wh", Name: "Bodega", InputLocationID: "wh-in", StockLocationID: "wh-stock"})
	s.AddShipment(entity.Shipment{ID: "s1", Kind: entity.ShipmentKindIn, State: entity.ShipmentAssigned})
	s.AddShipment(entity.Shipment{ID: "sout", Kind: entity.ShipmentKindOut, State: entity.ShipmentAssigned})
	d := now.AddDate(0, 0, -2)
	s.AddMovement(entity.Movement{ID: "in1", ProductID: "px", Quantity: decimal.NewFromInt(100), ShipmentID: "s1",
		LocationID: "vendor", LocationDestID: "wh-in", State: entity.MoveConfirmed, Date: &d})

	pub := &fakePublisher{}
	uc := container.NewUseCase(s, pub, push, zerolog.Nop()).WithClock(func() time.Time { return now })
	return &fixture{store: s, pub: pub, uc: uc}
}

func (f *fixture) createLinked(t *testing.T, stockLocation string) string {
	t.Helper()
	ctx := context.Background()
	c, err := f.uc.Create(ctx, dto.CreateContainerRequest{
		Name:                   "CONT-001",
		SSCC:                   validSSCC,
		ProductID:              "box",
		IncotermCode:           "fob",
		PartnerID:              "carrier",
		AddressID:              "pickup",
		StockLocationID:        stockLocation,
		DestinationWarehouseID: "wh",
	})
	require.NoError(t, err)
	_, err = f.uc.LinkIncoming(ctx, c.ID, dto.LinkIncomingRequest{
		Operations: []dto.LinkOperation{{Op: "add", MoveIDs: []string{"in1"}}},
	})
	require.NoError(t, err)
	return c.ID
}

func (f *fixture) outgoing(t *testing.T, id string) []*entity.Movement {
	t.Helper()
	c := f.store.Container(id)
	require.NotNil(t, c)
	out := make([]*entity.Movement, 0, len(c.OutgoingMoveIDs))
	for _, mid := range c.OutgoingMoveIDs {
		m := f.store.Movement(mid)
		require.NotNil(t, m)
		out = append(out, m)
	}
	return out
}

func (f *fixture) advanceToUnpacking(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.uc.Clearance(ctx, []string{id})
	require.NoError(t, err)
	_, err = f.uc.Approach(ctx, []string{id})
	require.NoError(t, err)
	rdv := now.Add(24 * time.Hour)
	_, err = f.uc.Update(ctx, id, dto.UpdateContainerRequest{RDV: &rdv}, nil)
	require.NoError(t, err)
	_, err = f.uc.Unpack(ctx, []string{id})
	require.NoError(t, err)
}

func requireRule(t *testing.T, err error, rule string) {
	t.Helper()
	ve, ok := domain.AsValidation(err)
	require.True(t, ok, "se esperaba ValidationError, got %v", err)
	assert.Equal(t, rule, ve.Rule)
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD
// ─────────────────────────────────────────────────────────────────────────────

func TestCreate_BorradorConMetricas(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	id := f.createLinked(t, "loc-sup")

	got, err := f.uc.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "draft", got.State)
	assert.Equal(t, "FOB", got.IncotermCode)
	assert.True(t, got.Weight.Equal(decimal.NewFromInt(200)))
	assert.True(t, got.Volume.Equal(decimal.NewFromInt(10)))
	assert.True(t, got.RemainingVolume.Equal(decimal.NewFromInt(57)))
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	ctx := context.Background()
	base := dto.CreateContainerRequest{Name: "C", ProductID: "box", IncotermCode: "EXW", StockLocationID: "loc-sup", DestinationWarehouseID: "wh"}

	bad := base
	bad.IncotermCode = "XYZ"
	_, err := f.uc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad = base
	bad.SSCC = "123"
	_, err = f.uc.Create(ctx, bad)
	requireRule(t, err, domain.RuleSSCCFormat)

	bad = base
	bad.StockLocationID = "nope"
	_, err = f.uc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bad = base
	bad.Name = "  "
	_, err = f.uc.Create(ctx, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet_NoExiste(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	got, err := f.uc.Get(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestDelete_SoloBorrador(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	ctx := context.Background()
	draft := f.createLinked(t, "loc-sup")
	f.store.AddContainer(entity.Container{ID: "booked", State: entity.StateBooking})

	err := f.uc.Delete(ctx, []string{draft, "booked"})
	assert.ErrorIs(t, err, domain.ErrNotDraft)
	assert.NotNil(t, f.store.Container(draft), "el lote es atómico")

	require.NoError(t, f.uc.Delete(ctx, []string{draft}))
	assert.Nil(t, f.store.Container(draft))
}

func TestCopy_SinMovimientosNiSSCC(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	id := f.createLinked(t, "loc-sup")

	cp, err := f.uc.Copy(context.Background(), id)
	require.NoError(t, err)
	assert.NotEqual(t, id, cp.ID)
	assert.Equal(t, "draft", cp.State)
	assert.Empty(t, cp.SSCC)
	assert.Empty(t, cp.IncomingMoveIDs)
	assert.Equal(t, "box", cp.ProductID)
}

func TestUpdate_CampoBloqueadoPorEstado(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	ctx := context.Background()
	id := f.createLinked(t, "loc-sup")
	_, err := f.uc.Book(ctx, []string{id})
	require.NoError(t, err)

	other := "loc-int"
	_, err = f.uc.Update(ctx, id, dto.UpdateContainerRequest{StockLocationID: &other}, nil)
	requireRule(t, err, domain.RuleFieldLocked)

	name := "CONT-001-B"
	got, err := f.uc.Update(ctx, id, dto.UpdateContainerRequest{Name: &name}, nil)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
}

// ─────────────────────────────────────────────────────────────────────────────
// Movimientos de entrada
// ─────────────────────────────────────────────────────────────────────────────

func TestLinkIncoming_MovimientoDeOtroContenedor(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	f.createLinked(t, "loc-sup")
	second, err := f.uc.Create(context.Background(), dto.CreateContainerRequest{
		Name: "CONT-002", ProductID: "box", IncotermCode: "EXW", StockLocationID: "loc-sup", DestinationWarehouseID: "wh",
	})
	require.NoError(t, err)

	_, err = f.uc.LinkIncoming(context.Background(), second.ID, dto.LinkIncomingRequest{
		Operations: []dto.LinkOperation{{Op: "add", MoveIDs: []string{"in1"}}},
	})
	requireRule(t, err, domain.RuleMoveNotEligible)
}

func TestLinkIncoming_AlbaranDeSalidaNoElegible(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	f.store.AddMovement(entity.Movement{ID: "o9", ProductID: "px", ShipmentID: "sout", State: entity.MoveConfirmed})
	id := f.createLinked(t, "loc-sup")

	_, err := f.uc.LinkIncoming(context.Background(), id, dto.LinkIncomingRequest{
		Operations: []dto.LinkOperation{{Op: "add", MoveIDs: []string{"o9"}}},
	})
	requireRule(t, err, domain.RuleMoveNotEligible)
}

func TestLinkIncoming_ReplaceYRemove(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	id := f.createLinked(t, "loc-sup")

	got, err := f.uc.LinkIncoming(context.Background(), id, dto.LinkIncomingRequest{
		Operations: []dto.LinkOperation{{Op: "remove", MoveIDs: []string{"in1"}}},
	})
	require.NoError(t, err)
	assert.Empty(t, got.IncomingMoveIDs)
	assert.True(t, got.RemainingVolume.Equal(decimal.NewFromInt(67)))

	got, err = f.uc.LinkIncoming(context.Background(), id, dto.LinkIncomingRequest{
		Operations: []dto.LinkOperation{{Op: "replace", MoveIDs: []string{"in1"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"in1"}, got.IncomingMoveIDs)
}

func TestLinkIncoming_FueraDeBorrador(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	id := f.createLinked(t, "loc-sup")
	_, err := f.uc.Book(context.Background(), []string{id})
	require.NoError(t, err)

	_, err = f.uc.LinkIncoming(context.Background(), id, dto.LinkIncomingRequest{
		Operations: []dto.LinkOperation{{Op: "remove", MoveIDs: []string{"in1"}}},
	})
	assert.ErrorIs(t, err, domain.ErrNotDraft)
}

// ─────────────────────────────────────────────────────────────────────────────
// Transiciones
// ─────────────────────────────────────────────────────────────────────────────

func TestCicloCompleto_EntregaSinCompensacion(t *testing.T) {
	f := newFixture(t, container.PushDatesToMoves{})
	ctx := context.Background()
	id := f.createLinked(t, "loc-sup")

	res, err := f.uc.Book(ctx, []string{id})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "draft", res[0].From)
	assert.Equal(t, "booking", res[0].To)

	c := f.store.Container(id)
	require.NotNil(t, c.ETM)
	assert.Equal(t, time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC), *c.ETM)
	assert.Equal(t, time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC), *c.ETA)
	assert.Equal(t, time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC), *c.ETD)
	assert.Equal(t, "loc-sup", f.store.Movement("in1").LocationID)

	out := f.outgoing(t, id)
	require.Len(t, out, 1)
	assert.Equal(t, entity.MoveDraft, out[0].State)
	assert.Equal(t, "in1", out[0].DestMoveID)
	assert.Equal(t, "loc-sup", out[0].LocationDestID)
	assert.Equal(t, id, out[0].ContainerID)
	assert.Empty(t, out[0].ShipmentID)
	assert.Equal(t, *c.ETM, *out[0].Date, "la fecha se propaga a las salidas")

	_, err = f.uc.Freight(ctx, []string{id})
	require.NoError(t, err)
	assert.Equal(t, entity.MoveDone, f.outgoing(t, id)[0].State)

	f.advanceToUnpacking(t, id)
	before := f.store.MovementCount()
	_, err = f.uc.Deliver(ctx, []string{id})
	require.NoError(t, err)

	assert.Equal(t, entity.StateDelivered, f.store.Container(id).State)
	assert.Equal(t, before, f.store.MovementCount())
	require.Len(t, f.pub.events, 6)
	assert.Equal(t, "unpacking", f.pub.events[5].From)
	assert.Equal(t, "delivered", f.pub.events[5].To)
}

func TestDeliver_CreaMovimientoDeCompensacion(t *testing.T) {
	f := newFixture(t, container.PushDatesToMoves{})
	ctx := context.Background()
	id := f.createLinked(t, "loc-sup")
	_, err := f.uc.Book(ctx, []string{id})
	require.NoError(t, err)

	outID := f.store.Container(id).OutgoingMoveIDs[0]
	_, err = f.uc.ProcessPartial(ctx, id, dto.PartialRequest{
		Date:  now.Add(-24 * time.Hour),
		Lines: []dto.PartialLine{{MoveID: outID, Quantity: decimal.NewFromInt(80)}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StateFreight, f.store.Container(id).State)

	f.advanceToUnpacking(t, id)
	_, err = f.uc.Deliver(ctx, []string{id})
	require.NoError(t, err)

	out := f.outgoing(t, id)
	require.Len(t, out, 2)
	comp := out[1]
	assert.True(t, comp.Quantity.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "px", comp.ProductID)
	assert.Equal(t, "loc-sup", comp.LocationID)
	assert.Equal(t, "wh-in", comp.LocationDestID)
	assert.Equal(t, entity.MoveDone, comp.State)
	assert.Equal(t, time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC), *comp.Date)
}

func TestDeliver_ExcesoNoCreaMovimientos(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	ctx := context.Background()
	id := f.createLinked(t, "loc-sup")
	_, err := f.uc.Book(ctx, []string{id})
	require.NoError(t, err)

	outID := f.store.Container(id).OutgoingMoveIDs[0]
	_, err = f.uc.ProcessPartial(ctx, id, dto.PartialRequest{
		Date:  now.Add(-24 * time.Hour),
		Lines: []dto.PartialLine{{MoveID: outID, Quantity: decimal.NewFromInt(120)}},
	})
	require.NoError(t, err)
	f.advanceToUnpacking(t, id)

	before := f.store.MovementCount()
	_, err = f.uc.Deliver(ctx, []string{id})
	assert.ErrorIs(t, err, domain.ErrOverShipment)
	assert.Equal(t, entity.StateUnpacking, f.store.Container(id).State)
	assert.Equal(t, before, f.store.MovementCount())
}

func TestBook_VolumenNegativoQuedaEnBorrador(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	f.store.AddProduct(entity.Product{ID: "box", Volume: decimal.NewFromInt(5)})
	id := f.createLinked(t, "loc-sup")
	before := f.store.MovementCount()

	_, err := f.uc.Book(context.Background(), []string{id})
	requireRule(t, err, domain.RuleRemainingVolume)
	assert.Equal(t, entity.StateDraft, f.store.Container(id).State)
	assert.Equal(t, before, f.store.MovementCount())
	assert.Empty(t, f.pub.events)
}

func TestBook_LoteAtomico(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	ctx := context.Background()
	ok := f.createLinked(t, "loc-sup")
	bad, err := f.uc.Create(ctx, dto.CreateContainerRequest{
		Name: "CONT-002", ProductID: "box", IncotermCode: "EXW", StockLocationID: "loc-int", DestinationWarehouseID: "wh",
	})
	require.NoError(t, err)

	_, err = f.uc.Book(ctx, []string{ok, bad.ID})
	requireRule(t, err, domain.RuleLocationUsage)
	ve, _ := domain.AsValidation(err)
	assert.Equal(t, bad.ID, ve.ContainerID)
	assert.Equal(t, entity.StateDraft, f.store.Container(ok).State)
	assert.Empty(t, f.store.Container(ok).OutgoingMoveIDs)
}

func TestRevertToDraft_EliminaSalidas(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	ctx := context.Background()
	id := f.createLinked(t, "loc-sup")
	before := f.store.MovementCount()
	_, err := f.uc.Book(ctx, []string{id})
	require.NoError(t, err)
	assert.Equal(t, before+1, f.store.MovementCount())

	_, err = f.uc.RevertToDraft(ctx, []string{id})
	require.NoError(t, err)
	c := f.store.Container(id)
	assert.Equal(t, entity.StateDraft, c.State)
	assert.Empty(t, c.OutgoingMoveIDs)
	assert.Equal(t, before, f.store.MovementCount())
}

func TestCancel_RequiereAlbaranesCancelados(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	ctx := context.Background()
	id := f.createLinked(t, "loc-sup")

	_, err := f.uc.Cancel(ctx, []string{id})
	requireRule(t, err, domain.RuleShipmentsNotCancelled)

	f.store.AddShipment(entity.Shipment{ID: "s1", Kind: entity.ShipmentKindIn, State: entity.ShipmentCancel})
	_, err = f.uc.Cancel(ctx, []string{id})
	require.NoError(t, err)
	assert.Equal(t, entity.StateCancel, f.store.Container(id).State)

	_, err = f.uc.Book(ctx, []string{id})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestFire_ContenedorInexistente(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	_, err := f.uc.Freight(context.Background(), []string{"nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Freight(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFire_FalloAlPublicarNoRevierte(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	f.pub.err = errors.New("broker caído")
	id := f.createLinked(t, "loc-sup")

	_, err := f.uc.Book(context.Background(), []string{id})
	require.NoError(t, err)
	assert.Equal(t, entity.StateBooking, f.store.Container(id).State)
}

// ─────────────────────────────────────────────────────────────────────────────
// Envío parcial y fechas
// ─────────────────────────────────────────────────────────────────────────────

func TestProcessPartial_MovimientoDesconocido(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	ctx := context.Background()
	id := f.createLinked(t, "loc-sup")
	_, err := f.uc.Book(ctx, []string{id})
	require.NoError(t, err)

	_, err = f.uc.ProcessPartial(ctx, id, dto.PartialRequest{
		Date:  now,
		Lines: []dto.PartialLine{{MoveID: "in1", Quantity: decimal.NewFromInt(1)}},
	})
	requireRule(t, err, domain.RuleUnknownMove)
	assert.Equal(t, entity.StateBooking, f.store.Container(id).State)
}

func TestProcessPartial_RequiereBooking(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	id := f.createLinked(t, "loc-sup")
	_, err := f.uc.ProcessPartial(context.Background(), id, dto.PartialRequest{
		Date:  now,
		Lines: []dto.PartialLine{{MoveID: "x", Quantity: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestGetDerivedDates_NoEscribe(t *testing.T) {
	f := newFixture(t, container.NoDatePush{})
	ctx := context.Background()
	id := f.createLinked(t, "loc-sup")

	d, err := f.uc.GetDerivedDates(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, d.ETM, "sin salidas no hay fechas")

	_, err = f.uc.Book(ctx, []string{id})
	require.NoError(t, err)
	d, err = f.uc.GetDerivedDates(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, d.RDV)
	assert.Equal(t, now.AddDate(0, 0, -2), *d.RDV)
	assert.Equal(t, time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC), *d.ETM)
}

func TestUpdate_EstrategiaDeFechas(t *testing.T) {
	ctx := context.Background()
	later := now.AddDate(0, 0, 5)
	setup := func(push container.DatePushStrategy) *fixture {
		f := newFixture(t, push)
		d := now.AddDate(0, 0, -1)
		f.store.AddMovement(entity.Movement{ID: "o1", ProductID: "px", ShipmentID: "sout", ContainerID: "cb", State: entity.MoveDraft, Date: &d})
		f.store.AddMovement(entity.Movement{ID: "o2", ProductID: "px", ShipmentID: "sout", State: entity.MoveDraft, Date: &later})
		f.store.AddContainer(entity.Container{ID: "cb", Name: "CB", ProductID: "box", IncotermCode: "EXW",
			StockLocationID: "loc-sup", DestinationWarehouseID: "wh", OutgoingMoveIDs: []string{"o1"}, State: entity.StateBooking})
		return f
	}
	etm := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	f := setup(nil)
	_, err := f.uc.Update(ctx, "cb", dto.UpdateContainerRequest{ETM: &etm}, container.NoDatePush{})
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -1), *f.store.Movement("o1").Date)
	assert.Nil(t, f.store.Shipment("sout").PlannedDate)

	f = setup(nil)
	got, err := f.uc.Update(ctx, "cb", dto.UpdateContainerRequest{ETM: &etm}, container.PushDatesToMoves{})
	require.NoError(t, err)
	assert.Equal(t, etm, *got.ETM)
	assert.Equal(t, etm, *f.store.Movement("o1").Date)
	require.NotNil(t, f.store.Shipment("sout").PlannedDate)
	assert.Equal(t, etm, *f.store.Shipment("sout").PlannedDate)
}
