package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appcontainer "github.com/jhoicas/container-tracker/internal/application/container"
	"github.com/jhoicas/container-tracker/internal/application/dto"
	"github.com/jhoicas/container-tracker/internal/domain/container"
)

// ContainerHandler maneja las peticiones HTTP de contenedores (protegido).
type ContainerHandler struct {
	uc        *appcontainer.UseCase
	pushDates appcontainer.DatePushStrategy
	log       zerolog.Logger
}

// NewContainerHandler construye el handler. pushDates es la estrategia de fechas para PATCH.
func NewContainerHandler(uc *appcontainer.UseCase, pushDates appcontainer.DatePushStrategy, log zerolog.Logger) *ContainerHandler {
	return &ContainerHandler{uc: uc, pushDates: pushDates, log: log.With().Str("component", "http").Logger()}
}

// Create godoc
// @Summary      Crear contenedor en borrador
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateContainerRequest  true  "Datos del contenedor"
// @Success      201   {object}  dto.ContainerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/containers [post]
func (h *ContainerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContainerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || in.ProductID == "" || in.StockLocationID == "" || in.DestinationWarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION",
			Message: "name, product_id, stock_location_id y destination_warehouse_id son requeridos"})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener contenedor con métricas
// @Tags         containers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contenedor"
// @Success      200  {object}  dto.ContainerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/containers/{id} [get]
func (h *ContainerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "contenedor no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar contenedores
// @Tags         containers
// @Security     Bearer
// @Produce      json
// @Param        state   query  string  false  "Estado"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.ContainerListResponse
// @Router       /api/containers [get]
func (h *ContainerHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	if page.Limit > 100 {
		page.Limit = 100
	}
	out, err := h.uc.List(c.UserContext(), c.Query("state"), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar contenedor
// @Description  Los campos bloqueados por el estado actual devuelven 409 FIELD_LOCKED.
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del contenedor"
// @Param        body  body  dto.UpdateContainerRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ContainerResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/containers/{id} [patch]
func (h *ContainerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateContainerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in, h.pushDates)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar contenedores en borrador
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.ContainerIDsRequest  true  "IDs"
// @Success      204
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/containers [delete]
func (h *ContainerHandler) Delete(c *fiber.Ctx) error {
	var in dto.ContainerIDsRequest
	if err := c.BodyParser(&in); err != nil || len(in.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ids es requerido"})
	}
	if err := h.uc.Delete(c.UserContext(), in.IDs); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Copy godoc
// @Summary      Duplicar contenedor como borrador
// @Tags         containers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contenedor"
// @Success      201  {object}  dto.ContainerResponse
// @Router       /api/containers/{id}/copy [post]
func (h *ContainerHandler) Copy(c *fiber.Ctx) error {
	out, err := h.uc.Copy(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DerivedDates godoc
// @Summary      Fechas derivadas de los movimientos de salida
// @Tags         containers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del contenedor"
// @Success      200  {object}  dto.DerivedDatesResponse
// @Router       /api/containers/{id}/dates [get]
func (h *ContainerHandler) DerivedDates(c *fiber.Ctx) error {
	out, err := h.uc.GetDerivedDates(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// LinkIncoming godoc
// @Summary      Modificar movimientos de entrada (add/remove/replace)
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del contenedor"
// @Param        body  body  dto.LinkIncomingRequest  true  "Operaciones"
// @Success      200   {object}  dto.ContainerResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/containers/{id}/incoming [post]
func (h *ContainerHandler) LinkIncoming(c *fiber.Ctx) error {
	var in dto.LinkIncomingRequest
	if err := c.BodyParser(&in); err != nil || len(in.Operations) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "operations es requerido"})
	}
	out, err := h.uc.LinkIncoming(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Partial godoc
// @Summary      Registrar embarque parcial y pasar a freight
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del contenedor"
// @Param        body  body  dto.PartialRequest  true  "Líneas embarcadas"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/containers/{id}/partial [post]
func (h *ContainerHandler) Partial(c *fiber.Ctx) error {
	var in dto.PartialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ProcessPartial(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Disparar una transición sobre un lote de contenedores
// @Description  book, freight, clearance, approach, unpack, deliver, cancel o draft. El lote es atómico.
// @Tags         containers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        event  path  string                   true  "Evento"
// @Param        body   body  dto.ContainerIDsRequest  true  "IDs"
// @Success      200    {array}   dto.TransitionResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Failure      422    {object}  dto.ErrorResponse
// @Router       /api/containers/transitions/{event} [post]
func (h *ContainerHandler) Transition(c *fiber.Ctx) error {
	event, ok := container.ParseEvent(c.Params("event"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_EVENT", Message: "evento desconocido: " + c.Params("event")})
	}
	var in dto.ContainerIDsRequest
	if err := c.BodyParser(&in); err != nil || len(in.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ids es requerido"})
	}
	out, err := h.uc.Fire(c.UserContext(), event, in.IDs)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
