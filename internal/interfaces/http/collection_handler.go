package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/jhoicas/skillbridge-business/internal/application/analytics"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/application/synccore"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// CollectionHandler expone las colecciones del núcleo de sincronización.
type CollectionHandler struct {
	core *synccore.Core
}

// NewCollectionHandler construye el handler.
func NewCollectionHandler(core *synccore.Core) *CollectionHandler {
	return &CollectionHandler{core: core}
}

// CollectionResponse página de una colección con su estado de carga.
type CollectionResponse struct {
	Resource   entity.Resource   `json:"resource"`
	Data       []entity.Record   `json:"data"`
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
	Aggregates analytics.Summary `json:"aggregates"`
	LoadedAt   *time.Time        `json:"loadedAt,omitempty"`
	Page       dto.PageResponse  `json:"page"`
}

// List devuelve la colección desde el estado local (sin ir a la red).
// GET /api/collections/:resource?limit=&offset=
// @Summary      Listar una colección desde el estado local
// @Tags         collections
// @Security     Bearer
// @Produce      json
// @Param        resource  path      string  true   "Colección"  Enums(inventory, customers, sales, expenses, suppliers, returns, payments)
// @Param        limit     query     int     false  "Límite"     default(100)
// @Param        offset    query     int     false  "Offset"     default(0)
// @Success      200       {object}  CollectionResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/collections/{resource} [get]
func (h *CollectionHandler) List(c *fiber.Ctx) error {
	res, err := entity.ParseResource(c.Params("resource"))
	if err != nil {
		return writeError(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	page.DefaultPage()

	col := h.core.State().Collection(res)
	records := h.core.Records(res)
	from, to := page.Bounds(len(records))
	return c.JSON(CollectionResponse{
		Resource:   res,
		Data:       records[from:to],
		Loading:    col.Loading,
		Error:      col.Error,
		Aggregates: col.Aggregates,
		LoadedAt:   col.LoadedAt,
		Page:       dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(records)},
	})
}

// Load pide la colección al servidor. Los query params se reenvían tal cual.
// Sin conexión responde 503 y la carga queda encolada.
// POST /api/collections/:resource/load
// @Summary      Cargar la colección desde el servidor
// @Tags         collections
// @Security     Bearer
// @Produce      json
// @Param        resource  path      string  true  "Colección"
// @Success      200       {object}  map[string]interface{}
// @Failure      503       {object}  dto.ErrorResponse
// @Router       /api/collections/{resource}/load [post]
func (h *CollectionHandler) Load(c *fiber.Ctx) error {
	res, err := entity.ParseResource(c.Params("resource"))
	if err != nil {
		return writeError(c, err)
	}
	data, err := h.core.Load(c.Context(), res, copyQueries(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"resource": res, "data": data, "count": len(data)})
}

// Create agrega un registro. 201 si el servidor lo confirmó, 202 si quedó en cola.
// POST /api/collections/:resource
// @Summary      Crear un registro
// @Tags         collections
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        resource  path      string  true  "Colección"
// @Param        body      body      object  true  "Registro"
// @Success      201       {object}  object
// @Success      202       {object}  QueuedResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      502       {object}  dto.ErrorResponse
// @Router       /api/collections/{resource} [post]
func (h *CollectionHandler) Create(c *fiber.Ctx) error {
	res, err := entity.ParseResource(c.Params("resource"))
	if err != nil {
		return writeError(c, err)
	}
	rec, err := entity.Decode(res, c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.core.Create(c.Context(), rec)
	return writeMutation(c, fiber.StatusCreated, out, err)
}

// Update reemplaza el registro identificado por :key (_id o local-<localId>).
// PUT /api/collections/:resource/:key
// @Summary      Actualizar un registro
// @Tags         collections
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        resource  path      string  true  "Colección"
// @Param        key       path      string  true  "_id o local-<localId>"
// @Param        body      body      object  true  "Registro"
// @Success      200       {object}  object
// @Success      202       {object}  QueuedResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Router       /api/collections/{resource}/{key} [put]
func (h *CollectionHandler) Update(c *fiber.Ctx) error {
	res, err := entity.ParseResource(c.Params("resource"))
	if err != nil {
		return writeError(c, err)
	}
	key := utils.CopyString(c.Params("key"))
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "key es requerida"})
	}
	rec, err := entity.Decode(res, c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	m := rec.Base()
	m.ID, m.LocalID = "", 0
	m.SetKey(key)

	out, err := h.core.Update(c.Context(), rec)
	return writeMutation(c, fiber.StatusOK, out, err)
}

// Delete quita el registro. 204 si se confirmó, 202 si quedó en cola.
// DELETE /api/collections/:resource/:key
// @Summary      Borrar un registro
// @Tags         collections
// @Security     Bearer
// @Param        resource  path  string  true  "Colección"
// @Param        key       path  string  true  "_id o local-<localId>"
// @Success      204
// @Success      202  {object}  QueuedResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/collections/{resource}/{key} [delete]
func (h *CollectionHandler) Delete(c *fiber.Ctx) error {
	res, err := entity.ParseResource(c.Params("resource"))
	if err != nil {
		return writeError(c, err)
	}
	key := utils.CopyString(c.Params("key"))
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "key es requerida"})
	}
	err = h.core.Delete(c.Context(), res, key)
	return writeMutation(c, fiber.StatusNoContent, nil, err)
}

// copyQueries copia los query params: el núcleo los guarda en la cola offline
// y fasthttp reutiliza el buffer de la petición.
func copyQueries(c *fiber.Ctx) map[string]string {
	out := make(map[string]string)
	for k, v := range c.Queries() {
		out[utils.CopyString(k)] = utils.CopyString(v)
	}
	return out
}
