package controller

import (
	"errors"
	"net/http"
	"strconv"

	"pedidos-backoffice/internal/dto"
	"pedidos-backoffice/internal/model"
	"pedidos-backoffice/internal/money"
	"pedidos-backoffice/internal/service"

	"github.com/gin-gonic/gin"
)

type PedidoController struct {
	Service *service.PedidoService
}

func NewPedidoController(s *service.PedidoService) *PedidoController {
	return &PedidoController{Service: s}
}

// responderError mapea los errores de negocio a códigos HTTP. El mensaje
// viaja tal cual: los de red traen el texto del backend.
func responderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPedidoNoEncontrado):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrTransicionInvalida),
		errors.Is(err, service.ErrEstadoFinal),
		errors.Is(err, service.ErrPedidoTerminado),
		errors.Is(err, service.ErrActualizacionEnCurso):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func consultaDesdeQuery(c *gin.Context) service.Consulta {
	pagina, _ := strconv.Atoi(c.DefaultQuery("pagina", "1"))
	return service.Consulta{
		Estado:     c.DefaultQuery("estado", "todos"),
		Busqueda:   c.Query("q"),
		Categoria:  c.DefaultQuery("categoria", "todos"),
		OrdenarPor: c.Query("ordenar"),
		Direccion:  c.Query("dir"),
		Pagina:     pagina,
	}
}

func resumen(p model.Pedido) dto.PedidoResumen {
	return dto.PedidoResumen{
		ID:          p.ID,
		Cliente:     p.NombreCliente(),
		Total:       p.Total,
		TotalTexto:  "$" + money.Format(p.Total),
		Estado:      p.Estado,
		FechaPedido: p.FechaPedido,
	}
}

// GET /pedidos — tabla con filtro, búsqueda, orden y paginación
func (ctl *PedidoController) Listar(c *gin.Context) {
	pag := ctl.Service.Listar(consultaDesdeQuery(c))

	var filas []dto.PedidoResumen
	for _, p := range pag.Pedidos {
		filas = append(filas, resumen(p))
	}
	c.JSON(http.StatusOK, gin.H{
		"pedidos":      filas,
		"total":        pag.Total,
		"pagina":       pag.Pagina,
		"totalPaginas": pag.TotalPaginas,
		"ordenarPor":   pag.OrdenarPor,
		"direccion":    pag.Direccion,
	})
}

// GET /pedidos/kanban — columnas por estado sobre el conjunto filtrado
func (ctl *PedidoController) Kanban(c *gin.Context) {
	columnas := ctl.Service.Kanban(consultaDesdeQuery(c))

	out := gin.H{}
	for _, estado := range model.Estados {
		var tarjetas []dto.PedidoResumen
		for _, p := range columnas[estado] {
			tarjetas = append(tarjetas, resumen(p))
		}
		if tarjetas == nil {
			tarjetas = []dto.PedidoResumen{}
		}
		out[string(estado)] = tarjetas
	}
	c.JSON(http.StatusOK, out)
}

// GET /pedidos/:id — detalle completo
func (ctl *PedidoController) Detalle(c *gin.Context) {
	pedido, err := ctl.Service.Detalle(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pedido no encontrado"})
		return
	}
	c.JSON(http.StatusOK, pedido)
}

// GET /pedidos/:id/transiciones — destinos válidos para el selector de estado
func (ctl *PedidoController) Transiciones(c *gin.Context) {
	pedido, err := ctl.Service.Detalle(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pedido no encontrado"})
		return
	}
	destinos := service.TransicionesPermitidas(pedido.Estado)
	if destinos == nil {
		destinos = []model.Estado{}
	}
	c.JSON(http.StatusOK, gin.H{
		"estado":       pedido.Estado,
		"transiciones": destinos,
	})
}

// POST /pedidos — alta desde el formulario del back office
func (ctl *PedidoController) Crear(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pedido, err := ctl.Service.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pedido)
}

// PUT /pedidos/:id — edición; un pedido terminado se rechaza acá
func (ctl *PedidoController) Actualizar(c *gin.Context) {
	var req dto.ActualizarPedidoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pedido, err := ctl.Service.Actualizar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, pedido)
}

// PATCH /pedidos/:id/estado — disparador explícito de transición
func (ctl *PedidoController) CambiarEstado(c *gin.Context) {
	var req dto.CambiarEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.Service.CambiarEstado(c.Request.Context(), c.Param("id"), req.Estado); err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "estado actualizado"})
}

// POST /pedidos/:id/mover — disparador por arrastre del kanban
func (ctl *PedidoController) Mover(c *gin.Context) {
	var req dto.MoverPedidoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.Service.Mover(c.Request.Context(), c.Param("id"), req.Columna); err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "estado actualizado"})
}

// DELETE /pedidos/:id
func (ctl *PedidoController) Eliminar(c *gin.Context) {
	if err := ctl.Service.Eliminar(c.Request.Context(), c.Param("id")); err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pedido eliminado"})
}

// POST /pedidos/recargar — botón de refrescar la lista
func (ctl *PedidoController) Recargar(c *gin.Context) {
	if err := ctl.Service.Recargar(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "lista actualizada"})
}
