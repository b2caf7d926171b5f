package controller

import (
	"errors"
	"net/http"

	"pedidos-backoffice/internal/cart"
	"pedidos-backoffice/internal/dto"
	"pedidos-backoffice/internal/model"
	"pedidos-backoffice/internal/money"
	"pedidos-backoffice/internal/service"

	"github.com/gin-gonic/gin"
)

const cartCookie = "cart_session"

// CartController expone el carrito y el checkout del storefront.
type CartController struct {
	Carts    *cart.Store
	Checkout *service.CheckoutService
}

func NewCartController(carts *cart.Store, checkout *service.CheckoutService) *CartController {
	return &CartController{Carts: carts, Checkout: checkout}
}

// sesion resuelve la sesión del carrito desde la cookie, creándola si
// hace falta.
func (ctl *CartController) sesion(c *gin.Context) string {
	if id, err := c.Cookie(cartCookie); err == nil && id != "" {
		return id
	}
	id := ctl.Carts.NuevaSesion()
	c.SetCookie(cartCookie, id, 0, "/", "", false, true)
	return id
}

func vistaCarrito(estado model.Cart) gin.H {
	items := estado.Items
	if items == nil {
		items = []model.CartItem{}
	}
	return gin.H{
		"items":      items,
		"isOpen":     estado.IsOpen,
		"total":      cart.Total(estado),
		"totalTexto": "$" + money.Format(cart.Total(estado)),
		"totalItems": cart.TotalItems(estado),
	}
}

// GET /cart
func (ctl *CartController) Ver(c *gin.Context) {
	c.JSON(http.StatusOK, vistaCarrito(ctl.Carts.Get(ctl.sesion(c))))
}

// POST /cart/items — agrega o suma cantidad
func (ctl *CartController) Agregar(c *gin.Context) {
	var req dto.AgregarItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	estado := ctl.Carts.Dispatch(ctl.sesion(c), cart.AgregarItem{Producto: model.Producto{
		ID:     req.ID,
		Nombre: req.Nombre,
		Precio: req.Precio,
		Imagen: req.Imagen,
	}})
	c.JSON(http.StatusOK, vistaCarrito(estado))
}

// DELETE /cart/items/:productoId
func (ctl *CartController) Quitar(c *gin.Context) {
	estado := ctl.Carts.Dispatch(ctl.sesion(c), cart.QuitarItem{ProductoID: c.Param("productoId")})
	c.JSON(http.StatusOK, vistaCarrito(estado))
}

// POST /cart/items/:productoId/incrementar
func (ctl *CartController) Incrementar(c *gin.Context) {
	estado := ctl.Carts.Dispatch(ctl.sesion(c), cart.Incrementar{ProductoID: c.Param("productoId")})
	c.JSON(http.StatusOK, vistaCarrito(estado))
}

// POST /cart/items/:productoId/decrementar
func (ctl *CartController) Decrementar(c *gin.Context) {
	estado := ctl.Carts.Dispatch(ctl.sesion(c), cart.Decrementar{ProductoID: c.Param("productoId")})
	c.JSON(http.StatusOK, vistaCarrito(estado))
}

// POST /cart/toggle
func (ctl *CartController) Alternar(c *gin.Context) {
	estado := ctl.Carts.Dispatch(ctl.sesion(c), cart.AlternarVisibilidad{})
	c.JSON(http.StatusOK, vistaCarrito(estado))
}

// POST /checkout — arma y envía el pedido de la sesión
func (ctl *CartController) Finalizar(c *gin.Context) {
	var form dto.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Con sesión autenticada la identidad registrada gana sobre el
	// documento digitado
	form.IDCliente = c.GetString("userID")

	pedido, err := ctl.Checkout.Enviar(c.Request.Context(), ctl.sesion(c), form)
	if err != nil {
		var ev *service.ErrorValidacion
		switch {
		case errors.As(err, &ev):
			c.JSON(http.StatusBadRequest, gin.H{"errores": ev.Campos})
		case errors.Is(err, service.ErrCarritoVacio):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEnvioEnCurso):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, pedido)
}
