package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pedidos-backoffice/internal/cart"
	"pedidos-backoffice/internal/clients"
	"pedidos-backoffice/internal/config"
	"pedidos-backoffice/internal/controller"
	"pedidos-backoffice/internal/middleware"
	"pedidos-backoffice/internal/rabbit"
	"pedidos-backoffice/internal/repository"
	"pedidos-backoffice/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("LOG_LEVEL inválido %q, se usa info", cfg.LogLevel)
	}

	// Repositorio de pedidos: Mongo propio o el API colaborador
	var repo service.PedidoRepository
	switch cfg.PedidosBackend {
	case "http":
		repo = clients.NewPedidosClient(cfg.PedidosURL, cfg.PedidosToken)
		logger.WithField("url", cfg.PedidosURL).Info("pedidos contra API colaborador")
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			logger.Fatal(err)
		}
		db := client.Database(cfg.MongoDBName)
		repo = repository.NewMongoPedidoRepository(db)
		logger.WithField("db", cfg.MongoDBName).Info("pedidos contra MongoDB")
	}

	// Conexión a RabbitMQ y publicador de eventos
	var events service.EventPublisher
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		logger.Fatalf("Error conectando a RabbitMQ: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("Error creando canal en RabbitMQ: %v", err)
	}
	events, err = rabbit.NewPublisher(ch, logger)
	if err != nil {
		logger.Fatalf("Error declarando exchanges: %v", err)
	}

	// Servicios
	carts := cart.NewStore()
	checkoutService := service.NewCheckoutService(carts, repo, events, logger)
	pedidoService := service.NewPedidoService(repo, events, logger)
	authService := service.NewAuthService(cfg.AuthURL)

	// Carga inicial de la lista; si falla, la lista arranca vacía y el
	// botón de refrescar reintenta
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := pedidoService.Recargar(ctx); err != nil {
		logger.WithError(err).Warn("no se pudo hacer la carga inicial de pedidos")
	}
	cancel()

	// Handlers
	cartCtl := controller.NewCartController(carts, checkoutService)
	pedidoCtl := controller.NewPedidoController(pedidoService)

	// Router
	r := gin.Default()

	// Storefront: carrito y checkout (anónimo o con sesión)
	store := r.Group("/")
	store.Use(middleware.OptionalAuth(authService))
	store.GET("/cart", cartCtl.Ver)
	store.POST("/cart/items", cartCtl.Agregar)
	store.DELETE("/cart/items/:productoId", cartCtl.Quitar)
	store.POST("/cart/items/:productoId/incrementar", cartCtl.Incrementar)
	store.POST("/cart/items/:productoId/decrementar", cartCtl.Decrementar)
	store.POST("/cart/toggle", cartCtl.Alternar)
	store.POST("/checkout", cartCtl.Finalizar)

	// Back office: requiere token y permiso de admin
	admin := r.Group("/pedidos")
	admin.Use(middleware.AuthMiddleware(authService))
	admin.Use(middleware.AdminOnly())
	admin.GET("", pedidoCtl.Listar)
	admin.GET("/kanban", pedidoCtl.Kanban)
	admin.POST("", pedidoCtl.Crear)
	admin.POST("/recargar", pedidoCtl.Recargar)
	admin.GET("/:id", pedidoCtl.Detalle)
	admin.GET("/:id/transiciones", pedidoCtl.Transiciones)
	admin.PUT("/:id", pedidoCtl.Actualizar)
	admin.PATCH("/:id/estado", pedidoCtl.CambiarEstado)
	admin.POST("/:id/mover", pedidoCtl.Mover)
	admin.DELETE("/:id", pedidoCtl.Eliminar)

	logger.Infof("Servicio de pedidos ejecutándose en puerto %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal(err)
	}
}
