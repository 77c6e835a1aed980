package cmd

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"

	"ticketdesk/config"
	"ticketdesk/handlers"
	_ "ticketdesk/migrations"
	"ticketdesk/monitoring"
	"ticketdesk/security"
	"ticketdesk/services"
	"ticketdesk/services/payment"
	"ticketdesk/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub
	pnConfig := pubnub.NewConfig()
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	pn := pubnub.NewPubNub(pnConfig)

	// Initialize services
	inventoryService := services.NewInventoryService(app)
	catalogCache := services.NewCatalogCache(app, redisClient, cfg.CatalogCacheTTL)

	breaker := utils.NewCircuitBreaker("payment-gateway", cfg.BreakerMaxFailures, cfg.BreakerTimeout)
	gateway := payment.NewGuarded(payment.NewSimulated(cfg.PaymentDelay), breaker)

	bookingService := services.NewBookingService(inventoryService, catalogCache, gateway, redisClient, cfg)
	notifier := services.NewNotifier(pn, cfg.DashboardChannel)

	// Subscription callbacks: cache refresh and dashboard broadcast
	catalogCache.Bind(app)
	notifier.Bind(app)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Monitoring
	if cfg.EnableMetrics {
		monitoring.NewMonitor(app)
		go serveMetrics(redisClient, cfg.MetricsPort)
	}

	// Register routes
	limiter := security.NewRateLimiter(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow)
	handlers.Bind(app, handlers.Deps{
		Events:   handlers.NewEventHandler(app),
		Bookings: handlers.NewBookingHandler(app, bookingService, inventoryService),
		IDCards:  handlers.NewIDCardHandler(app),
		Admin:    handlers.NewAdminHandler(app),
		Limiter:  limiter,
		Redis:    redisClient,
	})

	return app.Start()
}

// serveMetrics exposes Prometheus metrics and a liveness probe on a
// sidecar port, separate from the API surface.
func serveMetrics(redisClient *redis.Client, port string) {
	e := echo.New()

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		if err := utils.RedisHealthCheck(redisClient); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	srv := &http.Server{Addr: ":" + port, Handler: e}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("Metrics server stopped: %v", err)
	}
}
