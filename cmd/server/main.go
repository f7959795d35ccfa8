package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tafelzeven/backoffice/internal/config"
	"github.com/tafelzeven/backoffice/internal/es"
	"github.com/tafelzeven/backoffice/internal/handlers"
	"github.com/tafelzeven/backoffice/internal/imagestore"
	"github.com/tafelzeven/backoffice/internal/logging"
	"github.com/tafelzeven/backoffice/internal/middleware/loggingmw"
	"github.com/tafelzeven/backoffice/internal/mykafka"
	"github.com/tafelzeven/backoffice/internal/service/catalog"
	"github.com/tafelzeven/backoffice/internal/service/order"
	httpserver "github.com/tafelzeven/backoffice/internal/transport/http"
	"github.com/tafelzeven/backoffice/internal/web"
)

func main() {
	configuration := config.LoadConfig()

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatal(err)
		}
	} else {
		logger.Warn("KAFKA_ADDRESS not set, event publishing disabled")
	}

	var esClient *elasticsearch.Client
	if configuration.ES_URL != "" {
		esClient, err = es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	renderer, err := web.NewRenderer("web/templates")
	if err != nil {
		log.Fatal(err)
	}

	e := echo.New()
	e.Renderer = renderer
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))
	e.Static("/", configuration.PUBLIC_DIR)

	catalogSvc := &catalog.CatalogService{DB: db}
	images := &imagestore.Store{PublicDir: configuration.PUBLIC_DIR}

	deps := httpserver.Deps{
		DB:                db,
		CategoryHandler:   &handlers.CategoryHandler{Svc: catalogSvc, Images: images, Producer: prod},
		IngredientHandler: &handlers.IngredientHandler{Svc: catalogSvc, Images: images, Producer: prod},
		ProductHandler:    &handlers.ProductHandler{Svc: catalogSvc, Images: images, Producer: prod},
		OrderHandler:      &handlers.OrderHandler{Svc: &order.OrderService{DB: db}, Producer: prod},
		SearchHandler:     &handlers.SearchHandler{ES: esClient, Index: "products"},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
