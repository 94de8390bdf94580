package main

import (
	"context"
	"log"
	"time"

	"gapminder/internal"
	"gapminder/internal/api"
	"gapminder/internal/config"
	"gapminder/internal/engine"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))

	// 1. Initialize Echo (Starts Instantly)
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Logger())

	// 2. Handler starts empty; data endpoints answer 503 until the load finishes
	h := api.NewHandler(nil, cfg.Data.DefaultCountries)
	h.RegisterRoutes(e)

	loader := engine.NewLoader(engine.Sources{
		Population:     cfg.Data.PopulationPath(),
		LifeExpectancy: cfg.Data.LifeExpectancyPath(),
		GNIPerCapita:   cfg.Data.GNIPath(),
	}, logger)

	// 3. Load in the background
	go func() {
		logger.Info("BACKGROUND: Starting load pipeline...")
		t0 := time.Now()

		ds, err := loader.Load(context.Background())
		if err != nil {
			logger.Error("BACKGROUND: Load failed: %v", err)
			h.SetError(err)
			return
		}
		h.SetData(ds)

		logger.Info("BACKGROUND: Load complete in %v. API is fully ready.", time.Since(t0))
	}()

	// 4. Start Server
	logger.Info("Server ready on port %s (data loading in background...)", cfg.Server.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Server.Port))
}
