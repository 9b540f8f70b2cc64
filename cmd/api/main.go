package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"rentflow/internal/config"
	"rentflow/internal/database"
	"rentflow/internal/middleware"
	"rentflow/internal/modules/assignment"
	"rentflow/internal/modules/catalog"
	"rentflow/internal/modules/reservation"
	jwtsvc "rentflow/internal/pkg/jwt"
	"rentflow/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	reservationRepo := repository.NewReservationRepository(db)
	unitTypeRepo := repository.NewUnitTypeRepository(db)
	assetRepo := repository.NewAssetRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	reservationService := reservation.NewService(reservationRepo, unitTypeRepo, cfg.HoldTTL)
	sweeper := reservation.NewSweeper(reservationRepo, cfg.SweepInterval)
	reservationHandler := reservation.NewHandler(reservationService, sweeper)

	assignmentService := assignment.NewService(assetRepo, reservationRepo)
	assignmentHandler := assignment.NewHandler(assignmentService)

	catalogService := catalog.NewService(unitTypeRepo, assetRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	// in-process sweep loop alongside the externally scheduled endpoint;
	// both paths share the same bulk transition, so double-running is harmless
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Start(ctx)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		catalogHandler.RegisterPublicRoutes(v1)

		// authenticated booking flow
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			reservationHandler.RegisterRoutes(protected)

			operator := protected.Group("/")
			operator.Use(middleware.OperatorOnly())
			{
				reservationHandler.RegisterOperatorRoutes(operator)
				assignmentHandler.RegisterRoutes(operator)
				catalogHandler.RegisterOperatorRoutes(operator)
			}
		}
	}

	internal := r.Group("/internal")
	internal.Use(middleware.InternalTokenAuth(cfg.InternalToken))
	{
		reservationHandler.RegisterInternalRoutes(internal)
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
