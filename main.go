package main

import (
	"Comodin/config"
	pgconfig "Comodin/config/postgres"
	"Comodin/controllers"
	_ "Comodin/docs"
	"Comodin/middleware"
	"Comodin/routes"
	"Comodin/services/filters"
	"Comodin/services/jokers"
	"Comodin/services/redis"
	"Comodin/services/runs"
	socketio "Comodin/services/socket_io"
	"Comodin/services/tags"
	"Comodin/services/vouchers"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// @title Comodin API
// @version 1.0
// @description Gin-Gonic server for the Comodin joker scoring engine
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("Error loading settings: %v", err)
	}
	if settings.Prod {
		gin.SetMode(gin.ReleaseMode)
	}
	if settings.Key == "" {
		// Sessions and tokens die with the process.
		settings.Key = uuid.NewString()
		log.Println("Warning: KEY not set, using a random key")
	}

	gormDB, err := pgconfig.ConnectGORM()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	log.Println("GORM Connected")

	// Only migrate in development or during deployment
	if settings.MigratePostgres {
		log.Println("Migrating PostgreSQL database...")
		if err := pgconfig.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
		} else {
			log.Println("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis(settings)
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	log.Println("Connection to Redis successful")
	defer redis.CloseRedis(redisClient)

	catalog := jokers.NewCatalog()
	voucherRegistry := vouchers.Global()
	tagRegistry := tags.Global()

	svc := runs.NewService(runs.NewGormStore(gormDB), redisClient, catalog, voucherRegistry, tagRegistry, settings.MaxJokerStateValue).
		WithConditionCache(settings.ConditionCacheSize).
		WithJokerSlots(settings.MaxJokerSlots)
	tokens := middleware.NewTokenService(settings.Key, settings.TokenTTL)

	engine := &controllers.EngineController{
		Catalog:            catalog,
		Tags:               tagRegistry,
		Vouchers:           voucherRegistry,
		Filters:            filters.NewRegistry(),
		MaxStateValue:      settings.MaxJokerStateValue,
		ConditionCacheSize: settings.ConditionCacheSize,
	}

	r := gin.New()
	r.Use(gin.Recovery())

	middleware.SetUpMiddleware(r, settings.Key, settings.Prod)
	routes.SetupRoutes(r, engine, &controllers.RunController{Runs: svc, Tokens: tokens}, tokens)

	sio := &socketio.MySocketServer{}
	sio.Start(r, svc, tokens, !settings.Prod)

	log.Printf("Server starting on port %s", settings.Port)
	if err := r.Run(":" + settings.Port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
