package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/munivilla/portal/config"
	"github.com/munivilla/portal/internal/api/handlers"
	"github.com/munivilla/portal/internal/api/middleware"
	"github.com/munivilla/portal/internal/api/routes"
	"github.com/munivilla/portal/internal/cache"
	applogger "github.com/munivilla/portal/internal/logger"
	mysqlrepo "github.com/munivilla/portal/internal/repositories/mysql"
	"github.com/munivilla/portal/internal/services"
	"github.com/munivilla/portal/internal/storage"
	"github.com/munivilla/portal/internal/workers"
)

func main() {
	_ = godotenv.Load()

	logg := applogger.New()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	if err := config.InitDatabase(); err != nil {
		log.Fatalf("MySQL init error: %v", err)
	}
	logg.Info("MySQL connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}

	var c cache.Cache
	if config.RedisClient != nil {
		c = cache.NewRedisCache(config.RedisClient)
		logg.Info("Redis connected")
	} else {
		logg.Info("Redis not configured, caching disabled")
	}

	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "public/uploads"
	}
	store, err := storage.NewLocalStore(uploadsDir)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	// repositories
	userRepo := mysqlrepo.NewUserRepo(config.DB)
	tipoRepo := mysqlrepo.NewTipoRepo(config.DB)
	convRepo := mysqlrepo.NewConvocatoriaRepo(config.DB)
	archivoRepo := mysqlrepo.NewArchivoRepo(config.DB)

	// services
	authSvc := services.NewAuthService(userRepo, jwtSecret, logg)
	tipoSvc := services.NewTipoService(tipoRepo)
	convSvc := services.NewConvocatoriaService(convRepo, tipoRepo, archivoRepo, store, c, logg)
	archivoSvc := services.NewArchivoService(convRepo, archivoRepo, store, c, logg)

	ctx := context.Background()

	if err := authSvc.EnsureAdmin(ctx, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.Fatalf("bootstrap admin error: %v", err)
	}

	sweepInterval, _ := strconv.Atoi(os.Getenv("SWEEP_INTERVAL_MINUTES"))
	sweeper := workers.NewOrphanSweeper(store, archivoRepo, logg, sweepInterval)
	if err := sweeper.Start(ctx); err != nil {
		log.Fatalf("orphan sweeper error: %v", err)
	}
	defer sweeper.Stop()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logg))

	corsCfg := cors.DefaultConfig()
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		corsCfg.AllowOrigins = strings.Split(origin, ",")
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:          handlers.NewAuthHandler(authSvc),
		Tipos:         handlers.NewTipoHandler(tipoSvc),
		Convocatorias: handlers.NewConvocatoriaHandler(convSvc),
		Archivos:      handlers.NewArchivoHandler(archivoSvc, os.Getenv("PUBLIC_BASE_URL")),
		JWTSecret:     jwtSecret,
		UploadsDir:    uploadsDir,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
