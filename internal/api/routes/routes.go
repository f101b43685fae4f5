package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/munivilla/portal/internal/api/handlers"
	"github.com/munivilla/portal/internal/api/middleware"
)

type Deps struct {
	Auth          *handlers.AuthHandler
	Tipos         *handlers.TipoHandler
	Convocatorias *handlers.ConvocatoriaHandler
	Archivos      *handlers.ArchivoHandler

	JWTSecret  string
	UploadsDir string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Uploaded files, served from a flat directory
	r.Static("/public/uploads", d.UploadsDir)

	api := r.Group("/api")

	api.POST("/auth/login", d.Auth.Login)

	// Public reads
	api.GET("/convocatorias", d.Convocatorias.List)
	api.GET("/convocatorias/:id", d.Convocatorias.Get)
	api.GET("/convocatoria-tipos", d.Tipos.List)
	api.GET("/convocatoria-tipos/:id", d.Tipos.Get)

	// Mutations require an admin token
	admin := api.Group("/")
	admin.Use(middleware.JWTAuth(d.JWTSecret), middleware.RequireAdmin())

	admin.POST("/convocatorias", d.Convocatorias.Create)
	admin.PUT("/convocatorias/:id", d.Convocatorias.Update)
	admin.DELETE("/convocatorias/:id", d.Convocatorias.Delete)

	admin.POST("/convocatorias/:id/archivos", d.Archivos.Upload)
	admin.DELETE("/convocatorias/:id/archivos/:archivoId", d.Archivos.Delete)

	admin.POST("/convocatoria-tipos", d.Tipos.Create)
	admin.PUT("/convocatoria-tipos/:id", d.Tipos.Update)
	admin.DELETE("/convocatoria-tipos/:id", d.Tipos.Delete)
}
