package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/munivilla/portal/internal/models"
	"github.com/munivilla/portal/internal/services"
	"github.com/munivilla/portal/internal/utils"
)

// ArchivoHandler serves the attachment endpoints nested under a
// convocatoria. publicBaseURL, when configured, overrides the request host
// for building archivo_url values (needed behind a reverse proxy).
type ArchivoHandler struct {
	svc           services.ArchivoService
	publicBaseURL string
}

func NewArchivoHandler(svc services.ArchivoService, publicBaseURL string) *ArchivoHandler {
	return &ArchivoHandler{svc: svc, publicBaseURL: publicBaseURL}
}

func (h *ArchivoHandler) Upload(c *gin.Context) {
	const op = "ArchivoHandler.Upload"

	convocatoriaID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "multipart/form-data body is required", err))
		return
	}

	files := form.File["archivos"]
	if len(files) == 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "at least one file is required in field 'archivos'", nil))
		return
	}

	tipo := models.TipoArchivo(c.PostForm("tipo_archivo"))
	nombre := c.PostForm("nombre")

	archivos, err := h.svc.Upload(c.Request.Context(), convocatoriaID, tipo, nombre, files, h.baseURL(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"archivos": archivos})
}

func (h *ArchivoHandler) Delete(c *gin.Context) {
	convocatoriaID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	archivoID, ok := uintParam(c, "archivoId")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), convocatoriaID, archivoID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "archivo deleted"})
}

func (h *ArchivoHandler) baseURL(c *gin.Context) string {
	if h.publicBaseURL != "" {
		return strings.TrimRight(h.publicBaseURL, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
