package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/munivilla/portal/internal/models"
	mysqlrepo "github.com/munivilla/portal/internal/repositories/mysql"
	"github.com/munivilla/portal/internal/services"
	"github.com/munivilla/portal/internal/utils"
)

type ConvocatoriaHandler struct {
	svc services.ConvocatoriaService
}

func NewConvocatoriaHandler(svc services.ConvocatoriaService) *ConvocatoriaHandler {
	return &ConvocatoriaHandler{svc: svc}
}

type convocatoriaRequest struct {
	TipoID        *uint                      `json:"tipo_id,omitempty"`
	NombreProceso *string                    `json:"nombre_proceso,omitempty"`
	Descripcion   *string                    `json:"descripcion,omitempty"`
	FechaInicio   *string                    `json:"fecha_inicio,omitempty"`
	FechaFin      *string                    `json:"fecha_fin,omitempty"`
	Estado        *models.ConvocatoriaEstado `json:"estado,omitempty"`
	Activa        *bool                      `json:"activa,omitempty"`
}

func (r convocatoriaRequest) input() services.ConvocatoriaInput {
	return services.ConvocatoriaInput{
		TipoID:        r.TipoID,
		NombreProceso: r.NombreProceso,
		Descripcion:   r.Descripcion,
		FechaInicio:   r.FechaInicio,
		FechaFin:      r.FechaFin,
		Estado:        r.Estado,
		Activa:        r.Activa,
	}
}

func (h *ConvocatoriaHandler) List(c *gin.Context) {
	f := mysqlrepo.ConvocatoriaFilter{}

	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}
	if v := c.Query("tipo_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, "ConvocatoriaHandler.List", "tipo_id must be a positive integer", err))
			return
		}
		id := uint(n)
		f.TipoID = &id
	}
	if v := c.Query("estado"); v != "" {
		estado := models.ConvocatoriaEstado(v)
		f.Estado = &estado
	}
	if v := c.Query("activa"); v != "" {
		activa, err := strconv.ParseBool(v)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, "ConvocatoriaHandler.List", "activa must be true or false", err))
			return
		}
		f.Activa = &activa
	}

	out, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ConvocatoriaHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ConvocatoriaHandler) Create(c *gin.Context) {
	var req convocatoriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ConvocatoriaHandler.Create", "invalid request body", err))
		return
	}
	created, err := h.svc.Create(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ConvocatoriaHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req convocatoriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ConvocatoriaHandler.Update", "invalid request body", err))
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), id, req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ConvocatoriaHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "convocatoria deleted"})
}
