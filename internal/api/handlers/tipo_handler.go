package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/munivilla/portal/internal/services"
	"github.com/munivilla/portal/internal/utils"
)

type TipoHandler struct {
	svc services.TipoService
}

func NewTipoHandler(svc services.TipoService) *TipoHandler {
	return &TipoHandler{svc: svc}
}

type tipoRequest struct {
	Nombre      *string `json:"nombre,omitempty"`
	Descripcion *string `json:"descripcion,omitempty"`
	Activo      *bool   `json:"activo,omitempty"`
}

func (r tipoRequest) input() services.TipoInput {
	return services.TipoInput{
		Nombre:      r.Nombre,
		Descripcion: r.Descripcion,
		Activo:      r.Activo,
	}
}

func (h *TipoHandler) List(c *gin.Context) {
	tipos, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tipos": tipos})
}

func (h *TipoHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TipoHandler) Create(c *gin.Context) {
	var req tipoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TipoHandler.Create", "invalid request body", err))
		return
	}
	t, err := h.svc.Create(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *TipoHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req tipoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TipoHandler.Update", "invalid request body", err))
		return
	}
	t, err := h.svc.Update(c.Request.Context(), id, req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TipoHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tipo deleted"})
}
