package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"scenario-sim-api/pkg/models"
	"scenario-sim-api/pkg/services"
)

// PresetHandler はプリセットと基準要因セットのハンドラです。
type PresetHandler struct {
	presets *services.PresetService
}

// NewPresetHandler は新しいPresetHandlerを生成します。
func NewPresetHandler(presets *services.PresetService) *PresetHandler {
	return &PresetHandler{presets: presets}
}

func (h *PresetHandler) List(c *gin.Context) {
	respond(c, http.StatusOK, h.presets.List())
}

func (h *PresetHandler) Get(c *gin.Context) {
	p, err := h.presets.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

// Apply はプリセットを要因セットに適用します。ボディが空の場合はデフォルト要因に適用します。
func (h *PresetHandler) Apply(c *gin.Context) {
	base := services.CreateDefaultFactors()
	var body models.AllFactors
	if err := c.ShouldBindJSON(&body); err == nil {
		base = body
	} else if !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	factors, err := h.presets.Apply(c.Param("id"), base)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, factors)
}

// DefaultFactors は基準の要因セットを返します。
func DefaultFactors(c *gin.Context) {
	respond(c, http.StatusOK, services.CreateDefaultFactors())
}

// NeutralFactors は需要変化が0になる要因セットを返します。
func NeutralFactors(c *gin.Context) {
	respond(c, http.StatusOK, services.NeutralFactors())
}
