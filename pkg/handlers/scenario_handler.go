package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"scenario-sim-api/pkg/models"
	"scenario-sim-api/pkg/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ScenarioHandler はシナリオ計算・保存・比較のハンドラです。
type ScenarioHandler struct {
	scenarios *services.ScenarioService
	export    *services.ExportService
}

// NewScenarioHandler は新しいScenarioHandlerを生成します。
func NewScenarioHandler(scenarios *services.ScenarioService, export *services.ExportService) *ScenarioHandler {
	return &ScenarioHandler{scenarios: scenarios, export: export}
}

// Calculate は商品と要因セットからシナリオ結果を計算します。
func (h *ScenarioHandler) Calculate(c *gin.Context) {
	var req models.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	res, err := h.scenarios.Calculate(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

// Recommend は計算済みの結果を再評価します。
func (h *ScenarioHandler) Recommend(c *gin.Context) {
	var req models.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	respond(c, http.StatusOK, services.GenerateRecommendation(req.Outcome, req.Factors))
}

// Save はシナリオを計算してセッションに保存します。
func (h *ScenarioHandler) Save(c *gin.Context) {
	var req models.SaveScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	scenario, err := h.scenarios.Save(sessionID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, scenario)
}

func (h *ScenarioHandler) List(c *gin.Context) {
	respond(c, http.StatusOK, h.scenarios.List(sessionID(c)))
}

func (h *ScenarioHandler) Get(c *gin.Context) {
	scenario, err := h.scenarios.Get(sessionID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, scenario)
}

func (h *ScenarioHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.scenarios.Delete(sessionID(c), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}

// Clear はセッションのシナリオをすべて削除します。
func (h *ScenarioHandler) Clear(c *gin.Context) {
	n := h.scenarios.Clear(sessionID(c))
	respond(c, http.StatusOK, gin.H{"deleted": n})
}

// Compare は直近のシナリオを比較します。
func (h *ScenarioHandler) Compare(c *gin.Context) {
	respond(c, http.StatusOK, h.scenarios.Compare(sessionID(c)))
}

// Export は保存済みシナリオと比較結果を xlsx で返します。
func (h *ScenarioHandler) Export(c *gin.Context) {
	session := sessionID(c)

	var buf bytes.Buffer
	if err := h.export.WriteWorkbook(&buf, h.scenarios.List(session), h.scenarios.Compare(session)); err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("scenarios-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Sensitivity は1要因の感度分析を実行します。
func (h *ScenarioHandler) Sensitivity(c *gin.Context) {
	var req models.SensitivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	res, err := h.scenarios.Sensitivity(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, res)
}

// Levers は感度分析に使える要因名を返します。
func (h *ScenarioHandler) Levers(c *gin.Context) {
	respond(c, http.StatusOK, services.Levers())
}
