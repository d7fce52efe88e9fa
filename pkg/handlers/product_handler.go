package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"scenario-sim-api/pkg/services"
)

// ProductHandler は商品カタログのハンドラです。
type ProductHandler struct {
	catalog *services.CatalogService
}

// NewProductHandler は新しいProductHandlerを生成します。
func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) List(c *gin.Context) {
	respond(c, http.StatusOK, h.catalog.List())
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

// Import はアップロードされた .csv / .xlsx から商品を取り込みます。
func (h *ProductHandler) Import(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "File is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	result, err := h.catalog.Import(file, header.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}
