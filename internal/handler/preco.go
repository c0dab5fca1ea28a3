package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bancapdv/internal/apierror"
	"bancapdv/internal/dto"
	"bancapdv/internal/repository"
	"bancapdv/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const precoCacheTTL = 5 * time.Minute

// PrecoHandler serves the public price check endpoint.
// No authentication required — no side effects whatsoever.
type PrecoHandler struct {
	repo repository.ProdutoRepository
	rdb  *redis.Client
}

func NewPrecoHandler(repo repository.ProdutoRepository, rdb *redis.Client) *PrecoHandler {
	return &PrecoHandler{repo: repo, rdb: rdb}
}

// GetPrecoPorBarcode godoc
// @Summary Consulta de preço por código de barras (sem autenticação)
// @Tags preco
// @Produce json
// @Param barcode path string true "Código de barras"
// @Success 200 {object} dto.ConsultaPrecoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/preco/{barcode} [get]
func (h *PrecoHandler) GetPrecoPorBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	ctx := c.Request.Context()
	cacheKey := service.PrecoCacheKey(barcode)

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.ConsultaPrecoResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	produto, err := h.repo.FindByBarcode(ctx, barcode)
	if err != nil || !produto.Ativo {
		c.JSON(http.StatusNotFound, apierror.New("Produto não encontrado"))
		return
	}

	resp := dto.ConsultaPrecoResponse{
		Nome:              produto.Nome,
		PrecoVenda:        produto.PrecoVenda,
		EstoqueDisponivel: produto.EstoqueAtual,
		Categoria:         produto.Categoria,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, precoCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
