package handler

import (
	"net/http"

	"bancapdv/internal/apierror"
	"bancapdv/internal/dto"
	"bancapdv/internal/middleware"
	"bancapdv/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DespesasHandler struct{ svc service.DespesaService }

func NewDespesasHandler(svc service.DespesaService) *DespesasHandler {
	return &DespesasHandler{svc: svc}
}

func (h *DespesasHandler) Criar(c *gin.Context) {
	var req dto.CriarDespesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarDespesa(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DespesasHandler) Obter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ObterDespesa(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DespesasHandler) Listar(c *gin.Context) {
	var filter dto.DespesaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarDespesas(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar despesas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pagar godoc
// @Summary Quita uma despesa
// @Description Origem "caixa" lança uma saída no razão da sessão aberta; "externa" apenas marca como paga.
// @Tags despesas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id   path string                  true "UUID da despesa"
// @Param body body dto.PagarDespesaRequest true "Origem do pagamento"
// @Success 200 {object} dto.DespesaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/despesas/{id}/pagar [post]
func (h *DespesasHandler) Pagar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.PagarDespesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.PagarDespesa(c.Request.Context(), usuarioID, id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
