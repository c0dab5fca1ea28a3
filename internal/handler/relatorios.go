package handler

import (
	"net/http"

	"bancapdv/internal/apierror"
	"bancapdv/internal/dto"
	"bancapdv/internal/service"

	"github.com/gin-gonic/gin"
)

type RelatoriosHandler struct{ svc service.RelatorioService }

func NewRelatoriosHandler(svc service.RelatorioService) *RelatoriosHandler {
	return &RelatoriosHandler{svc: svc}
}

func (h *RelatoriosHandler) bindFilter(c *gin.Context) (dto.RelatorioFilter, bool) {
	var filter dto.RelatorioFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return filter, false
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Filtro inválido: "+err.Error()))
		return filter, false
	}
	return filter, true
}

// Resumo godoc
// @Summary Resumo do período: totais e quebras por categoria e forma de pagamento
// @Tags relatorios
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ResumoPeriodoResponse
// @Router /v1/relatorios/resumo [get]
func (h *RelatoriosHandler) Resumo(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	resp, err := h.svc.ResumoPeriodo(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao gerar resumo"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RelatoriosHandler) Movimentacoes(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	resp, err := h.svc.Movimentacoes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar movimentações"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *RelatoriosHandler) Sessoes(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	resp, err := h.svc.Sessoes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar sessões"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
