package handler

import (
	"net/http"
	"strconv"

	"bancapdv/internal/apierror"
	"bancapdv/internal/dto"
	"bancapdv/internal/middleware"
	"bancapdv/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CaixaHandler struct{ svc service.CaixaService }

func NewCaixaHandler(svc service.CaixaService) *CaixaHandler { return &CaixaHandler{svc: svc} }

// ── Registers ────────────────────────────────────────────────────────────────

func (h *CaixaHandler) CriarCaixa(c *gin.Context) {
	var req dto.CriarCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarCaixa(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CaixaHandler) ListarCaixas(c *gin.Context) {
	incluirInativos := c.Query("incluir_inativos") == "true"
	resp, err := h.svc.ListarCaixas(c.Request.Context(), incluirInativos)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar caixas"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *CaixaHandler) DesativarCaixa(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.DesativarCaixa(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Sessions ─────────────────────────────────────────────────────────────────

// AbrirSessao godoc
// @Summary Abre uma sessão de caixa
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirSessaoRequest true "Dados de abertura"
// @Success 201 {object} dto.SessaoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/sessoes [post]
func (h *CaixaHandler) AbrirSessao(c *gin.Context) {
	var req dto.AbrirSessaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AbrirSessao(c.Request.Context(), usuarioID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// FecharSessao godoc
// @Summary Fecha a sessão e concilia o dinheiro contado contra o razão
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FecharSessaoRequest true "Valor contado na gaveta"
// @Success 200 {object} dto.FechamentoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/sessoes/fechar [post]
func (h *CaixaHandler) FecharSessao(c *gin.Context) {
	var req dto.FecharSessaoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.FecharSessao(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CaixaHandler) ObterSessao(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ObterSessao(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SessaoAtiva returns the open session of the authenticated user, if any.
func (h *CaixaHandler) SessaoAtiva(c *gin.Context) {
	claims := middleware.GetClaims(c)
	usuarioID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuário inválido"))
		return
	}
	sessao, err := h.svc.SessaoAbertaPorUsuario(c.Request.Context(), usuarioID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Sem sessão aberta"))
		return
	}
	resp, err := h.svc.ObterSessao(c.Request.Context(), sessao.ID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarSessoes returns paginated session history, optionally per caixa.
func (h *CaixaHandler) ListarSessoes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var caixaID *uuid.UUID
	if q := c.Query("caixa_id"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("caixa_id inválido"))
			return
		}
		caixaID = &id
	}

	resp, err := h.svc.ListarSessoes(c.Request.Context(), caixaID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar sessões"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimentacoes returns the full ledger of one session, oldest first.
func (h *CaixaHandler) ListarMovimentacoes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ListarMovimentacoes(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ── Movements ────────────────────────────────────────────────────────────────

// RegistrarMovimentacao godoc
// @Summary Registra uma entrada ou saída manual no caixa
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimentacaoManualRequest true "Movimentação manual"
// @Success 201 {object} dto.MovimentacaoResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/movimentacoes [post]
func (h *CaixaHandler) RegistrarMovimentacao(c *gin.Context) {
	var req dto.MovimentacaoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RegistrarMovimentacao(c.Request.Context(), usuarioID, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
