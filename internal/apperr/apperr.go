// Package apperr defines the domain error taxonomy shared by repositories,
// services, and handlers. Every failed precondition surfaces as one of these
// sentinels — never a generic untyped error — so callers can branch with
// errors.Is and the HTTP layer can choose the right status code.
package apperr

import "errors"

var (
	// ErrSessaoJaAberta: attempted double-open of a caixa that already has an
	// open session. Raised by the storage layer (partial unique index), not by
	// an application-level check-then-act.
	ErrSessaoJaAberta = errors.New("já existe uma sessão aberta para este caixa")

	ErrSessaoNaoEncontrada = errors.New("sessão de caixa não encontrada")

	// ErrSessaoJaFechada: close attempted on an already-closed session.
	ErrSessaoJaFechada = errors.New("a sessão de caixa já está fechada")

	// ErrSessaoFechada: movement attempted against a closed session.
	ErrSessaoFechada = errors.New("a sessão de caixa está fechada")

	ErrCaixaInvalido = errors.New("caixa inexistente ou inativo")

	ErrValorInvalido = errors.New("o valor deve ser maior que zero")

	// ErrSemSessaoAberta: sale attempted with no open till for the caixa.
	ErrSemSessaoAberta = errors.New("não há sessão de caixa aberta")

	ErrEstoqueInsuficiente = errors.New("estoque insuficiente")

	ErrVendaNaoEncontrada = errors.New("venda não encontrada")
	ErrVendaJaCancelada   = errors.New("a venda já está cancelada")

	// ErrTotalDivergente: the client-declared total does not match the total
	// recomputed from catalog prices (tampering defense).
	ErrTotalDivergente = errors.New("o total informado diverge do total calculado")

	ErrPagamentoInsuficiente = errors.New("o valor total dos pagamentos é insuficiente")

	ErrDespesaJaPaga = errors.New("a despesa já está paga")

	ErrRegistroNaoEncontrado = errors.New("registro não encontrado")

	// ErrPersistenciaIndisponivel: transient storage failure that survived the
	// bounded retry policy. Callers may retry the whole operation.
	ErrPersistenciaIndisponivel = errors.New("armazenamento temporariamente indisponível")
)
