package dto

type CriarFornecedorRequest struct {
	RazaoSocial string  `json:"razao_social" validate:"required,min=2"`
	CNPJ        string  `json:"cnpj"         validate:"required,min=14,max=18"`
	Telefone    *string `json:"telefone"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Endereco    *string `json:"endereco"`
	Observacoes *string `json:"observacoes"`
}

type AtualizarFornecedorRequest struct {
	RazaoSocial *string `json:"razao_social" validate:"omitempty,min=2"`
	Telefone    *string `json:"telefone"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Endereco    *string `json:"endereco"`
	Observacoes *string `json:"observacoes"`
}

type FornecedorResponse struct {
	ID          string  `json:"id"`
	RazaoSocial string  `json:"razao_social"`
	CNPJ        string  `json:"cnpj"`
	Telefone    *string `json:"telefone"`
	Email       *string `json:"email"`
	Endereco    *string `json:"endereco"`
	Observacoes *string `json:"observacoes"`
	Ativo       bool    `json:"ativo"`
	CreatedAt   string  `json:"created_at"`
}
