package handler

import (
	"errors"
	"net/http"
	"reflect"

	"bancapdv/internal/apierror"
	"bancapdv/internal/apperr"
	"bancapdv/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// statusFor maps domain sentinels to HTTP status codes so handlers stay thin.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrSessaoNaoEncontrada),
		errors.Is(err, apperr.ErrVendaNaoEncontrada),
		errors.Is(err, apperr.ErrRegistroNaoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrSessaoJaAberta),
		errors.Is(err, apperr.ErrSessaoJaFechada),
		errors.Is(err, apperr.ErrSessaoFechada),
		errors.Is(err, apperr.ErrVendaJaCancelada),
		errors.Is(err, apperr.ErrSemSessaoAberta),
		errors.Is(err, apperr.ErrDespesaJaPaga),
		errors.Is(err, apperr.ErrEstoqueInsuficiente),
		errors.Is(err, repository.ErrCNPJDuplicado):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrTotalDivergente),
		errors.Is(err, apperr.ErrPagamentoInsuficiente),
		errors.Is(err, apperr.ErrValorInvalido):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrPersistenciaIndisponivel):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

// abortWithError writes the standard error envelope for a service error.
func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), apierror.New(err.Error()))
}
