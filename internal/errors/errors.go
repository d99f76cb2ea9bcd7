package errors

import (
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do serviço.
// Ela permite que o código externo (Handler, Orquestrador) acesse a Categoria
// e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "FETCH_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// UnauthorizedError representa uma requisição sem credencial válida.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autorização.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// --- Erros do Pipeline de Sincronização ---
//
// Cada estágio do ciclo (fetch, store, publish) tem seu próprio tipo de erro
// com um Kind classificado. FetchError e StoreError abortam apenas o ciclo
// corrente; PublishError é contido por destino dentro do publicador e nunca
// propaga para fora dele.

// FetchKind classifica as falhas do estágio de fetch na API WB.
type FetchKind string

const (
	FetchInvalidSchema FetchKind = "INVALID_SCHEMA" // resposta sem a lista de armazéns ou malformada
	FetchUnauthorized  FetchKind = "UNAUTHORIZED"   // HTTP 401
	FetchRateLimited   FetchKind = "RATE_LIMITED"   // HTTP 429
	FetchTransport     FetchKind = "TRANSPORT"      // timeout, conexão, demais status não-2xx
)

// FetchError representa uma falha ao buscar tarifas na API WB.
type FetchError struct {
	Kind FetchKind
	Msg  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Erro de Fetch (%s): %s", e.Kind, e.Msg)
}
func (e *FetchError) Category() string { return "FETCH_ERROR" }
func (e *FetchError) HTTPStatus() int  { return http.StatusBadGateway } // 502
func (e *FetchError) Unwrap() error    { return e.Err }

// NewFetchError cria um erro de fetch com o kind classificado.
func NewFetchError(kind FetchKind, msg string, err error) *FetchError {
	return &FetchError{Kind: kind, Msg: msg, Err: err}
}

// StoreKind classifica as falhas da camada de persistência.
type StoreKind string

const (
	StoreConnectionFailure   StoreKind = "CONNECTION_FAILURE"
	StoreConstraintViolation StoreKind = "CONSTRAINT_VIOLATION"
	StoreUnknown             StoreKind = "UNKNOWN"
)

// StoreError representa uma falha ao persistir ou ler tarifas no banco.
type StoreError struct {
	Kind StoreKind
	Msg  string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("Erro de Persistência (%s): %s", e.Kind, e.Msg)
}
func (e *StoreError) Category() string { return "STORE_ERROR" }
func (e *StoreError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *StoreError) Unwrap() error    { return e.Err }

// NewStoreError cria um erro de persistência com o kind classificado.
func NewStoreError(kind StoreKind, msg string, err error) *StoreError {
	return &StoreError{Kind: kind, Msg: msg, Err: err}
}

// PublishKind classifica as falhas de publicação em uma planilha.
type PublishKind string

const (
	PublishAuth      PublishKind = "AUTH"      // credencial ausente/inválida (401/403)
	PublishNotFound  PublishKind = "NOT_FOUND" // planilha inexistente (404)
	PublishTransport PublishKind = "TRANSPORT"
)

// PublishError representa uma falha ao atualizar um destino específico.
// O erro carrega o ID da planilha para diagnóstico nos logs.
type PublishError struct {
	Kind          PublishKind
	SpreadsheetID string
	Msg           string
	Err           error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("Erro de Publicação (%s) na planilha %s: %s", e.Kind, e.SpreadsheetID, e.Msg)
}
func (e *PublishError) Category() string { return "PUBLISH_ERROR" }
func (e *PublishError) HTTPStatus() int  { return http.StatusBadGateway } // 502
func (e *PublishError) Unwrap() error    { return e.Err }

// NewPublishError cria um erro de publicação escopado a um destino.
func NewPublishError(kind PublishKind, spreadsheetID, msg string, err error) *PublishError {
	return &PublishError{Kind: kind, SpreadsheetID: spreadsheetID, Msg: msg, Err: err}
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
func MapToHTTPStatus(err error) (int, string, string) {
	if appErr, ok := err.(AppError); ok {
		// O erro é tipado (ValidationError, StoreError, etc.)
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado: tratar como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}
