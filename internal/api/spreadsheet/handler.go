package spreadsheet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gotariff/internal/domain"
	apperror "gotariff/internal/errors"
	"gotariff/internal/pkg/logger"
)

// SpreadsheetService define o contrato que o Handler espera da camada de Serviço.
type SpreadsheetService interface {
	ListSpreadsheets(ctx context.Context) ([]domain.Spreadsheet, error)
	RegisterSpreadsheet(ctx context.Context, spreadsheetID string) error
	UnregisterSpreadsheet(ctx context.Context, spreadsheetID string) error
}

// Handler agrupa os métodos de Handler do registro de planilhas.
type Handler struct {
	Service SpreadsheetService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc SpreadsheetService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// SpreadsheetsHandler lida com GET e POST em /v1/spreadsheets.
// GET lista os destinos; POST cadastra um novo (idempotente).
func (h *Handler) SpreadsheetsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listSpreadsheets(w, r)
	case http.MethodPost:
		h.registerSpreadsheet(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listSpreadsheets(w http.ResponseWriter, r *http.Request) {
	sheets, err := h.Service.ListSpreadsheets(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, sheets, nil, http.StatusOK)
}

func (h *Handler) registerSpreadsheet(w http.ResponseWriter, r *http.Request) {
	var sheet domain.Spreadsheet
	if err := json.NewDecoder(r.Body).Decode(&sheet); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	if err := h.Service.RegisterSpreadsheet(r.Context(), sheet.SpreadsheetID); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, sheet, nil, http.StatusCreated)
}

// DeleteSpreadsheetHandler lida com DELETE /v1/spreadsheets/{id}.
func (h *Handler) DeleteSpreadsheetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/spreadsheets/")

	if err := h.Service.UnregisterSpreadsheet(r.Context(), id); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}
