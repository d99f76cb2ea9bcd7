package tariff

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gotariff/internal/domain"
	apperror "gotariff/internal/errors"
	"gotariff/internal/pkg/logger"
)

// TariffService define o contrato que o Handler espera da camada de Serviço.
type TariffService interface {
	GetTariffsForDate(ctx context.Context, date string) ([]domain.WarehouseTariff, error)
}

// Handler agrupa os métodos de Handler do snapshot de tarifas.
type Handler struct {
	Service TariffService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc TariffService, log logger.Logger) *Handler {
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

// GetTariffsHandler lida com a requisição GET /v1/tariffs?date=YYYY-MM-DD.
// Sem o parâmetro date, retorna o snapshot do dia corrente.
func (h *Handler) GetTariffsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(domain.DateLayout)
	}

	tariffs, err := h.Service.GetTariffsForDate(ctx, date)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, tariffs, nil, http.StatusOK)
}
