package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"gotariff/internal/domain"
	"gotariff/internal/pkg/logger"
)

// CycleRunner define o contrato que o Handler espera do orquestrador.
type CycleRunner interface {
	RunCycle(ctx context.Context, today string)
}

// Handler dispara um ciclo de sincronização fora da cadência do scheduler.
type Handler struct {
	Runner CycleRunner
	Logger logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Orquestrador e o Logger.
func NewHandler(runner CycleRunner, log logger.Logger) *Handler {
	return &Handler{
		Runner: runner,
		Logger: log,
	}
}

// TriggerSyncHandler lida com POST /v1/sync: executa um ciclo para a data
// corrente em background e responde 202 imediatamente. O ciclo é o mesmo do
// scheduler, com a mesma contenção de falhas; o resultado fica nos logs.
func (h *Handler) TriggerSyncHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	today := time.Now().Format(domain.DateLayout)
	h.Logger.Info("Ciclo manual disparado via API.", map[string]interface{}{"date": today})

	// Desacoplado do contexto da requisição: o ciclo termina mesmo que o
	// cliente desconecte.
	go h.Runner.RunCycle(context.Background(), today)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "accepted",
		"date":   today,
	})
}
