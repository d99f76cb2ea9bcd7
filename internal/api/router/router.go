package router

import (
	"net/http"
	"time"

	"gotariff/internal/api/spreadsheet"
	"gotariff/internal/api/sync"
	"gotariff/internal/api/tariff"
	"gotariff/internal/pkg/cache"
	"gotariff/internal/pkg/middleware"
)

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(
	tariffHandler *tariff.Handler,
	spreadsheetHandler *spreadsheet.Handler,
	syncHandler *sync.Handler,
	adminToken string,
	cacheClient cache.Client,
	rateLimit int,
	ratePeriod time.Duration,
) http.Handler {

	// Usamos o ServeMux padrão do net/http para roteamento
	mux := http.NewServeMux()

	adminOnly := middleware.AdminTokenMiddleware(adminToken)

	// --- 1. Rotas de Health Check ---
	mux.HandleFunc("/ping", PingHandler)

	// --- 2. Snapshot de tarifas (leitura pública) ---
	// GET /v1/tariffs?date=YYYY-MM-DD
	mux.HandleFunc("/v1/tariffs", tariffHandler.GetTariffsHandler)

	// --- 3. Registro de planilhas (escrita protegida) ---
	// GET lista; POST cadastra; DELETE /v1/spreadsheets/{id} remove.
	mux.HandleFunc("/v1/spreadsheets", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			spreadsheetHandler.SpreadsheetsHandler(w, r)
			return
		}
		adminOnly(spreadsheetHandler.SpreadsheetsHandler)(w, r)
	})
	mux.HandleFunc("/v1/spreadsheets/", adminOnly(spreadsheetHandler.DeleteSpreadsheetHandler))

	// --- 4. Disparo manual de ciclo (protegido) ---
	mux.HandleFunc("/v1/sync", adminOnly(syncHandler.TriggerSyncHandler))

	// --- 5. Middlewares globais ---
	return middleware.RateLimiter(cacheClient, rateLimit, ratePeriod)(mux)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
