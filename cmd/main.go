package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"gotariff/config"
	"gotariff/internal/pkg/cache"
	"gotariff/internal/pkg/database"
	"gotariff/internal/pkg/logger"

	// Camadas do pipeline de sincronização
	"gotariff/internal/repository/spreadsheetrepo"
	"gotariff/internal/repository/tariffrepo"
	"gotariff/internal/scheduler"
	"gotariff/internal/service/syncservice"
	"gotariff/internal/sheets"
	"gotariff/internal/wbapi"

	// Camada de apresentação (API HTTP)
	"gotariff/internal/api/router"
	apispreadsheet "gotariff/internal/api/spreadsheet"
	apisync "gotariff/internal/api/sync"
	apitariff "gotariff/internal/api/tariff"
	"gotariff/internal/service/spreadsheetservice"
	"gotariff/internal/service/tariffservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço de tarifas WB...")

	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	logg := logger.NewLogger(cfg.LogLevel)
	logg.Info("Configurações carregadas.", nil)

	// Credenciais ausentes não derrubam o processo: o estágio correspondente
	// falha a cada ciclo e isso fica visível nos logs (degradação suave).
	if !cfg.HasWBAPIKey() {
		logg.Warn("⚠️ WB_API_KEY não configurada. O fetch de tarifas falhará a cada ciclo.", nil)
	}
	if !cfg.HasGoogleCredentials() {
		logg.Warn("⚠️ GOOGLE_SHEETS_CREDENTIALS_JSON não configurada. A publicação nas planilhas falhará por destino.", nil)
	}
	if cfg.AdminToken == "" {
		logg.Warn("⚠️ ADMIN_TOKEN não configurado. As rotas administrativas estão abertas.", nil)
	}

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		logg.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	logg.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	logg.Info("Conexão Redis estabelecida.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Componentes do pipeline -> Service -> Handler

	tariffRepo := tariffrepo.NewTariffRepository(db, cacheClient, cfg.DBTimeout, logg)
	sheetRepo := spreadsheetrepo.NewSpreadsheetRepository(db, cfg.DBTimeout, logg)

	fetcher := wbapi.NewClient(cfg.WBAPIBaseURL, cfg.WBAPIKey, cfg.WBAPITimeout, logg)

	var writer sheets.ValuesWriter
	if cfg.HasGoogleCredentials() {
		gw, err := sheets.NewGoogleValuesWriter(context.Background(), cfg.GoogleCredentialsJSON)
		if err != nil {
			logg.Fatal("Falha ao inicializar o cliente do Google Sheets.", err)
		}
		writer = gw
	} else {
		writer = sheets.NewUnconfiguredWriter()
	}
	publisher := sheets.NewPublisher(writer, sheetRepo, cfg.SheetName, logg)

	syncSvc := syncservice.NewService(fetcher, tariffRepo, publisher, logg)
	tariffSvc := tariffservice.NewService(tariffRepo, logg)
	sheetSvc := spreadsheetservice.NewService(sheetRepo, logg)

	tariffHandler := apitariff.NewHandler(tariffSvc, logg)
	spreadsheetHandler := apispreadsheet.NewHandler(sheetSvc, logg)
	syncHandler := apisync.NewHandler(syncSvc, logg)

	// 4. Scheduler: primeiro ciclo imediato, depois a cada fronteira do intervalo
	schedCtx, stopScheduler := context.WithCancel(context.Background())
	sched := scheduler.NewScheduler(syncSvc, cfg.SyncInterval, logg)

	schedDone := make(chan struct{})
	go func() {
		sched.Run(schedCtx)
		close(schedDone)
	}()
	logg.Info("🚀 Scheduler iniciado.", map[string]interface{}{"interval": cfg.SyncInterval.String()})

	// 5. Servidor HTTP
	r := router.NewRouter(tariffHandler, spreadsheetHandler, syncHandler,
		cfg.AdminToken, cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logg.Info("Servidor HTTP ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("Servidor falhou.", err)
		}
	}()

	// 6. Graceful Shutdown (captura de sinal)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logg.Info("🛑 Sinal de encerramento recebido. Desligando serviço...", nil)

	// Para de agendar novos ciclos; um ciclo em andamento termina normalmente.
	stopScheduler()
	<-schedDone

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logg.Error("Desligamento do servidor forçado.", err)
	}

	logg.Info("Serviço encerrado com sucesso.", nil)
}
