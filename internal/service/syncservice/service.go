package syncservice

import (
	"context"

	"gotariff/internal/domain"
	"gotariff/internal/pkg/logger"
)

// TariffFetcher define o contrato que o Orquestrador espera do cliente da API WB.
type TariffFetcher interface {
	FetchTariffs(ctx context.Context, date string) ([]domain.WarehouseTariff, error)
}

// TariffRepository define o contrato que o Orquestrador espera da camada de
// Persistência de tarifas.
type TariffRepository interface {
	SaveTariffs(ctx context.Context, tariffs []domain.WarehouseTariff, date string) error
	GetTariffsByDate(ctx context.Context, date string) ([]domain.WarehouseTariff, error)
}

// Publisher define o contrato que o Orquestrador espera do publicador de
// planilhas. PublishAll é best-effort e nunca retorna erro.
type Publisher interface {
	PublishAll(ctx context.Context, tariffs []domain.WarehouseTariff)
}

// Service é o orquestrador de um ciclo de sincronização:
// fetch → persistência → releitura → publicação.
type Service struct {
	fetcher   TariffFetcher
	repo      TariffRepository
	publisher Publisher
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Orquestrador.
func NewService(fetcher TariffFetcher, repo TariffRepository, publisher Publisher, log logger.Logger) *Service {
	return &Service{
		fetcher:   fetcher,
		repo:      repo,
		publisher: publisher,
		logger:    log,
	}
}

// RunCycle executa um ciclo completo para a data informada. Os estágios são
// estritamente sequenciais e a falha de um estágio encerra apenas o ciclo
// corrente: o erro é logado com contexto e nada além do que já foi persistido
// sobrevive ao ciclo. Nenhum estado é carregado entre invocações.
func (s *Service) RunCycle(ctx context.Context, today string) {
	s.logger.Info("🔄 Iniciando ciclo de sincronização de tarifas.", map[string]interface{}{"date": today})

	// 1. Fetch: falha aqui não toca o banco nem a publicação.
	tariffs, err := s.fetcher.FetchTariffs(ctx, today)
	if err != nil {
		s.logger.Error("Ciclo encerrado: falha no fetch de tarifas.", err)
		return
	}
	s.logger.Info("📥 Tarifas recebidas.", map[string]interface{}{
		"date":       today,
		"warehouses": len(tariffs),
	})

	// 2. Persistência: falha pula a publicação e preserva o snapshot anterior do dia.
	if err := s.repo.SaveTariffs(ctx, tariffs, today); err != nil {
		s.logger.Error("Ciclo encerrado: falha ao persistir tarifas.", err)
		return
	}

	// 3. Releitura: publica-se o snapshot autoritativo e ordenado do banco,
	// não os valores recém-buscados. O que vai para as planilhas é exatamente
	// o que está durável.
	snapshot, err := s.repo.GetTariffsByDate(ctx, today)
	if err != nil {
		s.logger.Error("Ciclo encerrado: falha ao reler o snapshot.", err)
		return
	}

	// 4. Publicação: best-effort, falhas contidas por destino dentro do publicador.
	s.publisher.PublishAll(ctx, snapshot)

	s.logger.Info("✅ Ciclo de sincronização concluído.", map[string]interface{}{"date": today})
}
