package tariffservice

import (
	"context"
	"time"

	"gotariff/internal/domain"
	apperror "gotariff/internal/errors"
	"gotariff/internal/pkg/logger"
)

// TariffRepository define o contrato que o Serviço de Tarifas espera da camada
// de Persistência.
type TariffRepository interface {
	GetTariffsByDate(ctx context.Context, date string) ([]domain.WarehouseTariff, error)
}

// Service expõe a leitura do snapshot de tarifas para a API HTTP.
type Service struct {
	repo   TariffRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Tarifas.
func NewService(repo TariffRepository, log logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// GetTariffsForDate retorna o snapshot da data, ordenado por coeficiente de
// entrega ascendente. A data deve estar no formato YYYY-MM-DD.
func (s *Service) GetTariffsForDate(ctx context.Context, date string) ([]domain.WarehouseTariff, error) {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, apperror.NewValidationError("A data deve estar no formato YYYY-MM-DD.")
	}

	tariffs, err := s.repo.GetTariffsByDate(ctx, date)
	if err != nil {
		s.logger.Error("Falha ao buscar snapshot de tarifas.", err)
		return nil, err
	}

	return tariffs, nil
}
