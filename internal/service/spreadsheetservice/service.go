package spreadsheetservice

import (
	"context"
	"strings"

	"gotariff/internal/domain"
	apperror "gotariff/internal/errors"
	"gotariff/internal/pkg/logger"
)

// SpreadsheetRepository define o contrato que o Serviço de Planilhas espera da
// camada de Persistência.
type SpreadsheetRepository interface {
	List(ctx context.Context) ([]domain.Spreadsheet, error)
	Add(ctx context.Context, spreadsheetID string) error
	Remove(ctx context.Context, spreadsheetID string) error
}

// Service gerencia o registro de destinos de publicação via API.
type Service struct {
	repo   SpreadsheetRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Planilhas.
func NewService(repo SpreadsheetRepository, log logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// ListSpreadsheets retorna todos os destinos cadastrados.
func (s *Service) ListSpreadsheets(ctx context.Context) ([]domain.Spreadsheet, error) {
	sheets, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Falha ao listar planilhas.", err)
		return nil, err
	}
	return sheets, nil
}

// RegisterSpreadsheet cadastra um novo destino. O ID passa a ser considerado
// já no próximo ciclo de sincronização. Cadastro repetido é idempotente.
func (s *Service) RegisterSpreadsheet(ctx context.Context, spreadsheetID string) error {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return apperror.NewValidationError("O spreadsheet_id não pode ser vazio.")
	}

	if err := s.repo.Add(ctx, spreadsheetID); err != nil {
		s.logger.Error("Falha ao cadastrar planilha.", err)
		return err
	}
	return nil
}

// UnregisterSpreadsheet remove um destino do registro.
func (s *Service) UnregisterSpreadsheet(ctx context.Context, spreadsheetID string) error {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return apperror.NewValidationError("O spreadsheet_id não pode ser vazio.")
	}

	if err := s.repo.Remove(ctx, spreadsheetID); err != nil {
		return err
	}
	return nil
}
