package spreadsheetrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gotariff/internal/domain"
	apperror "gotariff/internal/errors"
	"gotariff/internal/pkg/logger"
)

// SpreadsheetRepository é a camada de persistência do registro de destinos
// de publicação (IDs de Google Planilhas).
type SpreadsheetRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewSpreadsheetRepository cria e retorna uma nova instância do Repositório de Planilhas.
func NewSpreadsheetRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *SpreadsheetRepository {
	return &SpreadsheetRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// List retorna todos os destinos cadastrados. O publicador chama List a cada
// ciclo, então alterações no registro valem na próxima execução sem restart.
// Registro vazio é válido e significa "não publicar nada".
func (r *SpreadsheetRepository) List(ctx context.Context) ([]domain.Spreadsheet, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT spreadsheet_id FROM spreadsheets ORDER BY spreadsheet_id`)
	if err != nil {
		r.logger.Error("Falha ao listar planilhas no DB.", err)
		return nil, classifyStoreError("falha ao listar planilhas", err)
	}
	defer rows.Close()

	sheets := make([]domain.Spreadsheet, 0)
	for rows.Next() {
		var s domain.Spreadsheet
		if err := rows.Scan(&s.SpreadsheetID); err != nil {
			return nil, classifyStoreError("falha ao ler linha de planilha", err)
		}
		sheets = append(sheets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStoreError("falha ao iterar planilhas", err)
	}

	return sheets, nil
}

// Add cadastra um novo destino. A operação é idempotente: cadastrar um ID já
// existente é um no-op silencioso.
func (r *SpreadsheetRepository) Add(ctx context.Context, spreadsheetID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	_, err := r.DB.ExecContext(ctxTimeout,
		`INSERT INTO spreadsheets (spreadsheet_id) VALUES ($1) ON CONFLICT (spreadsheet_id) DO NOTHING`,
		spreadsheetID)
	if err != nil {
		r.logger.Error("Falha ao cadastrar planilha no DB.", err)
		return classifyStoreError("falha ao cadastrar planilha", err)
	}

	r.logger.Info("Planilha cadastrada.", map[string]interface{}{"spreadsheet_id": spreadsheetID})
	return nil
}

// Remove descadastra um destino. Retorna NotFoundError se o ID não existir.
func (r *SpreadsheetRepository) Remove(ctx context.Context, spreadsheetID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`DELETE FROM spreadsheets WHERE spreadsheet_id = $1`, spreadsheetID)
	if err != nil {
		r.logger.Error("Falha ao remover planilha no DB.", err)
		return classifyStoreError("falha ao remover planilha", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return classifyStoreError("falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Planilha %s não está cadastrada.", spreadsheetID))
	}

	r.logger.Info("Planilha removida.", map[string]interface{}{"spreadsheet_id": spreadsheetID})
	return nil
}

// classifyStoreError traduz erros do driver em StoreError com kind classificado.
func classifyStoreError(msg string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "23":
			return apperror.NewStoreError(apperror.StoreConstraintViolation, msg, err)
		case "08":
			return apperror.NewStoreError(apperror.StoreConnectionFailure, msg, err)
		}
	}
	return apperror.NewStoreError(apperror.StoreUnknown, msg, err)
}
