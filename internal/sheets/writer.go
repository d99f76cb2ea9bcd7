package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	apperror "gotariff/internal/errors"
)

// ValuesWriter define o contrato de escrita em uma planilha que o Publicador
// usa: limpar uma região e escrever uma tabela a partir da primeira célula.
// A implementação concreta usa a API do Google Sheets; os testes usam um mock.
type ValuesWriter interface {
	Clear(ctx context.Context, spreadsheetID, sheetRange string) error
	Update(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error
}

// GoogleValuesWriter é a implementação concreta de ValuesWriter sobre a API
// do Google Sheets v4.
type GoogleValuesWriter struct {
	service *sheetsv4.Service
}

// NewGoogleValuesWriter cria o writer autenticado com as credenciais JSON da
// service account. Falha se o JSON for inválido.
func NewGoogleValuesWriter(ctx context.Context, credentialsJSON string) (*GoogleValuesWriter, error) {
	service, err := sheetsv4.NewService(ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("falha ao inicializar o cliente do Google Sheets: %w", err)
	}
	return &GoogleValuesWriter{service: service}, nil
}

// Clear limpa a região nomeada da planilha.
func (g *GoogleValuesWriter) Clear(ctx context.Context, spreadsheetID, sheetRange string) error {
	_, err := g.service.Spreadsheets.Values.
		Clear(spreadsheetID, sheetRange, &sheetsv4.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return classifyPublishError(spreadsheetID, "falha ao limpar a região", err)
	}
	return nil
}

// Update escreve a tabela a partir da primeira célula da região, com input RAW
// (sem interpretação de fórmulas pelo Sheets).
func (g *GoogleValuesWriter) Update(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error {
	_, err := g.service.Spreadsheets.Values.
		Update(spreadsheetID, sheetRange, &sheetsv4.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return classifyPublishError(spreadsheetID, "falha ao escrever a tabela", err)
	}
	return nil
}

// classifyPublishError traduz erros da API Google em PublishError com kind.
func classifyPublishError(spreadsheetID, msg string, err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		switch gErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperror.NewPublishError(apperror.PublishAuth, spreadsheetID, msg, err)
		case http.StatusNotFound:
			return apperror.NewPublishError(apperror.PublishNotFound, spreadsheetID, msg, err)
		}
	}
	return apperror.NewPublishError(apperror.PublishTransport, spreadsheetID, msg, err)
}

// UnconfiguredWriter é o writer usado quando GOOGLE_SHEETS_CREDENTIALS_JSON
// não está configurado. Cada chamada falha com um erro de autenticação,
// deixando a degradação visível nos logs de cada ciclo sem derrubar o processo.
type UnconfiguredWriter struct{}

// NewUnconfiguredWriter cria o writer de degradação suave.
func NewUnconfiguredWriter() *UnconfiguredWriter {
	return &UnconfiguredWriter{}
}

func (u *UnconfiguredWriter) Clear(ctx context.Context, spreadsheetID, sheetRange string) error {
	return apperror.NewPublishError(apperror.PublishAuth, spreadsheetID,
		"credencial do Google Sheets não configurada", nil)
}

func (u *UnconfiguredWriter) Update(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error {
	return apperror.NewPublishError(apperror.PublishAuth, spreadsheetID,
		"credencial do Google Sheets não configurada", nil)
}
