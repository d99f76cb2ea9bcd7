package sheets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"gotariff/internal/domain"
	apperror "gotariff/internal/errors"
	"gotariff/internal/pkg/logger"
	"gotariff/internal/sheets"
)

// MockValuesWriter é uma implementação mock da interface ValuesWriter.
type MockValuesWriter struct {
	mock.Mock
}

func (m *MockValuesWriter) Clear(ctx context.Context, spreadsheetID, sheetRange string) error {
	args := m.Called(ctx, spreadsheetID, sheetRange)
	return args.Error(0)
}

func (m *MockValuesWriter) Update(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error {
	args := m.Called(ctx, spreadsheetID, sheetRange, values)
	return args.Error(0)
}

// MockDestinationLister é uma implementação mock da interface DestinationLister.
type MockDestinationLister struct {
	mock.Mock
}

func (m *MockDestinationLister) List(ctx context.Context) ([]domain.Spreadsheet, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Spreadsheet), args.Error(1)
}

var sampleTariffs = []domain.WarehouseTariff{
	{WarehouseName: "Казань", DeliveryCoef: 155, ReturnCoef: 120, StorageCoef: 0.5},
	{WarehouseName: "Коледино", DeliveryCoef: 170, ReturnCoef: 125, StorageCoef: 1.5},
}

var expectedTable = [][]interface{}{
	{"Warehouse", "DeliveryCoef", "ReturnCoef", "StorageCoef"},
	{"Казань", 155.0, 120.0, 0.5},
	{"Коледино", 170.0, 125.0, 1.5},
}

// TestPublishAll_EmptyDestinations testa que sem destinos cadastrados nenhuma
// chamada de rede é feita e a publicação termina sem erro.
func TestPublishAll_EmptyDestinations(t *testing.T) {
	mockWriter := new(MockValuesWriter)
	mockDests := new(MockDestinationLister)
	mockDests.On("List", mock.Anything).Return([]domain.Spreadsheet{}, nil)

	p := sheets.NewPublisher(mockWriter, mockDests, "stocks_coefs", logger.NewLogger("error"))
	p.PublishAll(context.Background(), sampleTariffs)

	mockWriter.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything, mock.Anything)
	mockWriter.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockDests.AssertExpectations(t)
}

// TestPublishAll_WritesTable testa o conteúdo e a região da tabela escrita:
// cabeçalho, uma linha por tarifa, na ordem recebida.
func TestPublishAll_WritesTable(t *testing.T) {
	mockWriter := new(MockValuesWriter)
	mockDests := new(MockDestinationLister)
	mockDests.On("List", mock.Anything).Return([]domain.Spreadsheet{{SpreadsheetID: "sheet-a"}}, nil)

	mockWriter.On("Clear", mock.Anything, "sheet-a", "stocks_coefs").Return(nil)
	mockWriter.On("Update", mock.Anything, "sheet-a", "stocks_coefs!A1", expectedTable).Return(nil)

	p := sheets.NewPublisher(mockWriter, mockDests, "stocks_coefs", logger.NewLogger("error"))
	p.PublishAll(context.Background(), sampleTariffs)

	mockWriter.AssertExpectations(t)
}

// TestPublishAll_PartialFailureIsolation testa que a falha de um destino não
// impede o outro de ser limpo e escrito, e que PublishAll não propaga erro.
func TestPublishAll_PartialFailureIsolation(t *testing.T) {
	mockWriter := new(MockValuesWriter)
	mockDests := new(MockDestinationLister)
	mockDests.On("List", mock.Anything).Return([]domain.Spreadsheet{
		{SpreadsheetID: "sheet-broken"},
		{SpreadsheetID: "sheet-ok"},
	}, nil)

	// O primeiro destino falha já no Clear (planilha inexistente).
	mockWriter.On("Clear", mock.Anything, "sheet-broken", "stocks_coefs").
		Return(apperror.NewPublishError(apperror.PublishNotFound, "sheet-broken", "planilha inexistente", nil))

	// O segundo destino recebe a sequência completa com a tabela correta.
	mockWriter.On("Clear", mock.Anything, "sheet-ok", "stocks_coefs").Return(nil)
	mockWriter.On("Update", mock.Anything, "sheet-ok", "stocks_coefs!A1", expectedTable).Return(nil)

	p := sheets.NewPublisher(mockWriter, mockDests, "stocks_coefs", logger.NewLogger("error"))
	p.PublishAll(context.Background(), sampleTariffs)

	mockWriter.AssertExpectations(t)
	// O destino quebrado não deve receber Update após a falha do Clear.
	mockWriter.AssertNotCalled(t, "Update", mock.Anything, "sheet-broken", mock.Anything, mock.Anything)
}

// TestPublishAll_ListFailure testa que uma falha ao listar destinos aborta a
// publicação sem pânico e sem chamadas ao writer.
func TestPublishAll_ListFailure(t *testing.T) {
	mockWriter := new(MockValuesWriter)
	mockDests := new(MockDestinationLister)
	mockDests.On("List", mock.Anything).Return([]domain.Spreadsheet(nil), errors.New("conexão recusada"))

	p := sheets.NewPublisher(mockWriter, mockDests, "stocks_coefs", logger.NewLogger("error"))
	p.PublishAll(context.Background(), sampleTariffs)

	mockWriter.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything, mock.Anything)
}

// TestPublishAll_EmptySnapshot testa que um snapshot vazio ainda escreve a
// tabela com apenas o cabeçalho (região limpa + header).
func TestPublishAll_EmptySnapshot(t *testing.T) {
	mockWriter := new(MockValuesWriter)
	mockDests := new(MockDestinationLister)
	mockDests.On("List", mock.Anything).Return([]domain.Spreadsheet{{SpreadsheetID: "sheet-a"}}, nil)

	headerOnly := [][]interface{}{{"Warehouse", "DeliveryCoef", "ReturnCoef", "StorageCoef"}}
	mockWriter.On("Clear", mock.Anything, "sheet-a", "stocks_coefs").Return(nil)
	mockWriter.On("Update", mock.Anything, "sheet-a", "stocks_coefs!A1", headerOnly).Return(nil)

	p := sheets.NewPublisher(mockWriter, mockDests, "stocks_coefs", logger.NewLogger("error"))
	p.PublishAll(context.Background(), nil)

	mockWriter.AssertExpectations(t)
}
