package syncservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"gotariff/internal/domain"
	apperror "gotariff/internal/errors"
	"gotariff/internal/pkg/logger"
	"gotariff/internal/service/syncservice"
)

// MockTariffFetcher é uma implementação mock da interface TariffFetcher.
type MockTariffFetcher struct {
	mock.Mock
}

func (m *MockTariffFetcher) FetchTariffs(ctx context.Context, date string) ([]domain.WarehouseTariff, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.WarehouseTariff), args.Error(1)
}

// MockTariffRepository é uma implementação mock da interface TariffRepository.
type MockTariffRepository struct {
	mock.Mock
}

func (m *MockTariffRepository) SaveTariffs(ctx context.Context, tariffs []domain.WarehouseTariff, date string) error {
	args := m.Called(ctx, tariffs, date)
	return args.Error(0)
}

func (m *MockTariffRepository) GetTariffsByDate(ctx context.Context, date string) ([]domain.WarehouseTariff, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.WarehouseTariff), args.Error(1)
}

// MockPublisher é uma implementação mock da interface Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishAll(ctx context.Context, tariffs []domain.WarehouseTariff) {
	m.Called(ctx, tariffs)
}

const testDate = "2026-08-29"

var fetched = []domain.WarehouseTariff{
	{WarehouseName: "Коледино", DeliveryCoef: 170, ReturnCoef: 125, StorageCoef: 1.5},
	{WarehouseName: "Казань", DeliveryCoef: 155, ReturnCoef: 120, StorageCoef: 0.5},
}

// O snapshot relido do banco vem ordenado por delivery_coef, diferente da
// ordem de chegada do fetch.
var stored = []domain.WarehouseTariff{
	{WarehouseName: "Казань", DeliveryCoef: 155, ReturnCoef: 120, StorageCoef: 0.5},
	{WarehouseName: "Коледино", DeliveryCoef: 170, ReturnCoef: 125, StorageCoef: 1.5},
}

func newService(fetcher *MockTariffFetcher, repo *MockTariffRepository, publisher *MockPublisher) *syncservice.Service {
	return syncservice.NewService(fetcher, repo, publisher, logger.NewLogger("error"))
}

// TestRunCycle_Success testa o fluxo completo: fetch, persistência, releitura
// e publicação do snapshot relido (não dos valores recém-buscados).
func TestRunCycle_Success(t *testing.T) {
	mockFetcher := new(MockTariffFetcher)
	mockRepo := new(MockTariffRepository)
	mockPublisher := new(MockPublisher)

	mockFetcher.On("FetchTariffs", mock.Anything, testDate).Return(fetched, nil)
	mockRepo.On("SaveTariffs", mock.Anything, fetched, testDate).Return(nil)
	mockRepo.On("GetTariffsByDate", mock.Anything, testDate).Return(stored, nil)
	mockPublisher.On("PublishAll", mock.Anything, stored).Return()

	svc := newService(mockFetcher, mockRepo, mockPublisher)
	svc.RunCycle(context.Background(), testDate)

	mockFetcher.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
	// O publicador recebe o snapshot do banco, não o retorno do fetch.
	mockPublisher.AssertCalled(t, "PublishAll", mock.Anything, stored)
}

// TestRunCycle_FetchFailure testa a contenção do ciclo: uma falha no fetch não
// toca o banco nem invoca a publicação.
func TestRunCycle_FetchFailure(t *testing.T) {
	mockFetcher := new(MockTariffFetcher)
	mockRepo := new(MockTariffRepository)
	mockPublisher := new(MockPublisher)

	mockFetcher.On("FetchTariffs", mock.Anything, testDate).
		Return([]domain.WarehouseTariff(nil), apperror.NewFetchError(apperror.FetchUnauthorized, "credencial rejeitada", nil))

	svc := newService(mockFetcher, mockRepo, mockPublisher)
	svc.RunCycle(context.Background(), testDate)

	mockRepo.AssertNotCalled(t, "SaveTariffs", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "GetTariffsByDate", mock.Anything, mock.Anything)
	mockPublisher.AssertNotCalled(t, "PublishAll", mock.Anything, mock.Anything)
}

// TestRunCycle_SaveFailure testa que uma falha de persistência pula a
// releitura e a publicação.
func TestRunCycle_SaveFailure(t *testing.T) {
	mockFetcher := new(MockTariffFetcher)
	mockRepo := new(MockTariffRepository)
	mockPublisher := new(MockPublisher)

	mockFetcher.On("FetchTariffs", mock.Anything, testDate).Return(fetched, nil)
	mockRepo.On("SaveTariffs", mock.Anything, fetched, testDate).
		Return(apperror.NewStoreError(apperror.StoreConnectionFailure, "banco inacessível", nil))

	svc := newService(mockFetcher, mockRepo, mockPublisher)
	svc.RunCycle(context.Background(), testDate)

	mockRepo.AssertNotCalled(t, "GetTariffsByDate", mock.Anything, mock.Anything)
	mockPublisher.AssertNotCalled(t, "PublishAll", mock.Anything, mock.Anything)
}

// TestRunCycle_LoadFailure testa que uma falha na releitura pula a publicação.
func TestRunCycle_LoadFailure(t *testing.T) {
	mockFetcher := new(MockTariffFetcher)
	mockRepo := new(MockTariffRepository)
	mockPublisher := new(MockPublisher)

	mockFetcher.On("FetchTariffs", mock.Anything, testDate).Return(fetched, nil)
	mockRepo.On("SaveTariffs", mock.Anything, fetched, testDate).Return(nil)
	mockRepo.On("GetTariffsByDate", mock.Anything, testDate).
		Return([]domain.WarehouseTariff(nil), apperror.NewStoreError(apperror.StoreUnknown, "falha de leitura", nil))

	svc := newService(mockFetcher, mockRepo, mockPublisher)
	svc.RunCycle(context.Background(), testDate)

	mockPublisher.AssertNotCalled(t, "PublishAll", mock.Anything, mock.Anything)
}

// TestRunCycle_EmptyFetch testa que um fetch vazio ainda segue o fluxo:
// persistência no-op, releitura e publicação do snapshot existente do dia.
func TestRunCycle_EmptyFetch(t *testing.T) {
	mockFetcher := new(MockTariffFetcher)
	mockRepo := new(MockTariffRepository)
	mockPublisher := new(MockPublisher)

	empty := []domain.WarehouseTariff{}
	mockFetcher.On("FetchTariffs", mock.Anything, testDate).Return(empty, nil)
	mockRepo.On("SaveTariffs", mock.Anything, empty, testDate).Return(nil)
	mockRepo.On("GetTariffsByDate", mock.Anything, testDate).Return(stored, nil)
	mockPublisher.On("PublishAll", mock.Anything, stored).Return()

	svc := newService(mockFetcher, mockRepo, mockPublisher)
	svc.RunCycle(context.Background(), testDate)

	mockPublisher.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}
