package tariffrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotariff/internal/domain"
	apperror "gotariff/internal/errors"
	"gotariff/internal/pkg/cache"
	"gotariff/internal/pkg/logger"
	"gotariff/internal/repository/tariffrepo"
)

// fakeCache é um stub em memória da interface cache.Client para os testes.
type fakeCache struct {
	values  map[string]string
	deleted []string
	sets    []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", cache.ErrCacheMiss
}

func (f *fakeCache) GetInt(ctx context.Context, key string) (int, error) {
	return 0, cache.ErrCacheMiss
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.values[key] = value.(string)
	f.sets = append(f.sets, key)
	return nil
}

func (f *fakeCache) Incr(ctx context.Context, key string) error { return nil }

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.values, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func newRepo(t *testing.T) (*tariffrepo.TariffRepository, sqlmock.Sqlmock, *fakeCache) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	fc := newFakeCache()
	repo := tariffrepo.NewTariffRepository(db, fc, 2*time.Second, logger.NewLogger("error"))
	return repo, mock, fc
}

// TestSaveTariffs_EmptyBatch testa que um lote vazio é um no-op (sem queries).
func TestSaveTariffs_EmptyBatch(t *testing.T) {
	repo, mock, _ := newRepo(t)

	err := repo.SaveTariffs(context.Background(), nil, "2026-08-29")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSaveTariffs_Upsert testa o upsert por registro e a invalidação do cache.
func TestSaveTariffs_Upsert(t *testing.T) {
	repo, mock, fc := newRepo(t)
	date := "2026-08-29"

	mock.ExpectExec("(?s)INSERT INTO tariffs.*ON CONFLICT \\(date, warehouse_name\\) DO UPDATE").
		WithArgs(sqlmock.AnyArg(), date, "Коледино", 160.0, 125.0, 1.5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("(?s)INSERT INTO tariffs.*ON CONFLICT \\(date, warehouse_name\\) DO UPDATE").
		WithArgs(sqlmock.AnyArg(), date, "Казань", 155.0, 120.0, 0.5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tariffs := []domain.WarehouseTariff{
		{WarehouseName: "Коледино", DeliveryCoef: 160, ReturnCoef: 125, StorageCoef: 1.5},
		{WarehouseName: "Казань", DeliveryCoef: 155, ReturnCoef: 120, StorageCoef: 0.5},
	}
	err := repo.SaveTariffs(context.Background(), tariffs, date)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, fc.deleted, "tariffs:2026-08-29") // snapshot invalidado
}

// TestSaveTariffs_ConstraintViolation testa a classificação de erro de constraint.
func TestSaveTariffs_ConstraintViolation(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectExec("INSERT INTO tariffs").
		WillReturnError(&pq.Error{Code: "23502"})

	err := repo.SaveTariffs(context.Background(), []domain.WarehouseTariff{
		{WarehouseName: "Тула", DeliveryCoef: 1, ReturnCoef: 1, StorageCoef: 1},
	}, "2026-08-29")

	require.Error(t, err)
	var storeErr *apperror.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, apperror.StoreConstraintViolation, storeErr.Kind)
}

// TestGetTariffsByDate_CacheMiss testa a leitura do banco e o povoamento do cache.
func TestGetTariffsByDate_CacheMiss(t *testing.T) {
	repo, mock, fc := newRepo(t)
	date := "2026-08-29"

	// O banco devolve as linhas já ordenadas por delivery_coef ASC.
	rows := sqlmock.NewRows([]string{"warehouse_name", "delivery_coef", "return_coef", "storage_coef"}).
		AddRow("Казань", 155.0, 120.0, 0.5).
		AddRow("Электросталь", 160.0, 130.0, 1.0).
		AddRow("Коледино", 170.0, 125.0, 1.5)
	mock.ExpectQuery("SELECT warehouse_name, delivery_coef, return_coef, storage_coef\\s+FROM tariffs\\s+WHERE date = \\$1\\s+ORDER BY delivery_coef ASC, created_at ASC").
		WithArgs(date).
		WillReturnRows(rows)

	tariffs, err := repo.GetTariffsByDate(context.Background(), date)

	require.NoError(t, err)
	require.Len(t, tariffs, 3)
	assert.Equal(t, []string{"Казань", "Электросталь", "Коледино"},
		[]string{tariffs[0].WarehouseName, tariffs[1].WarehouseName, tariffs[2].WarehouseName})
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, fc.sets, "tariffs:2026-08-29") // cache populado após o miss
}

// TestGetTariffsByDate_CacheHit testa que um hit no cache não toca o banco.
func TestGetTariffsByDate_CacheHit(t *testing.T) {
	repo, mock, fc := newRepo(t)
	fc.values["tariffs:2026-08-29"] = `[{"warehouse_name":"Казань","delivery_coef":155,"return_coef":120,"storage_coef":0.5}]`

	tariffs, err := repo.GetTariffsByDate(context.Background(), "2026-08-29")

	require.NoError(t, err)
	require.Len(t, tariffs, 1)
	assert.Equal(t, "Казань", tariffs[0].WarehouseName)
	assert.NoError(t, mock.ExpectationsWereMet()) // nenhuma query esperada
}

// TestGetTariffsByDate_Empty testa que data sem registros retorna slice vazio, não erro.
func TestGetTariffsByDate_Empty(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery("SELECT warehouse_name").
		WithArgs("2026-01-01").
		WillReturnRows(sqlmock.NewRows([]string{"warehouse_name", "delivery_coef", "return_coef", "storage_coef"}))

	tariffs, err := repo.GetTariffsByDate(context.Background(), "2026-01-01")

	require.NoError(t, err)
	assert.NotNil(t, tariffs)
	assert.Empty(t, tariffs)
}
