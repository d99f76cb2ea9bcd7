package tariffrepo

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"gotariff/internal/domain"
	apperror "gotariff/internal/errors"
	"gotariff/internal/pkg/cache"
	"gotariff/internal/pkg/logger"
)

// TariffRepository é a camada de persistência das tarifas.
// Contém as conexões de infraestrutura (PostgreSQL e Redis).
type TariffRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewTariffRepository cria e retorna uma nova instância do Repositório de Tarifas.
func NewTariffRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, log logger.Logger) *TariffRepository {
	return &TariffRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// Chave de cache do snapshot de tarifas por data.
const tariffCacheKey = "tariffs:%s"

const upsertSQL = `
        INSERT INTO tariffs (id, date, warehouse_name, delivery_coef, return_coef, storage_coef, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        ON CONFLICT (date, warehouse_name) DO UPDATE SET
            delivery_coef = EXCLUDED.delivery_coef,
            return_coef = EXCLUDED.return_coef,
            storage_coef = EXCLUDED.storage_coef,
            updated_at = NOW()`

// SaveTariffs persiste um lote de tarifas para a data via upsert com chave
// (date, warehouse_name): insere se ausente; se presente, sobrescreve os três
// coeficientes e updated_at, preservando created_at. Cada registro é um merge
// atômico, mas o lote inteiro não roda em uma única transação: uma falha no
// meio deixa os registros anteriores aplicados, o que é seguro porque a
// operação é idempotente e o próximo ciclo reaplica o restante.
func (r *TariffRepository) SaveTariffs(ctx context.Context, tariffs []domain.WarehouseTariff, date string) error {
	if len(tariffs) == 0 {
		r.logger.Warn("Lote de tarifas vazio, pulando persistência.", map[string]interface{}{"date": date})
		return nil
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	for _, t := range tariffs {
		_, err := r.DB.ExecContext(ctxTimeout, upsertSQL,
			uuid.New().String(),
			date,
			t.WarehouseName,
			t.DeliveryCoef,
			t.ReturnCoef,
			t.StorageCoef,
		)
		if err != nil {
			r.logger.Error("Falha no upsert de tarifa.", err)
			return classifyStoreError(fmt.Sprintf("falha ao salvar tarifa do armazém %s", t.WarehouseName), err)
		}
	}

	// Invalida o snapshot cacheado da data: a próxima leitura cai no banco e
	// enxerga exatamente o que acabou de ser persistido.
	key := fmt.Sprintf(tariffCacheKey, date)
	if err := r.Cache.Delete(ctx, key); err != nil {
		r.logger.Warn("Falha ao invalidar cache de tarifas (seguindo sem cache).", map[string]interface{}{
			"key": key, "error": err.Error(),
		})
	}

	r.logger.Info("Tarifas persistidas com sucesso.", map[string]interface{}{
		"date":  date,
		"count": len(tariffs),
	})
	return nil
}

const selectByDateSQL = `
        SELECT warehouse_name, delivery_coef, return_coef, storage_coef
        FROM tariffs
        WHERE date = $1
        ORDER BY delivery_coef ASC, created_at ASC`

// GetTariffsByDate retorna o snapshot da data ordenado por coeficiente de
// entrega ascendente (empate resolvido pela ordem de inserção). Data sem
// registros retorna slice vazio, nunca erro.
//
// A leitura usa a estratégia Cache-Aside: tenta o Redis primeiro e, no miss,
// busca no banco e popula o cache com TTL. SaveTariffs invalida a chave, então
// o ciclo de sincronização sempre lê o estado durável recém-gravado.
func (r *TariffRepository) GetTariffsByDate(ctx context.Context, date string) ([]domain.WarehouseTariff, error) {
	key := fmt.Sprintf(tariffCacheKey, date)

	// 1. Tentar obter do Cache (Redis)
	cachedData, err := r.Cache.Get(ctx, key)
	if err == nil {
		var tariffs []domain.WarehouseTariff
		if json.Unmarshal([]byte(cachedData), &tariffs) == nil {
			r.logger.Debug("Cache HIT para snapshot de tarifas.", map[string]interface{}{"date": date})
			return tariffs, nil
		}
		// Conteúdo cacheado corrompido: ignora e segue para o banco.
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao consultar o cache (seguindo para o banco).", map[string]interface{}{
			"key": key, "error": err.Error(),
		})
	}

	// 2. Cache MISS: buscar no banco
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, selectByDateSQL, date)
	if err != nil {
		r.logger.Error("Falha ao consultar tarifas no DB.", err)
		return nil, classifyStoreError("falha ao consultar tarifas", err)
	}
	defer rows.Close()

	tariffs := make([]domain.WarehouseTariff, 0)
	for rows.Next() {
		var t domain.WarehouseTariff
		if err := rows.Scan(&t.WarehouseName, &t.DeliveryCoef, &t.ReturnCoef, &t.StorageCoef); err != nil {
			r.logger.Error("Falha ao escanear linha de tarifa.", err)
			return nil, classifyStoreError("falha ao ler linha de tarifa", err)
		}
		tariffs = append(tariffs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStoreError("falha ao iterar tarifas", err)
	}

	// 3. Popular o cache (best-effort)
	if payload, err := json.Marshal(tariffs); err == nil {
		if err := r.Cache.Set(ctx, key, string(payload), r.cacheTTL()); err != nil {
			r.logger.Debug("Falha ao popular cache de tarifas.", map[string]interface{}{"key": key})
		}
	}

	return tariffs, nil
}

// cacheTTL limita a vida do snapshot cacheado a um intervalo curto.
// O TTL é um guarda-chuva extra; a invalidação em SaveTariffs é o mecanismo principal.
func (r *TariffRepository) cacheTTL() time.Duration {
	return 5 * time.Minute
}

// classifyStoreError traduz erros do driver em StoreError com kind classificado.
func classifyStoreError(msg string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Classe 23 = integrity constraint violation; classe 08 = connection exception.
		switch pqErr.Code.Class() {
		case "23":
			return apperror.NewStoreError(apperror.StoreConstraintViolation, msg, err)
		case "08":
			return apperror.NewStoreError(apperror.StoreConnectionFailure, msg, err)
		}
		return apperror.NewStoreError(apperror.StoreUnknown, msg, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return apperror.NewStoreError(apperror.StoreConnectionFailure, msg, err)
	}

	return apperror.NewStoreError(apperror.StoreUnknown, msg, err)
}
