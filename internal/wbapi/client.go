package wbapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gotariff/internal/domain"
	apperror "gotariff/internal/errors"
	"gotariff/internal/pkg/logger"
)

// Client é o cliente da API de tarifas de caixa da Wildberries.
// Ele emite uma requisição autenticada por data e normaliza a resposta no
// formato interno domain.WarehouseTariff. Não há retry aqui: uma falha encerra
// o ciclo corrente, e a cadência horária do scheduler funciona como retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     logger.Logger
}

// NewClient cria um novo cliente da API WB.
func NewClient(baseURL, apiKey string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     log,
	}
}

// tariffsResponse espelha apenas os campos consumidos da resposta da API WB.
type tariffsResponse struct {
	Response struct {
		Data struct {
			WarehouseList []warehouseEntry `json:"warehouseList"`
		} `json:"data"`
	} `json:"response"`
}

type warehouseEntry struct {
	WarehouseName                  string `json:"warehouseName"`
	BoxDeliveryCoefExpr            string `json:"boxDeliveryCoefExpr"`
	BoxDeliveryMarketplaceCoefExpr string `json:"boxDeliveryMarketplaceCoefExpr"`
	BoxStorageCoefExpr             string `json:"boxStorageCoefExpr"`
}

// FetchTariffs busca as tarifas de todos os armazéns para a data informada
// (formato YYYY-MM-DD). Falhas são classificadas em FetchError:
// 401 → Unauthorized, 429 → RateLimited, demais falhas de transporte →
// Transport, resposta sem a lista de armazéns ou com coeficientes inválidos →
// InvalidSchema.
func (c *Client) FetchTariffs(ctx context.Context, date string) ([]domain.WarehouseTariff, error) {
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, url.Values{"date": {date}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperror.NewFetchError(apperror.FetchTransport, "falha ao montar a requisição", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeout, DNS, conexão recusada etc.
		return nil, apperror.NewFetchError(apperror.FetchTransport, "falha de transporte ao chamar a API WB", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, apperror.NewFetchError(apperror.FetchUnauthorized,
			fmt.Sprintf("credencial WB rejeitada (status %d)", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, apperror.NewFetchError(apperror.FetchRateLimited,
			fmt.Sprintf("limite de requisições da API WB excedido (status %d)", resp.StatusCode), nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, apperror.NewFetchError(apperror.FetchTransport,
			fmt.Sprintf("API WB respondeu status inesperado %d", resp.StatusCode), nil)
	}

	var body tariffsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperror.NewFetchError(apperror.FetchInvalidSchema, "resposta da API WB não é JSON válido", err)
	}

	if body.Response.Data.WarehouseList == nil {
		return nil, apperror.NewFetchError(apperror.FetchInvalidSchema,
			"resposta da API WB sem o campo warehouseList", nil)
	}

	tariffs := make([]domain.WarehouseTariff, 0, len(body.Response.Data.WarehouseList))
	for _, w := range body.Response.Data.WarehouseList {
		if w.WarehouseName == "" {
			return nil, apperror.NewFetchError(apperror.FetchInvalidSchema,
				"entrada de armazém sem warehouseName", nil)
		}

		delivery, err := parseCoef(w.BoxDeliveryCoefExpr)
		if err != nil {
			return nil, invalidCoef(w.WarehouseName, "boxDeliveryCoefExpr", w.BoxDeliveryCoefExpr, err)
		}
		ret, err := parseCoef(w.BoxDeliveryMarketplaceCoefExpr)
		if err != nil {
			return nil, invalidCoef(w.WarehouseName, "boxDeliveryMarketplaceCoefExpr", w.BoxDeliveryMarketplaceCoefExpr, err)
		}
		storage, err := parseCoef(w.BoxStorageCoefExpr)
		if err != nil {
			return nil, invalidCoef(w.WarehouseName, "boxStorageCoefExpr", w.BoxStorageCoefExpr, err)
		}

		tariffs = append(tariffs, domain.WarehouseTariff{
			WarehouseName: w.WarehouseName,
			DeliveryCoef:  delivery,
			ReturnCoef:    ret,
			StorageCoef:   storage,
		})
	}

	c.logger.Debug("Tarifas recebidas da API WB.", map[string]interface{}{
		"date":       date,
		"warehouses": len(tariffs),
	})
	return tariffs, nil
}

// parseCoef converte a expressão textual de coeficiente da API WB em float64.
// A API usa vírgula como separador decimal em alguns campos; normalizamos
// para ponto antes do parse. Coeficientes negativos são inválidos.
func parseCoef(expr string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(expr), ",", ".")
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, fmt.Errorf("coeficiente negativo: %s", expr)
	}
	return value, nil
}

func invalidCoef(warehouse, field, value string, err error) error {
	return apperror.NewFetchError(apperror.FetchInvalidSchema,
		fmt.Sprintf("coeficiente inválido em %s (%s=%q)", warehouse, field, value), err)
}
