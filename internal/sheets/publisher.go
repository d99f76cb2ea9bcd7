package sheets

import (
	"context"
	"sync"

	"gotariff/internal/domain"
	"gotariff/internal/pkg/logger"
)

// DestinationLister define o contrato que o Publicador espera do registro de
// destinos. A lista é relida a cada publicação, nunca cacheada entre ciclos.
type DestinationLister interface {
	List(ctx context.Context) ([]domain.Spreadsheet, error)
}

// Publisher publica o snapshot corrente de tarifas em todas as planilhas
// cadastradas. A publicação é best-effort: a falha de um destino é logada e
// não impede os demais, e PublishAll nunca retorna erro para o chamador.
type Publisher struct {
	writer       ValuesWriter
	destinations DestinationLister
	sheetName    string
	logger       logger.Logger
}

// NewPublisher cria e retorna uma nova instância do Publicador.
func NewPublisher(writer ValuesWriter, destinations DestinationLister, sheetName string, log logger.Logger) *Publisher {
	return &Publisher{
		writer:       writer,
		destinations: destinations,
		sheetName:    sheetName,
		logger:       log,
	}
}

// PublishAll atualiza todas as planilhas cadastradas com a tabela de tarifas,
// na ordem recebida (já ordenada pelo banco). Os destinos são atualizados em
// paralelo, um goroutine por planilha, sem estado mutável compartilhado; o
// resultado de cada destino é coletado de forma independente.
func (p *Publisher) PublishAll(ctx context.Context, tariffs []domain.WarehouseTariff) {
	destinations, err := p.destinations.List(ctx)
	if err != nil {
		p.logger.Error("Falha ao listar planilhas de destino, publicação abortada.", err)
		return
	}

	if len(destinations) == 0 {
		p.logger.Warn("Nenhuma planilha cadastrada para publicação.", nil)
		return
	}

	values := buildTable(tariffs)

	p.logger.Info("Publicando tarifas nas planilhas.", map[string]interface{}{
		"destinations": len(destinations),
		"rows":         len(tariffs),
	})

	results := make(chan error, len(destinations))
	var wg sync.WaitGroup
	for _, dest := range destinations {
		wg.Add(1)
		go func(spreadsheetID string) {
			defer wg.Done()
			results <- p.publishOne(ctx, spreadsheetID, values)
		}(dest.SpreadsheetID)
	}
	wg.Wait()
	close(results)

	var failed int
	for err := range results {
		if err != nil {
			failed++
		}
	}

	p.logger.Info("Publicação concluída.", map[string]interface{}{
		"ok":     len(destinations) - failed,
		"failed": failed,
	})
}

// publishOne limpa e reescreve a região de tarifas de um único destino.
// O erro é logado aqui (com o ID do destino) e devolvido apenas para a
// contagem do resumo, nunca propagado ao chamador.
func (p *Publisher) publishOne(ctx context.Context, spreadsheetID string, values [][]interface{}) error {
	if err := p.writer.Clear(ctx, spreadsheetID, p.sheetName); err != nil {
		p.logger.Error("Falha ao atualizar planilha.", err)
		return err
	}

	if err := p.writer.Update(ctx, spreadsheetID, p.sheetName+"!A1", values); err != nil {
		p.logger.Error("Falha ao atualizar planilha.", err)
		return err
	}

	p.logger.Info("Planilha atualizada.", map[string]interface{}{"spreadsheet_id": spreadsheetID})
	return nil
}

// buildTable monta a tabela retangular: linha de cabeçalho seguida de uma
// linha por tarifa, na ordem dada.
func buildTable(tariffs []domain.WarehouseTariff) [][]interface{} {
	values := make([][]interface{}, 0, len(tariffs)+1)
	values = append(values, []interface{}{"Warehouse", "DeliveryCoef", "ReturnCoef", "StorageCoef"})
	for _, t := range tariffs {
		values = append(values, []interface{}{t.WarehouseName, t.DeliveryCoef, t.ReturnCoef, t.StorageCoef})
	}
	return values
}
