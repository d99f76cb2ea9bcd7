package domain

// Spreadsheet representa um destino de publicação: uma Google Planilha
// registrada no banco. O conjunto de destinos é relido a cada ciclo, então
// cadastrar/remover uma planilha passa a valer na próxima execução sem restart.
type Spreadsheet struct {
	SpreadsheetID string `json:"spreadsheet_id"`
}
