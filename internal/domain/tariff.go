package domain

import "time"

// WarehouseTariff representa os coeficientes logísticos de um armazém WB
// para uma data. É o formato transiente usado entre o fetch, o banco e a
// publicação nas planilhas.
type WarehouseTariff struct {
	WarehouseName string  `json:"warehouse_name"`
	DeliveryCoef  float64 `json:"delivery_coef"`
	ReturnCoef    float64 `json:"return_coef"`
	StorageCoef   float64 `json:"storage_coef"`
}

// TariffRecord é a forma persistida de um tarifa: o WarehouseTariff mais a
// data do snapshot e os timestamps de auditoria.
// A identidade primária é o par (Date, WarehouseName): created_at é definido
// na primeira inserção e nunca muda; updated_at avança a cada merge.
type TariffRecord struct {
	ID            string    `json:"id"`
	Date          string    `json:"date"` // YYYY-MM-DD, sem componente de hora
	WarehouseName string    `json:"warehouse_name"`
	DeliveryCoef  float64   `json:"delivery_coef"`
	ReturnCoef    float64   `json:"return_coef"`
	StorageCoef   float64   `json:"storage_coef"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DateLayout é o formato de data usado em toda a aplicação (API WB, banco e HTTP).
const DateLayout = "2006-01-02"
