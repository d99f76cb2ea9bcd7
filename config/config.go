package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config armazena todas as configurações do serviço de tarifas.
// Os campos cobrem o banco, o cache, a API WB, o Google Sheets e o agendamento.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis)
	RedisAddr    string
	CacheTimeout time.Duration

	// API Wildberries
	WBAPIKey     string // opcional: sem ele o fetch falha a cada ciclo (degradação suave)
	WBAPIBaseURL string
	WBAPITimeout time.Duration

	// Google Sheets
	GoogleCredentialsJSON string // opcional: sem ele a publicação falha por destino
	SheetName             string

	// Agendamento
	SyncInterval time.Duration

	// API administrativa
	AdminToken string // opcional: sem ele as rotas de escrita ficam abertas

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "5000"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Banco de Dados (PostgreSQL)
		// mustGetEnv garante que a aplicação não inicie sem credenciais de DB
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		// 3. Cache (Redis)
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTimeout: getDurationEnv("CACHE_TIMEOUT_SEC", 300) * time.Second,

		// 4. API Wildberries
		WBAPIKey:     getEnv("WB_API_KEY", ""),
		WBAPIBaseURL: getEnv("WB_API_BASE_URL", "https://common-api.wildberries.ru/api/v1/tariffs/box"),
		WBAPITimeout: getDurationEnv("WB_API_TIMEOUT_SEC", 10) * time.Second,

		// 5. Google Sheets
		GoogleCredentialsJSON: getEnv("GOOGLE_SHEETS_CREDENTIALS_JSON", ""),
		SheetName:             getEnv("SHEET_NAME", "stocks_coefs"),

		// 6. Agendamento (ciclo de sincronização a cada hora cheia por padrão)
		SyncInterval: getDurationEnv("SYNC_INTERVAL_MIN", 60) * time.Minute,

		// 7. API administrativa
		AdminToken: getEnv("ADMIN_TOKEN", ""),

		// 8. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,
	}

	return cfg
}

// HasWBAPIKey indica se há uma credencial WB utilizável configurada.
func (c *Config) HasWBAPIKey() bool {
	return c.WBAPIKey != "" && c.WBAPIKey != "your_wb_api_key_will_be_here"
}

// HasGoogleCredentials indica se há uma credencial do Google Sheets utilizável.
func (c *Config) HasGoogleCredentials() bool {
	return c.GoogleCredentialsJSON != "" && c.GoogleCredentialsJSON != "{}"
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente, fatal se não estiver presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	return ""
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return time.Duration(defaultValue)
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return time.Duration(defaultValue)
	}
	return time.Duration(value)
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
