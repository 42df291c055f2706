package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config reúne a configuração do servidor de registro (cmd/api)
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Sync     SyncConfig
	LogLevel string
}

// ServerConfig contém as opções do servidor HTTP
type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
}

// DatabaseConfig contém as opções de conexão com o PostgreSQL
type DatabaseConfig struct {
	Driver          string // postgres ou memory
	URL             string
	MaxConnections  int32
	MinConnections  int32
	MaxConnLifetime time.Duration
	AutoMigrate     bool
	SeedFile        string // Produtos e políticas carregados no driver memory
}

// AuthConfig contém a chave de validação dos tokens emitidos pelo serviço de autenticação
type AuthConfig struct {
	JWTSecret  string
	Expiration time.Duration
}

// SyncConfig contém os limites do endpoint de reconciliação
type SyncConfig struct {
	MaxBatch int
}

// DeviceConfig reúne a configuração do agente do PDV (cmd/pdv)
type DeviceConfig struct {
	APIURL         string
	Token          string            // Token padrão, usado por lojas sem token próprio
	ShopTokens     map[string]string // loja -> token (PDV_SHOP_TOKENS=loja-1=tok1,loja-2=tok2)
	QueuePath      string
	DeviceID       string
	SyncInterval   time.Duration
	ProbeInterval  time.Duration
	RequestTimeout time.Duration
	MaxBatch       int
	Retries        int
	BackoffBase    time.Duration
	BackoffMax     time.Duration
	LogLevel       string
}

// loadEnvFile carrega o arquivo .env; a ausência do arquivo não é erro
func loadEnvFile(envFile string) error {
	if envFile == "" {
		_ = godotenv.Load()
		return nil
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("erro ao carregar arquivo %s: %w", envFile, err)
	}
	return nil
}

// Load lê as variáveis de ambiente do servidor
func Load(envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("STORE_DRIVER", "postgres"),
			URL:             databaseURL(),
			MaxConnections:  int32(getInt("DB_MAX_CONNECTIONS", 10)),
			MinConnections:  int32(getInt("DB_MIN_CONNECTIONS", 1)),
			MaxConnLifetime: time.Duration(getInt("DB_MAX_LIFETIME", 3600)) * time.Second,
			AutoMigrate:     getBool("AUTO_MIGRATE", false),
			SeedFile:        os.Getenv("MEMORY_SEED_FILE"),
		},
		Auth: AuthConfig{
			JWTSecret:  os.Getenv("JWT_SECRET_KEY"),
			Expiration: time.Duration(getInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		},
		Sync: SyncConfig{
			MaxBatch: getInt("SYNC_MAX_BATCH", 500),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate garante que os campos obrigatórios estão preenchidos
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("configuração nula")
	}
	if c.Server.Port == "" {
		return errors.New("APP_PORT deve ser informado")
	}
	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL deve ser informado")
		}
	case "memory":
	default:
		return fmt.Errorf("STORE_DRIVER inválido: %s", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET_KEY deve ser informado")
	}
	if c.Sync.MaxBatch < 1 {
		return errors.New("SYNC_MAX_BATCH deve ser positivo")
	}
	return nil
}

// LoadDatabase lê apenas a conexão com o banco, usada pelo cmd/migration
func LoadDatabase(envFile string) (*DatabaseConfig, string, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, "", err
	}
	url := databaseURL()
	if url == "" {
		return nil, "", errors.New("DATABASE_URL deve ser informado")
	}
	return &DatabaseConfig{Driver: "postgres", URL: url}, getEnv("LOG_LEVEL", "info"), nil
}

// LoadDevice lê as variáveis de ambiente do agente do PDV
func LoadDevice(envFile string) (*DeviceConfig, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()

	shopTokens, err := parseShopTokens(os.Getenv("PDV_SHOP_TOKENS"))
	if err != nil {
		return nil, err
	}

	cfg := &DeviceConfig{
		APIURL:         getEnv("PDV_API_URL", "http://localhost:8080"),
		Token:          os.Getenv("PDV_TOKEN"),
		ShopTokens:     shopTokens,
		QueuePath:      getEnv("PDV_QUEUE_PATH", "pdv-queue.db"),
		DeviceID:       getEnv("PDV_DEVICE_ID", hostname),
		SyncInterval:   getDuration("PDV_SYNC_INTERVAL", 45*time.Second),
		ProbeInterval:  getDuration("PDV_PROBE_INTERVAL", 10*time.Second),
		RequestTimeout: getDuration("PDV_REQUEST_TIMEOUT", 30*time.Second),
		MaxBatch:       getInt("PDV_MAX_BATCH", 500),
		Retries:        getInt("PDV_RETRIES", 3),
		BackoffBase:    getDuration("PDV_BACKOFF_BASE", 500*time.Millisecond),
		BackoffMax:     getDuration("PDV_BACKOFF_MAX", 5*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate garante que os campos obrigatórios estão preenchidos
func (c *DeviceConfig) Validate() error {
	if c == nil {
		return errors.New("configuração nula")
	}
	switch {
	case c.APIURL == "":
		return errors.New("PDV_API_URL deve ser informado")
	case c.QueuePath == "":
		return errors.New("PDV_QUEUE_PATH deve ser informado")
	case c.DeviceID == "":
		return errors.New("PDV_DEVICE_ID deve ser informado")
	case c.MaxBatch < 1:
		return errors.New("PDV_MAX_BATCH deve ser maior que zero")
	case c.Retries < 0:
		return errors.New("PDV_RETRIES não pode ser negativo")
	case c.BackoffBase <= 0 || c.BackoffMax < c.BackoffBase:
		return errors.New("PDV_BACKOFF_BASE/PDV_BACKOFF_MAX inválidos")
	}
	return nil
}

// parseShopTokens lê a lista loja=token separada por vírgulas
func parseShopTokens(value string) (map[string]string, error) {
	tokens := make(map[string]string)
	for _, item := range splitList(value) {
		shopID, token, ok := strings.Cut(item, "=")
		shopID, token = strings.TrimSpace(shopID), strings.TrimSpace(token)
		if !ok || shopID == "" || token == "" {
			return nil, fmt.Errorf("PDV_SHOP_TOKENS inválido: %q (use loja=token)", item)
		}
		tokens[shopID] = token
	}
	return tokens, nil
}

// databaseURL monta a string de conexão a partir de DATABASE_URL ou das variáveis DB_*
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	if os.Getenv("DB_HOST") == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "pdv_sync"),
		getEnv("DB_SSL_MODE", "disable"),
	)
}

// getEnv retorna o valor de uma variável de ambiente ou um valor padrão
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
