package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración del cliente (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App          AppConfig
	API          APIConfig
	Mirror       MirrorConfig
	Connectivity ConnectivityConfig
	HTTP         HTTPConfig
	Business     BusinessConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// APIConfig backend remoto /business/*.
type APIConfig struct {
	BaseURL  string // ej: https://api.skillbridge254.co.ke/api
	Timeout  int    // segundos; 0 = sin timeout propio (default del http.Client)
	ChatPath string // endpoint de chat con streaming SSE
}

// TimeoutDuration timeout como time.Duration.
func (c APIConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// MirrorConfig espejo local persistente.
type MirrorConfig struct {
	Driver string // sqlite | memory
	Path   string // archivo SQLite
}

// ConnectivityConfig sondeo del estado online/offline.
type ConnectivityConfig struct {
	ProbeInterval int    // segundos
	HealthPath    string // relativo a API.BaseURL
}

// ProbeDuration intervalo de sondeo como time.Duration.
func (c ConnectivityConfig) ProbeDuration() time.Duration {
	return time.Duration(c.ProbeInterval) * time.Second
}

// HTTPConfig API local para la capa de presentación.
type HTTPConfig struct {
	Host   string
	Port   int
	APIKey string // si no está vacío, /api exige Authorization: Bearer <APIKey>
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BusinessConfig valores por defecto del negocio mientras no se carga /business/settings.
type BusinessConfig struct {
	VATRate           decimal.Decimal
	Currency          string
	LowStockThreshold decimal.Decimal
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_BASE_URL, MIRROR_PATH, etc.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile igual que Load pero con un archivo explícito (flag --config del CLI).
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("leer configuración %s: %w", path, err)
		}
	} else {
		// Opcional: archivo de configuración (.env o config.env)
		v.SetConfigName(".env")
		v.SetConfigType("env")
		v.AddConfigPath(".")
		_ = v.ReadInConfig() // ignoramos error si no existe

		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		_ = v.ReadInConfig() // ignoramos error si no existe
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	vat, err := getDecimal(v, "BUSINESS_VAT_RATE", "0.16")
	if err != nil {
		return nil, err
	}
	threshold, err := getDecimal(v, "BUSINESS_LOW_STOCK_THRESHOLD", "10")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "skillbridge-business"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL:  strings.TrimRight(getString(v, "API_BASE_URL", "http://localhost:5000/api"), "/"),
			Timeout:  getInt(v, "API_TIMEOUT_SECONDS", 30),
			ChatPath: getString(v, "CHAT_PATH", "/ai/chat/stream"),
		},
		Mirror: MirrorConfig{
			Driver: getString(v, "MIRROR_DRIVER", "sqlite"),
			Path:   getString(v, "MIRROR_PATH", "skillbridge.db"),
		},
		Connectivity: ConnectivityConfig{
			ProbeInterval: getInt(v, "CONNECTIVITY_PROBE_SECONDS", 15),
			HealthPath:    getString(v, "HEALTH_PATH", "/health"),
		},
		HTTP: HTTPConfig{
			Host:   getString(v, "HTTP_HOST", "127.0.0.1"),
			Port:   getInt(v, "HTTP_PORT", 8254),
			APIKey: getString(v, "HTTP_API_KEY", ""),
		},
		Business: BusinessConfig{
			VATRate:           vat,
			Currency:          getString(v, "BUSINESS_CURRENCY", "KES"),
			LowStockThreshold: threshold,
		},
	}

	if cfg.Mirror.Driver != "sqlite" && cfg.Mirror.Driver != "memory" {
		return nil, fmt.Errorf("MIRROR_DRIVER inválido %q: sqlite o memory", cfg.Mirror.Driver)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getDecimal(v *viper.Viper, key, def string) (decimal.Decimal, error) {
	raw := getString(v, key, def)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s inválido %q: %w", key, raw, err)
	}
	return d, nil
}
