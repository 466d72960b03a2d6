package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Fuentes de catálogo admitidas.
const (
	CatalogSourceHTTP     = "http"
	CatalogSourcePostgres = "postgres"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Backend BackendConfig
	Catalog CatalogConfig
	Drafts  DraftsConfig
	JWT     JWTConfig
	DB      DBConfig
	Metrics MetricsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig servicio externo de catálogo y pedidos.
type BackendConfig struct {
	URL     string
	Token   string // token de servicio; se usa si la petición no trae uno propio
	Timeout time.Duration
}

// CatalogConfig origen y frecuencia de refresco del catálogo.
type CatalogConfig struct {
	Source          string // http | postgres
	RefreshInterval time.Duration
}

// DraftsConfig parámetros de los borradores en memoria.
type DraftsConfig struct {
	TTL            time.Duration
	DefaultTaxRate decimal.Decimal // porcentaje
}

// JWTConfig validación de los tokens emitidos por el backend.
// Sin Secret el token solo se reenvía, no se verifica.
type JWTConfig struct {
	Secret string
}

// MetricsConfig exposición de métricas Prometheus en /metrics.
type MetricsConfig struct {
	Enabled bool
}

// DBConfig configuración de PostgreSQL (solo lectura de catálogo).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN connection string con URL encoding para caracteres especiales en la contraseña.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde .env).
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	taxRate, err := decimal.NewFromString(getString(v, "DEFAULT_TAX_RATE", "18"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_TAX_RATE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "gestion-ventas"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Backend: BackendConfig{
			URL:     strings.TrimRight(getString(v, "BACKEND_URL", "https://sistema-gestion-api.onrender.com/api"), "/"),
			Token:   getString(v, "BACKEND_TOKEN", ""),
			Timeout: time.Duration(getInt(v, "BACKEND_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Catalog: CatalogConfig{
			Source:          strings.ToLower(getString(v, "CATALOG_SOURCE", CatalogSourceHTTP)),
			RefreshInterval: time.Duration(getInt(v, "CATALOG_REFRESH_SECONDS", 30)) * time.Second,
		},
		Drafts: DraftsConfig{
			TTL:            time.Duration(getInt(v, "DRAFT_TTL_MINUTES", 120)) * time.Minute,
			DefaultTaxRate: taxRate,
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "gestion"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Metrics: MetricsConfig{
			Enabled: strings.EqualFold(getString(v, "PROMETHEUS_ENABLED", "false"), "true"),
		},
	}

	switch cfg.Catalog.Source {
	case CatalogSourceHTTP, CatalogSourcePostgres:
	default:
		return nil, fmt.Errorf("CATALOG_SOURCE inválido: %q", cfg.Catalog.Source)
	}
	if cfg.Catalog.RefreshInterval <= 0 {
		return nil, fmt.Errorf("CATALOG_REFRESH_SECONDS debe ser mayor que 0")
	}
	if cfg.Backend.Timeout <= 0 {
		return nil, fmt.Errorf("BACKEND_TIMEOUT_SECONDS debe ser mayor que 0")
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
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
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
