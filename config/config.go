package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Storage selects the backend holding subscriber records and mailboxes
	Storage StorageConfig `json:"storage" yaml:"storage"`

	Redis *RedisConfig `json:"redis" yaml:"redis"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`

	VAPID VAPIDConfig `json:"vapid" yaml:"vapid"`

	Push PushConfig `json:"push" yaml:"push"`

	Alerts AlertsConfig `json:"alerts" yaml:"alerts"`

	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`

	// PubSub configuration for cycle request events
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// StorageConfig picks one of memory, redis or postgres
type StorageConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	// SlowQueryThreshold marks postgres statements logged as slow, 0 disables
	SlowQueryThreshold time.Duration `json:"slowQueryThreshold" yaml:"slowQueryThreshold"`
}

// RedisConfig mirrors redis.Options fields that are worth configuring
type RedisConfig struct {
	URL          string        `json:"url" yaml:"url"`
	Address      string        `json:"address" yaml:"address"`
	Password     string        `json:"password" yaml:"password"`
	DB           int           `json:"db" yaml:"db"`
	PoolSize     int           `json:"poolSize" yaml:"poolSize"`
	MinIdleConns int           `json:"minIdleConns" yaml:"minIdleConns"`
	DialTimeout  time.Duration `json:"dialTimeout" yaml:"dialTimeout"`
	ReadTimeout  time.Duration `json:"readTimeout" yaml:"readTimeout"`
	WriteTimeout time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
	Namespace    string        `json:"namespace" yaml:"namespace"`
}

// CatalogConfig defines the upstream second-hand offer search
type CatalogConfig struct {
	BaseURL      string        `json:"baseUrl" yaml:"baseUrl"`
	LanguageCode string        `json:"languageCode" yaml:"languageCode"`
	PageSize     int           `json:"pageSize" yaml:"pageSize"`
	MaxPages     int           `json:"maxPages" yaml:"maxPages"`
	Timeout      time.Duration `json:"timeout" yaml:"timeout"`

	// Requests per second allowed against the upstream, 0 disables limiting
	RateLimit float64 `json:"rateLimit" yaml:"rateLimit"`
	Burst     int     `json:"burst" yaml:"burst"`

	Stores []StoreConfig `json:"stores" yaml:"stores"`
}

type StoreConfig struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// VAPIDConfig holds the application server key pair, both base64url encoded
type VAPIDConfig struct {
	PublicKey  string `json:"publicKey" yaml:"publicKey"`
	PrivateKey string `json:"privateKey" yaml:"privateKey"`
	Subject    string `json:"subject" yaml:"subject"`
}

type PushConfig struct {
	TTL     int           `json:"ttl" yaml:"ttl"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// ContentEncoding is aes128gcm or aesgcm
	ContentEncoding string `json:"contentEncoding" yaml:"contentEncoding"`
}

// AlertsConfig tunes the evaluation engine
type AlertsConfig struct {
	SeenCap    int           `json:"seenCap" yaml:"seenCap"`
	Workers    int           `json:"workers" yaml:"workers"`
	PageSize   int           `json:"pageSize" yaml:"pageSize"`
	MailboxTTL time.Duration `json:"mailboxTTL" yaml:"mailboxTTL"`
	LockTTL    time.Duration `json:"lockTTL" yaml:"lockTTL"`

	// DeliveryMode is mailbox (wake push + poll) or payload (encrypted push)
	DeliveryMode string `json:"deliveryMode" yaml:"deliveryMode"`

	// SeenScope is alert (per-alert seen sets) or record (legacy shared list)
	SeenScope string `json:"seenScope" yaml:"seenScope"`

	// MarkSeenOnDeliveryFailure defaults to true when the key is absent
	MarkSeenOnDeliveryFailure *bool  `json:"markSeenOnDeliveryFailure" yaml:"markSeenOnDeliveryFailure"`
	DeepLinkBase              string `json:"deepLinkBase" yaml:"deepLinkBase"`
}

// MarksSeenOnDeliveryFailure reports whether listings of a failed delivery are marked seen.
func (c AlertsConfig) MarksSeenOnDeliveryFailure() bool {
	return c.MarkSeenOnDeliveryFailure == nil || *c.MarkSeenOnDeliveryFailure
}

type SchedulerConfig struct {
	Interval   time.Duration `json:"interval" yaml:"interval"`
	RunOnStart bool          `json:"runOnStart" yaml:"runOnStart"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	configFile, found := findConfigFile(searchPaths, currEnv)
	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// ENV_VAR_NAME is aligned with existing YAML keys, e.g. ALERTS_SEENCAP -> alerts.seenCap
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func findConfigFile(searchPaths []string, currEnv string) (string, bool) {
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}

	return "", false
}

func New() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "memory"
	}

	if cfg.Catalog.LanguageCode == "" {
		cfg.Catalog.LanguageCode = "pl"
	}
	if cfg.Catalog.PageSize <= 0 {
		cfg.Catalog.PageSize = 32
	}
	if cfg.Catalog.MaxPages <= 0 {
		cfg.Catalog.MaxPages = 20
	}
	if cfg.Catalog.Timeout <= 0 {
		cfg.Catalog.Timeout = 15 * time.Second
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 60
	}
	if cfg.Push.Timeout <= 0 {
		cfg.Push.Timeout = 10 * time.Second
	}
	if cfg.Push.ContentEncoding == "" {
		cfg.Push.ContentEncoding = "aes128gcm"
	}

	if cfg.Alerts.SeenCap <= 0 {
		cfg.Alerts.SeenCap = 200
	}
	if cfg.Alerts.Workers <= 0 {
		cfg.Alerts.Workers = 4
	}
	if cfg.Alerts.PageSize <= 0 {
		cfg.Alerts.PageSize = 1000
	}
	if cfg.Alerts.MailboxTTL <= 0 {
		cfg.Alerts.MailboxTTL = 300 * time.Second
	}
	if cfg.Alerts.LockTTL <= 0 {
		cfg.Alerts.LockTTL = 5 * time.Minute
	}
	if cfg.Alerts.DeliveryMode == "" {
		cfg.Alerts.DeliveryMode = "mailbox"
	}
	if cfg.Alerts.SeenScope == "" {
		cfg.Alerts.SeenScope = "alert"
	}
	if cfg.Alerts.MarkSeenOnDeliveryFailure == nil {
		markSeen := true
		cfg.Alerts.MarkSeenOnDeliveryFailure = &markSeen
	}
	if cfg.Alerts.DeepLinkBase == "" {
		cfg.Alerts.DeepLinkBase = "/"
	}

	if cfg.Scheduler.Interval <= 0 {
		cfg.Scheduler.Interval = 10 * time.Minute
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		})
	}

	return replicas
}
