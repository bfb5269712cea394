package chatads

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/chatads/chatads-go/internal/apierrors"
)

// EnvPrefix is the prefix of environment variables read by LoadConfig.
const EnvPrefix = "CHATADS_"

// Config is the file and environment form of the client settings.
type Config struct {
	APIKey         string        `koanf:"api_key" validate:"required"`
	BaseURL        string        `koanf:"base_url" validate:"required,url,startswith=https://"`
	Endpoint       string        `koanf:"endpoint"`
	Timeout        time.Duration `koanf:"timeout" validate:"gte=0s"`
	MaxRetries     int           `koanf:"max_retries" validate:"gte=0"`
	Backoff        time.Duration `koanf:"backoff" validate:"gte=0s"`
	RetryOn        []int         `koanf:"retry_on" validate:"dive,gte=100,lte=599"`
	RaiseOnFailure bool          `koanf:"raise_on_failure"`
	UserAgent      string        `koanf:"user_agent"`
	RequestIDs     bool          `koanf:"request_ids"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// LoadConfig loads configuration with the following priority:
//  1. CHATADS_* environment variables (highest priority)
//  2. the YAML file at path, when path is not empty
//  3. default values (lowest priority)
func LoadConfig(path string) (*Config, error) {
	return LoadConfigWith(path, nil)
}

// LoadConfigWith is LoadConfig with one more layer on top of the
// environment. Keys use the koanf names of Config, e.g. "api_key".
func LoadConfigWith(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(configDefaults(), "."), nil); err != nil {
		return nil, apierrors.Config("failed to load defaults", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, apierrors.Config(fmt.Sprintf("failed to load %s", path), err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return nil, apierrors.Config("failed to load environment variables", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, apierrors.Config("failed to apply overrides", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, apierrors.Config("failed to unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configDefaults() map[string]any {
	return map[string]any{
		"endpoint":         DefaultEndpoint,
		"timeout":          DefaultTimeout.String(),
		"max_retries":      DefaultMaxRetries,
		"backoff":          DefaultBackoff.String(),
		"retry_on":         DefaultRetryStatuses(),
		"raise_on_failure": false,
		"request_ids":      false,
	}
}

// transformEnv maps CHATADS_BASE_URL to base_url. Empty variables are
// skipped and comma-separated status lists become slices.
func transformEnv(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "retry_on" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return key, parts
	}
	return key, value
}

// Validate checks c and returns an ErrInvalidConfig error naming every
// failed field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.Config("invalid configuration", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return apierrors.Config("invalid configuration: "+strings.Join(msgs, "; "), nil)
}

// options converts c into client options.
func (c *Config) options() []Option {
	opts := []Option{
		WithEndpoint(c.Endpoint),
		WithTimeout(c.Timeout),
		WithMaxRetries(c.MaxRetries),
		WithBackoff(c.Backoff),
		WithRaiseOnFailure(c.RaiseOnFailure),
		WithUserAgent(c.UserAgent),
	}
	if c.RetryOn != nil {
		opts = append(opts, WithRetryOn(c.RetryOn...))
	}
	if c.RequestIDs {
		opts = append(opts, WithRequestIDs())
	}
	return opts
}
