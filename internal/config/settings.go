package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	StatusPolicyPermissive = "permissive"
	StatusPolicyStrict     = "strict"
)

// Settings are the business knobs that can change without a restart.
type Settings struct {
	Tax       TaxSettings      `mapstructure:"tax"`
	Invoice   InvoiceSettings  `mapstructure:"invoice"`
	Resources ResourceSettings `mapstructure:"resources"`
	Format    FormatSettings   `mapstructure:"format"`
}

type TaxSettings struct {
	Rate float64 `mapstructure:"rate"`
}

type InvoiceSettings struct {
	NumberTemplate string `mapstructure:"numberTemplate"`
	StatusPolicy   string `mapstructure:"statusPolicy"`
}

type ResourceSettings struct {
	EnforceUniqueness bool `mapstructure:"enforceUniqueness"`
}

type FormatSettings struct {
	Currency string `mapstructure:"currency"`
}

func DefaultSettings() Settings {
	return Settings{
		Tax:       TaxSettings{Rate: 0.10},
		Invoice:   InvoiceSettings{NumberTemplate: "INV-{YYYY}-{SEQ4}", StatusPolicy: StatusPolicyPermissive},
		Resources: ResourceSettings{EnforceUniqueness: true},
		Format:    FormatSettings{Currency: "AUD"},
	}
}

type SettingsHolder struct {
	current atomic.Value // holds Settings
}

// NewSettingsHolder reads smh.yml from path (or the default search paths when
// path is empty) and keeps it current while the file changes on disk.
func NewSettingsHolder(path string, log *zap.Logger) (*SettingsHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("smh")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/smh")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SMH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultSettings()
	v.SetDefault("tax.rate", defaults.Tax.Rate)
	v.SetDefault("invoice.numberTemplate", defaults.Invoice.NumberTemplate)
	v.SetDefault("invoice.statusPolicy", defaults.Invoice.StatusPolicy)
	v.SetDefault("resources.enforceUniqueness", defaults.Resources.EnforceUniqueness)
	v.SetDefault("format.currency", defaults.Format.Currency)

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		found = false
	}

	cfg, err := decodeSettings(v)
	if err != nil {
		return nil, err
	}

	holder := &SettingsHolder{}
	holder.current.Store(cfg)

	if found {
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := decodeSettings(v)
			if err != nil {
				log.Warn("settings reload rejected", zap.String("file", e.Name), zap.Error(err))
				return
			}
			holder.current.Store(updated)
			log.Info("settings reloaded", zap.String("file", e.Name))
		})
		v.WatchConfig()
	}

	return holder, nil
}

// NewStaticSettings returns a holder that never reloads.
func NewStaticSettings(s Settings) *SettingsHolder {
	holder := &SettingsHolder{}
	holder.current.Store(s)
	return holder
}

func (h *SettingsHolder) Get() Settings {
	return h.current.Load().(Settings)
}

func decodeSettings(v *viper.Viper) (Settings, error) {
	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return Settings{}, err
	}
	cfg.Invoice.StatusPolicy = strings.ToLower(strings.TrimSpace(cfg.Invoice.StatusPolicy))
	cfg.Format.Currency = strings.ToUpper(strings.TrimSpace(cfg.Format.Currency))
	if err := validateSettings(cfg); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

func validateSettings(cfg Settings) error {
	if cfg.Tax.Rate < 0 || cfg.Tax.Rate >= 1 {
		return errors.New("tax.rate must be within [0, 1)")
	}
	if !strings.Contains(cfg.Invoice.NumberTemplate, "{SEQ") {
		return errors.New("invoice.numberTemplate must contain a {SEQ} token")
	}
	switch cfg.Invoice.StatusPolicy {
	case StatusPolicyPermissive, StatusPolicyStrict:
	default:
		return errors.New("invoice.statusPolicy must be permissive or strict")
	}
	if len(cfg.Format.Currency) != 3 {
		return errors.New("format.currency must be an ISO 4217 code")
	}
	return nil
}
