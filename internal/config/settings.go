package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/patcharin/innflow/internal/ocr"
	"github.com/patcharin/innflow/internal/service"
)

// ApplySettings overlays config-file values onto stored settings. The
// snapshot carries last-saved settings; explicit config always wins.
func ApplySettings(stored service.Settings) service.Settings {
	out := stored

	if v := viper.GetString("property.name"); v != "" {
		out.PropertyName = v
	}
	if v := viper.GetString("property.address"); v != "" {
		out.PropertyAddress = v
	}
	if v := viper.GetString("property.tax_id"); v != "" {
		out.TaxID = v
	}
	if v := viper.GetString("property.phone"); v != "" {
		out.Phone = v
	}
	if v := viper.GetString("ocr.model"); v != "" {
		out.AIModel = v
	}
	if viper.IsSet("ledger.auto_reconcile") {
		out.AutoReconcile = viper.GetBool("ledger.auto_reconcile")
	}

	return out
}

// LockWindow returns the configured booking lock window.
func LockWindow() time.Duration {
	if v := viper.GetDuration("desk.lock_window"); v > 0 {
		return v
	}
	return time.Hour
}

// SweepInterval returns the configured lock sweep cadence.
func SweepInterval() time.Duration {
	if v := viper.GetDuration("desk.sweep_interval"); v > 0 {
		return v
	}
	return 10 * time.Second
}

// LoadOCRConfig builds the extraction client configuration.
func LoadOCRConfig(settings service.Settings) ocr.Config {
	cfg := ocr.Config{
		APIKey:      viper.GetString("ocr.api_key"),
		Model:       settings.AIModel,
		Temperature: viper.GetFloat64("ocr.temperature"),
		MaxTokens:   viper.GetInt("ocr.max_tokens"),
	}
	if cfg.APIKey == "" {
		cfg.APIKey = viper.GetString("ocr.gemini_api_key")
	}
	return cfg
}
