package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ReviewConfig controls which organization profile edits send an approved
// listing back to review.
type ReviewConfig struct {
	// SensitiveFields is the set of profile fields whose change degrades
	// an approved organization to pending.
	SensitiveFields []string `mapstructure:"sensitiveFields"`
	// MaxRejectionReasonLen bounds the stored rejection reason.
	MaxRejectionReasonLen int `mapstructure:"maxRejectionReasonLen"`
}

func DefaultReviewConfig() ReviewConfig {
	return ReviewConfig{
		SensitiveFields: []string{
			"name", "short_name", "description", "full_description",
			"address", "website", "phone", "founded_year",
			"category", "city", "email", "volunteer_role",
		},
		MaxRejectionReasonLen: 2000,
	}
}

// ReviewConfigHolder exposes the review policy with hot reload.
type ReviewConfigHolder struct {
	current atomic.Value // holds ReviewConfig
}

func NewReviewConfigHolder(log *zap.Logger) (*ReviewConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("review")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/goodenergy")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GOODENERGY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultReviewConfig()
		v.SetDefault("review.sensitiveFields", defaults.SensitiveFields)
		v.SetDefault("review.maxRejectionReasonLen", defaults.MaxRejectionReasonLen)
	}

	var cfg ReviewConfig
	if err := v.UnmarshalKey("review", &cfg); err != nil {
		return nil, err
	}
	if err := validateReviewConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ReviewConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ReviewConfig
		if err := v.UnmarshalKey("review", &updated); err != nil {
			log.Warn("review config reload failed", zap.Error(err))
			return
		}
		if err := validateReviewConfig(updated); err != nil {
			log.Warn("review config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("review config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// NewStaticReviewConfigHolder wraps a fixed config, used by tests.
func NewStaticReviewConfigHolder(cfg ReviewConfig) *ReviewConfigHolder {
	holder := &ReviewConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *ReviewConfigHolder) Get() ReviewConfig {
	return h.current.Load().(ReviewConfig)
}

// IsSensitive reports whether a change to field triggers re-review.
func (c ReviewConfig) IsSensitive(field string) bool {
	for _, f := range c.SensitiveFields {
		if f == field {
			return true
		}
	}
	return false
}

func validateReviewConfig(cfg ReviewConfig) error {
	if len(cfg.SensitiveFields) == 0 {
		return errors.New("review.sensitiveFields cannot be empty")
	}
	if cfg.MaxRejectionReasonLen <= 0 {
		return errors.New("review.maxRejectionReasonLen must be positive")
	}
	return nil
}
