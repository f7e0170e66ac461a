package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PlanConfig tunes which permissions each subscription tier may grant.
// Basic is an allow-list; Pro is everything minus an exclusion list;
// Enterprise is always everything and is not configurable.
type PlanConfig struct {
	BasicAllow []string `mapstructure:"basicAllow"`
	ProExclude []string `mapstructure:"proExclude"`
}

func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		BasicAllow: []string{
			"catalog.view",
			"catalog.manage",
			"party.view",
			"party.manage",
			"invoice.view",
			"invoice.create",
			"payment.record",
		},
		ProExclude: []string{
			"permissions.manage",
		},
	}
}

// PlanConfigHolder exposes the current plan config and hot-reloads it when
// the mounted config file changes. Callers must treat the returned value as
// immutable.
type PlanConfigHolder struct {
	current atomic.Value // holds PlanConfig
}

func NewPlanConfigHolder() (*PlanConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("plans")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/kirana/config") // Volume-mounted config
	v.AddConfigPath("/etc/kirana")            // System config
	v.AddConfigPath(".")                      // Current directory (dev mode)

	v.SetEnvPrefix("KIRANA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPlanConfig()
		v.SetDefault("plans.basicAllow", defaults.BasicAllow)
		v.SetDefault("plans.proExclude", defaults.ProExclude)
	}

	var cfg PlanConfig
	if err := v.UnmarshalKey("plans", &cfg); err != nil {
		return nil, err
	}
	if err := validatePlanConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PlanConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PlanConfig
		if err := v.UnmarshalKey("plans", &updated); err != nil {
			log.Printf("[plan-config] reload failed: %v", err)
			return
		}
		if err := validatePlanConfig(updated); err != nil {
			log.Printf("[plan-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[plan-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPlanConfigHolder is used by tests to pin a config.
func NewStaticPlanConfigHolder(cfg PlanConfig) *PlanConfigHolder {
	holder := &PlanConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PlanConfigHolder) Current() PlanConfig {
	return h.current.Load().(PlanConfig)
}

func validatePlanConfig(cfg PlanConfig) error {
	if len(cfg.BasicAllow) == 0 {
		return errors.New("plan config: basicAllow must not be empty")
	}
	for _, p := range cfg.BasicAllow {
		if strings.TrimSpace(p) == "" {
			return errors.New("plan config: empty permission in basicAllow")
		}
	}
	for _, p := range cfg.ProExclude {
		if strings.TrimSpace(p) == "" {
			return errors.New("plan config: empty permission in proExclude")
		}
	}
	return nil
}
