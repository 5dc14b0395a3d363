package app

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/nutsalhan87/zond"
)

const (
	DefaultCountThreshold    = 8
	DefaultDebounceMillis    = 250
	DefaultWorkers           = 4
	DefaultOpsPerWorker      = 64
	DefaultSeed              = 1
	DefaultMetricsListenAddr = "127.0.0.1:9090"
)

// PolicyKind selects the flush policy the workload runs with.
type PolicyKind string

const (
	PolicyOnClose  PolicyKind = "on_close"
	PolicyCount    PolicyKind = "count"
	PolicyDebounce PolicyKind = "debounce"
)

// DefaultPolicyKind is used when the config file leaves the policy out.
const DefaultPolicyKind = PolicyCount

// Config drives one demo run: which flush policy the workers use, where
// batches go, the shape of the synthetic workload, and the metrics
// endpoint.
type Config struct {
	Policy   PolicyConfig
	Sinks    SinksConfig
	Workload WorkloadConfig
	Metrics  MetricsConfig
}

// PolicyConfig describes the flush policy template shared by all
// workers. Only the field matching Kind is consulted.
type PolicyConfig struct {
	Kind           PolicyKind
	CountThreshold int
	DebounceMillis int
}

// SinksConfig toggles the batch destinations. Any combination may be
// active at once; every active sink sees every batch.
type SinksConfig struct {
	Stdout     bool
	LogBatches bool
	JSONLPath  string
	BoltPath   string
}

// WorkloadConfig shapes the synthetic op scripts the workers run.
type WorkloadConfig struct {
	Workers      int
	OpsPerWorker int
	Seed         int64
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled       bool
	ListenAddress string
}

type rawConfig struct {
	Policy   rawPolicy   `mapstructure:"policy"`
	Sinks    rawSinks    `mapstructure:"sinks"`
	Workload rawWorkload `mapstructure:"workload"`
	Metrics  rawMetrics  `mapstructure:"metrics"`
}

type rawPolicy struct {
	Kind           string `mapstructure:"kind"`
	CountThreshold int    `mapstructure:"countThreshold"`
	DebounceMillis int    `mapstructure:"debounceMillis"`
}

type rawSinks struct {
	Stdout     bool   `mapstructure:"stdout"`
	LogBatches bool   `mapstructure:"logBatches"`
	JSONLPath  string `mapstructure:"jsonlPath"`
	BoltPath   string `mapstructure:"boltPath"`
}

type rawWorkload struct {
	Workers      int   `mapstructure:"workers"`
	OpsPerWorker int   `mapstructure:"opsPerWorker"`
	Seed         int64 `mapstructure:"seed"`
}

type rawMetrics struct {
	Enabled       bool   `mapstructure:"enabled"`
	ListenAddress string `mapstructure:"listenAddress"`
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ZOND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setConfigDefaults(v)
	return v
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("policy.kind", string(DefaultPolicyKind))
	v.SetDefault("policy.countThreshold", DefaultCountThreshold)
	v.SetDefault("policy.debounceMillis", DefaultDebounceMillis)
	v.SetDefault("sinks.stdout", true)
	v.SetDefault("sinks.logBatches", false)
	v.SetDefault("sinks.jsonlPath", "")
	v.SetDefault("sinks.boltPath", "")
	v.SetDefault("workload.workers", DefaultWorkers)
	v.SetDefault("workload.opsPerWorker", DefaultOpsPerWorker)
	v.SetDefault("workload.seed", DefaultSeed)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.listenAddress", DefaultMetricsListenAddr)
}

// LoadConfig reads, parses and validates the config file at path.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates a YAML config document. Missing
// settings take their defaults; environment variables prefixed with ZOND_
// override both (ZOND_WORKLOAD_SEED, ZOND_POLICY_KIND, ...).
func ParseConfig(data []byte) (Config, error) {
	v := newConfigViper()
	if err := v.ReadConfig(bytes.NewBuffer(data)); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return normalizeConfig(raw)
}

func normalizeConfig(raw rawConfig) (Config, error) {
	var errs []string

	kind := PolicyKind(strings.ToLower(strings.TrimSpace(raw.Policy.Kind)))
	switch kind {
	case "":
		kind = DefaultPolicyKind
	case PolicyOnClose, PolicyCount, PolicyDebounce:
	default:
		errs = append(errs, fmt.Sprintf("unknown policy kind %q", raw.Policy.Kind))
	}
	if kind == PolicyCount && raw.Policy.CountThreshold < 1 {
		errs = append(errs, "policy.countThreshold must be positive")
	}
	if kind == PolicyDebounce && raw.Policy.DebounceMillis < 1 {
		errs = append(errs, "policy.debounceMillis must be positive")
	}
	if raw.Workload.Workers < 1 {
		errs = append(errs, "workload.workers must be positive")
	}
	if raw.Workload.OpsPerWorker < 1 {
		errs = append(errs, "workload.opsPerWorker must be positive")
	}
	if raw.Metrics.Enabled && strings.TrimSpace(raw.Metrics.ListenAddress) == "" {
		errs = append(errs, "metrics.listenAddress is required when metrics are enabled")
	}
	if len(errs) > 0 {
		return Config{}, errors.New(strings.Join(errs, "; "))
	}

	return Config{
		Policy: PolicyConfig{
			Kind:           kind,
			CountThreshold: raw.Policy.CountThreshold,
			DebounceMillis: raw.Policy.DebounceMillis,
		},
		Sinks: SinksConfig{
			Stdout:     raw.Sinks.Stdout,
			LogBatches: raw.Sinks.LogBatches,
			JSONLPath:  strings.TrimSpace(raw.Sinks.JSONLPath),
			BoltPath:   strings.TrimSpace(raw.Sinks.BoltPath),
		},
		Workload: WorkloadConfig{
			Workers:      raw.Workload.Workers,
			OpsPerWorker: raw.Workload.OpsPerWorker,
			Seed:         raw.Workload.Seed,
		},
		Metrics: MetricsConfig{
			Enabled:       raw.Metrics.Enabled,
			ListenAddress: strings.TrimSpace(raw.Metrics.ListenAddress),
		},
	}, nil
}

// BuildPolicy turns the policy section into the zond.Policy template
// handed to every worker.
func BuildPolicy(cfg PolicyConfig) (zond.Policy, error) {
	switch cfg.Kind {
	case PolicyOnClose:
		return zond.OnCloseOnly(), nil
	case PolicyCount:
		return zond.CountThreshold(cfg.CountThreshold)
	case PolicyDebounce:
		return zond.Debounced(time.Duration(cfg.DebounceMillis) * time.Millisecond)
	default:
		return nil, fmt.Errorf("unknown policy kind %q", cfg.Kind)
	}
}

// StarterConfig renders the YAML document written by `zonddemo init`:
// every setting present, set to its default.
func StarterConfig() ([]byte, error) {
	doc := struct {
		Policy struct {
			Kind           string `yaml:"kind"`
			CountThreshold int    `yaml:"countThreshold"`
			DebounceMillis int    `yaml:"debounceMillis"`
		} `yaml:"policy"`
		Sinks struct {
			Stdout     bool   `yaml:"stdout"`
			LogBatches bool   `yaml:"logBatches"`
			JSONLPath  string `yaml:"jsonlPath"`
			BoltPath   string `yaml:"boltPath"`
		} `yaml:"sinks"`
		Workload struct {
			Workers      int   `yaml:"workers"`
			OpsPerWorker int   `yaml:"opsPerWorker"`
			Seed         int64 `yaml:"seed"`
		} `yaml:"workload"`
		Metrics struct {
			Enabled       bool   `yaml:"enabled"`
			ListenAddress string `yaml:"listenAddress"`
		} `yaml:"metrics"`
	}{}

	doc.Policy.Kind = string(DefaultPolicyKind)
	doc.Policy.CountThreshold = DefaultCountThreshold
	doc.Policy.DebounceMillis = DefaultDebounceMillis
	doc.Sinks.Stdout = true
	doc.Workload.Workers = DefaultWorkers
	doc.Workload.OpsPerWorker = DefaultOpsPerWorker
	doc.Workload.Seed = DefaultSeed
	doc.Metrics.ListenAddress = DefaultMetricsListenAddr

	return yaml.Marshal(doc)
}
