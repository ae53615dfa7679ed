package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/aiq-cli/internal/actuarial"
)

// MinSkillStep is the finest skill sweep increment, 1001 points at most.
const MinSkillStep = 0.001

// Config holds the full application configuration.
type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Tables     TablesConfig     `yaml:"tables" mapstructure:"tables"`
	Actuarial  ActuarialConfig  `yaml:"actuarial" mapstructure:"actuarial"`
	Policy     PolicyConfig     `yaml:"policy" mapstructure:"policy"`
	Market     MarketConfig     `yaml:"market" mapstructure:"market"`
	Simulation SimulationConfig `yaml:"simulation" mapstructure:"simulation"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TablesConfig points at an optional lookup table file (.yaml or .xlsx).
// An empty path selects the built-in tables.
type TablesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ActuarialConfig holds the model weights and probability scalers.
type ActuarialConfig struct {
	WCR            float64 `yaml:"w_cr" mapstructure:"w_cr"`
	WUS            float64 `yaml:"w_us" mapstructure:"w_us"`
	WEcon          float64 `yaml:"w_econ" mapstructure:"w_econ"`
	WInno          float64 `yaml:"w_inno" mapstructure:"w_inno"`
	W1FCR          float64 `yaml:"w1_fcr" mapstructure:"w1_fcr"`
	W2FCR          float64 `yaml:"w2_fcr" mapstructure:"w2_fcr"`
	W3FCR          float64 `yaml:"w3_fcr" mapstructure:"w3_fcr"`
	GammaGen       float64 `yaml:"gamma_gen" mapstructure:"gamma_gen"`
	GammaSpec      float64 `yaml:"gamma_spec" mapstructure:"gamma_spec"`
	BetaSystemic   float64 `yaml:"beta_systemic" mapstructure:"beta_systemic"`
	BetaIndividual float64 `yaml:"beta_individual" mapstructure:"beta_individual"`
}

// PolicyConfig holds the default insurance policy terms.
type PolicyConfig struct {
	AnnualSalary           float64 `yaml:"annual_salary" mapstructure:"annual_salary"`
	CoverageDurationMonths int     `yaml:"coverage_duration_months" mapstructure:"coverage_duration_months"`
	CoveragePercentage     float64 `yaml:"coverage_percentage" mapstructure:"coverage_percentage"`
	LoadingFactor          float64 `yaml:"loading_factor" mapstructure:"loading_factor"`
	MinMonthlyPremium      float64 `yaml:"min_monthly_premium" mapstructure:"min_monthly_premium"`
}

// MarketConfig holds the default macro modifiers.
type MarketConfig struct {
	EconomicClimate float64 `yaml:"economic_climate" mapstructure:"economic_climate"`
	AIInnovation    float64 `yaml:"ai_innovation" mapstructure:"ai_innovation"`
}

// SimulationConfig configures transition and skill sweeps.
type SimulationConfig struct {
	TTVMonths int     `yaml:"ttv_months" mapstructure:"ttv_months"`
	SkillStep float64 `yaml:"skill_step" mapstructure:"skill_step"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AIQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("tables.path", "")
	v.SetDefault("actuarial.w_cr", 0.4)
	v.SetDefault("actuarial.w_us", 0.6)
	v.SetDefault("actuarial.w_econ", 0.5)
	v.SetDefault("actuarial.w_inno", 0.5)
	v.SetDefault("actuarial.w1_fcr", 0.33)
	v.SetDefault("actuarial.w2_fcr", 0.33)
	v.SetDefault("actuarial.w3_fcr", 0.34)
	v.SetDefault("actuarial.gamma_gen", 0.7)
	v.SetDefault("actuarial.gamma_spec", 0.3)
	v.SetDefault("actuarial.beta_systemic", 0.10)
	v.SetDefault("actuarial.beta_individual", 0.50)
	v.SetDefault("policy.annual_salary", 90000)
	v.SetDefault("policy.coverage_duration_months", 6)
	v.SetDefault("policy.coverage_percentage", 0.25)
	v.SetDefault("policy.loading_factor", 1.5)
	v.SetDefault("policy.min_monthly_premium", 20.0)
	v.SetDefault("market.economic_climate", 1.0)
	v.SetDefault("market.ai_innovation", 1.0)
	v.SetDefault("simulation.ttv_months", 12)
	v.SetDefault("simulation.skill_step", 0.05)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that every parameter lies in the domain the formulas
// accept. All violations are reported together.
func (c *Config) Validate() error {
	var errs []string

	nonNegative := map[string]float64{
		"actuarial.gamma_gen":        c.Actuarial.GammaGen,
		"actuarial.gamma_spec":       c.Actuarial.GammaSpec,
		"actuarial.beta_systemic":    c.Actuarial.BetaSystemic,
		"policy.annual_salary":       c.Policy.AnnualSalary,
		"policy.loading_factor":      c.Policy.LoadingFactor,
		"policy.min_monthly_premium": c.Policy.MinMonthlyPremium,
		"actuarial.w_cr":             c.Actuarial.WCR,
		"actuarial.w_us":             c.Actuarial.WUS,
		"actuarial.w_econ":           c.Actuarial.WEcon,
		"actuarial.w_inno":           c.Actuarial.WInno,
		"actuarial.w1_fcr":           c.Actuarial.W1FCR,
		"actuarial.w2_fcr":           c.Actuarial.W2FCR,
		"actuarial.w3_fcr":           c.Actuarial.W3FCR,
	}
	for name, v := range nonNegative {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be a finite number >= 0", name))
		}
	}

	for name, v := range map[string]float64{
		"market.economic_climate": c.Market.EconomicClimate,
		"market.ai_innovation":    c.Market.AIInnovation,
	} {
		if !(v > 0) || math.IsInf(v, 1) {
			errs = append(errs, fmt.Sprintf("%s must be a finite number > 0", name))
		}
	}

	if !inUnit(c.Actuarial.BetaIndividual) {
		errs = append(errs, "actuarial.beta_individual must be between 0 and 1")
	}
	if !inUnit(c.Policy.CoveragePercentage) {
		errs = append(errs, "policy.coverage_percentage must be between 0 and 1")
	}
	if c.Policy.CoverageDurationMonths < 0 || c.Policy.CoverageDurationMonths > actuarial.MaxMonths {
		errs = append(errs, fmt.Sprintf("policy.coverage_duration_months must be between 0 and %d", actuarial.MaxMonths))
	}
	if c.Simulation.TTVMonths <= 0 || c.Simulation.TTVMonths > actuarial.MaxMonths {
		errs = append(errs, fmt.Sprintf("simulation.ttv_months must be between 1 and %d", actuarial.MaxMonths))
	}
	if !(c.Simulation.SkillStep >= MinSkillStep && c.Simulation.SkillStep <= 1) {
		errs = append(errs, fmt.Sprintf("simulation.skill_step must be in [%v, 1]", MinSkillStep))
	}

	if len(errs) > 0 {
		// Map iteration order is random; keep the message stable.
		sort.Strings(errs)
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
