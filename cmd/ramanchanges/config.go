package main

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-raman/analysis/pipeline"
	"github.com/cwbudde/algo-raman/format/report"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "RAMAN"

// config holds everything the command needs. The analysis keys live at the
// top level of the config file, next to the command's own keys.
type config struct {
	pipeline.Config `mapstructure:",squash"`

	Markers string `mapstructure:"markers"`
	Format  string `mapstructure:"format"`
	Output  string `mapstructure:"output"`
	Archive string `mapstructure:"archive"`
	Label   string `mapstructure:"label"`
	Debug   bool   `mapstructure:"debug"`
}

func newFlagSet() *pflag.FlagSet {
	d := pipeline.DefaultConfig()
	fs := pflag.NewFlagSet("ramanchanges", pflag.ContinueOnError)
	fs.SortFlags = false

	fs.String("config", "", "optional YAML/TOML/JSON configuration file")
	fs.Float64("sigma", d.Sigma, "Gaussian smoothing width in samples (0 disables)")
	fs.Float64("prominence", d.Prominence, "minimum peak prominence, relative to the normalized spectrum")
	fs.Float64("height", d.Height, "minimum peak height, relative to the normalized spectrum")
	fs.Int("distance", d.Distance, "minimum distance between peaks in samples")
	fs.Float64("min-width", d.MinWidth, "minimum peak width in samples")
	fs.Bool("shoulders", d.Shoulders, "detect shoulders next to primary peaks")
	fs.Bool("no-shoulders", false, "disable shoulder detection")
	fs.Float64("shoulder-ratio", d.ShoulderRatio, "minimum shoulder height relative to its parent peak")
	fs.Float64("tolerance", d.Tolerance, "matching tolerance in cm^-1 between consecutive spectra")
	fs.String("matcher", d.Matcher, "feature matcher: greedy or optimal")
	fs.Float64("growth", d.Growth, "relative intensity change that counts as growth or diminishing")
	fs.Float64("shift", d.Shift, "position change in cm^-1 that counts as a shift")
	fs.Float64("phase-tolerance", d.PhaseTolerance, "maximum distance in cm^-1 to a reference band")
	fs.Int("workers", d.Workers, "concurrent workers (0 uses GOMAXPROCS)")
	fs.String("markers", "", "reference band file used for phase assignment")
	fs.String("format", string(report.FormatText), "report format: text, json or msgpack")
	fs.StringP("output", "o", "", "write the report to this file instead of stdout")
	fs.String("archive", "", "SQLite database that archives every run")
	fs.String("label", "", "label stored with the archived run")
	fs.Bool("list-runs", false, "list the runs stored in --archive and exit")
	fs.String("show-run", "", "write the report of an archived run and exit")
	fs.String("delete-run", "", "remove an archived run and exit")
	fs.Float64("near", 0, "list archived events within --tolerance of this position (cm^-1) and exit")
	fs.Bool("debug", false, "verbose development logging")
	return fs
}

func setDefaults(v *viper.Viper) {
	d := pipeline.DefaultConfig()
	v.SetDefault("sigma", d.Sigma)
	v.SetDefault("prominence", d.Prominence)
	v.SetDefault("height", d.Height)
	v.SetDefault("distance", d.Distance)
	v.SetDefault("min-width", d.MinWidth)
	v.SetDefault("shoulders", d.Shoulders)
	v.SetDefault("shoulder-ratio", d.ShoulderRatio)
	v.SetDefault("tolerance", d.Tolerance)
	v.SetDefault("matcher", d.Matcher)
	v.SetDefault("growth", d.Growth)
	v.SetDefault("shift", d.Shift)
	v.SetDefault("phase-tolerance", d.PhaseTolerance)
	v.SetDefault("workers", d.Workers)

	v.SetDefault("format", string(report.FormatText))
}

// loadConfig parses args into fs and merges the result with the optional
// config file and RAMAN_* environment variables. Flags win over the
// environment, which wins over the file.
func loadConfig(fs *pflag.FlagSet, args []string) (*config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if v.GetBool("no-shoulders") {
		cfg.Shoulders = false
	}
	return &cfg, nil
}

// Validate checks the analysis parameters and the output settings.
func (c *config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}
	return nil
}
