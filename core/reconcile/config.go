package reconcile

// Config holds the comparison defaults applied by the CLI and the HTTP service.
type Config struct {
	SuffixA   string `mapstructure:"suffix_a" default:"_A"`
	SuffixB   string `mapstructure:"suffix_b" default:"_B"`
	Indicator string `mapstructure:"indicator" default:"_merge"`
	Normalize bool   `mapstructure:"normalize" default:"false"`
	// Validate is the default cardinality mode; empty checks nothing.
	Validate string `mapstructure:"validate" default:""`
	// Parallel indexes both sides concurrently.
	Parallel bool `mapstructure:"parallel" default:"true"`
}

// Options converts the configuration into comparison options.
func (c Config) Options() Options {
	return Options{
		Suffixes:  [2]string{c.SuffixA, c.SuffixB},
		Indicator: c.Indicator,
		Normalize: c.Normalize,
		Validate:  c.Validate,
		Parallel:  c.Parallel,
	}
}
