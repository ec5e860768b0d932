package fetch

// Config holds configuration for content transfers.
type Config struct {
	// TimeoutSeconds bounds a single transfer, including connection setup.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"120"`
	// Concurrency is the number of transfers allowed to run in parallel
	// during an update pass. 1 selects the sequential executor.
	Concurrency int `mapstructure:"concurrency" default:"4"`
}
