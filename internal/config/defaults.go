package config

const (
	defaultOutputDir           = "~/subtitles"
	defaultTMDBLanguage        = "en-US"
	defaultTMDBBaseURL         = "https://api.themoviedb.org/3"
	defaultLogFormat           = "auto"
	defaultLogLevel            = "info"
	defaultFetchWorkers        = 8
	defaultRetryAttempts       = 2
	defaultRetryDelaySeconds   = 1
	defaultTimeoutSeconds      = 45
	defaultSimilarityThreshold = 96.0
	defaultHistoryPath         = "~/.local/share/subdl/history.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		TMDB: TMDB{
			Language: defaultTMDBLanguage,
			BaseURL:  defaultTMDBBaseURL,
		},
		Output: Output{
			Directory: defaultOutputDir,
		},
		Fetch: Fetch{
			Workers:           defaultFetchWorkers,
			RetryAttempts:     defaultRetryAttempts,
			RetryDelaySeconds: defaultRetryDelaySeconds,
			TimeoutSeconds:    defaultTimeoutSeconds,
		},
		Dedupe: Dedupe{
			SimilarityThreshold: defaultSimilarityThreshold,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
	}
}
