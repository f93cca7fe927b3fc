package config

const (
	// DefaultModelName is the model served when the config names none.
	DefaultModelName = "all-MiniLM-L6-v2"
	// DefaultRepository is the Hugging Face repository for the default model.
	// The ONNX mirror carries a single model file, which the downloader can
	// resolve without an explicit file name.
	DefaultRepository = "KnightsAnalytics/all-MiniLM-L6-v2"
	// DefaultDimensions is the embedding width of the default model.
	DefaultDimensions = 384
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8001
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = DefaultModelName
	}
	if cfg.Model.Repository == "" {
		if cfg.Model.Name == DefaultModelName {
			cfg.Model.Repository = DefaultRepository
		} else {
			// Custom models name their repository directly.
			cfg.Model.Repository = cfg.Model.Name
		}
	}
	if cfg.Model.CacheDir == "" {
		cfg.Model.CacheDir = "/usr/local/var/embedsvc/models"
	}
	// Dimensions for custom models are left at zero and taken from the
	// loaded model instead.
	if cfg.Model.Dimensions == 0 && cfg.Model.Name == DefaultModelName {
		cfg.Model.Dimensions = DefaultDimensions
	}
	if cfg.Model.CacheSize == 0 {
		cfg.Model.CacheSize = 10000
	}
}
