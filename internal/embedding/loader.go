package embedding

import (
	"sync"

	"go.uber.org/zap"

	"github.com/newnotes/embedsvc/internal/config"
)

// Loader owns the process-wide embedder. The model is loaded on the first Get
// and the same instance handed out afterwards; concurrent first callers block
// on the load instead of loading twice. A failed load is remembered, since a
// process whose model cannot load cannot serve.
type Loader struct {
	cfg         config.ModelConfig
	logger      *zap.Logger
	newEmbedder func(config.ModelConfig) (Embedder, error)

	once     sync.Once
	embedder Embedder
	err      error
}

// NewLoader returns a loader for the model described by cfg.
func NewLoader(cfg config.ModelConfig, logger *zap.Logger) *Loader {
	return NewLoaderWith(cfg, logger, func(c config.ModelConfig) (Embedder, error) {
		return NewHugotEmbedder(c)
	})
}

// NewLoaderWith returns a loader that obtains its embedder from newEmbedder
// instead of loading the model described by cfg.
func NewLoaderWith(cfg config.ModelConfig, logger *zap.Logger, newEmbedder func(config.ModelConfig) (Embedder, error)) *Loader {
	return &Loader{cfg: cfg, logger: logger, newEmbedder: newEmbedder}
}

// Get returns the shared embedder, loading the model on first call.
func (l *Loader) Get() (Embedder, error) {
	l.once.Do(l.load)
	return l.embedder, l.err
}

func (l *Loader) load() {
	fields := []zap.Field{zap.String("model", l.cfg.Name)}
	if l.cfg.Path != "" {
		fields = append(fields, zap.String("path", l.cfg.Path))
	} else {
		fields = append(fields, zap.String("repository", l.cfg.Repository))
	}
	l.logger.Info("loading model", fields...)

	embedder, err := l.newEmbedder(l.cfg)
	if err != nil {
		l.logger.Error("model load failed", zap.Error(err))
		l.err = err
		return
	}
	l.logger.Info("model loaded",
		zap.String("model", embedder.ModelName()),
		zap.String("device", embedder.DeviceName()),
		zap.Int("dimension", embedder.Dimensions()))
	l.embedder = embedder
}

// Close releases the embedder if one was loaded.
func (l *Loader) Close() error {
	if l.embedder != nil {
		return l.embedder.Close()
	}
	return nil
}
