package embedding

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/backends"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/newnotes/embedsvc/internal/config"
)

// HugotEmbedder runs a pretrained sentence-transformer model through hugot.
// Output vectors are L2-normalized by the pipeline, matching the model's
// own normalization layer. Inference is read-only; concurrent requests
// contend inside the library, with no queueing imposed here.
type HugotEmbedder struct {
	session    *hugot.Session
	pipeline   *pipelines.FeatureExtractionPipeline
	modelName  string
	device     string
	dimensions int
	cache      *EmbeddingCache
}

// NewHugotEmbedder loads the model described by cfg and prepares a feature
// extraction pipeline. When cfg.Path is empty, the model is downloaded from
// cfg.Repository into cfg.CacheDir (hugot skips the download if the files
// are already there). The model is run once on a sample input to learn its
// output width, so a broken model fails here rather than on the first request.
func NewHugotEmbedder(cfg config.ModelConfig) (*HugotEmbedder, error) {
	session, device, err := newSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create inference session: %w", err)
	}

	modelPath := cfg.Path
	if modelPath == "" {
		modelPath, err = downloadModel(cfg.Repository, cfg.CacheDir)
		if err != nil {
			session.Destroy()
			return nil, err
		}
	}

	pipeline, err := hugot.NewPipeline(session, hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder",
		Options: []backends.PipelineOption[*pipelines.FeatureExtractionPipeline]{
			pipelines.WithNormalization(),
		},
	})
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	out, err := pipeline.RunPipeline([]string{"warmup"})
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("model warmup failed: %w", err)
	}
	if len(out.Embeddings) == 0 || len(out.Embeddings[0]) == 0 {
		session.Destroy()
		return nil, errors.New("model warmup returned no embedding")
	}
	dimensions := len(out.Embeddings[0])
	if cfg.Dimensions > 0 && dimensions != cfg.Dimensions {
		session.Destroy()
		return nil, fmt.Errorf("model produces %d-dimensional embeddings, config expects %d", dimensions, cfg.Dimensions)
	}

	e := &HugotEmbedder{
		session:    session,
		pipeline:   pipeline,
		modelName:  cfg.Name,
		device:     device,
		dimensions: dimensions,
	}
	if cfg.CacheSize > 0 {
		e.cache = NewEmbeddingCache(cfg.CacheSize)
	}
	return e, nil
}

// downloadModel fetches the model repository into cacheDir and returns the
// local model path.
func downloadModel(repository, cacheDir string) (string, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create model cache dir: %w", err)
	}
	path, err := hugot.DownloadModel(repository, cacheDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("failed to download model %s: %w", repository, err)
	}
	return path, nil
}

// Embed returns the embedding for text, using the cache when available.
func (e *HugotEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(text); ok {
			return cached, nil
		}
	}

	out, err := e.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	if len(out.Embeddings) != 1 {
		return nil, fmt.Errorf("inference returned %d embeddings for one input", len(out.Embeddings))
	}

	embedding := out.Embeddings[0]
	if e.cache != nil {
		e.cache.Set(text, embedding)
	}
	return embedding, nil
}

// EmbedBatch returns embeddings for texts, in input order. Cached texts are
// served from the cache; the rest run through the model in a single batch.
func (e *HugotEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	embeddings := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if e.cache != nil {
			if cached, ok := e.cache.Get(text); ok {
				embeddings[i] = cached
				continue
			}
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return embeddings, nil
	}

	out, err := e.pipeline.RunPipeline(missing)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	if len(out.Embeddings) != len(missing) {
		return nil, fmt.Errorf("inference returned %d embeddings for %d inputs", len(out.Embeddings), len(missing))
	}

	for j, i := range missingIdx {
		embeddings[i] = out.Embeddings[j]
		if e.cache != nil {
			e.cache.Set(texts[i], out.Embeddings[j])
		}
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension.
func (e *HugotEmbedder) Dimensions() int {
	return e.dimensions
}

// ModelName returns the configured model name.
func (e *HugotEmbedder) ModelName() string {
	return e.modelName
}

// DeviceName returns the device the model runs on ("cpu" or "cuda").
func (e *HugotEmbedder) DeviceName() string {
	return e.device
}

// Close destroys the session and releases model resources.
func (e *HugotEmbedder) Close() error {
	if e.session != nil {
		err := e.session.Destroy()
		e.session = nil
		return err
	}
	return nil
}
