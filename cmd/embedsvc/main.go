// Package main is the embedsvc CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/newnotes/embedsvc/internal/cli"
	"github.com/newnotes/embedsvc/internal/config"
	"github.com/newnotes/embedsvc/internal/embedding"
	"github.com/newnotes/embedsvc/internal/models"
	"github.com/newnotes/embedsvc/internal/server"
	"github.com/newnotes/embedsvc/pkg/utils"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/embedsvc/config.yaml"
	defaultServerURL  = "http://localhost:8001"
)

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "embedsvc server" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "embed":
		runEmbed()
	case "similarity":
		runSimilarity()
	case "health":
		runHealth()
	case "version", "--version", "-v":
		fmt.Printf("embedsvc version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (request traces, cache activity, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	loader := embedding.NewLoader(cfg.Model, logger)
	defer loader.Close()
	// Load the model before accepting traffic so a broken model path fails
	// the process instead of the first request.
	if _, err := loader.Get(); err != nil {
		logger.Fatal("Failed to load model", zap.Error(err))
	}

	srv := server.NewServer(loader, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// printEmbedUsage prints embed subcommand usage and examples.
func printEmbedUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: embedsvc embed [flags] <text>\n\n")
	fmt.Fprintf(fs.Output(), "Text is all remaining arguments joined by spaces. Multi-word inputs work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  embedsvc embed machine learning
  embedsvc embed "machine learning"            # same as above
  embedsvc embed --output json some text       # structured JSON for other apps
  embedsvc embed --server "" offline text      # load the model in-process
`)
}

// buildText joins all positional args with spaces so multi-word inputs
// work the same with or without shell quoting (e.g. "machine learning" vs machine learning).
func buildText(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the text
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument, so "embedsvc embed \"text\" -output json"
// would otherwise leave -output unparsed (default text used).
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// outputFormatFromFlag maps the --output flag value to a cli format, exiting on
// unknown values.
func outputFormatFromFlag(value string) cli.OutputFormat {
	switch value {
	case "json":
		return cli.OutputJSON
	case "text":
		return cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", value)
		os.Exit(1)
		return cli.OutputText
	}
}

func runEmbed() {
	embedArgs := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("embed", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for in-process mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = load the model in-process when server is not running)")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	fs.Usage = func() { printEmbedUsage(fs) }
	_ = fs.Parse(embedArgs)

	if fs.NArg() < 1 {
		printEmbedUsage(fs)
		os.Exit(1)
	}
	text := buildText(fs.Args())
	if text == "" {
		printEmbedUsage(fs)
		os.Exit(1)
	}
	format := outputFormatFromFlag(*outputFormat)

	var response *models.EmbedResponse
	if *serverURL != "" {
		// Use HTTP API when server is running (avoids loading the model twice).
		res, err := generateViaHTTP(*serverURL, &models.EmbedRequest{Text: text})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Embed failed: %v\n", err)
			os.Exit(1)
		}
		response = res
	} else {
		// In-process mode (when server is not running).
		embedder, cleanup := mustOpenEmbedder(*configPath)
		defer cleanup()
		vec, err := embedder.Embed(context.Background(), text)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Embed failed: %v\n", err)
			os.Exit(1)
		}
		response = &models.EmbedResponse{
			Embedding: vec,
			Model:     embedder.ModelName(),
			Dimension: embedder.Dimensions(),
		}
	}

	if err := cli.WriteEmbedding(os.Stdout, response, text, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runSimilarity() {
	simArgs := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("similarity", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (for in-process mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = load the model in-process when server is not running)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(simArgs)

	if fs.NArg() < 2 {
		fmt.Println("Usage: embedsvc similarity [flags] <text-a> <text-b>")
		os.Exit(1)
	}
	textA, textB := fs.Arg(0), fs.Arg(1)
	format := outputFormatFromFlag(*outputFormat)

	var vectors [][]float32
	if *serverURL != "" {
		res, err := generateBatchViaHTTP(*serverURL, &models.BatchEmbedRequest{Texts: []string{textA, textB}})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Similarity failed: %v\n", err)
			os.Exit(1)
		}
		vectors = res.Embeddings
	} else {
		embedder, cleanup := mustOpenEmbedder(*configPath)
		defer cleanup()
		res, err := embedder.EmbedBatch(context.Background(), []string{textA, textB})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Similarity failed: %v\n", err)
			os.Exit(1)
		}
		vectors = res
	}
	if len(vectors) != 2 {
		fmt.Fprintf(os.Stderr, "Similarity failed: got %d embeddings, want 2\n", len(vectors))
		os.Exit(1)
	}

	result := &cli.SimilarityResult{
		TextA:      textA,
		TextB:      textB,
		Similarity: float32(utils.CosineSimilarity(vectors[0], vectors[1])),
	}
	if err := cli.WriteSimilarity(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runHealth() {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := outputFormatFromFlag(*outputFormat)

	response, err := healthViaHTTP(*serverURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteHealth(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// mustOpenEmbedder loads config and the model for in-process commands,
// exiting the process on failure. The returned cleanup releases the model.
func mustOpenEmbedder(configPath string) (embedding.Embedder, func()) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	loader := embedding.NewLoader(cfg.Model, logger)
	embedder, err := loader.Get()
	if err != nil {
		logger.Fatal("Failed to load model", zap.Error(err))
	}
	cleanup := func() {
		_ = loader.Close()
		_ = logger.Sync()
	}
	return embedder, cleanup
}

func generateViaHTTP(serverURL string, request *models.EmbedRequest) (*models.EmbedResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/embeddings/generate", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.EmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func generateBatchViaHTTP(serverURL string, request *models.BatchEmbedRequest) (*models.BatchEmbedResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/embeddings/generate/batch", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.BatchEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func healthViaHTTP(serverURL string) (*models.HealthResponse, error) {
	resp, err := http.Get(serverURL + "/health")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func printUsage() {
	fmt.Println(`embedsvc - Local text embeddings service

Usage:
  embedsvc server [flags]               Start the HTTP server
  embedsvc embed [flags] <text>         Generate an embedding for text
  embedsvc similarity [flags] <a> <b>   Compare two texts by cosine similarity
  embedsvc health [flags]               Check a running server
  embedsvc version                      Show version
  embedsvc help                         Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/embedsvc/config.yaml)
  --debug            Enable debug logging (request traces, cache activity, etc.)

Embed Flags:
  --config string    Config file path (for in-process mode)
  --server string    Server URL (default: http://localhost:8001). Use empty (--server "") to load the model in-process when the server is not running.
  --output string    Output format: text or json (default: text)

Similarity Flags:
  --config string    Config file path (for in-process mode)
  --server string    Server URL (default: http://localhost:8001). Use empty (--server "") to load the model in-process.
  --output string    Output format: text or json (default: text)

Health Flags:
  --server string    Server URL (default: http://localhost:8001)
  --output string    Output format: text or json (default: text)

Examples:
  embedsvc server
  embedsvc embed "machine learning algorithms"
  embedsvc embed --output json "query"   # structured JSON for other apps
  embedsvc similarity "cats purr" "dogs bark"
  embedsvc health
  embedsvc health --output json`)
}
