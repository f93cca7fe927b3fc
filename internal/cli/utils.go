// Package cli provides CLI utilities for embedsvc.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/newnotes/embedsvc/internal/models"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// SimilarityResult pairs two inputs with their cosine similarity score.
type SimilarityResult struct {
	TextA      string  `json:"text_a"`
	TextB      string  `json:"text_b"`
	Similarity float32 `json:"similarity"`
}

// WriteEmbedding writes an embedding response to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteEmbedding(w io.Writer, response *models.EmbedResponse, text string, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		fmt.Fprintf(w, "Text: %s\n", Truncate(text, 80))
		fmt.Fprintf(w, "Model: %s\n", response.Model)
		fmt.Fprintf(w, "Dimension: %d\n", response.Dimension)
		fmt.Fprintf(w, "Vector: %s\n", FormatVector(response.Embedding, 8))
		return nil
	}
}

// WriteSimilarity writes a similarity result to w in the given format.
func WriteSimilarity(w io.Writer, result *SimilarityResult, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		fmt.Fprintf(w, "Text A: %s\n", TruncateWords(result.TextA, 12))
		fmt.Fprintf(w, "Text B: %s\n", TruncateWords(result.TextB, 12))
		fmt.Fprintf(w, "Similarity: %.4f\n", result.Similarity)
		return nil
	}
}

// WriteHealth writes a health response to w in the given format.
func WriteHealth(w io.Writer, response *models.HealthResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		fmt.Fprintf(w, "Status: %s\n", response.Status)
		fmt.Fprintf(w, "Model: %s\n", response.Model)
		fmt.Fprintf(w, "Device: %s\n", response.Device)
		fmt.Fprintf(w, "Dimension: %d\n", response.Dimension)
		return nil
	}
}

// FormatVector renders the leading values of vec, noting how many were elided.
func FormatVector(vec []float32, max int) string {
	if max <= 0 || len(vec) <= max {
		max = len(vec)
	}
	parts := make([]string, 0, max)
	for _, v := range vec[:max] {
		parts = append(parts, fmt.Sprintf("%.4f", v))
	}
	if max < len(vec) {
		return fmt.Sprintf("[%s ...] (%d values)", strings.Join(parts, " "), len(vec))
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
