// Package e2e provides end-to-end tests with a large input corpus over the full HTTP stack.
package e2e

import (
	"fmt"
	"strings"
)

// E2EInput is a text entry in the E2E corpus.
type E2EInput struct {
	ID   string
	Text string
}

// Corpus holds inputs for E2E tests.
type Corpus struct {
	Inputs      []E2EInput
	TotalInputs int
}

// BuildCorpus returns a corpus of 100 inputs with varied topics, lengths, and scripts,
// including inputs that commonly trip up tokenizers (emoji, embedded whitespace, long text).
func BuildCorpus() *Corpus {
	inputs := buildInputs(100)
	return &Corpus{
		Inputs:      inputs,
		TotalInputs: len(inputs),
	}
}

func buildInputs(n int) []E2EInput {
	base := []string{
		"The cat sat on the windowsill watching birds.",
		"A kitten chased a ball of yarn across the floor.",
		"Stock markets rallied after the central bank held rates steady.",
		"Investors weighed inflation data against earnings reports.",
		"Heavy rain is expected along the coast through Friday.",
		"A cold front will bring snow to the mountains overnight.",
		"The recipe calls for two cups of flour and a pinch of salt.",
		"Simmer the sauce until it thickens, then season to taste.",
		"The midfielder scored twice in the second half.",
		"The marathon route winds through five historic neighborhoods.",
		"The train to the airport leaves every fifteen minutes.",
		"Travelers should arrive two hours before departure.",
		"The orchestra opened the evening with a quiet overture.",
		"Her new album blends folk melodies with electronic textures.",
		"Photosynthesis converts sunlight into chemical energy.",
		"The spacecraft sent back images of the icy moon's surface.",
		"Machine learning models learn patterns from labeled data.",
		"Neural networks transform text into dense vectors.",
		"The database index sped up the slowest queries.",
		"The deployment rolled back after the health check failed.",
		"Semantic search retrieves documents by meaning, not keywords.",
		"Embeddings place similar sentences near each other in vector space.",
		"The library was quiet except for the hum of the heating.",
		"Fresh bread from the corner bakery sells out by nine.",
		"The museum's new wing houses contemporary sculpture.",
		"Volunteers planted three hundred trees along the riverbank.",
		"The bridge closure rerouted traffic through downtown.",
		"Electric buses now run on half of the city's routes.",
		"The committee postponed the vote until next quarter.",
		"Negotiators reached a draft agreement late on Tuesday.",
		"The vaccine trial enrolled ten thousand participants.",
		"Regular exercise improves sleep quality and mood.",
		"The startup raised a seed round to expand its team.",
		"Quarterly revenue grew on strong subscription renewals.",
		"The hikers reached the summit just before sunrise.",
		"Tide pools along the point shelter anemones and crabs.",
		"The chess champion defended her title in a rapid final.",
		"The novel follows three generations of a fishing family.",
		"Glassblowing demonstrations run hourly at the craft fair.",
		"The observatory hosts a public viewing night each month.",
	}
	edge := []string{
		"こんにちは世界、今日はいい天気ですね。",
		"Älteste Straßenbahn fährt durch die Altstadt.",
		"Ёлки растут у реки, а ветер тихий.",
		"🚀 Launch day! 🎉 The rocket lifted off at dawn.",
		"3.14159 26535 89793 23846 26433 83279",
		"!!! ??? ... ;;; :::",
		"  leading and trailing spaces  ",
		"x",
		strings.Repeat("long input sentence repeated many times. ", 50),
		"Tabs\tand\nnewlines\nembedded in the middle.",
	}

	out := make([]E2EInput, 0, n)
	for _, text := range base {
		if len(out) == n {
			break
		}
		out = append(out, E2EInput{
			ID:   fmt.Sprintf("e2e-input-%03d", len(out)+1),
			Text: text,
		})
	}
	for _, text := range edge {
		if len(out) == n {
			break
		}
		out = append(out, E2EInput{
			ID:   fmt.Sprintf("e2e-input-%03d", len(out)+1),
			Text: text,
		})
	}
	// If we need more than the fixed lists, duplicate with a variant suffix.
	for len(out) < n {
		i := len(out)
		out = append(out, E2EInput{
			ID:   fmt.Sprintf("e2e-input-%03d", i+1),
			Text: fmt.Sprintf("%s Variant %d.", base[i%len(base)], i+1),
		})
	}
	return out
}

// Texts returns the corpus texts in input order, for batch requests.
func (c *Corpus) Texts() []string {
	out := make([]string, len(c.Inputs))
	for i := range c.Inputs {
		out[i] = c.Inputs[i].Text
	}
	return out
}
