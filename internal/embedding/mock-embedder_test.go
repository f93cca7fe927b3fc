package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/newnotes/embedsvc/pkg/utils"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder(8)
	defer e.Close()
	ctx := context.Background()

	a, err := e.Embed(ctx, "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, err := e.Embed(ctx, "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(a) != 8 {
		t.Errorf("len=%d, want 8", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embeddings differ at %d: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestMockEmbedder_DifferentTextsDiffer(t *testing.T) {
	e := NewMockEmbedder(8)
	defer e.Close()
	ctx := context.Background()

	a, _ := e.Embed(ctx, "hello")
	b, _ := e.Embed(ctx, "goodbye")
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts should produce different embeddings")
	}
}

func TestMockEmbedder_Normalized(t *testing.T) {
	e := NewMockEmbedder(16)
	defer e.Close()

	emb, err := e.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if norm := utils.L2Norm(emb); math.Abs(norm-1.0) > 1e-5 {
		t.Errorf("norm=%f, want 1", norm)
	}
}

func TestMockEmbedder_EmbedBatch(t *testing.T) {
	e := NewMockEmbedder(4)
	defer e.Close()
	ctx := context.Background()

	embs, err := e.EmbedBatch(ctx, []string{"a", "", "c"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(embs) != 3 {
		t.Fatalf("got %d embeddings, want 3", len(embs))
	}
	for i, emb := range embs {
		if len(emb) != 4 {
			t.Errorf("embedding %d: len=%d, want 4", i, len(emb))
		}
	}

	single, _ := e.Embed(ctx, "a")
	for i := range single {
		if embs[0][i] != single[i] {
			t.Fatal("batch and single embeddings should match for the same text")
		}
	}
}

func TestMockEmbedder_Defaults(t *testing.T) {
	e := NewMockEmbedder(0)
	defer e.Close()
	if e.Dimensions() != 384 {
		t.Errorf("default dimensions: got %d, want 384", e.Dimensions())
	}
	if e.ModelName() == "" {
		t.Error("model name should be set")
	}
	if e.DeviceName() != "cpu" {
		t.Errorf("device: got %s, want cpu", e.DeviceName())
	}
}
