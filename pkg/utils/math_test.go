package utils

import (
	"math"
	"testing"
)

func TestNormalizeL2(t *testing.T) {
	v := []float32{3, 4}
	NormalizeL2(v)
	if math.Abs(L2Norm(v)-1.0) > 1e-6 {
		t.Errorf("norm after normalize = %f, want 1", L2Norm(v))
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("normalized = %v, want [0.6 0.8]", v)
	}
}

func TestNormalizeL2_Zero(t *testing.T) {
	v := []float32{0, 0, 0}
	NormalizeL2(v)
	for i, x := range v {
		if x != 0 {
			t.Errorf("v[%d]=%f, want 0", i, x)
		}
	}
}

func TestL2Norm(t *testing.T) {
	if n := L2Norm([]float32{3, 4}); math.Abs(n-5.0) > 1e-6 {
		t.Errorf("L2Norm = %f, want 5", n)
	}
	if n := L2Norm(nil); n != 0 {
		t.Errorf("L2Norm(nil) = %f, want 0", n)
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{1, 0, 0}
	if s := CosineSimilarity(a, b); math.Abs(s-1.0) > 1e-6 {
		t.Errorf("identical vectors: sim=%f, want 1", s)
	}

	c := []float32{0, 1, 0}
	if s := CosineSimilarity(a, c); math.Abs(s) > 1e-6 {
		t.Errorf("orthogonal vectors: sim=%f, want 0", s)
	}

	d := []float32{-1, 0, 0}
	if s := CosineSimilarity(a, d); math.Abs(s+1.0) > 1e-6 {
		t.Errorf("opposite vectors: sim=%f, want -1", s)
	}
}

func TestCosineSimilarity_Degenerate(t *testing.T) {
	if s := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}); s != 0 {
		t.Errorf("length mismatch: sim=%f, want 0", s)
	}
	if s := CosineSimilarity(nil, nil); s != 0 {
		t.Errorf("empty: sim=%f, want 0", s)
	}
	if s := CosineSimilarity([]float32{0, 0}, []float32{1, 1}); s != 0 {
		t.Errorf("zero norm: sim=%f, want 0", s)
	}
}
