package evaluation

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// KeywordSimilarity scores texts by keyword overlap.
// It is deterministic and needs no external service.
type KeywordSimilarity struct{}

// Similarity returns |A∩B| / min(|A|, |B|) over the keyword sets of a and b
func (KeywordSimilarity) Similarity(_ context.Context, a, b string) (float64, error) {
	ka, kb := stemSet(keywords(a)), stemSet(keywords(b))
	if len(ka) == 0 || len(kb) == 0 {
		return 0, nil
	}
	shared := 0
	for k := range kb {
		if ka[k] {
			shared++
		}
	}
	return float64(shared) / float64(min(len(ka), len(kb))), nil
}

func stemSet(tokens []string) map[string]bool {
	out := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		out[stem(t)] = true
	}
	return out
}

// stem trims common English plural endings
func stem(t string) string {
	switch {
	case len(t) > 5 && strings.HasSuffix(t, "ies"):
		return t[:len(t)-3] + "y"
	case len(t) > 5 && strings.HasSuffix(t, "es") && !strings.HasSuffix(t, "ses"):
		return t[:len(t)-2]
	case len(t) > 4 && strings.HasSuffix(t, "s") && !strings.HasSuffix(t, "ss"):
		return t[:len(t)-1]
	}
	return t
}

// Embedder turns text into an embedding vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingSimilarity is cosine similarity over embeddings
type EmbeddingSimilarity struct {
	embedder Embedder
}

// NewEmbeddingSimilarity creates a similarity backed by the embedder
func NewEmbeddingSimilarity(e Embedder) *EmbeddingSimilarity {
	return &EmbeddingSimilarity{embedder: e}
}

func (s *EmbeddingSimilarity) Similarity(ctx context.Context, a, b string) (float64, error) {
	va, err := s.embedder.Embed(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("embed answer text: %w", err)
	}
	vb, err := s.embedder.Embed(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("embed point text: %w", err)
	}
	return CosineSimilarity(va, vb), nil
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched, empty or zero vectors give 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
