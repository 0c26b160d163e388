package config

import "time"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Claims extracts claims and answer quality from an answer (needs to be fast)
	Claims string `mapstructure:"claims" json:"claims"`

	// FollowUp writes follow-up prompts (needs to be fast)
	FollowUp string `mapstructure:"follow-up" json:"followUp"`

	// Feedback writes the prose summary of an evaluation (not blocking the score)
	Feedback string `mapstructure:"feedback" json:"feedback"`

	// Embedding backs the embedding similarity used by the claim matcher
	Embedding string `mapstructure:"embedding" json:"embedding"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey     string       `mapstructure:"api-key" json:"-"` // Never serialize
	Models     GeminiModels `mapstructure:"models" json:"models"`
	TimeoutMS  int          `mapstructure:"timeout-ms" json:"timeoutMs"`
	MaxRetries int          `mapstructure:"max-retries" json:"maxRetries"`

	// UseEmbeddings switches the matcher from keyword overlap to embeddings
	UseEmbeddings bool `mapstructure:"use-embeddings" json:"useEmbeddings"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() AIConfig {
	return AIConfig{
		Models: GeminiModels{
			Claims:    "gemini-2.5-flash",
			FollowUp:  "gemini-2.5-flash",
			Feedback:  "gemini-2.0-flash",
			Embedding: "text-embedding-004",
		},
		TimeoutMS:     10000, // 10 second default timeout
		MaxRetries:    2,
		UseEmbeddings: true,
	}
}

// IsEnabled returns true if the AI API is configured
func (c AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// Timeout is the per-call deadline for model requests
func (c AIConfig) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}
