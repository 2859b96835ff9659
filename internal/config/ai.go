package config

import "os"

// GeminiModels defines which Gemini models to use for each AI operation
type GeminiModels struct {
	// ParseResume extracts candidate details from resume text (runs once
	// per session, needs to be fast)
	ParseResume string `json:"parseResume"`

	// Question generates interview questions (blocks the chat flow)
	Question string `json:"question"`

	// Eval scores a submitted answer (issued concurrently with the next
	// question fetch)
	Eval string `json:"eval"`

	// Summary writes the final performance summary (not blocking)
	Summary string `json:"summary"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			ParseResume: getEnvOrDefault("GEMINI_MODEL_PARSE", "gemini-2.5-flash"),
			Question:    getEnvOrDefault("GEMINI_MODEL_QUESTION", "gemini-2.5-flash"),
			Eval:        getEnvOrDefault("GEMINI_MODEL_EVAL", "gemini-2.5-flash"),
			Summary:     getEnvOrDefault("GEMINI_MODEL_SUMMARY", "gemini-2.5-flash"),
		},
		TimeoutMS: 10000,
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
