package coursegen

// MaxContentChars is how much source text is sent to the model.
const MaxContentChars = 20000

// Config holds course generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns defaults sized for a course of several lessons.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   8192,
		Temperature: 0.4,
	}
}
