package secrets

// Canonical secret names. They double as keys of the [secrets] table in
// config.toml.
const (
	AnthropicAPIKey = "anthropic_api_key"
	GoogleAPIKey    = "google_api_key"
)

// Key describes one secret sitegen knows how to resolve.
type Key struct {
	Name string

	// EnvVars are checked in order before the config file.
	EnvVars []string

	Desc string
}

// keys is sorted by Name.
var keys = []Key{
	{
		Name:    AnthropicAPIKey,
		EnvVars: []string{"ANTHROPIC_API_KEY"},
		Desc:    "Anthropic API key for Claude",
	},
	{
		Name:    GoogleAPIKey,
		EnvVars: []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"},
		Desc:    "Google API key for Gemini",
	},
}

func lookupKey(name string) (Key, bool) {
	for _, k := range keys {
		if k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}

// KnownKeys returns every secret sitegen resolves, sorted by name.
func KnownKeys() []Key {
	out := make([]Key, len(keys))
	for i, k := range keys {
		out[i] = Key{Name: k.Name, EnvVars: append([]string(nil), k.EnvVars...), Desc: k.Desc}
	}
	return out
}
