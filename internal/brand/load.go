package brand

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadContent reads brand copy from a .json, .toml, .yaml or .yml file.
func LoadContent(path string) (*Content, error) {
	var c Content
	if err := decodeFile(path, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadConfig reads brand styling from a .json, .toml, .yaml or .yml file.
// Fields the file leaves empty are not defaulted.
func LoadConfig(path string) (*Config, error) {
	var c Config
	if err := decodeFile(path, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		err = json.Unmarshal(data, v)
	case ".toml":
		_, err = toml.Decode(string(data), v)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported file extension %q for %s (want .json, .toml, .yaml)", ext, path)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
