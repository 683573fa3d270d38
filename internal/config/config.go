package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port string `toml:"port"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

// InterviewPrompts are the fmt templates the interview agent feeds to the
// LLM when extracting structured facts from a free-text answer.
type InterviewPrompts struct {
	PersonExtraction string `toml:"person_extraction"`
	YesNo            string `toml:"yes_no"`
}

type Config struct {
	Server    ServerConfig     `toml:"server"`
	Neo4j     Neo4jConfig      `toml:"neo4j"`
	LLM       LLMConfig        `toml:"llm"`
	Interview InterviewPrompts `toml:"interview"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}
