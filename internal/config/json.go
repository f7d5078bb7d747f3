package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// parseJSON reads a JSON configuration file into a fresh [Config]. Durations
// are expressed as nanosecond integers, same as encoding/json renders
// time.Duration.
func parseJSON(jsonFilePath string) (*Config, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var cfg Config
	if err := json.NewDecoder(jsonFile).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &cfg, nil
}
