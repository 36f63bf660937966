package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Config struct {
	// Default model for generation
	Model string `json:"model,omitempty"`

	// Path to the config file
	path string
}

//////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// The name of the config file
	configFile = "config.json"
)

//////////////////////////////////////////////////////////////////
// LIFECYCLE

// Create a new config object with the given application name
func NewConfig(name string) (*Config, error) {
	// Load the config from the file, or return a new empty config
	path, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}

	// Append the name of the application to the path
	if name != "" {
		path = filepath.Join(path, name)
	}

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, err
	}

	// The config to return
	var config Config
	config.path = filepath.Join(path, configFile)

	// Load the config from the file, ignore any errors
	_ = config.Load()

	// Return success
	return &config, nil
}

// Release resources
func (s *Config) Close() error {
	return s.Save()
}

//////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// Load config as JSON
func (s *Config) Load() error {
	// Open the file
	file, err := os.Open(s.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	// Decode the JSON
	if err := json.NewDecoder(file).Decode(s); err != nil {
		return err
	}

	// Return success
	return nil
}

// Save config as JSON
func (s *Config) Save() error {
	// Open the file
	file, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Encode the JSON
	return json.NewEncoder(file).Encode(s)
}
