package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Package config provides configuration management for the Gaze application.

// Config struct to hold all configuration data
type Config struct {
	FaceModelPath  string  `json:"face_model_path"`  // Override path to the pigo facefinder cascade
	ExportSeconds  float64 `json:"export_seconds"`   // Default export clip length
	ExportFPS      int     `json:"export_fps"`       // Default export frame rate
	PreviewFPSCap  float64 `json:"preview_fps_cap"`  // Upper bound on preview render rate
	LastPhotoDir   string  `json:"last_photo_dir"`   // Last directory a photo was opened from
	DefaultEasing  string  `json:"default_easing"`   // "linear" or "ease-in-out"
	ExportUpscaled bool    `json:"export_upscaled"`  // Export at full source resolution
}

var (
	instance *Config
	once     sync.Once
)

// GetConfig returns the singleton instance of Config.
func GetConfig() *Config {
	once.Do(func() {
		instance = &Config{}
		if err := instance.loadFromFile(GetFilename()); err != nil {
			fmt.Println("Error loading config:", err)
			instance.setDefaultValues()
		}
	})
	return instance
}

// GetFilename returns the path to the user's config file
func GetFilename() string {
	return filepath.Join(GetPath(), "config.json")
}

// GetPath returns the path to the user's config directory
func GetPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting user home directory: %v", err)
	}
	return filepath.Join(homeDir, "."+strings.ToLower(ServiceName))
}

// GetModelPath returns the path of a named model file under the config
// directory, honoring the FaceModelPath override for the facefinder.
func (c *Config) GetModelPath(name string) string {
	if name == "facefinder" && c.FaceModelPath != "" {
		return c.FaceModelPath
	}
	return filepath.Join(GetPath(), ModelSubDir, name)
}

// loadFromFile loads configuration from the specified file
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	if err = json.Unmarshal(data, c); err != nil {
		return err
	}
	c.applyFallbacks()
	return nil
}

// setDefaultValues sets default values for the configuration
func (c *Config) setDefaultValues() {
	c.FaceModelPath = ""
	c.ExportSeconds = 4
	c.ExportFPS = 30
	c.PreviewFPSCap = 60
	c.DefaultEasing = "ease-in-out"
	c.ExportUpscaled = true
}

// applyFallbacks fills zero values left behind by older config files.
func (c *Config) applyFallbacks() {
	if c.ExportSeconds <= 0 {
		c.ExportSeconds = 4
	}
	if c.ExportFPS <= 0 {
		c.ExportFPS = 30
	}
	if c.PreviewFPSCap <= 0 {
		c.PreviewFPSCap = 60
	}
	if c.DefaultEasing == "" {
		c.DefaultEasing = "ease-in-out"
	}
}

// Save saves the current configuration to the user's config file
func (c *Config) Save() {
	cfgFile := GetFilename()
	err := os.MkdirAll(filepath.Dir(cfgFile), 0700)
	if err != nil {
		log.Fatalf("Error creating config directory: %v", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding config data: %v", err)
	}

	err = os.WriteFile(cfgFile, data, 0644)
	if err != nil {
		log.Fatalf("Error writing config file: %v", err)
	}
}
