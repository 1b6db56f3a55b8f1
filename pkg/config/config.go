// Package config enumerates every default the migration relies on and loads
// overrides from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full migration configuration.
type Config struct {
	Form      FormDefaults    `yaml:"form"`
	Mail      MailDefaults    `yaml:"mail"`
	Converter ConverterConfig `yaml:"converter"`
	Tiles     TileConfig      `yaml:"tiles"`
	Server    ServerConfig    `yaml:"server"`
}

// FormDefaults apply when the legacy form data omits a setting.
type FormDefaults struct {
	SubmitLabel  string `yaml:"submit_label"`
	CancelLabel  string `yaml:"cancel_label"`
	Success      string `yaml:"success"`
	DataWipe     int    `yaml:"data_wipe"`
	MailTemplate string `yaml:"mail_template"`
	Captcha      string `yaml:"captcha"`
}

// MailDefaults hold the placeholders that replace any migrated sender
// identity.
type MailDefaults struct {
	SenderPlaceholder     string `yaml:"sender_placeholder"`
	SenderNamePlaceholder string `yaml:"sender_name_placeholder"`
}

// ConverterConfig describes the external HTML-to-blocks service.
type ConverterConfig struct {
	URL      string        `yaml:"url"`
	Slate    bool          `yaml:"slate"`
	Timeout  time.Duration `yaml:"timeout"`
	Sanitize bool          `yaml:"sanitize"`
}

// TileConfig names the tile types handled by the built-in converters.
type TileConfig struct {
	LinkListType string `yaml:"link_list_type"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Form: FormDefaults{
			SubmitLabel:  "Senden",
			CancelLabel:  "Abbrechen",
			Success:      "Vielen Dank! Sie haben folgende Daten übermittelt:",
			DataWipe:     -1,
			MailTemplate: "default",
			Captcha:      "recaptcha",
		},
		Mail: MailDefaults{
			SenderPlaceholder:     "noreply@example.com",
			SenderNamePlaceholder: "YOURCOMPANY",
		},
		Converter: ConverterConfig{
			URL:     "http://localhost:5001/html",
			Slate:   true,
			Timeout: 30 * time.Second,
		},
		Tiles: TileConfig{
			LinkListType: "my.custom.list.tile",
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
	}
}

// Load reads a YAML file on top of Default. An empty path or empty file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	if err := Decode(f, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Decode applies YAML from r onto cfg, leaving unspecified keys untouched.
func Decode(r io.Reader, cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil target")
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	return nil
}
