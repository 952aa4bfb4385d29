package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/patrickprogramme/ccviewer/internal/assets"
	"github.com/patrickprogramme/ccviewer/internal/bootstrap"
)

const CurrentConfigVersion = 2

const DefaultPath = "ccviewer.yaml"

// struct pour les paramètres de configuration
type Config struct {
	// Sous-titres
	Lang string `yaml:"lang"`

	// Export
	ExportDir    string `yaml:"export_dir"`
	ExportFormat string `yaml:"export_format"`

	// Mode suivi
	DisplayMode string `yaml:"display_mode"`
	ListRows    int    `yaml:"list_rows"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Sync struct {
		PollInterval      time.Duration `yaml:"poll_interval"`
		SuppressionWindow time.Duration `yaml:"suppression_window"`
	} `yaml:"sync"`

	Bridge struct {
		Addr           string        `yaml:"addr"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
		StaleAfter     time.Duration `yaml:"stale_after"`
	} `yaml:"bridge"`

	API struct {
		BaseURL   string        `yaml:"base_url"`
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent,omitempty"`
		Referer   string        `yaml:"referer"`
	} `yaml:"api"`

	// version 1 : fenêtre de suspension en millisecondes, à plat
	LegacySuppressionMs int `yaml:"suppression_ms,omitempty"`

	ConfigVersion int `yaml:"config_version"`

	configFilePath string
}

// Configuration par défaut (fallback si l'asset embarqué est manquant)
func defaultConfig() *Config {
	c := &Config{}

	c.Lang = ""

	c.ExportDir = "."
	c.ExportFormat = "txt"

	c.DisplayMode = "single"
	c.ListRows = 12

	c.Log.Level = "info"
	c.Log.Format = "text"

	c.Sync.PollInterval = 100 * time.Millisecond
	c.Sync.SuppressionWindow = 3 * time.Second

	c.Bridge.Addr = "127.0.0.1:8765"
	c.Bridge.AllowedOrigins = []string{"https://www.bilibili.com", "https://*.bilibili.com"}
	c.Bridge.StaleAfter = 5 * time.Second

	c.API.BaseURL = "https://api.bilibili.com"
	c.API.Timeout = 15 * time.Second
	c.API.Referer = "https://www.bilibili.com/"

	c.ConfigVersion = CurrentConfigVersion

	return c
}

// Default retourne la configuration par défaut, sans fichier.
func Default() *Config {
	c := defaultConfig()
	c.normalizeConfig()
	return c
}

// Load lit la config; si le fichier n'existe pas, on copie l'exemple embarqué depuis internal/assets
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	// si le fichier n'existe pas -> le créer à partir de l'asset embarqué
	created, err := bootstrap.EnsureConfigPresent(path, assets.Embedded, assets.DefaultConfigAsset)
	if err != nil {
		return nil, fmt.Errorf("échec de création du fichier de configuration par défaut : %w", err)
	}
	if created {
		fmt.Printf("info : fichier de configuration par défaut créé : %s\n", path)
	}

	// lire le YAML brut
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lecture du fichier de configuration %s impossible : %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("analyse du fichier de configuration %s impossible : %w", path, err)
	}
	cfg.configFilePath = path

	// gestion de version : si le fichier est plus ancien -> orchestrer la mise à jour
	if cfg.ConfigVersion < CurrentConfigVersion {
		// orchestrateConfigUpgrade fait la sauvegarde, migre et écrit la config
		if err := orchestrateConfigUpgrade(cfg, cfg.ConfigVersion); err != nil {
			return nil, fmt.Errorf("échec de mise à niveau de la configuration : %w", err)
		}
		// re-normaliser au cas où la migration a modifié des valeurs
		cfg.normalizeConfig()
	}

	return cfg, nil
}

// Parse décode data par-dessus les valeurs par défaut, sans migration.
func Parse(data []byte) (*Config, error) {
	cfg := defaultConfig()
	// un fichier sans config_version est un fichier v1
	cfg.ConfigVersion = 0

	// corriger les chemins Windows avec des backslashes
	data = bytes.ReplaceAll(data, []byte(`\`), []byte(`/`))

	// On déserialise dans cfg initialisé : les champs absents conservent les valeurs par défaut.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.ConfigVersion == 0 {
		cfg.ConfigVersion = 1
	}
	cfg.normalizeConfig()
	return cfg, nil
}

// Path retourne le chemin du fichier lu (vide pour Default).
func (c *Config) Path() string {
	return c.configFilePath
}

func (c *Config) normalizeConfig() {
	// Nettoyage des chemins
	c.ExportDir = filepath.Clean(strings.TrimSpace(c.ExportDir))

	// Trim and normalize strings
	c.Lang = strings.TrimSpace(c.Lang)
	c.ExportFormat = strings.TrimSpace(strings.ToLower(c.ExportFormat))
	if c.ExportFormat == "" {
		c.ExportFormat = "txt"
	}
	c.DisplayMode = strings.TrimSpace(strings.ToLower(c.DisplayMode))
	if c.DisplayMode == "" {
		c.DisplayMode = "single"
	}
	if c.ListRows <= 0 {
		c.ListRows = 12
	}

	c.Log.Level = strings.TrimSpace(strings.ToLower(c.Log.Level))
	c.Log.Format = strings.TrimSpace(strings.ToLower(c.Log.Format))

	if c.Sync.PollInterval <= 0 {
		c.Sync.PollInterval = 100 * time.Millisecond
	}
	if c.Sync.SuppressionWindow <= 0 {
		c.Sync.SuppressionWindow = 3 * time.Second
	}

	c.Bridge.Addr = strings.TrimSpace(c.Bridge.Addr)
	origins := c.Bridge.AllowedOrigins[:0]
	for _, o := range c.Bridge.AllowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	c.Bridge.AllowedOrigins = origins

	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.Timeout <= 0 {
		c.API.Timeout = 15 * time.Second
	}
}
