package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Préfixe des variables d'environnement reconnues.
const EnvPrefix = "CCVIEWER_"

// LoadEnv lit les fichiers .env (".env" par défaut) dans l'environnement du
// processus. Un fichier absent n'est pas une erreur ; les variables déjà définies
// ne sont pas écrasées.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv surcharge la config avec les variables CCVIEWER_*.
// Retourne la liste des variables appliquées (pour le journal).
func (c *Config) ApplyEnv() []string {
	var applied []string
	str := func(key string, dst *string) {
		if v := GetEnv(EnvPrefix+key, ""); v != "" {
			*dst = v
			applied = append(applied, EnvPrefix+key)
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v := GetEnvDuration(EnvPrefix+key, 0); v > 0 {
			*dst = v
			applied = append(applied, EnvPrefix+key)
		}
	}

	str("LANG", &c.Lang)
	str("EXPORT_DIR", &c.ExportDir)
	str("EXPORT_FORMAT", &c.ExportFormat)
	str("DISPLAY_MODE", &c.DisplayMode)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("BRIDGE_ADDR", &c.Bridge.Addr)
	str("API_BASE_URL", &c.API.BaseURL)
	str("USER_AGENT", &c.API.UserAgent)
	dur("POLL_INTERVAL", &c.Sync.PollInterval)
	dur("SUPPRESSION_WINDOW", &c.Sync.SuppressionWindow)
	dur("STALE_AFTER", &c.Bridge.StaleAfter)

	if v := GetEnv(EnvPrefix+"ALLOWED_ORIGINS", ""); v != "" {
		c.Bridge.AllowedOrigins = strings.Split(v, ",")
		applied = append(applied, EnvPrefix+"ALLOWED_ORIGINS")
	}
	if n := GetEnvInt(EnvPrefix+"LIST_ROWS", 0); n > 0 {
		c.ListRows = n
		applied = append(applied, EnvPrefix+"LIST_ROWS")
	}

	c.normalizeConfig()
	return applied
}

// GetEnv returns the value of the environment variable named by key, or fallback
// if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// GetEnvInt returns the integer value of the environment variable named by key,
// or fallback if the variable is unset, empty, or not a valid integer.
func GetEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}

// GetEnvDuration accepte "250ms", "3s"... ou un entier en millisecondes.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Millisecond
	}
	return fallback
}
