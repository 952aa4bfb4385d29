package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// Validate vérifie la cohérence de la configuration.
// Retourne warnings (non-fataux) et une erreur si c'est critique.
func (c *Config) Validate() (warnings []string, err error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}

	if _, perr := model.ParseFormat(c.ExportFormat); perr != nil {
		return warnings, fmt.Errorf("export_format : %w", perr)
	}
	if c.DisplayMode != "single" && c.DisplayMode != "full" {
		return warnings, fmt.Errorf("display_mode inconnu : %s (single | full)", c.DisplayMode)
	}

	if c.Sync.PollInterval < 10*time.Millisecond {
		return warnings, fmt.Errorf("sync.poll_interval trop court : %s (minimum 10ms)", c.Sync.PollInterval)
	}
	if c.Sync.PollInterval > time.Second {
		warnings = append(warnings, fmt.Sprintf("sync.poll_interval élevé (%s) : le surlignage sera saccadé", c.Sync.PollInterval))
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("log.level inconnu : %s (info utilisé)", c.Log.Level))
	}

	// le bridge n'a pas d'authentification : on prévient s'il écoute hors loopback
	if c.Bridge.Addr != "" {
		host, _, serr := net.SplitHostPort(c.Bridge.Addr)
		if serr != nil {
			return warnings, fmt.Errorf("bridge.addr invalide %q : %w", c.Bridge.Addr, serr)
		}
		if !isLoopback(host) {
			warnings = append(warnings, fmt.Sprintf("bridge.addr %s n'est pas une adresse locale : le bridge sera joignable depuis le réseau", c.Bridge.Addr))
		}
	}
	if len(c.Bridge.AllowedOrigins) == 0 {
		warnings = append(warnings, "bridge.allowed_origins vide : origines par défaut utilisées")
	}

	if !strings.HasPrefix(c.API.BaseURL, "https://") && !strings.HasPrefix(c.API.BaseURL, "http://") {
		return warnings, fmt.Errorf("api.base_url invalide : %q", c.API.BaseURL)
	}

	if st, serr := os.Stat(c.ExportDir); serr == nil && !st.IsDir() {
		return warnings, fmt.Errorf("export_dir n'est pas un répertoire : %s", c.ExportDir)
	} else if os.IsNotExist(serr) {
		warnings = append(warnings, fmt.Sprintf("export_dir n'existe pas encore, il sera créé : %s", c.ExportDir))
	}

	return warnings, nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
