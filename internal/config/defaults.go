package config

import "github.com/publist/publist/internal/publication"

// DefaultPath is the config file read when --config is not given.
const DefaultPath = ".publist.yml"

// DefaultAssets are the globs copied into a built site by default.
var DefaultAssets = []string{
	"papers/**/*.pdf",
	"images/**/*.{png,jpg,jpeg,gif,svg}",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source:        "publications.json",
		HighlightName: publication.DefaultHighlight,
		SiteTitle:     "Publications",
		OutputDir:     "site",
		Assets:        DefaultAssets,
		Server: ServerConfig{
			Port:       8080,
			LiveReload: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
