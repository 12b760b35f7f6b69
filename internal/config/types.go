package config

import "time"

// Config is the top-level publist configuration, corresponding to .publist.yml.
type Config struct {
	Source        string        `yaml:"source" koanf:"source"`
	HighlightName string        `yaml:"highlight_name" koanf:"highlight_name"`
	SiteTitle     string        `yaml:"site_title" koanf:"site_title"`
	IntroFile     string        `yaml:"intro_file" koanf:"intro_file"`
	OutputDir     string        `yaml:"output_dir" koanf:"output_dir"`
	Assets        []string      `yaml:"assets" koanf:"assets"`
	ImagePreview  bool          `yaml:"image_preview" koanf:"image_preview"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout" koanf:"fetch_timeout"`
	DBPath        string        `yaml:"db_path" koanf:"db_path"`
	Server        ServerConfig  `yaml:"server" koanf:"server"`
	Log           LogConfig     `yaml:"log" koanf:"log"`
}

// ServerConfig holds settings for publist serve.
type ServerConfig struct {
	Port       int  `yaml:"port" koanf:"port"`
	AllowAll   bool `yaml:"allow_all" koanf:"allow_all"`
	LiveReload bool `yaml:"live_reload" koanf:"live_reload"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
}
