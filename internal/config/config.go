package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`

	DBPath        string `envconfig:"DB_PATH" default:"./data/ramadan.db"`
	LegacySubs    string `envconfig:"LEGACY_SUBS_PATH" default:"./data/subscribers.json"`
	DefaultCity   string `envconfig:"DEFAULT_CITY" default:"astana"`
	TZ            string `envconfig:"TZ" default:"Asia/Almaty"`
	HijriYear     int    `envconfig:"HIJRI_YEAR" default:"1447"`
	HijriMonth    int    `envconfig:"HIJRI_MONTH" default:"9"` // Ramadan
	MorningTime   string `envconfig:"MORNING_TIME" default:"04:00"`
	EveningTime   string `envconfig:"EVENING_TIME" default:"17:00"`
	AladhanBase   string `envconfig:"ALADHAN_BASE" default:"https://api.aladhan.com/v1"`
	AladhanMethod int    `envconfig:"ALADHAN_METHOD" default:"3"` // Muslim World League

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	CallbackURL        string `envconfig:"CALLBACK_URL" default:"http://localhost:8080/callback"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
