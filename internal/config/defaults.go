package config

import "time"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// defaultConfig returns the values used when no source sets a field.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Environment:        EnvDevelopment,
			TokenIssuer:        "cotisations",
			TokenDuration:      time.Hour,
			CookieDuration:     30 * 24 * time.Hour,
			ResetTokenDuration: 10 * time.Minute,
			BcryptCost:         10,
			Version:            "1.0.0",
		},
		Server: Server{
			HTTPAddress:       ":5000",
			RequestTimeout:    30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			RateLimitRequests: 100,
			RateLimitWindow:   10 * time.Minute,
		},
		Storage: Storage{
			DB: DB{
				MaxOpenConns: 25,
				MaxIdleConns: 5,
			},
		},
		Notifier: Notifier{
			Topic: "cotisations.password-reset",
		},
		Attachments: Attachments{
			Folder:  "cotisations/receipts",
			MaxSize: 5 << 20,
		},
	}
}
