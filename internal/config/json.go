package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for the JSON file format.
type StructuredJSONConfig struct {
	App struct {
		Environment        string   `json:"env"`
		TokenSignKey       string   `json:"token_sign_key"`
		TokenIssuer        string   `json:"token_issuer"`
		TokenDuration      Duration `json:"token_duration"`
		CookieDuration     Duration `json:"cookie_duration"`
		ResetTokenDuration Duration `json:"reset_token_duration"`
		BcryptCost         int      `json:"bcrypt_cost"`
		PublicURL          string   `json:"public_url"`
		Version            string   `json:"version"`
	} `json:"app,omitempty"`

	Server struct {
		HTTPAddress        string   `json:"http_address"`
		RequestTimeout     Duration `json:"request_timeout"`
		ShutdownTimeout    Duration `json:"shutdown_timeout"`
		RateLimitRequests  int      `json:"rate_limit_requests"`
		RateLimitWindow    Duration `json:"rate_limit_window"`
		CORSAllowedOrigins []string `json:"cors_allowed_origins"`
	} `json:"server,omitempty"`

	Storage struct {
		DB struct {
			DSN          string `json:"dsn"`
			MaxOpenConns int    `json:"max_open_conns"`
			MaxIdleConns int    `json:"max_idle_conns"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Notifier struct {
		Brokers  []string `json:"kafka_brokers"`
		Topic    string   `json:"kafka_topic"`
		Username string   `json:"kafka_username"`
		Password string   `json:"kafka_password"`
		TLS      bool     `json:"kafka_tls"`
	} `json:"notifier,omitempty"`

	Attachments struct {
		CloudinaryURL string `json:"cloudinary_url"`
		Folder        string `json:"folder"`
		MaxSize       int64  `json:"max_size"`
	} `json:"attachments,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Environment:        jsonCfg.App.Environment,
			TokenSignKey:       jsonCfg.App.TokenSignKey,
			TokenIssuer:        jsonCfg.App.TokenIssuer,
			TokenDuration:      time.Duration(jsonCfg.App.TokenDuration),
			CookieDuration:     time.Duration(jsonCfg.App.CookieDuration),
			ResetTokenDuration: time.Duration(jsonCfg.App.ResetTokenDuration),
			BcryptCost:         jsonCfg.App.BcryptCost,
			PublicURL:          jsonCfg.App.PublicURL,
			Version:            jsonCfg.App.Version,
		},
		Server: Server{
			HTTPAddress:        jsonCfg.Server.HTTPAddress,
			RequestTimeout:     time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout:    time.Duration(jsonCfg.Server.ShutdownTimeout),
			RateLimitRequests:  jsonCfg.Server.RateLimitRequests,
			RateLimitWindow:    time.Duration(jsonCfg.Server.RateLimitWindow),
			CORSAllowedOrigins: jsonCfg.Server.CORSAllowedOrigins,
		},
		Storage: Storage{
			DB: DB{
				DSN:          jsonCfg.Storage.DB.DSN,
				MaxOpenConns: jsonCfg.Storage.DB.MaxOpenConns,
				MaxIdleConns: jsonCfg.Storage.DB.MaxIdleConns,
			},
		},
		Notifier: Notifier{
			Brokers:  jsonCfg.Notifier.Brokers,
			Topic:    jsonCfg.Notifier.Topic,
			Username: jsonCfg.Notifier.Username,
			Password: jsonCfg.Notifier.Password,
			TLS:      jsonCfg.Notifier.TLS,
		},
		Attachments: Attachments{
			CloudinaryURL: jsonCfg.Attachments.CloudinaryURL,
			Folder:        jsonCfg.Attachments.Folder,
			MaxSize:       jsonCfg.Attachments.MaxSize,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
