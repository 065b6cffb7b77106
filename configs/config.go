package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}

// EngineConfig carries the reservation engine's policy knobs. It is built
// once in main and handed to the service constructors; the engine never
// reads the environment itself.
type EngineConfig struct {
	ConfirmationWindow time.Duration
	SweepInterval      time.Duration
	DefaultCapacity    int
}

func LoadEngineConfig() EngineConfig {
	cfg := EngineConfig{
		ConfirmationWindow: 10 * time.Minute,
		SweepInterval:      time.Minute,
		DefaultCapacity:    20,
	}

	if v := Config("WAITLIST_CONFIRMATION_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			log.Printf("⚠️ Invalid WAITLIST_CONFIRMATION_MINUTES %q, keeping default", v)
		} else {
			cfg.ConfirmationWindow = time.Duration(minutes) * time.Minute
		}
	}
	if v := Config("WAITLIST_SWEEP_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			log.Printf("⚠️ Invalid WAITLIST_SWEEP_SECONDS %q, keeping default", v)
		} else {
			cfg.SweepInterval = time.Duration(seconds) * time.Second
		}
	}
	if v := Config("DEFAULT_CLASS_CAPACITY"); v != "" {
		capacity, err := strconv.Atoi(v)
		if err != nil || capacity <= 0 {
			log.Printf("⚠️ Invalid DEFAULT_CLASS_CAPACITY %q, keeping default", v)
		} else {
			cfg.DefaultCapacity = capacity
		}
	}

	return cfg
}
