package client

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is what the command line client needs to reach the API and where it
// keeps its files.
type Config struct {
	APIURL      string
	SessionFile string
	OutputDir   string
	ChromePath  string
	Timeout     time.Duration
}

// LoadConfig reads CVBUILDER_* variables, loading .env first when present.
// Flags override the result in cmd/resumectl.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		APIURL:      getEnv("CVBUILDER_API_URL", "http://localhost:8080/api"),
		SessionFile: getEnv("CVBUILDER_SESSION_FILE", defaultSessionFile()),
		OutputDir:   getEnv("CVBUILDER_OUTPUT_DIR", "."),
		ChromePath:  os.Getenv("CHROME_PATH"),
		Timeout:     time.Duration(getIntEnv("CVBUILDER_TIMEOUT", 30)) * time.Second,
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "cvbuilder", "session.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
