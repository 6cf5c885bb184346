package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL   string
	Viewer      string
	SessionFile string
	Output      string
	Verbose     bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("COLORWOOD_SERVER", "http://localhost:8080"),
		Viewer:      getEnvOrDefault("COLORWOOD_VIEWER", "sortctl"),
		SessionFile: getEnvOrDefault("COLORWOOD_SESSION_FILE", defaultSessionFile()),
		Output:      "text",
		Verbose:     false,
	}
}

// CurrentSession returns the session remembered by the last create, or ""
func (c *Config) CurrentSession() (string, error) {
	data, err := os.ReadFile(c.SessionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveSession remembers a session ID so later commands can omit it
func (c *Config) SaveSession(id string) error {
	dir := filepath.Dir(c.SessionFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(c.SessionFile, []byte(id), 0600)
}

// ForgetSession clears the remembered session if it matches id
func (c *Config) ForgetSession(id string) error {
	current, err := c.CurrentSession()
	if err != nil || current != id {
		return err
	}
	if err := os.Remove(c.SessionFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".colorwood/session"
	}
	return filepath.Join(home, ".colorwood", "session")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
