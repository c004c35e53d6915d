package hound

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultBaseURL is the service's API host.
	DefaultBaseURL = "https://api.houndify.com"

	// DefaultTimeout bounds a whole request/response exchange.
	DefaultTimeout = 30 * time.Second

	DefaultUserAgent = "HoundSDK-Go/1.0"
)

type HoundConfig struct {
	ClientID           string        `json:"client_id"`
	ClientKey          string        `json:"-"`
	CredentialsFile    string        `json:"credentials_file,omitempty"`
	BaseURL            string        `json:"base_url"`
	Timeout            time.Duration `json:"timeout"`
	DisableCompression bool          `json:"disable_compression"`
	MaxIdleConns       int           `json:"max_idle_conns"`
	UserAgent          string        `json:"user_agent"`
	DebugLevel         string        `json:"debug_level"`

	// Transport replaces the default pooled http.Transport beneath the
	// signing adapter. Mostly useful for tests.
	Transport http.RoundTripper `json:"-"`
	Logger    *HoundLogger      `json:"-"`
}

// NewHoundConfig returns a config populated with defaults and then overridden
// by the environment (a local .env file is loaded first when present).
func NewHoundConfig() *HoundConfig {
	c := DefaultHoundConfig()
	c.loadFromEnv()
	return c
}

// DefaultHoundConfig returns the defaults without consulting the environment.
func DefaultHoundConfig() *HoundConfig {
	return &HoundConfig{
		BaseURL:      DefaultBaseURL,
		Timeout:      DefaultTimeout,
		MaxIdleConns: 10,
		UserAgent:    DefaultUserAgent,
		DebugLevel:   "INFO",
	}
}

func (c *HoundConfig) loadFromEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("HOUND_CLIENT_ID"); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv("HOUND_CLIENT_KEY"); v != "" {
		c.ClientKey = v
	}
	if v := os.Getenv("HOUND_CREDENTIALS_FILE"); v != "" {
		c.CredentialsFile = v
	}
	if v := os.Getenv("HOUND_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("HOUND_TIMEOUT"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			c.Timeout = time.Duration(secs * float64(time.Second))
		}
	}
	c.DisableCompression = os.Getenv("HOUND_DISABLE_COMPRESSION") == "true"
	if v := os.Getenv("HOUND_DEBUG_LEVEL"); v != "" {
		c.DebugLevel = v
	}
}

// Credentials resolves the client credentials: explicit ClientID/ClientKey
// win, otherwise CredentialsFile is read.
func (c *HoundConfig) Credentials() (Credentials, error) {
	if c.ClientID != "" || c.ClientKey != "" {
		creds := Credentials{ClientID: c.ClientID, ClientKey: c.ClientKey}
		return creds, creds.Validate()
	}
	if c.CredentialsFile != "" {
		return LoadCredentialsFile(c.CredentialsFile)
	}
	return Credentials{}, NewCredentialsError("no client credentials configured")
}

// Validate returns list of issues
func (c *HoundConfig) Validate() []string {
	issues := []string{}

	if c.ClientID == "" && c.ClientKey == "" && c.CredentialsFile == "" {
		issues = append(issues, "HOUND_CLIENT_ID/HOUND_CLIENT_KEY or HOUND_CREDENTIALS_FILE must be set")
	} else if c.ClientID != "" || c.ClientKey != "" {
		creds := Credentials{ClientID: c.ClientID, ClientKey: c.ClientKey}
		if err := creds.Validate(); err != nil {
			issues = append(issues, fmt.Sprintf("Invalid credentials: %v", err))
		}
	}

	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, fmt.Sprintf("Invalid base URL: %q", c.BaseURL))
	}

	if c.Timeout < 0 {
		issues = append(issues, fmt.Sprintf("Invalid timeout: %s", c.Timeout))
	}

	validLevels := []string{"TRACE", "DEBUG", "INFO", "WARN", "WARNING", "ERROR", "OFF"}
	found := false
	for _, level := range validLevels {
		if strings.EqualFold(level, c.DebugLevel) {
			found = true
			break
		}
	}
	if !found {
		issues = append(issues, fmt.Sprintf("Invalid debug level: %s", c.DebugLevel))
	}

	return issues
}

func (c *HoundConfig) PrintConfig(w io.Writer) {
	fmt.Fprintln(w, "Hound SDK Configuration")
	fmt.Fprintln(w, "==================================================")

	if c.ClientID != "" {
		fmt.Fprintf(w, "Client ID: %s\n", c.ClientID)
	} else {
		fmt.Fprintln(w, "Client ID: NOT SET")
	}
	if len(c.ClientKey) > 6 {
		fmt.Fprintf(w, "Client Key: %s...\n", c.ClientKey[:6])
	} else if c.ClientKey != "" {
		fmt.Fprintln(w, "Client Key: (set)")
	} else {
		fmt.Fprintln(w, "Client Key: NOT SET")
	}
	if c.CredentialsFile != "" {
		fmt.Fprintf(w, "Credentials File: %s\n", c.CredentialsFile)
	}
	fmt.Fprintf(w, "Base URL: %s\n", c.BaseURL)
	fmt.Fprintf(w, "Timeout: %s\n", c.Timeout)
	fmt.Fprintf(w, "Compression: %t\n", !c.DisableCompression)
	fmt.Fprintf(w, "Debug Level: %s\n", c.DebugLevel)
}
