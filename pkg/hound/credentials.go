package hound

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Credentials identify a client to the service. ClientKey is the
// base64url-encoded secret issued alongside ClientID.
type Credentials struct {
	ClientID  string `json:"client_id" yaml:"client_id"`
	ClientKey string `json:"client_key" yaml:"client_key"`
}

// Validate checks that both values are present and that the key decodes.
func (c Credentials) Validate() error {
	if c.ClientID == "" {
		return NewCredentialsError("client id is empty")
	}
	if c.ClientKey == "" {
		return NewCredentialsError("client key is empty")
	}
	if _, err := decodeClientKey(c.ClientKey); err != nil {
		return err
	}
	return nil
}

// LoadCredentialsFile reads credentials from a JSON or YAML file. Files ending
// in .yaml or .yml are parsed as YAML, anything else as JSON.
func LoadCredentialsFile(path string) (Credentials, error) {
	var creds Credentials

	data, err := os.ReadFile(path)
	if err != nil {
		return creds, WrapError(err, ErrCodeCredentials).AddDetail("path", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &creds)
	default:
		err = json.Unmarshal(data, &creds)
	}
	if err != nil {
		return creds, WrapError(fmt.Errorf("parse %s: %w", path, err), ErrCodeCredentials)
	}

	if err := creds.Validate(); err != nil {
		return creds, err
	}
	return creds, nil
}

// CredentialsFromEnv reads HOUND_CLIENT_ID and HOUND_CLIENT_KEY.
func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		ClientID:  os.Getenv("HOUND_CLIENT_ID"),
		ClientKey: os.Getenv("HOUND_CLIENT_KEY"),
	}
	return creds, creds.Validate()
}
