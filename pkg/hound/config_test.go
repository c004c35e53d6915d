package hound

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearHoundEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOUND_CLIENT_ID", "HOUND_CLIENT_KEY", "HOUND_CREDENTIALS_FILE", "HOUND_BASE_URL",
		"HOUND_TIMEOUT", "HOUND_DISABLE_COMPRESSION", "HOUND_DEBUG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestNewHoundConfigFromEnv(t *testing.T) {
	clearHoundEnv(t)
	t.Setenv("HOUND_CLIENT_ID", testClientID)
	t.Setenv("HOUND_CLIENT_KEY", testClientKey)
	t.Setenv("HOUND_BASE_URL", "https://hound.example.com")
	t.Setenv("HOUND_TIMEOUT", "2.5")
	t.Setenv("HOUND_DISABLE_COMPRESSION", "true")
	t.Setenv("HOUND_DEBUG_LEVEL", "DEBUG")

	config := NewHoundConfig()
	assert.Equal(t, testClientID, config.ClientID)
	assert.Equal(t, testClientKey, config.ClientKey)
	assert.Equal(t, "https://hound.example.com", config.BaseURL)
	assert.Equal(t, 2500*time.Millisecond, config.Timeout)
	assert.True(t, config.DisableCompression)
	assert.Equal(t, "DEBUG", config.DebugLevel)
	assert.Empty(t, config.Validate())
}

func TestNewHoundConfigDefaults(t *testing.T) {
	clearHoundEnv(t)

	config := NewHoundConfig()
	assert.Equal(t, DefaultBaseURL, config.BaseURL)
	assert.Equal(t, DefaultTimeout, config.Timeout)
	assert.False(t, config.DisableCompression)
	assert.Equal(t, DefaultUserAgent, config.UserAgent)
}

func TestHoundConfigValidate(t *testing.T) {
	config := DefaultHoundConfig()
	issues := config.Validate()
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], "HOUND_CLIENT_ID")

	config.ClientID = testClientID
	config.ClientKey = "not base64!"
	config.BaseURL = "not a url"
	config.Timeout = -time.Second
	config.DebugLevel = "LOUD"
	assert.Len(t, config.Validate(), 4)
}

func TestHoundConfigCredentials(t *testing.T) {
	config := DefaultHoundConfig()
	_, err := config.Credentials()
	assert.True(t, IsErrorCode(err, ErrCodeCredentials))

	config.CredentialsFile = writeTempFile(t, "creds.yaml",
		"client_id: "+testClientID+"\nclient_key: "+testClientKey+"\n")
	creds, err := config.Credentials()
	require.NoError(t, err)
	assert.Equal(t, testCredentials(), creds)

	// explicit values win over the file
	config.ClientID = "other-id"
	config.ClientKey = testClientKey
	creds, err = config.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "other-id", creds.ClientID)
}

func TestHoundConfigPrintMasksKey(t *testing.T) {
	config := DefaultHoundConfig()
	config.ClientID = testClientID
	config.ClientKey = testClientKey

	var buf bytes.Buffer
	config.PrintConfig(&buf)
	out := buf.String()

	assert.Contains(t, out, testClientID)
	assert.Contains(t, out, testClientKey[:6]+"...")
	assert.NotContains(t, out, testClientKey)
}
