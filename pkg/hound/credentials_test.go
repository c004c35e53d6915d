package hound

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCredentialsFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "creds.json", `{"client_id":"` + testClientID + `","client_key":"` + testClientKey + `"}`},
		{"yaml", "creds.yaml", "client_id: " + testClientID + "\nclient_key: " + testClientKey + "\n"},
		{"yml", "creds.yml", "client_id: " + testClientID + "\nclient_key: " + testClientKey + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := LoadCredentialsFile(writeTempFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, testCredentials(), creds)
		})
	}
}

func TestLoadCredentialsFileErrors(t *testing.T) {
	_, err := LoadCredentialsFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrCodeCredentials))

	_, err = LoadCredentialsFile(writeTempFile(t, "broken.json", "{not json"))
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrCodeCredentials))

	_, err = LoadCredentialsFile(writeTempFile(t, "nokey.json", `{"client_id":"abc"}`))
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrCodeCredentials))

	_, err = LoadCredentialsFile(writeTempFile(t, "badkey.yaml", "client_id: abc\nclient_key: '***'\n"))
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrCodeInvalidClientKey))
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("HOUND_CLIENT_ID", testClientID)
	t.Setenv("HOUND_CLIENT_KEY", testClientKey)

	creds, err := CredentialsFromEnv()
	require.NoError(t, err)
	assert.Equal(t, testCredentials(), creds)

	t.Setenv("HOUND_CLIENT_KEY", "")
	_, err = CredentialsFromEnv()
	assert.Error(t, err)
}
