package hound

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	HeaderRequestAuthentication = "Hound-Request-Authentication"
	HeaderClientAuthentication  = "Hound-Client-Authentication"
)

// AuthHeaders holds the two authentication header values for one request.
type AuthHeaders struct {
	RequestAuthentication string
	ClientAuthentication  string
}

// Apply sets both headers on h.
func (a AuthHeaders) Apply(h http.Header) {
	h.Set(HeaderRequestAuthentication, a.RequestAuthentication)
	h.Set(HeaderClientAuthentication, a.ClientAuthentication)
}

// Sign computes the authentication headers for a single request.
//
// The signed message is "<userID>;<requestID><timestamp>"; there is no
// separator between the request id and the timestamp.
func Sign(userID, requestID string, timestamp int64, clientID, clientKey string) (AuthHeaders, error) {
	key, err := decodeClientKey(clientKey)
	if err != nil {
		return AuthHeaders{}, err
	}
	return signWithKey(userID, requestID, timestamp, clientID, key), nil
}

// Signer signs requests with a client key decoded once at construction.
type Signer struct {
	clientID string
	key      []byte
}

func NewSigner(creds Credentials) (*Signer, error) {
	if creds.ClientID == "" {
		return nil, NewCredentialsError("client id is empty")
	}
	key, err := decodeClientKey(creds.ClientKey)
	if err != nil {
		return nil, err
	}
	return &Signer{clientID: creds.ClientID, key: key}, nil
}

func (s *Signer) Sign(userID, requestID string, timestamp int64) AuthHeaders {
	return signWithKey(userID, requestID, timestamp, s.clientID, s.key)
}

func signWithKey(userID, requestID string, timestamp int64, clientID string, key []byte) AuthHeaders {
	ts := strconv.FormatInt(timestamp, 10)

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(userID + ";" + requestID + ts))
	signature := base64.URLEncoding.EncodeToString(mac.Sum(nil))

	return AuthHeaders{
		RequestAuthentication: userID + ";" + requestID,
		ClientAuthentication:  clientID + ";" + ts + ";" + signature,
	}
}

// decodeClientKey accepts the padded base64url form the service issues, and
// tolerates keys whose padding was stripped.
func decodeClientKey(clientKey string) ([]byte, error) {
	if clientKey == "" {
		return nil, NewHoundError("client key is empty", ErrCodeInvalidClientKey)
	}
	key, err := base64.URLEncoding.DecodeString(clientKey)
	if err != nil {
		key, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(clientKey, "="))
	}
	if err != nil {
		return nil, WrapError(fmt.Errorf("decode client key: %w", err), ErrCodeInvalidClientKey)
	}
	return key, nil
}
