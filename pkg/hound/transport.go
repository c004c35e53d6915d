package hound

import (
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	HeaderRequestInfo             = "Hound-Request-Info"
	HeaderResponseAcceptEncoding  = "Hound-Response-Accept-Encoding"
	HeaderResponseContentEncoding = "Hound-Response-Content-Encoding"
	headerAcceptEncoding          = "Accept-Encoding"
	headerContentEncoding         = "Content-Encoding"
)

// Transport is an http.RoundTripper that signs every outbound request and
// translates the service's non-standard encoding headers.
//
// It must sit beneath any decompression layer: the response's
// Hound-Response-Content-Encoding is turned into Content-Encoding here, and
// only then can a layer above inflate the body.
type Transport struct {
	// Base performs the actual exchange. http.DefaultTransport when nil.
	Base http.RoundTripper

	signer *Signer
	userID string
	now    func() time.Time
	newID  func() (string, error)
	logger *HoundLogger
}

type TransportOption func(*Transport)

// WithClock overrides the time source used for request timestamps.
func WithClock(now func() time.Time) TransportOption {
	return func(t *Transport) {
		t.now = now
	}
}

// WithIDSource overrides the generator used for per-request ids.
func WithIDSource(newID func() (string, error)) TransportOption {
	return func(t *Transport) {
		t.newID = newID
	}
}

// WithUserID pins the instance identity instead of generating one.
func WithUserID(userID string) TransportOption {
	return func(t *Transport) {
		t.userID = userID
	}
}

func WithTransportLogger(logger *HoundLogger) TransportOption {
	return func(t *Transport) {
		t.logger = logger
	}
}

// NewTransport builds a signing transport for creds over base. A random user
// id is generated once here and reused for every request sent through it.
func NewTransport(base http.RoundTripper, creds Credentials, opts ...TransportOption) (*Transport, error) {
	signer, err := NewSigner(creds)
	if err != nil {
		return nil, err
	}

	t := &Transport{
		Base:   base,
		signer: signer,
		now:    time.Now,
		newID:  newHexID,
		logger: GetGlobalLogger().WithComponent("Transport"),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.userID == "" {
		t.userID, err = t.newID()
		if err != nil {
			return nil, WrapError(err, ErrCodeIdentityGenerator)
		}
	}
	return t, nil
}

// UserID returns the identity shared by every request from this transport.
func (t *Transport) UserID() string {
	return t.userID
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	requestID, err := t.newID()
	if err != nil {
		closeRequestBody(req)
		return nil, WrapError(err, ErrCodeIdentityGenerator)
	}

	out := req.Clone(req.Context())
	t.signer.Sign(t.userID, requestID, t.now().Unix()).Apply(out.Header)

	rewritePlus(out)

	if ae := out.Header.Get(headerAcceptEncoding); ae != "" {
		out.Header.Set(HeaderResponseAcceptEncoding, ae)
	}

	t.logger.LogRequestEvent(out.Method, out.URL.Path, requestID)

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if ce := resp.Header.Get(HeaderResponseContentEncoding); ce != "" {
		resp.Header.Del(HeaderResponseContentEncoding)
		resp.Header.Set(headerContentEncoding, ce)
	}
	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// rewritePlus replaces literal '+' in the path and query with %20. The
// service does not decode '+' as a space.
func rewritePlus(req *http.Request) {
	u := req.URL
	if strings.Contains(u.RawQuery, "+") {
		u.RawQuery = strings.ReplaceAll(u.RawQuery, "+", "%20")
	}
	if esc := u.EscapedPath(); strings.Contains(esc, "+") {
		esc = strings.ReplaceAll(esc, "+", "%20")
		if p, err := url.PathUnescape(esc); err == nil {
			u.Path = p
			u.RawPath = esc
		}
	}
}

// RoundTripper contract: the request body is closed even on early errors.
func closeRequestBody(req *http.Request) {
	if req.Body != nil {
		req.Body.Close()
	}
}

// newHexID returns 128 random bits as 32 lowercase hex characters.
func newHexID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(id[:]), nil
}
