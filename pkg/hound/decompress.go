package hound

import (
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// DefaultAcceptEncoding is advertised when the caller did not pick one.
const DefaultAcceptEncoding = "gzip, deflate"

// DecompressTransport inflates gzip and deflate response bodies. It must wrap
// the signing Transport (not the other way around) so that it sees the
// Content-Encoding header the Transport restores from
// Hound-Response-Content-Encoding.
type DecompressTransport struct {
	Base http.RoundTripper
}

func (d *DecompressTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := d.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if req.Header.Get(headerAcceptEncoding) == "" && req.Header.Get("Range") == "" {
		req = req.Clone(req.Context())
		req.Header.Set(headerAcceptEncoding, DefaultAcceptEncoding)
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get(headerContentEncoding)))
	switch encoding {
	case "gzip", "x-gzip", "deflate":
	default:
		return resp, nil
	}

	resp.Body = &decodingBody{body: resp.Body, encoding: encoding}
	resp.Header.Del(headerContentEncoding)
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

// decodingBody opens the decompressor on first Read so that RoundTrip
// does not block on the body.
type decodingBody struct {
	body     io.ReadCloser
	encoding string
	zr       io.ReadCloser
	err      error
}

func (b *decodingBody) Read(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	if b.zr == nil {
		zr, err := b.open()
		if err != nil {
			b.err = err
			return 0, err
		}
		b.zr = zr
	}
	return b.zr.Read(p)
}

func (b *decodingBody) open() (io.ReadCloser, error) {
	if b.encoding == "deflate" {
		return zlib.NewReader(b.body)
	}
	return gzip.NewReader(b.body)
}

func (b *decodingBody) Close() error {
	if b.zr != nil {
		b.zr.Close()
	}
	return b.body.Close()
}
