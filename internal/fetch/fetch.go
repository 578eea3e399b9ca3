// Package fetch implements image acquisition for the analysis pipeline.
// A source is either an HTTP(S) URL or an inline data: payload; both resolve
// to raw bytes plus a MIME type.
package fetch

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrTooLarge is returned when an image exceeds the configured size limit.
var ErrTooLarge = errors.New("image exceeds size limit")

// Image holds fetched image content. SourceURL is empty for inline payloads.
type Image struct {
	SourceURL string
	Data      []byte
	MIME      string
}

// DataURI returns the image encoded as a base64 data URI for vision model calls.
func (i *Image) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MIME, base64.StdEncoding.EncodeToString(i.Data))
}

// Extension returns the file extension matching the image MIME type.
func (i *Image) Extension() string {
	switch i.MIME {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// Fetcher retrieves images over HTTP or decodes inline data payloads.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// New creates a Fetcher with the given request timeout, User-Agent header,
// and image size limit. A maxBytes of 0 disables the limit.
func New(timeout time.Duration, userAgent string, maxBytes int64) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Fetch resolves a source string into an Image. Any network or parse error is
// returned as-is; callers treat it as "cannot analyze this image" rather than
// a fatal condition.
func (f *Fetcher) Fetch(ctx context.Context, source string) (*Image, error) {
	if strings.HasPrefix(source, "data:") {
		img, err := decodeInline(source)
		if err != nil {
			return nil, err
		}
		if f.maxBytes > 0 && int64(len(img.Data)) > f.maxBytes {
			return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(img.Data))
		}
		return img, nil
	}

	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return nil, fmt.Errorf("unsupported image source scheme: %.24s", source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, f.maxBytes)
	}

	return &Image{
		SourceURL: source,
		Data:      data,
		MIME:      resolveMIME(resp.Header.Get("Content-Type"), source),
	}, nil
}

func decodeInline(source string) (*Image, error) {
	header, payload, ok := strings.Cut(source, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}

	mime := "image/jpeg"
	meta := strings.TrimPrefix(header, "data:")
	if m, _, found := strings.Cut(meta, ";"); found && m != "" {
		mime = m
	} else if meta != "" && !strings.Contains(meta, ";") {
		mime = meta
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode inline image: %w", err)
	}

	return &Image{Data: data, MIME: mime}, nil
}

// resolveMIME prefers the response content-type header, falling back to
// extension sniffing on the source URL.
func resolveMIME(header, source string) string {
	header = strings.TrimSpace(header)
	if mime, _, found := strings.Cut(header, ";"); found {
		header = mime
	}
	if header != "" && header != "application/octet-stream" {
		return header
	}

	lower := strings.ToLower(source)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
