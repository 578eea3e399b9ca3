package fetch_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vidaleve/sofia/internal/fetch"
)

func newFetcher() *fetch.Fetcher {
	return fetch.New(5*time.Second, "sofia-test/1.0", 0)
}

func TestFetchHTTP(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	defer srv.Close()

	img, err := newFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if string(img.Data) != string(payload) {
		t.Errorf("Data = %v, want %v", img.Data, payload)
	}
	if img.MIME != "image/jpeg" {
		t.Errorf("MIME = %q, want image/jpeg", img.MIME)
	}
	if img.SourceURL != srv.URL {
		t.Errorf("SourceURL = %q, want %q", img.SourceURL, srv.URL)
	}
	if gotUserAgent != "sofia-test/1.0" {
		t.Errorf("User-Agent = %q, want sofia-test/1.0", gotUserAgent)
	}
}

func TestFetchHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := newFetcher().Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestFetchUnsupportedScheme(t *testing.T) {
	if _, err := newFetcher().Fetch(context.Background(), "ftp://example.com/img.jpg"); err == nil {
		t.Fatal("expected error for ftp scheme")
	}
	if _, err := newFetcher().Fetch(context.Background(), "/local/path.png"); err == nil {
		t.Fatal("expected error for filesystem path")
	}
}

func TestFetchDataURI(t *testing.T) {
	raw := []byte("fake png bytes")
	source := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)

	img, err := newFetcher().Fetch(context.Background(), source)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if string(img.Data) != string(raw) {
		t.Errorf("Data = %q, want %q", img.Data, raw)
	}
	if img.MIME != "image/png" {
		t.Errorf("MIME = %q, want image/png", img.MIME)
	}
	if img.SourceURL != "" {
		t.Errorf("SourceURL = %q, want empty for inline payloads", img.SourceURL)
	}
}

func TestFetchDataURIWithoutMIME(t *testing.T) {
	raw := []byte("bytes")
	source := "data:;base64," + base64.StdEncoding.EncodeToString(raw)

	img, err := newFetcher().Fetch(context.Background(), source)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if img.MIME != "image/jpeg" {
		t.Errorf("MIME = %q, want image/jpeg default", img.MIME)
	}
}

func TestFetchDataURIMalformed(t *testing.T) {
	if _, err := newFetcher().Fetch(context.Background(), "data:image/png;base64"); err == nil {
		t.Fatal("expected error for data URI without payload separator")
	}
	if _, err := newFetcher().Fetch(context.Background(), "data:image/png;base64,!!!"); err == nil {
		t.Fatal("expected error for invalid base64 payload")
	}
}

func TestFetchSizeLimit(t *testing.T) {
	payload := make([]byte, 64)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	t.Run("http body over limit", func(t *testing.T) {
		f := fetch.New(5*time.Second, "sofia-test/1.0", 32)
		_, err := f.Fetch(context.Background(), srv.URL)
		if !errors.Is(err, fetch.ErrTooLarge) {
			t.Errorf("error = %v, want ErrTooLarge", err)
		}
	})

	t.Run("inline payload over limit", func(t *testing.T) {
		f := fetch.New(5*time.Second, "sofia-test/1.0", 32)
		source := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)
		_, err := f.Fetch(context.Background(), source)
		if !errors.Is(err, fetch.ErrTooLarge) {
			t.Errorf("error = %v, want ErrTooLarge", err)
		}
	})

	t.Run("within limit", func(t *testing.T) {
		f := fetch.New(5*time.Second, "sofia-test/1.0", 128)
		img, err := f.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Fetch error: %v", err)
		}
		if len(img.Data) != len(payload) {
			t.Errorf("Data = %d bytes, want %d", len(img.Data), len(payload))
		}
	})
}

func TestFetchMIMEFallsBackToExtension(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	img, err := newFetcher().Fetch(context.Background(), srv.URL+"/meal.png")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if img.MIME != "image/png" {
		t.Errorf("MIME = %q, want image/png from extension", img.MIME)
	}
}

func TestImageDataURI(t *testing.T) {
	img := &fetch.Image{Data: []byte("abc"), MIME: "image/webp"}
	want := "data:image/webp;base64," + base64.StdEncoding.EncodeToString([]byte("abc"))
	if got := img.DataURI(); got != want {
		t.Errorf("DataURI = %q, want %q", got, want)
	}
}

func TestImageExtension(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", ".png"},
		{"image/webp", ".webp"},
		{"image/gif", ".gif"},
		{"image/jpeg", ".jpg"},
		{"unknown/type", ".jpg"},
	}

	for _, tt := range tests {
		img := &fetch.Image{MIME: tt.mime}
		if got := img.Extension(); got != tt.want {
			t.Errorf("Extension(%s) = %q, want %q", tt.mime, got, tt.want)
		}
	}
}
