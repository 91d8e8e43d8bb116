package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type brokenBody struct{}

func (brokenBody) Read([]byte) (int, error) { return 0, errors.New("read failed") }
func (brokenBody) Close() error             { return nil }

type fixedTransport struct{ resp *http.Response }

func (f fixedTransport) RoundTrip(*http.Request) (*http.Response, error) { return f.resp, nil }

func TestDownloadImage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte{0xFF, 0xD8})
		}))
		defer server.Close()

		data, err := DownloadImage(context.Background(), nil, server.URL)
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if len(data) != 2 {
			t.Errorf("expected 2 bytes, got %d", len(data))
		}
	})

	t.Run("empty URL", func(t *testing.T) {
		if _, err := DownloadImage(context.Background(), nil, ""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(context.Background(), server.Client(), server.URL); err == nil {
			t.Error("expected error for 404")
		}
	})

	t.Run("body read failure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: brokenBody{}, Header: http.Header{}}
		client := &http.Client{Transport: fixedTransport{resp: resp}}

		if _, err := DownloadImage(context.Background(), client, "http://example.test/cover.jpg"); err == nil {
			t.Error("expected read error")
		}
	})
}
