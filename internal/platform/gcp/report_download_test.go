package gcp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/yungbote/mindtrack-backend/internal/pkg/errors"
)

func emulatorBucket(t *testing.T, handler http.HandlerFunc) *reportBucket {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &reportBucket{
		cfg:          ReportStorageConfig{Mode: ObjectStorageModeGCSEmulator, Bucket: "mt-reports"},
		emulatorHost: srv.URL,
	}
}

func TestEmulatorDownload(t *testing.T) {
	b := emulatorBucket(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alt") != "media" {
			t.Errorf("alt query: got %q", r.URL.Query().Get("alt"))
		}
		_, _ = w.Write([]byte("png-bytes"))
	})

	body, err := b.Download(context.Background(), "reports/u1/c1/1.png")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("body: want=%q got=%q", "png-bytes", data)
	}
}

func TestEmulatorDownloadMissingObjectIsNotFound(t *testing.T) {
	b := emulatorBucket(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "No such object", http.StatusNotFound)
	})

	_, err := b.Download(context.Background(), "reports/u1/c1/gone.png")
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestEmulatorDownloadServerErrorIsNotNotFound(t *testing.T) {
	b := emulatorBucket(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := b.Download(context.Background(), "reports/u1/c1/1.png")
	if err == nil || errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("want a non-not-found error, got %v", err)
	}
}
