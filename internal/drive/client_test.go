package drive

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"docbridge/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func writeArtifact(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artifact.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func staticTokens() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
}

func TestCreateFile(t *testing.T) {
	var gotBody, gotAuth, gotContentType, gotQuery string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"file-123"}`))
	}))
	defer srv.Close()

	u := NewUploaderWithConfig(staticTokens(), srv.URL, testLogger())
	path := writeArtifact(t, "document body")

	id, err := u.CreateFile(context.Background(), "My Page.txt", "folder-1", path, "text/plain", false)
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if id != "file-123" {
		t.Errorf("file id = %q, want file-123", id)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if !strings.Contains(gotContentType, "multipart/related") {
		t.Errorf("content type = %q, want multipart/related", gotContentType)
	}
	if !strings.Contains(gotQuery, "uploadType=multipart") || !strings.Contains(gotQuery, "supportsAllDrives=true") {
		t.Errorf("query = %q", gotQuery)
	}

	for _, fragment := range []string{
		`"name":"My Page.txt"`,
		`"parents":["folder-1"]`,
		"Content-Type: text/plain",
		"document body",
	} {
		if !strings.Contains(gotBody, fragment) {
			t.Errorf("body missing %q", fragment)
		}
	}
	if strings.Contains(gotBody, "vnd.google-apps.document") {
		t.Error("plain upload should not request doc conversion")
	}
}

func TestCreateFileConvertsToDoc(t *testing.T) {
	var gotBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte(`{"id":"doc-1"}`))
	}))
	defer srv.Close()

	u := NewUploaderWithConfig(staticTokens(), srv.URL, testLogger())
	path := writeArtifact(t, "<html></html>")

	if _, err := u.CreateFile(context.Background(), "My Page", "folder-2", path, "text/html", true); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if !strings.Contains(gotBody, `"mimeType":"application/vnd.google-apps.document"`) {
		t.Errorf("body missing conversion mime type:\n%s", gotBody)
	}
}

func TestCreateFileUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"insufficient permissions"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	u := NewUploaderWithConfig(staticTokens(), srv.URL, testLogger())
	path := writeArtifact(t, "body")

	_, err := u.CreateFile(context.Background(), "name", "folder", path, "text/plain", false)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Errorf("err = %v, want ErrUpstream", err)
	}
}

func TestCreateFileMissingArtifact(t *testing.T) {
	u := NewUploaderWithConfig(staticTokens(), "http://unused.invalid", testLogger())

	_, err := u.CreateFile(context.Background(), "name", "folder", filepath.Join(t.TempDir(), "absent"), "text/plain", false)
	if err == nil {
		t.Error("expected error for missing artifact file")
	}
}
