// Package drive uploads rendered artifacts to Google Drive. The upload is
// a raw multipart/related request rather than the full Drive SDK: the
// request shape is small and fixed, and the conversion flag rides on the
// file metadata.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"docbridge/internal/domain"
)

const (
	// DefaultUploadURL is the Drive multipart upload endpoint
	DefaultUploadURL = "https://www.googleapis.com/upload/drive/v3/files"
	// DefaultTimeout covers large artifact uploads
	DefaultTimeout = 15 * time.Minute

	partBoundary = "===============sync_part_boundary=="
	userAgent    = "docbridge-sync/1.0"

	// gdocMimeType requests server-side conversion to a Google Doc
	gdocMimeType = "application/vnd.google-apps.document"
)

// Uploader pushes artifacts to Drive folders.
type Uploader struct {
	tokens     oauth2.TokenSource
	uploadURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewUploader creates an uploader backed by application default
// credentials with Drive scopes.
func NewUploader(ctx context.Context, logger *slog.Logger) (*Uploader, error) {
	tokens, err := google.DefaultTokenSource(ctx,
		"https://www.googleapis.com/auth/drive",
		"https://www.googleapis.com/auth/drive.file",
	)
	if err != nil {
		return nil, fmt.Errorf("google credentials: %w", err)
	}
	return NewUploaderWithConfig(tokens, DefaultUploadURL, logger), nil
}

// NewUploaderWithConfig creates an uploader with an explicit token source
// and endpoint (tests).
func NewUploaderWithConfig(tokens oauth2.TokenSource, uploadURL string, logger *slog.Logger) *Uploader {
	return &Uploader{
		tokens:    tokens,
		uploadURL: uploadURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: logger,
	}
}

type fileMetadata struct {
	Name     string   `json:"name"`
	Parents  []string `json:"parents"`
	MimeType string   `json:"mimeType,omitempty"`
}

type createdFile struct {
	ID string `json:"id"`
}

// CreateFile uploads a local artifact into the given folder and returns
// the created file's id. With convertToDoc set, Drive converts the upload
// into a Google Doc. A non-success response is logged with its body and
// returned as an upstream error; there is no retry.
func (u *Uploader) CreateFile(ctx context.Context, name, folderID, path, mimeType string, convertToDoc bool) (string, error) {
	metadata := fileMetadata{
		Name:    name,
		Parents: []string{folderID},
	}
	if convertToDoc {
		metadata.MimeType = gdocMimeType
	}

	body, err := multipartBody(metadata, path, mimeType)
	if err != nil {
		return "", err
	}

	token, err := u.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}

	url := u.uploadURL + "?uploadType=multipart&supportsAllDrives=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Content-Type", "multipart/related; boundary="+partBoundary)
	req.Header.Set("User-Agent", userAgent)

	u.logger.Debug("uploading file", "name", name, "folder_id", folderID, "size", len(body), "convert", convertToDoc)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		u.logger.Error("drive upload failed", "status", resp.StatusCode, "body", string(respBody))
		return "", fmt.Errorf("%w: drive upload (status %d): %s", domain.ErrUpstream, resp.StatusCode, string(respBody))
	}

	var created createdFile
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	u.logger.Info("created drive file", "name", name, "file_id", created.ID)
	return created.ID, nil
}

// multipartBody builds the two-part related body: JSON metadata first,
// then the raw file content.
func multipartBody(metadata fileMetadata, path, mimeType string) ([]byte, error) {
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}

	var b bytes.Buffer
	b.WriteString("--" + partBoundary + "\r\n")
	b.WriteString("Content-Type: application/json; charset=UTF-8\r\n\r\n")
	b.Write(metaJSON)
	b.WriteString("\r\n--" + partBoundary + "\r\n")
	b.WriteString("Content-Type: " + mimeType + "\r\n\r\n")
	b.Write(content)
	b.WriteString("\r\n--" + partBoundary + "--")
	return b.Bytes(), nil
}
