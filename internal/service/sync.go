// Package service orchestrates the two relay pipelines: document sync to
// Drive and the Slack grounding monitor.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"docbridge/internal/config"
	"docbridge/internal/drive"
	"docbridge/internal/notion"
	"docbridge/internal/render"
)

// SyncService syncs one workspace page into two Drive artifacts: a plain
// text file and an HTML file converted to a Google Doc. Every run
// re-fetches and re-renders from scratch; repeated syncs create new
// artifacts.
type SyncService struct {
	notion   *notion.Client
	uploader *drive.Uploader
	cfg      *config.Config
	logger   *slog.Logger
}

// NewSyncService creates a sync service.
func NewSyncService(notionClient *notion.Client, uploader *drive.Uploader, cfg *config.Config, logger *slog.Logger) *SyncService {
	return &SyncService{
		notion:   notionClient,
		uploader: uploader,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run performs one full sync of the given page.
func (s *SyncService) Run(ctx context.Context, pageID string) error {
	page, err := s.notion.RetrievePage(ctx, pageID)
	if err != nil {
		return fmt.Errorf("fetch page: %w", err)
	}
	title := page.Title()

	blocks, err := s.notion.FetchBlockTree(ctx, pageID)
	if err != nil {
		return fmt.Errorf("fetch blocks: %w", err)
	}

	metadata := render.BuildMetadata(page, time.Now())

	txtContent := strings.Join(metadata, "\n") + "\n\n" + render.PlainText(blocks)
	txtPath, err := writeArtifact(txtContent, "*.txt")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(txtPath) }()

	if _, err := s.uploader.CreateFile(ctx, render.Sanitize(title)+".txt", s.cfg.DriveTxtFolderID, txtPath, "text/plain", false); err != nil {
		return fmt.Errorf("upload txt artifact: %w", err)
	}

	htmlContent := render.Document(metadata, blocks)
	htmlPath, err := writeArtifact(htmlContent, "*.html")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(htmlPath) }()

	gdocID, err := s.uploader.CreateFile(ctx, render.Sanitize(title), s.cfg.DriveGdocFolderID, htmlPath, "text/html", true)
	if err != nil {
		return fmt.Errorf("upload gdoc artifact: %w", err)
	}

	s.logger.Info("sync completed",
		"page_id", pageID,
		"title", title,
		"doc_url", "https://docs.google.com/document/d/"+gdocID+"/edit",
	)
	return nil
}

func writeArtifact(content, pattern string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("create artifact file: %w", err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return "", fmt.Errorf("write artifact file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close artifact file: %w", err)
	}
	return f.Name(), nil
}
