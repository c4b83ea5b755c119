package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"docbridge/internal/config"
	"docbridge/internal/drive"
	"docbridge/internal/notion"
	"docbridge/internal/service"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorBlue  = "\033[34m"
)

// One-shot sync of a single page from the command line, bypassing the
// webhook. Usage:
//
//	go run scripts/sync_cli.go <page id or URL>
//
// Falls back to NOTION_PAGE_ID when no argument is given.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	pageID := cfg.NotionPageID
	if len(os.Args) > 1 {
		arg := os.Args[1]
		if parsed := notion.ParsePageURL(arg); parsed != "" {
			pageID = parsed
		} else {
			pageID = strings.ReplaceAll(arg, "-", "")
		}
	}
	if pageID == "" {
		fmt.Printf("%s❌ No page id: pass one as an argument or set NOTION_PAGE_ID%s\n", colorRed, colorReset)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	notionClient := notion.NewClient(cfg.NotionAPIKey, logger)
	uploader, err := drive.NewUploader(ctx, logger)
	if err != nil {
		fmt.Printf("%s❌ Drive credentials: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	syncService := service.NewSyncService(notionClient, uploader, cfg, logger)

	fmt.Printf("%s⏳ Syncing page %s...%s\n", colorBlue, pageID, colorReset)
	start := time.Now()
	if err := syncService.Run(ctx, pageID); err != nil {
		fmt.Printf("%s❌ Sync failed: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	fmt.Printf("%s✓ Sync completed in %s%s\n", colorGreen, time.Since(start).Round(time.Millisecond), colorReset)
}
