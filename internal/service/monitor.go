package service

import (
	"context"
	"log/slog"

	"docbridge/internal/ai"
	"docbridge/internal/config"
	"docbridge/internal/notion"
	"docbridge/internal/render"
	"docbridge/internal/slackx"
)

// MonitorService runs the grounding monitor: for each configured job it
// compares recent channel conversation against the job's source document
// and notifies the document owner about suggested updates.
type MonitorService struct {
	notion       *notion.Client
	harvester    *slackx.Harvester
	notifier     *slackx.Notifier
	analyzer     *ai.Analyzer
	jobs         *config.Jobs
	notionBase   string
	lookbackDays int
	logger       *slog.Logger
}

// NewMonitorService creates a monitor service.
func NewMonitorService(
	notionClient *notion.Client,
	harvester *slackx.Harvester,
	notifier *slackx.Notifier,
	analyzer *ai.Analyzer,
	jobs *config.Jobs,
	cfg *config.Config,
	logger *slog.Logger,
) *MonitorService {
	return &MonitorService{
		notion:       notionClient,
		harvester:    harvester,
		notifier:     notifier,
		analyzer:     analyzer,
		jobs:         jobs,
		notionBase:   cfg.NotionBaseURL,
		lookbackDays: cfg.LookbackDays,
		logger:       logger,
	}
}

// RunAll processes every configured monitoring job. A job failure is
// logged and does not stop the remaining jobs.
func (m *MonitorService) RunAll(ctx context.Context) {
	for i := range m.jobs.Jobs {
		m.runJob(ctx, &m.jobs.Jobs[i])
	}
}

// ownerEmailFromDirectory resolves the Owner person's email through the
// workspace user directory. Page property payloads omit emails when the
// integration lacks the user capability.
func (m *MonitorService) ownerEmailFromDirectory(ctx context.Context, page *notion.Page, logger *slog.Logger) string {
	ownerID := page.OwnerID()
	if ownerID == "" {
		return ""
	}

	users, err := m.notion.ListUsers(ctx)
	if err != nil {
		logger.Warn("failed to list workspace users", "error", err)
		return ""
	}
	for _, user := range users {
		if user.ID == ownerID && user.Person != nil {
			return user.Person.Email
		}
	}
	return ""
}

func (m *MonitorService) runJob(ctx context.Context, job *config.MonitoringJob) {
	logger := m.logger.With("job", job.Name)

	pageID := notion.ParsePageURL(job.NotionPageURL)
	if pageID == "" {
		logger.Error("invalid notion page url", "url", job.NotionPageURL)
		return
	}

	page, err := m.notion.RetrievePage(ctx, pageID)
	if err != nil {
		logger.Error("failed to retrieve page", "page_id", pageID, "error", err)
		return
	}

	ownerEmail := job.OwnerEmail
	if ownerEmail == "" {
		ownerEmail = page.OwnerEmail()
	}
	if ownerEmail == "" {
		ownerEmail = m.ownerEmailFromDirectory(ctx, page, logger)
	}
	if ownerEmail == "" {
		logger.Error("no owner email for page", "page_id", pageID)
		return
	}

	recipient, err := m.notifier.ResolveRecipient(ctx, ownerEmail)
	if err != nil {
		logger.Error("failed to resolve recipient", "email", ownerEmail, "error", err)
		return
	}

	blocks, err := m.notion.FetchBlockTree(ctx, pageID)
	if err != nil {
		logger.Error("failed to fetch blocks", "page_id", pageID, "error", err)
		return
	}
	records := render.PromptRecords(blocks)
	if records == "" {
		logger.Info("no blocks found in page", "page_id", pageID)
		return
	}

	messages := m.harvester.Messages(ctx, job.SlackChannels, m.lookbackDays)
	if len(messages) == 0 {
		logger.Info("no messages found in channels", "channels", job.SlackChannels)
		return
	}

	suggestions, err := m.analyzer.GenerateSuggestions(ctx, records, messages)
	if err != nil {
		logger.Error("failed to generate suggestions", "error", err)
		return
	}
	logger.Info("generated suggestions", "count", len(suggestions))

	for _, suggestion := range suggestions {
		suggestion.NotionURL = notion.BlockURL(m.notionBase, pageID, suggestion.BlockID)

		if m.notifier.PostSuggestion(ctx, recipient, suggestion) {
			logger.Info("suggestion sent", "block_id", suggestion.BlockID, "recipient", recipient)
		} else {
			logger.Error("suggestion delivery failed", "block_id", suggestion.BlockID, "recipient", recipient)
		}
	}
}
