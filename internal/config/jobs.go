package config

import (
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// MonitoringJob is one static monitoring configuration record. Jobs are
// loaded once at startup and never mutated.
type MonitoringJob struct {
	Name          string   `yaml:"name"`
	NotionPageURL string   `yaml:"notion_page_url"`
	SlackChannels []string `yaml:"slack_channels"`
	OwnerEmail    string   `yaml:"owner_email"` // optional; page Owner property is used when empty
}

// UserMapping links one teammate's email to their Slack identity.
type UserMapping struct {
	Email   string `yaml:"email"`
	SlackID string `yaml:"slack_id"`
	Name    string `yaml:"name"`
}

// Jobs holds the process-wide monitoring job list and the static user
// identity mapping table.
type Jobs struct {
	Jobs  []MonitoringJob `yaml:"jobs"`
	Users []UserMapping   `yaml:"users"`
}

// LoadJobs reads and validates the jobs file.
func LoadJobs(path string) (*Jobs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read jobs file: %w", err)
	}

	var jobs Jobs
	if err := yaml.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("parse jobs file: %w", err)
	}

	if err := jobs.validate(); err != nil {
		return nil, fmt.Errorf("invalid jobs file: %w", err)
	}

	return &jobs, nil
}

// SlackIDByEmail resolves a Slack user ID from the static mapping table.
func (j *Jobs) SlackIDByEmail(email string) (string, bool) {
	for _, u := range j.Users {
		if strings.EqualFold(u.Email, email) {
			return u.SlackID, true
		}
	}
	return "", false
}

func (j *Jobs) validate() error {
	for i := range j.Jobs {
		if err := j.Jobs[i].validate(); err != nil {
			return fmt.Errorf("job %q: %w", j.Jobs[i].Name, err)
		}
	}
	for i := range j.Users {
		u := &j.Users[i]
		if err := validation.ValidateStruct(u,
			validation.Field(&u.Email, validation.Required),
			validation.Field(&u.SlackID, validation.Required),
		); err != nil {
			return fmt.Errorf("user mapping %q: %w", u.Email, err)
		}
	}
	return nil
}

func (job *MonitoringJob) validate() error {
	return validation.ValidateStruct(job,
		validation.Field(&job.Name, validation.Required),
		validation.Field(&job.NotionPageURL, validation.Required),
		validation.Field(&job.SlackChannels, validation.Required, validation.Length(1, 0)),
	)
}
