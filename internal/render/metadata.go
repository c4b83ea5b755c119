package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode"

	"docbridge/internal/notion"
)

// Metadata timestamps are always rendered in this zone.
var syncZone = mustLoadZone("America/Los_Angeles")

func mustLoadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("load time zone %s: %v", name, err))
	}
	return loc
}

// FormatSyncTime renders a timestamp in the fixed metadata format,
// e.g. "June 03, 2025 02:07 PM PT".
func FormatSyncTime(t time.Time) string {
	return t.In(syncZone).Format("January 02, 2006 03:04 PM") + " PT"
}

func formatISOTime(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return ""
	}
	return FormatSyncTime(t)
}

// PropertyValue extracts a readable string value from a page property.
// The dispatch is a closed switch over the property type tag; unknown or
// malformed payloads yield "".
func PropertyValue(prop notion.Property) string {
	switch prop.Type {
	case "title":
		return notion.JoinRichText(prop.Title)
	case "rich_text":
		return notion.JoinRichText(prop.RichText)
	case "number":
		if prop.Number == nil {
			return ""
		}
		return formatNumber(*prop.Number)
	case "select":
		if prop.Select == nil {
			return ""
		}
		return prop.Select.Name
	case "multi_select":
		names := make([]string, 0, len(prop.MultiSelect))
		for _, item := range prop.MultiSelect {
			names = append(names, item.Name)
		}
		return strings.Join(names, ", ")
	case "date":
		if prop.Date == nil {
			return ""
		}
		if prop.Date.End != "" {
			return prop.Date.Start + " to " + prop.Date.End
		}
		return prop.Date.Start
	case "checkbox":
		if prop.Checkbox {
			return "Yes"
		}
		return "No"
	case "url":
		return prop.URL
	case "email":
		return prop.Email
	case "phone_number":
		return prop.PhoneNumber
	case "people":
		names := make([]string, 0, len(prop.People))
		for i := range prop.People {
			names = append(names, prop.People[i].DisplayName())
		}
		return strings.Join(names, ", ")
	case "files":
		var names []string
		for _, f := range prop.Files {
			switch {
			case f.Name != "":
				names = append(names, f.Name)
			case f.File != nil && f.File.URL != "":
				segments := strings.Split(f.File.URL, "/")
				names = append(names, segments[len(segments)-1])
			case f.File != nil:
				names = append(names, "Unnamed file")
			}
		}
		return strings.Join(names, ", ")
	case "formula":
		return formulaValue(prop.Formula)
	case "relation":
		if len(prop.Relation) == 0 {
			return ""
		}
		return fmt.Sprintf("%d related items", len(prop.Relation))
	case "rollup":
		return rollupValue(prop.Rollup)
	case "created_time":
		return formatISOTime(prop.CreatedTime)
	case "last_edited_time":
		return formatISOTime(prop.LastEditedTime)
	case "created_by":
		return prop.CreatedBy.DisplayName()
	case "last_edited_by":
		return prop.LastEditedBy.DisplayName()
	case "status":
		if prop.Status == nil {
			return ""
		}
		return prop.Status.Name
	}
	return ""
}

func formulaValue(f *notion.Formula) string {
	if f == nil {
		return ""
	}
	switch f.Type {
	case "string":
		if f.String == nil {
			return ""
		}
		return *f.String
	case "number":
		if f.Number == nil {
			return ""
		}
		return formatNumber(*f.Number)
	case "boolean":
		if f.Boolean != nil && *f.Boolean {
			return "Yes"
		}
		return "No"
	case "date":
		if f.Date == nil {
			return ""
		}
		return f.Date.Start
	}
	return ""
}

func rollupValue(r *notion.Rollup) string {
	if r == nil {
		return ""
	}
	switch r.Type {
	case "number":
		if r.Number == nil {
			return ""
		}
		return formatNumber(*r.Number)
	case "array":
		if len(r.Array) == 0 {
			return ""
		}
		return fmt.Sprintf("%d items", len(r.Array))
	}
	return ""
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// BuildMetadata assembles the display-ready metadata line list for a page:
// title, page id, sync timestamp, the non-title properties with non-empty
// values, and the page-level audit fields, ending with a delimiter line.
func BuildMetadata(page *notion.Page, now time.Time) []string {
	lines := []string{
		"Title: " + page.Title(),
		"Notion Page ID: " + page.ID,
		"Last Synced: " + FormatSyncTime(now),
	}

	if len(page.Properties) > 0 {
		lines = append(lines, "", "== Page Properties ==")
		for _, name := range sortedPropertyNames(page.Properties) {
			prop := page.Properties[name]
			if prop.Type == "title" {
				// already on the first line
				continue
			}
			value := PropertyValue(prop)
			if strings.TrimSpace(value) == "" {
				continue
			}
			lines = append(lines, displayName(name)+": "+value)
		}
	}

	lines = append(lines, "", "== Page Info ==")
	if page.CreatedTime != "" {
		lines = append(lines, "Created: "+formatISOTime(page.CreatedTime))
	}
	if page.LastEditedTime != "" {
		lines = append(lines, "Last Edited: "+formatISOTime(page.LastEditedTime))
	}
	if page.CreatedBy != nil {
		lines = append(lines, "Created By: "+page.CreatedBy.DisplayName())
	}
	if page.LastEditedBy != nil {
		lines = append(lines, "Last Edited By: "+page.LastEditedBy.DisplayName())
	}
	if page.URL != "" {
		lines = append(lines, "Notion URL: "+page.URL)
	}

	lines = append(lines, "---")
	return lines
}

func sortedPropertyNames(props map[string]notion.Property) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	// map order is random; keep output stable across syncs
	sort.Strings(names)
	return names
}

// displayName cosmetically title-cases a property name, turning
// underscores into spaces.
func displayName(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Sanitize strips a display name down to filename-safe characters and
// caps its length.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(" ._-()", r) {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
