package notion

import (
	"net/url"
	"regexp"
	"strings"
)

var pageIDPattern = regexp.MustCompile(`[a-f0-9]{32}`)

// ParsePageURL extracts a 32-hex page id from a workspace URL. The whole
// string is scanned first, so a bare id embedded anywhere in the path or
// query is found regardless of surrounding structure. Returns "" when no
// id is present.
func ParsePageURL(raw string) string {
	if match := pageIDPattern.FindString(raw); match != "" {
		return match
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	for _, part := range strings.Split(parsed.Path, "/") {
		if loc := pageIDPattern.FindStringIndex(part); loc != nil && loc[0] == 0 {
			return part[loc[0]:loc[1]]
		}
	}

	for _, values := range parsed.Query() {
		for _, value := range values {
			if loc := pageIDPattern.FindStringIndex(value); loc != nil && loc[0] == 0 {
				return value[loc[0]:loc[1]]
			}
		}
	}

	return ""
}

// BlockURL builds a deep link that navigates directly to one block within
// a page. Both ids have their hyphens stripped.
func BlockURL(base, pageID, blockID string) string {
	cleanPage := strings.ReplaceAll(pageID, "-", "")
	cleanBlock := strings.ReplaceAll(blockID, "-", "")
	return base + "/" + cleanPage + "#" + cleanBlock
}
