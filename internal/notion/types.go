package notion

// RichText is one inline run of styled text within a block.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// TextContent is the payload shared by every rich-text block type.
type TextContent struct {
	RichText []RichText `json:"rich_text"`
}

// CodeContent is the payload of a code block.
type CodeContent struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language"`
}

// TableRow is one row of a table block.
type TableRow struct {
	Cells [][]RichText `json:"cells"`
}

// TableContent is the payload of a table block.
type TableContent struct {
	Rows []TableRow `json:"rows"`
}

// Block is one content unit in a document tree. Exactly one payload field
// matches Type; the rest stay nil. Children are populated by the fetcher
// and the tree is immutable afterward.
type Block struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	HasChildren bool   `json:"has_children"`

	Paragraph        *TextContent  `json:"paragraph,omitempty"`
	Heading1         *TextContent  `json:"heading_1,omitempty"`
	Heading2         *TextContent  `json:"heading_2,omitempty"`
	Heading3         *TextContent  `json:"heading_3,omitempty"`
	BulletedListItem *TextContent  `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextContent  `json:"numbered_list_item,omitempty"`
	Quote            *TextContent  `json:"quote,omitempty"`
	Code             *CodeContent  `json:"code,omitempty"`
	Table            *TableContent `json:"table,omitempty"`

	Children []Block `json:"children,omitempty"`
}

// richText returns the inline spans for the block's type, or nil for
// types without rich text (dividers, tables, unrecognized types).
func (b *Block) richText() []RichText {
	switch b.Type {
	case "paragraph":
		return content(b.Paragraph)
	case "heading_1":
		return content(b.Heading1)
	case "heading_2":
		return content(b.Heading2)
	case "heading_3":
		return content(b.Heading3)
	case "bulleted_list_item":
		return content(b.BulletedListItem)
	case "numbered_list_item":
		return content(b.NumberedListItem)
	case "quote":
		return content(b.Quote)
	case "code":
		if b.Code == nil {
			return nil
		}
		return b.Code.RichText
	}
	return nil
}

func content(tc *TextContent) []RichText {
	if tc == nil {
		return nil
	}
	return tc.RichText
}

// Text concatenates the plain-text payload of each inline span in the
// block's rich-text array, in array order. An empty array yields "".
func (b *Block) Text() string {
	return JoinRichText(b.richText())
}

// JoinRichText flattens a rich-text array into its plain text.
func JoinRichText(spans []RichText) string {
	var out string
	for _, span := range spans {
		out += span.PlainText
	}
	return out
}

// User is a workspace member or bot.
type User struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Person *Person `json:"person,omitempty"`
}

// Person carries person-specific user fields.
type Person struct {
	Email string `json:"email"`
}

// DisplayName returns the user's name, falling back to the id.
func (u *User) DisplayName() string {
	if u == nil {
		return "Unknown"
	}
	if u.Name != "" {
		return u.Name
	}
	if u.ID != "" {
		return u.ID
	}
	return "Unknown"
}

// SelectOption is a select/multi-select/status option.
type SelectOption struct {
	Name string `json:"name"`
}

// DateValue is a date or date-range property payload.
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// FileRef is one entry in a files property.
type FileRef struct {
	Name string    `json:"name"`
	File *FileData `json:"file,omitempty"`
}

// FileData is the hosted-file payload of a files entry.
type FileData struct {
	URL string `json:"url"`
}

// Formula is a formula property payload.
type Formula struct {
	Type    string     `json:"type"`
	String  *string    `json:"string,omitempty"`
	Number  *float64   `json:"number,omitempty"`
	Boolean *bool      `json:"boolean,omitempty"`
	Date    *DateValue `json:"date,omitempty"`
}

// Relation is one entry in a relation property.
type Relation struct {
	ID string `json:"id"`
}

// Rollup is a rollup property payload.
type Rollup struct {
	Type   string        `json:"type"`
	Number *float64      `json:"number,omitempty"`
	Array  []interface{} `json:"array,omitempty"`
}

// Property is one page property. Type selects which value field is set.
type Property struct {
	Type string `json:"type"`

	Title          []RichText     `json:"title,omitempty"`
	RichText       []RichText     `json:"rich_text,omitempty"`
	Number         *float64       `json:"number,omitempty"`
	Select         *SelectOption  `json:"select,omitempty"`
	MultiSelect    []SelectOption `json:"multi_select,omitempty"`
	Date           *DateValue     `json:"date,omitempty"`
	Checkbox       bool           `json:"checkbox,omitempty"`
	URL            string         `json:"url,omitempty"`
	Email          string         `json:"email,omitempty"`
	PhoneNumber    string         `json:"phone_number,omitempty"`
	People         []User         `json:"people,omitempty"`
	Files          []FileRef      `json:"files,omitempty"`
	Formula        *Formula       `json:"formula,omitempty"`
	Relation       []Relation     `json:"relation,omitempty"`
	Rollup         *Rollup        `json:"rollup,omitempty"`
	CreatedTime    string         `json:"created_time,omitempty"`
	LastEditedTime string         `json:"last_edited_time,omitempty"`
	CreatedBy      *User          `json:"created_by,omitempty"`
	LastEditedBy   *User          `json:"last_edited_by,omitempty"`
	Status         *SelectOption  `json:"status,omitempty"`
}

// Page is a workspace page object.
type Page struct {
	ID             string              `json:"id"`
	CreatedTime    string              `json:"created_time"`
	LastEditedTime string              `json:"last_edited_time"`
	CreatedBy      *User               `json:"created_by,omitempty"`
	LastEditedBy   *User               `json:"last_edited_by,omitempty"`
	URL            string              `json:"url"`
	Properties     map[string]Property `json:"properties"`
}

// Title returns the page's title property value. Common property names are
// checked first; any remaining title-typed property wins after that.
func (p *Page) Title() string {
	for _, key := range []string{"Title", "Name", "title", "name"} {
		prop, ok := p.Properties[key]
		if ok && prop.Type == "title" {
			if t := JoinRichText(prop.Title); t != "" {
				return t
			}
			return "Untitled"
		}
	}
	for _, prop := range p.Properties {
		if prop.Type == "title" {
			if t := JoinRichText(prop.Title); t != "" {
				return t
			}
		}
	}
	if len(p.ID) >= 8 {
		return "Untitled_" + p.ID[:8]
	}
	return "Untitled_" + p.ID
}

// OwnerEmail returns the email of the first person in the page's "Owner"
// people property, or "" when absent. People payloads on page properties
// carry the email only when the integration has the user capability; use
// OwnerID plus a directory lookup otherwise.
func (p *Page) OwnerEmail() string {
	prop, ok := p.Properties["Owner"]
	if !ok || prop.Type != "people" {
		return ""
	}
	for _, person := range prop.People {
		if person.Person != nil && person.Person.Email != "" {
			return person.Person.Email
		}
	}
	return ""
}

// OwnerID returns the user id of the first person in the page's "Owner"
// people property, or "" when absent.
func (p *Page) OwnerID() string {
	prop, ok := p.Properties["Owner"]
	if !ok || prop.Type != "people" {
		return ""
	}
	for _, person := range prop.People {
		if person.ID != "" {
			return person.ID
		}
	}
	return ""
}
