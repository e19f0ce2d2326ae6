package domain

// EmbedField is one name/value pair inside a rich chat embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// EmbedFooter labels the bottom edge of an embed.
type EmbedFooter struct {
	Text string `json:"text"`
}

// Embed is one rich message block understood by Discord-style webhooks.
// All size limits are enforced by the publication stage before the embed
// reaches a sink.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}
