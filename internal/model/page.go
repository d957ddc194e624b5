package model

// PageRecord is the upstream contract: one crawled page with its extracted
// text fields. All fields except URL are optional; missing fields simply
// produce no content items downstream.
type PageRecord struct {
	URL             string    `json:"url"`
	Title           string    `json:"title,omitempty"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Headings        []Heading `json:"headings,omitempty"`
	Paragraphs      []string  `json:"paragraphs,omitempty"`
}

// Heading is a single heading element with its level (1-6)
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}
