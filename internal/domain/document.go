package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// IndexFileName is the per-directory document holding records and naming state
const IndexFileName = "screenshot_index.json"

// DocumentVersion is written by this implementation. Documents without a
// version come from older releases and go through MigrateDocument.
const DocumentVersion = 2

// Record describes a saved image. Records are never modified after append.
type Record struct {
	Filename string    `json:"filename"`
	Filepath string    `json:"filepath"`
	Created  time.Time `json:"created"`
	Size     int64     `json:"size"`
}

// legacyTimeLayouts are accepted for "created" in addition to RFC 3339.
// Older releases wrote local time without a zone offset.
var legacyTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON reads records written by any release. An unparseable
// "created" value leaves Created zero instead of failing the whole document.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Filename string `json:"filename"`
		Filepath string `json:"filepath"`
		Created  string `json:"created"`
		Size     int64  `json:"size"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	created, _ := parseCreated(raw.Created)
	*r = Record{Filename: raw.Filename, Filepath: raw.Filepath, Created: created, Size: raw.Size}
	return nil
}

func parseCreated(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range legacyTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid created timestamp %q", s)
}

// Document is the persisted state of one save directory
type Document struct {
	Version         int                `json:"version"`
	Screenshots     []Record           `json:"screenshots"`
	CustomCounters  map[string]Counter `json:"custom_counters"`
	PatternElements []Element          `json:"pattern_elements"`
	NamingPattern   string             `json:"naming_pattern"`
}

// DefaultDocument is the state of a directory without an index file
func DefaultDocument() *Document {
	elements := DefaultPattern()
	return &Document{
		Version:         DocumentVersion,
		Screenshots:     []Record{},
		CustomCounters:  NewCounterStore().Snapshot(),
		PatternElements: elements,
		NamingPattern:   BuildTemplate(elements),
	}
}

// NewDocument assembles a document from live state
func NewDocument(records []Record, counters *CounterStore, pattern *PatternBuilder) *Document {
	return &Document{
		Version:         DocumentVersion,
		Screenshots:     append([]Record{}, records...),
		CustomCounters:  counters.Snapshot(),
		PatternElements: pattern.Elements(),
		NamingPattern:   pattern.Template(),
	}
}

// Counters builds a counter store from the document
func (d *Document) Counters() *CounterStore {
	return NewCounterStoreFrom(d.CustomCounters)
}

// Pattern builds a pattern builder from the document
func (d *Document) Pattern() *PatternBuilder {
	return NewPatternBuilder(d.PatternElements...)
}

// Marshal encodes the document as indented JSON
func (d *Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// legacyDocument captures every field any release has written
type legacyDocument struct {
	Version         int                `json:"version"`
	Screenshots     []Record           `json:"screenshots"`
	Counter         *int               `json:"counter"`
	CustomCounters  map[string]Counter `json:"custom_counters"`
	PatternElements []Element          `json:"pattern_elements"`
	NamingPattern   string             `json:"naming_pattern"`
}

// MigrateDocument decodes an index file of any version into the current schema.
//
// Older files may carry a bare integer "counter" instead of "custom_counters",
// pattern elements as bare strings, or only a hand-written "naming_pattern".
// All of these are rewritten to the current form; the result always contains
// the default counter.
func MigrateDocument(data []byte) (*Document, error) {
	var raw legacyDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode index document: %w", err)
	}
	if raw.Version > DocumentVersion {
		return nil, fmt.Errorf("index document version %d is newer than supported version %d", raw.Version, DocumentVersion)
	}

	doc := &Document{
		Version:     DocumentVersion,
		Screenshots: raw.Screenshots,
	}
	if doc.Screenshots == nil {
		doc.Screenshots = []Record{}
	}

	switch {
	case len(raw.CustomCounters) > 0:
		doc.CustomCounters = raw.CustomCounters
	case raw.Counter != nil:
		doc.CustomCounters = map[string]Counter{
			DefaultCounterName: {Name: DefaultCounterName, Value: *raw.Counter, Increment: 1},
		}
	}
	counters := NewCounterStoreFrom(doc.CustomCounters)
	doc.CustomCounters = counters.Snapshot()

	switch {
	case raw.Version >= DocumentVersion, len(raw.PatternElements) > 0:
		doc.PatternElements = make([]Element, 0, len(raw.PatternElements))
		for _, e := range raw.PatternElements {
			if e.Kind == elementLegacy {
				e = classifyLegacy(e.Value, counters)
			}
			doc.PatternElements = append(doc.PatternElements, e)
		}
	case raw.NamingPattern != "":
		elements, err := ParseTemplate(raw.NamingPattern)
		if err != nil {
			return nil, fmt.Errorf("migrate naming pattern: %w", err)
		}
		doc.PatternElements = elements
	default:
		doc.PatternElements = DefaultPattern()
	}

	doc.NamingPattern = BuildTemplate(doc.PatternElements)
	return doc, nil
}
