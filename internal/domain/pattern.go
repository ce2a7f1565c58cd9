package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ElementKind tags a pattern element
type ElementKind string

const (
	ElementToken   ElementKind = "token"   // {name}: built-in token or counter reference
	ElementLiteral ElementKind = "literal" // text copied into the filename

	// elementLegacy marks a bare string read from an old index file.
	// MigrateDocument classifies it before the element reaches a builder.
	elementLegacy ElementKind = ""
)

// legacySpace is how old index files stored the space separator
const legacySpace = "space"

// Element is one unit of a naming pattern
type Element struct {
	Kind  ElementKind `json:"type"`
	Value string      `json:"value"`
}

// Token returns a reference element for a built-in token or counter
func Token(name string) Element {
	return Element{Kind: ElementToken, Value: name}
}

// Literal returns a text element
func Literal(text string) Element {
	return Element{Kind: ElementLiteral, Value: text}
}

// Space returns the single-space separator
func Space() Element {
	return Literal(" ")
}

// String renders the element the way front ends list it
func (e Element) String() string {
	switch e.Kind {
	case ElementToken:
		return "{" + e.Value + "}"
	case ElementLiteral:
		if e.Value == " " {
			return "␣"
		}
		return fmt.Sprintf("%q", e.Value)
	default:
		return e.Value
	}
}

// UnmarshalJSON accepts both the tagged form and the bare strings of old index files
func (e *Element) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = Element{Kind: elementLegacy, Value: s}
		return nil
	}

	type plain Element
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Kind != ElementToken && p.Kind != ElementLiteral {
		return fmt.Errorf("unknown pattern element type %q", p.Kind)
	}
	*e = Element(p)
	return nil
}

// DefaultPattern returns the elements a fresh directory starts with
func DefaultPattern() []Element {
	return []Element{Token(TokenDate), Token(TokenTime), Token(DefaultCounterName)}
}

// PatternBuilder keeps the ordered element sequence that defines filenames.
// Elements are not validated on append; unknown references fail at render time.
type PatternBuilder struct {
	elements []Element
}

// NewPatternBuilder creates a builder with the given elements
func NewPatternBuilder(elements ...Element) *PatternBuilder {
	return &PatternBuilder{elements: append([]Element(nil), elements...)}
}

// Append adds an element at the end
func (b *PatternBuilder) Append(e Element) {
	b.elements = append(b.elements, e)
}

// Pop removes and returns the last element. It returns false on an empty pattern.
func (b *PatternBuilder) Pop() (Element, bool) {
	if len(b.elements) == 0 {
		return Element{}, false
	}
	last := b.elements[len(b.elements)-1]
	b.elements = b.elements[:len(b.elements)-1]
	return last, true
}

// Clear removes every element
func (b *PatternBuilder) Clear() {
	b.elements = nil
}

// Reset restores the default pattern
func (b *PatternBuilder) Reset() {
	b.elements = DefaultPattern()
}

// Len returns the number of elements
func (b *PatternBuilder) Len() int {
	return len(b.elements)
}

// Elements returns a copy of the sequence
func (b *PatternBuilder) Elements() []Element {
	return append([]Element(nil), b.elements...)
}

// Template derives the template string from the elements
func (b *PatternBuilder) Template() string {
	return BuildTemplate(b.elements)
}

// BuildTemplate concatenates {name} for tokens and escaped text for literals
func BuildTemplate(elements []Element) string {
	var sb strings.Builder
	for _, e := range elements {
		switch e.Kind {
		case ElementToken:
			sb.WriteString("{")
			sb.WriteString(e.Value)
			sb.WriteString("}")
		default:
			sb.WriteString(escapeBraces(e.Value))
		}
	}
	return sb.String()
}

// ParseTemplate splits a template back into elements. Adjacent text becomes
// a single literal. It fails on unbalanced braces.
func ParseTemplate(template string) ([]Element, error) {
	parts, err := scanTemplate(template)
	if err != nil {
		return nil, err
	}
	elements := make([]Element, 0, len(parts))
	for _, p := range parts {
		if p.token {
			elements = append(elements, Token(p.text))
		} else {
			elements = append(elements, Literal(p.text))
		}
	}
	return elements, nil
}

// classifyLegacy turns a bare string from an old index file into an element
func classifyLegacy(value string, counters *CounterStore) Element {
	switch {
	case value == legacySpace:
		return Space()
	case IsBuiltinToken(value), counters != nil && counters.Exists(value):
		return Token(value)
	default:
		return Literal(value)
	}
}

func escapeBraces(s string) string {
	if !strings.ContainsAny(s, "{}") {
		return s
	}
	s = strings.ReplaceAll(s, "{", "{{")
	return strings.ReplaceAll(s, "}", "}}")
}

// templatePart is a scanned piece of a template
type templatePart struct {
	text  string
	token bool
}

// scanTemplate tokenizes a template. "{{" and "}}" are literal braces.
func scanTemplate(template string) ([]templatePart, error) {
	var parts []templatePart
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, templatePart{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(template); i++ {
		ch := template[i]
		switch ch {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexAny(template[i+1:], "{}")
			if end < 0 || template[i+1+end] != '}' {
				return nil, &MalformedTemplateError{Template: template, Offset: i, Reason: "unclosed '{'"}
			}
			name := template[i+1 : i+1+end]
			if name == "" {
				return nil, &MalformedTemplateError{Template: template, Offset: i, Reason: "empty token name"}
			}
			flush()
			parts = append(parts, templatePart{text: name, token: true})
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, &MalformedTemplateError{Template: template, Offset: i, Reason: "single '}' encountered"}
		default:
			lit.WriteByte(ch)
		}
	}
	flush()
	return parts, nil
}
