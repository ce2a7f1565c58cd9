package application

import "picqer/internal/domain"

// ElementKind values accepted by AddElement-style operations
const (
	KindToken   = "token"
	KindCounter = "counter"
	KindLiteral = "literal"
	KindSpace   = "space"
)

// ParseElement builds a pattern element from a front-end kind and value.
// Token and counter kinds both become references; validity is checked at render time.
func ParseElement(kind, value string) (domain.Element, error) {
	switch kind {
	case KindToken, KindCounter:
		if err := ValidateRequired("name", value); err != nil {
			return domain.Element{}, err
		}
		return domain.Token(value), nil
	case KindLiteral:
		if value == "" {
			return domain.Element{}, &ValidationError{Field: "text", Message: "text is required"}
		}
		return domain.Literal(value), nil
	case KindSpace:
		return domain.Space(), nil
	default:
		return domain.Element{}, &ValidationError{
			Field:   "kind",
			Message: "expected token, counter, literal or space, got: " + kind,
		}
	}
}
