package game

import "strings"

// ContentType selects the question-generation strategy for a lesson.
type ContentType int

const (
	// ContentTypeUnknown means the lesson's content_type string was not
	// recognized; generation falls back to mixed mode.
	ContentTypeUnknown ContentType = iota
	// ContentTypeMixed draws question pairs irrespective of category.
	ContentTypeMixed
	// ContentTypeSameCategory builds each pair from images sharing one
	// category.
	ContentTypeSameCategory
	// ContentTypeCombined is half mixed, half same-category, shuffled.
	ContentTypeCombined
)

func (t ContentType) String() string {
	switch t {
	case ContentTypeMixed:
		return "mixed"
	case ContentTypeSameCategory:
		return "same_category"
	case ContentTypeCombined:
		return "combined"
	default:
		return "unknown"
	}
}

var diacritics = strings.NewReplacer(
	"á", "a",
	"é", "e",
	"í", "i",
	"ó", "o",
	"ú", "u",
)

// ParseContentType normalizes a lesson's content_type (lowercase, Spanish
// diacritics folded) and maps the known aliases onto a closed variant.
// Historical content uses several spellings per mode, so all of them are
// accepted.
func ParseContentType(raw string) ContentType {
	s := diacritics.Replace(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case "combinadas", "combinado", "combinada":
		return ContentTypeMixed
	case "enlace de categorias", "enlace de categoria", "enlace_categoria",
		"enlace categoria", "misma_categoria", "misma categoria":
		return ContentTypeSameCategory
	case "mixto":
		return ContentTypeCombined
	default:
		return ContentTypeUnknown
	}
}
