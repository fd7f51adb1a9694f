package game

import "testing"

func TestParseContentType(t *testing.T) {
	cases := []struct {
		raw  string
		want ContentType
	}{
		{"combinadas", ContentTypeMixed},
		{"Combinado", ContentTypeMixed},
		{"COMBINADA", ContentTypeMixed},
		{"enlace de categorias", ContentTypeSameCategory},
		{"Enlace de Categoría", ContentTypeSameCategory},
		{"enlace_categoria", ContentTypeSameCategory},
		{"misma categoría", ContentTypeSameCategory},
		{"misma_categoria", ContentTypeSameCategory},
		{"mixto", ContentTypeCombined},
		{"  Mixto  ", ContentTypeCombined},
		{"", ContentTypeUnknown},
		{"flashcards", ContentTypeUnknown},
	}
	for _, tc := range cases {
		if got := ParseContentType(tc.raw); got != tc.want {
			t.Errorf("ParseContentType(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
