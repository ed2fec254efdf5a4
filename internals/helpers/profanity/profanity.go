// file: internals/helpers/profanity/profanity.go
package profanity

import (
	"regexp"
	"strings"
)

// Checker adalah kontrak penyaring kata kasar yang di-inject ke service.
type Checker interface {
	IsFlagged(text string) bool
}

// Daftar kata tidak pantas (bahasa Indonesia). Immutable setelah init.
var indonesianBadWords = []string{
	"anjing", "bangsat", "tolol", "bodoh", "goblok", "bego",
	"dungu", "idiot", "bajingan", "kampret", "kontol", "memek",
	"ngentot", "jancok", "asu", "babi", "setan",
}

// Filter mencocokkan kata utuh (word boundary), case-insensitive.
type Filter struct {
	re *regexp.Regexp
}

var defaultFilter = newFilter(indonesianBadWords)

// Default mengembalikan filter proses-wide. Dimuat sekali, read-only.
func Default() *Filter { return defaultFilter }

func newFilter(words []string) *Filter {
	escaped := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(strings.ToLower(w))
		if w == "" {
			continue
		}
		escaped = append(escaped, regexp.QuoteMeta(w))
	}
	re := regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)
	return &Filter{re: re}
}

// NewFilter membuat filter dengan wordlist sendiri (dipakai di test).
func NewFilter(words []string) *Filter { return newFilter(words) }

func (f *Filter) IsFlagged(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	return f.re.MatchString(text)
}

// Clean mengganti kata kasar dengan bintang, panjang dipertahankan.
func (f *Filter) Clean(text string) string {
	return f.re.ReplaceAllStringFunc(text, func(m string) string {
		return strings.Repeat("*", len([]rune(m)))
	})
}
