package repositorycache

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// defaultKind derives the key namespace from T: Project becomes "projects",
// SkillCategory becomes "skill_categories".
func defaultKind[T any]() string {
	words := splitWords(reflect.TypeOf((*T)(nil)).Elem().Name())
	if len(words) == 0 {
		return "resources"
	}

	last := len(words) - 1
	words[last] = inflection.Plural(words[last])
	return strings.Join(words, "_")
}

// splitWords breaks a Go identifier into lower-case words. Acronyms stay
// whole (HTTPRoute is "http", "route") and a run of digits is its own word.
// Any other rune, like the brackets of an instantiated generic, separates words.
func splitWords(name string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if len(cur) > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if !unicode.IsUpper(prev) || nextLower {
					flush()
				}
			}
			cur = append(cur, r)
		case unicode.IsLower(r):
			if len(cur) > 0 && unicode.IsDigit(runes[i-1]) {
				flush()
			}
			cur = append(cur, r)
		case unicode.IsDigit(r):
			if len(cur) > 0 && !unicode.IsDigit(runes[i-1]) {
				flush()
			}
			cur = append(cur, r)
		default:
			flush()
		}
	}
	flush()
	return words
}
