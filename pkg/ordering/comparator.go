package ordering

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/itemkit/itemkit/pkg/item"
)

// Comparator builds a single three-way ordering function from an instruction
// list. Instructions are evaluated left to right and the first non-zero
// comparison wins; items tying on every instruction compare as equal. A
// missing metadata value compares as the empty string, so callers that need
// a hard guarantee must validate key presence up front.
func Comparator(instructions []Instruction) func(a, b *item.Item) int {
	return func(a, b *item.Item) int {
		for _, ins := range instructions {
			av, _ := a.Metadata(ins.Key)
			bv, _ := b.Metadata(ins.Key)

			var rel int
			if ins.CaseSensitive {
				rel = strings.Compare(av, bv)
			} else {
				rel = compareFold(av, bv)
			}
			if ins.Descending {
				rel = -rel
			}
			if rel != 0 {
				return rel
			}
		}
		return 0
	}
}

// compareFold is an ordinal-ignore-case three-way comparison: both strings
// are compared rune by rune after upper-casing, with no locale rules
// involved.
func compareFold(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		ar, an := utf8.DecodeRuneInString(a)
		br, bn := utf8.DecodeRuneInString(b)
		a, b = a[an:], b[bn:]

		ar = unicode.ToUpper(ar)
		br = unicode.ToUpper(br)
		if ar != br {
			if ar < br {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) == 0 && len(b) == 0:
		return 0
	case len(a) == 0:
		return -1
	default:
		return 1
	}
}
