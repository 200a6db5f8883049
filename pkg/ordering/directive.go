// Package ordering parses order-by directives and builds composite
// comparators over items. A directive is a metadata key name optionally
// followed by a whitespace-separated option token:
//
//	Identity        sort by identity, ascending, case-insensitive
//	Size desc       sort by Size, descending, case-insensitive
//	Name c          sort by Name, ascending, case-sensitive
//	Name cdesc      sort by Name, descending, case-sensitive
//
// Option keywords are matched case-insensitively.
package ordering

import (
	"strings"

	"github.com/itemkit/itemkit/pkg/item"
)

// Instruction is one parsed order-by directive. The zero value of the flag
// fields encodes the defaults: ascending, case-insensitive.
type Instruction struct {
	Key           string
	Descending    bool
	CaseSensitive bool
}

// Default returns the instruction substituted for an empty directive list:
// order by identity, ascending, case-insensitive.
func Default() Instruction {
	return Instruction{Key: item.IdentityName}
}

// Parse turns raw directives into instructions. A directive with an
// unrecognized option token is dropped and reported, but never stops the
// remaining directives from being parsed; the returned error slice holds one
// structured error per dropped directive. An empty input yields the single
// default instruction.
func Parse(directives []string) ([]Instruction, []error) {
	if len(directives) == 0 {
		return []Instruction{Default()}, nil
	}

	instructions := make([]Instruction, 0, len(directives))
	errs := []error{}
	for _, raw := range directives {
		ins, err := parseDirective(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		instructions = append(instructions, ins)
	}
	return instructions, errs
}

func parseDirective(raw string) (Instruction, error) {
	fields := strings.Fields(raw)
	switch len(fields) {
	case 0:
		return Instruction{}, NewMalformedOptionError(raw, "")
	case 1:
		return Instruction{Key: fields[0]}, nil
	case 2:
		ins := Instruction{Key: fields[0]}
		option := strings.ToLower(fields[1])
		if strings.HasPrefix(option, "c") {
			ins.CaseSensitive = true
			option = option[1:]
		}
		switch option {
		case "", "asc":
		case "desc":
			ins.Descending = true
		default:
			return Instruction{}, NewMalformedOptionError(raw, fields[1])
		}
		return ins, nil
	default:
		return Instruction{}, NewMalformedOptionError(raw, strings.Join(fields[1:], " "))
	}
}

// Validate checks the instruction-list invariant: key names must be pairwise
// distinct under case-insensitive comparison.
func Validate(instructions []Instruction) error {
	seen := make(map[string]struct{}, len(instructions))
	for _, ins := range instructions {
		canonical := item.CanonicalName(ins.Key)
		if _, ok := seen[canonical]; ok {
			return NewDuplicateKeyError(ins.Key)
		}
		seen[canonical] = struct{}{}
	}
	return nil
}
