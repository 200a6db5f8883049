// Package pipeline implements the relational operators over item
// collections: a multi-key sort driven by order-by directives, and
// equi-join/group-join across two collections with metadata merge and
// exclusion rules. Operators are pure: every call takes fully materialized
// input, returns a fresh output collection, and keeps no state behind.
package pipeline

import (
	"errors"
	"sort"

	"github.com/go-logr/logr"

	"github.com/itemkit/itemkit/pkg/item"
	"github.com/itemkit/itemkit/pkg/ordering"
)

// Engine runs relational operators over item collections. It carries only a
// logger; all per-call state lives on the stack.
type Engine struct {
	log logr.Logger
}

// NewEngine creates an engine logging through the given logger.
func NewEngine(log logr.Logger) *Engine {
	return &Engine{log: log}
}

// Sort orders a collection by the given order-by directives. The input is
// never mutated. Malformed directives are dropped and surfaced in the
// returned error while sorting proceeds with the rest; duplicate keys or
// items missing an ordered-by key abort the whole sort with a nil
// collection. Items tying on every instruction may come back in any relative
// order.
func (e *Engine) Sort(items []*item.Item, directives []string) ([]*item.Item, error) {
	if len(items) == 0 {
		return []*item.Item{}, nil
	}

	instructions, parseErrs := ordering.Parse(directives)
	for _, err := range parseErrs {
		e.log.Error(err, "dropping order directive")
	}

	if err := ordering.Validate(instructions); err != nil {
		e.log.Error(err, "sort failed")
		return nil, errors.Join(append(parseErrs, err)...)
	}
	if err := validateSortKeys(items, instructions); err != nil {
		e.log.Error(err, "sort failed")
		return nil, errors.Join(append(parseErrs, err)...)
	}

	e.log.V(1).Info("sorting", "items", len(items), "instructions", len(instructions))

	sorted := make([]*item.Item, len(items))
	copy(sorted, items)
	compare := ordering.Comparator(instructions)
	sort.Slice(sorted, func(i, j int) bool {
		return compare(sorted[i], sorted[j]) < 0
	})

	return sorted, errors.Join(parseErrs...)
}

// validateSortKeys checks that every item carries metadata for every
// instruction key. Keys are checked in instruction order and the first
// offending key is reported together with the number of items lacking it.
func validateSortKeys(items []*item.Item, instructions []ordering.Instruction) error {
	for _, ins := range instructions {
		missing := 0
		for _, it := range items {
			if !it.HasMetadata(ins.Key) {
				missing++
			}
		}
		if missing > 0 {
			return NewMissingSortKeyError(ins.Key, missing)
		}
	}
	return nil
}
