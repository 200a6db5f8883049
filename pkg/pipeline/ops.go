package pipeline

import (
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/itemkit/itemkit/pkg/item"
)

// Op is one declarative pipeline operation. Exactly one of the fields must
// be set.
type Op struct {
	Sort *SortOp `json:"sort,omitempty"`
	Join *JoinOp `json:"join,omitempty"`
}

// SortOp is the declarative form of a sort call.
type SortOp struct {
	// OrderBy holds the raw order-by directives.
	OrderBy []string `json:"orderBy,omitempty"`
}

// JoinOp is the declarative form of a join call. The current collection is
// the left side; With names the auxiliary collection used as the right side.
type JoinOp struct {
	With     string   `json:"with"`
	LeftKey  string   `json:"leftKey,omitempty"`
	RightKey string   `json:"rightKey,omitempty"`
	Exclude  []string `json:"exclude,omitempty"`
	Group    bool     `json:"group,omitempty"`
}

func (o *JoinOp) spec() JoinSpec {
	return JoinSpec{
		LeftKey:  o.LeftKey,
		RightKey: o.RightKey,
		Exclude:  sets.New(o.Exclude...),
		Group:    o.Group,
	}
}

// Pipeline is an ordered list of operations applied sequentially to a
// collection.
type Pipeline []Op

// Run applies the pipeline to a collection. Joins take their right side from
// the named auxiliary collection. A failing op aborts the pipeline with a
// nil collection; non-fatal errors (dropped order directives) are collected
// and joined into the returned error while execution continues.
func (e *Engine) Run(p Pipeline, items []*item.Item, collections map[string][]*item.Item) ([]*item.Item, error) {
	softErrs := []error{}
	for i, op := range p {
		switch {
		case op.Sort != nil && op.Join == nil:
			sorted, err := e.Sort(items, op.Sort.OrderBy)
			if sorted == nil && err != nil {
				return nil, errors.Join(append(softErrs, err)...)
			}
			if err != nil {
				softErrs = append(softErrs, err)
			}
			items = sorted

		case op.Join != nil && op.Sort == nil:
			right, ok := collections[op.Join.With]
			if !ok {
				err := NewInvalidOpError(i, fmt.Sprintf("unknown collection %q", op.Join.With))
				return nil, errors.Join(append(softErrs, err)...)
			}
			joined, err := e.Join(items, right, op.Join.spec())
			if err != nil {
				return nil, errors.Join(append(softErrs, err)...)
			}
			items = joined

		default:
			err := NewInvalidOpError(i, "exactly one of sort or join must be set")
			return nil, errors.Join(append(softErrs, err)...)
		}
	}
	return items, errors.Join(softErrs...)
}
