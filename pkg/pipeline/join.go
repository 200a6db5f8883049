package pipeline

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/itemkit/itemkit/pkg/item"
)

// GroupJoinDelimiter separates the aggregated metadata values produced by a
// group-join.
const GroupJoinDelimiter = ";"

// JoinSpec configures one join call. The zero value joins both sides on the
// identity pseudo-key with no exclusions in equi-join mode.
type JoinSpec struct {
	// LeftKey is the metadata name matched on the left side. Empty means
	// the identity pseudo-key.
	LeftKey string
	// RightKey is the metadata name matched on the right side. Empty means
	// the identity pseudo-key.
	RightKey string
	// Exclude holds metadata names never copied from matched right items.
	// Matching is an exact string comparison.
	Exclude sets.Set[string]
	// Group selects group-join mode: one output item per left item,
	// aggregating all matches, instead of one output item per matching
	// pair.
	Group bool
}

func (s JoinSpec) withDefaults() JoinSpec {
	if s.LeftKey == "" {
		s.LeftKey = item.IdentityName
	}
	if s.RightKey == "" {
		s.RightKey = item.IdentityName
	}
	return s
}

// Join matches items of the left and right collections on the configured
// keys. In equi-join mode it emits one item per matching pair, left items
// without a match contributing nothing; in group-join mode it emits exactly
// one item per left item, folding the matches' metadata values into
// delimiter-joined strings. Either side missing the configured key on any
// item aborts the whole join with a nil collection.
func (e *Engine) Join(left, right []*item.Item, spec JoinSpec) ([]*item.Item, error) {
	spec = spec.withDefaults()

	if err := validateJoinKey(left, spec.LeftKey, "left"); err != nil {
		e.log.Error(err, "join failed")
		return nil, err
	}
	if err := validateJoinKey(right, spec.RightKey, "right"); err != nil {
		e.log.Error(err, "join failed")
		return nil, err
	}

	e.log.V(1).Info("joining", "left", len(left), "right", len(right),
		"leftKey", spec.LeftKey, "rightKey", spec.RightKey, "group", spec.Group)

	if spec.Group {
		return e.groupJoin(left, right, spec), nil
	}
	return e.equiJoin(left, right, spec), nil
}

// validateJoinKey checks that every item of one side carries the join key.
func validateJoinKey(items []*item.Item, key, side string) error {
	for _, it := range items {
		if !it.HasMetadata(key) {
			return NewMissingJoinKeyError(side, key)
		}
	}
	return nil
}

// equiJoin emits one item per (left, right) pair with equal join key values,
// left items in original order and, per left item, matches in original right
// order. The output item keeps the left item's identity and metadata,
// overlaid with the match's non-excluded metadata; the right side wins on
// name collision.
func (e *Engine) equiJoin(left, right []*item.Item, spec JoinSpec) []*item.Item {
	out := []*item.Item{}
	for _, l := range left {
		lv, _ := l.Metadata(spec.LeftKey)
		for _, r := range right {
			rv, _ := r.Metadata(spec.RightKey)
			if rv != lv {
				continue
			}
			merged := l.DeepCopy()
			overlayMetadata(merged, r, spec.Exclude)
			out = append(out, merged)
		}
	}
	return out
}

// groupJoin emits exactly one item per left item, in left order. All right
// items with a matching key value contribute their non-excluded metadata:
// per metadata name, in first-seen order across the matches, the values are
// collected in match order and joined with GroupJoinDelimiter. A left item
// with no matches passes through with its metadata unchanged.
func (e *Engine) groupJoin(left, right []*item.Item, spec JoinSpec) []*item.Item {
	out := make([]*item.Item, 0, len(left))
	for _, l := range left {
		lv, _ := l.Metadata(spec.LeftKey)
		merged := l.DeepCopy()

		// names holds first-seen spellings in first-seen order, values the
		// per-name value lists in match order, keyed by canonical name.
		names := []string{}
		values := map[string][]string{}
		for _, r := range right {
			rv, _ := r.Metadata(spec.RightKey)
			if rv != lv {
				continue
			}
			for _, name := range r.Names() {
				if excluded(spec.Exclude, name) {
					continue
				}
				v, _ := r.Metadata(name)
				canonical := item.CanonicalName(name)
				if _, ok := values[canonical]; !ok {
					names = append(names, name)
				}
				values[canonical] = append(values[canonical], v)
			}
		}

		for _, name := range names {
			vs := values[item.CanonicalName(name)]
			merged.SetMetadata(name, strings.Join(vs, GroupJoinDelimiter))
		}
		out = append(out, merged)
	}
	return out
}

// overlayMetadata copies the source item's non-excluded metadata onto the
// destination, replacing colliding names.
func overlayMetadata(dst, src *item.Item, exclude sets.Set[string]) {
	for _, name := range src.Names() {
		if excluded(exclude, name) {
			continue
		}
		v, _ := src.Metadata(name)
		dst.SetMetadata(name, v)
	}
}

func excluded(exclude sets.Set[string], name string) bool {
	return len(exclude) > 0 && exclude.Has(name)
}
