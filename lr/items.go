package lr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/npillmayer/slrgen/lr/iteratable"
	"github.com/zeebo/xxh3"
)

// Item is an LR(0) item, i.e. a rule together with a position ("dot") within
// its right hand side:
//
//     C ➞ c • C
//
// Dot 0 denotes an item at the start of a rule, dot == rule.Len() a completed item.
// Items are values and may be compared with ==.
type Item struct {
	rule *Rule
	dot  int
}

// StartItem returns the item with the dot in front of the right hand side of
// rule r, together with the symbol after the dot (nil for ε-rules).
func StartItem(r *Rule) (Item, *Symbol) {
	if r == nil {
		tracer().Errorf("cannot create start item for nil rule")
		return Item{}, nil
	}
	i := Item{rule: r, dot: 0}
	return i, i.PeekSymbol()
}

// Rule returns the rule of an item.
func (i Item) Rule() *Rule {
	return i.rule
}

// Dot returns the position of the dot.
func (i Item) Dot() int {
	return i.dot
}

// PeekSymbol returns the symbol after the dot, or nil for completed items.
func (i Item) PeekSymbol() *Symbol {
	if i.rule == nil || i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// IsComplete is true if the dot is behind the last symbol of the rule.
func (i Item) IsComplete() bool {
	return i.rule != nil && i.dot >= len(i.rule.rhs)
}

// Advance moves the dot one symbol to the right. Advancing a completed item is
// a no-op.
func (i Item) Advance() Item {
	if i.IsComplete() {
		return i
	}
	return Item{rule: i.rule, dot: i.dot + 1}
}

// Prefix returns the symbols in front of the dot.
func (i Item) Prefix() []*Symbol {
	if i.rule == nil {
		return nil
	}
	return append([]*Symbol(nil), i.rule.rhs[:i.dot]...)
}

func (i Item) String() string {
	if i.rule == nil {
		return "<no item>"
	}
	return fmt.Sprintf("%v ➞ %s", i.rule.LHS, rhsString(i.rule.rhs, i.dot))
}

func asItem(x interface{}) Item {
	return x.(Item)
}

func itemLess(x, y interface{}) bool {
	i1, i2 := asItem(x), asItem(y)
	if i1.rule.Serial != i2.rule.Serial {
		return i1.rule.Serial < i2.rule.Serial
	}
	return i1.dot < i2.dot
}

func newItemSet() *iteratable.Set {
	return iteratable.NewSet(8)
}

// sortedItems returns the items of an item set, ordered by rule serial and dot.
func sortedItems(S *iteratable.Set) []Item {
	vals := S.Values()
	sort.Slice(vals, func(i, j int) bool { return itemLess(vals[i], vals[j]) })
	items := make([]Item, len(vals))
	for k, x := range vals {
		items[k] = asItem(x)
	}
	return items
}

// itemSetKey computes a fingerprint for an item set, independent of the
// insertion order of the items. Equal sets have equal keys; sets with equal keys
// still have to be compared item by item.
func itemSetKey(S *iteratable.Set) uint64 {
	items := sortedItems(S)
	buf := make([]byte, 0, len(items)*2*binary.MaxVarintLen32)
	for _, i := range items {
		buf = binary.AppendUvarint(buf, uint64(i.rule.Serial))
		buf = binary.AppendUvarint(buf, uint64(i.dot))
	}
	return xxh3.Hash(buf)
}

// Dump is a debugging helper, writing an item set to the tracer.
func Dump(S *iteratable.Set) {
	for _, i := range sortedItems(S) {
		tracer().Debugf("    %s", i)
	}
}

func itemSetString(S *iteratable.Set) string {
	var b bytes.Buffer
	b.WriteString("{")
	for k, item := range sortedItems(S) {
		if k == 0 {
			b.WriteString(" ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(item.String())
	}
	b.WriteString(" }")
	return b.String()
}
