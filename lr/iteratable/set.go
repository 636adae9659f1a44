package iteratable

import "sort"

// Set is a set of comparable values which remembers insertion order.
// Iteration (IterateOnce/Next/Item) runs over the set's items in that order and
// will visit items which are added during an ongoing iteration. This makes
// fixpoint constructions like
//
//     S.IterateOnce()
//     for S.Next() {
//         S.Union(successorsOf(S.Item()))
//     }
//
// straightforward to write.
//
// Items must be usable as map keys.
type Set struct {
	items  []interface{}
	index  map[interface{}]int
	cursor int
}

// NewSet creates an empty set with an initial capacity.
func NewSet(capacity int) *Set {
	if capacity < 0 {
		capacity = 0
	}
	return &Set{
		items:  make([]interface{}, 0, capacity),
		index:  make(map[interface{}]int, capacity),
		cursor: -1,
	}
}

func (s *Set) lazyInit() {
	if s.index == nil {
		s.index = make(map[interface{}]int)
		s.cursor = -1
	}
}

// Add adds an item to the set. It returns false if the item has already been
// present.
func (s *Set) Add(x interface{}) bool {
	s.lazyInit()
	if _, ok := s.index[x]; ok {
		return false
	}
	s.index[x] = len(s.items)
	s.items = append(s.items, x)
	return true
}

// Remove removes an item from the set. Removing items during an iteration
// invalidates the iteration.
func (s *Set) Remove(x interface{}) {
	if s == nil || s.index == nil {
		return
	}
	at, ok := s.index[x]
	if !ok {
		return
	}
	delete(s.index, x)
	s.items = append(s.items[:at], s.items[at+1:]...)
	for i := at; i < len(s.items); i++ {
		s.index[s.items[i]] = i
	}
}

// Contains checks if an item is contained in s.
func (s *Set) Contains(x interface{}) bool {
	if s == nil || s.index == nil {
		return false
	}
	_, ok := s.index[x]
	return ok
}

// Size returns the number of items in s.
func (s *Set) Size() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Empty is a predicate for Size() == 0.
func (s *Set) Empty() bool {
	return s.Size() == 0
}

// Values returns the items of s as a slice, in insertion order.
// The slice is a copy.
func (s *Set) Values() []interface{} {
	if s == nil {
		return nil
	}
	v := make([]interface{}, len(s.items))
	copy(v, s.items)
	return v
}

// Copy creates a shallow copy of s.
func (s *Set) Copy() *Set {
	c := NewSet(s.Size())
	if s != nil {
		for _, x := range s.items {
			c.Add(x)
		}
	}
	return c
}

// Union adds all items of other to s. Destructive!
func (s *Set) Union(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, x := range other.items {
		s.Add(x)
	}
	return s
}

// Difference removes all items of other from s. Destructive!
func (s *Set) Difference(other *Set) *Set {
	if other == nil || other.Empty() || s.Empty() {
		return s
	}
	kept := make([]interface{}, 0, len(s.items))
	for _, x := range s.items {
		if !other.Contains(x) {
			kept = append(kept, x)
		}
	}
	s.reset(kept)
	return s
}

// Intersection removes all items from s which are not contained in other. Destructive!
func (s *Set) Intersection(other *Set) *Set {
	if s.Empty() {
		return s
	}
	kept := make([]interface{}, 0, len(s.items))
	for _, x := range s.items {
		if other.Contains(x) {
			kept = append(kept, x)
		}
	}
	s.reset(kept)
	return s
}

// Subset is a predicate: is s ⊆ other?
func (s *Set) Subset(other *Set) bool {
	if s == nil {
		return true
	}
	if s.Size() > other.Size() {
		return false
	}
	for _, x := range s.items {
		if !other.Contains(x) {
			return false
		}
	}
	return true
}

// Equals is a predicate: do s and other contain the same items?
// Insertion order is irrelevant.
func (s *Set) Equals(other *Set) bool {
	return s.Size() == other.Size() && s.Subset(other)
}

// Sort re-orders the items of s. This affects iteration order and Values().
func (s *Set) Sort(less func(x, y interface{}) bool) {
	if s.Empty() {
		return
	}
	sort.SliceStable(s.items, func(i, j int) bool {
		return less(s.items[i], s.items[j])
	})
	for i, x := range s.items {
		s.index[x] = i
	}
}

func (s *Set) reset(items []interface{}) {
	s.items = items
	s.index = make(map[interface{}]int, len(items))
	for i, x := range items {
		s.index[x] = i
	}
	s.cursor = -1
}

// --- Iteration -------------------------------------------------------------

// IterateOnce starts an iteration over the items of s.
func (s *Set) IterateOnce() {
	s.lazyInit()
	s.cursor = -1
}

// Next advances the iteration. It returns false if all items have been visited.
func (s *Set) Next() bool {
	if s == nil {
		return false
	}
	if s.cursor < len(s.items) {
		s.cursor++
	}
	return s.cursor < len(s.items)
}

// Item returns the current item of an iteration.
func (s *Set) Item() interface{} {
	if s == nil || s.cursor < 0 || s.cursor >= len(s.items) {
		return nil
	}
	return s.items[s.cursor]
}
