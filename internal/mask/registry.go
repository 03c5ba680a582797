package mask

import (
	"fmt"
	"sort"
	"sync"
)

var (
	layouts   = make(map[Kind]Layout)
	layoutsMu sync.RWMutex
)

func init() {
	Register(Layout{Kind: CPF, Groups: []int{3, 3, 3, 2}, Separators: []string{".", ".", "-"}})
	Register(Layout{Kind: RG, Groups: []int{2, 3, 3, 2}, Separators: []string{".", ".", "-"}})
	Register(Layout{Kind: CNPJ, Groups: []int{2, 3, 3, 4, 2}, Separators: []string{".", ".", "/", "-"}})
}

// Register adds a copy of a layout to the registry.
// Panics if the kind is already registered or the layout is malformed.
func Register(l Layout) {
	if l.Kind == "" {
		panic("mask: layout without kind")
	}
	if len(l.Groups) == 0 || len(l.Separators) != len(l.Groups)-1 {
		panic(fmt.Sprintf("mask: layout %s needs len(Separators) == len(Groups)-1", l.Kind))
	}
	for _, w := range l.Groups {
		if w <= 0 {
			panic(fmt.Sprintf("mask: layout %s has a non-positive group width", l.Kind))
		}
	}

	layoutsMu.Lock()
	defer layoutsMu.Unlock()

	if _, exists := layouts[l.Kind]; exists {
		panic(fmt.Sprintf("mask: layout already registered: %s", l.Kind))
	}
	layouts[l.Kind] = l.clone()
}

// LayoutFor returns a copy of the layout registered for kind.
func LayoutFor(kind Kind) (Layout, bool) {
	layoutsMu.RLock()
	defer layoutsMu.RUnlock()

	l, ok := layouts[kind]
	if !ok {
		return Layout{}, false
	}
	return l.clone(), true
}

// Layouts returns copies of every registered layout sorted by kind.
func Layouts() []Layout {
	layoutsMu.RLock()
	defer layoutsMu.RUnlock()

	result := make([]Layout, 0, len(layouts))
	for _, l := range layouts {
		result = append(result, l.clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})
	return result
}

// Kinds returns the registered kinds sorted by name.
func Kinds() []Kind {
	ls := Layouts()
	kinds := make([]Kind, len(ls))
	for i, l := range ls {
		kinds[i] = l.Kind
	}
	return kinds
}

// clone copies the slices so registry entries are never shared with callers.
func (l Layout) clone() Layout {
	l.Groups = append([]int(nil), l.Groups...)
	l.Separators = append([]string(nil), l.Separators...)
	return l
}
