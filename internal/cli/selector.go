package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Selector picks a subset of options and returns their indices in the order
// the options were given.
type Selector interface {
	Select(title string, options []string) ([]int, error)
}

// StaticSelector selects without asking: either every option or a fixed list
// of indices.
type StaticSelector struct {
	All     bool
	Indices []int
}

func (s StaticSelector) Select(title string, options []string) ([]int, error) {
	if s.All {
		all := make([]int, len(options))
		for i := range options {
			all[i] = i
		}
		return all, nil
	}

	seen := make(map[int]bool, len(s.Indices))
	picked := make([]int, 0, len(s.Indices))
	for _, i := range s.Indices {
		if i < 0 || i >= len(options) {
			return nil, userErrorf("selection index %d out of range (0-%d)", i, len(options)-1)
		}
		if !seen[i] {
			seen[i] = true
			picked = append(picked, i)
		}
	}
	sort.Ints(picked)
	return picked, nil
}

// ParseIndices parses a comma-separated index list such as "0,2".
func ParseIndices(s string) ([]int, error) {
	var indices []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil || i < 0 {
			return nil, userErrorf("invalid selection %q: expected comma-separated indices like 0,2", s)
		}
		indices = append(indices, i)
	}
	if len(indices) == 0 {
		return nil, userErrorf("empty selection: expected comma-separated indices like 0,2")
	}
	return indices, nil
}

// selectPaths asks sel to choose among paths and maps the indices back to
// paths, keeping their discovery order.
func selectPaths(sel Selector, title string, paths []string) ([]string, error) {
	indices, err := sel.Select(title, paths)
	if err != nil {
		return nil, err
	}
	chosen := make([]string, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(paths) {
			return nil, fmt.Errorf("selector returned invalid index %d", i)
		}
		chosen = append(chosen, paths[i])
	}
	return chosen, nil
}
