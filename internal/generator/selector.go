package generator

import "slices"

// VariantMap maps a subcategory label to the variant numbers it allows.
type VariantMap map[string][]int

// SelectVariant picks a variant uniformly from the union of the variants
// mapped by selected. With nothing selected, or when no selected label is
// mapped, it picks uniformly from all.
func (g *Generator) SelectVariant(all []int, selected []string, mapping VariantMap) (int, error) {
	if len(selected) == 0 {
		return Pick(g, all)
	}

	var allowed []int
	for _, sub := range selected {
		for _, v := range mapping[sub] {
			if !slices.Contains(allowed, v) {
				allowed = append(allowed, v)
			}
		}
	}
	if len(allowed) == 0 {
		return Pick(g, all)
	}
	return Pick(g, allowed)
}

func variants(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, v)
	}
	return out
}

func has(subs []string, label string) bool {
	return slices.Contains(subs, label)
}
