package rate

import (
	"maps"
	"slices"

	"github.com/artemshadrunov/currency-api/internal/domain"
)

// CurrencyRules holds the set of currencies that cannot be converted.
type CurrencyRules struct {
	excludedSet map[string]struct{} // read only
	excludedLst []string            // read only
}

func (r *CurrencyRules) IsExcluded(code string) bool {
	code = domain.NormalizeCode(code)
	if code == "" {
		return false
	}
	_, ok := r.excludedSet[code]
	return ok
}

func (r *CurrencyRules) ExcludedCodes() []string {
	return slices.Clone(r.excludedLst)
}

func NewCurrencyRules(excluded []string) *CurrencyRules {
	set := make(map[string]struct{}, len(excluded))
	for _, code := range excluded {
		if code = domain.NormalizeCode(code); code != "" {
			set[code] = struct{}{}
		}
	}
	lst := slices.Sorted(maps.Keys(set))

	return &CurrencyRules{
		excludedSet: set,
		excludedLst: lst,
	}
}
