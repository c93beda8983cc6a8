package domain

import (
	"errors"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var ErrInvalidSortOrder = errors.New("unknown sort order")

// SortOrder is a catalog listing order
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortNameAsc   SortOrder = "az"
	SortNameDesc  SortOrder = "za"
)

// ParseSortOrder validates a client supplied order
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case SortNone, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return o, nil
	default:
		return SortNone, ErrInvalidSortOrder
	}
}

// SortProducts orders products in place. Names compare with Spanish collation
// so accented names land next to their unaccented neighbours.
func SortProducts(products []Product, order SortOrder) {
	switch order {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case SortNameAsc, SortNameDesc:
		c := collate.New(language.Spanish, collate.IgnoreCase)
		sort.SliceStable(products, func(i, j int) bool {
			cmp := c.CompareString(products[i].Name, products[j].Name)
			if order == SortNameDesc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
}
