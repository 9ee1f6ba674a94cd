// Package catalog filters and orders product lists for the storefront and the vendor inventory.
// Every function is pure: inputs are never modified.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/angelmondragon/marketplace-backend/internal/products"
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

// Storefront sort keys.
const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

// Inventory sort keys.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// Query keeps products whose name or description contains searchTerm (case-insensitive) and that
// carry category, then orders them by sortKey. Unknown sort keys keep input order.
func Query(items []products.Product, searchTerm, category, sortKey string) []products.Product {
	out := filter(items, searchTerm, category, func(p products.Product) []string {
		return []string{p.Name, p.Description}
	})
	switch sortKey {
	case SortName:
		byName(out)
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	}
	return out
}

// QueryInventory is the vendor listing variant: it searches name and subheading, treats an empty
// category as all, and orders by upload date.
func QueryInventory(items []products.Product, searchTerm, category, sortKey string) []products.Product {
	if category == "" {
		category = CategoryAll
	}
	out := filter(items, searchTerm, category, func(p products.Product) []string {
		return []string{p.Name, p.Subheading}
	})
	switch sortKey {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].UploadDate > out[j].UploadDate })
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].UploadDate < out[j].UploadDate })
	}
	return out
}

// byName orders like a browser's localeCompare: case and accents only break ties, so "apple"
// precedes "Banana". A Collator is not safe for concurrent use, hence one per call.
func byName(items []products.Product) {
	coll := collate.New(language.English)
	sort.SliceStable(items, func(i, j int) bool {
		if c := coll.CompareString(items[i].Name, items[j].Name); c != 0 {
			return c < 0
		}
		return items[i].Name < items[j].Name
	})
}

func filter(items []products.Product, searchTerm, category string, fields func(products.Product) []string) []products.Product {
	term := strings.ToLower(searchTerm)
	out := make([]products.Product, 0, len(items))
	for _, p := range items {
		if category != CategoryAll && !p.HasCategory(category) {
			continue
		}
		if !matches(fields(p), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(fields []string, term string) bool {
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
