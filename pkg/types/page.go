// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// DefaultPageLimit is the limit of a zero-offset default page.
const DefaultPageLimit = 100

// Page is an offset/limit window over identifiers in insertion order.
type Page struct {
	Offset uint64
	Limit  uint64
}

// DefaultPage returns the first page with the default limit.
func DefaultPage() Page {
	return Page{Limit: DefaultPageLimit}
}

func (p Page) String() string {
	return fmt.Sprintf("(%d:%d)", p.Offset, p.Limit)
}

// Pages enumerates the pages needed to cover total items with the given
// page size. A zero size yields no pages.
func Pages(total, size uint64) []Page {
	if size == 0 || total == 0 {
		return nil
	}
	count := (total + size - 1) / size
	pages := make([]Page, 0, count)
	for i := uint64(0); i < count; i++ {
		pages = append(pages, Page{Offset: i * size, Limit: size})
	}
	return pages
}
