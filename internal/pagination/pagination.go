// Package pagination computes next/previous page cursors for offset-based
// listings.
package pagination

import "github.com/bhavya257/fast-backend/internal/models"

// Paginate builds the page descriptor for a listing that requested `limit`
// items starting at `offset`, out of `totalItems` matches, and actually
// selected `selectedCount` items (short on the final page).
//
// Next is present iff another page exists. Previous is present iff offset is
// positive, clamped so it never underruns the start or overruns the last
// full page. Total for any offset >= 0, limit > 0, totalItems >= 0 and
// 0 <= selectedCount <= limit.
func Paginate(offset, limit, totalItems, selectedCount int) models.Page {
	page := models.Page{Limit: selectedCount}

	if offset+limit < totalItems {
		next := offset + limit
		page.Next = &next
	}
	if offset > 0 {
		previous := offset - limit
		if last := totalItems - limit; previous > last {
			previous = last
		}
		if previous < 0 {
			previous = 0
		}
		page.Previous = &previous
	}
	return page
}
