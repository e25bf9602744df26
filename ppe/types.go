/*
Package ppe provides the PPE issuance core: records, the item catalog, the
record store, and the derived views (statistics, search) built on top of it.

PURPOSE:
  Logs personal-protective-equipment issued to crew aboard vessels. Every
  issuance is a Record; the Store keeps them in most-recent-first order and
  persists the whole snapshot as one blob. Statistics and search results are
  recomputed from a snapshot on every read.

KEY CONCEPTS IN THIS FILE (types.go):
  - Category: closed set of PPE categories (head, hand, fall, ...)
  - CatalogItem: an issuable item type with its sizes and color variants
  - Record: one immutable issuance entry

DESIGN PRINCIPLES:
  1. Immutability: Records are never modified after they are minted
  2. Ordering: snapshots are most-recent-first, new records are prepended
  3. Wire compatibility: JSON keys match the persisted blob format exactly

SEE ALSO:
  - catalog.go: Built-in catalog data
  - store.go: Record persistence
  - stats.go: Aggregation
  - search.go: Filter/sort
*/
package ppe

import (
	"time"
)

// =============================================================================
// CATEGORY - Closed set of PPE categories
// =============================================================================

// Category identifies a PPE category. The string value is the wire value
// stored in the categoryId field of a Record.
type Category string

const (
	CategoryHead        Category = "Head Protection"
	CategoryEyeFace     Category = "Eye & Face Protection"
	CategoryHearing     Category = "Hearing Protection"
	CategoryRespiratory Category = "Respiratory Protection"
	CategoryHand        Category = "Hand Protection"
	CategoryBody        Category = "Body Protection"
	CategoryFoot        Category = "Foot Protection"
	CategoryFall        Category = "Fall Protection"
)

var categories = []Category{
	CategoryHead,
	CategoryEyeFace,
	CategoryHearing,
	CategoryRespiratory,
	CategoryHand,
	CategoryBody,
	CategoryFoot,
	CategoryFall,
}

// Categories returns all categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// =============================================================================
// CATALOG ITEM
// =============================================================================

// CatalogItem describes an issuable item type.
type CatalogItem struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Name     string   `json:"name"`
	Sizes    []string `json:"sizes"`
	Colors   []string `json:"colors,omitempty"`
}

// HasSize reports whether size is an allowed size label.
func (i CatalogItem) HasSize(size string) bool {
	return contains(i.Sizes, size)
}

// HasColor reports whether color is allowed. Items without color variants
// only accept NoColor.
func (i CatalogItem) HasColor(color string) bool {
	if len(i.Colors) == 0 {
		return color == NoColor
	}
	return contains(i.Colors, color)
}

// DefaultColor is the color preselected for the item.
func (i CatalogItem) DefaultColor() string {
	if len(i.Colors) == 0 {
		return NoColor
	}
	return i.Colors[0]
}

// NoColor is recorded for items that have no color variants.
const NoColor = "N/A"

// =============================================================================
// RECORD - One logged issuance
// =============================================================================

// DateLayout is the layout of Record.Date.
const DateLayout = "2006-01-02"

// Record is one issuance of a PPE item to a person on a vessel.
// Records are immutable once created.
type Record struct {
	ID            string   `json:"id"`
	VesselName    string   `json:"vesselName"`
	RequestorName string   `json:"requestorName"`
	Date          string   `json:"date"`
	Category      Category `json:"categoryId"`
	ItemName      string   `json:"itemName"`
	Size          string   `json:"size"`
	Color         string   `json:"color"`
	Quantity      int      `json:"quantity"`
	Verified      bool     `json:"isVerified"`
	Timestamp     int64    `json:"timestamp"` // unix milliseconds
}

// CreatedAt returns the creation timestamp as a time.Time.
func (r Record) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// checkAcceptable enforces the preconditions the Store applies on append.
func (r Record) checkAcceptable() error {
	switch {
	case r.ID == "":
		return ErrMissingID
	case !r.Verified:
		return ErrUnverified
	case r.Quantity < 1:
		return ErrInvalidQuantity
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
