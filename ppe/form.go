/*
form.go - Issuance form: validation and record minting

PURPOSE:
  The producing side of the Store contract. IssueForm collects what the crew
  member enters, checks it against the catalog, and mints an immutable Record
  with a fresh id and creation timestamp.

VALIDATION RULES:
  - vessel, requestor, item: required (whitespace-only counts as missing)
  - verified: the quantity must be confirmed
  - quantity: >= 1 (0 means "not given" and defaults to 1)
  - date: YYYY-MM-DD (empty defaults to today)
  - category: one of the fixed categories
  - item/size/color: must exist in the catalog for that category; empty
    size/color fall back to the item's first option

All failing fields are reported together in one ValidationError.
*/
package ppe

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// IssueForm is the raw input for one issuance.
type IssueForm struct {
	VesselName    string   `json:"vesselName"`
	RequestorName string   `json:"requestorName"`
	Date          string   `json:"date,omitempty"`
	Category      Category `json:"categoryId"`
	ItemName      string   `json:"itemName"`
	Size          string   `json:"size,omitempty"`
	Color         string   `json:"color,omitempty"`
	Quantity      int      `json:"quantity,omitempty"`
	Verified      bool     `json:"isVerified"`
}

// IDFunc mints record identifiers.
type IDFunc func() string

// NewRecordID returns a random UUID string.
func NewRecordID() string {
	return uuid.NewString()
}

// normalize trims text fields and applies defaults that depend on now.
func (f IssueForm) normalize(now time.Time) IssueForm {
	f.VesselName = strings.TrimSpace(f.VesselName)
	f.RequestorName = strings.TrimSpace(f.RequestorName)
	f.ItemName = strings.TrimSpace(f.ItemName)
	f.Date = strings.TrimSpace(f.Date)
	if f.Date == "" {
		f.Date = now.Format(DateLayout)
	}
	if f.Quantity == 0 {
		f.Quantity = 1
	}
	return f
}

// Validate checks the form against catalog and returns a *ValidationError
// listing every failing field, or nil.
func (f IssueForm) Validate(catalog *Catalog, now time.Time) error {
	_, err := f.resolve(catalog, now)
	return err
}

func (f IssueForm) resolve(catalog *Catalog, now time.Time) (IssueForm, error) {
	f = f.normalize(now)
	verr := &ValidationError{}

	if f.VesselName == "" {
		verr.add("vesselName", "vessel name is required")
	}
	if f.RequestorName == "" {
		verr.add("requestorName", "requestor name is required")
	}
	if !f.Verified {
		verr.add("isVerified", "quantity must be verified")
	}
	if f.Quantity < 1 {
		verr.add("quantity", "quantity must be at least 1")
	}
	if _, err := time.Parse(DateLayout, f.Date); err != nil {
		verr.add("date", "date must be YYYY-MM-DD")
	}

	switch {
	case !f.Category.Valid():
		verr.add("categoryId", "unknown category")
	case f.ItemName == "":
		verr.add("itemName", "item is required")
	default:
		item, err := catalog.Find(f.Category, f.ItemName)
		if err != nil {
			verr.add("itemName", "item is not in the catalog for this category")
			break
		}
		if f.Size == "" {
			f.Size = item.Sizes[0]
		} else if !item.HasSize(f.Size) {
			verr.add("size", "size is not available for this item")
		}
		if f.Color == "" {
			f.Color = item.DefaultColor()
		} else if !item.HasColor(f.Color) {
			verr.add("color", "color is not available for this item")
		}
	}

	return f, verr.orNil()
}

// Issue validates the form and mints a Record stamped with now.
func (f IssueForm) Issue(catalog *Catalog, now time.Time, newID IDFunc) (Record, error) {
	resolved, err := f.resolve(catalog, now)
	if err != nil {
		return Record{}, err
	}
	if newID == nil {
		newID = NewRecordID
	}
	return Record{
		ID:            newID(),
		VesselName:    resolved.VesselName,
		RequestorName: resolved.RequestorName,
		Date:          resolved.Date,
		Category:      resolved.Category,
		ItemName:      resolved.ItemName,
		Size:          resolved.Size,
		Color:         resolved.Color,
		Quantity:      resolved.Quantity,
		Verified:      resolved.Verified,
		Timestamp:     now.UnixMilli(),
	}, nil
}
