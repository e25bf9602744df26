package ppe_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesselflow/ppe-engine/ppe"
)

func validForm() ppe.IssueForm {
	return ppe.IssueForm{
		VesselName:    "MT OCEAN VOYAGER",
		RequestorName: "John Doe",
		Date:          "2024-03-01",
		Category:      ppe.CategoryHand,
		ItemName:      "Nitrile Gloves",
		Size:          "L",
		Color:         "Blue",
		Quantity:      2,
		Verified:      true,
	}
}

func staticID(id string) ppe.IDFunc {
	return func() string { return id }
}

func TestIssueForm_IssueMintsRecord(t *testing.T) {
	// GIVEN: A complete form
	form := validForm()

	// WHEN: Issuing at a fixed time
	r, err := form.Issue(ppe.DefaultCatalog(), baseTime, staticID("rec-1"))

	// THEN: The record carries the form fields plus id and timestamp
	require.NoError(t, err)
	assert.Equal(t, "rec-1", r.ID)
	assert.Equal(t, "MT OCEAN VOYAGER", r.VesselName)
	assert.Equal(t, ppe.CategoryHand, r.Category)
	assert.Equal(t, 2, r.Quantity)
	assert.True(t, r.Verified)
	assert.Equal(t, baseTime.UnixMilli(), r.Timestamp)
	assert.True(t, r.CreatedAt().Equal(baseTime))
}

func TestIssueForm_Defaults(t *testing.T) {
	// GIVEN: A form without date, size, color or quantity
	form := validForm()
	form.Date = ""
	form.Size = ""
	form.Color = ""
	form.Quantity = 0
	form.VesselName = "  MT SEAFARER  "

	r, err := form.Issue(ppe.DefaultCatalog(), baseTime, staticID("rec-2"))

	// THEN: Defaults come from the clock and the catalog item
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", r.Date)
	assert.Equal(t, "S", r.Size)
	assert.Equal(t, "Blue", r.Color)
	assert.Equal(t, 1, r.Quantity)
	assert.Equal(t, "MT SEAFARER", r.VesselName)
}

func TestIssueForm_NoColorItem(t *testing.T) {
	catalog := ppe.NewCatalog([]ppe.CatalogItem{
		{ID: "x1", Category: ppe.CategoryHead, Name: "Bump Cap", Sizes: []string{"Universal"}},
	})
	form := validForm()
	form.Category = ppe.CategoryHead
	form.ItemName = "Bump Cap"
	form.Size = ""
	form.Color = ""

	r, err := form.Issue(catalog, baseTime, staticID("rec-3"))

	require.NoError(t, err)
	assert.Equal(t, ppe.NoColor, r.Color)

	form.Color = "Red"
	_, err = form.Issue(catalog, baseTime, staticID("rec-4"))
	assert.ErrorIs(t, err, ppe.ErrValidation)
}

func TestIssueForm_ValidationReportsEveryField(t *testing.T) {
	// GIVEN: A form missing names and not verified
	form := validForm()
	form.VesselName = "   "
	form.RequestorName = ""
	form.Verified = false
	form.Date = "01/03/2024"

	// WHEN: Validating
	err := form.Validate(ppe.DefaultCatalog(), baseTime)

	// THEN: One error lists all failing fields
	var verr *ppe.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "vesselName")
	assert.Contains(t, verr.Fields, "requestorName")
	assert.Contains(t, verr.Fields, "isVerified")
	assert.Contains(t, verr.Fields, "date")
	assert.NotContains(t, verr.Fields, "itemName")
	assert.True(t, ppe.IsClientError(err))
}

func TestIssueForm_CatalogChecks(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*ppe.IssueForm)
		field string
	}{
		{"unknown category", func(f *ppe.IssueForm) { f.Category = "Space Protection" }, "categoryId"},
		{"missing item", func(f *ppe.IssueForm) { f.ItemName = "" }, "itemName"},
		{"item in other category", func(f *ppe.IssueForm) { f.ItemName = "Hard Hat" }, "itemName"},
		{"bad size", func(f *ppe.IssueForm) { f.Size = "XXL" }, "size"},
		{"bad color", func(f *ppe.IssueForm) { f.Color = "Pink" }, "color"},
		{"negative quantity", func(f *ppe.IssueForm) { f.Quantity = -1 }, "quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.edit(&form)

			_, err := form.Issue(ppe.DefaultCatalog(), baseTime, staticID("never"))

			var verr *ppe.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestIssueForm_DefaultIDsAreUnique(t *testing.T) {
	form := validForm()

	a, err := form.Issue(ppe.DefaultCatalog(), baseTime, nil)
	require.NoError(t, err)
	b, err := form.Issue(ppe.DefaultCatalog(), baseTime.Add(time.Second), nil)
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	form := validForm()
	form.VesselName = ""
	form.RequestorName = ""

	err := form.Validate(ppe.DefaultCatalog(), baseTime)

	assert.EqualError(t, err,
		"validation failed: requestorName: requestor name is required; vesselName: vessel name is required")
}
