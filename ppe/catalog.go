package ppe

// =============================================================================
// CATALOG - Static reference table of issuable items
// =============================================================================

// Catalog is a read-only lookup over catalog items.
type Catalog struct {
	items []CatalogItem
}

// NewCatalog builds a catalog from items. Items are copied.
func NewCatalog(items []CatalogItem) *Catalog {
	c := &Catalog{items: make([]CatalogItem, len(items))}
	for i, it := range items {
		c.items[i] = cloneItem(it)
	}
	return c
}

// DefaultCatalog returns the built-in fleet catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultItems)
}

// Items returns every item in catalog order.
func (c *Catalog) Items() []CatalogItem {
	out := make([]CatalogItem, len(c.items))
	for i, it := range c.items {
		out[i] = cloneItem(it)
	}
	return out
}

// ItemsIn returns the items of one category in catalog order.
func (c *Catalog) ItemsIn(category Category) []CatalogItem {
	var out []CatalogItem
	for _, it := range c.items {
		if it.Category == category {
			out = append(out, cloneItem(it))
		}
	}
	return out
}

// Find looks up an item by category and display name.
func (c *Catalog) Find(category Category, name string) (CatalogItem, error) {
	for _, it := range c.items {
		if it.Category == category && it.Name == name {
			return cloneItem(it), nil
		}
	}
	return CatalogItem{}, ErrUnknownItem
}

func cloneItem(it CatalogItem) CatalogItem {
	it.Sizes = append([]string(nil), it.Sizes...)
	if it.Colors != nil {
		it.Colors = append([]string(nil), it.Colors...)
	}
	return it
}

var defaultItems = []CatalogItem{
	{ID: "h1", Category: CategoryHead, Name: "Hard Hat", Sizes: []string{"Standard", "Large"}, Colors: []string{"White", "Yellow", "Blue", "Red"}},
	{ID: "h2", Category: CategoryHead, Name: "Balaclava", Sizes: []string{"Universal"}, Colors: []string{"Black", "Navy"}},

	{ID: "e1", Category: CategoryEyeFace, Name: "Safety Glasses", Sizes: []string{"Standard", "Over-spec"}, Colors: []string{"Clear", "Tinted"}},
	{ID: "e2", Category: CategoryEyeFace, Name: "Safety Goggles", Sizes: []string{"Standard"}, Colors: []string{"Clear"}},
	{ID: "e3", Category: CategoryEyeFace, Name: "Face Shield", Sizes: []string{"Full"}, Colors: []string{"Clear"}},

	{ID: "he1", Category: CategoryHearing, Name: "Ear Plugs", Sizes: []string{"Universal"}, Colors: []string{"Orange", "Green"}},
	{ID: "he2", Category: CategoryHearing, Name: "Ear Muffs", Sizes: []string{"Standard"}, Colors: []string{"Red", "Yellow"}},

	{ID: "r1", Category: CategoryRespiratory, Name: "N95 Mask", Sizes: []string{"S", "M", "L"}, Colors: []string{"White"}},
	{ID: "r2", Category: CategoryRespiratory, Name: "Half-Face Respirator", Sizes: []string{"M", "L"}, Colors: []string{"Grey"}},
	{ID: "r3", Category: CategoryRespiratory, Name: "SCBA Cylinder", Sizes: []string{"6L", "9L"}, Colors: []string{"Yellow"}},

	{ID: "ha1", Category: CategoryHand, Name: "Nitrile Gloves", Sizes: []string{"S", "M", "L", "XL"}, Colors: []string{"Blue"}},
	{ID: "ha2", Category: CategoryHand, Name: "Leather Gloves", Sizes: []string{"M", "L", "XL"}, Colors: []string{"Yellow", "Tan"}},
	{ID: "ha3", Category: CategoryHand, Name: "Impact Gloves", Sizes: []string{"M", "L", "XL"}, Colors: []string{"High-Viz Orange"}},
	{ID: "ha4", Category: CategoryHand, Name: "Chemical Resistant Gloves", Sizes: []string{"L", "XL"}, Colors: []string{"Green"}},

	{ID: "b1", Category: CategoryBody, Name: "Cotton Coveralls", Sizes: []string{"38", "40", "42", "44", "46", "48"}, Colors: []string{"Navy", "Orange"}},
	{ID: "b2", Category: CategoryBody, Name: "Flame Retardant Coveralls", Sizes: []string{"38", "40", "42", "44", "46", "48"}, Colors: []string{"Red"}},
	{ID: "b3", Category: CategoryBody, Name: "Rain Suit", Sizes: []string{"M", "L", "XL"}, Colors: []string{"Yellow"}},
	{ID: "b4", Category: CategoryBody, Name: "Life Jacket", Sizes: []string{"Universal"}, Colors: []string{"Orange"}},

	{ID: "f1", Category: CategoryFoot, Name: "Safety Boots (Steel Toe)", Sizes: []string{"7", "8", "9", "10", "11", "12"}, Colors: []string{"Black", "Brown"}},
	{ID: "f2", Category: CategoryFoot, Name: "Rubber Deck Boots", Sizes: []string{"8", "9", "10", "11"}, Colors: []string{"Yellow", "Blue"}},

	{ID: "fl1", Category: CategoryFall, Name: "Full Body Harness", Sizes: []string{"Standard", "XL"}, Colors: []string{"Yellow/Black"}},
	{ID: "fl2", Category: CategoryFall, Name: "Lanyard with Shock Absorber", Sizes: []string{"2m"}, Colors: []string{"White/Red"}},
}
