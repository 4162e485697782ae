package catalog

import "github.com/shopspring/decimal"

// Item is one entry of the Beaver's Choice price list. Prices are per unit
// (per sheet for paper categories).
type Item struct {
	Name      string
	Category  string
	UnitPrice decimal.Decimal
}

const (
	CategoryPaper       = "paper"
	CategoryProduct     = "product"
	CategoryLargeFormat = "large_format"
	CategorySpecialty   = "specialty"
)

func entry(name, category, unitPrice string) Item {
	return Item{
		Name:      name,
		Category:  category,
		UnitPrice: decimal.RequireFromString(unitPrice),
	}
}

// items is kept in fixed order. Matcher tie-breaks and report layouts depend
// on iteration order, so this must never be converted to a map.
var items = []Item{
	entry("A4 paper", CategoryPaper, "0.05"),
	entry("Letter-sized paper", CategoryPaper, "0.06"),
	entry("Cardstock", CategoryPaper, "0.15"),
	entry("Colored paper", CategoryPaper, "0.10"),
	entry("Glossy paper", CategoryPaper, "0.20"),
	entry("Matte paper", CategoryPaper, "0.18"),
	entry("Recycled paper", CategoryPaper, "0.08"),
	entry("Eco-friendly paper", CategoryPaper, "0.12"),
	entry("Poster paper", CategoryPaper, "0.25"),
	entry("Banner paper", CategoryPaper, "0.30"),
	entry("Kraft paper", CategoryPaper, "0.10"),
	entry("Construction paper", CategoryPaper, "0.07"),
	entry("Wrapping paper", CategoryPaper, "0.15"),
	entry("Glitter paper", CategoryPaper, "0.22"),
	entry("Decorative paper", CategoryPaper, "0.18"),
	entry("Letterhead paper", CategoryPaper, "0.12"),
	entry("Legal-size paper", CategoryPaper, "0.08"),
	entry("Crepe paper", CategoryPaper, "0.05"),
	entry("Photo paper", CategoryPaper, "0.25"),
	entry("Uncoated paper", CategoryPaper, "0.06"),
	entry("Butcher paper", CategoryPaper, "0.10"),
	entry("Heavyweight paper", CategoryPaper, "0.20"),
	entry("Standard copy paper", CategoryPaper, "0.04"),
	entry("Bright-colored paper", CategoryPaper, "0.12"),
	entry("Patterned paper", CategoryPaper, "0.15"),

	entry("Paper plates", CategoryProduct, "0.10"),
	entry("Paper cups", CategoryProduct, "0.08"),
	entry("Paper napkins", CategoryProduct, "0.02"),
	entry("Disposable cups", CategoryProduct, "0.10"),
	entry("Table covers", CategoryProduct, "1.50"),
	entry("Envelopes", CategoryProduct, "0.05"),
	entry("Sticky notes", CategoryProduct, "0.03"),
	entry("Notepads", CategoryProduct, "2.00"),
	entry("Invitation cards", CategoryProduct, "0.50"),
	entry("Flyers", CategoryProduct, "0.15"),
	entry("Party streamers", CategoryProduct, "0.05"),
	entry("Decorative adhesive tape (washi tape)", CategoryProduct, "0.20"),
	entry("Paper party bags", CategoryProduct, "0.25"),
	entry("Name tags with lanyards", CategoryProduct, "0.75"),
	entry("Presentation folders", CategoryProduct, "0.50"),

	entry("Large poster paper (24x36 inches)", CategoryLargeFormat, "1.00"),
	entry("Rolls of banner paper (36-inch width)", CategoryLargeFormat, "2.50"),

	entry("100 lb cover stock", CategorySpecialty, "0.50"),
	entry("80 lb text paper", CategorySpecialty, "0.40"),
	entry("250 gsm cardstock", CategorySpecialty, "0.30"),
	entry("220 gsm poster paper", CategorySpecialty, "0.35"),
}

// Items returns the full catalog in canonical order. Callers must treat the
// returned slice as read-only.
func Items() []Item {
	return items
}

// Lookup finds a catalog entry by its exact canonical name.
func Lookup(name string) (Item, bool) {
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

// UnitPrice returns the unit price for an exact canonical name.
func UnitPrice(name string) (decimal.Decimal, bool) {
	it, ok := Lookup(name)
	if !ok {
		return decimal.Decimal{}, false
	}
	return it.UnitPrice, true
}
