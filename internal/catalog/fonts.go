package catalog

// FontChoice is one selectable font.
// StyleClass is handed to the presentation layer untouched.
type FontChoice struct {
	DisplayName string `json:"name"`
	StyleClass  string `json:"class"`
}

type CategoryName string

const (
	CategoryStandard  CategoryName = "Standard"
	CategoryPlayful   CategoryName = "Playful"
	CategoryImpactful CategoryName = "Impactful"
)

// Category is a display grouping over a contiguous range of the catalog.
type Category struct {
	Name  CategoryName `json:"name"`
	Fonts []FontChoice `json:"fonts"`
}

var fonts = []FontChoice{
	{DisplayName: "Roboto", StyleClass: "font-roboto"},
	{DisplayName: "Montserrat", StyleClass: "font-montserrat"},
	{DisplayName: "Open Sans", StyleClass: "font-opensans"},
	{DisplayName: "Lato", StyleClass: "font-lato"},
	{DisplayName: "Poppins", StyleClass: "font-poppins"},

	{DisplayName: "Pacifico", StyleClass: "font-pacifico"},
	{DisplayName: "Bangers", StyleClass: "font-bangers"},
	{DisplayName: "Lobster", StyleClass: "font-lobster"},
	{DisplayName: "Permanent Marker", StyleClass: "font-permanent-marker"},
	{DisplayName: "Fredoka One", StyleClass: "font-fredoka-one"},

	{DisplayName: "Bebas Neue", StyleClass: "font-bebas-neue"},
	{DisplayName: "Anton", StyleClass: "font-anton"},
	{DisplayName: "Oswald", StyleClass: "font-oswald"},
	{DisplayName: "Abril Fatface", StyleClass: "font-abril-fatface"},
	{DisplayName: "Righteous", StyleClass: "font-righteous"},
}

// Category boundaries are positional.
var categoryBounds = []struct {
	name       CategoryName
	start, end int
}{
	{CategoryStandard, 0, 5},
	{CategoryPlayful, 5, 10},
	{CategoryImpactful, 10, 15},
}

// List returns the catalog in its fixed order. The returned slice is a copy.
func List() []FontChoice {
	out := make([]FontChoice, len(fonts))
	copy(out, fonts)
	return out
}

// FindByName looks up a font by exact display name.
func FindByName(name string) (FontChoice, bool) {
	for _, f := range fonts {
		if f.DisplayName == name {
			return f, true
		}
	}
	return FontChoice{}, false
}

// Default is the font a fresh configuration starts with.
func Default() FontChoice { return fonts[0] }

func Categories() []Category {
	out := make([]Category, 0, len(categoryBounds))
	for _, b := range categoryBounds {
		members := make([]FontChoice, b.end-b.start)
		copy(members, fonts[b.start:b.end])
		out = append(out, Category{Name: b.name, Fonts: members})
	}
	return out
}

// CategoryOf reports which display group a font belongs to.
func CategoryOf(f FontChoice) (CategoryName, bool) {
	for i, candidate := range fonts {
		if candidate != f {
			continue
		}
		for _, b := range categoryBounds {
			if i >= b.start && i < b.end {
				return b.name, true
			}
		}
	}
	return "", false
}
