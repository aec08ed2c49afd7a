package model

import "strings"

// Category is the industry tag a business is listed under.
type Category string

const (
	CategoryTechnology    Category = "TECHNOLOGY"
	CategoryRestaurant    Category = "RESTAURANT"
	CategoryRetail        Category = "RETAIL"
	CategoryServices      Category = "SERVICES"
	CategoryManufacturing Category = "MANUFACTURING"
	CategoryHealthcare    Category = "HEALTHCARE"
	CategoryAutomotive    Category = "AUTOMOTIVE"
	CategoryRealEstate    Category = "REAL_ESTATE"
	CategoryConstruction  Category = "CONSTRUCTION"
	CategoryEcommerce     Category = "ECOMMERCE"
	CategoryOther         Category = "OTHER"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryTechnology,
	CategoryRestaurant,
	CategoryRetail,
	CategoryServices,
	CategoryManufacturing,
	CategoryHealthcare,
	CategoryAutomotive,
	CategoryRealEstate,
	CategoryConstruction,
	CategoryEcommerce,
	CategoryOther,
}

// ParseCategory normalizes free-form input ("real estate", "e-commerce",
// "Technology") to a Category. Unknown values return CategoryOther and false.
func ParseCategory(s string) (Category, bool) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	if norm == "E_COMMERCE" {
		norm = string(CategoryEcommerce)
	}
	for _, c := range Categories {
		if string(c) == norm {
			return c, true
		}
	}
	return CategoryOther, false
}

// Label returns a lower-case human label ("real estate").
func (c Category) Label() string {
	if c == "" {
		return "general"
	}
	return strings.ToLower(strings.ReplaceAll(string(c), "_", " "))
}
