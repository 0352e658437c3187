package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry as loaded from the remote catalog.
// Products are immutable once fetched; nothing outside the catalog
// source creates or mutates them.
type Product struct {
	// ID is the catalog identifier and the cart line key.
	ID int

	// Title is the display name, also the search target.
	Title string

	// Price is the unit price.
	Price decimal.Decimal

	// Category is the category label used by the category filter.
	Category string

	// Image is the product image URL.
	Image string

	// Description is optional long-form text.
	Description string

	// Rating is the optional aggregate customer rating.
	Rating Rating
}

// Rating is an aggregate customer rating.
type Rating struct {
	Rate  float64
	Count int
}
