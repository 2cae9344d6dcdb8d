package model

// Category labels assigned by the categorizer. The set is closed: anything
// the model answers outside of it collapses to CategoryOther.
const (
	CategoryGroceries     = "Groceries"
	CategoryDining        = "Restaurants & Dining"
	CategoryTransport     = "Transportation"
	CategoryUtilities     = "Utilities"
	CategoryHousing       = "Rent/Mortgage"
	CategoryEntertainment = "Entertainment"
	CategoryShopping      = "Shopping"
	CategoryHealthcare    = "Healthcare"
	CategoryInsurance     = "Insurance"
	CategorySubscriptions = "Subscriptions"
	CategoryTravel        = "Travel"
	CategoryIncome        = "Income"
	CategoryTransfers     = "Transfers"
	CategoryOther         = "Other"
)

// DefaultCategories returns the built-in category set in display order.
func DefaultCategories() []string {
	return []string{
		CategoryGroceries,
		CategoryDining,
		CategoryTransport,
		CategoryUtilities,
		CategoryHousing,
		CategoryEntertainment,
		CategoryShopping,
		CategoryHealthcare,
		CategoryInsurance,
		CategorySubscriptions,
		CategoryTravel,
		CategoryIncome,
		CategoryTransfers,
		CategoryOther,
	}
}
