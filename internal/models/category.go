package models

const (
	CategoryRent         = "rent"
	CategoryUtilities    = "utilities"
	CategoryLoan         = "loan"
	CategorySubscription = "subscription"
	CategoryEducation    = "education"
	CategoryOther        = "other"
)

// CategoryInfo carries presentation metadata for a category value.
// The core entity stores only the symbolic value.
type CategoryInfo struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var categoryCatalog = []CategoryInfo{
	{Value: CategoryRent, Label: "Rent", Icon: "home", Color: "#7c5cff"},
	{Value: CategoryUtilities, Label: "Utilities", Icon: "bolt", Color: "#ffb020"},
	{Value: CategoryLoan, Label: "Loan", Icon: "bank", Color: "#ff5c7a"},
	{Value: CategorySubscription, Label: "Subscription", Icon: "repeat", Color: "#31b5ff"},
	{Value: CategoryEducation, Label: "Education", Icon: "book", Color: "#2fbf71"},
	{Value: CategoryOther, Label: "Other", Icon: "tag", Color: "#8a8f98"},
}

func CategoryCatalog() []CategoryInfo {
	catalog := make([]CategoryInfo, len(categoryCatalog))
	copy(catalog, categoryCatalog)
	return catalog
}

func IsKnownCategory(value string) bool {
	for _, info := range categoryCatalog {
		if info.Value == value {
			return true
		}
	}
	return false
}

// NormalizeCategory maps unknown stored values to CategoryOther.
func NormalizeCategory(value string) string {
	if IsKnownCategory(value) {
		return value
	}
	return CategoryOther
}

func CategoryLabel(value string) string {
	for _, info := range categoryCatalog {
		if info.Value == value {
			return info.Label
		}
	}
	return "Other"
}
