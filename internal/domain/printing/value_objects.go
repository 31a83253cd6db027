package printing

import "github.com/vikalp/backend/internal/domain/shared"

// Margins represents the page margins in millimeters
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// NewMargins creates a new Margins value object
func NewMargins(top, right, bottom, left int) (Margins, error) {
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot be negative")
	}
	if top > 50 || right > 50 || bottom > 50 || left > 50 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot exceed 50mm")
	}
	return Margins{Top: top, Right: right, Bottom: bottom, Left: left}, nil
}

// MinRasterScale is the lowest supersampling factor of a rasterized page.
// Lower factors blur the small print of the statutory layout.
const MinRasterScale = 2.0

// DefaultMargins returns the default page margins for A4 paper
func DefaultMargins() Margins {
	return Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}
}

// SellerProfile is the shop identity printed in the invoice header
type SellerProfile struct {
	Name         string
	AddressLines []string
	Phone        string
	GSTIN        string
	StateName    string
	StateCode    string
	Email        string
	City         string // default buyer address when none is on record
	Jurisdiction string
}

// DefaultSellerProfile returns the shop identity used when none is configured
func DefaultSellerProfile() SellerProfile {
	return SellerProfile{
		Name:         "Vikalp Electric & Refrigeration",
		AddressLines: []string{"Street No.3, Murlidhar Nagar 1, Gokul Nagar,", "Jamnagar - 361004."},
		Phone:        "9374170929 / 7016223029",
		GSTIN:        "----------------",
		StateName:    "Gujarat",
		StateCode:    "24",
		Email:        "vikalpelectronicofficial@gmail.com",
		City:         "Jamnagar",
		Jurisdiction: "JAMNAGAR",
	}
}
