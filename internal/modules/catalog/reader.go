package catalog

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultName is used when a listing carries no product name.
const DefaultName = "Product"

var whitespace = regexp.MustCompile(`\s+`)

// DeriveID turns a display name into the cart row key: every whitespace run
// becomes "-" and the result is lower-cased.
func DeriveID(name string) string {
	return strings.ToLower(whitespace.ReplaceAllString(name, "-"))
}

// Listing is a product as rendered on a page: its title, price text and image.
type Listing struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	ImageURL string `json:"image_url,omitempty"`
}

// ReadListing converts rendered listing text into a cart Item. An unreadable
// price rejects the listing rather than adding a free item.
func ReadListing(l Listing) (Item, error) {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		name = DefaultName
	}
	price, err := ParsePrice(l.Price)
	if err != nil {
		return Item{}, err
	}
	return Item{ID: DeriveID(name), Name: name, Price: price, ImageURL: l.ImageURL}, nil
}

// ParsePrice reads price text such as "$1,250.50" or "12.5".
func ParsePrice(text string) (float64, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidPrice)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, text)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidPrice, text)
	}
	return v, nil
}
