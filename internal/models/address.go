package models

import "regexp"

// Address kinds.
const (
	AddressShipping = "Shipping"
	AddressBilling  = "Billing"
	AddressBoth     = "Both"
)

type Address struct {
	AddressID    int    `json:"addressId"`
	UserID       int    `json:"userId"`
	AddressType  string `json:"addressType"`
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	PhoneNumber  string `json:"phoneNumber"`
	IsDefault    bool   `json:"isDefault"`
	CreatedAt    string `json:"createdAt,omitempty"`
}

// AddressInput is the create and update body for an address.
type AddressInput struct {
	AddressType  string `json:"addressType"`
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	PhoneNumber  string `json:"phoneNumber"`
	IsDefault    bool   `json:"isDefault"`
}

var phonePattern = regexp.MustCompile(`^[+]?[\d\s\-()]+$`)

// ValidPhone accepts digits, spaces, dashes and parentheses with an optional leading +.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
