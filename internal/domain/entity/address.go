package entity

// Address is a value type embedded into members and deliveries.
// It has no identity of its own and is copied, never shared.
type Address struct {
	City    string
	Street  string
	Zipcode string
}

// NewAddress builds an address value.
func NewAddress(city, street, zipcode string) Address {
	return Address{City: city, Street: street, Zipcode: zipcode}
}

// IsZero reports whether no part of the address is set.
func (a Address) IsZero() bool {
	return a == Address{}
}
