package customer

import "time"

// PhoneUnidentified groups orders that carry no phone number. Phone is
// the de facto customer identity key; without one there is no identity.
const PhoneUnidentified = "unidentified"

// VIPMinOrders is the order count at which a customer counts as VIP.
const VIPMinOrders = 5

// Profile is a sparse, manually curated override record keyed by phone.
// Absence of a profile means "not archived, name from the latest order".
type Profile struct {
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

// Summary is the derived lifetime view of a customer. It is rebuilt on
// every read from orders plus profiles and is never persisted.
type Summary struct {
	Phone           string    `json:"phone"`
	Name            string    `json:"name"`
	TotalOrders     int       `json:"totalOrders"`
	TotalSpentCents int64     `json:"totalSpentCents"`
	LastOrderAt     time.Time `json:"lastOrderAt"`
	Address         string    `json:"address"`
	Neighborhood    string    `json:"neighborhood"`
	PickupCount     int       `json:"pickupCount"`
	Archived        bool      `json:"archived"`
}

// VIP reports whether the customer qualifies as a VIP. Derived only,
// never stored.
func (s Summary) VIP() bool {
	return s.TotalOrders >= VIPMinOrders
}
