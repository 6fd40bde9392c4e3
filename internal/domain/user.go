package domain

import "time"

const (
	RoleUser   = "user"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"

	VendorHotel  = "hotel"
	VendorTravel = "travel"
)

// SignupKind selects which account flow a signup runs through.
type SignupKind string

const (
	SignupUser         SignupKind = "user"
	SignupHotelVendor  SignupKind = "hotel_vendor"
	SignupTravelVendor SignupKind = "travel_vendor"
)

// SessionUser is the payload stored server-side for a logged-in visitor.
type SessionUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	VendorType string `json:"vendor_type,omitempty"`
	IsVerified bool   `json:"is_verified"`
	Device     string `json:"device,omitempty"`
}

func (u SessionUser) IsVendor() bool { return u.Role == RoleVendor }

// SignupForm holds every field any of the three signup forms posts.
type SignupForm struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	PasswordConfirm string
	Phone           string
	DOB             string
	Gender          string
	AcceptTerms     bool
	Redirect        string

	// user address (optional)
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string

	// hotel vendor
	HotelName    string
	HotelCity    string
	HotelState   string
	HotelAddress string
	HotelPhone   string
	StarRating   string
	PropertyType string

	// travel vendor
	ProviderName       string
	ProviderType       string
	ProviderCode       string
	ServiceCity        string
	RegistrationNumber string
	VehicleType        string
}

// Credentials is the stored login record for an email.
type Credentials struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	IsVerified   bool   `db:"is_verified"`
}

// NewAccount is everything a signup transaction writes.
type NewAccount struct {
	UserID       string
	Email        string
	PasswordHash string
	Role         string
	Profile      Profile
	Address      *Address
	Hotel        *NewHotel
	Provider     *NewProvider
	CreatedAt    time.Time
}

type Profile struct {
	FirstName string  `db:"first_name"`
	LastName  *string `db:"last_name"`
	Phone     *string `db:"phone"`
	DOB       *string `db:"dob"`
	Gender    *string `db:"gender"`
}

type Address struct {
	ID         string  `db:"id"`
	Label      string  `db:"label"`
	Line1      string  `db:"line1"`
	Line2      string  `db:"line2"`
	CityID     *string `db:"city_id"`
	State      string  `db:"state"`
	PostalCode string  `db:"postal_code"`
	IsDefault  bool    `db:"is_default"`
}

// ProviderContact is stored as JSON on transport_providers.contact_info.
type ProviderContact struct {
	Phone       *string `json:"phone"`
	Email       string  `json:"email"`
	ServiceCity string  `json:"service_city"`
}

type NewProvider struct {
	ID                 string
	Name               string
	ProviderType       string
	Code               *string
	Contact            ProviderContact
	RegistrationNumber *string
	VehicleType        *string
}
