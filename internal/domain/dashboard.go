package domain

import "time"

type Stats struct {
	TotalBookings int     `db:"total_bookings"`
	TotalRevenue  float64 `db:"total_revenue"`
}

type Booking struct {
	ID          string    `db:"id"`
	Ref         string    `db:"booking_ref"`
	Kind        string    `db:"kind"`
	Subject     string    `db:"subject"`
	UserEmail   string    `db:"user_email"`
	GuestName   string    `db:"guest_name"`
	Status      string    `db:"status"`
	TotalAmount float64   `db:"total_amount"`
	CreatedAt   time.Time `db:"created_at"`
}

type Payment struct {
	ID     string    `db:"id"`
	Amount float64   `db:"amount"`
	Method string    `db:"method"`
	Status string    `db:"status"`
	PaidAt time.Time `db:"paid_at"`
}

type VendorHotelSummary struct {
	ID         string   `db:"id"`
	Name       string   `db:"name"`
	City       string   `db:"city"`
	StarRating *float64 `db:"star_rating"`
	Status     string   `db:"status"`
	RoomCount  int      `db:"room_count"`
}

type VendorRoom struct {
	HotelID      string `db:"hotel_id"`
	RoomNumber   string `db:"room_number"`
	Floor        *int   `db:"floor"`
	Status       string `db:"status"`
	RoomTypeName string `db:"room_type_name"`
}

type Provider struct {
	ID                 string    `db:"id"`
	Name               string    `db:"name"`
	ProviderType       string    `db:"provider_type"`
	Code               string    `db:"code"`
	ContactInfo        string    `db:"contact_info"`
	RegistrationNumber string    `db:"registration_number"`
	VehicleType        string    `db:"vehicle_type"`
	CreatedAt          time.Time `db:"created_at"`
}

type ProviderRoute struct {
	ID            string     `db:"id"`
	ProviderID    string     `db:"provider_id"`
	TransportType string     `db:"transport_type"`
	DepartureAt   time.Time  `db:"departure_datetime"`
	ArrivalAt     *time.Time `db:"arrival_datetime"`
	FromCity      string     `db:"from_city"`
	ToCity        string     `db:"to_city"`
	Label         string     `db:"-"`
}

// RouteLabel renders "From → To" with placeholders for unknown cities.
func RouteLabel(from, to string) string {
	if from == "" {
		from = "Origin"
	}
	if to == "" {
		to = "Destination"
	}
	return from + " → " + to
}

type VendorProfile struct {
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Phone     string `db:"phone"`
}

// VendorDashboard covers both vendor kinds; only the branch matching
// VendorType is populated.
type VendorDashboard struct {
	VendorType string
	Profile    VendorProfile
	Stats      Stats
	Payouts    []Payment

	Hotels       []VendorHotelSummary
	Bookings     []Booking
	RoomsByHotel map[string][]VendorRoom

	Providers      []Provider
	Routes         []ProviderRoute
	TravelBookings []Booking
}

type Invoice struct {
	ID        string    `db:"id"`
	Number    string    `db:"invoice_number"`
	Amount    float64   `db:"amount"`
	IssueDate time.Time `db:"issue_date"`
	PDFURL    string    `db:"pdf_url"`
}

type UserProfile struct {
	Profile   Profile
	Addresses []Address
	Bookings  []Booking
	Reviews   []Review
	Invoices  []Invoice
}

type AdminStats struct {
	UserCount  int     `db:"user_count"`
	HotelCount int     `db:"hotel_count"`
	Revenue    float64 `db:"revenue"`
}
