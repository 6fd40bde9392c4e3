package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"everjourney/internal/domain"
)

type bookingRow struct {
	ID          string         `db:"id"`
	Ref         string         `db:"booking_ref"`
	Subject     string         `db:"subject"`
	UserEmail   string         `db:"user_email"`
	FirstName   sql.NullString `db:"first_name"`
	LastName    sql.NullString `db:"last_name"`
	Status      string         `db:"status"`
	TotalAmount float64        `db:"total_amount"`
	CreatedAt   time.Time      `db:"created_at"`
}

func projectBookings(kind string, rows []bookingRow) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, r := range rows {
		name := strings.TrimSpace(r.FirstName.String + " " + r.LastName.String)
		out = append(out, domain.Booking{
			ID:          r.ID,
			Ref:         r.Ref,
			Kind:        kind,
			Subject:     r.Subject,
			UserEmail:   r.UserEmail,
			GuestName:   name,
			Status:      r.Status,
			TotalAmount: r.TotalAmount,
			CreatedAt:   r.CreatedAt,
		})
	}
	return out
}

type providerRow struct {
	ID                 string         `db:"id"`
	Name               string         `db:"name"`
	ProviderType       string         `db:"provider_type"`
	Code               sql.NullString `db:"code"`
	ContactInfo        sql.NullString `db:"contact_info"`
	RegistrationNumber sql.NullString `db:"registration_number"`
	VehicleType        sql.NullString `db:"vehicle_type"`
	CreatedAt          time.Time      `db:"created_at"`
}

// VendorDashboard fills the branch matching vendorType ("hotel" or "travel").
func (s *Store) VendorDashboard(ctx context.Context, userID, vendorType string) (domain.VendorDashboard, error) {
	d := domain.VendorDashboard{
		VendorType:     vendorType,
		Payouts:        []domain.Payment{},
		Hotels:         []domain.VendorHotelSummary{},
		Bookings:       []domain.Booking{},
		RoomsByHotel:   map[string][]domain.VendorRoom{},
		Providers:      []domain.Provider{},
		Routes:         []domain.ProviderRoute{},
		TravelBookings: []domain.Booking{},
	}
	err := s.get(ctx, s.db, "vendor.profile", &d.Profile, vendorProfileSQL, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return d, fmt.Errorf("vendor profile: %w", err)
	}

	switch vendorType {
	case domain.VendorTravel:
		err = s.travelBranch(ctx, userID, &d)
	default:
		err = s.hotelBranch(ctx, userID, &d)
	}
	return d, err
}

func (s *Store) hotelBranch(ctx context.Context, userID string, d *domain.VendorDashboard) error {
	if err := s.sel(ctx, s.db, "vendor.hotels", &d.Hotels, vendorHotelsSQL, userID); err != nil {
		return fmt.Errorf("vendor hotels: %w", err)
	}
	if len(d.Hotels) == 0 {
		return nil
	}
	ids := make([]string, 0, len(d.Hotels))
	for _, h := range d.Hotels {
		ids = append(ids, h.ID)
	}

	var bookings []bookingRow
	if err := s.selIn(ctx, s.db, "vendor.hotel_bookings", &bookings, hotelBookingsForHotelsSQL, ids); err != nil {
		return fmt.Errorf("vendor bookings: %w", err)
	}
	d.Bookings = projectBookings("hotel", bookings)

	var stats []domain.Stats
	if err := s.selIn(ctx, s.db, "vendor.hotel_stats", &stats, hotelStatsSQL, ids); err != nil {
		return fmt.Errorf("vendor stats: %w", err)
	}
	if len(stats) > 0 {
		d.Stats = stats[0]
	}

	if err := s.selIn(ctx, s.db, "vendor.hotel_payouts", &d.Payouts, hotelPayoutsSQL, ids); err != nil {
		return fmt.Errorf("vendor payouts: %w", err)
	}

	var rooms []domain.VendorRoom
	if err := s.selIn(ctx, s.db, "vendor.rooms", &rooms, vendorRoomsSQL, ids); err != nil {
		return fmt.Errorf("vendor rooms: %w", err)
	}
	for _, r := range rooms {
		d.RoomsByHotel[r.HotelID] = append(d.RoomsByHotel[r.HotelID], r)
	}
	return nil
}

func (s *Store) travelBranch(ctx context.Context, userID string, d *domain.VendorDashboard) error {
	var providers []providerRow
	if err := s.sel(ctx, s.db, "vendor.providers", &providers, vendorProvidersSQL, userID); err != nil {
		return fmt.Errorf("vendor providers: %w", err)
	}
	if len(providers) == 0 {
		return nil
	}
	ids := make([]string, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
		d.Providers = append(d.Providers, domain.Provider{
			ID:                 p.ID,
			Name:               p.Name,
			ProviderType:       p.ProviderType,
			Code:               p.Code.String,
			ContactInfo:        p.ContactInfo.String,
			RegistrationNumber: p.RegistrationNumber.String,
			VehicleType:        p.VehicleType.String,
			CreatedAt:          p.CreatedAt,
		})
	}

	if err := s.selIn(ctx, s.db, "vendor.routes", &d.Routes, providerRoutesSQL, ids); err != nil {
		return fmt.Errorf("provider routes: %w", err)
	}
	for i := range d.Routes {
		d.Routes[i].Label = domain.RouteLabel(d.Routes[i].FromCity, d.Routes[i].ToCity)
	}

	var bookings []bookingRow
	if err := s.selIn(ctx, s.db, "vendor.transport_bookings", &bookings, transportBookingsForProvidersSQL, ids); err != nil {
		return fmt.Errorf("travel bookings: %w", err)
	}
	d.TravelBookings = projectBookings("transport", bookings)

	var stats []domain.Stats
	if err := s.selIn(ctx, s.db, "vendor.transport_stats", &stats, transportStatsSQL, ids); err != nil {
		return fmt.Errorf("travel stats: %w", err)
	}
	if len(stats) > 0 {
		d.Stats = stats[0]
	}

	if err := s.selIn(ctx, s.db, "vendor.transport_payouts", &d.Payouts, transportPayoutsSQL, ids); err != nil {
		return fmt.Errorf("travel payouts: %w", err)
	}
	return nil
}

// UserProfile loads the profile sections concurrently; bookings of both kinds
// are merged newest first and capped at 12.
func (s *Store) UserProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	var (
		p              domain.UserProfile
		hotelBookings  []bookingRow
		travelBookings []bookingRow
	)
	p.Addresses, p.Reviews, p.Invoices = []domain.Address{}, []domain.Review{}, []domain.Invoice{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.get(gctx, s.db, "profile.get", &p.Profile, userProfileSQL, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	})
	g.Go(func() error { return s.sel(gctx, s.db, "profile.addresses", &p.Addresses, userAddressesSQL, userID) })
	g.Go(func() error {
		return s.sel(gctx, s.db, "profile.hotel_bookings", &hotelBookings, userHotelBookingsSQL, userID)
	})
	g.Go(func() error {
		return s.sel(gctx, s.db, "profile.transport_bookings", &travelBookings, userTransportBookingsSQL, userID)
	})
	g.Go(func() error { return s.sel(gctx, s.db, "profile.reviews", &p.Reviews, userReviewsSQL, userID) })
	g.Go(func() error { return s.sel(gctx, s.db, "profile.invoices", &p.Invoices, userInvoicesSQL, userID) })
	if err := g.Wait(); err != nil {
		return p, fmt.Errorf("user profile: %w", err)
	}

	p.Bookings = append(projectBookings("hotel", hotelBookings), projectBookings("transport", travelBookings)...)
	sort.SliceStable(p.Bookings, func(i, j int) bool { return p.Bookings[i].CreatedAt.After(p.Bookings[j].CreatedAt) })
	if len(p.Bookings) > 12 {
		p.Bookings = p.Bookings[:12]
	}
	return p, nil
}

func (s *Store) AdminStats(ctx context.Context) (domain.AdminStats, error) {
	var st domain.AdminStats
	if err := s.get(ctx, s.db, "admin.stats", &st, adminStatsSQL); err != nil {
		return domain.AdminStats{}, fmt.Errorf("admin stats: %w", err)
	}
	return st, nil
}
