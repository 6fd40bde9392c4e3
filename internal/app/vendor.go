package app

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"everjourney/internal/domain"
	"everjourney/internal/listing"
)

const (
	defaultRoomStart = 201
	defaultMaxGuests = 2
	maxListedNumbers = 10
	maxRoomsPerBatch = 500
)

// hotelCache is the slice of CatalogService vendor writes need.
type hotelCache interface {
	InvalidateHotel(ctx context.Context, id string)
}

type VendorService struct {
	repo    domain.VendorRepository
	catalog domain.CatalogRepository
	cache   hotelCache
}

func NewVendorService(r domain.VendorRepository, c domain.CatalogRepository, cache hotelCache) *VendorService {
	return &VendorService{repo: r, catalog: c, cache: cache}
}

// Amenities lists the checkboxes of the vendor forms; a failed lookup renders none.
func (s *VendorService) Amenities(ctx context.Context) []domain.Amenity {
	v, err := s.catalog.Amenities(ctx)
	if !degrade("vendor", "amenities", err) {
		return []domain.Amenity{}
	}
	return v
}

func (s *VendorService) Cities(ctx context.Context) []domain.City {
	v, err := s.catalog.Cities(ctx)
	if !degrade("vendor", "cities", err) {
		return []domain.City{}
	}
	return v
}

// CreateHotel returns the new hotel's id. Only hotel vendors may add hotels.
func (s *VendorService) CreateHotel(ctx context.Context, u domain.SessionUser, f domain.HotelForm) (string, error) {
	if u.Role != domain.RoleVendor || u.VendorType != domain.VendorHotel {
		return "", domain.ErrForbidden
	}
	var p []string
	if strings.TrimSpace(f.Name) == "" {
		p = append(p, "Hotel name is required.")
	}
	if strings.TrimSpace(f.AddressLine1) == "" {
		p = append(p, "Address line 1 is required.")
	}
	if strings.TrimSpace(f.CityID) == "" {
		p = append(p, "City is required.")
	}
	if err := domain.Invalid(p); err != nil {
		return "", err
	}

	email := strings.TrimSpace(f.Email)
	if email == "" {
		email = u.Email
	}
	h := domain.NewHotel{
		ID:           uuid.NewString(),
		OwnerID:      u.ID,
		Name:         strings.TrimSpace(f.Name),
		Description:  optional(f.Description),
		AddressLine1: strings.TrimSpace(f.AddressLine1),
		AddressLine2: optional(f.AddressLine2),
		CityID:       optional(f.CityID),
		StarRating:   starRating(f.StarRating),
		Phone:        optional(f.Phone),
		Email:        email,
		PropertyType: optional(f.PropertyType),
		AmenityIDs:   f.AmenityIDs,
	}
	if err := s.repo.CreateHotel(ctx, h); err != nil {
		return "", err
	}
	log.Info().Str("hotel", h.ID).Str("owner", u.ID).Msg("hotel created")
	return h.ID, nil
}

// OwnedHotel is the add-rooms form header. ErrNotFound covers both a missing
// hotel and one owned by another vendor; only hotel vendors get that far.
func (s *VendorService) OwnedHotel(ctx context.Context, u domain.SessionUser, hotelID string) (domain.OwnedHotel, error) {
	if u.Role != domain.RoleVendor || u.VendorType != domain.VendorHotel {
		return domain.OwnedHotel{}, domain.ErrForbidden
	}
	return s.repo.OwnedHotel(ctx, hotelID, u.ID)
}

// ParseRoomsForm validates the add-rooms form into a batch for hotelID.
func ParseRoomsForm(hotelID string, f domain.RoomsForm) (domain.RoomBatch, error) {
	var p []string
	b := domain.RoomBatch{
		HotelID:     hotelID,
		Name:        strings.TrimSpace(f.RoomTypeName),
		Description: optional(f.RoomTypeDescription),
		Currency:    strings.ToUpper(strings.TrimSpace(f.Currency)),
		MinStay:     1,
		Start:       defaultRoomStart,
		MaxGuests:   defaultMaxGuests,
		Status:      "available",
		AmenityIDs:  f.AmenityIDs,
	}
	if b.Currency == "" {
		b.Currency = listing.DefaultCurrency
	}
	if !f.RoomsActive {
		b.Status = "inactive"
	}
	if b.Name == "" {
		p = append(p, "Room type name is required.")
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(f.BasePrice), 64); err != nil || v < 0 {
		p = append(p, "Valid base price per night is required.")
	} else {
		b.Price = v
	}
	switch n, err := strconv.Atoi(strings.TrimSpace(f.RoomCount)); {
	case err != nil || n <= 0:
		p = append(p, "Please specify how many rooms to generate.")
	case n > maxRoomsPerBatch:
		p = append(p, fmt.Sprintf("At most %d rooms can be generated at once.", maxRoomsPerBatch))
	default:
		b.Count = n
	}
	if raw := strings.TrimSpace(f.MaxGuests); raw != "" {
		if n, err := strconv.Atoi(raw); err != nil || n < 1 {
			p = append(p, "Max guests must be at least 1.")
		} else {
			b.MaxGuests = n
		}
	}
	if n, ok := atoiOpt(f.RoomNumberStart); ok {
		b.Start = n
	}
	if b.Start < 0 || b.Start > math.MaxInt-b.Count {
		p = append(p, "Starting room number is out of range.")
	}
	if n, ok := atoiOpt(f.MinStay); ok && n > 0 {
		b.MinStay = n
	}
	if n, ok := atoiOpt(f.MaxStay); ok && n > 0 {
		b.MaxStay = &n
	}
	if n, ok := atoiOpt(f.DefaultFloor); ok {
		b.Floor = &n
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(f.AreaSqM), 64); err == nil && v > 0 {
		b.AreaSqM = &v
	}
	return b, domain.Invalid(p)
}

func atoiOpt(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	return n, err == nil
}

// AddRooms creates the room type, its rate and the numbered rooms. Numbers
// already used in the hotel are rejected before anything is written.
func (s *VendorService) AddRooms(ctx context.Context, u domain.SessionUser, hotelID string, f domain.RoomsForm) error {
	if _, err := s.OwnedHotel(ctx, u, hotelID); err != nil {
		return err
	}
	b, err := ParseRoomsForm(hotelID, f)
	if err != nil {
		return err
	}

	existing, err := s.repo.RoomNumbers(ctx, hotelID)
	if err != nil {
		return err
	}
	if clash := collisions(existing, b.Numbers()); len(clash) > 0 {
		return domain.Invalid([]string{collisionMessage(clash)})
	}

	// a writer racing past the pre-check still hits the unique constraint: ErrRoomNumberTaken
	if err := s.repo.CreateRooms(ctx, b); err != nil {
		return err
	}
	s.cache.InvalidateHotel(ctx, hotelID)
	log.Info().Str("hotel", hotelID).Int("rooms", b.Count).Int("start", b.Start).Msg("rooms created")
	return nil
}

// collisions returns the candidates already present, in candidate order.
func collisions(existing, candidates []string) []string {
	have := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		have[n] = struct{}{}
	}
	var out []string
	for _, n := range candidates {
		if _, ok := have[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

func collisionMessage(clash []string) string {
	if len(clash) > maxListedNumbers {
		clash = clash[:maxListedNumbers]
	}
	return fmt.Sprintf("These room numbers already exist for this hotel: %s. Please choose a different starting number or reduce the count.",
		strings.Join(clash, ", "))
}
