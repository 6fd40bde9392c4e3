package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"everjourney/internal/domain"
	"everjourney/internal/listing"
)

type destinationRow struct {
	ID    string `db:"id"`
	City  string `db:"city"`
	Stays int    `db:"stays"`
}

func (s *Store) TopDestinations(ctx context.Context, limit int) ([]domain.Destination, error) {
	var rows []destinationRow
	if err := s.sel(ctx, s.db, "home.destinations", &rows, topDestinationsSQL, limit); err != nil {
		return nil, fmt.Errorf("top destinations: %w", err)
	}
	out := make([]domain.Destination, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Destination{ID: r.ID, City: r.City, Stays: r.Stays, Image: listing.DestinationPlaceholder})
	}
	return out, nil
}

// FeaturedHotels returns the best-rated active hotels with up to four amenity codes each.
func (s *Store) FeaturedHotels(ctx context.Context, limit int) ([]domain.HotelCard, error) {
	var rows []hotelRow
	if err := s.sel(ctx, s.db, "home.hotels", &rows, featuredHotelsSQL, limit); err != nil {
		return nil, fmt.Errorf("featured hotels: %w", err)
	}
	out := make([]domain.HotelCard, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, projectHotel(r))
		ids = append(ids, r.ID)
	}
	if len(ids) == 0 {
		return out, nil
	}
	var codes []struct {
		HotelID string `db:"hotel_id"`
		Code    string `db:"code"`
	}
	if err := s.selIn(ctx, s.db, "home.hotel_amenities", &codes, hotelAmenityCodesSQL, ids); err != nil {
		return nil, fmt.Errorf("featured hotel amenities: %w", err)
	}
	byHotel := make(map[string][]string, len(ids))
	for _, c := range codes {
		if len(byHotel[c.HotelID]) < 4 {
			byHotel[c.HotelID] = append(byHotel[c.HotelID], c.Code)
		}
	}
	for i := range out {
		if c, ok := byHotel[out[i].ID]; ok {
			out[i].AmenityCodes = c
		}
	}
	return out, nil
}

func (s *Store) PopularPackages(ctx context.Context, limit int) ([]domain.PackageCard, error) {
	var rows []packageRow
	if err := s.sel(ctx, s.db, "home.packages", &rows, popularPackagesSQL, limit); err != nil {
		return nil, fmt.Errorf("popular packages: %w", err)
	}
	project := projectPackage(homeDescriptionBudget)
	out := make([]domain.PackageCard, 0, len(rows))
	for _, r := range rows {
		out = append(out, project(r))
	}
	return out, nil
}

func (s *Store) Hotel(ctx context.Context, id string) (domain.Hotel, error) {
	var h domain.Hotel
	if err := s.get(ctx, s.db, "hotel.get", &h, hotelByIDSQL, id); err != nil {
		return domain.Hotel{}, notFound(err, domain.ErrNotFound)
	}
	return h, nil
}

func (s *Store) HotelImages(ctx context.Context, hotelID string) ([]domain.Image, error) {
	out := []domain.Image{}
	if err := s.sel(ctx, s.db, "hotel.images", &out, hotelImagesSQL, hotelID); err != nil {
		return nil, fmt.Errorf("hotel images: %w", err)
	}
	return out, nil
}

// RoomTypes loads the hotel's room types with their rates attached.
func (s *Store) RoomTypes(ctx context.Context, hotelID string) ([]domain.RoomType, error) {
	types, err := s.HotelRoomTypes(ctx, hotelID)
	if err != nil || len(types) == 0 {
		return types, err
	}
	ids := make([]string, 0, len(types))
	for _, t := range types {
		ids = append(ids, t.ID)
	}
	var rates []domain.Rate
	if err := s.selIn(ctx, s.db, "hotel.rates", &rates, ratesForTypesSQL, ids); err != nil {
		return nil, fmt.Errorf("room type rates: %w", err)
	}
	byType := make(map[string][]domain.Rate, len(types))
	for _, r := range rates {
		byType[r.RoomTypeID] = append(byType[r.RoomTypeID], r)
	}
	for i := range types {
		types[i].Rates = byType[types[i].ID]
		if types[i].Rates == nil {
			types[i].Rates = []domain.Rate{}
		}
	}
	return types, nil
}

// Rooms loads up to 200 rooms ordered by floor, each with its image URLs.
func (s *Store) Rooms(ctx context.Context, hotelID string) ([]domain.Room, error) {
	rooms := []domain.Room{}
	if err := s.sel(ctx, s.db, "hotel.rooms", &rooms, roomsSQL, hotelID); err != nil {
		return nil, fmt.Errorf("rooms: %w", err)
	}
	if len(rooms) == 0 {
		return rooms, nil
	}
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	var imgs []struct {
		RoomID string `db:"room_id"`
		URL    string `db:"url"`
	}
	if err := s.selIn(ctx, s.db, "hotel.room_images", &imgs, roomImagesSQL, ids); err != nil {
		return nil, fmt.Errorf("room images: %w", err)
	}
	byRoom := make(map[string][]string, len(rooms))
	for _, im := range imgs {
		byRoom[im.RoomID] = append(byRoom[im.RoomID], im.URL)
	}
	for i := range rooms {
		rooms[i].Images = byRoom[rooms[i].ID]
		if rooms[i].Images == nil {
			rooms[i].Images = []string{}
		}
	}
	return rooms, nil
}

func (s *Store) HotelAmenities(ctx context.Context, hotelID string) ([]domain.Amenity, error) {
	out := []domain.Amenity{}
	if err := s.sel(ctx, s.db, "hotel.amenities", &out, hotelAmenitiesSQL, hotelID); err != nil {
		return nil, fmt.Errorf("hotel amenities: %w", err)
	}
	return out, nil
}

func (s *Store) HotelReviews(ctx context.Context, hotelID string) ([]domain.Review, error) {
	out := []domain.Review{}
	if err := s.sel(ctx, s.db, "hotel.reviews", &out, hotelReviewsSQL, hotelID); err != nil {
		return nil, fmt.Errorf("hotel reviews: %w", err)
	}
	return out, nil
}

// AvgRating is rounded to two decimals; nil when the hotel has no reviews.
func (s *Store) AvgRating(ctx context.Context, hotelID string) (*float64, error) {
	var v sql.NullFloat64
	if err := s.get(ctx, s.db, "hotel.avg_rating", &v, avgRatingSQL, hotelID); err != nil {
		return nil, fmt.Errorf("avg rating: %w", err)
	}
	return round2(listing.FloatPtr(v)), nil
}

func (s *Store) MinPrice(ctx context.Context, hotelID string) (*float64, error) {
	var v sql.NullFloat64
	if err := s.get(ctx, s.db, "hotel.min_price", &v, minPriceSQL, hotelID); err != nil {
		return nil, fmt.Errorf("min price: %w", err)
	}
	return listing.FloatPtr(v), nil
}

func (s *Store) TransportSuggestions(ctx context.Context, cityID string) ([]domain.TransportSuggestion, error) {
	var rows []struct {
		RouteID      string          `db:"route_id"`
		ProviderName string          `db:"provider_name"`
		Departure    flexTime        `db:"departure_datetime"`
		Arrival      flexTime        `db:"arrival_datetime"`
		MinPrice     sql.NullFloat64 `db:"min_price"`
	}
	if err := s.sel(ctx, s.db, "hotel.transport", &rows, transportSuggestionsSQL, cityID, cityID); err != nil {
		return nil, fmt.Errorf("transport suggestions: %w", err)
	}
	out := make([]domain.TransportSuggestion, 0, len(rows))
	for _, r := range rows {
		summary := r.ProviderName + " — departs"
		if r.Departure.Valid {
			summary += " " + r.Departure.Time.Format("2 Jan 2006, 15:04")
		}
		out = append(out, domain.TransportSuggestion{
			RouteID:      r.RouteID,
			ProviderName: r.ProviderName,
			DepartureAt:  r.Departure.Ptr(),
			ArrivalAt:    r.Arrival.Ptr(),
			Price:        listing.FloatPtr(r.MinPrice),
			Currency:     listing.DefaultCurrency,
			Summary:      summary,
		})
	}
	return out, nil
}

// RoomType returns ErrNotFound unless the room type belongs to the hotel.
func (s *Store) RoomType(ctx context.Context, hotelID, roomTypeID string) (domain.RoomType, error) {
	var rt domain.RoomType
	if err := s.get(ctx, s.db, "room.type", &rt, roomTypeSQL, roomTypeID, hotelID); err != nil {
		return domain.RoomType{}, notFound(err, domain.ErrNotFound)
	}
	return rt, nil
}

func (s *Store) Rates(ctx context.Context, roomTypeID string) ([]domain.Rate, error) {
	out := []domain.Rate{}
	if err := s.sel(ctx, s.db, "room.rates", &out, ratesSQL, roomTypeID); err != nil {
		return nil, fmt.Errorf("rates: %w", err)
	}
	return out, nil
}

// RoomTypeImages collects the photos of every room of the type, first occurrence of a URL wins.
func (s *Store) RoomTypeImages(ctx context.Context, hotelID, roomTypeID string) ([]domain.Image, error) {
	var imgs []domain.Image
	if err := s.sel(ctx, s.db, "room.images", &imgs, roomTypeImagesSQL, hotelID, roomTypeID); err != nil {
		return nil, fmt.Errorf("room type images: %w", err)
	}
	seen := make(map[string]struct{}, len(imgs))
	out := make([]domain.Image, 0, len(imgs))
	for _, im := range imgs {
		if im.URL == "" {
			continue
		}
		if _, dup := seen[im.URL]; dup {
			continue
		}
		seen[im.URL] = struct{}{}
		out = append(out, im)
	}
	return out, nil
}

func (s *Store) RoomTypeAmenities(ctx context.Context, roomTypeID string) ([]domain.Amenity, error) {
	out := []domain.Amenity{}
	if err := s.sel(ctx, s.db, "room.amenities", &out, roomTypeAmenitiesSQL, roomTypeID); err != nil {
		return nil, fmt.Errorf("room type amenities: %w", err)
	}
	return out, nil
}

func (s *Store) Amenities(ctx context.Context) ([]domain.Amenity, error) {
	out := []domain.Amenity{}
	if err := s.sel(ctx, s.db, "facets.amenities", &out, amenitiesSQL); err != nil {
		return nil, fmt.Errorf("amenities: %w", err)
	}
	return out, nil
}

func (s *Store) Cities(ctx context.Context) ([]domain.City, error) {
	out := []domain.City{}
	if err := s.sel(ctx, s.db, "facets.cities", &out, citiesSQL); err != nil {
		return nil, fmt.Errorf("cities: %w", err)
	}
	return out, nil
}

func (s *Store) RoomTypeNames(ctx context.Context) ([]string, error) {
	out := []string{}
	if err := s.sel(ctx, s.db, "facets.room_types", &out, roomTypeNamesSQL); err != nil {
		return nil, fmt.Errorf("room type names: %w", err)
	}
	return out, nil
}

func (s *Store) SeatClasses(ctx context.Context) ([]string, error) {
	out := []string{}
	if err := s.sel(ctx, s.db, "facets.seat_classes", &out, seatClassesSQL); err != nil {
		return nil, fmt.Errorf("seat classes: %w", err)
	}
	return out, nil
}

func (s *Store) TransportTypes(ctx context.Context) ([]string, error) {
	out := []string{}
	if err := s.sel(ctx, s.db, "facets.transport_types", &out, transportTypesSQL); err != nil {
		return nil, fmt.Errorf("transport types: %w", err)
	}
	return out, nil
}

// MaxPrices falls back to the form defaults for empty tables.
func (s *Store) MaxPrices(ctx context.Context) (hotel, pkg, seat float64, err error) {
	var row struct {
		Hotel sql.NullFloat64 `db:"hotel"`
		Pkg   sql.NullFloat64 `db:"pkg"`
		Seat  sql.NullFloat64 `db:"seat"`
	}
	if err := s.get(ctx, s.db, "facets.max_prices", &row, maxPricesSQL); err != nil {
		return domain.DefaultMaxHotelPrice, domain.DefaultMaxPackagePrice, domain.DefaultMaxSeatPrice,
			fmt.Errorf("max prices: %w", err)
	}
	orDefault := func(v sql.NullFloat64, def float64) float64 {
		if v.Valid && v.Float64 > 0 {
			return v.Float64
		}
		return def
	}
	return orDefault(row.Hotel, domain.DefaultMaxHotelPrice),
		orDefault(row.Pkg, domain.DefaultMaxPackagePrice),
		orDefault(row.Seat, domain.DefaultMaxSeatPrice), nil
}
