package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"

	"everjourney/internal/adapters/observability"
	"everjourney/internal/domain"
	"everjourney/internal/listing"
)

const (
	listingDescriptionBudget = 220
	homeDescriptionBudget    = 200
)

type hotelRow struct {
	ID         string          `db:"id"`
	Name       string          `db:"name"`
	City       string          `db:"city"`
	Country    string          `db:"country"`
	StarRating sql.NullFloat64 `db:"star_rating"`
	CreatedAt  flexTime        `db:"created_at"`
	MinPrice   sql.NullFloat64 `db:"min_price"`
	Image      sql.NullString  `db:"image"`
}

func projectHotel(r hotelRow) domain.HotelCard {
	return domain.HotelCard{
		ID:           r.ID,
		Name:         r.Name,
		City:         r.City,
		Country:      r.Country,
		StarRating:   listing.Float(r.StarRating),
		MinPrice:     listing.Float(r.MinPrice),
		Image:        listing.Image(r.Image, listing.HotelPlaceholder),
		AmenityCodes: []string{},
	}
}

type packageRow struct {
	ID             string          `db:"id"`
	Title          string          `db:"title"`
	Description    string          `db:"description"`
	BasePrice      sql.NullFloat64 `db:"base_price"`
	Currency       sql.NullString  `db:"currency"`
	Nights         sql.NullInt64   `db:"nights"`
	CreatedAt      flexTime        `db:"created_at"`
	DestCity       string          `db:"dest_city"`
	HotelCount     int64           `db:"hotel_count"`
	InclusionCount int64           `db:"inclusion_count"`
	Image          sql.NullString  `db:"image"`
}

func projectPackage(budget int) func(packageRow) domain.PackageCard {
	return func(r packageRow) domain.PackageCard {
		return domain.PackageCard{
			ID:             r.ID,
			Title:          r.Title,
			Description:    listing.Truncate(r.Description, budget),
			BasePrice:      listing.Float(r.BasePrice),
			Currency:       listing.Currency(r.Currency),
			Nights:         listing.Int(r.Nights),
			DestCity:       r.DestCity,
			HotelCount:     int(r.HotelCount),
			InclusionCount: int(r.InclusionCount),
			Image:          listing.Image(r.Image, listing.PackagePlaceholder),
		}
	}
}

type routeRow struct {
	RouteID            string          `db:"route_id"`
	ProviderName       string          `db:"provider_name"`
	ProviderType       sql.NullString  `db:"provider_type"`
	VehicleType        sql.NullString  `db:"vehicle_type"`
	RegistrationNumber sql.NullString  `db:"registration_number"`
	FromCity           string          `db:"from_city"`
	ToCity             string          `db:"to_city"`
	Departure          flexTime        `db:"departure_datetime"`
	Arrival            flexTime        `db:"arrival_datetime"`
	MinPrice           sql.NullFloat64 `db:"min_price"`
	SeatsLeft          sql.NullInt64   `db:"seats_left"`
	Image              sql.NullString  `db:"image"`
	AvgRating          sql.NullFloat64 `db:"avg_rating"`
	ReviewCount        int64           `db:"review_count"`
}

func projectRoute(r routeRow) domain.RouteCard {
	c := domain.RouteCard{
		RouteID:            r.RouteID,
		ProviderName:       r.ProviderName,
		ProviderType:       listing.Str(r.ProviderType),
		VehicleType:        listing.Str(r.VehicleType),
		RegistrationNumber: listing.Str(r.RegistrationNumber),
		FromCity:           r.FromCity,
		ToCity:             r.ToCity,
		DepartureAt:        r.Departure.Time,
		ArrivalAt:          r.Arrival.Ptr(),
		MinPrice:           listing.Float(r.MinPrice),
		SeatsLeft:          listing.Int(r.SeatsLeft),
		Image:              listing.Image(r.Image, listing.TransportPlaceholder),
		AvgRating:          round2(listing.FloatPtr(r.AvgRating)),
		ReviewCount:        int(r.ReviewCount),
	}
	if r.Departure.Valid {
		c.DepartureTime = r.Departure.Time.Format("15:04")
	}
	if r.Arrival.Valid {
		c.ArrivalTime = r.Arrival.Time.Format("15:04")
		if r.Departure.Valid {
			c.DurationLabel = durationLabel(r.Arrival.Time.Sub(r.Departure.Time))
		}
	}
	return c
}

type transportDealRow struct {
	RouteID      string          `db:"route_id"`
	ProviderName string          `db:"provider_name"`
	FromCity     string          `db:"from_city"`
	ToCity       string          `db:"to_city"`
	MinPrice     sql.NullFloat64 `db:"min_price"`
	Departure    flexTime        `db:"departure_datetime"`
}

func projectTransportDeal(r transportDealRow) domain.TransportDeal {
	from, to := r.FromCity, r.ToCity
	if from == "" {
		from = "Origin"
	}
	if to == "" {
		to = "Destination"
	}
	return domain.TransportDeal{
		RouteID:      r.RouteID,
		ProviderName: r.ProviderName,
		FromCity:     from,
		ToCity:       to,
		MinPrice:     listing.Float(r.MinPrice),
		DepartureAt:  r.Departure.Time,
	}
}

// durationLabel renders "HHh MMm"; negative spans render empty.
func durationLabel(d time.Duration) string {
	if d < 0 {
		return ""
	}
	mins := int(d.Round(time.Minute).Minutes())
	return fmt.Sprintf("%02dh %02dm", mins/60, mins%60)
}

func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}

func (s *Store) ListHotels(ctx context.Context, raw url.Values) (listing.Result[domain.HotelCard], error) {
	return fetch(ctx, s, hotelsResource, raw, listing.Scan(projectHotel))
}

func (s *Store) ListPackages(ctx context.Context, raw url.Values) (listing.Result[domain.PackageCard], error) {
	return fetch(ctx, s, packagesResource, raw, listing.Scan(projectPackage(listingDescriptionBudget)))
}

// ListRoutes only ever returns departures at or after the store clock's now.
func (s *Store) ListRoutes(ctx context.Context, raw url.Values) (listing.Result[domain.RouteCard], error) {
	upcoming := listing.Clause{SQL: "tr.departure_datetime >= ?", Args: []any{s.now()}}
	return fetch(ctx, s, routesResource, raw, listing.Scan(projectRoute), upcoming)
}

func (s *Store) HotelDeals(ctx context.Context, raw url.Values) (listing.Result[domain.HotelCard], error) {
	return fetch(ctx, s, hotelDealsResource, raw, listing.Scan(projectHotel), hotelHasRate)
}

func (s *Store) TransportDeals(ctx context.Context, raw url.Values) (listing.Result[domain.TransportDeal], error) {
	return fetch(ctx, s, transportDealsResource, raw, listing.Scan(projectTransportDeal), routeHasSeat)
}

func fetch[T any](ctx context.Context, s *Store, r listing.Resource, raw url.Values,
	scan func(*sqlx.Rows) (T, error), fixed ...listing.Clause) (listing.Result[T], error) {
	c := r.Normalize(raw)
	p := listing.NewPage(raw.Get("page"), raw.Get("perPage"), r.Bounds)
	q, err := r.Build(c, p, fixed...)
	if err != nil {
		return listing.Empty[T](c, p), err
	}
	start := time.Now()
	res, err := listing.Fetch(ctx, s.db, q, scan)
	observability.ObserveDB(r.Name+".list", err, time.Since(start))
	if err != nil {
		return listing.Empty[T](c, p), fmt.Errorf("%s: %w", r.Name, err)
	}
	if res.CountFallback {
		observability.ObserveDegraded(r.Name, "count")
	}
	return res, nil
}
