package app

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"everjourney/internal/adapters/observability"
	"everjourney/internal/domain"
	"everjourney/internal/listing"
)

const (
	homeDestinations = 6
	homeHotels       = 6
	homePackages     = 6

	facetsKey = "facets:v1"
)

// CatalogService serves the read side: listings, detail pages, home and facets.
// Secondary sections that fail are logged and rendered empty.
type CatalogService struct {
	listings domain.ListingRepository
	catalog  domain.CatalogRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCatalogService(l domain.ListingRepository, c domain.CatalogRepository, cache domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{listings: l, catalog: c, cache: cache, cacheTTL: ttl}
}

// degrade logs a failed section and reports whether err was nil.
func degrade(page, section string, err error) bool {
	if err == nil {
		return true
	}
	observability.ObserveDegraded(page, section)
	log.Warn().Err(err).Str("page", page).Str("section", section).Msg("section degraded")
	return false
}

func listed[T any](page string, res listing.Result[T], err error) listing.Result[T] {
	degrade(page, "list", err)
	return res
}

func (s *CatalogService) Hotels(ctx context.Context, raw url.Values) listing.Result[domain.HotelCard] {
	res, err := s.listings.ListHotels(ctx, raw)
	return listed("hotels", res, err)
}

func (s *CatalogService) Packages(ctx context.Context, raw url.Values) listing.Result[domain.PackageCard] {
	res, err := s.listings.ListPackages(ctx, raw)
	return listed("packages", res, err)
}

func (s *CatalogService) Transport(ctx context.Context, raw url.Values) listing.Result[domain.RouteCard] {
	res, err := s.listings.ListRoutes(ctx, raw)
	return listed("transport", res, err)
}

// Deals is the deals page: cheapest priced hotels and routes.
type Deals struct {
	Hotels    listing.Result[domain.HotelCard]
	Transport listing.Result[domain.TransportDeal]
}

func (s *CatalogService) Deals(ctx context.Context, raw url.Values) Deals {
	var d Deals
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		res, err := s.listings.HotelDeals(ctx, raw)
		d.Hotels = listed("deals", res, err)
	}()
	go func() {
		defer wg.Done()
		res, err := s.listings.TransportDeals(ctx, raw)
		d.Transport = listed("deals", res, err)
	}()
	wg.Wait()
	return d
}

func (s *CatalogService) Home(ctx context.Context) domain.Home {
	h := domain.Home{Destinations: []domain.Destination{}, Hotels: []domain.HotelCard{}, Packages: []domain.PackageCard{}}
	var g errgroup.Group
	g.Go(func() error {
		v, err := s.catalog.TopDestinations(ctx, homeDestinations)
		if degrade("home", "destinations", err) {
			h.Destinations = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := s.catalog.FeaturedHotels(ctx, homeHotels)
		if degrade("home", "hotels", err) {
			h.Hotels = v
		}
		return nil
	})
	g.Go(func() error {
		v, err := s.catalog.PopularPackages(ctx, homePackages)
		if degrade("home", "packages", err) {
			h.Packages = v
		}
		return nil
	})
	_ = g.Wait()
	for i := range h.Destinations {
		if h.Destinations[i].Image == "" {
			h.Destinations[i].Image = listing.DestinationPlaceholder
		}
	}
	return h
}

// Facets feeds the filter forms. A complete set is cached; a partial one is not.
func (s *CatalogService) Facets(ctx context.Context) domain.Facets {
	var f domain.Facets
	if ok, _ := s.cache.Get(ctx, facetsKey, &f); ok {
		return f
	}
	f = domain.DefaultFacets()
	var (
		mu       sync.Mutex
		complete = true
		g        errgroup.Group
	)
	section := func(name string, load func() error) {
		g.Go(func() error {
			err := load()
			if !degrade("facets", name, err) {
				mu.Lock()
				complete = false
				mu.Unlock()
			}
			return nil
		})
	}
	section("amenities", func() error {
		v, err := s.catalog.Amenities(ctx)
		if err == nil {
			f.Amenities = v
		}
		return err
	})
	section("cities", func() error {
		v, err := s.catalog.Cities(ctx)
		if err == nil {
			f.Cities = v
		}
		return err
	})
	section("room_types", func() error {
		v, err := s.catalog.RoomTypeNames(ctx)
		if err == nil {
			f.RoomTypes = v
		}
		return err
	})
	section("seat_classes", func() error {
		v, err := s.catalog.SeatClasses(ctx)
		if err == nil {
			f.SeatClasses = v
		}
		return err
	})
	section("transport_types", func() error {
		v, err := s.catalog.TransportTypes(ctx)
		if err == nil {
			f.TransportTypes = v
		}
		return err
	})
	section("max_prices", func() error {
		hotel, pkg, seat, err := s.catalog.MaxPrices(ctx)
		f.MaxHotelPrice, f.MaxPackage, f.MaxSeatPrice = hotel, pkg, seat
		return err
	})
	_ = g.Wait()

	if complete {
		_ = s.cache.Set(ctx, facetsKey, f, int(s.cacheTTL.Seconds()))
	}
	return f
}

func hotelKey(id string) string { return "hotel:" + id }

// HotelDetail returns ErrNotFound when the hotel does not exist. Every
// other section degrades to empty on failure; degraded pages are not cached.
func (s *CatalogService) HotelDetail(ctx context.Context, id string) (domain.HotelDetail, error) {
	var d domain.HotelDetail
	if ok, _ := s.cache.Get(ctx, hotelKey(id), &d); ok {
		return d, nil
	}

	h, err := s.catalog.Hotel(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	d = domain.HotelDetail{
		Hotel:       h,
		Images:      []domain.Image{},
		RoomTypes:   []domain.RoomType{},
		Rooms:       []domain.Room{},
		Amenities:   []domain.Amenity{},
		Reviews:     []domain.Review{},
		Suggestions: []domain.TransportSuggestion{},
	}

	var (
		mu       sync.Mutex
		complete = true
		g        errgroup.Group
	)
	section := func(name string, load func() error) {
		g.Go(func() error {
			if !degrade("hotel", name, load()) {
				mu.Lock()
				complete = false
				mu.Unlock()
			}
			return nil
		})
	}
	section("images", func() error {
		v, err := s.catalog.HotelImages(ctx, id)
		if err == nil {
			d.Images = v
		}
		return err
	})
	section("room_types", func() error {
		v, err := s.catalog.RoomTypes(ctx, id)
		if err == nil {
			d.RoomTypes = v
		}
		return err
	})
	section("rooms", func() error {
		v, err := s.catalog.Rooms(ctx, id)
		if err == nil {
			d.Rooms = v
		}
		return err
	})
	section("amenities", func() error {
		v, err := s.catalog.HotelAmenities(ctx, id)
		if err == nil {
			d.Amenities = v
		}
		return err
	})
	section("reviews", func() error {
		v, err := s.catalog.HotelReviews(ctx, id)
		if err == nil {
			d.Reviews = v
		}
		return err
	})
	section("rating", func() error {
		v, err := s.catalog.AvgRating(ctx, id)
		d.AvgRating = v
		return err
	})
	section("min_price", func() error {
		v, err := s.catalog.MinPrice(ctx, id)
		d.MinPrice = v
		return err
	})
	if h.CityID != nil && *h.CityID != "" {
		section("transport", func() error {
			v, err := s.catalog.TransportSuggestions(ctx, *h.CityID)
			if err == nil {
				d.Suggestions = v
			}
			return err
		})
	}
	_ = g.Wait()

	attachRoomTypeImages(&d)
	if complete {
		_ = s.cache.Set(ctx, hotelKey(id), d, int(s.cacheTTL.Seconds()))
	}
	return d, nil
}

// attachRoomTypeImages gives each room type the photos of its first
// photographed room, else the first hotel photo, else the placeholder.
func attachRoomTypeImages(d *domain.HotelDetail) {
	fallback := listing.HotelPlaceholder
	if len(d.Images) > 0 {
		fallback = d.Images[0].URL
	}
	byType := make(map[string][]string, len(d.RoomTypes))
	for _, r := range d.Rooms {
		if _, done := byType[r.RoomTypeID]; done || len(r.Images) == 0 {
			continue
		}
		byType[r.RoomTypeID] = r.Images
	}
	for i := range d.RoomTypes {
		if imgs, ok := byType[d.RoomTypes[i].ID]; ok {
			d.RoomTypes[i].Images = imgs
		} else {
			d.RoomTypes[i].Images = []string{fallback}
		}
	}
}

// InvalidateHotel drops the cached detail page after a vendor write.
func (s *CatalogService) InvalidateHotel(ctx context.Context, id string) {
	if err := s.cache.Del(ctx, hotelKey(id)); err != nil {
		log.Warn().Err(err).Str("hotel", id).Msg("hotel cache invalidation failed")
	}
}

// RoomDetail returns ErrNotFound unless both the hotel and the room type
// exist and belong together.
func (s *CatalogService) RoomDetail(ctx context.Context, hotelID, roomTypeID string) (domain.RoomDetail, error) {
	var (
		hotel domain.Hotel
		rt    domain.RoomType
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { hotel, err = s.catalog.Hotel(gctx, hotelID); return err })
	g.Go(func() (err error) { rt, err = s.catalog.RoomType(gctx, hotelID, roomTypeID); return err })
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RoomDetail{}, domain.ErrNotFound
		}
		return domain.RoomDetail{}, err
	}
	d := domain.RoomDetail{
		Hotel:       hotel,
		RoomType:    rt,
		HotelImages: []domain.Image{},
		Rates:       []domain.Rate{},
		RoomImages:  []domain.Image{},
		Amenities:   []domain.Amenity{},
	}

	var sg errgroup.Group
	sg.Go(func() error {
		v, err := s.catalog.Rates(ctx, roomTypeID)
		if degrade("room", "rates", err) {
			d.Rates = v
		}
		return nil
	})
	sg.Go(func() error {
		v, err := s.catalog.RoomTypeImages(ctx, hotelID, roomTypeID)
		if degrade("room", "images", err) {
			d.RoomImages = v
		}
		return nil
	})
	sg.Go(func() error {
		v, err := s.catalog.HotelImages(ctx, hotelID)
		if degrade("room", "hotel_images", err) {
			d.HotelImages = v
		}
		return nil
	})
	sg.Go(func() error {
		v, err := s.catalog.RoomTypeAmenities(ctx, roomTypeID)
		if degrade("room", "amenities", err) {
			d.Amenities = v
		}
		return nil
	})
	_ = sg.Wait()
	return d, nil
}
