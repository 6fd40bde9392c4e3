package sqlstore

import (
	"strings"

	"everjourney/internal/listing"
)

// contains binds a case-insensitive substring match against a LOWER(...) column.
func contains(v listing.Value) []any {
	return []any{"%" + strings.ToLower(v.Text) + "%"}
}

func lower(v listing.Value) []any {
	return []any{strings.ToLower(v.Text)}
}

// sameDay binds [midnight, next midnight) so the date filter stays index friendly.
func sameDay(v listing.Value) []any {
	return []any{v.Date, v.Date.AddDate(0, 0, 1)}
}

const (
	hotelMinPriceExpr = `(SELECT MIN(rtr.price) FROM room_type_rates rtr
		JOIN room_types rt2 ON rt2.id = rtr.room_type_id WHERE rt2.hotel_id = h.id)`

	// room photos first, hotel gallery second
	hotelImageExpr = `COALESCE(
		(SELECT ri.url FROM rooms r2 JOIN room_images ri ON ri.room_id = r2.id
			WHERE r2.hotel_id = h.id ORDER BY ri.is_primary DESC, (ri.sort_order IS NULL), ri.sort_order LIMIT 1),
		(SELECT hi.url FROM hotel_images hi
			WHERE hi.hotel_id = h.id ORDER BY hi.is_primary DESC, (hi.sort_order IS NULL), hi.sort_order LIMIT 1))`

	hotelFrom = `hotels h
		LEFT JOIN cities c ON c.id = h.city_id
		LEFT JOIN countries co ON co.id = c.country_id`

	hotelColumns = `h.id, h.name, COALESCE(c.name, '') AS city, COALESCE(co.name, '') AS country,
		COALESCE(h.star_rating, 0) AS star_rating, h.created_at,
		` + hotelMinPriceExpr + ` AS min_price,
		` + hotelImageExpr + ` AS image`

	routeFrom = `transport_routes tr
		JOIN transport_providers tp ON tp.id = tr.provider_id
		LEFT JOIN cities fc ON fc.id = tr.from_city_id
		LEFT JOIN cities tc ON tc.id = tr.to_city_id`

	seatMinPriceExpr = `(SELECT MIN(ts.price) FROM transport_seats ts WHERE ts.route_id = tr.id)`

	packageFrom = "packages p LEFT JOIN locations loc ON loc.id = p.dest_loc_id"

	packageColumns = `p.id, p.title, COALESCE(p.description, '') AS description, p.base_price, p.currency, p.nights,
		p.created_at, COALESCE(loc.city, '') AS dest_city,
		(SELECT COUNT(*) FROM package_hotels ph WHERE ph.package_id = p.id) AS hotel_count,
		(SELECT COUNT(*) FROM package_inclusions pin WHERE pin.package_id = p.id) AS inclusion_count,
		(SELECT ri.url FROM package_hotels ph2
			JOIN rooms r ON r.hotel_id = ph2.hotel_id
			JOIN room_images ri ON ri.room_id = r.id
			WHERE ph2.package_id = p.id ORDER BY (ri.sort_order IS NULL), ri.sort_order LIMIT 1) AS image`
)

var hotelsResource = listing.Resource{
	Name:      "hotels",
	Columns:   hotelColumns,
	From:      hotelFrom,
	CountExpr: "COUNT(DISTINCT h.id)",
	Filters: []listing.Filter{
		{Key: "q", Kind: listing.Text, Template: "LOWER(h.name) LIKE ? OR LOWER(COALESCE(c.name, '')) LIKE ?", Bind: contains},
		{Key: "city", Kind: listing.Text, Template: "c.id = ?"},
		{Key: "price_max", Kind: listing.Number, Template: `EXISTS (SELECT 1 FROM room_type_rates rtr
			JOIN room_types rt ON rt.id = rtr.room_type_id WHERE rt.hotel_id = h.id AND rtr.price <= ?)`},
		{Key: "stars", Kind: listing.Number, Template: "h.star_rating >= ?"},
		{Key: "room_type", Kind: listing.Text, Template: `EXISTS (SELECT 1 FROM room_types rt
			WHERE rt.hotel_id = h.id AND LOWER(rt.name) LIKE ?)`, Bind: contains},
		{Key: "amenities", Kind: listing.List, Template: `EXISTS (SELECT 1 FROM hotel_amenities ha
			JOIN amenities a ON a.id = ha.amenity_id WHERE ha.hotel_id = h.id AND a.code IN (?))`},
	},
	Sorts: []listing.Sort{
		{Key: "relevance", Order: "x.name ASC, x.id"},
		{Key: "price_asc", Order: "(x.min_price IS NULL), x.min_price ASC, x.name, x.id"},
		{Key: "price_desc", Order: "(x.min_price IS NULL), x.min_price DESC, x.name, x.id"},
		{Key: "rating_desc", Order: "x.star_rating DESC, x.name, x.id"},
	},
	DefaultSort: "relevance",
}

var packagesResource = listing.Resource{
	Name:      "packages",
	Columns:   packageColumns,
	From:      packageFrom,
	CountExpr: "COUNT(*)",
	Filters: []listing.Filter{
		{Key: "q", Kind: listing.Text, Template: "LOWER(p.title) LIKE ? OR LOWER(COALESCE(p.description, '')) LIKE ?", Bind: contains},
		{Key: "dest", Kind: listing.Text, Template: "LOWER(COALESCE(loc.city, '')) LIKE ?", Bind: contains},
		{Key: "min_price", Kind: listing.Number, Template: "p.base_price >= ?"},
		{Key: "max_price", Kind: listing.Number, Template: "p.base_price <= ?"},
		{Key: "nights", Kind: listing.Number, Template: "p.nights = ?"},
	},
	Sorts: []listing.Sort{
		{Key: "relevance", Order: "x.created_at DESC, x.id", Boost: &listing.Boost{
			Key:      "q",
			Template: "CASE WHEN LOWER(x.title) LIKE ? THEN 0 ELSE 1 END",
			Bind:     contains,
			Then:     "(x.base_price IS NULL), x.base_price, x.id",
		}},
		{Key: "price_asc", Order: "(x.base_price IS NULL), x.base_price ASC, x.id"},
		{Key: "price_desc", Order: "(x.base_price IS NULL), x.base_price DESC, x.id"},
	},
	DefaultSort: "relevance",
}

var routesResource = listing.Resource{
	Name: "transport",
	Columns: `tr.id AS route_id, tp.name AS provider_name, tp.provider_type, tp.vehicle_type, tp.registration_number,
		COALESCE(fc.name, '') AS from_city, COALESCE(tc.name, '') AS to_city,
		tr.departure_datetime, tr.arrival_datetime,
		` + seatMinPriceExpr + ` AS min_price,
		(SELECT COALESCE(SUM(ts.available_seats), 0) FROM transport_seats ts WHERE ts.route_id = tr.id) AS seats_left,
		(SELECT ti.url FROM transport_images ti WHERE ti.route_id = tr.id
			ORDER BY ti.is_primary DESC, (ti.sort_order IS NULL), ti.sort_order LIMIT 1) AS image,
		(SELECT AVG(rv.rating) FROM transport_reviews rv WHERE rv.provider_id = tp.id) AS avg_rating,
		(SELECT COUNT(*) FROM transport_reviews rv WHERE rv.provider_id = tp.id) AS review_count`,
	From:      routeFrom,
	CountExpr: "COUNT(DISTINCT tr.id)",
	Filters: []listing.Filter{
		{Key: "from_city", Kind: listing.Text, Template: "tr.from_city_id = ?"},
		{Key: "to_city", Kind: listing.Text, Template: "tr.to_city_id = ?"},
		{Key: "date", Kind: listing.Date, Template: "tr.departure_datetime >= ? AND tr.departure_datetime < ?", Bind: sameDay},
		{Key: "type", Kind: listing.Text, Template: "LOWER(COALESCE(tr.transport_type, tp.provider_type)) = ?", Bind: lower},
		{Key: "seat_class", Kind: listing.Text, Template: `EXISTS (SELECT 1 FROM transport_seats ts
			WHERE ts.route_id = tr.id AND LOWER(COALESCE(ts.seat_class, '')) LIKE ?)`, Bind: contains},
		{Key: "price_max", Kind: listing.Number, Template: `EXISTS (SELECT 1 FROM transport_seats ts
			WHERE ts.route_id = tr.id AND ts.price <= ?)`},
		{Key: "q", Kind: listing.Text, Template: "LOWER(tp.name) LIKE ?", Bind: contains},
	},
	Sorts: []listing.Sort{
		{Key: "soonest", Order: "x.departure_datetime ASC, x.route_id"},
		{Key: "cheapest", Order: "(x.min_price IS NULL), x.min_price ASC, x.departure_datetime, x.route_id"},
		{Key: "expensive", Order: "(x.min_price IS NULL), x.min_price DESC, x.departure_datetime, x.route_id"},
		{Key: "rating", Order: "(x.avg_rating IS NULL), x.avg_rating DESC, x.departure_datetime ASC, x.route_id"},
	},
	DefaultSort: "soonest",
}

var dealBounds = listing.Bounds{Min: 6, Max: 24, Default: 6}

var hotelDealsResource = listing.Resource{
	Name:      "hotel_deals",
	Columns:   hotelColumns,
	From:      hotelFrom,
	CountExpr: "COUNT(DISTINCT h.id)",
	Filters: []listing.Filter{
		{Key: "city", Kind: listing.Text, Template: "c.id = ?"},
		{Key: "price_max", Kind: listing.Number, Template: hotelMinPriceExpr + " <= ?"},
	},
	Sorts: []listing.Sort{
		{Key: "price_asc", Order: "x.min_price ASC, x.name, x.id"},
		{Key: "rating_desc", Order: "x.star_rating DESC, x.min_price ASC, x.id"},
	},
	DefaultSort: "price_asc",
	Bounds:      dealBounds,
}

var transportDealsResource = listing.Resource{
	Name: "transport_deals",
	Columns: `tr.id AS route_id, tp.name AS provider_name,
		COALESCE(fc.name, '') AS from_city, COALESCE(tc.name, '') AS to_city,
		` + seatMinPriceExpr + ` AS min_price, tr.departure_datetime`,
	From:      routeFrom,
	CountExpr: "COUNT(DISTINCT tr.id)",
	Filters: []listing.Filter{
		{Key: "from_city", Kind: listing.Text, Template: "tr.from_city_id = ?"},
		{Key: "to_city", Kind: listing.Text, Template: "tr.to_city_id = ?"},
	},
	Sorts: []listing.Sort{
		{Key: "cheapest", Order: "x.min_price ASC, x.departure_datetime, x.route_id"},
		{Key: "soonest", Order: "x.departure_datetime ASC, x.route_id"},
	},
	DefaultSort: "cheapest",
	Bounds:      dealBounds,
}

// fixed predicates for the deals pages: only priced inventory qualifies
var (
	hotelHasRate = listing.Clause{SQL: `EXISTS (SELECT 1 FROM room_types rt
		JOIN room_type_rates rtr ON rtr.room_type_id = rt.id WHERE rt.hotel_id = h.id)`}
	routeHasSeat = listing.Clause{SQL: "EXISTS (SELECT 1 FROM transport_seats ts WHERE ts.route_id = tr.id)"}
)
