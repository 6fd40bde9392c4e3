package sqlstore

// Statements use ? placeholders; Store rebinds them for the connection's driver.
// Sort terms emulate NULLS FIRST/LAST with (col IS NULL), which all three dialects accept.

const (
	topDestinationsSQL = `
SELECT c.id, c.name AS city, COUNT(h.id) AS stays
FROM cities c
JOIN hotels h ON h.city_id = c.id
GROUP BY c.id, c.name
ORDER BY stays DESC, c.name ASC
LIMIT ?`

	featuredHotelsSQL = `
SELECT ` + hotelColumns + `
FROM ` + hotelFrom + `
WHERE h.status IS NULL OR h.status = 'active'
ORDER BY COALESCE(h.star_rating, 0) DESC, h.created_at DESC
LIMIT ?`

	hotelAmenityCodesSQL = `
SELECT ha.hotel_id, a.code
FROM hotel_amenities ha
JOIN amenities a ON a.id = ha.amenity_id
WHERE ha.hotel_id IN (?)
ORDER BY ha.hotel_id, a.name`

	popularPackagesSQL = `
SELECT ` + packageColumns + `
FROM ` + packageFrom + `
WHERE p.is_active = TRUE
ORDER BY p.created_at DESC
LIMIT ?`

	hotelByIDSQL = `
SELECT h.id, h.owner_user_id, h.name,
       COALESCE(h.description, '') AS description,
       COALESCE(h.address_line1, '') AS address_line1,
       COALESCE(h.address_line2, '') AS address_line2,
       h.city_id,
       COALESCE(c.name, '') AS city,
       COALESCE(co.name, '') AS country,
       h.star_rating,
       COALESCE(h.phone, '') AS phone,
       COALESCE(h.email, '') AS email,
       COALESCE(h.status, '') AS status,
       COALESCE(h.property_type, '') AS property_type
FROM ` + hotelFrom + `
WHERE h.id = ?`

	hotelImagesSQL = `
SELECT url, COALESCE(alt_text, '') AS alt_text, is_primary
FROM hotel_images
WHERE hotel_id = ?
ORDER BY is_primary DESC, (sort_order IS NULL), sort_order
LIMIT 20`

	roomTypeColumns = `id, hotel_id, name, COALESCE(description, '') AS description, max_guests, area_sq_m`

	roomTypesSQL = `
SELECT ` + roomTypeColumns + `
FROM room_types
WHERE hotel_id = ?
ORDER BY name, id`

	roomTypeSQL = `
SELECT ` + roomTypeColumns + `
FROM room_types
WHERE id = ? AND hotel_id = ?`

	rateColumns = `id, room_type_id, price, currency, valid_from, valid_to, min_stay, max_stay, inventory`

	ratesForTypesSQL = `
SELECT ` + rateColumns + `
FROM room_type_rates
WHERE room_type_id IN (?)
ORDER BY (valid_from IS NOT NULL), valid_from, price ASC`

	ratesSQL = `
SELECT ` + rateColumns + `
FROM room_type_rates
WHERE room_type_id = ?
ORDER BY (valid_from IS NOT NULL), valid_from, price ASC`

	roomsSQL = `
SELECT id, room_number, COALESCE(room_type_id, '') AS room_type_id, floor, status
FROM rooms
WHERE hotel_id = ?
ORDER BY (floor IS NULL), floor, room_number
LIMIT 200`

	roomImagesSQL = `
SELECT room_id, url
FROM room_images
WHERE room_id IN (?)
ORDER BY (sort_order IS NULL), sort_order`

	roomTypeImagesSQL = `
SELECT ri.url, COALESCE(ri.alt_text, '') AS alt_text, ri.is_primary
FROM room_images ri
JOIN rooms r ON r.id = ri.room_id
WHERE r.hotel_id = ? AND r.room_type_id = ?
ORDER BY ri.is_primary DESC, (ri.sort_order IS NULL), ri.sort_order`

	hotelAmenitiesSQL = `
SELECT a.id, a.code, a.name
FROM hotel_amenities ha
JOIN amenities a ON a.id = ha.amenity_id
WHERE ha.hotel_id = ?
ORDER BY a.name`

	roomTypeAmenitiesSQL = `
SELECT a.id, a.code, a.name
FROM room_type_amenities rta
JOIN amenities a ON a.id = rta.amenity_id
WHERE rta.room_type_id = ?
ORDER BY a.name`

	hotelReviewsSQL = `
SELECT hr.id, hr.hotel_id, h.name AS hotel_name, hr.rating,
       COALESCE(hr.title, '') AS title,
       COALESCE(hr.comment, '') AS comment,
       COALESCE(up.first_name, u.email, 'Guest') AS user_name,
       hr.created_at
FROM hotel_reviews hr
JOIN hotels h ON h.id = hr.hotel_id
LEFT JOIN users u ON u.id = hr.user_id
LEFT JOIN user_profiles up ON up.user_id = u.id
WHERE hr.hotel_id = ?
ORDER BY hr.created_at DESC
LIMIT 50`

	avgRatingSQL = `SELECT AVG(rating) FROM hotel_reviews WHERE hotel_id = ?`

	minPriceSQL = `
SELECT MIN(rtr.price)
FROM room_type_rates rtr
JOIN room_types rt ON rt.id = rtr.room_type_id
WHERE rt.hotel_id = ?`

	transportSuggestionsSQL = `
SELECT tr.id AS route_id, tp.name AS provider_name,
       tr.departure_datetime, tr.arrival_datetime,
       ` + seatMinPriceExpr + ` AS min_price
FROM transport_routes tr
JOIN transport_providers tp ON tp.id = tr.provider_id
WHERE tr.from_city_id = ? OR tr.to_city_id = ?
ORDER BY tr.departure_datetime ASC
LIMIT 5`

	amenitiesSQL     = `SELECT id, code, name FROM amenities ORDER BY name`
	citiesSQL        = `SELECT id, name FROM cities ORDER BY name`
	roomTypeNamesSQL = `SELECT DISTINCT name FROM room_types ORDER BY name`
	seatClassesSQL   = `SELECT DISTINCT seat_class FROM transport_seats WHERE seat_class IS NOT NULL ORDER BY seat_class`

	transportTypesSQL = `
SELECT DISTINCT COALESCE(tr.transport_type, tp.provider_type) AS t
FROM transport_routes tr
JOIN transport_providers tp ON tp.id = tr.provider_id
WHERE COALESCE(tr.transport_type, tp.provider_type) IS NOT NULL
ORDER BY t`

	maxPricesSQL = `
SELECT (SELECT MAX(price) FROM room_type_rates) AS hotel,
       (SELECT MAX(base_price) FROM packages) AS pkg,
       (SELECT MAX(price) FROM transport_seats) AS seat`
)

// accounts
const (
	userIDByEmailSQL = `SELECT id FROM users WHERE email = ?`

	insertUserSQL = `
INSERT INTO users (id, email, password_hash, is_verified, role, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	insertProfileSQL = `
INSERT INTO user_profiles (user_id, first_name, last_name, phone, dob, gender, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	insertAddressSQL = `
INSERT INTO user_addresses (id, user_id, label, line1, line2, city_id, state, postal_code, is_default, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertProviderSQL = `
INSERT INTO transport_providers
  (id, name, provider_type, code, contact_info, owner_user_id, registration_number, vehicle_type, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	credentialsColumns = `id, email, password_hash, role, is_verified`

	credentialsByEmailSQL = `SELECT ` + credentialsColumns + ` FROM users WHERE email = ?`
	credentialsByRoleSQL  = `SELECT ` + credentialsColumns + ` FROM users WHERE email = ? AND role = ?`
	credentialsByIDSQL    = `SELECT ` + credentialsColumns + ` FROM users WHERE id = ?`

	updatePasswordSQL = `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`
)

// vendor
const (
	insertHotelSQL = `
INSERT INTO hotels
  (id, owner_user_id, name, description, address_line1, address_line2, city_id,
   star_rating, phone, email, status, property_type, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'active', ?, ?, ?)`

	insertHotelAmenitySQL = `INSERT INTO hotel_amenities (hotel_id, amenity_id) VALUES (?, ?)`

	ownedHotelSQL = `
SELECT h.id, h.name, h.city_id, COALESCE(c.name, '') AS city_name, h.star_rating
FROM hotels h
LEFT JOIN cities c ON c.id = h.city_id
WHERE h.id = ? AND h.owner_user_id = ?`

	roomNumbersSQL = `SELECT room_number FROM rooms WHERE hotel_id = ?`

	insertRoomTypeSQL = `
INSERT INTO room_types (id, hotel_id, name, description, max_guests, area_sq_m, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	insertRoomTypeAmenitySQL = `INSERT INTO room_type_amenities (room_type_id, amenity_id) VALUES (?, ?)`

	insertRateSQL = `
INSERT INTO room_type_rates
  (id, room_type_id, currency, price, valid_from, valid_to, min_stay, max_stay, inventory, created_at, updated_at)
VALUES (?, ?, ?, ?, NULL, NULL, ?, ?, ?, ?, ?)`

	insertRoomSQL = `
INSERT INTO rooms (id, hotel_id, room_type_id, room_number, floor, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
)

// dashboards
const (
	vendorProfileSQL = `
SELECT first_name, COALESCE(last_name, '') AS last_name, COALESCE(phone, '') AS phone
FROM user_profiles
WHERE user_id = ?`

	vendorHotelsSQL = `
SELECT h.id, h.name, COALESCE(c.name, '') AS city, h.star_rating, COALESCE(h.status, '') AS status,
       (SELECT COUNT(*) FROM rooms r WHERE r.hotel_id = h.id) AS room_count
FROM hotels h
LEFT JOIN cities c ON c.id = h.city_id
WHERE h.owner_user_id = ?
ORDER BY h.created_at DESC
LIMIT 50`

	hotelBookingsForHotelsSQL = `
SELECT hb.id, hb.booking_ref, COALESCE(h.name, '') AS subject, COALESCE(u.email, '') AS user_email,
       up.first_name, up.last_name, hb.status, hb.total_amount, hb.created_at
FROM hotel_bookings hb
LEFT JOIN hotels h ON h.id = hb.hotel_id
LEFT JOIN users u ON u.id = hb.user_id
LEFT JOIN user_profiles up ON up.user_id = hb.user_id
WHERE hb.hotel_id IN (?)
ORDER BY hb.created_at DESC
LIMIT 40`

	hotelStatsSQL = `
SELECT COUNT(*) AS total_bookings, COALESCE(SUM(total_amount), 0) AS total_revenue
FROM hotel_bookings
WHERE hotel_id IN (?)`

	hotelPayoutsSQL = `
SELECT p.id, p.amount, p.method, p.status, p.created_at AS paid_at
FROM payments p
WHERE p.hotel_booking_id IN (SELECT id FROM hotel_bookings WHERE hotel_id IN (?))
ORDER BY p.created_at DESC
LIMIT 8`

	vendorRoomsSQL = `
SELECT r.hotel_id, r.room_number, r.floor, r.status, COALESCE(rt.name, '') AS room_type_name
FROM rooms r
LEFT JOIN room_types rt ON rt.id = r.room_type_id
WHERE r.hotel_id IN (?)
ORDER BY r.hotel_id, r.room_number`

	vendorProvidersSQL = `
SELECT id, name, provider_type, code, contact_info, registration_number, vehicle_type, created_at
FROM transport_providers
WHERE owner_user_id = ?
ORDER BY created_at DESC
LIMIT 20`

	providerRoutesSQL = `
SELECT tr.id, tr.provider_id, COALESCE(tr.transport_type, '') AS transport_type,
       tr.departure_datetime, tr.arrival_datetime,
       COALESCE(fc.name, '') AS from_city, COALESCE(tc.name, '') AS to_city
FROM transport_routes tr
LEFT JOIN cities fc ON fc.id = tr.from_city_id
LEFT JOIN cities tc ON tc.id = tr.to_city_id
WHERE tr.provider_id IN (?)
ORDER BY tr.departure_datetime ASC
LIMIT 40`

	transportBookingsForProvidersSQL = `
SELECT tb.id, tb.booking_ref, COALESCE(tp.name, '') AS subject, COALESCE(u.email, '') AS user_email,
       up.first_name, up.last_name, tb.status, tb.total_amount, tb.created_at
FROM transport_bookings tb
LEFT JOIN transport_providers tp ON tp.id = tb.provider_id
LEFT JOIN users u ON u.id = tb.user_id
LEFT JOIN user_profiles up ON up.user_id = tb.user_id
WHERE tb.provider_id IN (?)
ORDER BY tb.created_at DESC
LIMIT 40`

	transportStatsSQL = `
SELECT COUNT(*) AS total_bookings, COALESCE(SUM(total_amount), 0) AS total_revenue
FROM transport_bookings
WHERE provider_id IN (?)`

	transportPayoutsSQL = `
SELECT p.id, p.amount, p.method, p.status, p.created_at AS paid_at
FROM payments p
WHERE p.transport_booking_id IN (SELECT id FROM transport_bookings WHERE provider_id IN (?))
ORDER BY p.created_at DESC
LIMIT 8`

	userProfileSQL = `SELECT first_name, last_name, phone, dob, gender FROM user_profiles WHERE user_id = ?`

	userAddressesSQL = `
SELECT id, label, line1, line2, city_id, state, postal_code, is_default
FROM user_addresses
WHERE user_id = ?
ORDER BY is_default DESC, created_at DESC`

	userHotelBookingsSQL = `
SELECT hb.id, hb.booking_ref, COALESCE(h.name, '') AS subject, '' AS user_email,
       NULL AS first_name, NULL AS last_name, hb.status, hb.total_amount, hb.created_at
FROM hotel_bookings hb
LEFT JOIN hotels h ON h.id = hb.hotel_id
WHERE hb.user_id = ?
ORDER BY hb.created_at DESC
LIMIT 12`

	userTransportBookingsSQL = `
SELECT tb.id, tb.booking_ref, COALESCE(tp.name, '') AS subject, '' AS user_email,
       NULL AS first_name, NULL AS last_name, tb.status, tb.total_amount, tb.created_at
FROM transport_bookings tb
LEFT JOIN transport_providers tp ON tp.id = tb.provider_id
WHERE tb.user_id = ?
ORDER BY tb.created_at DESC
LIMIT 12`

	userReviewsSQL = `
SELECT hr.id, hr.hotel_id, COALESCE(h.name, '') AS hotel_name, hr.rating,
       COALESCE(hr.title, '') AS title,
       COALESCE(hr.comment, '') AS comment,
       COALESCE(up.first_name, 'Guest') AS user_name,
       hr.created_at
FROM hotel_reviews hr
LEFT JOIN hotels h ON h.id = hr.hotel_id
LEFT JOIN user_profiles up ON up.user_id = hr.user_id
WHERE hr.user_id = ?
ORDER BY hr.created_at DESC
LIMIT 20`

	userInvoicesSQL = `
SELECT id, invoice_number, amount, issue_date, COALESCE(pdf_url, '') AS pdf_url
FROM invoices
WHERE issued_to_user_id = ?
ORDER BY issue_date DESC
LIMIT 12`

	adminStatsSQL = `
SELECT (SELECT COUNT(*) FROM users) AS user_count,
       (SELECT COUNT(*) FROM hotels) AS hotel_count,
       (SELECT COALESCE(SUM(amount), 0) FROM payments) AS revenue`
)

const faqsSQL = `SELECT id, question, answer FROM faqs ORDER BY sort_order, id`
