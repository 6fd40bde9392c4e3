package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpserver "everjourney/internal/adapters/http_server"
	redisad "everjourney/internal/adapters/redis"
	"everjourney/internal/app"
	"everjourney/internal/storage/sqlstore"
)

const (
	seasidePalms  = "b0000000-0000-0000-0000-000000000001"
	deluxeSeaView = "d0000000-0000-0000-0000-000000000001"
	goa           = "a0000000-0000-0000-0000-000000000001"
)

// site wires the whole web stack over a seeded in-memory database.
func site(t *testing.T, opts httpserver.Options) http.Handler {
	t.Helper()
	ctx := context.Background()
	db, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, ":memory:", sqlstore.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlstore.Migrate(ctx, db))
	require.NoError(t, sqlstore.Seed(ctx, db))
	store := sqlstore.New(db)

	cache := redisad.NewLocal()
	t.Cleanup(func() { _ = cache.Close() })
	catalog := app.NewCatalogService(store, store, cache, time.Minute)

	if opts.SessionSecret == "" {
		opts.SessionSecret = "test-secret"
	}
	h, err := httpserver.NewHandlers(httpserver.Services{
		Catalog:  catalog,
		Accounts: app.NewAccountService(store, bcrypt.MinCost),
		Vendor:   app.NewVendorService(store, store, catalog),
		Profiles: app.NewProfileService(store),
		Support:  app.NewSupportService(store.FAQs()),
		Sessions: redisad.NewSessions(nil, time.Hour, 0),
		DB:       store,
	}, opts)
	require.NoError(t, err)
	t.Cleanup(h.Close)

	srv := httpserver.New(5 * time.Second)
	srv.MountHandlers(h)
	return srv.Mux()
}

func get(t *testing.T, h http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func post(t *testing.T, h http.Handler, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "ej_session" && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie in response (status %d)", rec.Code)
	return nil
}

func userSignup(email string) url.Values {
	return url.Values{
		"first_name":       {"Asha"},
		"email":            {email},
		"password":         {"correct-horse"},
		"password_confirm": {"correct-horse"},
		"accept_terms":     {"1"},
	}
}

func TestHealthAndDBInfo(t *testing.T) {
	h := site(t, httpserver.Options{})

	rec := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK - Server running", rec.Body.String())

	rec = get(t, h, "/_dbinfo")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		OK     bool              `json:"ok"`
		DBInfo map[string]string `json:"dbinfo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, map[string]string{"db": "main", "schema": "main"}, body.DBInfo)

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	req := httptest.NewRequest(http.MethodGet, "/_dbinfo", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = get(t, h, "/debug-db")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"driver":"sqlite"`)
}

func TestPublicPages(t *testing.T) {
	h := site(t, httpserver.Options{})

	cases := []struct {
		path string
		want string
	}{
		{"/", "Seaside Palms"},
		{"/stays/hotels", "Harbour View Inn"},
		{"/hotels?stars=5", "Pink City Haveli"},
		{"/packages", "Goa Beach Break"},
		{"/package-list", "Royal Rajasthan"},
		{"/transport", "Konkan Coaches"},
		{"/deals", "Hotel deals"},
		{"/support", "Can I list my hotel?"},
		{"/hotel/" + seasidePalms, "Deluxe Sea View"},
		{"/hotel/" + seasidePalms + "/room/" + deluxeSeaView, "Balcony facing the sea."},
		{"/auth", "Join as a vendor"},
		{"/vendor/join", "Travel operators"},
		{"/vendor/hotel/signup", "Your property"},
		{"/vendor/travel/login", "Travel Vendor sign in"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := get(t, h, tc.path)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tc.want)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		})
	}
}

func TestHotelFilterExcludesOthers(t *testing.T) {
	h := site(t, httpserver.Options{})
	rec := get(t, h, "/stays/hotels?city="+goa)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Seaside Palms")
	assert.NotContains(t, rec.Body.String(), "Pink City Haveli")
}

func TestNotFound(t *testing.T) {
	h := site(t, httpserver.Options{})

	rec := get(t, h, "/hotel/does-not-exist")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	rec = get(t, h, "/hotel/"+seasidePalms+"/room/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, h, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRedirects(t *testing.T) {
	h := site(t, httpserver.Options{})

	cases := []struct{ path, want string }{
		{"/home", "/"},
		{"/search?kind=transport&from_city=x&junk=1", "/transport?from_city=x"},
		{"/search?q=goa&guests=2", "/stays/hotels?guests=2&q=goa"},
		{"/profile", "/auth/login?redirect=%2Fprofile"},
		{"/vendor/dashboard", "/auth/login?redirect=%2Fvendor%2Fdashboard"},
	}
	for _, tc := range cases {
		rec := get(t, h, tc.path)
		assert.Equal(t, http.StatusFound, rec.Code, tc.path)
		assert.Equal(t, tc.want, rec.Header().Get("Location"), tc.path)
	}
}

func TestSignupLoginLogout(t *testing.T) {
	h := site(t, httpserver.Options{})

	rec := post(t, h, "/auth/signup", userSignup("Asha@Example.com"))
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "/", rec.Header().Get("Location"))
	c := sessionCookie(t, rec)
	assert.True(t, c.HttpOnly)

	rec = get(t, h, "/profile", c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "asha@example.com")

	// logged-in visitors skip the auth pages
	rec = get(t, h, "/auth/login", c)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// users cannot reach vendor pages
	rec = get(t, h, "/vendor/dashboard", c)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = post(t, h, "/auth/logout", nil, c)
	assert.Equal(t, http.StatusFound, rec.Code)
	rec = get(t, h, "/profile", c)
	assert.Equal(t, http.StatusFound, rec.Code, "session must be gone after logout")

	rec = post(t, h, "/auth/login", url.Values{"email": {"asha@example.com"}, "password": {"correct-horse"}, "redirect": {"/deals"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/deals", rec.Header().Get("Location"))
	sessionCookie(t, rec)

	rec = post(t, h, "/auth/login", url.Values{"email": {"asha@example.com"}, "password": {"correct-horse"}, "redirect": {"//evil.example"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestSignupProblems(t *testing.T) {
	h := site(t, httpserver.Options{})

	form := userSignup("dup@example.com")
	require.Equal(t, http.StatusFound, post(t, h, "/auth/signup", form).Code)

	rec := post(t, h, "/auth/signup", form)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")
	assert.NotContains(t, rec.Body.String(), "correct-horse", "passwords are never echoed")
	assert.Contains(t, rec.Body.String(), `value="dup@example.com"`)

	bad := userSignup("not-an-email")
	bad.Set("password_confirm", "other-horse")
	bad.Del("accept_terms")
	rec = post(t, h, "/auth/signup", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "A valid email is required.")
	assert.Contains(t, body, "Passwords do not match.")
	assert.Contains(t, body, "You must accept the Terms of Service.")
}

func TestLoginFailures(t *testing.T) {
	h := site(t, httpserver.Options{})
	require.Equal(t, http.StatusFound, post(t, h, "/auth/signup", userSignup("lin@example.com")).Code)

	rec := post(t, h, "/auth/login", url.Values{"email": {"lin@example.com"}, "password": {"wrong-horse"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password.")

	// a user account is not a vendor login
	rec = post(t, h, "/vendor/hotel/login", url.Values{"email": {"lin@example.com"}, "password": {"correct-horse"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(t, h, "/auth/login", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter your email.")
}

func TestTamperedCookieIsAnonymous(t *testing.T) {
	h := site(t, httpserver.Options{})
	rec := post(t, h, "/auth/signup", userSignup("eve@example.com"))
	c := sessionCookie(t, rec)

	forged := &http.Cookie{Name: c.Name, Value: c.Value + "x"}
	rec = get(t, h, "/profile", forged)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestHotelVendorAddsHotelAndRooms(t *testing.T) {
	h := site(t, httpserver.Options{})

	rec := post(t, h, "/vendor/hotel/signup", url.Values{
		"first_name":       {"Meera"},
		"email":            {"meera@palms.example"},
		"password":         {"correct-horse"},
		"password_confirm": {"correct-horse"},
		"accept_terms":     {"1"},
		"hotel_name":       {"Meera Stays"},
		"hotel_address":    {"3 Fort Road"},
		"hotel_city":       {"Goa"},
	})
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "/vendor/dashboard", rec.Header().Get("Location"))
	c := sessionCookie(t, rec)

	rec = get(t, h, "/vendor/dashboard", c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Meera Stays")

	rec = get(t, h, "/vendor/hotels/new", c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Free WiFi")

	rec = post(t, h, "/vendor/hotels", url.Values{"hotel_name": {""}}, c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hotel name is required.")

	rec = post(t, h, "/vendor/hotels", url.Values{
		"hotel_name":    {"Meera Annexe"},
		"address_line1": {"5 Fort Road"},
		"city_id":       {goa},
		"star_rating":   {"4"},
		"amenity_ids[]": {"e0000000-0000-0000-0000-000000000001"},
	}, c)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	loc := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/vendor/hotels/") && strings.HasSuffix(loc, "/rooms/new"), loc)
	hotelID := strings.TrimSuffix(strings.TrimPrefix(loc, "/vendor/hotels/"), "/rooms/new")

	rec = get(t, h, loc, c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Meera Annexe")

	rooms := url.Values{
		"room_type_name":    {"Garden Double"},
		"base_price":        {"3500"},
		"room_count":        {"3"},
		"room_number_start": {"101"},
		"rooms_active":      {"1"},
	}
	rec = post(t, h, "/vendor/hotels/"+hotelID+"/rooms", rooms, c)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "/vendor/dashboard", rec.Header().Get("Location"))

	rooms.Set("room_number_start", "103")
	rec = post(t, h, "/vendor/hotels/"+hotelID+"/rooms", rooms, c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "These room numbers already exist for this hotel: 103.")

	rec = get(t, h, "/hotel/"+hotelID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Garden Double")

	// someone else's hotel
	rec = get(t, h, "/vendor/hotels/"+seasidePalms+"/rooms/new", c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = post(t, h, "/vendor/hotels/"+seasidePalms+"/rooms", rooms, c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTravelVendorCannotAddHotels(t *testing.T) {
	h := site(t, httpserver.Options{})
	rec := post(t, h, "/vendor/travel/signup", url.Values{
		"first_name":       {"Ravi"},
		"email":            {"ravi@coaches.example"},
		"password":         {"correct-horse"},
		"password_confirm": {"correct-horse"},
		"accept_terms":     {"1"},
		"provider_name":    {"Ravi Coaches"},
		"provider_type":    {"bus"},
		"service_city":     {"Pune"},
	})
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	c := sessionCookie(t, rec)

	rec = get(t, h, "/vendor/dashboard", c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ravi Coaches")

	assert.Equal(t, http.StatusForbidden, get(t, h, "/vendor/hotels/new", c).Code)
	assert.Equal(t, http.StatusForbidden, post(t, h, "/vendor/hotels", url.Values{"hotel_name": {"x"}}, c).Code)

	rec = get(t, h, "/vendor/hotels/"+seasidePalms+"/rooms/new", c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Only hotel vendors can add rooms.")
	rec = post(t, h, "/vendor/hotels/"+seasidePalms+"/rooms", url.Values{"room_type_name": {"x"}, "base_price": {"1"}, "room_count": {"1"}}, c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Only hotel vendors can add rooms.")
}

func TestLoginRateLimited(t *testing.T) {
	h := site(t, httpserver.Options{LoginRPS: 0.001, LoginBurst: 2})
	form := url.Values{"email": {"nobody@example.com"}, "password": {"whatever-1"}}

	assert.Equal(t, http.StatusUnauthorized, post(t, h, "/auth/login", form).Code)
	assert.Equal(t, http.StatusUnauthorized, post(t, h, "/auth/login", form).Code)
	rec := post(t, h, "/auth/login", form)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// GETs are never counted
	assert.Equal(t, http.StatusOK, get(t, h, "/auth/login").Code)
}
