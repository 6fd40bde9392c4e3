package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"github.com/rs/zerolog/log"

	"everjourney/internal/app"
	"everjourney/internal/domain"
	"everjourney/internal/storage/sqlstore"
)

// DBInspector reports which database the process is connected to.
type DBInspector interface {
	DBInfo(ctx context.Context) (sqlstore.DBInfo, error)
}

type Options struct {
	UploadsDir    string
	AssetsDir     string
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool
	LoginRPS      float64
	LoginBurst    int
}

type Handlers struct {
	catalog  *app.CatalogService
	accounts *app.AccountService
	vendor   *app.VendorService
	profiles *app.ProfileService
	support  *app.SupportService
	sessions domain.SessionStore
	db       DBInspector

	opts    Options
	cookies *securecookie.SecureCookie
	limiter *RateLimiter
	views   *views
}

// Services bundles what the handlers call into.
type Services struct {
	Catalog  *app.CatalogService
	Accounts *app.AccountService
	Vendor   *app.VendorService
	Profiles *app.ProfileService
	Support  *app.SupportService
	Sessions domain.SessionStore
	DB       DBInspector
}

func NewHandlers(s Services, opts Options) (*Handlers, error) {
	if opts.SessionSecret == "" {
		return nil, errors.New("httpserver: session secret is required")
	}
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.LoginRPS <= 0 {
		opts.LoginRPS = 1
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 10
	}
	return &Handlers{
		catalog:  s.Catalog,
		accounts: s.Accounts,
		vendor:   s.Vendor,
		profiles: s.Profiles,
		support:  s.Support,
		sessions: s.Sessions,
		db:       s.DB,
		opts:     opts,
		cookies:  newCookieCodec(opts.SessionSecret, opts.SessionTTL),
		limiter:  NewRateLimiter(opts.LoginRPS, opts.LoginBurst),
		views:    v,
	}, nil
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.NotFound(h.notFound)
	s.mux.Group(func(m chi.Router) {
		m.Use(h.LoadSession)
		h.routes(m)
	})
}

func (h *Handlers) routes(m chi.Router) {
	m.Get("/health", h.health)
	m.Get("/_dbinfo", h.dbInfo)
	m.Get("/debug-db", h.debugDB)
	m.Handle("/uploads/*", static("/uploads/", h.opts.UploadsDir))
	m.Handle("/assets/*", static("/assets/", h.opts.AssetsDir))

	m.Get("/", h.home)
	m.Get("/home", redirect("/"))
	m.Get("/search", h.search)
	m.Get("/support", h.supportPage)

	// listings
	m.Get("/stays/hotels", h.hotels)
	m.Get("/hotels", h.hotels)
	m.Get("/packages/index", h.packages)
	m.Get("/package-list", h.packages)
	m.Get("/packages", h.packages)
	m.Get("/transport", h.transport)
	m.Get("/deals", h.deals)
	m.Get("/hotel/{hotelID}", h.hotelDetail)
	m.Get("/hotel/{hotelID}/room/{roomTypeID}", h.roomDetail)

	// auth
	m.Get("/auth", h.authIndex)
	m.Get("/auth/login", h.loginForm(domain.SignupUser))
	m.Get("/login", h.loginForm(domain.SignupUser))
	m.Get("/auth/signup", h.signupForm(domain.SignupUser))
	m.Get("/signup", h.signupForm(domain.SignupUser))
	m.Get("/auth/logout", h.logout)
	m.Post("/auth/logout", h.logout)
	m.Get("/vendor/join", h.vendorJoin)
	m.Get("/vendor/hotel/login", h.loginForm(domain.SignupHotelVendor))
	m.Get("/vendor/hotel/signup", h.signupForm(domain.SignupHotelVendor))
	m.Get("/vendor/travel/login", h.loginForm(domain.SignupTravelVendor))
	m.Get("/vendor/travel/signup", h.signupForm(domain.SignupTravelVendor))
	m.Group(func(r chi.Router) {
		r.Use(h.limiter.Limit)
		r.Post("/auth/login", h.login(domain.SignupUser))
		r.Post("/auth/signup", h.signup(domain.SignupUser))
		r.Post("/vendor/hotel/login", h.login(domain.SignupHotelVendor))
		r.Post("/vendor/hotel/signup", h.signup(domain.SignupHotelVendor))
		r.Post("/vendor/travel/login", h.login(domain.SignupTravelVendor))
		r.Post("/vendor/travel/signup", h.signup(domain.SignupTravelVendor))
	})

	// logged in
	m.Group(func(r chi.Router) {
		r.Use(RequireLogin)
		r.Get("/profile", h.profile)
		r.Get("/profile/addresses/new", h.addressForm)
		r.Post("/profile/change-password", h.changePassword)
	})

	// vendors
	m.Group(func(r chi.Router) {
		r.Use(RequireLogin, RequireRole(domain.RoleVendor))
		r.Get("/vendor/dashboard", h.vendorDashboard)
		r.Get("/vendor/hotels/new", h.newHotelForm)
		r.Post("/vendor/hotels", h.createHotel)
		r.Get("/vendor/hotels/{hotelID}/rooms/new", h.newRoomsForm)
		r.Post("/vendor/hotels/{hotelID}/rooms", h.createRooms)
	})
}

// Close releases background resources held by the handlers.
func (h *Handlers) Close() { h.limiter.Stop() }

func redirect(to string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { http.Redirect(w, r, to, http.StatusFound) }
}

func static(prefix, dir string) http.Handler {
	if dir == "" {
		return http.NotFoundHandler()
	}
	return http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); status == http.StatusOK && inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK - Server running"))
}

func (h *Handlers) dbInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.db.DBInfo(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("dbinfo failed")
		writeJSON(w, r, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"ok":     true,
		"dbinfo": map[string]string{"db": info.Database, "schema": info.Schema},
	})
}

func (h *Handlers) debugDB(w http.ResponseWriter, r *http.Request) {
	info, err := h.db.DBInfo(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("debug-db failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "database unavailable")
		return
	}
	writeJSON(w, r, http.StatusOK, info)
}

func (h *Handlers) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "not_found", page{Title: "Not found"})
}

// fail maps service errors onto responses for handlers without a form to re-render.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.notFound(w, r)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, domain.ErrInvalidCredentials):
		http.Error(w, "Invalid email or password.", http.StatusUnauthorized)
	case domain.Problems(err) != nil:
		http.Error(w, domain.Problems(err)[0], http.StatusBadRequest)
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		h.render(w, r, http.StatusInternalServerError, "error", page{Title: "Error", Errors: []string{"Something went wrong. Please try again."}})
	}
}
