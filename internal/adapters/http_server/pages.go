package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"everjourney/internal/domain"
	"everjourney/internal/listing"
)

// listingPage pairs one page of results with the filter form data.
type listingPage[T any] struct {
	Path   string
	Query  url.Values
	Result listing.Result[T]
	Facets domain.Facets
}

func (l listingPage[T]) PrevURL() string { return pageURL(l.Path, l.Query, l.Result.Page.Number-1) }
func (l listingPage[T]) NextURL() string { return pageURL(l.Path, l.Query, l.Result.Page.Number+1) }

func (h *Handlers) home(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Home   domain.Home
		Facets domain.Facets
	}{h.catalog.Home(r.Context()), h.catalog.Facets(r.Context())}
	h.render(w, r, http.StatusOK, "home", page{Data: data})
}

func (h *Handlers) hotels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.render(w, r, http.StatusOK, "hotels", page{Title: "Hotels", Data: listingPage[domain.HotelCard]{
		Path: r.URL.Path, Query: q, Result: h.catalog.Hotels(r.Context(), q), Facets: h.catalog.Facets(r.Context()),
	}})
}

func (h *Handlers) packages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.render(w, r, http.StatusOK, "packages", page{Title: "Holiday Packages", Data: listingPage[domain.PackageCard]{
		Path: r.URL.Path, Query: q, Result: h.catalog.Packages(r.Context(), q), Facets: h.catalog.Facets(r.Context()),
	}})
}

func (h *Handlers) transport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.render(w, r, http.StatusOK, "transport", page{Title: "Transport", Data: listingPage[domain.RouteCard]{
		Path: r.URL.Path, Query: q, Result: h.catalog.Transport(r.Context(), q), Facets: h.catalog.Facets(r.Context()),
	}})
}

func (h *Handlers) deals(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "deals", page{Title: "Deals", Data: h.catalog.Deals(r.Context(), r.URL.Query())})
}

func (h *Handlers) hotelDetail(w http.ResponseWriter, r *http.Request) {
	d, err := h.catalog.HotelDetail(r.Context(), chi.URLParam(r, "hotelID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "hotel", page{Title: d.Hotel.Name, Data: d})
}

func (h *Handlers) roomDetail(w http.ResponseWriter, r *http.Request) {
	d, err := h.catalog.RoomDetail(r.Context(), chi.URLParam(r, "hotelID"), chi.URLParam(r, "roomTypeID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "room", page{Title: d.RoomType.Name + " at " + d.Hotel.Name, Data: d})
}

var (
	hotelSearchKeys     = []string{"q", "city", "checkin", "checkout", "guests", "price_max", "stars", "room_type", "amenities", "sort"}
	transportSearchKeys = []string{"from_city", "to_city", "date", "passengers", "type", "seat_class", "price_max", "q", "sort"}
)

// searchTarget turns the unified search form into a listing URL, keeping only
// the keys that listing understands.
func searchTarget(q url.Values) string {
	kind := strings.ToLower(strings.TrimSpace(q.Get("kind")))
	if kind == "" {
		kind = strings.ToLower(strings.TrimSpace(q.Get("mode")))
	}
	base, keys := "/stays/hotels", hotelSearchKeys
	if kind == "travel" || kind == "transport" {
		base, keys = "/transport", transportSearchKeys
	}
	out := url.Values{}
	for _, k := range keys {
		for _, v := range append(q[k], q[k+"[]"]...) {
			if v != "" {
				out.Add(k, v)
			}
		}
	}
	if len(out) == 0 {
		return base
	}
	return base + "?" + out.Encode()
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, searchTarget(r.URL.Query()), http.StatusFound)
}

func (h *Handlers) supportPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "support", page{Title: "Support", Data: h.support.FAQs(r.Context())})
}

func (h *Handlers) profile(w http.ResponseWriter, r *http.Request) {
	u, _ := CurrentUser(r.Context())
	h.render(w, r, http.StatusOK, "profile", page{Title: "My Profile", Data: h.profiles.Profile(r.Context(), u)})
}

func (h *Handlers) addressForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "address_new", page{Title: "Add Address", Old: url.Values{}})
}

func (h *Handlers) changePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	u, _ := CurrentUser(r.Context())
	err := h.accounts.ChangePassword(r.Context(), u.ID, r.PostForm.Get("current_password"), r.PostForm.Get("new_password"))
	switch {
	case err == nil:
		http.Redirect(w, r, "/profile", http.StatusFound)
	case domain.Problems(err) != nil:
		http.Error(w, "Invalid input", http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidCredentials):
		http.Error(w, "Current password incorrect", http.StatusUnauthorized)
	default:
		log.Error().Err(err).Str("user", u.ID).Msg("change password failed")
		http.Error(w, "Server error", http.StatusInternalServerError)
	}
}
