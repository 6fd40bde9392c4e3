package httpserver

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"everjourney/internal/app"
	"everjourney/internal/domain"
)

// flow is the per-kind wording and URLs of the three login/signup forms.
type flow struct {
	Kind      domain.SignupKind
	Label     string
	LoginURL  string
	SignupURL string
	Home      string
}

var flows = map[domain.SignupKind]flow{
	domain.SignupUser:         {Kind: domain.SignupUser, Label: "", LoginURL: "/auth/login", SignupURL: "/auth/signup", Home: "/"},
	domain.SignupHotelVendor:  {Kind: domain.SignupHotelVendor, Label: "Hotel Vendor", LoginURL: "/vendor/hotel/login", SignupURL: "/vendor/hotel/signup", Home: "/vendor/dashboard"},
	domain.SignupTravelVendor: {Kind: domain.SignupTravelVendor, Label: "Travel Vendor", LoginURL: "/vendor/travel/login", SignupURL: "/vendor/travel/signup", Home: "/vendor/dashboard"},
}

// landing is where an already logged-in visitor is sent from the auth pages.
func landing(u domain.SessionUser) string {
	switch u.Role {
	case domain.RoleVendor:
		return "/vendor/dashboard"
	case domain.RoleAdmin:
		return "/profile"
	}
	return "/"
}

func (h *Handlers) authIndex(w http.ResponseWriter, r *http.Request) {
	if u, ok := CurrentUser(r.Context()); ok {
		http.Redirect(w, r, landing(u), http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "auth_index", page{Title: "Login or Sign up", Old: r.URL.Query()})
}

func (h *Handlers) vendorJoin(w http.ResponseWriter, r *http.Request) {
	if u, ok := CurrentUser(r.Context()); ok && u.IsVendor() {
		http.Redirect(w, r, "/vendor/dashboard", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "vendor_join", page{Title: "Join as Vendor"})
}

func formTitle(f flow, action string) string {
	if f.Label == "" {
		return action
	}
	return f.Label + " " + action
}

func (h *Handlers) loginForm(kind domain.SignupKind) http.HandlerFunc {
	f := flows[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		if u, ok := CurrentUser(r.Context()); ok {
			http.Redirect(w, r, landing(u), http.StatusFound)
			return
		}
		h.render(w, r, http.StatusOK, "login", page{Title: formTitle(f, "Sign in"), Old: r.URL.Query(), Data: f})
	}
}

func (h *Handlers) login(kind domain.SignupKind) http.HandlerFunc {
	f := flows[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		old := echo(r.PostForm, "password")
		rerender := func(status int, problems []string) {
			h.render(w, r, status, "login", page{Title: formTitle(f, "Sign in"), Errors: problems, Old: old, Data: f})
		}

		u, err := h.accounts.Login(r.Context(), kind, r.PostForm.Get("email"), r.PostForm.Get("password"))
		switch {
		case err == nil:
		case domain.Problems(err) != nil:
			rerender(http.StatusBadRequest, domain.Problems(err))
			return
		case errors.Is(err, domain.ErrInvalidCredentials):
			rerender(http.StatusUnauthorized, []string{"Invalid email or password."})
			return
		default:
			log.Error().Err(err).Str("kind", string(kind)).Msg("login failed")
			rerender(http.StatusInternalServerError, []string{"Server error. Please try again."})
			return
		}

		if err := h.startSession(w, r, u); err != nil {
			log.Error().Err(err).Msg("session create failed")
			rerender(http.StatusInternalServerError, []string{"Server error. Please try again."})
			return
		}
		http.Redirect(w, r, app.SafeRedirect(r.PostForm.Get("redirect"), f.Home), http.StatusFound)
	}
}

func (h *Handlers) signupForm(kind domain.SignupKind) http.HandlerFunc {
	f := flows[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		if u, ok := CurrentUser(r.Context()); ok {
			http.Redirect(w, r, landing(u), http.StatusFound)
			return
		}
		h.render(w, r, http.StatusOK, "signup", page{Title: formTitle(f, "Sign up"), Old: r.URL.Query(), Data: f})
	}
}

// echo copies posted values for re-rendering a form, minus the secret fields.
func echo(v url.Values, drop ...string) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = vals
	}
	for _, k := range drop {
		delete(out, k)
	}
	return out
}

func parseSignup(r *http.Request) domain.SignupForm {
	v := r.PostForm
	return domain.SignupForm{
		FirstName:          v.Get("first_name"),
		LastName:           v.Get("last_name"),
		Email:              v.Get("email"),
		Password:           v.Get("password"),
		PasswordConfirm:    v.Get("password_confirm"),
		Phone:              v.Get("phone"),
		DOB:                v.Get("dob"),
		Gender:             v.Get("gender"),
		AcceptTerms:        v.Get("accept_terms") != "",
		Redirect:           v.Get("redirect"),
		AddressLine1:       v.Get("address_line1"),
		AddressLine2:       v.Get("address_line2"),
		City:               v.Get("city"),
		State:              v.Get("state"),
		PostalCode:         v.Get("postal_code"),
		Country:            v.Get("country"),
		HotelName:          v.Get("hotel_name"),
		HotelCity:          v.Get("hotel_city"),
		HotelState:         v.Get("hotel_state"),
		HotelAddress:       v.Get("hotel_address"),
		HotelPhone:         v.Get("hotel_phone"),
		StarRating:         v.Get("star_rating"),
		PropertyType:       v.Get("property_type"),
		ProviderName:       v.Get("provider_name"),
		ProviderType:       v.Get("provider_type"),
		ProviderCode:       v.Get("provider_code"),
		ServiceCity:        v.Get("service_city"),
		RegistrationNumber: v.Get("registration_number"),
		VehicleType:        v.Get("vehicle_type"),
	}
}

func (h *Handlers) signup(kind domain.SignupKind) http.HandlerFunc {
	f := flows[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		form := parseSignup(r)
		old := echo(r.PostForm, "password", "password_confirm")
		rerender := func(status int, problems []string) {
			h.render(w, r, status, "signup", page{Title: formTitle(f, "Sign up"), Errors: problems, Old: old, Data: f})
		}

		u, err := h.accounts.Signup(r.Context(), kind, form)
		switch {
		case err == nil:
		case domain.Problems(err) != nil:
			rerender(http.StatusBadRequest, domain.Problems(err))
			return
		case errors.Is(err, domain.ErrEmailTaken):
			rerender(http.StatusConflict, []string{"Email already registered"})
			return
		default:
			log.Error().Err(err).Str("kind", string(kind)).Msg("signup failed")
			rerender(http.StatusInternalServerError, []string{"Server error creating account. Please try again."})
			return
		}

		if err := h.startSession(w, r, u); err != nil {
			// the account exists; send them to log in
			log.Error().Err(err).Msg("session create failed")
			http.Redirect(w, r, f.LoginURL, http.StatusFound)
			return
		}
		http.Redirect(w, r, app.SafeRedirect(strings.TrimSpace(form.Redirect), f.Home), http.StatusFound)
	}
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	h.endSession(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}
