package httpserver

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"everjourney/internal/domain"
)

type hotelFormData struct {
	Amenities []domain.Amenity
	Cities    []domain.City
	Selected  []string
}

type roomsFormData struct {
	Hotel     domain.OwnedHotel
	Amenities []domain.Amenity
	Selected  []string
}

func (h *Handlers) vendorDashboard(w http.ResponseWriter, r *http.Request) {
	u, _ := CurrentUser(r.Context())
	h.render(w, r, http.StatusOK, "profile", page{Title: "Vendor Dashboard", Data: h.profiles.Profile(r.Context(), u)})
}

func (h *Handlers) newHotelForm(w http.ResponseWriter, r *http.Request) {
	u, _ := CurrentUser(r.Context())
	if u.VendorType != "" && u.VendorType != domain.VendorHotel {
		http.Error(w, "Only hotel vendors can add hotels.", http.StatusForbidden)
		return
	}
	h.render(w, r, http.StatusOK, "hotel_new", page{Title: "Add Hotel", Old: url.Values{}, Data: hotelFormData{
		Amenities: h.vendor.Amenities(r.Context()),
		Cities:    h.vendor.Cities(r.Context()),
	}})
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	u, _ := CurrentUser(r.Context())
	v := r.PostForm
	amenities := append(v["amenity_ids"], v["amenity_ids[]"]...)
	form := domain.HotelForm{
		Name:         v.Get("hotel_name"),
		Description:  v.Get("hotel_description"),
		AddressLine1: v.Get("address_line1"),
		AddressLine2: v.Get("address_line2"),
		CityID:       v.Get("city_id"),
		StarRating:   v.Get("star_rating"),
		Phone:        v.Get("hotel_phone"),
		Email:        v.Get("hotel_email"),
		PropertyType: v.Get("property_type"),
		AmenityIDs:   amenities,
	}

	id, err := h.vendor.CreateHotel(r.Context(), u, form)
	switch {
	case err == nil:
		http.Redirect(w, r, "/vendor/hotels/"+url.PathEscape(id)+"/rooms/new", http.StatusFound)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, "Only hotel vendors can add hotels.", http.StatusForbidden)
	case domain.Problems(err) != nil:
		h.render(w, r, http.StatusBadRequest, "hotel_new", page{Title: "Add Hotel", Errors: domain.Problems(err), Old: v, Data: hotelFormData{
			Amenities: h.vendor.Amenities(r.Context()),
			Cities:    h.vendor.Cities(r.Context()),
			Selected:  amenities,
		}})
	default:
		log.Error().Err(err).Str("owner", u.ID).Msg("create hotel failed")
		h.render(w, r, http.StatusInternalServerError, "hotel_new", page{Title: "Add Hotel", Errors: []string{"Server error while creating hotel. Please try again."}, Old: v, Data: hotelFormData{
			Amenities: h.vendor.Amenities(r.Context()),
			Cities:    h.vendor.Cities(r.Context()),
			Selected:  amenities,
		}})
	}
}

func (h *Handlers) newRoomsForm(w http.ResponseWriter, r *http.Request) {
	u, _ := CurrentUser(r.Context())
	hotel, err := h.vendor.OwnedHotel(r.Context(), u, chi.URLParam(r, "hotelID"))
	if err != nil {
		h.ownedHotelFailed(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "rooms_new", page{Title: "Add Rooms", Old: url.Values{}, Data: roomsFormData{
		Hotel:     hotel,
		Amenities: h.vendor.Amenities(r.Context()),
	}})
}

func (h *Handlers) ownedHotelFailed(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Hotel not found or you are not the owner of this hotel.", http.StatusNotFound)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, "Only hotel vendors can add rooms.", http.StatusForbidden)
	default:
		h.fail(w, r, err)
	}
}

func (h *Handlers) createRooms(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	u, _ := CurrentUser(r.Context())
	hotelID := chi.URLParam(r, "hotelID")
	v := r.PostForm
	amenities := append(v["room_amenity_ids"], v["room_amenity_ids[]"]...)
	form := domain.RoomsForm{
		RoomTypeName:        v.Get("room_type_name"),
		RoomTypeDescription: v.Get("room_type_description"),
		BasePrice:           v.Get("base_price"),
		Currency:            v.Get("currency"),
		RoomCount:           v.Get("room_count"),
		MaxGuests:           v.Get("max_guests"),
		AreaSqM:             v.Get("area_sq_m"),
		RoomNumberStart:     v.Get("room_number_start"),
		MinStay:             v.Get("min_stay"),
		MaxStay:             v.Get("max_stay"),
		DefaultFloor:        v.Get("default_floor"),
		RoomsActive:         v.Get("rooms_active") != "",
		AmenityIDs:          amenities,
	}

	rerender := func(status int, problems []string) {
		hotel, err := h.vendor.OwnedHotel(r.Context(), u, hotelID)
		if err != nil {
			hotel = domain.OwnedHotel{ID: hotelID}
		}
		h.render(w, r, status, "rooms_new", page{Title: "Add Rooms", Errors: problems, Old: v, Data: roomsFormData{
			Hotel:     hotel,
			Amenities: h.vendor.Amenities(r.Context()),
			Selected:  amenities,
		}})
	}

	err := h.vendor.AddRooms(r.Context(), u, hotelID, form)
	switch {
	case err == nil:
		http.Redirect(w, r, "/vendor/dashboard", http.StatusFound)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrForbidden):
		h.ownedHotelFailed(w, r, err)
	case domain.Problems(err) != nil:
		rerender(http.StatusBadRequest, domain.Problems(err))
	case errors.Is(err, domain.ErrRoomNumberTaken):
		rerender(http.StatusBadRequest, []string{"One or more room numbers already exist for this hotel. Please choose a different starting number."})
	default:
		log.Error().Err(err).Str("hotel", hotelID).Msg("add rooms failed")
		rerender(http.StatusInternalServerError, []string{"Server error while creating rooms. Please try again."})
	}
}
