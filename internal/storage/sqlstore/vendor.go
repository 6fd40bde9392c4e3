package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"everjourney/internal/domain"
)

func (s *Store) CreateHotel(ctx context.Context, h domain.NewHotel) error {
	return s.withTx(ctx, "create_hotel", func(tx *sqlx.Tx) error {
		return s.insertHotel(ctx, tx, h, s.now())
	})
}

func (s *Store) insertHotel(ctx context.Context, tx *sqlx.Tx, h domain.NewHotel, now time.Time) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if err := s.exec(ctx, tx, "hotels.insert", insertHotelSQL,
		h.ID, h.OwnerID, h.Name, deref(h.Description), h.AddressLine1, deref(h.AddressLine2), deref(h.CityID),
		deref(h.StarRating), deref(h.Phone), h.Email, deref(h.PropertyType), now, now); err != nil {
		return fmt.Errorf("insert hotel: %w", err)
	}
	for _, aid := range uniq(h.AmenityIDs) {
		if err := s.exec(ctx, tx, "hotel_amenities.insert", insertHotelAmenitySQL, h.ID, aid); err != nil {
			return fmt.Errorf("insert hotel amenity %s: %w", aid, err)
		}
	}
	return nil
}

// OwnedHotel returns ErrNotFound when the hotel is missing or owned by someone else.
func (s *Store) OwnedHotel(ctx context.Context, hotelID, ownerID string) (domain.OwnedHotel, error) {
	var h domain.OwnedHotel
	if err := s.get(ctx, s.db, "hotels.owned", &h, ownedHotelSQL, hotelID, ownerID); err != nil {
		return domain.OwnedHotel{}, notFound(err, domain.ErrNotFound)
	}
	return h, nil
}

func (s *Store) RoomNumbers(ctx context.Context, hotelID string) ([]string, error) {
	out := []string{}
	if err := s.sel(ctx, s.db, "rooms.numbers", &out, roomNumbersSQL, hotelID); err != nil {
		return nil, fmt.Errorf("room numbers: %w", err)
	}
	return out, nil
}

// HotelRoomTypes lists room types without rates.
func (s *Store) HotelRoomTypes(ctx context.Context, hotelID string) ([]domain.RoomType, error) {
	out := []domain.RoomType{}
	if err := s.sel(ctx, s.db, "hotel.room_types", &out, roomTypesSQL, hotelID); err != nil {
		return nil, fmt.Errorf("room types: %w", err)
	}
	return out, nil
}

// CreateRooms writes the room type, its amenities, one rate and every room of
// the batch. The (hotel_id, room_number) constraint is the final word on
// collisions: a violation rolls everything back as ErrRoomNumberTaken.
func (s *Store) CreateRooms(ctx context.Context, b domain.RoomBatch) error {
	now := s.now()
	if b.RoomTypeID == "" {
		b.RoomTypeID = uuid.NewString()
	}
	return s.withTx(ctx, "add_rooms", func(tx *sqlx.Tx) error {
		if err := s.exec(ctx, tx, "room_types.insert", insertRoomTypeSQL,
			b.RoomTypeID, b.HotelID, b.Name, deref(b.Description), b.MaxGuests, deref(b.AreaSqM), now, now); err != nil {
			return fmt.Errorf("insert room type: %w", err)
		}
		for _, aid := range uniq(b.AmenityIDs) {
			if err := s.exec(ctx, tx, "room_type_amenities.insert", insertRoomTypeAmenitySQL, b.RoomTypeID, aid); err != nil {
				return fmt.Errorf("insert room type amenity %s: %w", aid, err)
			}
		}
		if err := s.exec(ctx, tx, "rates.insert", insertRateSQL,
			uuid.NewString(), b.RoomTypeID, b.Currency, b.Price, b.MinStay, deref(b.MaxStay), b.Count, now, now); err != nil {
			return fmt.Errorf("insert rate: %w", err)
		}
		for _, number := range b.Numbers() {
			err := s.exec(ctx, tx, "rooms.insert", insertRoomSQL,
				uuid.NewString(), b.HotelID, b.RoomTypeID, number, deref(b.Floor), b.Status, now, now)
			if IsUniqueViolation(err) {
				return fmt.Errorf("room %s: %w", number, domain.ErrRoomNumberTaken)
			}
			if err != nil {
				return fmt.Errorf("insert room %s: %w", number, err)
			}
		}
		return nil
	})
}

// uniq drops blanks and repeats, keeping first-seen order.
func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
