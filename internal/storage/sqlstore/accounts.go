package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"everjourney/internal/domain"
)

// CreateAccount writes the user and everything its signup kind owns in one
// transaction. The email pre-check and the unique index both map to ErrEmailTaken.
func (s *Store) CreateAccount(ctx context.Context, a domain.NewAccount) error {
	now := a.CreatedAt
	if now.IsZero() {
		now = s.now()
	}
	return s.withTx(ctx, "signup", func(tx *sqlx.Tx) error {
		var existing string
		err := s.get(ctx, tx, "users.by_email", &existing, userIDByEmailSQL, a.Email)
		switch {
		case err == nil:
			return domain.ErrEmailTaken
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("signup: email check: %w", err)
		}

		if err := s.exec(ctx, tx, "users.insert", insertUserSQL,
			a.UserID, a.Email, a.PasswordHash, false, a.Role, now, now); err != nil {
			if IsUniqueViolation(err) {
				return domain.ErrEmailTaken
			}
			return fmt.Errorf("signup: insert user: %w", err)
		}

		p := a.Profile
		if err := s.exec(ctx, tx, "profiles.insert", insertProfileSQL,
			a.UserID, p.FirstName, deref(p.LastName), deref(p.Phone), deref(p.DOB), deref(p.Gender), now, now); err != nil {
			return fmt.Errorf("signup: insert profile: %w", err)
		}

		if ad := a.Address; ad != nil {
			id := ad.ID
			if id == "" {
				id = uuid.NewString()
			}
			label := ad.Label
			if label == "" {
				label = "Home"
			}
			if err := s.exec(ctx, tx, "addresses.insert", insertAddressSQL,
				id, a.UserID, label, ad.Line1, ad.Line2, deref(ad.CityID), ad.State, ad.PostalCode, ad.IsDefault, now, now); err != nil {
				return fmt.Errorf("signup: insert address: %w", err)
			}
		}

		if h := a.Hotel; h != nil {
			h.OwnerID = a.UserID
			if err := s.insertHotel(ctx, tx, *h, now); err != nil {
				return fmt.Errorf("signup: %w", err)
			}
		}

		if pr := a.Provider; pr != nil {
			contact, err := json.Marshal(pr.Contact)
			if err != nil {
				return fmt.Errorf("signup: provider contact: %w", err)
			}
			id := pr.ID
			if id == "" {
				id = uuid.NewString()
			}
			providerType := pr.ProviderType
			if providerType == "" {
				providerType = "other"
			}
			if err := s.exec(ctx, tx, "providers.insert", insertProviderSQL,
				id, pr.Name, providerType, deref(pr.Code), string(contact), a.UserID,
				deref(pr.RegistrationNumber), deref(pr.VehicleType), now, now); err != nil {
				return fmt.Errorf("signup: insert provider: %w", err)
			}
		}
		return nil
	})
}

// Credentials looks up a login by its stored (lower-cased) email. An empty
// role matches any role.
func (s *Store) Credentials(ctx context.Context, email, role string) (domain.Credentials, error) {
	var (
		c   domain.Credentials
		err error
	)
	if role == "" {
		err = s.get(ctx, s.db, "users.credentials", &c, credentialsByEmailSQL, email)
	} else {
		err = s.get(ctx, s.db, "users.credentials", &c, credentialsByRoleSQL, email, role)
	}
	if err != nil {
		return domain.Credentials{}, notFound(err, domain.ErrNotFound)
	}
	return c, nil
}

func (s *Store) CredentialsByID(ctx context.Context, id string) (domain.Credentials, error) {
	var c domain.Credentials
	if err := s.get(ctx, s.db, "users.credentials_by_id", &c, credentialsByIDSQL, id); err != nil {
		return domain.Credentials{}, notFound(err, domain.ErrNotFound)
	}
	return c, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id, hash string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(updatePasswordSQL), hash, s.now(), id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
