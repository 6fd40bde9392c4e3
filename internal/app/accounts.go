package app

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"everjourney/internal/domain"
)

const DefaultBcryptCost = 12

var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AccountService struct {
	repo domain.AccountRepository
	cost int
	now  func() time.Time
}

func NewAccountService(r domain.AccountRepository, bcryptCost int) *AccountService {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &AccountService{repo: r, cost: bcryptCost, now: func() time.Time { return time.Now().UTC() }}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// ValidateSignup returns the form problems for the given flow, in display order.
func ValidateSignup(kind domain.SignupKind, f domain.SignupForm) []string {
	var p []string
	if strings.TrimSpace(f.FirstName) == "" {
		p = append(p, "First name is required.")
	}
	email := normalizeEmail(f.Email)
	if !emailRE.MatchString(email) {
		if kind == domain.SignupUser {
			p = append(p, "A valid email is required.")
		} else {
			p = append(p, "Valid email is required.")
		}
	}
	if len(f.Password) < 8 {
		p = append(p, "Password must be at least 8 characters.")
	}
	if f.Password != f.PasswordConfirm {
		p = append(p, "Passwords do not match.")
	}
	if kind == domain.SignupUser {
		if !f.AcceptTerms {
			p = append(p, "You must accept the Terms of Service.")
		}
		return p
	}

	if !f.AcceptTerms {
		p = append(p, "You must accept the partner terms & conditions.")
	}
	switch kind {
	case domain.SignupHotelVendor:
		if strings.TrimSpace(f.HotelName) == "" {
			p = append(p, "Hotel / property name is required.")
		}
		if strings.TrimSpace(f.HotelCity) == "" {
			p = append(p, "City / destination is required.")
		}
		if strings.TrimSpace(f.HotelAddress) == "" {
			p = append(p, "Address is required.")
		}
	case domain.SignupTravelVendor:
		if strings.TrimSpace(f.ProviderName) == "" {
			p = append(p, "Business / agency name is required.")
		}
		if strings.TrimSpace(f.ProviderType) == "" {
			p = append(p, "Service type is required.")
		}
		if strings.TrimSpace(f.ServiceCity) == "" {
			p = append(p, "Primary service city / route is required.")
		}
	}
	return p
}

// Signup validates, hashes and writes the account in one transaction, and
// returns the session payload of the new user.
func (s *AccountService) Signup(ctx context.Context, kind domain.SignupKind, f domain.SignupForm) (domain.SessionUser, error) {
	if err := domain.Invalid(ValidateSignup(kind, f)); err != nil {
		return domain.SessionUser{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), s.cost)
	if err != nil {
		return domain.SessionUser{}, err
	}

	a := domain.NewAccount{
		UserID:       uuid.NewString(),
		Email:        normalizeEmail(f.Email),
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    s.now(),
		Profile: domain.Profile{
			FirstName: strings.TrimSpace(f.FirstName),
			LastName:  optional(f.LastName),
			Phone:     optional(f.Phone),
			DOB:       optional(f.DOB),
			Gender:    optional(f.Gender),
		},
	}
	u := domain.SessionUser{ID: a.UserID, Email: a.Email}

	switch kind {
	case domain.SignupHotelVendor:
		a.Role, u.VendorType = domain.RoleVendor, domain.VendorHotel
		a.Hotel = &domain.NewHotel{
			Name:         strings.TrimSpace(f.HotelName),
			AddressLine1: strings.TrimSpace(f.HotelAddress),
			AddressLine2: optional(firstNonEmpty(f.HotelState, f.HotelCity)),
			StarRating:   starRating(f.StarRating),
			Phone:        optional(firstNonEmpty(f.HotelPhone, f.Phone)),
			Email:        a.Email,
			PropertyType: optional(f.PropertyType),
		}
	case domain.SignupTravelVendor:
		a.Role, u.VendorType = domain.RoleVendor, domain.VendorTravel
		a.Provider = &domain.NewProvider{
			Name:               strings.TrimSpace(f.ProviderName),
			ProviderType:       strings.TrimSpace(f.ProviderType),
			Code:               optional(f.ProviderCode),
			RegistrationNumber: optional(f.RegistrationNumber),
			VehicleType:        optional(f.VehicleType),
			Contact: domain.ProviderContact{
				Phone:       optional(f.Phone),
				Email:       a.Email,
				ServiceCity: strings.TrimSpace(f.ServiceCity),
			},
		}
	default:
		if firstNonEmpty(f.AddressLine1, f.AddressLine2, f.City, f.State, f.PostalCode) != "" {
			a.Address = &domain.Address{
				Label:      "Home",
				Line1:      strings.TrimSpace(f.AddressLine1),
				Line2:      strings.TrimSpace(f.AddressLine2),
				CityID:     optional(f.City),
				State:      strings.TrimSpace(f.State),
				PostalCode: strings.TrimSpace(f.PostalCode),
				IsDefault:  true,
			}
		}
	}
	u.Role = a.Role

	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return domain.SessionUser{}, err
	}
	log.Info().Str("user", u.ID).Str("kind", string(kind)).Msg("account created")
	return u, nil
}

// starRating accepts only numbers within [0, 5].
func starRating(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 || v > 5 {
		return nil
	}
	return &v
}

// Login checks the password for the flow's role. Vendor flows only accept
// vendor accounts and stamp the vendor type onto the session.
func (s *AccountService) Login(ctx context.Context, kind domain.SignupKind, email, password string) (domain.SessionUser, error) {
	email = normalizeEmail(email)
	var p []string
	if email == "" {
		p = append(p, "Please enter your email.")
	}
	if password == "" {
		p = append(p, "Please enter your password.")
	}
	if err := domain.Invalid(p); err != nil {
		return domain.SessionUser{}, err
	}

	role, vendorType := "", ""
	switch kind {
	case domain.SignupHotelVendor:
		role, vendorType = domain.RoleVendor, domain.VendorHotel
	case domain.SignupTravelVendor:
		role, vendorType = domain.RoleVendor, domain.VendorTravel
	}
	c, err := s.repo.Credentials(ctx, email, role)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.SessionUser{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.SessionUser{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
		return domain.SessionUser{}, domain.ErrInvalidCredentials
	}
	return domain.SessionUser{
		ID:         c.ID,
		Email:      c.Email,
		Role:       c.Role,
		VendorType: vendorType,
		IsVerified: c.IsVerified,
	}, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if userID == "" || current == "" || len(next) < 8 {
		return domain.Invalid([]string{"Invalid input"})
	}
	c, err := s.repo.CredentialsByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, string(hash))
}

// SafeRedirect accepts only same-site absolute paths.
func SafeRedirect(target, fallback string) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.HasPrefix(target, "/\\") {
		return target
	}
	return fallback
}
