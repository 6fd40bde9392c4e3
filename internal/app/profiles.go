package app

import (
	"context"

	"everjourney/internal/domain"
)

// ProfilePage is what /profile renders; exactly one of the role sections is set.
type ProfilePage struct {
	User   domain.SessionUser
	Vendor *domain.VendorDashboard
	Member *domain.UserProfile
	Admin  *domain.AdminStats
}

type ProfileService struct {
	repo domain.DashboardRepository
}

func NewProfileService(r domain.DashboardRepository) *ProfileService {
	return &ProfileService{repo: r}
}

// Profile picks the dashboard for the visitor's role. Failed loads render
// the page with whatever the repository managed to return.
func (s *ProfileService) Profile(ctx context.Context, u domain.SessionUser) ProfilePage {
	p := ProfilePage{User: u}
	switch u.Role {
	case domain.RoleAdmin:
		st, err := s.repo.AdminStats(ctx)
		degrade("profile", "admin", err)
		p.Admin = &st
	case domain.RoleVendor:
		vendorType := u.VendorType
		if vendorType == "" {
			vendorType = domain.VendorHotel
		}
		d, err := s.repo.VendorDashboard(ctx, u.ID, vendorType)
		degrade("profile", "vendor", err)
		p.Vendor = &d
	default:
		m, err := s.repo.UserProfile(ctx, u.ID)
		degrade("profile", "user", err)
		p.Member = &m
	}
	return p
}

type SupportService struct {
	faqs domain.FAQRepository
}

func NewSupportService(f domain.FAQRepository) *SupportService {
	return &SupportService{faqs: f}
}

func (s *SupportService) FAQs(ctx context.Context) []domain.FAQ {
	v, err := s.faqs.List(ctx)
	if !degrade("support", "faqs", err) || v == nil {
		return []domain.FAQ{}
	}
	return v
}
