package assignment

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/DevFaso/hms-sub012/internal/platform/tenant"
)

// RoleGrant is one active assignment as presented to a client.
type RoleGrant struct {
	RoleCode     string     `json:"roleCode"`
	RoleName     string     `json:"roleName"`
	HospitalID   *uuid.UUID `json:"hospitalId,omitempty"`
	HospitalName *string    `json:"hospitalName,omitempty"`
	Permissions  []string   `json:"permissions"`
}

// DashboardConfig is the merged view of everything a principal may do,
// computed fresh from the active assignments on every call.
type DashboardConfig struct {
	UserID            uuid.UUID   `json:"userId"`
	PrimaryRoleCode   string      `json:"primaryRoleCode"`
	Roles             []RoleGrant `json:"roles"`
	MergedPermissions []string    `json:"mergedPermissions"`
}

// MergedPermissions unions the permissions of every active assignment and
// elects a primary role: a super-admin assignment always wins, otherwise the
// oldest active assignment by (created_at, id). A user with no active
// assignments gets an empty config, not an error.
func (s *Service) MergedPermissions(ctx context.Context, userID uuid.UUID) (*DashboardConfig, error) {
	active, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Oldest first, id as tie-break, so the output and the primary-role
	// election are stable across calls.
	sort.SliceStable(active, func(i, j int) bool {
		if !active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].CreatedAt.Before(active[j].CreatedAt)
		}
		return active[i].ID.String() < active[j].ID.String()
	})

	cfg := &DashboardConfig{
		UserID:            userID,
		Roles:             make([]RoleGrant, 0, len(active)),
		MergedPermissions: []string{},
	}

	seen := make(map[string]bool)
	for _, a := range active {
		cfg.Roles = append(cfg.Roles, RoleGrant{
			RoleCode:     a.RoleCode,
			RoleName:     a.RoleName,
			HospitalID:   a.HospitalID,
			HospitalName: a.HospitalName,
			Permissions:  append([]string{}, a.Permissions...),
		})
		for _, p := range a.Permissions {
			if !seen[p] {
				seen[p] = true
				cfg.MergedPermissions = append(cfg.MergedPermissions, p)
			}
		}
		if a.RoleCode == tenant.SuperAdminRole {
			cfg.PrimaryRoleCode = tenant.SuperAdminRole
		}
	}
	if cfg.PrimaryRoleCode == "" && len(active) > 0 {
		cfg.PrimaryRoleCode = active[0].RoleCode
	}

	sort.Strings(cfg.MergedPermissions)
	return cfg, nil
}
