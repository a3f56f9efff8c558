package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleFromParam(t *testing.T) {
	cases := map[string]Role{
		"student":        RoleStudent,
		"faculty":        RoleFaculty,
		"industryexpert": RoleIndustryExpert,
		"uniadmin":       RoleUniversityAdmin,
	}
	for param, want := range cases {
		role, ok := RoleFromParam(param)
		require.True(t, ok, param)
		assert.Equal(t, want, role)
	}

	_, ok := RoleFromParam("Student") // params are lowercase, roles are not
	assert.False(t, ok)
	_, ok = RoleFromParam("wizard")
	assert.False(t, ok)
}

func TestRole_LandingRoutesMatchBindings(t *testing.T) {
	// The landing route each role gets at login is the same prefix the route
	// guard grants it. If these drift, users log in to an area that rejects them.
	for _, binding := range RouteBindings {
		assert.Equal(t, binding.Prefix, binding.Role.LandingRoute())
	}
}

func TestRole_StagingKeysDistinct(t *testing.T) {
	seen := map[string]Role{}
	for role := range roleSpecs {
		key := role.StagingKeyPrefix()
		require.NotEmpty(t, key)
		if prev, dup := seen[key]; dup {
			t.Fatalf("roles %s and %s share staging key %s", prev, role, key)
		}
		seen[key] = role
	}
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleStudent.IsValid())
	assert.True(t, RoleUniversityAdmin.IsValid())
	assert.False(t, Role("").IsValid())
	assert.False(t, Role("student").IsValid()) // case-sensitive wire strings
}
