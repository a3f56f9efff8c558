package models

// Role identifies the kind of account a user holds. The string values are
// part of the wire contract with the portal frontend and are case-sensitive.
type Role string

const (
	RoleStudent         Role = "Student"
	RoleFaculty         Role = "Faculty"
	RoleIndustryExpert  Role = "IndustryExpert"
	RoleUniversityAdmin Role = "UniversityAdmin"
)

// RouteBinding maps a protected route prefix to the role allowed to enter it.
type RouteBinding struct {
	Prefix string
	Role   Role
}

// roleSpec collects everything that is keyed by role: the route param used in
// registration URLs, the staging-store key prefix, and the landing route the
// frontend navigates to after login. Adding a role is a single entry here.
type roleSpec struct {
	Param      string
	StagingKey string
	Landing    string
}

var roleSpecs = map[Role]roleSpec{
	RoleStudent:         {Param: "student", StagingKey: "studentRegistrationData", Landing: "/student"},
	RoleFaculty:         {Param: "faculty", StagingKey: "facultyRegistrationData", Landing: "/faculty"},
	RoleIndustryExpert:  {Param: "industryexpert", StagingKey: "industryExpertRegistrationData", Landing: "/industryexpert"},
	RoleUniversityAdmin: {Param: "uniadmin", StagingKey: "universityAdminRegistrationData", Landing: "/uniadmin"},
}

// RouteBindings is the route guard's only configuration. Bindings are checked
// in declaration order; the first matching prefix decides the required role.
var RouteBindings = []RouteBinding{
	{Prefix: "/student", Role: RoleStudent},
	{Prefix: "/faculty", Role: RoleFaculty},
	{Prefix: "/industryexpert", Role: RoleIndustryExpert},
	{Prefix: "/uniadmin", Role: RoleUniversityAdmin},
}

// IsValid reports whether r is one of the four known roles.
func (r Role) IsValid() bool {
	_, ok := roleSpecs[r]
	return ok
}

// LandingRoute returns the frontend route users with this role land on after
// login, or "" for an unrecognized role.
func (r Role) LandingRoute() string {
	return roleSpecs[r].Landing
}

// StagingKeyPrefix returns the role-derived key prefix under which pending
// registration payloads are staged. Each role has its own key space so
// parallel registrations for different roles never overwrite each other.
func (r Role) StagingKeyPrefix() string {
	return roleSpecs[r].StagingKey
}

// RouteParam returns the lowercase path segment used in registration URLs
// (e.g. /auth/register/student).
func (r Role) RouteParam() string {
	return roleSpecs[r].Param
}

// RoleFromParam resolves a registration URL segment back to a role.
func RoleFromParam(param string) (Role, bool) {
	for role, spec := range roleSpecs {
		if spec.Param == param {
			return role, true
		}
	}
	return "", false
}
