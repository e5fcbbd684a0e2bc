package users_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/jrsteele09/go-auth-client/users"
)

func validCreateRequest() users.CreateUserRequest {
	return users.CreateUserRequest{
		NIK:            "NIK001",
		Name:           "Jane Doe",
		Password:       "Password1",
		Role:           users.RoleEngineer,
		Specialization: users.SpecializationSMED,
	}
}

func TestCreateUserRequestValid(t *testing.T) {
	require.NoError(t, validCreateRequest().Validate())
}

func TestCreateUserRequestRejectsMissingFields(t *testing.T) {
	req := validCreateRequest()
	req.NIK = "  "
	req.Name = ""

	err := req.Validate()
	var verr *users.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "nik")
	require.Contains(t, verr.Fields, "name")
}

func TestCreateUserRequestRejectsUnknownRole(t *testing.T) {
	req := validCreateRequest()
	req.Role = "SUPERVISOR"

	err := req.Validate()
	var verr *users.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "role")
}

func TestCreateUserRequestSpecializationOnlyForEngineers(t *testing.T) {
	req := validCreateRequest()
	req.Role = users.RoleTechnician

	err := req.Validate()
	var verr *users.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "specialization")
}

func TestCreateUserRequestWeakPassword(t *testing.T) {
	for _, password := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoNumbersHere"} {
		req := validCreateRequest()
		req.Password = password
		err := req.Validate()
		var verr *users.ValidationError
		require.ErrorAs(t, err, &verr, "password %q should be rejected", password)
		require.Contains(t, verr.Fields, "password")
	}
}

func TestUpdateUserRequestNilFieldsAreValid(t *testing.T) {
	require.NoError(t, users.UpdateUserRequest{}.Validate())
}

func TestUpdateUserRequestValidatesPopulatedFields(t *testing.T) {
	req := users.UpdateUserRequest{
		NIK:   utils.Ptr(""),
		Email: utils.Ptr("not-an-address"),
		Role:  utils.Ptr(users.Role("INTERN")),
	}

	err := req.Validate()
	var verr *users.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "nik")
	require.Contains(t, verr.Fields, "email")
	require.Contains(t, verr.Fields, "role")
}

func TestHasRole(t *testing.T) {
	user := &users.User{Role: users.RoleEngineer}

	require.True(t, user.HasRole(), "empty role list admits any role")
	require.True(t, user.HasRole(users.RoleEngineer, users.RoleAdmin))
	require.False(t, user.HasRole(users.RoleAdmin))

	var nobody *users.User
	require.False(t, nobody.HasRole())
}

func TestRolesFromStringsDropsUnknown(t *testing.T) {
	roles := users.RolesFromStrings([]string{"ADMIN", "SUPERVISOR", "TECHNICIAN"})
	require.Equal(t, []users.Role{users.RoleAdmin, users.RoleTechnician}, roles)
}
