package validate

import (
	"testing"

	"github.com/go-account-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid() domain.CreateUserRequest {
	return domain.CreateUserRequest{
		Name:     "Alice Example",
		Email:    "alice@x.com",
		Password: "secret1",
		Phone:    "+15551234567",
	}
}

func TestStruct_Valid(t *testing.T) {
	req := valid()
	require.NoError(t, Struct(&req))
}

func TestStruct_FieldRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.CreateUserRequest)
		substr string
	}{
		{"missing name", func(r *domain.CreateUserRequest) { r.Name = "" }, "required"},
		{"short name", func(r *domain.CreateUserRequest) { r.Name = "Al" }, "at least 3"},
		{"bad email", func(r *domain.CreateUserRequest) { r.Email = "not-an-email" }, "valid email"},
		{"short password", func(r *domain.CreateUserRequest) { r.Password = "abc" }, "at least 6"},
		{"national phone", func(r *domain.CreateUserRequest) { r.Phone = "5551234567" }, "international format"},
		{"phone with spaces", func(r *domain.CreateUserRequest) { r.Phone = "+1 555 123 4567" }, "international format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid()
			tc.mutate(&req)
			err := Struct(&req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.substr)
		})
	}
}

func TestStruct_UpdateAllowsPartial(t *testing.T) {
	assert.NoError(t, Struct(&domain.UpdateUserRequest{}))

	name := "Al"
	err := Struct(&domain.UpdateUserRequest{Name: &name})
	assert.Error(t, err)
}
