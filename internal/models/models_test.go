package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsValidRole(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidRole(RoleCustomer))
	assert.True(t, IsValidRole(RoleAdmin))
	assert.False(t, IsValidRole("superadmin"))
	assert.False(t, IsValidRole(""))
}

func TestIsValidCategory(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidCategory(CategoryMen))
	assert.True(t, IsValidCategory(CategoryWomen))
	assert.False(t, IsValidCategory("Kids"))
	assert.False(t, IsValidCategory(""))
}

func TestUserJSON_NeverExposesPassword(t *testing.T) {
	t.Parallel()

	u := User{
		ID:       primitive.NewObjectID(),
		Name:     "Ali Raza",
		Email:    "ali@ghariyaal.com",
		Password: "$argon2id$...",
		Role:     RoleCustomer,
	}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "argon2id")
	assert.NotContains(t, string(raw), "password")
	assert.Contains(t, string(raw), "ali@ghariyaal.com")
}
