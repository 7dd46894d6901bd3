package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-account-service/internal/model"
	"go-account-service/pkg/apierror"
)

func TestStruct(t *testing.T) {
	v := New()

	t.Run("valid payload passes", func(t *testing.T) {
		assert.NoError(t, v.Struct(model.RegisterRequest{
			Name:     "Ana Souza",
			Email:    "ana@example.com",
			Password: "secret-password",
		}))
	})

	t.Run("failures report json field names", func(t *testing.T) {
		err := v.Struct(model.RegisterRequest{
			Name:     "A",
			Email:    "not-an-email",
			Password: "short",
		})
		require.Error(t, err)
		assert.Equal(t, apierror.CodeBadRequest, apierror.CodeOf(err))

		msg := err.Error()
		assert.Contains(t, msg, "name")
		assert.Contains(t, msg, "email")
		assert.Contains(t, msg, "password")
	})

	t.Run("optional fields may be empty", func(t *testing.T) {
		assert.NoError(t, v.Struct(model.RegisterRequest{
			Name:     "Ana Souza",
			Email:    "ana@example.com",
			Password: "secret-password",
			Pronoun:  "",
			Phone:    "",
		}))
	})

	t.Run("national id must be 11 digits", func(t *testing.T) {
		err := v.Struct(model.RegisterRequest{
			Name:       "Ana Souza",
			Email:      "ana@example.com",
			Password:   "secret-password",
			NationalID: "12345",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "national_id")
	})
}
