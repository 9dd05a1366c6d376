package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/chizurashi/chizurashi-server/internal/errors"
	"github.com/chizurashi/chizurashi-server/internal/validation"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"required"`
}

type createPoemRequest struct {
	Kind string  `json:"kind" validate:"required,poemkind"`
	Text string  `json:"text" validate:"required"`
	Lat  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `json:"lon" validate:"gte=-180,lte=180"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := registerRequest{
		Email:       "basho@example.com",
		Password:    "password123",
		DisplayName: "芭蕉",
	}
	assert.NoError(t, v.Validate(req))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       registerRequest
		wantField string
	}{
		{
			name:      "missing required field",
			req:       registerRequest{Email: "basho@example.com", Password: "password123"},
			wantField: "display_name",
		},
		{
			name:      "invalid email",
			req:       registerRequest{Email: "not-an-email", Password: "password123", DisplayName: "芭蕉"},
			wantField: "email",
		},
		{
			name:      "short password",
			req:       registerRequest{Email: "basho@example.com", Password: "short", DisplayName: "芭蕉"},
			wantField: "password",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.wantField)
		})
	}
}

func TestValidator_PoemKind(t *testing.T) {
	v := validation.New()

	valid := createPoemRequest{Kind: "haiku", Text: "x", Lat: 35, Lon: 135}
	assert.NoError(t, v.Validate(valid))

	valid.Kind = "tanka"
	assert.NoError(t, v.Validate(valid))

	invalid := valid
	invalid.Kind = "senryu"
	err := v.Validate(invalid)
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be haiku or tanka", details["kind"])
}

func TestValidator_CoordinateBounds(t *testing.T) {
	v := validation.New()

	req := createPoemRequest{Kind: "haiku", Text: "x", Lat: 91, Lon: 0}
	err := v.Validate(req)
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))
	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "lat")
}
