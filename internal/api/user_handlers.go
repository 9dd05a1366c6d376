package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile and poem identity",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)
}

// IdentityResponse is the poem identity derived from a user account.
type IdentityResponse struct {
	Handle      string `json:"handle" doc:"Stable identity handle, used for ownership and appreciations"`
	DisplayName string `json:"display_name,omitempty" doc:"Preferred signature name"`
	Email       string `json:"email,omitempty" doc:"Signature fallback when display name is empty"`
}

// CurrentUserResponse contains the current user with their identity.
type CurrentUserResponse struct {
	User     UserResponse     `json:"user" doc:"User profile"`
	Identity IdentityResponse `json:"identity" doc:"Identity used to sign and own poems"`
}

// CurrentUserOutput wraps the current user response for Huma.
type CurrentUserOutput struct {
	Body CurrentUserResponse
}

// CurrentUserInput carries the Authorization header.
type CurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *CurrentUserInput) (*CurrentUserOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	ident := user.Identity()

	return &CurrentUserOutput{
		Body: CurrentUserResponse{
			User: UserResponse{
				ID:          user.ID,
				Email:       user.Email,
				DisplayName: user.DisplayName,
				CreatedAt:   user.CreatedAt,
				UpdatedAt:   user.UpdatedAt,
				LastLoginAt: user.LastLoginAt,
			},
			Identity: IdentityResponse{
				Handle:      ident.Handle,
				DisplayName: ident.DisplayName,
				Email:       ident.Email,
			},
		},
	}, nil
}
