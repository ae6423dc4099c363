package session

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestClaimsFromLocals(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name    string
		token   interface{}
		wantID  uuid.UUID
		wantErr bool
		role    string
	}{
		{"no token", nil, uuid.Nil, true, ""},
		{"valid", &jwt.Token{Claims: jwt.MapClaims{"sub": id.String(), "role": "tutor"}}, id, false, "tutor"},
		{"missing sub", &jwt.Token{Claims: jwt.MapClaims{"role": "student"}}, uuid.Nil, true, "student"},
		{"bad sub", &jwt.Token{Claims: jwt.MapClaims{"sub": "nope"}}, uuid.Nil, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var gotID uuid.UUID
			var gotErr error
			var gotRole string
			app.Get("/", func(c *fiber.Ctx) error {
				if tt.token != nil {
					c.Locals("user", tt.token)
				}
				gotID, gotErr = GetUserID(c)
				gotRole = GetRole(c)
				return nil
			})
			if _, err := app.Test(httptest.NewRequest("GET", "/", nil), -1); err != nil {
				t.Fatalf("request: %v", err)
			}
			if (gotErr != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", gotErr, tt.wantErr)
			}
			if gotID != tt.wantID {
				t.Fatalf("id = %s, want %s", gotID, tt.wantID)
			}
			if gotRole != tt.role {
				t.Fatalf("role = %q, want %q", gotRole, tt.role)
			}
		})
	}
}
