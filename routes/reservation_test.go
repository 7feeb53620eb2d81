package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"stay-and-go-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildReservationTestApp wires the reservation and admin parties behind the
// JWT verifier the way main does. Only the authentication and role gates are
// exercised here; everything past them needs a database.
func buildReservationTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	reservations := app.Party("/api/reservations", accessTokenVerifierMiddleware)
	{
		reservations.Post("/", CreateReservation)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/reservations", AdminGetReservations)
	}

	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

func signReservationTestToken(id uint, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func TestReservationRoutesRequireAuth(t *testing.T) {
	app := buildReservationTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/reservations", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
}

func TestAdminReservationRoutesRBAC(t *testing.T) {
	app := buildReservationTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/reservations", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/admin/reservations", nil)
	req2.Header.Set("Authorization", "Bearer "+signReservationTestToken(1, "user"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp2.Code)
	}

	req3 := httptest.NewRequest(http.MethodGet, "/api/admin/reservations", nil)
	req3.Header.Set("Authorization", "Bearer "+signReservationTestToken(1, "provider"))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for provider role, got %d", resp3.Code)
	}
}
