package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func profileRoutes(api *API) func(group *gin.RouterGroup) {
	return func(group *gin.RouterGroup) {
		group.GET("/profile", api.GetProfile)
		group.PUT("/profile", api.UpdateProfile)
		group.GET("/profile/bmi", api.GetBMI)
	}
}

func TestProfileAndBMI(t *testing.T) {
	api, cleanup := setupTestAPI(t, Options{})
	defer cleanup()

	client := newTestClient(newTestEngine(api, profileRoutes(api)))

	rr := client.do(t, http.MethodGet, "/api/profile", nil)
	expectStatus(t, rr, http.StatusOK)
	body := decodeBody(t, rr)
	bmi := body["bmi"].(map[string]any)
	if bmi["display"] != "—" || bmi["angle"].(float64) != -90 || bmi["status"] != "" {
		t.Fatalf("expected placeholder gauge, got %v", bmi)
	}
	if body["profile"].(map[string]any)["goal"] != "maintain" {
		t.Fatalf("expected default goal, got %v", body["profile"])
	}

	rr = client.do(t, http.MethodPut, "/api/profile", map[string]any{"height": 200, "weight": 100, "goal": "gain"})
	expectStatus(t, rr, http.StatusOK)
	body = decodeBody(t, rr)
	if body["profile"].(map[string]any)["goal"] != "gain" {
		t.Fatalf("unexpected profile: %v", body["profile"])
	}

	rr = client.do(t, http.MethodGet, "/api/profile/bmi", nil)
	expectStatus(t, rr, http.StatusOK)
	bmi = decodeBody(t, rr)
	if bmi["display"] != "25.0" || bmi["status"] != "Overweight" || bmi["valid"] != true {
		t.Fatalf("unexpected bmi: %v", bmi)
	}
}

func TestUpdateProfileRejectsNegativeValues(t *testing.T) {
	api, cleanup := setupTestAPI(t, Options{})
	defer cleanup()

	client := newTestClient(newTestEngine(api, profileRoutes(api)))

	rr := client.do(t, http.MethodPut, "/api/profile", map[string]any{"height": -170, "weight": -1})
	expectStatus(t, rr, http.StatusUnprocessableEntity)

	errs := decodeBody(t, rr)["errors"].(map[string]any)
	if errs["height"] != "Height must be a number greater than or equal to 0" {
		t.Fatalf("unexpected height error: %v", errs["height"])
	}
	if _, ok := errs["weight"]; !ok {
		t.Fatalf("expected weight error, got %v", errs)
	}
}

func TestUpdateProfileRejectsImplausibleHeight(t *testing.T) {
	api, cleanup := setupTestAPI(t, Options{})
	defer cleanup()

	client := newTestClient(newTestEngine(api, profileRoutes(api)))

	rr := client.do(t, http.MethodPut, "/api/profile", map[string]any{"height": 1e-200, "weight": 70})
	expectStatus(t, rr, http.StatusUnprocessableEntity)

	errs := decodeBody(t, rr)["errors"].(map[string]any)
	if errs["height"] != "Height must be between 30 and 300 cm" {
		t.Fatalf("unexpected height error: %v", errs["height"])
	}

	rr = client.do(t, http.MethodGet, "/api/profile/bmi", nil)
	expectStatus(t, rr, http.StatusOK)
	bmi := decodeBody(t, rr)
	if bmi["valid"] != false || bmi["display"] != "—" {
		t.Fatalf("expected placeholder bmi, got %v", bmi)
	}
}
