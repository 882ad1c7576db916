package personas

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCatalogContents(t *testing.T) {
	all := All()
	if len(all) != 3 {
		t.Fatalf("expected 3 personas, got %d", len(all))
	}
	want := []string{TypeTutor, TypeDocente, TypeCoach}
	for i, personaType := range want {
		if all[i].Type != personaType {
			t.Fatalf("position %d: expected %s, got %s", i, personaType, all[i].Type)
		}
		if all[i].SystemPrompt == "" || len(all[i].Characteristics) == 0 {
			t.Fatalf("persona %s missing prompt or characteristics", personaType)
		}
	}
}

func TestDefaultIsTutor(t *testing.T) {
	if Default().Type != TypeTutor {
		t.Fatalf("expected tutor default, got %s", Default().Type)
	}
}

func TestValid(t *testing.T) {
	if !Valid(TypeDocente) {
		t.Fatalf("docente should be valid")
	}
	if Valid("astronauta") {
		t.Fatalf("unknown persona should be invalid")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Name = "mutated"
	if Default().Name == "mutated" {
		t.Fatalf("All leaked the internal catalog")
	}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler().RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestListPersonasEndpoint(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/personas", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var payload struct {
		Personas []struct {
			Type string `json:"type"`
		} `json:"personas"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Personas) != 3 {
		t.Fatalf("expected 3 personas, got %d", len(payload.Personas))
	}
}

func TestPromptsEndpointUnknownPersona(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/personas/astronauta/prompts", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["error"] != "Persona not found" {
		t.Fatalf("unexpected error payload: %v", payload)
	}
}

func TestPromptsEndpointKnownPersona(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/personas/coach/prompts", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var payload struct {
		Type         string `json:"type"`
		SystemPrompt string `json:"system_prompt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Type != TypeCoach || payload.SystemPrompt == "" {
		t.Fatalf("unexpected prompt payload: %+v", payload)
	}
}
