package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"didattika-backend/internal/synthesis"
)

func newChatRouter(synth synthesis.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc, _ := newChatService(synth)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "guest:test-guest")
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var payload map[string]any
	if resp.Body.Len() > 0 {
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp, payload
}

func TestChatEndpointReturnsReplyEnvelope(t *testing.T) {
	r := newChatRouter(&echoClient{})

	resp, payload := doJSON(t, r, http.MethodPost, "/api/v1/chat", `{"message":"Spiegami la fotosintesi"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.Code, payload)
	}
	if payload["message"] != "echo: Spiegami la fotosintesi" {
		t.Fatalf("unexpected message %v", payload["message"])
	}
	if payload["conversation_id"] == "" || payload["conversation_id"] == nil {
		t.Fatalf("expected conversation_id in response")
	}
	if payload["persona"] != "tutor" {
		t.Fatalf("expected default persona tutor, got %v", payload["persona"])
	}
	if payload["timestamp"] == nil {
		t.Fatalf("expected timestamp in response")
	}
}

func TestChatEndpointEmptyMessage(t *testing.T) {
	r := newChatRouter(&echoClient{})

	resp, payload := doJSON(t, r, http.MethodPost, "/api/v1/chat", `{"message":""}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if payload["error"] != "Message is required" {
		t.Fatalf("unexpected error %v", payload["error"])
	}
}

func TestChatEndpointOverlongMessage(t *testing.T) {
	r := newChatRouter(&echoClient{})

	body, _ := json.Marshal(map[string]string{"message": strings.Repeat("a", MaxMessageLen+1)})
	resp, payload := doJSON(t, r, http.MethodPost, "/api/v1/chat", string(body))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if payload["error"] != "Message exceeds the 1000 character limit" {
		t.Fatalf("unexpected error %v", payload["error"])
	}
}

func TestChatEndpointSynthesisUnavailable(t *testing.T) {
	r := newChatRouter(synthesis.PlaceholderClient{})

	resp, payload := doJSON(t, r, http.MethodPost, "/api/v1/chat", `{"message":"ciao"}`)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
	if payload["error"] != "AI service is temporarily unavailable" {
		t.Fatalf("unexpected error %v", payload["error"])
	}
}

func TestAskDocumentEndpointNoMatchingDocuments(t *testing.T) {
	r := newChatRouter(&echoClient{})

	resp, payload := doJSON(t, r, http.MethodPost, "/api/v1/chat/ask-document",
		`{"message":"di cosa parla?","document_ids":["missing"]}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if payload["error"] != "Document not found" {
		t.Fatalf("unexpected error %v", payload["error"])
	}
}

func TestAskDocumentEndpointHappyPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client := &echoClient{}
	svc, docs := newChatService(client)
	seedCompletedDoc(t, docs, "d1", "guest:test-guest")

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "guest:test-guest")
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	resp, payload := doJSON(t, r, http.MethodPost, "/api/v1/chat/ask-document",
		`{"message":"di cosa parla?","document_ids":["d1"],"persona":"docente"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.Code, payload)
	}
	if payload["persona"] != "docente" {
		t.Fatalf("expected persona docente, got %v", payload["persona"])
	}
}

func TestConversationEndpointsLifecycle(t *testing.T) {
	r := newChatRouter(&echoClient{})

	resp, created := doJSON(t, r, http.MethodPost, "/api/v1/chat/conversations", `{"persona":"coach","title":"Ripasso"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", resp.Code, created)
	}
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("expected conversation id, got %v", created)
	}
	if docIDs, ok := created["document_ids"].([]any); !ok || docIDs == nil {
		t.Fatalf("document_ids should be an empty array, got %v", created["document_ids"])
	}

	resp, renamed := doJSON(t, r, http.MethodPut, "/api/v1/chat/conversations/"+id, `{"title":"Ripasso di storia"}`)
	if resp.Code != http.StatusOK || renamed["title"] != "Ripasso di storia" {
		t.Fatalf("rename failed: %d %v", resp.Code, renamed)
	}

	resp, listing := doJSON(t, r, http.MethodGet, "/api/v1/chat/conversations", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if total, _ := listing["total"].(float64); total != 1 {
		t.Fatalf("expected total 1, got %v", listing["total"])
	}

	resp, _ = doJSON(t, r, http.MethodDelete, "/api/v1/chat/conversations/"+id, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", resp.Code)
	}

	resp, payload := doJSON(t, r, http.MethodGet, "/api/v1/chat/conversations/"+id, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
	if payload["error"] != "Conversation not found" {
		t.Fatalf("unexpected error %v", payload["error"])
	}
}
