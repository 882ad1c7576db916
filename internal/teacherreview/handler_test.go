package teacherreview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newReviewRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fx := newFixture(t)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "teacher-1")
		c.Set("userRole", "teacher")
		c.Next()
	})
	NewHandler(fx.svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func reviewJSON(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
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

func TestListEndpointEnvelope(t *testing.T) {
	r := newReviewRouter(t)

	resp, payload := reviewJSON(t, r, http.MethodGet, "/api/v1/teacher/documents", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.Code, payload)
	}
	if total, _ := payload["total"].(float64); total != 3 {
		t.Fatalf("expected total 3, got %v", payload["total"])
	}
	summary, ok := payload["analytics_summary"].(map[string]any)
	if !ok {
		t.Fatalf("expected analytics_summary, got %v", payload["analytics_summary"])
	}
	for _, field := range []string{"distinct_students", "pending_documents", "flagged_documents", "recent_uploads"} {
		if _, ok := summary[field]; !ok {
			t.Fatalf("analytics_summary missing %s: %v", field, summary)
		}
	}

	docs, _ := payload["documents"].([]any)
	if len(docs) == 0 {
		t.Fatalf("expected documents in response")
	}
	first, _ := docs[0].(map[string]any)
	if _, ok := first["student_name"]; !ok {
		t.Fatalf("document missing student projection: %v", first)
	}
}

func TestListEndpointEchoesFilters(t *testing.T) {
	r := newReviewRouter(t)

	resp, payload := reviewJSON(t, r, http.MethodGet,
		"/api/v1/teacher/documents?approval_status=flagged&sort_by=student&sort_order=asc", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	applied, _ := payload["filters_applied"].(map[string]any)
	statuses, _ := applied["approval_status"].([]any)
	if len(statuses) != 1 || statuses[0] != "flagged" {
		t.Fatalf("filters_applied wrong: %v", applied)
	}
	if total, _ := payload["total"].(float64); total != 1 {
		t.Fatalf("expected 1 flagged doc, got %v", payload["total"])
	}
}

func TestListEndpointRejectsBadQuery(t *testing.T) {
	r := newReviewRouter(t)

	cases := []string{
		"/api/v1/teacher/documents?file_types=pptx",
		"/api/v1/teacher/documents?approval_status=archived",
		"/api/v1/teacher/documents?sort_by=color",
		"/api/v1/teacher/documents?sort_order=sideways",
		"/api/v1/teacher/documents?page=0",
		"/api/v1/teacher/documents?limit=500",
		"/api/v1/teacher/documents?date_start=gennaio",
	}
	for _, path := range cases {
		resp, _ := reviewJSON(t, r, http.MethodGet, path, "")
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, resp.Code)
		}
	}
}

func TestApprovalEndpoint(t *testing.T) {
	r := newReviewRouter(t)

	resp, payload := reviewJSON(t, r, http.MethodPut, "/api/v1/teacher/documents/d1/approval",
		`{"action":"approve","feedback":"Ottimo lavoro"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.Code, payload)
	}
	if payload["success"] != true {
		t.Fatalf("expected success true, got %v", payload["success"])
	}
	doc, _ := payload["document"].(map[string]any)
	if doc["approval_status"] != "approved" {
		t.Fatalf("expected approved, got %v", doc["approval_status"])
	}
	audit, _ := payload["audit"].(map[string]any)
	if audit["action"] != "approve" || audit["teacher_id"] != "teacher-1" {
		t.Fatalf("audit entry wrong: %v", audit)
	}
}

func TestApprovalEndpointInvalidAction(t *testing.T) {
	r := newReviewRouter(t)

	resp, payload := reviewJSON(t, r, http.MethodPut, "/api/v1/teacher/documents/d1/approval", `{"action":"archive"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if payload["error"] != "action must be one of approve, flag, reject, modify" {
		t.Fatalf("unexpected error %v", payload["error"])
	}
}

func TestApprovalEndpointUnknownDocument(t *testing.T) {
	r := newReviewRouter(t)

	resp, payload := reviewJSON(t, r, http.MethodPut, "/api/v1/teacher/documents/missing/approval", `{"action":"approve"}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if payload["error"] != "Document not found" {
		t.Fatalf("unexpected error %v", payload["error"])
	}
}

func TestAuditEndpoint(t *testing.T) {
	r := newReviewRouter(t)

	if resp, _ := reviewJSON(t, r, http.MethodPut, "/api/v1/teacher/documents/d2/approval", `{"action":"reject"}`); resp.Code != http.StatusOK {
		t.Fatalf("seed review failed: %d", resp.Code)
	}

	resp, payload := reviewJSON(t, r, http.MethodGet, "/api/v1/teacher/documents/d2/audit", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if total, _ := payload["total"].(float64); total != 1 {
		t.Fatalf("expected 1 audit entry, got %v", payload["total"])
	}
}
