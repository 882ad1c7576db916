package documents_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"didattika-backend/internal/bootstrap"
	"didattika-backend/internal/shared/config"
)

func newTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:              "0",
		CORSAllowOrigin:   []string{"http://localhost:5173"},
		LocalStoreDir:     t.TempDir(),
		Env:               "dev",
		ObjectStoreType:   "local",
		SynthesisProvider: "template",
		ProcessingTimeout: time.Minute,
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func uploadTextFile(t *testing.T, router http.Handler, title, fileName, content string) string {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if title != "" {
		if err := writer.WriteField("title", title); err != nil {
			t.Fatalf("write title: %v", err)
		}
	}
	fileWriter, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		DocumentID string `json:"document_id"`
		Status     string `json:"status"`
		Message    string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if created.DocumentID == "" {
		t.Fatalf("expected document_id, got empty")
	}
	if created.Status != "uploading" {
		t.Fatalf("expected status uploading, got %s", created.Status)
	}
	return created.DocumentID
}

func getDocument(t *testing.T, router http.Handler, id string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+id, nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode document response: %v", err)
	}
	return resp.Code, payload
}

func TestUploadThenPollUntilCompleted(t *testing.T) {
	app := newTestApp(t)
	id := uploadTextFile(t, app.Router, "Test", "appunti.txt", "La fotosintesi trasforma la luce in energia chimica.")

	deadline := time.Now().Add(3 * time.Second)
	var status string
	for time.Now().Before(deadline) {
		code, payload := getDocument(t, app.Router, id)
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		status, _ = payload["status"].(string)
		if status == "completed" || status == "failed" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if status != "completed" && status != "failed" {
		t.Fatalf("document never reached a terminal status, last seen %q", status)
	}
}

func TestGetUnknownDocumentReturns404(t *testing.T) {
	app := newTestApp(t)

	code, payload := getDocument(t, app.Router, "does-not-exist")
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if payload["error"] != "Document not found" {
		t.Fatalf("expected error message, got %v", payload["error"])
	}
}

func TestSoftDeleteRoundTripOverHTTP(t *testing.T) {
	app := newTestApp(t)
	id := uploadTextFile(t, app.Router, "Da cancellare", "vecchi.txt", "contenuto qualsiasi")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+id, nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", resp.Code)
	}

	// Deleted document stays retrievable by id.
	code, payload := getDocument(t, app.Router, id)
	if code != http.StatusOK {
		t.Fatalf("expected 200 after delete, got %d", code)
	}
	if payload["status"] != "deleted" {
		t.Fatalf("expected status deleted, got %v", payload["status"])
	}

	// But is excluded from default listings.
	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	addGuestHeader(listReq)
	listResp := httptest.NewRecorder()
	app.Router.ServeHTTP(listResp, listReq)

	var listing struct {
		Documents []map[string]any `json:"documents"`
		Total     int              `json:"total"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	for _, doc := range listing.Documents {
		if doc["id"] == id {
			t.Fatalf("deleted document leaked into default listing")
		}
	}
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	app := newTestApp(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", "slides.pptx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte("x")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestListReportsFiltersApplied(t *testing.T) {
	app := newTestApp(t)
	uploadTextFile(t, app.Router, "Appunti", "appunti.txt", "testo qualunque")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents?file_type=txt&search_query=appunti", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var listing struct {
		FiltersApplied map[string]any `json:"filters_applied"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if listing.FiltersApplied["file_type"] != "txt" {
		t.Fatalf("expected file_type filter echoed, got %v", listing.FiltersApplied)
	}
	if listing.FiltersApplied["search_query"] != "appunti" {
		t.Fatalf("expected search_query filter echoed, got %v", listing.FiltersApplied)
	}
}
