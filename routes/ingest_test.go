package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jarvis-rag-backend/models"
	"jarvis-rag-backend/services"
	"jarvis-rag-backend/utils"

	"github.com/gin-gonic/gin"
)

func ingestRouter(store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cfg := testConfig()
	ingestion := services.NewIngestionService(cfg, stubEmbedder{}, store, nil)
	SetupIngestRoutes(router, cfg, ingestion, nil, nil, nil)
	return router
}

func postUpload(t *testing.T, router *gin.Engine, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/ingest/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postText(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/ingest/text", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadEmptyDocumentRejected(t *testing.T) {
	router := ingestRouter(&stubStore{})

	w := postUpload(t, router, "blank.txt", "   \n\t  ")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", w.Code, w.Body.String())
	}

	var resp utils.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ErrorCode != "empty_document" {
		t.Fatalf("error_code = %q, want empty_document", resp.ErrorCode)
	}
}

func TestIngestTextEmptyRejected(t *testing.T) {
	store := &stubStore{}
	router := ingestRouter(store)

	w := postText(t, router, map[string]string{"text": "  \n ", "source": "blank.md"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body = %s", w.Code, w.Body.String())
	}

	var resp utils.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ErrorCode != "empty_document" {
		t.Fatalf("error_code = %q, want empty_document", resp.ErrorCode)
	}
	if len(store.upserted) != 0 {
		t.Fatal("nothing may be upserted for an empty document")
	}
}

func TestIngestTextSuccess(t *testing.T) {
	store := &stubStore{}
	router := ingestRouter(store)

	w := postText(t, router, map[string]string{"text": "a short note", "source": "note.txt"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result models.IngestResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if !result.OK || result.Chunks != 1 || result.Source != "note.txt" {
		t.Fatalf("result = %+v", result)
	}
	if len(store.upserted) != 1 {
		t.Fatalf("upsert batches = %d, want 1", len(store.upserted))
	}
}

func TestUploadUnsupportedType(t *testing.T) {
	router := ingestRouter(&stubStore{})

	w := postUpload(t, router, "image.png", "binary-ish")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Unsupported file type") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestUploadSmallFileIngestedSync(t *testing.T) {
	store := &stubStore{}
	router := ingestRouter(store)

	w := postUpload(t, router, "notes.md", "markdown body here")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result models.IngestResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if !result.OK || result.Source != "notes.md" {
		t.Fatalf("result = %+v", result)
	}
}
