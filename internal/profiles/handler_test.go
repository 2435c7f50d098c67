package profiles

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/middleware"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Identity())
	NewHandler(NewService(NewMemoryRepo())).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(t *testing.T, r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.Header.Set("X-Guest-Id", "g1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestProfileHandlerLifecycle(t *testing.T) {
	r := newTestRouter()

	resp := do(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"isOnboarded":false`) {
		t.Fatalf("expected empty profile, got %d %s", resp.Code, resp.Body.String())
	}

	bad := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(`{"industry":"fintech","experienceYears":0}`))
	bad.Header.Set("Content-Type", "application/json")
	if resp := do(t, r, bad); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero experience, got %d", resp.Code)
	}

	good := httptest.NewRequest(http.MethodPut, "/api/v1/profile", strings.NewReader(`{"industry":"fintech","experienceYears":5,"skills":["Go"]}`))
	good.Header.Set("Content-Type", "application/json")
	resp = do(t, r, good)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", resp.Code, resp.Body.String())
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "resume.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = part.Write([]byte("Built a ledger in Go"))
	_ = mw.Close()

	upload := httptest.NewRequest(http.MethodPost, "/api/v1/profile/resume", &body)
	upload.Header.Set("Content-Type", mw.FormDataContentType())
	resp = do(t, r, upload)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on upload, got %d %s", resp.Code, resp.Body.String())
	}

	var payload ProfileResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.HasResume || payload.ResumeFileName != "resume.txt" || !payload.IsOnboarded {
		t.Fatalf("unexpected profile: %+v", payload)
	}
}

func TestProfileResumeUploadRequiresFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/resume", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	if resp := do(t, newTestRouter(), req); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
