package handler

import (
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/atelierline/studio/internal/design/repository"
	"github.com/atelierline/studio/internal/design/service"
	"github.com/atelierline/studio/internal/design/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDesignAPI(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	router := testutil.SetupRouter()

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, nil, zap.NewNop())
	h := NewHandlers(services, nil)

	api := testutil.AuthGroup(router, "/api/v1")

	projects := api.Group("/projects")
	projects.GET("/:id/drawings", h.Drawing.List)
	projects.POST("/:id/drawings", h.Drawing.Create)
	projects.GET("/:id/transmittals", h.Transmittal.List)
	projects.POST("/:id/transmittals", h.Transmittal.Create)
	projects.GET("/:id/distribution", h.Distribution.Matrix)
	projects.GET("/:id/recipients", h.Distribution.Recipients)

	drawings := api.Group("/drawings")
	drawings.GET("/:drawingId", h.Drawing.Get)
	drawings.POST("/:drawingId/revisions", h.Drawing.AddRevision)
	drawings.POST("/:drawingId/archive", h.Drawing.Archive)

	transmittals := api.Group("/transmittals")
	transmittals.GET("/:transmittalId", h.Transmittal.Get)
	transmittals.POST("/:transmittalId/send", h.Transmittal.MarkSent)

	return db, router
}

func TestDrawingCreateAndRevisionFlow(t *testing.T) {
	db, router := setupDesignAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, db, "test-user-001", "Test Admin", "admin@test.com")
	testutil.SeedTestProject(t, db, "proj-001", "PRJ-0001", "Halloway Residence", "test-user-001")

	// Register a drawing, revision 1 comes with it
	w := testutil.DoRequest(router, "POST", "/api/v1/projects/proj-001/drawings",
		map[string]interface{}{
			"number":      "A-101",
			"title":       "Ground Floor Plan",
			"discipline":  "architectural",
			"description": "初版平面图",
		}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["current_revision"].(float64) != 1 {
		t.Errorf("Expected current_revision 1, got %v", data["current_revision"])
	}
	drawingID := data["id"].(string)
	initial := data["revisions"].([]interface{})[0].(map[string]interface{})
	if issuedAt, _ := initial["issued_at"].(string); issuedAt == "" || strings.HasPrefix(issuedAt, "0001-01-01") {
		t.Errorf("Expected initial revision issued_at to be set, got %v", initial["issued_at"])
	}

	// Publish two more revisions
	w2 := testutil.DoRequest(router, "POST", "/api/v1/drawings/"+drawingID+"/revisions",
		map[string]interface{}{"description": "调整开间尺寸"}, token)
	if w2.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w2.Code, w2.Body.String())
	}
	rev2 := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if rev2["number"].(float64) != 2 {
		t.Errorf("Expected revision number 2, got %v", rev2["number"])
	}
	if issuedAt, _ := rev2["issued_at"].(string); issuedAt == "" || strings.HasPrefix(issuedAt, "0001-01-01") {
		t.Errorf("Expected issued_at to be set, got %v", rev2["issued_at"])
	}

	w3 := testutil.DoRequest(router, "POST", "/api/v1/drawings/"+drawingID+"/revisions",
		map[string]interface{}{"description": "电气点位更新", "file_ref": "2026/02/abc123.pdf"}, token)
	if w3.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w3.Code, w3.Body.String())
	}
	rev3 := testutil.ParseResponse(w3)["data"].(map[string]interface{})
	if rev3["number"].(float64) != 3 {
		t.Errorf("Expected revision number 3, got %v", rev3["number"])
	}

	// Detail carries the advanced pointer and full history
	w4 := testutil.DoRequest(router, "GET", "/api/v1/drawings/"+drawingID, nil, token)
	if w4.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w4.Code, w4.Body.String())
	}
	detail := testutil.ParseResponse(w4)["data"].(map[string]interface{})
	if detail["current_revision"].(float64) != 3 {
		t.Errorf("Expected current_revision 3, got %v", detail["current_revision"])
	}
	revisions := detail["revisions"].([]interface{})
	if len(revisions) != 3 {
		t.Errorf("Expected 3 revisions, got %d", len(revisions))
	}
}

func TestDrawingCreateValidation(t *testing.T) {
	db, router := setupDesignAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, db, "test-user-001", "Test Admin", "admin@test.com")
	testutil.SeedTestProject(t, db, "proj-001", "PRJ-0001", "Halloway Residence", "test-user-001")

	// Missing title
	w := testutil.DoRequest(router, "POST", "/api/v1/projects/proj-001/drawings",
		map[string]interface{}{"number": "A-101"}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing title, got %d", w.Code)
	}

	// Duplicate number within the project
	testutil.DoRequest(router, "POST", "/api/v1/projects/proj-001/drawings",
		map[string]interface{}{"number": "A-102", "title": "Ceiling Plan"}, token)
	w2 := testutil.DoRequest(router, "POST", "/api/v1/projects/proj-001/drawings",
		map[string]interface{}{"number": "A-102", "title": "Another Ceiling Plan"}, token)
	if w2.Code == http.StatusCreated {
		t.Errorf("Expected duplicate drawing number to be rejected, got %d", w2.Code)
	}
}

func TestDrawingCreateProjectNotFound(t *testing.T) {
	db, router := setupDesignAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, db, "test-user-001", "Test Admin", "admin@test.com")

	w := testutil.DoRequest(router, "POST", "/api/v1/projects/nonexistent/drawings",
		map[string]interface{}{"number": "A-101", "title": "Floor Plan"}, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDrawingArchiveAndListFilter(t *testing.T) {
	db, router := setupDesignAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, db, "test-user-001", "Test Admin", "admin@test.com")
	testutil.SeedTestProject(t, db, "proj-001", "PRJ-0001", "Halloway Residence", "test-user-001")
	testutil.SeedTestDrawing(t, db, "drw-001", "proj-001", "A-101", "Floor Plan", "test-user-001")
	testutil.SeedTestDrawing(t, db, "drw-002", "proj-001", "A-102", "Ceiling Plan", "test-user-001")

	// Archive one drawing
	w := testutil.DoRequest(router, "POST", "/api/v1/drawings/drw-002/archive", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != "archived" {
		t.Errorf("Expected status archived, got %v", data["status"])
	}
	if data["archived_at"] == nil {
		t.Error("Expected archived_at to be set")
	}

	// Archiving twice is a state conflict
	w2 := testutil.DoRequest(router, "POST", "/api/v1/drawings/drw-002/archive", nil, token)
	if w2.Code != http.StatusConflict {
		t.Errorf("Expected 409 for double archive, got %d: %s", w2.Code, w2.Body.String())
	}

	// Default list hides archived drawings
	w3 := testutil.DoRequest(router, "GET", "/api/v1/projects/proj-001/drawings", nil, token)
	items := testutil.ParseResponse(w3)["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Errorf("Expected 1 active drawing, got %d", len(items))
	}

	// Audit view includes them
	w4 := testutil.DoRequest(router, "GET", "/api/v1/projects/proj-001/drawings?include_archived=true", nil, token)
	items4 := testutil.ParseResponse(w4)["data"].(map[string]interface{})["items"].([]interface{})
	if len(items4) != 2 {
		t.Errorf("Expected 2 drawings with include_archived, got %d", len(items4))
	}
}

func TestDrawingConcurrentRevisions(t *testing.T) {
	db, router := setupDesignAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, db, "test-user-001", "Test Admin", "admin@test.com")
	testutil.SeedTestProject(t, db, "proj-001", "PRJ-0001", "Halloway Residence", "test-user-001")
	testutil.SeedTestDrawing(t, db, "drw-001", "proj-001", "A-101", "Floor Plan", "test-user-001")

	const workers = 8
	codes := make([]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			w := testutil.DoRequest(router, "POST", "/api/v1/drawings/drw-001/revisions",
				map[string]interface{}{"description": "并发修订"}, token)
			codes[n] = w.Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			// lost the row-lock race twice, surfaced as retryable conflict
		default:
			t.Fatalf("Unexpected status %d", code)
		}
	}
	if created == 0 {
		t.Fatal("Expected at least one concurrent revision to succeed")
	}

	// Pointer equals the number of revisions, numbers are exactly 1..N
	w := testutil.DoRequest(router, "GET", "/api/v1/drawings/drw-001", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	detail := testutil.ParseResponse(w)["data"].(map[string]interface{})
	want := 1 + created
	if int(detail["current_revision"].(float64)) != want {
		t.Errorf("Expected current_revision %d, got %v", want, detail["current_revision"])
	}
	revisions := detail["revisions"].([]interface{})
	if len(revisions) != want {
		t.Fatalf("Expected %d revisions, got %d", want, len(revisions))
	}
	seen := make(map[int]bool)
	for _, r := range revisions {
		n := int(r.(map[string]interface{})["number"].(float64))
		if seen[n] {
			t.Errorf("Duplicate revision number %d", n)
		}
		seen[n] = true
	}
	for n := 1; n <= want; n++ {
		if !seen[n] {
			t.Errorf("Missing revision number %d", n)
		}
	}
}

func TestDrawingRevisionNotFound(t *testing.T) {
	db, router := setupDesignAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, db, "test-user-001", "Test Admin", "admin@test.com")

	w := testutil.DoRequest(router, "POST", "/api/v1/drawings/nonexistent/revisions",
		map[string]interface{}{"description": "更新"}, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDrawingRequiresAuth(t *testing.T) {
	_, router := setupDesignAPI(t)

	w := testutil.DoRequest(router, "GET", "/api/v1/projects/proj-001/drawings", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}
}
