package handler

import (
	"net/http"
	"testing"

	"github.com/atelierline/studio/internal/design/testutil"
)

func TestTransmittalCreateAndSend(t *testing.T) {
	db, router := setupDesignAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, db, "test-user-001", "Test Admin", "admin@test.com")
	testutil.SeedTestProject(t, db, "proj-001", "PRJ-0001", "Halloway Residence", "test-user-001")
	testutil.SeedTestDrawing(t, db, "drw-001", "proj-001", "A-101", "Floor Plan", "test-user-001")

	// Create a draft with an implicit (latest) revision item
	w := testutil.DoRequest(router, "POST", "/api/v1/projects/proj-001/transmittals",
		map[string]interface{}{
			"recipient_name":     "Site Foreman",
			"recipient_email":    "Foreman@Build.com",
			"recipient_category": "contractor",
			"items": []map[string]interface{}{
				{"drawing_id": "drw-001"},
			},
		}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["code"] != "TX-0001" {
		t.Errorf("Expected code TX-0001, got %v", data["code"])
	}
	if data["status"] != "draft" {
		t.Errorf("Expected status draft, got %v", data["status"])
	}
	if data["sent_at"] != nil {
		t.Errorf("Draft must not carry sent_at, got %v", data["sent_at"])
	}
	transmittalID := data["id"].(string)

	// Mark sent
	w2 := testutil.DoRequest(router, "POST", "/api/v1/transmittals/"+transmittalID+"/send", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	sent := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if sent["status"] != "sent" {
		t.Errorf("Expected status sent, got %v", sent["status"])
	}
	if sent["sent_at"] == nil {
		t.Error("Expected sent_at to be set")
	}
	firstSentAt := sent["sent_at"]

	// Sending twice is a state conflict, sent_at stays put
	w3 := testutil.DoRequest(router, "POST", "/api/v1/transmittals/"+transmittalID+"/send", nil, token)
	if w3.Code != http.StatusConflict {
		t.Errorf("Expected 409 for double send, got %d: %s", w3.Code, w3.Body.String())
	}
	w4 := testutil.DoRequest(router, "GET", "/api/v1/transmittals/"+transmittalID, nil, token)
	detail := testutil.ParseResponse(w4)["data"].(map[string]interface{})
	if detail["sent_at"] != firstSentAt {
		t.Errorf("sent_at must not change on a repeated send: %v vs %v", detail["sent_at"], firstSentAt)
	}
}

func TestTransmittalImplicitSnapshotFreezesAtSend(t *testing.T) {
	db, router := setupDesignAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, db, "test-user-001", "Test Admin", "admin@test.com")
	testutil.SeedTestProject(t, db, "proj-001", "PRJ-0001", "Halloway Residence", "test-user-001")
	testutil.SeedTestDrawing(t, db, "drw-001", "proj-001", "A-101", "Floor Plan", "test-user-001")

	// Draft while the drawing sits at revision 1
	w := testutil.DoRequest(router, "POST", "/api/v1/projects/proj-001/transmittals",
		map[string]interface{}{
			"recipient_name":  "Site Foreman",
			"recipient_email": "foreman@build.com",
			"items": []map[string]interface{}{
				{"drawing_id": "drw-001"},
			},
		}, token)
	transmittalID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// Revision 2 lands before the transmittal goes out
	w2 := testutil.DoRequest(router, "POST", "/api/v1/drawings/drw-001/revisions",
		map[string]interface{}{"description": "门窗表更新"}, token)
	if w2.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w2.Code, w2.Body.String())
	}

	// The implicit item freezes at the revision current at send time
	w3 := testutil.DoRequest(router, "POST", "/api/v1/transmittals/"+transmittalID+"/send", nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w3.Code, w3.Body.String())
	}
	w4 := testutil.DoRequest(router, "GET", "/api/v1/transmittals/"+transmittalID, nil, token)
	items := testutil.ParseResponse(w4)["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	item := items[0].(map[string]interface{})
	if item["revision_number"].(float64) != 2 {
		t.Errorf("Implicit item should freeze at revision 2, got %v", item["revision_number"])
	}
}

func TestTransmittalExplicitRevisionStaysPinned(t *testing.T) {
	db, router := setupDesignAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, db, "test-user-001", "Test Admin", "admin@test.com")
	testutil.SeedTestProject(t, db, "proj-001", "PRJ-0001", "Halloway Residence", "test-user-001")
	testutil.SeedTestDrawing(t, db, "drw-001", "proj-001", "A-101", "Floor Plan", "test-user-001")

	// Pin revision 1 explicitly
	w := testutil.DoRequest(router, "POST", "/api/v1/projects/proj-001/transmittals",
		map[string]interface{}{
			"recipient_name":  "Site Foreman",
			"recipient_email": "foreman@build.com",
			"items": []map[string]interface{}{
				{"drawing_id": "drw-001", "revision_id": "drw-001-r1"},
			},
		}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	transmittalID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	testutil.DoRequest(router, "POST", "/api/v1/drawings/drw-001/revisions",
		map[string]interface{}{"description": "尺寸修正"}, token)

	w2 := testutil.DoRequest(router, "POST", "/api/v1/transmittals/"+transmittalID+"/send", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	w3 := testutil.DoRequest(router, "GET", "/api/v1/transmittals/"+transmittalID, nil, token)
	items := testutil.ParseResponse(w3)["data"].(map[string]interface{})["items"].([]interface{})
	item := items[0].(map[string]interface{})
	if item["revision_number"].(float64) != 1 {
		t.Errorf("Pinned item must stay at revision 1, got %v", item["revision_number"])
	}
}

func TestTransmittalValidation(t *testing.T) {
	db, router := setupDesignAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, db, "test-user-001", "Test Admin", "admin@test.com")
	testutil.SeedTestProject(t, db, "proj-001", "PRJ-0001", "Halloway Residence", "test-user-001")
	testutil.SeedTestDrawing(t, db, "drw-001", "proj-001", "A-101", "Floor Plan", "test-user-001")

	// No items
	w := testutil.DoRequest(router, "POST", "/api/v1/projects/proj-001/transmittals",
		map[string]interface{}{
			"recipient_name":  "Site Foreman",
			"recipient_email": "foreman@build.com",
			"items":           []map[string]interface{}{},
		}, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty items, got %d", w.Code)
	}

	// Drawing from another project
	testutil.SeedTestProject(t, db, "proj-002", "PRJ-0002", "Other Residence", "test-user-001")
	testutil.SeedTestDrawing(t, db, "drw-other", "proj-002", "A-101", "Floor Plan", "test-user-001")
	w2 := testutil.DoRequest(router, "POST", "/api/v1/projects/proj-001/transmittals",
		map[string]interface{}{
			"recipient_name":  "Site Foreman",
			"recipient_email": "foreman@build.com",
			"items": []map[string]interface{}{
				{"drawing_id": "drw-other"},
			},
		}, token)
	if w2.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for cross-project drawing, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestTransmittalListByStatus(t *testing.T) {
	db, router := setupDesignAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, db, "test-user-001", "Test Admin", "admin@test.com")
	testutil.SeedTestProject(t, db, "proj-001", "PRJ-0001", "Halloway Residence", "test-user-001")
	testutil.SeedTestDrawing(t, db, "drw-001", "proj-001", "A-101", "Floor Plan", "test-user-001")

	body := map[string]interface{}{
		"recipient_name":  "Site Foreman",
		"recipient_email": "foreman@build.com",
		"items": []map[string]interface{}{
			{"drawing_id": "drw-001"},
		},
	}
	w := testutil.DoRequest(router, "POST", "/api/v1/projects/proj-001/transmittals", body, token)
	firstID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)
	testutil.DoRequest(router, "POST", "/api/v1/projects/proj-001/transmittals", body, token)
	testutil.DoRequest(router, "POST", "/api/v1/transmittals/"+firstID+"/send", nil, token)

	w2 := testutil.DoRequest(router, "GET", "/api/v1/projects/proj-001/transmittals?status=draft", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	data := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	if len(items) != 1 {
		t.Errorf("Expected 1 draft transmittal, got %d", len(items))
	}
	pagination := data["pagination"].(map[string]interface{})
	if pagination["total"].(float64) != 1 {
		t.Errorf("Expected total 1, got %v", pagination["total"])
	}
}

func TestDistributionMatrixEndpoint(t *testing.T) {
	db, router := setupDesignAPI(t)
	token := testutil.DefaultTestToken()
	testutil.SeedTestUser(t, db, "test-user-001", "Test Admin", "admin@test.com")
	testutil.SeedTestProject(t, db, "proj-001", "PRJ-0001", "Halloway Residence", "test-user-001")
	testutil.SeedTestDrawing(t, db, "drw-001", "proj-001", "A-101", "Floor Plan", "test-user-001")
	testutil.SeedTestDrawing(t, db, "drw-002", "proj-001", "A-102", "Ceiling Plan", "test-user-001")

	// Send both drawings to the foreman
	w := testutil.DoRequest(router, "POST", "/api/v1/projects/proj-001/transmittals",
		map[string]interface{}{
			"recipient_name":  "Site Foreman",
			"recipient_email": "foreman@build.com",
			"items": []map[string]interface{}{
				{"drawing_id": "drw-001"},
				{"drawing_id": "drw-002"},
			},
		}, token)
	transmittalID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)
	testutil.DoRequest(router, "POST", "/api/v1/transmittals/"+transmittalID+"/send", nil, token)

	// A-101 moves on, its cell goes stale
	testutil.DoRequest(router, "POST", "/api/v1/drawings/drw-001/revisions",
		map[string]interface{}{"description": "布局调整"}, token)

	w2 := testutil.DoRequest(router, "GET", "/api/v1/projects/proj-001/distribution", nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w2.Code, w2.Body.String())
	}
	cells := testutil.ParseResponse(w2)["data"].(map[string]interface{})["cells"].([]interface{})
	if len(cells) != 2 {
		t.Fatalf("Expected 2 cells, got %d", len(cells))
	}
	first := cells[0].(map[string]interface{})
	second := cells[1].(map[string]interface{})
	if first["drawing_number"] != "A-101" || first["is_current"].(bool) {
		t.Errorf("A-101 cell should be stale: %v", first)
	}
	if second["drawing_number"] != "A-102" || !second["is_current"].(bool) {
		t.Errorf("A-102 cell should be current: %v", second)
	}

	// Recipient directory picks up the historical address
	w3 := testutil.DoRequest(router, "GET", "/api/v1/projects/proj-001/recipients", nil, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w3.Code, w3.Body.String())
	}
	recipients := testutil.ParseResponse(w3)["data"].(map[string]interface{})["items"].([]interface{})
	if len(recipients) != 1 {
		t.Fatalf("Expected 1 recipient, got %d", len(recipients))
	}
	recipient := recipients[0].(map[string]interface{})
	if recipient["address"] != "foreman@build.com" {
		t.Errorf("Unexpected recipient address: %v", recipient["address"])
	}
}
