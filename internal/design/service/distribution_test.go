package service

import (
	"testing"
	"time"

	"github.com/atelierline/studio/internal/design/entity"
)

func tp(s string) *time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return &t
}

func sentTransmittal(id, code, email string, sentAt *time.Time, items ...entity.TransmittalItem) entity.Transmittal {
	return entity.Transmittal{
		ID:             id,
		Code:           code,
		Status:         entity.TransmittalStatusSent,
		SentAt:         sentAt,
		RecipientName:  "Recipient " + id,
		RecipientEmail: email,
		Items:          items,
	}
}

func TestBuildDistributionMatrixKeepsHighestRevision(t *testing.T) {
	drawings := []entity.Drawing{
		{ID: "d1", Number: "A-101", Title: "Floor Plan", CurrentRevision: 3},
	}
	sent := []entity.Transmittal{
		sentTransmittal("t1", "TX-0001", "builder@site.com", tp("2026-01-10T10:00:00Z"),
			entity.TransmittalItem{DrawingID: "d1", RevisionNumber: 1}),
		sentTransmittal("t2", "TX-0002", "builder@site.com", tp("2026-02-01T10:00:00Z"),
			entity.TransmittalItem{DrawingID: "d1", RevisionNumber: 3}),
		sentTransmittal("t3", "TX-0003", "builder@site.com", tp("2026-01-20T10:00:00Z"),
			entity.TransmittalItem{DrawingID: "d1", RevisionNumber: 2}),
	}

	cells := BuildDistributionMatrix(drawings, sent)
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	cell := cells[0]
	if cell.RevisionNumber != 3 {
		t.Errorf("expected revision 3, got %d", cell.RevisionNumber)
	}
	if cell.TransmittalCode != "TX-0002" {
		t.Errorf("expected TX-0002, got %s", cell.TransmittalCode)
	}
	if !cell.IsCurrent {
		t.Error("revision 3 of a drawing at revision 3 should be current")
	}
}

func TestBuildDistributionMatrixTieBreaksByLaterSentAt(t *testing.T) {
	drawings := []entity.Drawing{
		{ID: "d1", Number: "A-101", Title: "Floor Plan", CurrentRevision: 2},
	}
	sent := []entity.Transmittal{
		sentTransmittal("t1", "TX-0001", "builder@site.com", tp("2026-01-10T10:00:00Z"),
			entity.TransmittalItem{DrawingID: "d1", RevisionNumber: 2}),
		sentTransmittal("t2", "TX-0002", "builder@site.com", tp("2026-01-15T10:00:00Z"),
			entity.TransmittalItem{DrawingID: "d1", RevisionNumber: 2}),
	}

	cells := BuildDistributionMatrix(drawings, sent)
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	if cells[0].TransmittalID != "t2" {
		t.Errorf("equal revisions should keep the later transmittal, got %s", cells[0].TransmittalID)
	}
}

func TestBuildDistributionMatrixMarksStaleCells(t *testing.T) {
	drawings := []entity.Drawing{
		{ID: "d1", Number: "A-101", Title: "Floor Plan", CurrentRevision: 5},
	}
	sent := []entity.Transmittal{
		sentTransmittal("t1", "TX-0001", "builder@site.com", tp("2026-01-10T10:00:00Z"),
			entity.TransmittalItem{DrawingID: "d1", RevisionNumber: 4}),
	}

	cells := BuildDistributionMatrix(drawings, sent)
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	if cells[0].IsCurrent {
		t.Error("revision 4 of a drawing at revision 5 must be stale")
	}
}

func TestBuildDistributionMatrixNormalizesAddressCase(t *testing.T) {
	drawings := []entity.Drawing{
		{ID: "d1", Number: "A-101", Title: "Floor Plan", CurrentRevision: 2},
	}
	sent := []entity.Transmittal{
		sentTransmittal("t1", "TX-0001", "Builder@Site.com", tp("2026-01-10T10:00:00Z"),
			entity.TransmittalItem{DrawingID: "d1", RevisionNumber: 1}),
		sentTransmittal("t2", "TX-0002", "builder@site.com", tp("2026-02-01T10:00:00Z"),
			entity.TransmittalItem{DrawingID: "d1", RevisionNumber: 2}),
	}

	cells := BuildDistributionMatrix(drawings, sent)
	if len(cells) != 1 {
		t.Fatalf("addresses differing only in case must fold into one cell, got %d", len(cells))
	}
	if cells[0].RecipientAddress != "builder@site.com" {
		t.Errorf("expected lowercased address, got %s", cells[0].RecipientAddress)
	}
	if cells[0].RevisionNumber != 2 {
		t.Errorf("expected revision 2, got %d", cells[0].RevisionNumber)
	}
}

func TestBuildDistributionMatrixSkipsExcludedDrawings(t *testing.T) {
	// Archived drawings are not in the supplied slice for the default view
	drawings := []entity.Drawing{
		{ID: "d1", Number: "A-101", Title: "Floor Plan", CurrentRevision: 1},
	}
	sent := []entity.Transmittal{
		sentTransmittal("t1", "TX-0001", "builder@site.com", tp("2026-01-10T10:00:00Z"),
			entity.TransmittalItem{DrawingID: "d1", RevisionNumber: 1},
			entity.TransmittalItem{DrawingID: "d-archived", RevisionNumber: 2}),
	}

	cells := BuildDistributionMatrix(drawings, sent)
	if len(cells) != 1 {
		t.Fatalf("expected only the listed drawing to appear, got %d cells", len(cells))
	}
	if cells[0].DrawingID != "d1" {
		t.Errorf("unexpected drawing %s", cells[0].DrawingID)
	}
}

func TestBuildDistributionMatrixIgnoresDraftsAndSorts(t *testing.T) {
	drawings := []entity.Drawing{
		{ID: "d1", Number: "A-102", Title: "Ceiling Plan", CurrentRevision: 1},
		{ID: "d2", Number: "A-101", Title: "Floor Plan", CurrentRevision: 1},
	}
	draft := entity.Transmittal{
		ID:             "t-draft",
		Code:           "TX-0009",
		Status:         entity.TransmittalStatusDraft,
		RecipientEmail: "builder@site.com",
		Items:          []entity.TransmittalItem{{DrawingID: "d1", RevisionNumber: 1}},
	}
	sent := []entity.Transmittal{
		draft,
		sentTransmittal("t1", "TX-0001", "zed@site.com", tp("2026-01-10T10:00:00Z"),
			entity.TransmittalItem{DrawingID: "d1", RevisionNumber: 1}),
		sentTransmittal("t2", "TX-0002", "amy@site.com", tp("2026-01-11T10:00:00Z"),
			entity.TransmittalItem{DrawingID: "d2", RevisionNumber: 1},
			entity.TransmittalItem{DrawingID: "d1", RevisionNumber: 1}),
	}

	cells := BuildDistributionMatrix(drawings, sent)
	if len(cells) != 3 {
		t.Fatalf("draft transmittals must not contribute cells, got %d", len(cells))
	}
	// Sorted by drawing number, then address
	if cells[0].DrawingNumber != "A-101" || cells[0].RecipientAddress != "amy@site.com" {
		t.Errorf("unexpected first cell: %s / %s", cells[0].DrawingNumber, cells[0].RecipientAddress)
	}
	if cells[1].DrawingNumber != "A-102" || cells[1].RecipientAddress != "amy@site.com" {
		t.Errorf("unexpected second cell: %s / %s", cells[1].DrawingNumber, cells[1].RecipientAddress)
	}
	if cells[2].RecipientAddress != "zed@site.com" {
		t.Errorf("unexpected third cell: %s", cells[2].RecipientAddress)
	}
}

func TestMergeRecipientsOrderAndDedup(t *testing.T) {
	client := &entity.Client{Name: "Mrs. Halloway", Email: "Halloway@Home.com", Organization: "Halloway Residence"}
	links := []entity.ProjectContractor{
		{Active: true, Contractor: &entity.Contractor{Name: "Oak & Iron", Email: "shop@oakiron.com", Trade: "millwork"}},
		{Active: false, Contractor: &entity.Contractor{Name: "Dormant Co", Email: "old@dormant.com", Trade: "hvac"}},
	}
	sent := []entity.Transmittal{
		sentTransmittal("t2", "TX-0002", "halloway@home.com", tp("2026-02-01T10:00:00Z")),
		sentTransmittal("t1", "TX-0001", "site.foreman@build.com", tp("2026-01-05T10:00:00Z")),
	}
	sent[1].RecipientName = "Site Foreman"
	sent[1].RecipientCategory = entity.RecipientCategoryContractor

	recipients := MergeRecipients(client, links, sent)
	if len(recipients) != 3 {
		t.Fatalf("expected 3 recipients, got %d", len(recipients))
	}

	// Client first, with lowercased address; duplicate from history dropped
	if recipients[0].Address != "halloway@home.com" || recipients[0].Category != entity.RecipientCategoryClient {
		t.Errorf("unexpected first recipient: %+v", recipients[0])
	}
	if recipients[0].Name != "Mrs. Halloway" {
		t.Errorf("client display name must win over historical one, got %s", recipients[0].Name)
	}

	// Active contractor second, inactive link skipped
	if recipients[1].Address != "shop@oakiron.com" || recipients[1].Trade != "millwork" {
		t.Errorf("unexpected second recipient: %+v", recipients[1])
	}

	// Historical recipient last
	if recipients[2].Address != "site.foreman@build.com" || recipients[2].Name != "Site Foreman" {
		t.Errorf("unexpected third recipient: %+v", recipients[2])
	}
}

func TestMergeRecipientsHistoricalOldestWins(t *testing.T) {
	sent := []entity.Transmittal{
		sentTransmittal("t2", "TX-0002", "pm@build.com", tp("2026-03-01T10:00:00Z")),
		sentTransmittal("t1", "TX-0001", "PM@build.com", tp("2026-01-01T10:00:00Z")),
	}
	sent[0].RecipientName = "Newer Name"
	sent[1].RecipientName = "Original Name"

	recipients := MergeRecipients(nil, nil, sent)
	if len(recipients) != 1 {
		t.Fatalf("expected 1 recipient, got %d", len(recipients))
	}
	if recipients[0].Name != "Original Name" {
		t.Errorf("oldest historical record must win, got %s", recipients[0].Name)
	}
}

func TestMergeRecipientsMissingSentAt(t *testing.T) {
	undatedA := entity.Transmittal{ID: "t1", Code: "TX-0001", Status: entity.TransmittalStatusDraft,
		RecipientName: "Undated A", RecipientEmail: "pm@build.com"}
	undatedB := entity.Transmittal{ID: "t2", Code: "TX-0002", Status: entity.TransmittalStatusDraft,
		RecipientName: "Undated B", RecipientEmail: "PM@build.com"}
	dated := sentTransmittal("t3", "TX-0003", "pm@build.com", tp("2026-01-01T10:00:00Z"))
	dated.RecipientName = "Dated Name"

	// Dated records sort before undated ones
	recipients := MergeRecipients(nil, nil, []entity.Transmittal{undatedA, undatedB, dated})
	if len(recipients) != 1 {
		t.Fatalf("expected 1 recipient, got %d", len(recipients))
	}
	if recipients[0].Name != "Dated Name" {
		t.Errorf("dated record must win over undated ones, got %s", recipients[0].Name)
	}

	// Among undated records the input order holds
	recipients = MergeRecipients(nil, nil, []entity.Transmittal{undatedA, undatedB})
	if len(recipients) != 1 {
		t.Fatalf("expected 1 recipient, got %d", len(recipients))
	}
	if recipients[0].Name != "Undated A" {
		t.Errorf("first undated record must win, got %s", recipients[0].Name)
	}
}

func TestMergeRecipientsTradeEnrichment(t *testing.T) {
	// The address entered via history first, but a matching contractor supplies the trade
	links := []entity.ProjectContractor{
		{Active: true, Contractor: &entity.Contractor{Name: "Volt Electric", Email: "volt@electric.com", Trade: "electrical"}},
	}
	client := &entity.Client{Name: "Client", Email: "volt@electric.com"}

	recipients := MergeRecipients(client, links, nil)
	if len(recipients) != 1 {
		t.Fatalf("expected 1 recipient, got %d", len(recipients))
	}
	if recipients[0].Category != entity.RecipientCategoryClient {
		t.Errorf("first entrant keeps its category, got %s", recipients[0].Category)
	}
	if recipients[0].Trade != "electrical" {
		t.Errorf("trade should be enriched from contractor match, got %q", recipients[0].Trade)
	}
}
