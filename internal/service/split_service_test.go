package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/snapsplit/snapsplit/internal/auth"
	"github.com/snapsplit/snapsplit/internal/calculator"
	"github.com/snapsplit/snapsplit/internal/metrics"
	"github.com/snapsplit/snapsplit/internal/models"
	"github.com/snapsplit/snapsplit/internal/storage"
)

// fakeStore is an in-memory storage.Store with error injection.
type fakeStore struct {
	records    map[string]*models.SplitRecord
	failCreate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*models.SplitRecord)}
}

func (f *fakeStore) CreateSplit(_ context.Context, record *models.SplitRecord) error {
	if f.failCreate {
		return errors.New("disk on fire")
	}
	if _, exists := f.records[record.ID]; !exists {
		f.records[record.ID] = record
	}
	return nil
}

func (f *fakeStore) GetSplit(_ context.Context, id string) (*models.SplitRecord, error) {
	if r, ok := f.records[id]; ok {
		return r, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) Close() error { return nil }

func newTestService(store storage.Store) *SplitService {
	tokens := auth.NewShareTokens("test-secret-at-least-32-bytes-long!!")
	return NewSplitService(store, tokens, metrics.New(), "http://localhost:8080")
}

func testRequest() *models.SplitRequest {
	return &models.SplitRequest{
		People: []string{"Alice", "Bob"},
		Assignments: []models.Assignment{
			{
				Item:       models.ItemDetails{Description: "Pizza", Quantity: "1", Price: "20.00"},
				AssignedTo: []string{"Alice", "Bob"},
			},
		},
		Tax: "2.00",
		Tip: "0",
	}
}

func TestCalculateSplitComputesAndPersists(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	record, existing, err := svc.CalculateSplit(ctx, testRequest())
	if err != nil {
		t.Fatalf("CalculateSplit failed: %v", err)
	}
	if existing {
		t.Error("first request should not be served from an existing record")
	}
	if record.ID == "" || len(record.ID) != 12 {
		t.Errorf("record ID = %q, want 12-char fingerprint", record.ID)
	}
	if _, ok := store.records[record.ID]; !ok {
		t.Error("record was not persisted")
	}
	if !strings.Contains(record.ShareLink, "/view-split/"+record.ID) {
		t.Errorf("share link %q does not reference the split", record.ShareLink)
	}
	if !strings.Contains(record.ShareLink, "?t=") {
		t.Errorf("share link %q is missing the share token", record.ShareLink)
	}
	if got := record.Result["Alice"].Total; got != 11.00 {
		t.Errorf("Alice total = %v, want 11.00", got)
	}
}

func TestCalculateSplitIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	first, _, err := svc.CalculateSplit(ctx, testRequest())
	if err != nil {
		t.Fatalf("first CalculateSplit failed: %v", err)
	}

	// Same content, different ordering.
	req := testRequest()
	req.People = []string{"Bob", "Alice"}
	req.Assignments[0].AssignedTo = []string{"Bob", "Alice"}

	second, existing, err := svc.CalculateSplit(ctx, req)
	if err != nil {
		t.Fatalf("second CalculateSplit failed: %v", err)
	}
	if !existing {
		t.Error("identical request should short-circuit to the stored record")
	}
	if second.ID != first.ID {
		t.Errorf("fingerprints differ: %s vs %s", second.ID, first.ID)
	}
	if second.ShareLink != first.ShareLink {
		t.Errorf("share links differ: %s vs %s", second.ShareLink, first.ShareLink)
	}
	if len(store.records) != 1 {
		t.Errorf("store holds %d records, want 1", len(store.records))
	}
}

func TestCalculateSplitSurvivesPersistenceFailure(t *testing.T) {
	store := newFakeStore()
	store.failCreate = true
	svc := newTestService(store)

	record, _, err := svc.CalculateSplit(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("CalculateSplit should not fail on a persistence error, got %v", err)
	}
	if record == nil || record.Result["Bob"] == nil {
		t.Error("computed result should be returned despite the failed write")
	}
}

func TestCalculateSplitRejectsEmptyRequest(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, _, err := svc.CalculateSplit(context.Background(), &models.SplitRequest{
		People: []string{"Alice"},
		Tax:    "0",
		Tip:    "",
	})
	if !errors.Is(err, ErrEmptyRequest) {
		t.Errorf("error = %v, want ErrEmptyRequest", err)
	}
}

func TestCalculateSplitRejectsNoPeople(t *testing.T) {
	svc := newTestService(newFakeStore())

	req := testRequest()
	req.People = nil
	_, _, err := svc.CalculateSplit(context.Background(), req)
	if !errors.Is(err, calculator.ErrNoPeople) {
		t.Errorf("error = %v, want calculator.ErrNoPeople", err)
	}
}

func TestViewSplitNotFound(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.ViewSplit(context.Background(), "000000000000")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("error = %v, want storage.ErrNotFound", err)
	}
}
