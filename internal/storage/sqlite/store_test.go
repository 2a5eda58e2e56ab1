package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/internal/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "leads.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestSaveGetRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	created := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	saved, err := store.Save(context.Background(), storage.Lead{
		FormName:      "solar-insurance-leads",
		SquareFootage: 120,
		SolarValue:    15000,
		Email:         " a@b.co ",
		EstimateLow:   70.5,
		EstimateHigh:  142.5,
		CreatedAt:     created,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Fatalf("expected generated id")
	}

	got, err := store.Get(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := storage.Lead{
		ID:            saved.ID,
		FormName:      "solar-insurance-leads",
		SquareFootage: 120,
		SolarValue:    15000,
		Email:         "a@b.co",
		EstimateLow:   70.5,
		EstimateHigh:  142.5,
		CreatedAt:     created,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lead mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRequiresFields(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if _, err := store.Save(context.Background(), storage.Lead{Email: "a@b.co"}); err == nil {
		t.Fatal("expected form name error")
	}
	if _, err := store.Save(context.Background(), storage.Lead{FormName: "f"}); err == nil {
		t.Fatal("expected email error")
	}
}

func TestListNewestFirstWithFilter(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	base := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	for i, form := range []string{"solar-insurance-leads", "other", "solar-insurance-leads"} {
		if _, err := store.Save(context.Background(), storage.Lead{
			FormName:  form,
			Email:     "a@b.co",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	all, err := store.List(context.Background(), storage.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || !all[0].CreatedAt.After(all[1].CreatedAt) {
		t.Fatalf("expected three leads newest first, got %+v", all)
	}

	filtered, err := store.List(context.Background(), storage.ListFilter{FormName: "solar-insurance-leads", Limit: 1})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 1 || !filtered[0].CreatedAt.Equal(base.Add(2*time.Minute)) {
		t.Fatalf("unexpected filtered result %+v", filtered)
	}
}

func TestMigrationsApplyOnce(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "leads.db")
	first, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := first.Save(context.Background(), storage.Lead{FormName: "f", Email: "a@b.co"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	leads, err := second.List(context.Background(), storage.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("expected lead to survive reopen, got %d", len(leads))
	}
}

func TestUpSection(t *testing.T) {
	got := upSection("-- +migrate Up\nCREATE TABLE a (id TEXT);\n-- +migrate Down\nDROP TABLE a;\n")
	if got != "\nCREATE TABLE a (id TEXT);\n" {
		t.Fatalf("unexpected up section %q", got)
	}
}
