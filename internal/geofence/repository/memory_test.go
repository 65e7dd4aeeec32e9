package repository

import (
	"context"
	"testing"

	"geofence-control-plane/internal/geofence/domain"
)

func TestMemoryRegistry_UpsertByNameIsIdempotent(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()

	reg.Upsert(ctx, &domain.Fence{Name: "home", Lat: 52.1, Lon: 4.3, Radius: 100, Timestamp: 1})
	reg.Upsert(ctx, &domain.Fence{Name: "home", Lat: 52.2, Lon: 4.4, Radius: 150, Timestamp: 2})

	fences, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(fences) != 1 {
		t.Fatalf("List returned %d fences, want 1", len(fences))
	}
	if fences[0].Lat != 52.2 || fences[0].Radius != 150 || fences[0].Timestamp != 2 {
		t.Errorf("fence = %+v, want the latest coordinates", fences[0])
	}
}

func TestMemoryRegistry_GetReturnsNilWhenUnknown(t *testing.T) {
	reg := NewMemoryRegistry()

	f, err := reg.Get(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if f != nil {
		t.Errorf("Get = %+v, want nil", f)
	}
}

func TestMemoryRegistry_ListSorted(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()

	reg.Upsert(ctx, &domain.Fence{Name: "work"})
	reg.Upsert(ctx, &domain.Fence{Name: "home"})

	fences, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(fences) != 2 {
		t.Fatalf("List returned %d fences, want 2", len(fences))
	}
	if fences[0].Name != "home" || fences[1].Name != "work" {
		t.Errorf("List order = [%s %s], want [home work]", fences[0].Name, fences[1].Name)
	}
}
