package monitor

import (
	"context"
	"strings"
	"testing"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/log"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/tools"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(NewDemoStore(), log.NewNop())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestDemoStore_Sites(t *testing.T) {
	store := NewDemoStore()
	ctx := context.Background()

	tests := []struct {
		name   string
		filter SiteFilter
		want   int
	}{
		{name: "no filter", filter: SiteFilter{}, want: 4},
		{name: "by region", filter: SiteFilter{Region: "north"}, want: 2},
		{name: "by status", filter: SiteFilter{Status: "maintenance"}, want: 1},
		{name: "region and status", filter: SiteFilter{Region: "north", Status: "operational"}, want: 1},
		{name: "no match", filter: SiteFilter{Region: "west"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sites, err := store.Sites(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Sites() error = %v", err)
			}
			if len(sites) != tt.want {
				t.Errorf("got %d sites, want %d", len(sites), tt.want)
			}
		})
	}
}

func TestDemoStore_Events(t *testing.T) {
	store := NewDemoStore()
	ctx := context.Background()

	t.Run("newest first", func(t *testing.T) {
		events, err := store.Events(ctx, EventFilter{Limit: 100})
		if err != nil {
			t.Fatalf("Events() error = %v", err)
		}
		for i := 1; i < len(events); i++ {
			if events[i-1].OccurredAt < events[i].OccurredAt {
				t.Errorf("events out of order at %d: %s before %s",
					i, events[i-1].OccurredAt, events[i].OccurredAt)
			}
		}
	})

	t.Run("limit applies after sort", func(t *testing.T) {
		events, err := store.Events(ctx, EventFilter{Limit: 2})
		if err != nil {
			t.Fatalf("Events() error = %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("got %d events, want 2", len(events))
		}
		if events[0].ID != 1007 {
			t.Errorf("newest event ID = %d, want 1007", events[0].ID)
		}
	})

	t.Run("severity filter", func(t *testing.T) {
		events, err := store.Events(ctx, EventFilter{Severity: "critical", Limit: 10})
		if err != nil {
			t.Fatalf("Events() error = %v", err)
		}
		if len(events) != 1 || events[0].Kind != "intrusion" {
			t.Errorf("unexpected critical events: %+v", events)
		}
	})

	t.Run("camera filter", func(t *testing.T) {
		events, err := store.Events(ctx, EventFilter{CameraID: 101, Limit: 10})
		if err != nil {
			t.Fatalf("Events() error = %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("got %d events for camera 101, want 2", len(events))
		}
		for _, ev := range events {
			if ev.CameraID != 101 {
				t.Errorf("event %d has camera %d, want 101", ev.ID, ev.CameraID)
			}
		}
	})
}

func TestListCameras(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("all sites", func(t *testing.T) {
		result := svc.ListCameras(ctx, ListCamerasInput{})
		if result.Status != tools.StatusSuccess {
			t.Fatalf("Status = %v: %+v", result.Status, result.Error)
		}
		if !strings.Contains(result.Message, "8 cameras") {
			t.Errorf("camera count wrong:\n%s", result.Message)
		}
	})

	t.Run("known site", func(t *testing.T) {
		result := svc.ListCameras(ctx, ListCamerasInput{SiteID: 1})
		if result.Status != tools.StatusSuccess {
			t.Fatalf("Status = %v: %+v", result.Status, result.Error)
		}
		if !strings.Contains(result.Message, "3 cameras") {
			t.Errorf("camera count wrong:\n%s", result.Message)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		result := svc.ListCameras(ctx, ListCamerasInput{Status: "Maintenance"})
		if result.Status != tools.StatusSuccess {
			t.Fatalf("Status = %v: %+v", result.Status, result.Error)
		}
		if !strings.Contains(result.Message, "2 cameras") {
			t.Errorf("camera count wrong:\n%s", result.Message)
		}
	})

	t.Run("unknown site", func(t *testing.T) {
		result := svc.ListCameras(ctx, ListCamerasInput{SiteID: 99})
		if result.Error == nil || result.Error.Code != tools.ErrCodeNotFound {
			t.Errorf("got %+v, want NOT_FOUND", result.Error)
		}
	})

	t.Run("negative id", func(t *testing.T) {
		result := svc.ListCameras(ctx, ListCamerasInput{SiteID: -3})
		if result.Error == nil || result.Error.Code != tools.ErrCodeValidation {
			t.Errorf("got %+v, want VALIDATION", result.Error)
		}
	})
}

func TestDashboard(t *testing.T) {
	svc := newTestService(t)

	result := svc.Dashboard(context.Background())
	if result.Status != tools.StatusSuccess {
		t.Fatalf("Status = %v: %+v", result.Status, result.Error)
	}
	for _, want := range []string{"Sites: 4 total", "Cameras: 8 total", "Events: 7 recorded", "critical: 1"} {
		if !strings.Contains(result.Message, want) {
			t.Errorf("dashboard missing %q:\n%s", want, result.Message)
		}
	}
}

func TestRunQuery(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("mutating statement is SECURITY", func(t *testing.T) {
		result := svc.RunQuery(ctx, RunQueryInput{Query: "DROP TABLE sites"})
		if result.Error == nil || result.Error.Code != tools.ErrCodeSecurity {
			t.Errorf("got %+v, want SECURITY", result.Error)
		}
	})

	t.Run("piggybacked mutation is SECURITY", func(t *testing.T) {
		result := svc.RunQuery(ctx, RunQueryInput{Query: "SELECT 1; DELETE FROM events"})
		if result.Error == nil || result.Error.Code != tools.ErrCodeSecurity {
			t.Errorf("got %+v, want SECURITY", result.Error)
		}
	})

	t.Run("valid select in demo mode explains the limitation", func(t *testing.T) {
		result := svc.RunQuery(ctx, RunQueryInput{Query: "SELECT * FROM sites"})
		if result.Error == nil || result.Error.Code != tools.ErrCodeValidation {
			t.Fatalf("got %+v, want VALIDATION", result.Error)
		}
		if !strings.Contains(result.Error.Message, "list_sites") {
			t.Errorf("demo refusal should name the available tools: %q", result.Error.Message)
		}
	})
}

func TestStatusAndSchema(t *testing.T) {
	svc := newTestService(t)

	status := svc.Status(context.Background())
	if !strings.Contains(status, "demo") {
		t.Errorf("status should report demo mode: %q", status)
	}
	if !strings.Contains(status, "Sites available: 4") {
		t.Errorf("status should count sites: %q", status)
	}

	schema := svc.Schema()
	for _, table := range []string{"sites(", "cameras(", "events("} {
		if !strings.Contains(schema, table) {
			t.Errorf("schema missing %q", table)
		}
	}
}

func TestAnalyzeSite(t *testing.T) {
	svc := newTestService(t)
	got := svc.AnalyzeSite("Harbor Terminal")
	if !strings.Contains(got, `"Harbor Terminal"`) {
		t.Errorf("prompt missing site name: %q", got)
	}
	for _, tool := range []string{"list_sites", "list_cameras", "list_events"} {
		if !strings.Contains(got, tool) {
			t.Errorf("prompt should reference %s: %q", tool, got)
		}
	}
}
