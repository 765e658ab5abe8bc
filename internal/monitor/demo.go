package monitor

import (
	"context"
	"errors"
	"sort"
)

// errDemoRawQuery signals that raw SQL is only available against a live
// database.
var errDemoRawQuery = errors.New(
	"raw queries need a live database; demo mode supports list_sites, list_cameras, list_events, and dashboard")

// demoSites, demoCameras, and demoEvents form the fixed demonstration
// dataset. IDs are stable so tests and tutorials can reference them.
var demoSites = []Site{
	{ID: 1, Name: "Riverside Plant", Region: "north", Status: "operational", Cameras: 3, Contact: "ops-river@example.com", JoinedAt: "2024-03-12"},
	{ID: 2, Name: "Harbor Terminal", Region: "south", Status: "operational", Cameras: 2, Contact: "ops-harbor@example.com", JoinedAt: "2024-06-01"},
	{ID: 3, Name: "Summit Warehouse", Region: "north", Status: "maintenance", Cameras: 2, Contact: "ops-summit@example.com", JoinedAt: "2025-01-20"},
	{ID: 4, Name: "Meadow Depot", Region: "east", Status: "operational", Cameras: 1, Contact: "ops-meadow@example.com", JoinedAt: "2025-04-07"},
}

var demoCameras = []Camera{
	{ID: 101, SiteID: 1, Name: "Gate A", Location: "main entrance", Status: "ok", Model: "VX-200"},
	{ID: 102, SiteID: 1, Name: "Loading Dock", Location: "rear dock", Status: "ok", Model: "VX-200"},
	{ID: 103, SiteID: 1, Name: "Perimeter East", Location: "east fence", Status: "fault", Model: "VX-120"},
	{ID: 104, SiteID: 2, Name: "Pier 1", Location: "pier entry", Status: "ok", Model: "VX-340"},
	{ID: 105, SiteID: 2, Name: "Crane Yard", Location: "crane area", Status: "maintenance", Model: "VX-340"},
	{ID: 106, SiteID: 3, Name: "Storage North", Location: "hall N", Status: "maintenance", Model: "VX-120"},
	{ID: 107, SiteID: 3, Name: "Storage South", Location: "hall S", Status: "ok", Model: "VX-120"},
	{ID: 108, SiteID: 4, Name: "Front Lot", Location: "parking lot", Status: "ok", Model: "VX-200"},
}

var demoEvents = []Event{
	{ID: 1001, CameraID: 101, SiteID: 1, Kind: "motion", Severity: "low", OccurredAt: "2025-08-20 08:15:00", Note: "staff arrival"},
	{ID: 1002, CameraID: 103, SiteID: 1, Kind: "signal_lost", Severity: "high", OccurredAt: "2025-08-21 02:40:00", Note: "camera offline"},
	{ID: 1003, CameraID: 104, SiteID: 2, Kind: "intrusion", Severity: "critical", OccurredAt: "2025-08-21 23:55:00", Note: "unidentified person at pier entry"},
	{ID: 1004, CameraID: 105, SiteID: 2, Kind: "motion", Severity: "low", OccurredAt: "2025-08-22 06:30:00", Note: "maintenance crew"},
	{ID: 1005, CameraID: 106, SiteID: 3, Kind: "tamper", Severity: "medium", OccurredAt: "2025-08-22 14:10:00", Note: "housing opened during service"},
	{ID: 1006, CameraID: 108, SiteID: 4, Kind: "motion", Severity: "low", OccurredAt: "2025-08-23 19:05:00", Note: "delivery truck"},
	{ID: 1007, CameraID: 101, SiteID: 1, Kind: "loitering", Severity: "medium", OccurredAt: "2025-08-24 21:45:00", Note: "person near gate for 12 minutes"},
}

// DemoStore serves the fixed dataset. All methods are deterministic and
// never touch the network.
type DemoStore struct{}

// NewDemoStore creates the demonstration store.
func NewDemoStore() *DemoStore { return &DemoStore{} }

func (d *DemoStore) Sites(_ context.Context, filter SiteFilter) ([]Site, error) {
	var out []Site
	for _, site := range demoSites {
		if filter.Region != "" && site.Region != filter.Region {
			continue
		}
		if filter.Status != "" && site.Status != filter.Status {
			continue
		}
		out = append(out, site)
	}
	return out, nil
}

func (d *DemoStore) Cameras(_ context.Context, filter CameraFilter) ([]Camera, error) {
	var out []Camera
	for _, cam := range demoCameras {
		if filter.SiteID != 0 && cam.SiteID != filter.SiteID {
			continue
		}
		if filter.Status != "" && cam.Status != filter.Status {
			continue
		}
		out = append(out, cam)
	}
	return out, nil
}

func (d *DemoStore) Events(_ context.Context, filter EventFilter) ([]Event, error) {
	var out []Event
	for _, ev := range demoEvents {
		if filter.SiteID != 0 && ev.SiteID != filter.SiteID {
			continue
		}
		if filter.CameraID != 0 && ev.CameraID != filter.CameraID {
			continue
		}
		if filter.Severity != "" && ev.Severity != filter.Severity {
			continue
		}
		out = append(out, ev)
	}
	// Newest first.
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt > out[j].OccurredAt })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (d *DemoStore) Query(_ context.Context, _ string) (*QueryResult, error) {
	return nil, errDemoRawQuery
}

func (d *DemoStore) Mode() string { return "demo" }
