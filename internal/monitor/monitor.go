// Package monitor implements the fourth tutorial server: read-only queries
// over a site/camera/event monitoring database. With PostgreSQL credentials
// configured it queries a live database through pgx; otherwise a fixed
// in-memory dataset answers the same tool calls deterministically.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/log"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/security"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/tools"
)

// maxDisplayRows caps how many rows run_query renders into the message.
const maxDisplayRows = 50

// Site is a monitored installation.
type Site struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Region   string `json:"region"`
	Status   string `json:"status"`
	Cameras  int    `json:"cameras"`
	Contact  string `json:"contact"`
	JoinedAt string `json:"joined_at"`
}

// Camera is a device installed at a site.
type Camera struct {
	ID       int    `json:"id"`
	SiteID   int    `json:"site_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Status   string `json:"status"`
	Model    string `json:"model"`
}

// Event is a detection reported by a camera.
type Event struct {
	ID         int    `json:"id"`
	CameraID   int    `json:"camera_id"`
	SiteID     int    `json:"site_id"`
	Kind       string `json:"kind"`
	Severity   string `json:"severity"`
	OccurredAt string `json:"occurred_at"`
	Note       string `json:"note"`
}

// QueryResult is the generic shape of a raw read-only query.
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Total   int      `json:"total"`
}

// SiteFilter narrows list_sites.
type SiteFilter struct {
	Region string
	Status string
}

// CameraFilter narrows list_cameras. A zero SiteID matches every site.
type CameraFilter struct {
	SiteID int
	Status string
}

// EventFilter narrows list_events.
type EventFilter struct {
	SiteID   int
	CameraID int
	Severity string
	Limit    int
}

// Querier answers monitoring lookups. DemoStore serves fixed data;
// PgStore runs against PostgreSQL.
type Querier interface {
	Sites(ctx context.Context, filter SiteFilter) ([]Site, error)
	Cameras(ctx context.Context, filter CameraFilter) ([]Camera, error)
	Events(ctx context.Context, filter EventFilter) ([]Event, error)

	// Query runs an already-validated read-only statement. Demo mode
	// does not support raw queries and returns an error saying so.
	Query(ctx context.Context, query string) (*QueryResult, error)

	// Mode reports "demo" or "live" for the status resource.
	Mode() string
}

// ListSitesInput defines input for the list_sites tool.
type ListSitesInput struct {
	Region string `json:"region,omitempty" jsonschema:"filter by region name"`
	Status string `json:"status,omitempty" jsonschema:"filter by status: operational or maintenance"`
}

// ListCamerasInput defines input for the list_cameras tool.
type ListCamerasInput struct {
	SiteID int    `json:"site_id,omitempty" jsonschema:"filter by site, 0 for all sites"`
	Status string `json:"status,omitempty" jsonschema:"filter by status: ok, maintenance, or fault"`
}

// ListEventsInput defines input for the list_events tool.
type ListEventsInput struct {
	SiteID   int    `json:"site_id,omitempty" jsonschema:"filter by site"`
	CameraID int    `json:"camera_id,omitempty" jsonschema:"filter by camera"`
	Severity string `json:"severity,omitempty" jsonschema:"filter by severity: low, medium, high, critical"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum events to return, defaults to 20"`
}

// RunQueryInput defines input for the run_query tool.
type RunQueryInput struct {
	Query string `json:"query" jsonschema:"a single read-only SELECT statement"`
}

// Service exposes the monitoring tools over a chosen Querier.
type Service struct {
	store  Querier
	logger log.Logger
}

// NewService creates the monitoring service.
func NewService(store Querier, logger log.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("querier is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Service{store: store, logger: logger}, nil
}

// ListSites lists sites, optionally filtered by region and status.
func (s *Service) ListSites(ctx context.Context, input ListSitesInput) tools.Result {
	sites, err := s.store.Sites(ctx, SiteFilter{Region: input.Region, Status: input.Status})
	if err != nil {
		return tools.Errorf(tools.ErrCodeDatabase, "listing sites: %v", err)
	}
	if len(sites) == 0 {
		return tools.Ok("no sites match the filter", sites)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d sites:\n", len(sites))
	for _, site := range sites {
		fmt.Fprintf(&sb, "  [%d] %s (%s) status=%s cameras=%d\n",
			site.ID, site.Name, site.Region, site.Status, site.Cameras)
	}
	return tools.Ok(strings.TrimRight(sb.String(), "\n"), sites)
}

// ListCameras lists cameras, optionally narrowed to one site or status.
func (s *Service) ListCameras(ctx context.Context, input ListCamerasInput) tools.Result {
	if input.SiteID < 0 {
		return tools.Errorf(tools.ErrCodeValidation, "site_id cannot be negative")
	}
	cameras, err := s.store.Cameras(ctx, CameraFilter{
		SiteID: input.SiteID,
		Status: strings.ToLower(input.Status),
	})
	if err != nil {
		return tools.Errorf(tools.ErrCodeDatabase, "listing cameras: %v", err)
	}
	if len(cameras) == 0 {
		if input.SiteID > 0 {
			return tools.Errorf(tools.ErrCodeNotFound, "no cameras found for site %d", input.SiteID)
		}
		return tools.Ok("no cameras match the filter", cameras)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d cameras:\n", len(cameras))
	for _, cam := range cameras {
		fmt.Fprintf(&sb, "  [%d] %s @ %s status=%s model=%s\n",
			cam.ID, cam.Name, cam.Location, cam.Status, cam.Model)
	}
	return tools.Ok(strings.TrimRight(sb.String(), "\n"), cameras)
}

// ListEvents lists recent detection events, newest first.
func (s *Service) ListEvents(ctx context.Context, input ListEventsInput) tools.Result {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	events, err := s.store.Events(ctx, EventFilter{
		SiteID:   input.SiteID,
		CameraID: input.CameraID,
		Severity: strings.ToLower(input.Severity),
		Limit:    limit,
	})
	if err != nil {
		return tools.Errorf(tools.ErrCodeDatabase, "listing events: %v", err)
	}
	if len(events) == 0 {
		return tools.Ok("no events match the filter", events)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d events:\n", len(events))
	for _, ev := range events {
		fmt.Fprintf(&sb, "  [%s] %s site=%d camera=%d at %s: %s\n",
			strings.ToUpper(ev.Severity), ev.Kind, ev.SiteID, ev.CameraID, ev.OccurredAt, ev.Note)
	}
	return tools.Ok(strings.TrimRight(sb.String(), "\n"), events)
}

// Dashboard summarizes the whole installation: site counts by status,
// camera health, and event counts by severity.
func (s *Service) Dashboard(ctx context.Context) tools.Result {
	sites, err := s.store.Sites(ctx, SiteFilter{})
	if err != nil {
		return tools.Errorf(tools.ErrCodeDatabase, "loading sites: %v", err)
	}

	siteStatus := map[string]int{}
	for _, site := range sites {
		siteStatus[site.Status]++
	}

	cameras, err := s.store.Cameras(ctx, CameraFilter{})
	if err != nil {
		return tools.Errorf(tools.ErrCodeDatabase, "loading cameras: %v", err)
	}
	cameraStatus := map[string]int{}
	for _, cam := range cameras {
		cameraStatus[cam.Status]++
	}

	events, err := s.store.Events(ctx, EventFilter{Limit: 1000})
	if err != nil {
		return tools.Errorf(tools.ErrCodeDatabase, "loading events: %v", err)
	}
	severity := map[string]int{}
	for _, ev := range events {
		severity[ev.Severity]++
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Monitoring dashboard (%s mode)\n\n", s.store.Mode())
	fmt.Fprintf(&sb, "Sites: %d total\n", len(sites))
	for _, status := range sortedKeys(siteStatus) {
		fmt.Fprintf(&sb, "  %s: %d\n", status, siteStatus[status])
	}
	fmt.Fprintf(&sb, "Cameras: %d total\n", len(cameras))
	for _, status := range sortedKeys(cameraStatus) {
		fmt.Fprintf(&sb, "  %s: %d\n", status, cameraStatus[status])
	}
	fmt.Fprintf(&sb, "Events: %d recorded\n", len(events))
	for _, sev := range sortedKeys(severity) {
		fmt.Fprintf(&sb, "  %s: %d\n", sev, severity[sev])
	}

	return tools.Ok(strings.TrimRight(sb.String(), "\n"), map[string]any{
		"mode":          s.store.Mode(),
		"sites":         len(sites),
		"site_status":   siteStatus,
		"cameras":       len(cameras),
		"camera_status": cameraStatus,
		"events":        len(events),
		"severity":      severity,
	})
}

// RunQuery validates and executes a raw read-only statement. The read-only
// gate runs before the store sees the query, in demo mode included.
func (s *Service) RunQuery(ctx context.Context, input RunQueryInput) tools.Result {
	if err := security.ValidateReadOnlyQuery(input.Query); err != nil {
		s.logger.Warn("query rejected", "reason", err)
		if errors.Is(err, security.ErrQueryNotReadOnly) {
			return tools.Errorf(tools.ErrCodeSecurity, "%v", err)
		}
		return tools.Errorf(tools.ErrCodeValidation, "%v", err)
	}

	result, err := s.store.Query(ctx, input.Query)
	if err != nil {
		if errors.Is(err, errDemoRawQuery) {
			return tools.Errorf(tools.ErrCodeValidation, "%v", err)
		}
		return tools.Errorf(tools.ErrCodeDatabase, "query failed: %v", err)
	}

	if result.Total == 0 {
		return tools.Ok("query returned no rows", result)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d rows\n", result.Total)
	sb.WriteString(strings.Join(result.Columns, " | "))
	sb.WriteString("\n")
	display := result.Rows
	if len(display) > maxDisplayRows {
		display = display[:maxDisplayRows]
	}
	for _, row := range display {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprint(cell)
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
	}
	if result.Total > maxDisplayRows {
		fmt.Fprintf(&sb, "... %d more rows omitted", result.Total-maxDisplayRows)
	}
	return tools.Ok(strings.TrimRight(sb.String(), "\n"), result)
}

// Status renders the db://status resource.
func (s *Service) Status(ctx context.Context) string {
	mode := s.store.Mode()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Database mode: %s\n", mode)
	if mode == "demo" {
		sb.WriteString("Serving a fixed in-memory dataset. Set POSTGRES_PASSWORD to connect to a live database.\n")
	} else {
		sb.WriteString("Connected to PostgreSQL.\n")
	}
	sites, err := s.store.Sites(ctx, SiteFilter{})
	if err == nil {
		fmt.Fprintf(&sb, "Sites available: %d", len(sites))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Schema renders the db://schema resource.
func (s *Service) Schema() string {
	return `Tables:

sites(id, name, region, status, cameras, contact, joined_at)
  status: operational | maintenance

cameras(id, site_id, name, location, status, model)
  status: ok | maintenance | fault
  site_id references sites(id)

events(id, camera_id, site_id, kind, severity, occurred_at, note)
  severity: low | medium | high | critical
  camera_id references cameras(id), site_id references sites(id)

Only SELECT statements are accepted by run_query.`
}

// AnalyzeSite renders the analyze_site prompt.
func (s *Service) AnalyzeSite(siteName string) string {
	return fmt.Sprintf(`Please analyze the monitoring site named %q:

1. Use list_sites to find the site and note its id and status
2. Use list_cameras to check the state of every camera at that site
3. Use list_events to review recent detections, pointing out cameras in maintenance or fault status
4. Summarize the risk level and recommend follow-up actions`, siteName)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
