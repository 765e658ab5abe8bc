package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/hello"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/log"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/monitor"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/weather"
)

// connect wires the server to an in-memory transport and returns a
// connected client session. Both sessions close via t.Cleanup.
func connect(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := s.MCP().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client Connect() error = %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func newHelloServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewNop()
	s, err := New(Config{Name: "hello-test", Version: "0.0.1", Logger: logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts, err := hello.New(logger)
	if err != nil {
		t.Fatalf("hello.New() error = %v", err)
	}
	if err := RegisterHello(s, ts, "0.0.1"); err != nil {
		t.Fatalf("RegisterHello() error = %v", err)
	}
	return s
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing name", cfg: Config{Version: "1", Logger: log.NewNop()}},
		{name: "missing version", cfg: Config{Name: "x", Logger: log.NewNop()}},
		{name: "missing logger", cfg: Config{Name: "x", Version: "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}

func TestHelloServer_ListTools(t *testing.T) {
	session := connect(t, newHelloServer(t))

	listed, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}

	got := make(map[string]bool)
	for _, tool := range listed.Tools {
		got[tool.Name] = true
	}
	for _, want := range []string{"add", "multiply", "greet", "reverse_string"} {
		if !got[want] {
			t.Errorf("tool %q not listed", want)
		}
	}
}

func TestHelloServer_CallTool(t *testing.T) {
	session := connect(t, newHelloServer(t))
	ctx := context.Background()

	t.Run("add", func(t *testing.T) {
		res, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "add",
			Arguments: map[string]any{"a": 19, "b": 23},
		})
		if err != nil {
			t.Fatalf("CallTool() error = %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected tool error: %+v", res.Content)
		}
		text := res.Content[0].(*mcp.TextContent).Text
		if !strings.Contains(text, "42") {
			t.Errorf("add result = %q, want 42", text)
		}
	})

	t.Run("greet with fallback language", func(t *testing.T) {
		res, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "greet",
			Arguments: map[string]any{"name": "Mina", "language": "fr"},
		})
		if err != nil {
			t.Fatalf("CallTool() error = %v", err)
		}
		text := res.Content[0].(*mcp.TextContent).Text
		if !strings.Contains(text, "Mina") {
			t.Errorf("greet result = %q, want the name included", text)
		}
	})
}

func TestHelloServer_ResourcesAndPrompts(t *testing.T) {
	session := connect(t, newHelloServer(t))
	ctx := context.Background()

	t.Run("static resource", func(t *testing.T) {
		res, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "hello://info"})
		if err != nil {
			t.Fatalf("ReadResource() error = %v", err)
		}
		if !strings.Contains(res.Contents[0].Text, "0.0.1") {
			t.Errorf("server info missing version: %q", res.Contents[0].Text)
		}
	})

	t.Run("templated resource", func(t *testing.T) {
		res, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "hello://help/tools"})
		if err != nil {
			t.Fatalf("ReadResource() error = %v", err)
		}
		if !strings.Contains(res.Contents[0].Text, "add") {
			t.Errorf("tools help missing tool names: %q", res.Contents[0].Text)
		}
	})

	t.Run("prompt", func(t *testing.T) {
		res, err := session.GetPrompt(ctx, &mcp.GetPromptParams{
			Name:      "explain_code",
			Arguments: map[string]string{"code": "x := 1", "language": "go"},
		})
		if err != nil {
			t.Fatalf("GetPrompt() error = %v", err)
		}
		text := res.Messages[0].Content.(*mcp.TextContent).Text
		if !strings.Contains(text, "x := 1") {
			t.Errorf("prompt missing the code: %q", text)
		}
	})
}

func TestWeatherServer_DomainErrorIsToolError(t *testing.T) {
	logger := log.NewNop()
	s, err := New(Config{Name: "weather-test", Version: "0.0.1", Logger: logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	svc, err := weather.NewService(weather.NewDemoSource(), logger)
	if err != nil {
		t.Fatalf("weather.NewService() error = %v", err)
	}
	if err := RegisterWeather(s, svc); err != nil {
		t.Fatalf("RegisterWeather() error = %v", err)
	}
	session := connect(t, s)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_weather",
		Arguments: map[string]any{"city": "Atlantis"},
	})
	if err != nil {
		t.Fatalf("CallTool() error = %v, domain failures must not be protocol errors", err)
	}
	if !res.IsError {
		t.Fatal("unknown city should be a tool error")
	}
	text := res.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "[NOT_FOUND]") {
		t.Errorf("error text missing code prefix: %q", text)
	}
}

func TestMonitorServer_QueryGate(t *testing.T) {
	logger := log.NewNop()
	s, err := New(Config{Name: "db-test", Version: "0.0.1", Logger: logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	svc, err := monitor.NewService(monitor.NewDemoStore(), logger)
	if err != nil {
		t.Fatalf("monitor.NewService() error = %v", err)
	}
	if err := RegisterMonitor(s, svc); err != nil {
		t.Fatalf("RegisterMonitor() error = %v", err)
	}
	session := connect(t, s)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "run_query",
		Arguments: map[string]any{"query": "DELETE FROM events"},
	})
	if err != nil {
		t.Fatalf("CallTool() error = %v", err)
	}
	if !res.IsError {
		t.Fatal("mutating query should be rejected")
	}
	text := res.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "[SECURITY]") {
		t.Errorf("rejection should carry the SECURITY code: %q", text)
	}
}
