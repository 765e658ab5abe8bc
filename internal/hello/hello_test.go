package hello

import (
	"strings"
	"testing"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/log"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/tools"
)

func newTestToolset(t *testing.T) *Toolset {
	t.Helper()
	ts, err := New(log.NewNop())
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return ts
}

func TestNew_RequiresLogger(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) expected error, got nil")
	}
}

func TestAdd(t *testing.T) {
	ts := newTestToolset(t)

	r := ts.Add(AddInput{A: 2, B: 40})
	if r.Status != tools.StatusSuccess {
		t.Fatalf("Add() status = %q", r.Status)
	}
	data := r.Data.(map[string]any)
	if data["result"] != 42 {
		t.Errorf("Add(2, 40) = %v, want 42", data["result"])
	}
}

func TestMultiply(t *testing.T) {
	ts := newTestToolset(t)

	r := ts.Multiply(MultiplyInput{A: 2.5, B: 4})
	data := r.Data.(map[string]any)
	if data["result"] != 10.0 {
		t.Errorf("Multiply(2.5, 4) = %v, want 10", data["result"])
	}
}

func TestGreet(t *testing.T) {
	ts := newTestToolset(t)

	tests := []struct {
		name     string
		input    GreetInput
		contains string
	}{
		{name: "korean", input: GreetInput{Name: "지민", Language: "ko"}, contains: "안녕하세요, 지민님"},
		{name: "english", input: GreetInput{Name: "Amy", Language: "en"}, contains: "Hello, Amy!"},
		{name: "japanese", input: GreetInput{Name: "健", Language: "ja"}, contains: "こんにちは、健さん"},
		{name: "unknown language falls back to korean", input: GreetInput{Name: "Sam", Language: "fr"}, contains: "안녕하세요, Sam님"},
		{name: "empty language falls back to korean", input: GreetInput{Name: "Sam"}, contains: "안녕하세요, Sam님"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ts.Greet(tt.input)
			if r.Status != tools.StatusSuccess {
				t.Fatalf("Greet() status = %q", r.Status)
			}
			if !strings.Contains(r.Message, tt.contains) {
				t.Errorf("Greet() = %q, want to contain %q", r.Message, tt.contains)
			}
		})
	}
}

func TestReverse(t *testing.T) {
	ts := newTestToolset(t)

	tests := []struct {
		in   string
		want string
	}{
		{in: "hello", want: "olleh"},
		{in: "", want: ""},
		{in: "a", want: "a"},
		{in: "안녕하세요", want: "요세하녕안"}, // rune-wise, not byte-wise
	}

	for _, tt := range tests {
		r := ts.Reverse(ReverseInput{Text: tt.in})
		if r.Message != tt.want {
			t.Errorf("Reverse(%q) = %q, want %q", tt.in, r.Message, tt.want)
		}
	}
}

func TestHelp(t *testing.T) {
	ts := newTestToolset(t)

	for _, topic := range []string{"tools", "resources", "prompts"} {
		if text := ts.Help(topic); text == "" || strings.Contains(text, "no help available") {
			t.Errorf("Help(%q) = %q, want topic text", topic, text)
		}
	}

	// The tools topic names what this server actually exposes.
	toolsHelp := ts.Help("tools")
	for _, name := range []string{"add", "multiply", "greet", "reverse_string"} {
		if !strings.Contains(toolsHelp, name) {
			t.Errorf("Help(tools) should name %q, got %q", name, toolsHelp)
		}
	}

	unknown := ts.Help("transport")
	if !strings.Contains(unknown, "no help available") {
		t.Errorf("Help(unknown) = %q, want fallback message", unknown)
	}
	// Fallback lists the available topics.
	for _, topic := range []string{"prompts", "resources", "tools"} {
		if !strings.Contains(unknown, topic) {
			t.Errorf("Help(unknown) should list topic %q, got %q", topic, unknown)
		}
	}
}

func TestServerInfo(t *testing.T) {
	ts := newTestToolset(t)

	info := ts.ServerInfo("1.2.3")
	if !strings.Contains(info, ServerName) {
		t.Errorf("ServerInfo() missing server name: %q", info)
	}
	if !strings.Contains(info, "1.2.3") {
		t.Errorf("ServerInfo() missing version: %q", info)
	}
}

func TestPrompts(t *testing.T) {
	ts := newTestToolset(t)

	explain := ts.ExplainCode("fmt.Println(1)", "")
	if !strings.Contains(explain, "```go") {
		t.Errorf("ExplainCode() should default language to go: %q", explain)
	}
	if !strings.Contains(explain, "fmt.Println(1)") {
		t.Error("ExplainCode() should embed the code")
	}

	debug := ts.DebugError("nil pointer dereference")
	if !strings.Contains(debug, "nil pointer dereference") {
		t.Error("DebugError() should embed the error message")
	}
}
