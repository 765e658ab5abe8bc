// Package hello implements the first tutorial server: a handful of pure
// tools, two informational resources, and two prompt templates. It has no
// external dependencies, which keeps the focus on how tools are wired into
// the protocol layer.
package hello

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/log"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/tools"
)

// ServerName identifies the hello server to clients.
const ServerName = "Hello MCP Server"

// AddInput defines input for the add tool.
type AddInput struct {
	A int `json:"a" jsonschema:"the first number"`
	B int `json:"b" jsonschema:"the second number"`
}

// MultiplyInput defines input for the multiply tool.
type MultiplyInput struct {
	A float64 `json:"a" jsonschema:"the first number"`
	B float64 `json:"b" jsonschema:"the second number"`
}

// GreetInput defines input for the greet tool.
type GreetInput struct {
	Name     string `json:"name" jsonschema:"name of the person to greet"`
	Language string `json:"language,omitempty" jsonschema:"greeting language: ko, en or ja (default ko)"`
}

// ReverseInput defines input for the reverse_string tool.
type ReverseInput struct {
	Text string `json:"text" jsonschema:"the string to reverse"`
}

// Toolset provides the hello server's tools.
type Toolset struct {
	logger log.Logger
}

// New creates the hello toolset.
func New(logger log.Logger) (*Toolset, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Toolset{logger: logger}, nil
}

// Add returns the sum of two integers.
func (ts *Toolset) Add(input AddInput) tools.Result {
	sum := input.A + input.B
	return tools.Ok(fmt.Sprintf("%d", sum), map[string]any{"result": sum})
}

// Multiply returns the product of two numbers.
func (ts *Toolset) Multiply(input MultiplyInput) tools.Result {
	product := input.A * input.B
	return tools.Ok(fmt.Sprintf("%g", product), map[string]any{"result": product})
}

// greetings maps a language code to its greeting template.
var greetings = map[string]string{
	"ko": "안녕하세요, %s님! 반갑습니다!",
	"en": "Hello, %s! Nice to meet you!",
	"ja": "こんにちは、%sさん！はじめまして！",
}

// Greet greets a person in the requested language, falling back to Korean
// for unknown language codes.
func (ts *Toolset) Greet(input GreetInput) tools.Result {
	ts.logger.Info("greet called", "name", input.Name, "language", input.Language)

	tmpl, ok := greetings[input.Language]
	if !ok {
		tmpl = greetings["ko"]
	}
	greeting := fmt.Sprintf(tmpl, input.Name)
	return tools.Ok(greeting, map[string]any{"greeting": greeting})
}

// Reverse reverses a string rune-wise, so multi-byte text survives intact.
func (ts *Toolset) Reverse(input ReverseInput) tools.Result {
	runes := []rune(input.Text)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	reversed := string(runes)
	return tools.Ok(reversed, map[string]any{"result": reversed})
}

// ServerInfo renders the hello://info resource.
func (ts *Toolset) ServerInfo(version string) string {
	return fmt.Sprintf(`Server name: %s
Version: %s
Description: a first MCP server for learning the tool/resource/prompt model.
Available tools: add, multiply, greet, reverse_string`, ServerName, version)
}

// helpTopics backs the hello://help/{topic} resource template.
var helpTopics = map[string]string{
	"tools":     "Tools are functions the model can execute. Each tool declares a name, a description and a typed input schema. This server exposes add, multiply, greet and reverse_string.",
	"resources": "Resources are data the model can read, addressed by a scheme-qualified URI such as hello://info.",
	"prompts":   "Prompts are reusable message templates that guide the model toward a particular kind of answer.",
}

// Help returns the help text for a topic, or a pointer to the available
// topics when the requested one does not exist.
func (ts *Toolset) Help(topic string) string {
	if text, ok := helpTopics[topic]; ok {
		return text
	}

	topics := make([]string, 0, len(helpTopics))
	for name := range helpTopics {
		topics = append(topics, name)
	}
	sort.Strings(topics)
	return fmt.Sprintf("no help available for %q; available topics: %s", topic, strings.Join(topics, ", "))
}

// ExplainCode renders the explain_code prompt.
func (ts *Toolset) ExplainCode(code, language string) string {
	if language == "" {
		language = "go"
	}
	return fmt.Sprintf(`Explain the following %s code so a beginner can follow it.
Describe what each part does and why.

`+"```%s\n%s\n```", language, language, code)
}

// DebugError renders the debug_error prompt.
func (ts *Toolset) DebugError(errorMessage string) string {
	return fmt.Sprintf(`Analyze the following error message and suggest a fix.

Error message:
%s

Answer in this format:
1. Cause of the error
2. How to fix it
3. How to prevent it`, errorMessage)
}
