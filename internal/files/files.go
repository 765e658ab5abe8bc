// Package files implements the third tutorial server: a file manager whose
// every operation is confined to a single workspace directory. All paths
// arriving from clients pass through security.Workspace before any
// filesystem call.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/log"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/security"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/tools"
)

// MaxReadFileSize caps read_file at 10MB so a tool call cannot drag an
// arbitrarily large file into the conversation.
const MaxReadFileSize = 10 * 1024 * 1024

// binaryExtensions are rejected by read_file; their content is not text.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".pdf": true, ".zip": true, ".tar": true, ".gz": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".db": true, ".sqlite": true,
}

// ListFilesInput defines input for the list_files tool.
type ListFilesInput struct {
	Directory string `json:"directory,omitempty" jsonschema:"directory relative to the workspace, defaults to the workspace root"`
	Pattern   string `json:"pattern,omitempty" jsonschema:"glob pattern such as *.txt, defaults to *"`
}

// ReadFileInput defines input for the read_file tool.
type ReadFileInput struct {
	Path string `json:"path" jsonschema:"file path relative to the workspace"`
}

// WriteFileInput defines input for the write_file tool.
type WriteFileInput struct {
	Path      string `json:"path" jsonschema:"file path relative to the workspace"`
	Content   string `json:"content" jsonschema:"text content to write"`
	Overwrite bool   `json:"overwrite,omitempty" jsonschema:"allow replacing an existing file"`
}

// SearchFilesInput defines input for the search_files tool.
type SearchFilesInput struct {
	Keyword   string `json:"keyword" jsonschema:"text to search for, case-insensitive"`
	Directory string `json:"directory,omitempty" jsonschema:"directory to search under, defaults to the workspace root"`
	Pattern   string `json:"pattern,omitempty" jsonschema:"glob restricting which files are scanned, e.g. *.txt, defaults to *"`
}

// FileInfoInput defines input for the get_file_info tool.
type FileInfoInput struct {
	Path string `json:"path" jsonschema:"file or directory path relative to the workspace"`
}

// CreateDirectoryInput defines input for the create_directory tool.
type CreateDirectoryInput struct {
	Path string `json:"path" jsonschema:"directory path relative to the workspace"`
}

// Manager exposes workspace-confined file operations.
type Manager struct {
	ws     *security.Workspace
	logger log.Logger
}

// NewManager creates the file manager over an established workspace.
func NewManager(ws *security.Workspace, logger log.Logger) (*Manager, error) {
	if ws == nil {
		return nil, fmt.Errorf("workspace is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Manager{ws: ws, logger: logger}, nil
}

// resolve wraps workspace resolution, mapping a containment rejection to a
// SECURITY result so callers never see it as not-found.
func (m *Manager) resolve(requested string) (string, *tools.Result) {
	resolved, err := m.ws.Resolve(requested)
	if err != nil {
		if errors.Is(err, security.ErrOutsideWorkspace) {
			m.logger.Warn("path rejected", "requested", requested)
			r := tools.Errorf(tools.ErrCodeSecurity, "access denied: %q is outside the workspace", requested)
			return "", &r
		}
		r := tools.Errorf(tools.ErrCodeIO, "resolving path %q: %v", requested, err)
		return "", &r
	}
	return resolved, nil
}

// ListFiles lists entries of a workspace directory matching a glob pattern.
func (m *Manager) ListFiles(input ListFilesInput) tools.Result {
	pattern := input.Pattern
	if pattern == "" {
		pattern = "*"
	}
	dir, errResult := m.resolve(input.Directory)
	if errResult != nil {
		return *errResult
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return tools.Errorf(tools.ErrCodeNotFound, "directory %q does not exist", input.Directory)
		}
		return tools.Errorf(tools.ErrCodeIO, "reading directory: %v", err)
	}

	type entryInfo struct {
		Name  string `json:"name"`
		IsDir bool   `json:"is_dir"`
		Size  int64  `json:"size"`
	}
	var matched []entryInfo
	for _, entry := range entries {
		ok, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return tools.Errorf(tools.ErrCodeValidation, "invalid pattern %q: %v", pattern, err)
		}
		if !ok {
			continue
		}
		info := entryInfo{Name: entry.Name(), IsDir: entry.IsDir()}
		if fi, err := entry.Info(); err == nil && !entry.IsDir() {
			info.Size = fi.Size()
		}
		matched = append(matched, info)
	}

	if len(matched) == 0 {
		return tools.Ok(fmt.Sprintf("no entries matching %q", pattern), matched)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d entries:\n", len(matched))
	for _, e := range matched {
		if e.IsDir {
			fmt.Fprintf(&sb, "  [dir]  %s\n", e.Name)
		} else {
			fmt.Fprintf(&sb, "  [file] %s (%s)\n", e.Name, humanSize(e.Size))
		}
	}
	return tools.Ok(strings.TrimRight(sb.String(), "\n"), matched)
}

// ReadFile returns the text content of a workspace file.
func (m *Manager) ReadFile(input ReadFileInput) tools.Result {
	if input.Path == "" {
		return tools.Errorf(tools.ErrCodeValidation, "path is required")
	}
	if ext := strings.ToLower(filepath.Ext(input.Path)); binaryExtensions[ext] {
		return tools.Errorf(tools.ErrCodeValidation, "cannot read binary file type %q", ext)
	}

	path, errResult := m.resolve(input.Path)
	if errResult != nil {
		return *errResult
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tools.Errorf(tools.ErrCodeNotFound, "file %q does not exist", input.Path)
		}
		return tools.Errorf(tools.ErrCodeIO, "stat %q: %v", input.Path, err)
	}
	if info.IsDir() {
		return tools.Errorf(tools.ErrCodeValidation, "%q is a directory, not a file", input.Path)
	}
	if info.Size() > MaxReadFileSize {
		return tools.Errorf(tools.ErrCodeValidation,
			"file too large: %s exceeds the %s limit", humanSize(info.Size()), humanSize(MaxReadFileSize))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return tools.Errorf(tools.ErrCodeIO, "reading %q: %v", input.Path, err)
	}

	lines := strings.Count(string(content), "\n")
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		lines++
	}
	msg := fmt.Sprintf("%s (%s, %d lines)\n\n%s", input.Path, humanSize(info.Size()), lines, content)
	return tools.Ok(msg, map[string]any{
		"path":    input.Path,
		"size":    info.Size(),
		"lines":   lines,
		"content": string(content),
	})
}

// WriteFile creates or, with Overwrite set, replaces a workspace file.
// Parent directories are created as needed.
func (m *Manager) WriteFile(input WriteFileInput) tools.Result {
	if input.Path == "" {
		return tools.Errorf(tools.ErrCodeValidation, "path is required")
	}

	path, errResult := m.resolve(input.Path)
	if errResult != nil {
		return *errResult
	}

	if _, err := os.Stat(path); err == nil && !input.Overwrite {
		return tools.Errorf(tools.ErrCodeValidation,
			"file %q already exists; set overwrite to replace it", input.Path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return tools.Errorf(tools.ErrCodeIO, "creating parent directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(input.Content), 0o600); err != nil {
		return tools.Errorf(tools.ErrCodeIO, "writing %q: %v", input.Path, err)
	}

	m.logger.Info("file written", "path", input.Path, "bytes", len(input.Content))
	return tools.Ok(
		fmt.Sprintf("wrote %s to %q", humanSize(int64(len(input.Content))), input.Path),
		map[string]any{"path": input.Path, "bytes": len(input.Content)},
	)
}

// SearchFiles walks a workspace directory and reports files whose content
// contains the keyword, case-insensitive. An optional glob restricts which
// file names are scanned. Unreadable and binary files are skipped rather
// than failing the search.
func (m *Manager) SearchFiles(input SearchFilesInput) tools.Result {
	if input.Keyword == "" {
		return tools.Errorf(tools.ErrCodeValidation, "keyword is required")
	}
	pattern := input.Pattern
	if pattern == "" {
		pattern = "*"
	}
	if _, err := filepath.Match(pattern, "x"); err != nil {
		return tools.Errorf(tools.ErrCodeValidation, "invalid pattern %q: %v", pattern, err)
	}

	root, errResult := m.resolve(input.Directory)
	if errResult != nil {
		return *errResult
	}

	type match struct {
		Path string `json:"path"`
		Line int    `json:"line"`
		Text string `json:"text"`
	}
	needle := strings.ToLower(input.Keyword)
	var matches []match

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); !ok {
			return nil
		}
		if binaryExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if fi, err := d.Info(); err != nil || fi.Size() > MaxReadFileSize {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		for i, line := range strings.Split(string(content), "\n") {
			if strings.Contains(strings.ToLower(line), needle) {
				matches = append(matches, match{Path: rel, Line: i + 1, Text: strings.TrimSpace(line)})
			}
		}
		return nil
	})
	if err != nil {
		return tools.Errorf(tools.ErrCodeIO, "searching: %v", err)
	}

	if len(matches) == 0 {
		return tools.Ok(fmt.Sprintf("no matches for %q", input.Keyword), matches)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d matches for %q:\n", len(matches), input.Keyword)
	for _, mt := range matches {
		fmt.Fprintf(&sb, "  %s:%d: %s\n", mt.Path, mt.Line, mt.Text)
	}
	return tools.Ok(strings.TrimRight(sb.String(), "\n"), matches)
}

// GetFileInfo reports metadata for a file or directory.
func (m *Manager) GetFileInfo(input FileInfoInput) tools.Result {
	if input.Path == "" {
		return tools.Errorf(tools.ErrCodeValidation, "path is required")
	}

	path, errResult := m.resolve(input.Path)
	if errResult != nil {
		return *errResult
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tools.Errorf(tools.ErrCodeNotFound, "%q does not exist", input.Path)
		}
		return tools.Errorf(tools.ErrCodeIO, "stat %q: %v", input.Path, err)
	}

	data := map[string]any{
		"path":     input.Path,
		"is_dir":   info.IsDir(),
		"size":     info.Size(),
		"mode":     info.Mode().String(),
		"modified": info.ModTime().Format("2006-01-02 15:04:05"),
	}

	var sb strings.Builder
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return tools.Errorf(tools.ErrCodeIO, "reading directory: %v", err)
		}
		files, dirs := 0, 0
		for _, e := range entries {
			if e.IsDir() {
				dirs++
			} else {
				files++
			}
		}
		data["files"] = files
		data["subdirectories"] = dirs
		fmt.Fprintf(&sb, "directory %q\n", input.Path)
		fmt.Fprintf(&sb, "entries: %d files, %d subdirectories\n", files, dirs)
	} else {
		fmt.Fprintf(&sb, "file %q\n", input.Path)
		fmt.Fprintf(&sb, "size: %s\n", humanSize(info.Size()))
	}
	fmt.Fprintf(&sb, "mode: %s\nmodified: %s", info.Mode(), data["modified"])
	return tools.Ok(sb.String(), data)
}

// CreateDirectory creates a workspace directory, parents included.
func (m *Manager) CreateDirectory(input CreateDirectoryInput) tools.Result {
	if input.Path == "" {
		return tools.Errorf(tools.ErrCodeValidation, "path is required")
	}

	path, errResult := m.resolve(input.Path)
	if errResult != nil {
		return *errResult
	}

	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return tools.Ok(fmt.Sprintf("directory %q already exists", input.Path), nil)
		}
		return tools.Errorf(tools.ErrCodeValidation, "%q exists and is a file", input.Path)
	}

	if err := os.MkdirAll(path, 0o750); err != nil {
		return tools.Errorf(tools.ErrCodeIO, "creating directory: %v", err)
	}
	return tools.Ok(fmt.Sprintf("created directory %q", input.Path), map[string]any{"path": input.Path})
}

// WorkspaceInfo renders the files://workspace resource.
func (m *Manager) WorkspaceInfo() string {
	root := m.ws.Root()

	files, dirs := 0, 0
	var total int64
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == root {
			return nil
		}
		if d.IsDir() {
			dirs++
			return nil
		}
		files++
		if fi, err := d.Info(); err == nil {
			total += fi.Size()
		}
		return nil
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "Workspace: %s\n", root)
	fmt.Fprintf(&sb, "Files: %d\nDirectories: %d\nTotal size: %s\n", files, dirs, humanSize(total))
	sb.WriteString("\nAll tool operations are confined to this directory.")
	return sb.String()
}

// AnalyzeProject renders the analyze_project prompt.
func (m *Manager) AnalyzeProject(projectName string) string {
	return fmt.Sprintf(`Please analyze the file structure of the %q project.

Proceed in this order:
1. Use list_files to see the full file listing
2. Read the key files with read_file
3. Explain the project structure and its purpose
4. Suggest improvements`, projectName)
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

func humanSize(n int64) string {
	size := float64(n)
	idx := 0
	for size >= 1024 && idx < len(sizeUnits)-1 {
		size /= 1024
		idx++
	}
	if idx == 0 {
		return fmt.Sprintf("%d%s", n, sizeUnits[0])
	}
	return fmt.Sprintf("%.1f%s", size, sizeUnits[idx])
}
