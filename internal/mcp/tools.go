package mcp

import (
	"errors"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/toolfang/toolfang/pkg/outpolicy"
)

// Tool name constants.
const (
	ToolNameGitLog    = "git_log"
	ToolNameGitBlame  = "git_blame"
	ToolNameGitDiff   = "git_diff"
	ToolNameGitStatus = "git_status"
	ToolNameGoBuild   = "go_build"
	ToolNameGoTest    = "go_test"
	ToolNameNpmLs     = "npm_ls"
	ToolNameNpmAudit  = "npm_audit"
	ToolNameAnsible   = "ansible_recap"
	ToolNameFmtCheck  = "fmt_check"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyRepoPath indicates the repo_path parameter is empty.
	ErrEmptyRepoPath = errors.New("repo_path parameter is required and must not be empty")
	// ErrRepoPathNotAbsolute indicates the repo_path is not an absolute path.
	ErrRepoPathNotAbsolute = errors.New("repo_path must be an absolute path")
	// ErrEmptyFilePath indicates the path parameter is empty.
	ErrEmptyFilePath = errors.New("path parameter is required and must not be empty")
	// ErrDirNotAbsolute indicates the dir parameter is not an absolute path.
	ErrDirNotAbsolute = errors.New("dir must be an absolute path")
	// ErrEmptyPlaybook indicates the playbook parameter is empty.
	ErrEmptyPlaybook = errors.New("playbook parameter is required and must not be empty")
	// ErrPlaybookNotAbsolute indicates the playbook parameter is not an absolute path.
	ErrPlaybookNotAbsolute = errors.New("playbook must be an absolute path")
)

// Input types (auto-generate JSON schemas via struct tags).

// GitLogInput is the input schema for the git_log tool.
type GitLogInput struct {
	Full     bool   `json:"full,omitempty"     jsonschema:"force the full record even when the compact projection is smaller"`
	Limit    int    `json:"limit,omitempty"    jsonschema:"maximum number of commits to show (default: 50)"`
	RepoPath string `json:"repo_path"          jsonschema:"absolute path to a Git repository"`
	Revision string `json:"revision,omitempty" jsonschema:"optional revision or range (e.g. main or v1..v2)"`
}

// GitBlameInput is the input schema for the git_blame tool.
type GitBlameInput struct {
	Full     bool   `json:"full,omitempty"     jsonschema:"force the full record even when the compact projection is smaller"`
	Path     string `json:"path"               jsonschema:"file path to blame, relative to the repository root"`
	RepoPath string `json:"repo_path"          jsonschema:"absolute path to a Git repository"`
	Revision string `json:"revision,omitempty" jsonschema:"optional revision to blame at (default: HEAD)"`
}

// GitDiffInput is the input schema for the git_diff tool.
type GitDiffInput struct {
	Full     bool   `json:"full,omitempty"     jsonschema:"force the full record even when the compact projection is smaller"`
	RepoPath string `json:"repo_path"          jsonschema:"absolute path to a Git repository"`
	Revision string `json:"revision,omitempty" jsonschema:"optional revision or range to diff against (default: working tree)"`
}

// GitStatusInput is the input schema for the git_status tool.
type GitStatusInput struct {
	Full     bool   `json:"full,omitempty" jsonschema:"force the full record even when the compact projection is smaller"`
	RepoPath string `json:"repo_path"      jsonschema:"absolute path to a Git repository"`
}

// GoBuildInput is the input schema for the go_build tool.
type GoBuildInput struct {
	Dir     string `json:"dir,omitempty"     jsonschema:"absolute path to the module directory (default: server working directory)"`
	Full    bool   `json:"full,omitempty"    jsonschema:"force the full record even when the compact projection is smaller"`
	Pattern string `json:"pattern,omitempty" jsonschema:"package pattern to build (default: ./...)"`
}

// GoTestInput is the input schema for the go_test tool.
type GoTestInput struct {
	Dir     string `json:"dir,omitempty"     jsonschema:"absolute path to the module directory (default: server working directory)"`
	Full    bool   `json:"full,omitempty"    jsonschema:"force the full record even when the compact projection is smaller"`
	Pattern string `json:"pattern,omitempty" jsonschema:"package pattern to test (default: ./...)"`
	Run     string `json:"run,omitempty"     jsonschema:"optional regular expression selecting tests to run"`
}

// NpmLsInput is the input schema for the npm_ls tool.
type NpmLsInput struct {
	Dir  string `json:"dir,omitempty"  jsonschema:"absolute path to the package directory (default: server working directory)"`
	Full bool   `json:"full,omitempty" jsonschema:"force the full record even when the compact projection is smaller"`
}

// NpmAuditInput is the input schema for the npm_audit tool.
type NpmAuditInput struct {
	Dir  string `json:"dir,omitempty"  jsonschema:"absolute path to the package directory (default: server working directory)"`
	Full bool   `json:"full,omitempty" jsonschema:"force the full record even when the compact projection is smaller"`
}

// AnsibleRecapInput is the input schema for the ansible_recap tool.
type AnsibleRecapInput struct {
	Full      bool   `json:"full,omitempty"      jsonschema:"force the full record even when the compact projection is smaller"`
	Inventory string `json:"inventory,omitempty" jsonschema:"optional inventory file path"`
	Playbook  string `json:"playbook"            jsonschema:"absolute path to the playbook to run"`
}

// FmtCheckInput is the input schema for the fmt_check tool.
type FmtCheckInput struct {
	Dir  string `json:"dir,omitempty"  jsonschema:"absolute path to the source tree to check (default: server working directory)"`
	Full bool   `json:"full,omitempty" jsonschema:"force the full record even when the compact projection is smaller"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data      any  `json:"data"`
	Compacted bool `json:"compacted,omitempty"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// dualResult builds a CallToolResult carrying both halves of the payload:
// the structured JSON first, the deterministic rendering second.
func dualResult(payload outpolicy.Payload) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(payload.Structured)},
			&mcpsdk.TextContent{Text: payload.Text},
		},
	}, ToolOutput{Data: payload.Record, Compacted: payload.Compacted}, nil
}

// validateRepoPath checks the common repo_path constraints.
func validateRepoPath(repoPath string) error {
	if repoPath == "" {
		return ErrEmptyRepoPath
	}

	if !filepath.IsAbs(repoPath) {
		return ErrRepoPathNotAbsolute
	}

	return nil
}

// validateDir checks an optional working-directory parameter. Empty means
// the server's own working directory and is always valid.
func validateDir(dir string) error {
	if dir != "" && !filepath.IsAbs(dir) {
		return ErrDirNotAbsolute
	}

	return nil
}
