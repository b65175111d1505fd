// Package mcp implements a Model Context Protocol server exposing wrapped
// developer-tool CLIs as MCP tools over stdio transport. Each tool runs one
// command, parses the capture into a canonical record, and ships the record
// through the dual-output size policy.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/toolfang/toolfang/internal/execdriver"
	"github.com/toolfang/toolfang/internal/observability"
	"github.com/toolfang/toolfang/pkg/outpolicy"
	"github.com/toolfang/toolfang/pkg/parsers"
	"github.com/toolfang/toolfang/pkg/toolrec"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "toolfang"
	// serverVersion is the MCP server implementation version.
	serverVersion = "1.0.0"

	// toolCount is the expected number of registered tools.
	toolCount = 10
)

// Runner executes a wrapped tool and captures its output. It is the seam
// between the server and the process layer; tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (toolrec.Result, error)
}

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Metrics is an optional RED metrics recorder. Nil disables per-tool metrics.
	Metrics *observability.REDMetrics

	// Tracer is an optional OTel tracer for per-tool-call spans. Nil disables tracing.
	Tracer trace.Tracer

	// Runner executes wrapped tools. Nil uses a default execdriver.Driver.
	Runner Runner

	// Policy is the dual-output size policy applied to every record.
	Policy outpolicy.Policy
}

// Server wraps the MCP SDK server with wrapped-tool registrations.
type Server struct {
	inner   *mcpsdk.Server
	mu      sync.RWMutex
	tools   []string
	metrics *observability.REDMetrics
	tracer  trace.Tracer
	runner  Runner
	policy  outpolicy.Policy
}

// NewServer creates a new MCP server with all wrapped tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: serverVersion,
		},
		opts,
	)

	runner := deps.Runner
	if runner == nil {
		runner = execdriver.Driver{}
	}

	srv := &Server{
		inner:   inner,
		tools:   make([]string, 0, toolCount),
		metrics: deps.Metrics,
		tracer:  deps.Tracer,
		runner:  runner,
		policy:  deps.Policy,
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	err := s.inner.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// registerTools adds all wrapped tools to the server.
func (s *Server) registerTools() {
	register(s, ToolNameGitLog, gitLogDescription, s.handleGitLog)
	register(s, ToolNameGitBlame, gitBlameDescription, s.handleGitBlame)
	register(s, ToolNameGitDiff, gitDiffDescription, s.handleGitDiff)
	register(s, ToolNameGitStatus, gitStatusDescription, s.handleGitStatus)
	register(s, ToolNameGoBuild, goBuildDescription, s.handleGoBuild)
	register(s, ToolNameGoTest, goTestDescription, s.handleGoTest)
	register(s, ToolNameNpmLs, npmLsDescription, s.handleNpmLs)
	register(s, ToolNameNpmAudit, npmAuditDescription, s.handleNpmAudit)
	register(s, ToolNameAnsible, ansibleRecapDescription, s.handleAnsibleRecap)
	register(s, ToolNameFmtCheck, fmtCheckDescription, s.handleFmtCheck)
}

// register wires one handler into the SDK with metrics and tracing wrappers.
func register[Input any](
	s *Server,
	name, description string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        name,
		Description: description,
	}, withMetrics(s.metrics, name, withTracing(s.tracer, name, handler)))

	s.trackTool(name)
}

// invoke runs one wrapped command, parses the capture under the registered
// tool identity, and applies the output policy. Run failures (the binary is
// missing, say) surface as tool errors; a non-zero exit from the wrapped
// tool is an ordinary capture and flows through the parser.
func (s *Server) invoke(ctx context.Context, kind string, full bool, name string, args []string) (*mcpsdk.CallToolResult, ToolOutput, error) {
	res, err := s.runner.Run(ctx, name, args...)
	if err != nil {
		return errorResult(err)
	}

	rec, err := parsers.Parse(kind, res)
	if err != nil {
		return errorResult(err)
	}

	policy := s.policy
	if full {
		policy.AlwaysFull = true
	}

	payload, err := policy.Select(rec, res)
	if err != nil {
		return errorResult(err)
	}

	return dualResult(payload)
}

// mcpSpanPrefix is the prefix for MCP tool span names.
const mcpSpanPrefix = "mcp."

// traceIDMetaKey is the metadata key for trace_id in MCP tool responses.
const traceIDMetaKey = "trace_id"

// withTracing wraps an MCP tool handler to create an OTel span per invocation
// and include trace_id in the response content when sampled.
func withTracing[Input any](
	tracer trace.Tracer,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if tracer == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		ctx, span := tracer.Start(ctx, mcpSpanPrefix+toolName,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("mcp.tool", toolName)),
		)
		defer span.End()

		result, output, err := handler(ctx, req, input)

		// Include trace_id in response when span is sampled.
		sc := span.SpanContext()
		if sc.IsSampled() && result != nil {
			traceContent := &mcpsdk.TextContent{Text: fmt.Sprintf("%s=%s", traceIDMetaKey, sc.TraceID().String())}
			result.Content = append(result.Content, traceContent)
		}

		return result, output, err
	}
}

// withMetrics wraps an MCP tool handler to record RED metrics per invocation.
func withMetrics[Input any](
	metrics *observability.REDMetrics,
	toolName string,
	handler func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error),
) func(context.Context, *mcpsdk.CallToolRequest, Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if metrics == nil {
		return handler
	}

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input Input) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		decInflight := metrics.TrackInflight(ctx, "mcp."+toolName)
		defer decInflight()

		result, output, err := handler(ctx, req, input)

		status := "ok"
		if err != nil || (result != nil && result.IsError) {
			status = "error"
		}

		metrics.RecordRequest(ctx, "mcp."+toolName, status, time.Since(start))

		return result, output, err
	}
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	gitLogDescription = "Show the commit graph of a Git repository as structured data. " +
		"Runs git log --graph --oneline --decorate and parses the topology."

	gitBlameDescription = "Attribute each line of a file to the commit that last changed it. " +
		"Runs git blame --porcelain and groups lines by commit."

	gitDiffDescription = "Summarize working-tree or revision changes per file. " +
		"Runs git diff --numstat with rename detection."

	gitStatusDescription = "Report staged, unstaged, and untracked files. " +
		"Runs git status --porcelain."

	goBuildDescription = "Build Go packages and report compiler diagnostics as structured data. " +
		"Runs go build on the given package pattern."

	goTestDescription = "Run Go tests and report per-test outcomes. " +
		"Runs go test -json and reduces the event stream to final results."

	npmLsDescription = "Report the installed npm dependency tree with depth and dedup information. " +
		"Runs npm ls --all."

	npmAuditDescription = "Report known vulnerabilities in npm dependencies by severity. " +
		"Runs npm audit --json."

	ansibleRecapDescription = "Run an Ansible playbook and report the per-host play recap. " +
		"Accepts a playbook path and optional inventory."

	fmtCheckDescription = "List Go source files that are not gofmt-formatted. " +
		"Runs gofmt -l on the given tree."
)
