package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/toolfang/toolfang/internal/execdriver"
)

// defaultPattern is the package pattern used when the input leaves it empty.
const defaultPattern = "./..."

func (s *Server) handleGoBuild(ctx context.Context, _ *mcpsdk.CallToolRequest, input GoBuildInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateDir(input.Dir); err != nil {
		return errorResult(err)
	}

	pattern := input.Pattern
	if pattern == "" {
		pattern = defaultPattern
	}

	// The -C flag must come first among the build flags.
	args := []string{"build"}
	if input.Dir != "" {
		args = append(args, "-C", input.Dir)
	}

	args = append(args, pattern)

	return s.invoke(ctx, ToolNameGoBuild, input.Full, "go", args)
}

func (s *Server) handleGoTest(ctx context.Context, _ *mcpsdk.CallToolRequest, input GoTestInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateDir(input.Dir); err != nil {
		return errorResult(err)
	}

	pattern := input.Pattern
	if pattern == "" {
		pattern = defaultPattern
	}

	args := []string{"test"}
	if input.Dir != "" {
		args = append(args, "-C", input.Dir)
	}

	args = append(args, "-json")

	if input.Run != "" {
		if err := execdriver.GuardArgs([]string{input.Run}); err != nil {
			return errorResult(err)
		}

		args = append(args, "-run", input.Run)
	}

	args = append(args, pattern)

	return s.invoke(ctx, ToolNameGoTest, input.Full, "go", args)
}

func (s *Server) handleFmtCheck(ctx context.Context, _ *mcpsdk.CallToolRequest, input FmtCheckInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateDir(input.Dir); err != nil {
		return errorResult(err)
	}

	dir := input.Dir
	if dir == "" {
		dir = "."
	}

	return s.invoke(ctx, "gofmt", input.Full, "gofmt", []string{"-l", dir})
}
