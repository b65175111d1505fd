package mcp

import (
	"context"
	"strconv"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/toolfang/toolfang/internal/execdriver"
)

// defaultLogLimit bounds git_log invocations that do not set a limit.
const defaultLogLimit = 50

func (s *Server) handleGitLog(ctx context.Context, _ *mcpsdk.CallToolRequest, input GitLogInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateRepoPath(input.RepoPath); err != nil {
		return errorResult(err)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLogLimit
	}

	args := []string{"-C", input.RepoPath, "log", "--graph", "--oneline", "--decorate", "-n", strconv.Itoa(limit)}

	if input.Revision != "" {
		if err := execdriver.GuardArgs([]string{input.Revision}); err != nil {
			return errorResult(err)
		}

		args = append(args, input.Revision)
	}

	return s.invoke(ctx, ToolNameGitLog, input.Full, "git", args)
}

func (s *Server) handleGitBlame(ctx context.Context, _ *mcpsdk.CallToolRequest, input GitBlameInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateRepoPath(input.RepoPath); err != nil {
		return errorResult(err)
	}

	if input.Path == "" {
		return errorResult(ErrEmptyFilePath)
	}

	if err := execdriver.GuardArgs([]string{input.Path, input.Revision}); err != nil {
		return errorResult(err)
	}

	args := []string{"-C", input.RepoPath, "blame", "--porcelain"}

	if input.Revision != "" {
		args = append(args, input.Revision)
	}

	args = append(args, "--", input.Path)

	return s.invoke(ctx, ToolNameGitBlame, input.Full, "git", args)
}

func (s *Server) handleGitDiff(ctx context.Context, _ *mcpsdk.CallToolRequest, input GitDiffInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateRepoPath(input.RepoPath); err != nil {
		return errorResult(err)
	}

	args := []string{"-C", input.RepoPath, "diff", "--numstat", "--find-renames"}

	if input.Revision != "" {
		if err := execdriver.GuardArgs([]string{input.Revision}); err != nil {
			return errorResult(err)
		}

		args = append(args, input.Revision)
	}

	return s.invoke(ctx, ToolNameGitDiff, input.Full, "git", args)
}

func (s *Server) handleGitStatus(ctx context.Context, _ *mcpsdk.CallToolRequest, input GitStatusInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateRepoPath(input.RepoPath); err != nil {
		return errorResult(err)
	}

	args := []string{"-C", input.RepoPath, "status", "--porcelain"}

	return s.invoke(ctx, ToolNameGitStatus, input.Full, "git", args)
}
