package mcp

import (
	"context"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/toolfang/toolfang/internal/execdriver"
)

func (s *Server) handleNpmLs(ctx context.Context, _ *mcpsdk.CallToolRequest, input NpmLsInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateDir(input.Dir); err != nil {
		return errorResult(err)
	}

	args := []string{"ls", "--all"}
	if input.Dir != "" {
		args = append(args, "--prefix", input.Dir)
	}

	return s.invoke(ctx, ToolNameNpmLs, input.Full, "npm", args)
}

func (s *Server) handleNpmAudit(ctx context.Context, _ *mcpsdk.CallToolRequest, input NpmAuditInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateDir(input.Dir); err != nil {
		return errorResult(err)
	}

	args := []string{"audit", "--json"}
	if input.Dir != "" {
		args = append(args, "--prefix", input.Dir)
	}

	return s.invoke(ctx, ToolNameNpmAudit, input.Full, "npm", args)
}

func (s *Server) handleAnsibleRecap(ctx context.Context, _ *mcpsdk.CallToolRequest, input AnsibleRecapInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Playbook == "" {
		return errorResult(ErrEmptyPlaybook)
	}

	if !filepath.IsAbs(input.Playbook) {
		return errorResult(ErrPlaybookNotAbsolute)
	}

	if err := execdriver.GuardArgs([]string{input.Inventory}); err != nil {
		return errorResult(err)
	}

	args := []string{}
	if input.Inventory != "" {
		args = append(args, "-i", input.Inventory)
	}

	args = append(args, input.Playbook)

	return s.invoke(ctx, ToolNameAnsible, input.Full, "ansible-playbook", args)
}
