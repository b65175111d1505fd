// Package parsers maps tool identities to their output parsers. Each parser
// is a pure function from one raw capture to one canonical record; the
// registry is the single seam the server and CLI go through to reach them.
package parsers

import (
	"errors"
	"fmt"
	"sort"

	"github.com/toolfang/toolfang/pkg/parsers/audit"
	"github.com/toolfang/toolfang/pkg/parsers/deptree"
	"github.com/toolfang/toolfang/pkg/parsers/diag"
	"github.com/toolfang/toolfang/pkg/parsers/fmtcheck"
	"github.com/toolfang/toolfang/pkg/parsers/gitcli"
	"github.com/toolfang/toolfang/pkg/parsers/gotest"
	"github.com/toolfang/toolfang/pkg/parsers/recap"
	"github.com/toolfang/toolfang/pkg/toolrec"
)

// ErrUnknownKind indicates a tool identity with no registered parser.
var ErrUnknownKind = errors.New("unknown tool kind")

// Func parses one raw capture into a canonical record.
type Func func(res toolrec.Result) toolrec.Record

// registry is the immutable kind-to-parser table. Tool identities name the
// wrapped command, not the record shape; two identities may share a shape,
// as the two diagnostic dialects do.
var registry = map[string]Func{
	"go_build": func(res toolrec.Result) toolrec.Record { return diag.Parse(res, diag.GoTable) },
	"msbuild":  func(res toolrec.Result) toolrec.Record { return diag.Parse(res, diag.MSBuildTable) },
	"go_test":  func(res toolrec.Result) toolrec.Record { return gotest.Parse(res) },

	"git_log":    func(res toolrec.Result) toolrec.Record { return gitcli.ParseLog(res) },
	"git_blame":  func(res toolrec.Result) toolrec.Record { return gitcli.ParseBlame(res) },
	"git_diff":   func(res toolrec.Result) toolrec.Record { return gitcli.ParseDiff(res) },
	"git_status": func(res toolrec.Result) toolrec.Record { return gitcli.ParseStatus(res) },

	"npm_ls":        func(res toolrec.Result) toolrec.Record { return deptree.Parse(res) },
	"npm_audit":     func(res toolrec.Result) toolrec.Record { return audit.Parse(res) },
	"ansible_recap": func(res toolrec.Result) toolrec.Record { return recap.Parse(res) },
	"gofmt":         func(res toolrec.Result) toolrec.Record { return fmtcheck.Parse(res) },
}

// Parse runs the parser registered for the given tool identity.
func Parse(kind string, res toolrec.Result) (toolrec.Record, error) {
	fn, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return fn(res), nil
}

// Kinds returns the registered tool identities in sorted order.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))

	for kind := range registry {
		kinds = append(kinds, kind)
	}

	sort.Strings(kinds)

	return kinds
}
