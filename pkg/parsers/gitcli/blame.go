package gitcli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/toolfang/toolfang/pkg/render"
	"github.com/toolfang/toolfang/pkg/toolrec"
)

// KindBlame identifies git blame --porcelain invocations.
const KindBlame = "git_blame"

// blameHeaderRe matches a porcelain blame header: full commit id, original
// line, final line, and (on first sighting only) the group line count.
var blameHeaderRe = regexp.MustCompile(`^([0-9a-f]{40}) (\d+) (\d+)(?: (\d+))?$`)

// blameShortHashLen is the abbreviated commit length used in renderings.
const blameShortHashLen = 8

// blameDateLayout is the rendering layout for author timestamps.
const blameDateLayout = "2006-01-02 15:04:05 -0700"

// BlameLine is one attributed source line.
type BlameLine struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// BlameGroup collects the lines attributed to one commit. Porcelain output
// emits full commit metadata only once per commit per file; the parser
// caches it on first sighting and replays it for abbreviated re-sightings,
// so a group keeps accumulating lines even when commits interleave.
type BlameGroup struct {
	Commit string      `json:"commit"`
	Author string      `json:"author,omitempty"`
	Date   string      `json:"date,omitempty"`
	Lines  []BlameLine `json:"lines"`
}

// BlameReport is the canonical record for a blame invocation. Groups appear
// in first-sighting order of their commit, not line order.
type BlameReport struct {
	toolrec.Execution

	Groups    []BlameGroup `json:"groups"`
	LineCount int          `json:"line_count"`
}

type blameMeta struct {
	author     string
	authorTime int64
	authorTZ   string
}

// ParseBlame parses git blame --porcelain output.
func ParseBlame(res toolrec.Result) *BlameReport {
	var (
		order      []string
		lines      = make(map[string][]BlameLine)
		meta       = make(map[string]*blameMeta)
		currentSHA string
		finalLine  int
	)

	for _, raw := range toolrec.Lines(res.Stdout) {
		if strings.HasPrefix(raw, "\t") {
			if currentSHA == "" {
				continue
			}

			lines[currentSHA] = append(lines[currentSHA], BlameLine{
				Number:  finalLine,
				Content: raw[1:],
			})

			continue
		}

		if match := blameHeaderRe.FindStringSubmatch(raw); match != nil {
			currentSHA = match[1]
			finalLine, _ = strconv.Atoi(match[3])

			if _, seen := lines[currentSHA]; !seen {
				order = append(order, currentSHA)
				lines[currentSHA] = []BlameLine{}
			}

			continue
		}

		if currentSHA != "" {
			recordBlameMeta(meta, currentSHA, raw)
		}
	}

	groups := make([]BlameGroup, 0, len(order))
	total := 0

	for _, sha := range order {
		group := BlameGroup{Commit: sha, Lines: lines[sha]}

		if m, ok := meta[sha]; ok {
			group.Author = m.author
			group.Date = formatBlameDate(m)
		}

		total += len(group.Lines)
		groups = append(groups, group)
	}

	return &BlameReport{
		Execution: toolrec.NewExecution(res),
		Groups:    groups,
		LineCount: total,
	}
}

func recordBlameMeta(meta map[string]*blameMeta, sha, raw string) {
	m, ok := meta[sha]
	if !ok {
		m = &blameMeta{}
		meta[sha] = m
	}

	switch {
	case strings.HasPrefix(raw, "author "):
		m.author = strings.TrimPrefix(raw, "author ")
	case strings.HasPrefix(raw, "author-time "):
		m.authorTime, _ = strconv.ParseInt(strings.TrimPrefix(raw, "author-time "), 10, 64)
	case strings.HasPrefix(raw, "author-tz "):
		m.authorTZ = strings.TrimPrefix(raw, "author-tz ")
	}
}

func formatBlameDate(m *blameMeta) string {
	if m.authorTime == 0 {
		return ""
	}

	loc := time.UTC

	if offset, ok := parseTZOffset(m.authorTZ); ok {
		loc = time.FixedZone(m.authorTZ, offset)
	}

	return time.Unix(m.authorTime, 0).In(loc).Format(blameDateLayout)
}

// parseTZOffset converts a "+0200"-style zone to seconds east of UTC.
func parseTZOffset(tz string) (int, bool) {
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return 0, false
	}

	hours, errH := strconv.Atoi(tz[1:3])
	minutes, errM := strconv.Atoi(tz[3:5])

	if errH != nil || errM != nil {
		return 0, false
	}

	offset := (hours*60 + minutes) * 60
	if tz[0] == '-' {
		offset = -offset
	}

	return offset, true
}

// Kind implements [toolrec.Record].
func (r *BlameReport) Kind() string { return KindBlame }

// Render implements [toolrec.Record].
func (r *BlameReport) Render() string {
	if len(r.Groups) == 0 {
		return "no blame data"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s across %s",
		render.Count(r.LineCount, "line", "lines"),
		render.Count(len(r.Groups), "commit", "commits"))

	for _, g := range r.Groups {
		fmt.Fprintf(&b, "\n%s %s (%s): %s", shortHash(g.Commit), g.Author, g.Date,
			render.Count(len(g.Lines), "line", "lines"))

		for _, l := range g.Lines {
			fmt.Fprintf(&b, "\n  %4d | %s", l.Number, l.Content)
		}
	}

	return b.String()
}

// Compact implements [toolrec.Record]. Line contents are dropped; per-commit
// attribution counts survive.
func (r *BlameReport) Compact() toolrec.Record {
	groups := make([]BlameGroupStat, 0, len(r.Groups))

	for _, g := range r.Groups {
		groups = append(groups, BlameGroupStat{
			Commit:    g.Commit,
			Author:    g.Author,
			LineCount: len(g.Lines),
		})
	}

	return &BlameSummary{
		Execution: r.Execution,
		Groups:    groups,
		LineCount: r.LineCount,
	}
}

// BlameGroupStat is the compact per-commit attribution count.
type BlameGroupStat struct {
	Commit    string `json:"commit"`
	Author    string `json:"author,omitempty"`
	LineCount int    `json:"line_count"`
}

// BlameSummary is the compact projection of a BlameReport.
type BlameSummary struct {
	toolrec.Execution

	Groups    []BlameGroupStat `json:"groups"`
	LineCount int              `json:"line_count"`
}

// Kind implements [toolrec.Record].
func (s *BlameSummary) Kind() string { return KindBlame }

// Render implements [toolrec.Record].
func (s *BlameSummary) Render() string {
	if len(s.Groups) == 0 {
		return "no blame data"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s across %s",
		render.Count(s.LineCount, "line", "lines"),
		render.Count(len(s.Groups), "commit", "commits"))

	for _, g := range s.Groups {
		fmt.Fprintf(&b, "\n%s %s: %s", shortHash(g.Commit), g.Author,
			render.Count(g.LineCount, "line", "lines"))
	}

	return b.String()
}

// Compact implements [toolrec.Record].
func (s *BlameSummary) Compact() toolrec.Record { return s }

func shortHash(sha string) string {
	if len(sha) <= blameShortHashLen {
		return sha
	}

	return sha[:blameShortHashLen]
}
