package site

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mAKEkr/blog-advance/internal/metrics"
	"github.com/mAKEkr/blog-advance/internal/page"
)

// Report summarizes one build.
type Report struct {
	BuildID string
	Start   time.Time
	End     time.Time

	// Pages counts pages by type; untyped pages count under "".
	Pages     map[page.Type]int
	Synthetic int

	Tags          int
	Categories    int
	Authors       int
	FeedEntries   int
	ExtrasCopied  int
	ModuleWrites  int
	ModulesKept   int
	ManifestPages int

	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]metrics.ResultLabel
	Outcome        metrics.BuildOutcomeLabel
}

func newReport(buildID string) *Report {
	return &Report{
		BuildID:        buildID,
		Start:          time.Now(),
		Pages:          make(map[page.Type]int),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]metrics.ResultLabel),
	}
}

func (r *Report) recordStage(name StageName, d time.Duration, result metrics.ResultLabel) {
	r.StageDurations[name] = d
	r.StageResults[name] = result
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// TotalPages counts every page, synthetic ones included.
func (r *Report) TotalPages() int {
	n := 0
	for _, c := range r.Pages {
		n += c
	}
	return n
}

// Summary renders a one-line description.
func (r *Report) Summary() string {
	types := make([]string, 0, len(r.Pages))
	for t, n := range r.Pages {
		name := string(t)
		if name == "" {
			name = "none"
		}
		types = append(types, fmt.Sprintf("%s=%d", name, n))
	}
	sort.Strings(types)
	return fmt.Sprintf("outcome=%s pages=%d (%s) tags=%d categories=%d authors=%d feed=%d extras=%d duration=%s",
		r.Outcome, r.TotalPages(), strings.Join(types, " "),
		r.Tags, r.Categories, r.Authors, r.FeedEntries, r.ExtrasCopied,
		r.Duration().Round(time.Millisecond))
}
