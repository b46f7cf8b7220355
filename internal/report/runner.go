package report

import (
	"context"
	"strings"
	"time"

	"github.com/mikebijl/attrm/internal/daterange"
	"github.com/mikebijl/attrm/internal/git"
	"github.com/mikebijl/attrm/internal/summarizer"
)

// Summarizer produces the summary text for one history block.
type Summarizer interface {
	Summarize(ctx context.Context, req summarizer.Request) (string, error)
}

// Runner walks every (day, project) pair in order: days ascending on the
// outside, projects in configured order inside. Each pair is extracted,
// summarized and emitted before the next one starts.
type Runner struct {
	History    git.HistorySource
	Summarizer Summarizer
	Emitter    Emitter

	// OnPair is called before each pair is extracted.
	OnPair func(project string, day time.Time)
	// OnSummary is called after a summary has been emitted.
	OnSummary func(Summary)
}

// Run processes all pairs and returns the number of summaries emitted. The
// first error aborts the run; summaries already emitted stay emitted.
func (r *Runner) Run(ctx context.Context, author string, days []time.Time, projects []string) (int, error) {
	emitted := 0
	for _, day := range days {
		for _, project := range projects {
			if err := ctx.Err(); err != nil {
				return emitted, err
			}
			if r.OnPair != nil {
				r.OnPair(project, day)
			}

			gitLog, err := r.History.Log(ctx, project, author, day)
			if err != nil {
				return emitted, err
			}
			if strings.TrimSpace(gitLog) == "" {
				continue
			}

			text, err := r.Summarizer.Summarize(ctx, summarizer.Request{
				Project: project,
				Author:  author,
				Day:     day,
				Log:     gitLog,
			})
			if err != nil {
				return emitted, err
			}

			s := Summary{Project: project, Day: daterange.Format(day), Summary: text}
			if err := r.Emitter.Emit(s); err != nil {
				return emitted, err
			}
			emitted++

			if r.OnSummary != nil {
				r.OnSummary(s)
			}
		}
	}
	return emitted, nil
}
