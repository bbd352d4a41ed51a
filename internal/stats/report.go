package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/kanadrill/internal/model"
	"github.com/verte-zerg/kanadrill/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []int64
	CharAggsWindow   []model.CharAggregate
	Weak             []string
	MostDrilled      []string
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	windowIDs := lastSessionIDs(sessions, cfg.CurveWindow)
	charAggsWindow, err := st.ListCharAggregatesForSessions(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions:         sessions,
		WindowSessionIDs: windowIDs,
		CharAggsWindow:   charAggsWindow,
		Weak:             SelectWeakChars(charAggsWindow, cfg.Top),
		MostDrilled:      TopCharsByFrequency(charAggsWindow, cfg.Top),
	}, nil
}

// Render writes the whole report as text sized to width.
func (r Report) Render(w io.Writer, curveWindow, width int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if err := RenderCurves(w, r.Sessions, curveWindow, width); err != nil {
		return err
	}
	if len(r.Weak) > 0 {
		if err := writeList(w, "Weakest", r.Weak); err != nil {
			return err
		}
		if err := writeList(w, "Most drilled", r.MostDrilled); err != nil {
			return err
		}
	}
	return RenderCharTable(w, r.CharAggsWindow)
}

func writeList(w io.Writer, title string, chars []string) error {
	line := title + ":"
	for _, ch := range chars {
		line += " " + ch
	}
	_, err := io.WriteString(w, line+"\n")
	return err
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window <= 0 || len(sessions) <= window {
		return sessionIDs(sessions)
	}
	return sessionIDs(sessions[len(sessions)-window:])
}
