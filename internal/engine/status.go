package engine

import "context"

// StatusReport is the rendered state vector of one mod.
type StatusReport struct {
	ID        string         `json:"id" yaml:"-"`
	State     string         `json:"state" yaml:"state"`
	Enabled   bool           `json:"enabled" yaml:"enabled"`
	Cached    bool           `json:"cached" yaml:"cached"`
	Managed   bool           `json:"managed" yaml:"managed"`
	Unmanaged bool           `json:"unmanaged" yaml:"unmanaged"`
	Anomaly   *AnomalyReport `json:"anomaly,omitempty" yaml:"anomaly,omitempty"`
}

// AnomalyReport flags an inconsistency for diagnostic output.
type AnomalyReport struct {
	Kind   AnomalyKind `json:"kind" yaml:"kind"`
	Path   string      `json:"path" yaml:"path"`
	Target string      `json:"target,omitempty" yaml:"target,omitempty"`
	Detail string      `json:"detail" yaml:"detail"`
}

// NewStatusReport renders a state.
func NewStatusReport(st State) *StatusReport {
	report := &StatusReport{
		ID:        st.ID,
		State:     st.Label(),
		Enabled:   st.Enabled,
		Cached:    st.Cached,
		Managed:   st.Managed,
		Unmanaged: st.Unmanaged,
	}
	if st.Anomaly != nil {
		report.Anomaly = &AnomalyReport{
			Kind:   st.Anomaly.Kind,
			Path:   st.Anomaly.Path,
			Target: st.Anomaly.Target,
			Detail: st.Anomaly.Detail(),
		}
	}
	return report
}

// Status returns the status report of one mod.
func (e *Engine) Status(ctx context.Context, id string) (*StatusReport, error) {
	st, err := e.State(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewStatusReport(st), nil
}

// Anomalies returns a report for every mod that fits none of the clean states.
func (e *Engine) Anomalies(ctx context.Context) ([]*StatusReport, error) {
	snapshot, err := e.Classify(ctx)
	if err != nil {
		return nil, err
	}

	reports := []*StatusReport{}
	for _, id := range snapshot.Select(func(s State) bool { return !s.Consistent() }) {
		reports = append(reports, NewStatusReport(snapshot.Mods[id]))
	}
	return reports, nil
}
