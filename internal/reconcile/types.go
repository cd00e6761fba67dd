package reconcile

// Action is what a run did to the remote record.
type Action string

const (
	// ActionUnchanged means the cached address matched the current one and
	// the provider was never contacted.
	ActionUnchanged Action = "unchanged"
	// ActionNoop means the remote record already matched the desired state.
	ActionNoop   Action = "noop"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Result reports one pipeline run.
type Result struct {
	Action Action
	IP     string
	ZoneID string
	// ZoneResolved marks a zone id freshly looked up this run rather than
	// read from configuration.
	ZoneResolved bool
}
