package models

// Action records what happened to a single source file
type Action string

const (
	// ActionCopied means the file was copied to a new destination
	ActionCopied Action = "copied"
	// ActionOverwritten means an existing destination was replaced
	ActionOverwritten Action = "overwritten"
	// ActionSkipped means the operator chose to keep the existing destination
	ActionSkipped Action = "skipped"
	// ActionMismatch means the name does not follow the directory's scheme
	ActionMismatch Action = "mismatch"
	// ActionConflict means the destination exists and nothing resolved it
	ActionConflict Action = "conflict"
	// ActionFailed means the copy itself failed
	ActionFailed Action = "failed"
)

// Copied reports whether the action put the source content at the destination
func (a Action) Copied() bool {
	return a == ActionCopied || a == ActionOverwritten
}

// FileOutcome is the per-file record of a merge
type FileOutcome struct {
	// Source is the path of the input file
	Source string `json:"source"`

	// Dest is the synthesized destination path, empty on mismatch
	Dest string `json:"dest,omitempty"`

	Action Action `json:"action"`

	// Reason explains skips and errors
	Reason string `json:"reason,omitempty"`

	// Suggestion is a manual command the operator may run instead
	Suggestion string `json:"suggestion,omitempty"`

	// BytesCopied is the amount of data written to Dest
	BytesCopied int64 `json:"bytes_copied,omitempty"`
}
