package conflict

// Kind distinguishes conflicts that already exist in a worktree from
// conflicts that a merge into the target branch would produce.
type Kind string

const (
	// KindActive marks conflicts currently unresolved in the index.
	KindActive Kind = "active"
	// KindPotential marks conflicts a merge into the target would produce.
	KindPotential Kind = "potential"
)

// Info describes a set of detected conflicts.
//
// Count always equals len(Files), with one documented exception: when a
// probe knows a conflict exists but could not recover any file names from
// the tool output, Files is empty and Count is 1. Callers must treat the
// file list as best-effort.
type Info struct {
	Kind    Kind     `json:"kind"`
	Files   []string `json:"files,omitempty"`
	Count   int      `json:"count"`
	Details *Details `json:"details,omitempty"`
}

// Details breaks active conflicts down by their two-letter porcelain
// status code. Only active conflicts populate details; the sum of the
// counters need not equal the enclosing Info's Count.
type Details struct {
	BothModified  int `json:"both_modified"`   // UU
	BothAdded     int `json:"both_added"`      // AA
	BothDeleted   int `json:"both_deleted"`    // DD
	AddedByUs     int `json:"added_by_us"`     // AU
	AddedByThem   int `json:"added_by_them"`   // UA
	DeletedByUs   int `json:"deleted_by_us"`   // DU
	DeletedByThem int `json:"deleted_by_them"` // UD
}

// Result aggregates the two detection phases for one worktree.
//
// Both fields are independently optional. A nil field means the phase was
// not applicable or could not be determined; it is never a guarantee that
// no conflicts exist.
type Result struct {
	Active    *Info `json:"active,omitempty"`
	Potential *Info `json:"potential,omitempty"`
}

// HasConflicts reports whether either phase found conflicts.
func (r Result) HasConflicts() bool {
	return r.Active != nil || r.Potential != nil
}
