package conflict

import "strings"

// DetectActive reports conflicts currently unresolved in the worktree's
// index. It returns nil when no conflicted paths exist or when any
// underlying git command fails (such as when the path is not a
// repository); it never returns an error.
func (d *Detector) DetectActive(worktreePath string) *Info {
	files := d.unmergedFiles(worktreePath)
	if len(files) == 0 {
		return nil
	}

	details := &Details{}
	for _, file := range files {
		details.record(d.statusCode(worktreePath, file))
	}

	return &Info{
		Kind:    KindActive,
		Files:   files,
		Count:   len(files),
		Details: details,
	}
}

// statusCode returns the two-letter porcelain status code for a single
// path, or "" when the status cannot be read.
func (d *Detector) statusCode(worktreePath, file string) string {
	out, err := d.runner.Run(worktreePath, "status", "--porcelain", "--", file)
	if err != nil {
		return ""
	}
	line := out
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	if len(line) < 2 {
		return ""
	}
	return line[:2]
}

// record classifies one porcelain status code into its counter. Codes
// outside the seven known conflict-stage combinations are ignored so new
// git status codes cannot break the scan.
func (c *Details) record(code string) {
	switch code {
	case "UU":
		c.BothModified++
	case "AA":
		c.BothAdded++
	case "DD":
		c.BothDeleted++
	case "AU":
		c.AddedByUs++
	case "UA":
		c.AddedByThem++
	case "DU":
		c.DeletedByUs++
	case "UD":
		c.DeletedByThem++
	}
}
