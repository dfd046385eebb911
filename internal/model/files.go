package model

// FileChangeType tags the kind of change predicted for a file (spec §3.6).
type FileChangeType string

const (
	FileNew     FileChangeType = "new"
	FileChanged FileChangeType = "changed"
	FileRemoved FileChangeType = "removed"
)

// FileChange is one predicted filesystem change from an install or
// upgrade (spec §3.6).
type FileChange struct {
	Path             string         `json:"path"`
	ChangeType       FileChangeType `json:"change_type"`
	Package          string         `json:"package"`
	IsConfig         bool           `json:"is_config"`
	PredictedPacnew  bool           `json:"predicted_pacnew"`
	PredictedPacsave bool           `json:"predicted_pacsave"`
}

// PackageFileInfo aggregates predicted file changes and their counts for
// one package (spec §3.6).
type PackageFileInfo struct {
	Package          string       `json:"package"`
	Changes          []FileChange `json:"changes"`
	Total            int          `json:"total"`
	New              int          `json:"new"`
	Changed          int          `json:"changed"`
	Removed          int          `json:"removed"`
	Config           int          `json:"config"`
	PacnewCandidates int          `json:"pacnew_candidates"`
	PacsaveCandidates int         `json:"pacsave_candidates"`
}

// Recount recomputes the derived counts from Changes. Call after building
// or mutating Changes so the summary fields stay consistent.
func (p *PackageFileInfo) Recount() {
	p.Total = len(p.Changes)
	p.New, p.Changed, p.Removed, p.Config, p.PacnewCandidates, p.PacsaveCandidates = 0, 0, 0, 0, 0, 0
	for _, c := range p.Changes {
		switch c.ChangeType {
		case FileNew:
			p.New++
		case FileChanged:
			p.Changed++
		case FileRemoved:
			p.Removed++
		}
		if c.IsConfig {
			p.Config++
		}
		if c.PredictedPacnew {
			p.PacnewCandidates++
		}
		if c.PredictedPacsave {
			p.PacsaveCandidates++
		}
	}
}
