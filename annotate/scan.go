package annotate

// ScanResult describes what a Scan changed.
type ScanResult struct {
	// Added holds annotations for messages seen for the first time.
	Added []Annotation

	// Replaced holds annotations re-created because the host page swapped the
	// node of a known message. Their state starts over.
	Replaced []Annotation

	// Duplicates holds fingerprints that appeared on more than one node in
	// the same scan. Only the first node is annotated.
	Duplicates []string

	// Unchanged counts nodes that already carried an annotation.
	Unchanged int

	// Skipped counts nodes with no identity or too little text.
	Skipped int
}

// ScanStats contains summary counts for a scan.
type ScanStats struct {
	Added      int
	Replaced   int
	Duplicates int
	Unchanged  int
	Skipped    int
}

// Stats returns summary counts for the scan.
func (r *ScanResult) Stats() ScanStats {
	return ScanStats{
		Added:      len(r.Added),
		Replaced:   len(r.Replaced),
		Duplicates: len(r.Duplicates),
		Unchanged:  r.Unchanged,
		Skipped:    r.Skipped,
	}
}

// HasChanges returns true if the scan attached any annotation.
func (r *ScanResult) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Replaced) > 0
}

// IDs returns the fingerprints of every annotation attached by the scan.
func (r *ScanResult) IDs() []string {
	ids := make([]string, 0, len(r.Added)+len(r.Replaced))
	for _, a := range r.Added {
		ids = append(ids, a.ID)
	}
	for _, a := range r.Replaced {
		ids = append(ids, a.ID)
	}
	return ids
}
