package model

// ClassifyMode selects which items a classification run may touch.
type ClassifyMode string

const (
	// ModeEmptyOnly classifies only items without a category.
	ModeEmptyOnly ClassifyMode = "EMPTY_ONLY"
	// ModeReclassifyAll overwrites every item's category. Discards prior
	// manual work, so callers must confirm before using it.
	ModeReclassifyAll ClassifyMode = "RECLASSIFY_ALL"
)

// Summary aggregates the outcome of one classification run.
type Summary struct {
	Total        int
	ByOverride   int
	ByRules      int
	ByFallback   int
	ByCascade    int
	Unclassified int
	Skipped      int
}

// Classified returns the number of items that ended the run with a category.
func (s Summary) Classified() int {
	return s.ByOverride + s.ByRules + s.ByFallback + s.ByCascade
}
