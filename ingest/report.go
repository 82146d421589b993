package ingest

// Outcome classifies what happened to one game in a batch.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeExists  Outcome = "exists"
	OutcomeSkipped Outcome = "skipped"
)

// Skip reasons reported when the developer/publisher gate fails.
const (
	SkipMissingDeveloper = "missing developer"
	SkipMissingPublisher = "missing publisher"
)

// GameResult is the per-game outcome, including whether any best-effort
// external call fell back, so callers can tell "fully succeeded" apart
// from "succeeded with fallbacks".
type GameResult struct {
	Title         string   `json:"title"`
	Outcome       Outcome  `json:"outcome"`
	SkipReason    string   `json:"skipReason,omitempty"`
	ReviewID      uint     `json:"reviewId,omitempty"`
	CoverFallback bool     `json:"coverFallback,omitempty"`
	TextFallback  bool     `json:"textFallback,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Report accumulates counters over a whole batch.
type Report struct {
	Created  int          `json:"created"`
	Existing int          `json:"existing"`
	Skipped  int          `json:"skipped"`
	Results  []GameResult `json:"results"`
}

func (r *Report) add(res GameResult) {
	switch res.Outcome {
	case OutcomeCreated:
		r.Created++
	case OutcomeExists:
		r.Existing++
	case OutcomeSkipped:
		r.Skipped++
	}
	r.Results = append(r.Results, res)
}
