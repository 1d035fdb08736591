package summary

import "context"

// Generator produces human-readable commentary for a finished match. It is
// best-effort: a Generator may return ErrUnavailable at any time.
type Generator interface {
	Generate(ctx context.Context, req MatchSummaryRequest) (string, error)
}
