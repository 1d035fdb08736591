package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shubhamsaxena444/pingpongpro/internal/leaderboard"
	"github.com/shubhamsaxena444/pingpongpro/internal/ledger"
	"github.com/shubhamsaxena444/pingpongpro/internal/metrics"
	"github.com/shubhamsaxena444/pingpongpro/internal/notifier"
	"github.com/shubhamsaxena444/pingpongpro/internal/profile"
	"github.com/shubhamsaxena444/pingpongpro/internal/pubsub"
	"github.com/shubhamsaxena444/pingpongpro/internal/summary"
)

// putRetries bounds the optimistic-concurrency retry loop when persisting a
// profile mutation.
const putRetries = 3

// New creates a new Processor. pubsub and cache may be nil, in which case
// summary generation runs inline and rating caching is skipped.
func New(
	profiles profile.ProfileStore,
	matches ledger.MatchStore,
	generator summary.Generator,
	notif notifier.Notifier,
	m metrics.Metrics,
	lifetime metrics.MetricsStore,
	ps pubsub.PubSubClient,
	cache *leaderboard.Cache,
) *Processor {
	return &Processor{
		profiles:  profiles,
		matches:   matches,
		generator: generator,
		notifier:  notif,
		metrics:   m,
		lifetime:  lifetime,
		pubsub:    ps,
		cache:     cache,
		locks:     newKeyedLocks(),
	}
}

// RegisterPlayer creates a new player profile with default ratings.
func (p *Processor) RegisterPlayer(username, displayName string) (*profile.PlayerProfile, error) {
	prof := profile.NewProfile(uuid.NewString(), username, displayName)
	if err := p.profiles.Create(prof); err != nil {
		return nil, err
	}
	ctx := context.Background()
	p.cache.SetRating(ctx, leaderboard.TabSingles, prof.ID, prof.SinglesRating)
	p.cache.SetRating(ctx, leaderboard.TabDoubles, prof.ID, prof.DoublesRating)
	return prof, nil
}

// RecordSinglesMatch validates and persists a singles match, then applies the
// rating and statistics mutations to both players. Notifications, rating
// caching and summary generation are best-effort and never fail the call.
func (p *Processor) RecordSinglesMatch(ctx context.Context, input SinglesMatchInput, dryRun bool) (*ledger.MatchRecord, error) {
	winnerID := input.Player1ID
	if input.Player2Score > input.Player1Score {
		winnerID = input.Player2ID
	}
	rec := &ledger.MatchRecord{
		ID:   uuid.NewString(),
		Type: ledger.MatchTypeSingles,
		Singles: &ledger.SinglesDetails{
			Player1ID:    input.Player1ID,
			Player2ID:    input.Player2ID,
			Player1Score: input.Player1Score,
			Player2Score: input.Player2Score,
			WinnerID:     winnerID,
		},
		CreatedBy: input.CreatedBy,
		PlayedAt:  playedAtOrNow(input.PlayedAt),
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if dryRun {
		log.Info("[Dry Run] Would record singles match", "player1", input.Player1ID, "player2", input.Player2ID)
		return rec, nil
	}

	start := time.Now()
	unlock := p.locks.LockAll(rec.Participants())
	defer unlock()

	if err := p.matches.Create(rec); err != nil {
		return nil, err
	}

	d := rec.Singles
	err := errors.Join(
		p.mutateProfile(d.Player1ID, func(prof *profile.PlayerProfile) (*profile.PlayerProfile, error) {
			return profile.ApplySinglesResult(prof, d.Player1Score, d.Player2Score, d.WinnerID == d.Player1ID)
		}),
		p.mutateProfile(d.Player2ID, func(prof *profile.PlayerProfile) (*profile.PlayerProfile, error) {
			return profile.ApplySinglesResult(prof, d.Player2Score, d.Player1Score, d.WinnerID == d.Player2ID)
		}),
	)
	if err != nil {
		// The match stays in the ledger; the statistics are now inconsistent
		// and the caller must surface that.
		log.Error("Match recorded but profile updates failed", "matchID", rec.ID, "error", err)
		return rec, fmt.Errorf("match %s recorded but stats update failed: %w", rec.ID, err)
	}

	p.metrics.IncMatchesRecorded()
	p.lifetime.Increment(metrics.KeyMatchesRecorded)
	p.metrics.ObserveProcessingDuration(time.Since(start).Seconds())

	p.refreshPlayerRatings(ctx, rec.Participants()...)
	p.requestNotification(rec, dryRun)
	p.requestSummary(ctx, rec)
	return rec, nil
}

// RecordDoublesMatch validates and persists a doubles match, then applies the
// mutations to all four players. Each player's individual doubles stats use
// their half share of the team score; the per-partner team stats use the full
// team score.
func (p *Processor) RecordDoublesMatch(ctx context.Context, input DoublesMatchInput, dryRun bool) (*ledger.MatchRecord, error) {
	winnerTeam := ledger.WinnerTeam1
	if input.Team2Score > input.Team1Score {
		winnerTeam = ledger.WinnerTeam2
	}
	rec := &ledger.MatchRecord{
		ID:   uuid.NewString(),
		Type: ledger.MatchTypeDoubles,
		Doubles: &ledger.DoublesDetails{
			Team1Player1ID: input.Team1Player1ID,
			Team1Player2ID: input.Team1Player2ID,
			Team2Player1ID: input.Team2Player1ID,
			Team2Player2ID: input.Team2Player2ID,
			Team1Score:     input.Team1Score,
			Team2Score:     input.Team2Score,
			WinnerTeam:     winnerTeam,
		},
		CreatedBy: input.CreatedBy,
		PlayedAt:  playedAtOrNow(input.PlayedAt),
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if dryRun {
		log.Info("[Dry Run] Would record doubles match", "team1", []string{input.Team1Player1ID, input.Team1Player2ID}, "team2", []string{input.Team2Player1ID, input.Team2Player2ID})
		return rec, nil
	}

	start := time.Now()
	unlock := p.locks.LockAll(rec.Participants())
	defer unlock()

	if err := p.matches.Create(rec); err != nil {
		return nil, err
	}

	d := rec.Doubles
	team1Won := d.WinnerTeam == ledger.WinnerTeam1
	apply := func(playerID, partnerID string, teamScore, opponentScore int, won bool) error {
		return p.mutateProfile(playerID, func(prof *profile.PlayerProfile) (*profile.PlayerProfile, error) {
			return profile.ApplyDoublesResult(prof, teamScore, opponentScore, won, partnerID, rec.PlayedAt)
		})
	}
	err := errors.Join(
		apply(d.Team1Player1ID, d.Team1Player2ID, d.Team1Score, d.Team2Score, team1Won),
		apply(d.Team1Player2ID, d.Team1Player1ID, d.Team1Score, d.Team2Score, team1Won),
		apply(d.Team2Player1ID, d.Team2Player2ID, d.Team2Score, d.Team1Score, !team1Won),
		apply(d.Team2Player2ID, d.Team2Player1ID, d.Team2Score, d.Team1Score, !team1Won),
	)
	if err != nil {
		log.Error("Match recorded but profile updates failed", "matchID", rec.ID, "error", err)
		return rec, fmt.Errorf("match %s recorded but stats update failed: %w", rec.ID, err)
	}

	p.metrics.IncMatchesRecorded()
	p.lifetime.Increment(metrics.KeyMatchesRecorded)
	p.metrics.ObserveProcessingDuration(time.Since(start).Seconds())

	p.refreshPlayerRatings(ctx, rec.Participants()...)
	p.refreshTeamRatings(ctx, d)
	p.requestNotification(rec, dryRun)
	p.requestSummary(ctx, rec)
	return rec, nil
}

// DeleteMatch removes a match from the ledger and reverts its statistical
// contribution from every participant. The ledger deletion and the profile
// reversals are not atomic; a partial failure is logged and reported.
func (p *Processor) DeleteMatch(ctx context.Context, matchID string, dryRun bool) error {
	rec, err := p.matches.Get(matchID)
	if err != nil {
		return err
	}
	if dryRun {
		log.Info("[Dry Run] Would delete match", "matchID", matchID)
		return nil
	}

	unlock := p.locks.LockAll(rec.Participants())
	defer unlock()

	if err := p.matches.Delete(matchID); err != nil {
		return err
	}

	var revertErr error
	switch rec.Type {
	case ledger.MatchTypeSingles:
		d := rec.Singles
		revertErr = errors.Join(
			p.mutateProfile(d.Player1ID, func(prof *profile.PlayerProfile) (*profile.PlayerProfile, error) {
				return profile.RevertSinglesResult(prof, d.Player1Score, d.Player2Score, d.WinnerID == d.Player1ID)
			}),
			p.mutateProfile(d.Player2ID, func(prof *profile.PlayerProfile) (*profile.PlayerProfile, error) {
				return profile.RevertSinglesResult(prof, d.Player2Score, d.Player1Score, d.WinnerID == d.Player2ID)
			}),
		)
	case ledger.MatchTypeDoubles:
		d := rec.Doubles
		team1Won := d.WinnerTeam == ledger.WinnerTeam1
		revert := func(playerID, partnerID string, teamScore, opponentScore int, won bool) error {
			return p.mutateProfile(playerID, func(prof *profile.PlayerProfile) (*profile.PlayerProfile, error) {
				return profile.RevertDoublesResult(prof, teamScore, opponentScore, won, partnerID)
			})
		}
		revertErr = errors.Join(
			revert(d.Team1Player1ID, d.Team1Player2ID, d.Team1Score, d.Team2Score, team1Won),
			revert(d.Team1Player2ID, d.Team1Player1ID, d.Team1Score, d.Team2Score, team1Won),
			revert(d.Team2Player1ID, d.Team2Player2ID, d.Team2Score, d.Team1Score, !team1Won),
			revert(d.Team2Player2ID, d.Team2Player1ID, d.Team2Score, d.Team1Score, !team1Won),
		)
	}
	if revertErr != nil {
		log.Error("Match deleted but profile reverts failed", "matchID", matchID, "error", revertErr)
		return fmt.Errorf("match %s deleted but stats revert failed: %w", matchID, revertErr)
	}

	p.metrics.IncMatchesDeleted()
	p.lifetime.Increment(metrics.KeyMatchesDeleted)

	p.refreshPlayerRatings(ctx, rec.Participants()...)
	if rec.Type == ledger.MatchTypeDoubles {
		p.refreshTeamRatings(ctx, rec.Doubles)
	}
	return nil
}

// GenerateSummary produces commentary text for a recorded match and stores it
// on the record. ErrUnavailable from the generator is reported back but must
// be treated as non-fatal by callers.
func (p *Processor) GenerateSummary(ctx context.Context, matchID string) (string, error) {
	rec, err := p.matches.Get(matchID)
	if err != nil {
		return "", err
	}

	names := p.resolveNames(rec.Participants())
	req := summaryRequest(rec, names)

	text, err := p.generator.Generate(ctx, req)
	if err != nil {
		p.metrics.IncSummariesFailed()
		return "", err
	}
	if err := p.matches.SetSummary(matchID, text); err != nil {
		p.metrics.IncSummariesFailed()
		return "", err
	}
	p.metrics.IncSummariesGenerated()
	log.Info("Generated match summary", "matchID", matchID)
	return text, nil
}

// SuggestTeams splits four players into the most rating-balanced doubles
// pairing, using each player's doubles rating.
func (p *Processor) SuggestTeams(playerIDs []string) (*TeamSuggestion, error) {
	if len(playerIDs) != 4 {
		return nil, &ledger.ValidationError{Field: "players", Reason: "team suggestion needs exactly four players"}
	}
	seen := make(map[string]bool, 4)
	players := make([]SuggestedPlayer, 0, 4)
	for _, id := range playerIDs {
		if seen[id] {
			return nil, &ledger.ValidationError{Field: "players", Reason: "a player cannot appear twice"}
		}
		seen[id] = true
		prof, err := p.profiles.Get(id)
		if err != nil {
			return nil, err
		}
		name := prof.DisplayName
		if name == "" {
			name = prof.Username
		}
		players = append(players, SuggestedPlayer{ID: prof.ID, Name: name, Rating: prof.DoublesRating})
	}

	// Three ways to split four players into two pairs; pick the smallest
	// rating gap.
	pairings := [3][2][2]int{
		{{0, 1}, {2, 3}},
		{{0, 2}, {1, 3}},
		{{0, 3}, {1, 2}},
	}
	var best *TeamSuggestion
	for _, pairing := range pairings {
		team1 := [2]SuggestedPlayer{players[pairing[0][0]], players[pairing[0][1]]}
		team2 := [2]SuggestedPlayer{players[pairing[1][0]], players[pairing[1][1]]}
		gap := team1[0].Rating + team1[1].Rating - team2[0].Rating - team2[1].Rating
		if gap < 0 {
			gap = -gap
		}
		if best == nil || gap < best.RatingGap {
			best = &TeamSuggestion{Team1: team1, Team2: team2, RatingGap: gap}
		}
	}
	return best, nil
}

// mutateProfile reads a profile, applies fn and persists the result with an
// optimistic-concurrency retry loop.
func (p *Processor) mutateProfile(id string, fn func(*profile.PlayerProfile) (*profile.PlayerProfile, error)) error {
	for attempt := 0; attempt < putRetries; attempt++ {
		prof, err := p.profiles.Get(id)
		if err != nil {
			return fmt.Errorf("player %s: %w", id, err)
		}
		next, err := fn(prof)
		if err != nil {
			return fmt.Errorf("player %s: %w", id, err)
		}
		err = p.profiles.Put(next)
		if err == nil {
			return nil
		}
		if !errors.Is(err, profile.ErrVersionConflict) {
			return fmt.Errorf("player %s: %w", id, err)
		}
		log.Warn("Profile version conflict, retrying", "playerID", id, "attempt", attempt+1)
	}
	return fmt.Errorf("player %s: %w", id, profile.ErrVersionConflict)
}

func (p *Processor) refreshPlayerRatings(ctx context.Context, playerIDs ...string) {
	for _, id := range playerIDs {
		prof, err := p.profiles.Get(id)
		if err != nil {
			continue
		}
		p.cache.SetRating(ctx, leaderboard.TabSingles, prof.ID, prof.SinglesRating)
		p.cache.SetRating(ctx, leaderboard.TabDoubles, prof.ID, prof.DoublesRating)
	}
}

func (p *Processor) refreshTeamRatings(ctx context.Context, d *ledger.DoublesDetails) {
	for _, pair := range [2][2]string{
		{d.Team1Player1ID, d.Team1Player2ID},
		{d.Team2Player1ID, d.Team2Player2ID},
	} {
		prof, err := p.profiles.Get(pair[0])
		if err != nil {
			continue
		}
		if stats, ok := prof.TeamPartners[pair[1]]; ok {
			p.cache.SetRating(ctx, leaderboard.TabTeams, leaderboard.TeamKey(pair[0], pair[1]), stats.TeamRating)
		}
	}
}

// NotifyResult sends the Slack result notification for a recorded match. It
// is the target of the notify-result push subscription.
func (p *Processor) NotifyResult(ctx context.Context, matchID string, dryRun bool) error {
	rec, err := p.matches.Get(matchID)
	if err != nil {
		return err
	}
	names := p.resolveNames(rec.Participants())
	return p.notifier.SendResultNotification(rec, names, rec.Summary, dryRun)
}

func (p *Processor) notifyResult(rec *ledger.MatchRecord, dryRun bool) {
	names := p.resolveNames(rec.Participants())
	if err := p.notifier.SendResultNotification(rec, names, rec.Summary, dryRun); err != nil {
		log.Error("Failed to send result notification", "error", err, "matchID", rec.ID)
	}
}

// requestNotification hands the result notification to the push handler when
// pubsub is configured, otherwise sends it inline.
func (p *Processor) requestNotification(rec *ledger.MatchRecord, dryRun bool) {
	if p.pubsub != nil {
		if err := p.pubsub.SendMessage(pubsub.EventNotifyResult, pubsub.MatchEvent{MatchID: rec.ID}); err != nil {
			log.Error("Failed to publish notify event", "error", err, "matchID", rec.ID)
		}
		return
	}
	p.notifyResult(rec, dryRun)
}

// requestSummary kicks off commentary generation. With pubsub configured the
// work is published for the push handler to pick up; otherwise it runs
// inline, best-effort.
func (p *Processor) requestSummary(ctx context.Context, rec *ledger.MatchRecord) {
	if p.pubsub != nil {
		if err := p.pubsub.SendMessage(pubsub.EventGenerateSummary, pubsub.MatchEvent{MatchID: rec.ID}); err != nil {
			log.Error("Failed to publish summary event", "error", err, "matchID", rec.ID)
		}
		return
	}
	if _, err := p.GenerateSummary(ctx, rec.ID); err != nil {
		if errors.Is(err, summary.ErrUnavailable) {
			log.Debug("Summary generation unavailable", "matchID", rec.ID)
			return
		}
		log.Error("Failed to generate match summary", "error", err, "matchID", rec.ID)
	}
}

func (p *Processor) resolveNames(playerIDs []string) map[string]string {
	names := make(map[string]string, len(playerIDs))
	for _, id := range playerIDs {
		prof, err := p.profiles.Get(id)
		if err != nil {
			names[id] = id
			continue
		}
		if prof.DisplayName != "" {
			names[id] = prof.DisplayName
		} else {
			names[id] = prof.Username
		}
	}
	return names
}

func summaryRequest(rec *ledger.MatchRecord, names map[string]string) summary.MatchSummaryRequest {
	switch rec.Type {
	case ledger.MatchTypeDoubles:
		d := rec.Doubles
		winners := []string{names[d.Team1Player1ID], names[d.Team1Player2ID]}
		if d.WinnerTeam == ledger.WinnerTeam2 {
			winners = []string{names[d.Team2Player1ID], names[d.Team2Player2ID]}
		}
		return summary.MatchSummaryRequest{
			MatchType:        string(rec.Type),
			Team1Player1Name: names[d.Team1Player1ID],
			Team1Player2Name: names[d.Team1Player2ID],
			Team2Player1Name: names[d.Team2Player1ID],
			Team2Player2Name: names[d.Team2Player2ID],
			Team1Score:       d.Team1Score,
			Team2Score:       d.Team2Score,
			WinnerTeamNames:  winners,
		}
	default:
		d := rec.Singles
		return summary.MatchSummaryRequest{
			MatchType:    string(rec.Type),
			Player1Name:  names[d.Player1ID],
			Player2Name:  names[d.Player2ID],
			Player1Score: d.Player1Score,
			Player2Score: d.Player2Score,
			WinnerName:   names[d.WinnerID],
		}
	}
}

func playedAtOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
