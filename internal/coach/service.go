package coach

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"backend-pacewatch/internal/compare"
	"backend-pacewatch/internal/notify"
	"backend-pacewatch/internal/splits"
	"backend-pacewatch/internal/store"
	"backend-pacewatch/internal/strava"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ActivityAPI is what the orchestrator needs from the fitness API client.
type ActivityAPI interface {
	GetActivity(ctx context.Context, id int64) (store.Activity, error)
	GetStreams(ctx context.Context, id int64) (strava.StreamSet, error)
	GetZones(ctx context.Context, id int64) ([]strava.Zone, error)
	ListActivitiesAfter(ctx context.Context, after int64) ([]store.Activity, error)
}

const (
	// How far back ReadTail looks for a comparable activity. The matcher
	// only wants the last two weeks; 200 records is plenty.
	historyDepth = 200

	claimTTL = 5 * time.Minute
)

// Service runs the per-activity pipeline: fetch, segment, append, match,
// deliver. Webhook and poll ingestion both funnel through ProcessActivity.
type Service struct {
	api      ActivityAPI
	store    *store.Store
	notifier notify.Notifier
	redis    *redis.Client
	now      func() time.Time
}

func NewService(api ActivityAPI, st *store.Store, notifier notify.Notifier, rdb *redis.Client) *Service {
	return &Service{
		api:      api,
		store:    st,
		notifier: notifier,
		redis:    rdb,
		now:      time.Now,
	}
}

// ProcessActivity handles one activity end to end. Already-processed ids
// are skipped via the ledger; when Redis is configured an atomic SETNX
// claim additionally guards against the webhook and the poller grabbing
// the same id at the same moment.
func (s *Service) ProcessActivity(ctx context.Context, id int64, source string) error {
	trace := uuid.NewString()[:8]
	idStr := strconv.FormatInt(id, 10)

	ledger := s.store.LoadLedger()
	if ledger.IsProcessed(idStr) {
		log.Printf("[%s] activity %s already processed, skipping", trace, idStr)
		return nil
	}
	if !s.claim(ctx, idStr) {
		log.Printf("[%s] activity %s claimed by another worker, skipping", trace, idStr)
		return nil
	}

	activity, err := s.api.GetActivity(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch activity %s: %w", idStr, err)
	}

	// Streams and zones are best-effort: without them the record simply
	// carries no derived metrics.
	streams, err := s.api.GetStreams(ctx, id)
	if err != nil {
		log.Printf("[%s] streams unavailable for %s: %v", trace, idStr, err)
		streams = nil
	}
	zones, err := s.api.GetZones(ctx, id)
	if err != nil {
		log.Printf("[%s] zones unavailable for %s: %v", trace, idStr, err)
		zones = nil
	}

	rec := Normalize(activity, streams, source, s.now())
	rec, comparison, err := s.AppendAndAnalyze(rec)
	if err != nil {
		return fmt.Errorf("store activity %s: %w", idStr, err)
	}

	var verdict *splits.Verdict
	if rec.Derived.Mode == splits.ModePace {
		verdict = splits.ClassifyPacing(rec.Derived.Splits)
	}

	if s.notifier != nil {
		if err := s.notifier.Send(ctx, ComposeMessage(rec, verdict, zones, comparison)); err != nil {
			// Delivery failure must not cause reprocessing on the next
			// poll; the record is stored either way.
			log.Printf("[%s] delivery failed for %s: %v", trace, idStr, err)
		}
	}

	if err := s.store.MarkProcessedAndSave(idStr); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	log.Printf("[%s] processed activity %s (%s)", trace, idStr, source)
	return nil
}

// AppendAndAnalyze stores a normalized record and compares it against the
// logged history. A nil comparison means no comparable prior activity.
func (s *Service) AppendAndAnalyze(rec store.Record) (store.Record, *compare.Comparison, error) {
	history, err := s.store.ReadTail(historyDepth)
	if err != nil {
		return rec, nil, err
	}
	if err := s.store.Append(rec); err != nil {
		return rec, nil, err
	}

	match := compare.FindComparable(rec, history)
	return rec, compare.Compare(rec, match), nil
}

// Poll fetches activities started after the ledger cursor and processes
// any that slipped past the webhook, then advances the cursor.
func (s *Service) Poll(ctx context.Context) error {
	ledger := s.store.LoadLedger()

	list, err := s.api.ListActivitiesAfter(ctx, ledger.LastCheckedAt/1000)
	if err != nil {
		return fmt.Errorf("list activities: %w", err)
	}
	failed := false
	for _, a := range list {
		if err := s.ProcessActivity(ctx, a.ID, store.SourcePoll); err != nil {
			failed = true
			log.Printf("poll: activity %d: %v", a.ID, err)
		}
	}

	// A failed activity must be listed again next sweep, so the cursor
	// only moves when the whole batch went through. Completed ids are
	// already marked and will be skipped on the retry.
	if failed {
		return nil
	}
	return s.store.AdvanceCursor(s.now().UnixMilli())
}

// claim reserves an activity id before work starts. Redis being down falls
// back to ledger-only idempotency rather than blocking processing.
func (s *Service) claim(ctx context.Context, id string) bool {
	if s.redis == nil {
		return true
	}
	ok, err := s.redis.SetNX(ctx, "pacewatch:claim:"+id, 1, claimTTL).Result()
	if err != nil {
		log.Printf("redis claim failed for %s: %v", id, err)
		return true
	}
	return ok
}
