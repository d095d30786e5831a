package journal

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/launchpad/telemetry"
)

// ProviderStat summarises one provider's spans.
type ProviderStat struct {
	ProviderID   string
	Count        int
	Failures     int
	MeanDuration time.Duration
}

// InteractionStat summarises interaction outcomes.
type InteractionStat struct {
	Total     int
	Completed int
	Discarded int
}

// Recent returns up to limit records, most recently ended first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]*SpanRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	var records []*SpanRecord
	err := j.withTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(spanRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(spanKeyUpperBound()); iter.Valid() && len(records) < limit; iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, err := readRecord(iter.Item())
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// scanSince calls fn for every record that ended at or after since, oldest first.
func (j *Journal) scanSince(ctx context.Context, since time.Time, fn func(*SpanRecord)) error {
	return j.withTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(spanRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(makePartialSpanKey(since)); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, err := readRecord(iter.Item())
			if err != nil {
				return err
			}
			fn(record)
		}
		return nil
	}, false)
}

// ProviderStats aggregates provider spans that ended at or after since,
// ordered by provider id.
func (j *Journal) ProviderStats(ctx context.Context, since time.Time) ([]ProviderStat, error) {
	stats := make(map[string]*ProviderStat)
	totals := make(map[string]time.Duration)

	err := j.scanSince(ctx, since, func(r *SpanRecord) {
		if r.Kind != KindProvider {
			return
		}
		stat, ok := stats[r.ProviderID]
		if !ok {
			stat = &ProviderStat{ProviderID: r.ProviderID}
			stats[r.ProviderID] = stat
		}
		stat.Count++
		if r.Failed {
			stat.Failures++
		}
		totals[r.ProviderID] += r.Duration()
	})
	if err != nil {
		return nil, err
	}

	out := make([]ProviderStat, 0, len(stats))
	for _, id := range slices.Sorted(maps.Keys(stats)) {
		stat := *stats[id]
		stat.MeanDuration = totals[id] / time.Duration(stat.Count)
		out = append(out, stat)
	}
	return out, nil
}

// InteractionStats counts interaction outcomes for interactions that ended
// at or after since.
func (j *Journal) InteractionStats(ctx context.Context, since time.Time) (InteractionStat, error) {
	var stat InteractionStat
	err := j.scanSince(ctx, since, func(r *SpanRecord) {
		if r.Kind != KindInteraction {
			return
		}
		stat.Total++
		switch r.Outcome {
		case telemetry.OutcomeComplete:
			stat.Completed++
		case telemetry.OutcomeDiscarded:
			stat.Discarded++
		}
	})
	return stat, err
}

// Prune deletes records that ended before the given time and returns how many
// were removed.
func (j *Journal) Prune(ctx context.Context, before time.Time) (int, error) {
	var keys [][]byte
	err := j.withTx(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(spanRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().KeyCopy(nil)
			if end, ok := spanKeyTime(key); ok && !end.Before(before) {
				break
			}
			keys = append(keys, key)
		}
		return nil
	}, false)
	if err != nil || len(keys) == 0 {
		return 0, err
	}

	wb := j.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return 0, err
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, err
	}
	j.logger.Debug("journal pruned", "records", len(keys), "before", before)
	return len(keys), nil
}

func readRecord(item *badger.Item) (*SpanRecord, error) {
	var record *SpanRecord
	err := item.Value(func(val []byte) error {
		var err error
		record, err = unmarshalRecord(val)
		return err
	})
	return record, err
}
