package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/hakim/driftwatch/internal/models"
	"go.etcd.io/bbolt"
)

// idKey encodes a run ID big-endian so bbolt keeps runs in ID order
func idKey(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}

// InsertRun assigns the next ID and creation time to run and stores it.
// The record and its host index entry are written in one transaction, so a
// failed insert leaves nothing behind. run.ID and run.CreatedAt are set
// only on success.
func (s *Store) InsertRun(run *models.DriftRun) (uint64, error) {
	var (
		id        uint64
		createdAt = s.now().UTC()
	)

	err := s.db.Update(func(tx *bbolt.Tx) error {
		runs := tx.Bucket([]byte(bucketRuns))

		seq, err := runs.NextSequence()
		if err != nil {
			return err
		}
		id = seq

		rec := *run
		rec.ID = id
		rec.CreatedAt = createdAt

		data, err := json.Marshal(&rec)
		if err != nil {
			return err
		}
		if err := runs.Put(idKey(id), data); err != nil {
			return err
		}

		// Update run index (host -> []run_id mapping)
		index := tx.Bucket([]byte(bucketRunIndex))
		hostKey := []byte(run.Host)

		var ids []uint64
		if existing := index.Get(hostKey); existing != nil {
			if err := json.Unmarshal(existing, &ids); err != nil {
				return err
			}
		}
		ids = append(ids, id)

		indexData, err := json.Marshal(ids)
		if err != nil {
			return err
		}
		return index.Put(hostKey, indexData)
	})
	if err != nil {
		return 0, &PersistenceError{Op: "insert run", Err: err}
	}

	run.ID = id
	run.CreatedAt = createdAt
	return id, nil
}

// GetRun retrieves a run by ID. Returns ErrRunNotFound when absent.
func (s *Store) GetRun(id uint64) (*models.DriftRun, error) {
	var run *models.DriftRun

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketRuns)).Get(idKey(id))
		if data == nil {
			return nil
		}
		run = &models.DriftRun{}
		return json.Unmarshal(data, run)
	})
	if err != nil {
		return nil, &PersistenceError{Op: fmt.Sprintf("get run %d", id), Err: err}
	}
	if run == nil {
		return nil, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return run, nil
}

// ListRecentRuns returns up to limit run summaries, newest first.
// A limit of zero or less returns every run.
func (s *Store) ListRecentRuns(limit int) ([]*models.DriftRunSummary, error) {
	var runs []*models.DriftRunSummary

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketRuns)).ForEach(func(_, v []byte) error {
			var sum models.DriftRunSummary
			if err := json.Unmarshal(v, &sum); err != nil {
				return err
			}
			runs = append(runs, &sum)
			return nil
		})
	})
	if err != nil {
		return nil, &PersistenceError{Op: "list runs", Err: err}
	}

	return newestFirst(runs, limit), nil
}

// ListRunsForHost returns up to limit run summaries for host, newest first
func (s *Store) ListRunsForHost(host string, limit int) ([]*models.DriftRunSummary, error) {
	var runs []*models.DriftRunSummary

	err := s.db.View(func(tx *bbolt.Tx) error {
		// Get run IDs from index
		data := tx.Bucket([]byte(bucketRunIndex)).Get([]byte(host))
		if data == nil {
			return nil // No runs for this host
		}

		var ids []uint64
		if err := json.Unmarshal(data, &ids); err != nil {
			return err
		}

		// Retrieve each run
		bucket := tx.Bucket([]byte(bucketRuns))
		for _, id := range ids {
			runData := bucket.Get(idKey(id))
			if runData == nil {
				continue
			}
			var sum models.DriftRunSummary
			if err := json.Unmarshal(runData, &sum); err != nil {
				return err
			}
			runs = append(runs, &sum)
		}
		return nil
	})
	if err != nil {
		return nil, &PersistenceError{Op: "list runs for " + host, Err: err}
	}

	return newestFirst(runs, limit), nil
}

// newestFirst sorts by CreatedAt descending (ID descending on ties) and
// applies limit.
func newestFirst(runs []*models.DriftRunSummary, limit int) []*models.DriftRunSummary {
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID > runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs
}
