// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contribution

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/btree"

	"github.com/luxfi/math/set"
)

const btreeDegree = 32

var ErrDuplicateTxHash = errors.New("duplicate tx hash")

type entry struct {
	seq          uint64
	contribution Contribution
}

func lessEntry(a, b entry) bool {
	if !a.contribution.Timestamp.Equal(b.contribution.Timestamp) {
		return a.contribution.Timestamp.Before(b.contribution.Timestamp)
	}
	return a.seq < b.seq
}

// Ledger is an append-only, time ordered store of contributions. It enforces
// the write discipline the weight calculation relies on: malformed rows and
// reused transaction hashes are rejected at append time.
//
// Readers always observe whole rows. A read racing with an append sees the
// ledger either before or after the append.
type Ledger struct {
	lock sync.RWMutex

	nextSeq      uint64
	byTime       *btree.BTreeG[entry]
	txHashes     set.Set[string]
	contributors set.Set[string]
}

func NewLedger() *Ledger {
	return &Ledger{
		byTime:       btree.NewG(btreeDegree, lessEntry),
		txHashes:     set.NewSet[string](0),
		contributors: set.NewSet[string](0),
	}
}

func (l *Ledger) Append(c Contribution) error {
	if err := c.Verify(); err != nil {
		return err
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	if c.TxHash != "" {
		if l.txHashes.Contains(c.TxHash) {
			return fmt.Errorf("%w: %s", ErrDuplicateTxHash, c.TxHash)
		}
		l.txHashes.Add(c.TxHash)
	}
	l.contributors.Add(c.ContributorID)
	l.byTime.ReplaceOrInsert(entry{
		seq:          l.nextSeq,
		contribution: c,
	})
	l.nextSeq++
	return nil
}

func (l *Ledger) Len() int {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.byTime.Len()
}

// DistinctContributors is the number of distinct contributor ids ever seen.
func (l *Ledger) DistinctContributors() int {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.contributors.Len()
}

// Snapshot returns every contribution in timestamp order.
func (l *Ledger) Snapshot() []Contribution {
	l.lock.RLock()
	defer l.lock.RUnlock()

	contributions := make([]Contribution, 0, l.byTime.Len())
	l.byTime.Ascend(func(e entry) bool {
		contributions = append(contributions, e.contribution)
		return true
	})
	return contributions
}

// Since returns the contributions timestamped at or after [start], in
// timestamp order.
func (l *Ledger) Since(start time.Time) []Contribution {
	l.lock.RLock()
	defer l.lock.RUnlock()

	var contributions []Contribution
	pivot := entry{contribution: Contribution{Timestamp: start}}
	l.byTime.AscendGreaterOrEqual(pivot, func(e entry) bool {
		contributions = append(contributions, e.contribution)
		return true
	})
	return contributions
}
