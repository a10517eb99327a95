// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package veto

import (
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func committedSignals(t *testing.T, n int) []Signal {
	signals := make([]Signal, n)
	for i := range signals {
		node := newTestNode(t, byte(i+1), fmt.Sprintf("node-%d", i), Exchange, float64(i+1))
		signals[i] = node.signal(t, 9, Veto)
	}
	return signals
}

func TestCommitProofs(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 8, 13} {
		t.Run(fmt.Sprintf("%d signals", n), func(t *testing.T) {
			require := require.New(t)

			signals := committedSignals(t, n)
			c, err := Commit(signals)
			require.NoError(err)

			for i := range signals {
				p, ok := c.Proof(signals[i].VotingKey)
				require.True(ok)
				require.Equal(c.Root, p.Root)
				require.Equal(signals[i].Leaf(), p.Leaf)
				require.True(VerifyProof(p))
			}

			_, ok := c.Proof("unknown")
			require.False(ok)
		})
	}
}

func TestCommitSingleSignal(t *testing.T) {
	require := require.New(t)

	signals := committedSignals(t, 1)
	c, err := Commit(signals)
	require.NoError(err)

	leaf := chainhash.HashH(signals[0].Leaf())
	require.Equal(hashPair(leaf, leaf), c.Root)
}

func TestCommitDeterministic(t *testing.T) {
	require := require.New(t)

	signals := committedSignals(t, 6)
	c1, err := Commit(signals)
	require.NoError(err)
	c2, err := Commit(signals)
	require.NoError(err)
	require.Equal(c1.Root, c2.Root)

	// Dropping a signal changes the root.
	c3, err := Commit(signals[1:])
	require.NoError(err)
	require.NotEqual(c1.Root, c3.Root)
}

func TestVerifyProofTampered(t *testing.T) {
	require := require.New(t)

	signals := committedSignals(t, 5)
	c, err := Commit(signals)
	require.NoError(err)

	p, ok := c.Proof(signals[2].VotingKey)
	require.True(ok)

	leaf := p
	leaf.Leaf = append([]byte(nil), p.Leaf...)
	leaf.Leaf[0] ^= 1
	require.False(VerifyProof(leaf))

	path := p
	path.Path = append([]ProofStep(nil), p.Path...)
	path.Path[0].Left = !path.Path[0].Left
	require.False(VerifyProof(path))

	root := p
	root.Root[0] ^= 1
	require.False(VerifyProof(root))

	// Changing the signal changes its leaf.
	signals[2].Kind = Support
	require.NotEqual(p.Leaf, signals[2].Leaf())
}

func TestCommitErrors(t *testing.T) {
	require := require.New(t)

	_, err := Commit(nil)
	require.ErrorIs(err, ErrNoSignals)

	signals := committedSignals(t, 2)
	signals[1].VotingKey = ""
	_, err = Commit(signals)
	require.ErrorIs(err, ErrMissingVotingKey)

	signals = committedSignals(t, 2)
	signals[1].VotingKey = signals[0].VotingKey
	_, err = Commit(signals)
	require.ErrorIs(err, ErrDuplicateVotingKey)
}
