// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package veto

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var (
	ErrNoSignals          = errors.New("no signals to commit")
	ErrMissingVotingKey   = errors.New("signal has no voting key")
	ErrDuplicateVotingKey = errors.New("duplicate voting key")
)

// ProofStep is one sibling on the path from a leaf to the root.
type ProofStep struct {
	Hash chainhash.Hash `json:"hash"`
	// Left is true if the sibling is hashed on the left.
	Left bool `json:"left"`
}

// Proof shows that a signal was counted without revealing the other signals.
type Proof struct {
	Root chainhash.Hash `json:"root"`
	Leaf []byte         `json:"leaf"`
	Path []ProofStep    `json:"path"`
}

// Commitment is a merkle tree over a set of counted signals. A leaf is the
// signal's voting key followed by the hex encoded signal hash. Odd nodes are
// paired with themselves, including a lone leaf.
type Commitment struct {
	Root   chainhash.Hash
	proofs map[string]Proof
}

func Commit(signals []Signal) (*Commitment, error) {
	if len(signals) == 0 {
		return nil, ErrNoSignals
	}

	leaves := make([][]byte, len(signals))
	layer := make([]chainhash.Hash, len(signals))
	keys := make(map[string]int, len(signals))
	for i := range signals {
		s := &signals[i]
		if s.VotingKey == "" {
			return nil, fmt.Errorf("%w: node %q", ErrMissingVotingKey, s.NodeID)
		}
		if _, ok := keys[s.VotingKey]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVotingKey, s.VotingKey)
		}
		keys[s.VotingKey] = i
		leaves[i] = s.Leaf()
		layer[i] = chainhash.HashH(leaves[i])
	}

	layers := [][]chainhash.Hash{layer}
	for {
		next := make([]chainhash.Hash, 0, (len(layer)+1)/2)
		for i := 0; i < len(layer); i += 2 {
			right := layer[i]
			if i+1 < len(layer) {
				right = layer[i+1]
			}
			next = append(next, hashPair(layer[i], right))
		}
		layers = append(layers, next)
		layer = next
		if len(layer) == 1 {
			break
		}
	}
	root := layer[0]

	proofs := make(map[string]Proof, len(keys))
	for key, leafIdx := range keys {
		path := make([]ProofStep, 0, len(layers)-1)
		idx := leafIdx
		for _, row := range layers[:len(layers)-1] {
			sibling := idx ^ 1
			if sibling >= len(row) {
				sibling = idx
			}
			path = append(path, ProofStep{
				Hash: row[sibling],
				Left: idx%2 == 1,
			})
			idx /= 2
		}
		proofs[key] = Proof{
			Root: root,
			Leaf: leaves[leafIdx],
			Path: path,
		}
	}
	return &Commitment{
		Root:   root,
		proofs: proofs,
	}, nil
}

// Proof returns the inclusion proof of the signal cast with [votingKey].
func (c *Commitment) Proof(votingKey string) (Proof, bool) {
	p, ok := c.proofs[votingKey]
	return p, ok
}

// VerifyProof reports whether [p] connects its leaf to its root.
func VerifyProof(p Proof) bool {
	h := chainhash.HashH(p.Leaf)
	for _, step := range p.Path {
		if step.Left {
			h = hashPair(step.Hash, h)
		} else {
			h = hashPair(h, step.Hash)
		}
	}
	return h == p.Root
}

// Leaf is the merkle leaf committed for the signal.
func (s *Signal) Leaf() []byte {
	h := s.Hash()
	b := make([]byte, 0, len(s.VotingKey)+1+2*chainhash.HashSize)
	b = append(b, s.VotingKey...)
	b = append(b, ':')
	return hex.AppendEncode(b, h[:])
}

func hashPair(left, right chainhash.Hash) chainhash.Hash {
	var b [2 * chainhash.HashSize]byte
	copy(b[:], left[:])
	copy(b[chainhash.HashSize:], right[:])
	return chainhash.HashH(b[:])
}
