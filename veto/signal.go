// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package veto

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/luxfi/governance/signer"
)

var (
	ErrUnknownNodeType   = errors.New("unknown node type")
	ErrUnknownSignalKind = errors.New("unknown signal kind")
	ErrMissingNodeID     = errors.New("missing node id")
	ErrBadSignature      = errors.New("bad signature")
	ErrBadAttestation    = errors.New("bad voting key attestation")
)

type NodeType uint8

const (
	MiningPool NodeType = iota + 1
	Exchange
	Custodian
	PaymentProcessor
	MajorHolder
	CommonsContributor
)

var nodeTypeNames = map[NodeType]string{
	MiningPool:         "mining_pool",
	Exchange:           "exchange",
	Custodian:          "custodian",
	PaymentProcessor:   "payment_processor",
	MajorHolder:        "major_holder",
	CommonsContributor: "commons_contributor",
}

func (t NodeType) String() string {
	if name, ok := nodeTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t NodeType) Valid() bool {
	_, ok := nodeTypeNames[t]
	return ok
}

// Mining reports whether the node's weight is hashpower rather than economic
// activity.
func (t NodeType) Mining() bool {
	return t == MiningPool
}

func ParseNodeType(s string) (NodeType, error) {
	for t, name := range nodeTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNodeType, s)
}

type SignalKind uint8

const (
	Veto SignalKind = iota + 1
	Support
	Abstain
)

func (k SignalKind) String() string {
	switch k {
	case Veto:
		return "veto"
	case Support:
		return "support"
	case Abstain:
		return "abstain"
	default:
		return "unknown"
	}
}

func (k SignalKind) Valid() bool {
	return k >= Veto && k <= Abstain
}

func ParseSignalKind(s string) (SignalKind, error) {
	for k := Veto; k <= Abstain; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSignalKind, s)
}

// Signal is an economic node's position on a proposal, signed with the voting
// key derived for that proposal. The node's registered key attests that the
// voting key is its own for this proposal. The weight of a signal is always
// the registered weight of its node.
type Signal struct {
	ProposalID uint32     `json:"proposalID"`
	NodeID     string     `json:"nodeID"`
	NodeType   NodeType   `json:"nodeType"`
	Kind       SignalKind `json:"kind"`
	Timestamp  time.Time  `json:"timestamp"`
	// Hex encoded compressed voting public key.
	VotingKey string `json:"votingKey"`
	// Signature of Bytes by the voting key.
	Signature []byte `json:"signature"`
	// Signature of AttestationBytes by the node's registered key.
	Attestation []byte `json:"attestation"`
}

func (s *Signal) Verify() error {
	switch {
	case s.NodeID == "":
		return ErrMissingNodeID
	case !s.NodeType.Valid():
		return fmt.Errorf("%w: %d", ErrUnknownNodeType, s.NodeType)
	case !s.Kind.Valid():
		return fmt.Errorf("%w: %d", ErrUnknownSignalKind, s.Kind)
	}
	return nil
}

// Bytes is the canonical encoding of the signed fields of the signal.
func (s *Signal) Bytes() []byte {
	b := strconv.AppendUint(nil, uint64(s.ProposalID), 10)
	b = append(b, ':')
	b = append(b, s.NodeID...)
	b = append(b, ':')
	b = append(b, s.NodeType.String()...)
	b = append(b, ':')
	b = append(b, s.Kind.String()...)
	b = append(b, ':')
	return s.Timestamp.UTC().AppendFormat(b, time.RFC3339Nano)
}

// AttestationBytes binds the voting key to the node and proposal.
func (s *Signal) AttestationBytes() []byte {
	b := append([]byte("voting-key:"), strconv.FormatUint(uint64(s.ProposalID), 10)...)
	b = append(b, ':')
	b = append(b, s.NodeID...)
	b = append(b, ':')
	return append(b, s.VotingKey...)
}

func (s *Signal) Hash() chainhash.Hash {
	return chainhash.HashH(s.Bytes())
}

// VerifySignature checks that the signal was signed by its voting key.
func (s *Signal) VerifySignature() error {
	pk, err := signer.ParsePublicKey(s.VotingKey)
	if err != nil {
		return err
	}
	ok, err := signer.Verify(pk, s.Bytes(), s.Signature)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: node %q", ErrBadSignature, s.NodeID)
	}
	return nil
}

// VerifyAttestation checks that [registered] attested the signal's voting key.
func (s *Signal) VerifyAttestation(registered *btcec.PublicKey) error {
	ok, err := signer.Verify(registered, s.AttestationBytes(), s.Attestation)
	if err != nil {
		return fmt.Errorf("%w: node %q: %w", ErrBadAttestation, s.NodeID, err)
	}
	if !ok {
		return fmt.Errorf("%w: node %q", ErrBadAttestation, s.NodeID)
	}
	return nil
}
