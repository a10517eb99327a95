// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package veto

import (
	"errors"
	"fmt"
	stdmath "math"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/luxfi/governance/signer"
	"github.com/luxfi/governance/utils/math"
)

var (
	ErrInvalidWeight    = errors.New("invalid weight")
	ErrDuplicateNode    = errors.New("duplicate node")
	ErrUnknownNode      = errors.New("unknown or inactive node")
	ErrWrongProposal    = errors.New("signal for another proposal")
	ErrNodeTypeMismatch = errors.New("node type does not match registration")
	ErrMissingPublicKey = errors.New("missing node public key")
)

// Node is a registered economic node.
type Node struct {
	ID     string   `json:"id"`
	Type   NodeType `json:"type"`
	Weight float64  `json:"weight"`
	// Hex encoded public key the node registered with. It attests the voting
	// keys the node signs signals with.
	PublicKey string `json:"publicKey"`
	Active    bool   `json:"active"`
}

func (n *Node) Verify() error {
	switch {
	case n.ID == "":
		return ErrMissingNodeID
	case !n.Type.Valid():
		return fmt.Errorf("%w: node %q: %d", ErrUnknownNodeType, n.ID, n.Type)
	case stdmath.IsNaN(n.Weight) || stdmath.IsInf(n.Weight, 0) || n.Weight < 0:
		return fmt.Errorf("%w: node %q: %v", ErrInvalidWeight, n.ID, n.Weight)
	case n.PublicKey == "":
		return fmt.Errorf("%w: node %q", ErrMissingPublicKey, n.ID)
	default:
		return nil
	}
}

// Network is the total weight of all active economic nodes, split into
// hashpower and economic activity.
type Network struct {
	MiningWeight   float64 `json:"miningWeight"`
	EconomicWeight float64 `json:"economicWeight"`
}

// NetworkOf sums the weight of the active, well-typed nodes.
func NetworkOf(nodes []Node) Network {
	var n Network
	for _, node := range nodes {
		if !node.Active || !node.Type.Valid() {
			continue
		}
		w := math.NonNegative(node.Weight)
		if node.Type.Mining() {
			n.MiningWeight += w
		} else {
			n.EconomicWeight += w
		}
	}
	return n
}

type registered struct {
	node Node
	key  *btcec.PublicKey
}

// Registry is an immutable view of the registered economic nodes. Only active
// nodes can cast signals.
type Registry struct {
	active  map[string]registered
	network Network
}

// NewRegistry verifies [nodes] and indexes the active ones. Node IDs must be
// unique across active and inactive nodes.
func NewRegistry(nodes []Node) (*Registry, error) {
	r := &Registry{
		active: make(map[string]registered, len(nodes)),
	}
	seen := make(map[string]struct{}, len(nodes))
	for i := range nodes {
		node := nodes[i]
		if err := node.Verify(); err != nil {
			return nil, err
		}
		if _, ok := seen[node.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, node.ID)
		}
		seen[node.ID] = struct{}{}

		key, err := signer.ParsePublicKey(node.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", node.ID, err)
		}
		if node.Active {
			r.active[node.ID] = registered{
				node: node,
				key:  key,
			}
		}
	}
	r.network = NetworkOf(nodes)
	return r, nil
}

// Network is the total weight of the active nodes.
func (r *Registry) Network() Network {
	return r.network
}

// Get returns the active node [id].
func (r *Registry) Get(id string) (Node, bool) {
	reg, ok := r.active[id]
	return reg.node, ok
}

func (r *Registry) Len() int {
	return len(r.active)
}

// Authenticate returns the active node that cast [s] on [proposalID]. The
// signal must name the node's registered type, carry a voting key attested by
// the node's registered key, and be signed by that voting key.
func (r *Registry) Authenticate(s *Signal, proposalID uint32) (Node, error) {
	if err := s.Verify(); err != nil {
		return Node{}, err
	}
	if s.ProposalID != proposalID {
		return Node{}, fmt.Errorf("%w: signal for %d, evaluating %d", ErrWrongProposal, s.ProposalID, proposalID)
	}
	reg, ok := r.active[s.NodeID]
	if !ok {
		return Node{}, fmt.Errorf("%w: %q", ErrUnknownNode, s.NodeID)
	}
	if s.NodeType != reg.node.Type {
		return Node{}, fmt.Errorf("%w: node %q is a %s, signal claims %s", ErrNodeTypeMismatch, s.NodeID, reg.node.Type, s.NodeType)
	}
	if err := s.VerifyAttestation(reg.key); err != nil {
		return Node{}, err
	}
	if err := s.VerifySignature(); err != nil {
		return Node{}, err
	}
	return reg.node, nil
}
