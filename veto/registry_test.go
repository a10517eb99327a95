// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package veto

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/governance/signer"
)

func TestNewRegistry(t *testing.T) {
	require := require.New(t)

	pool := newTestNode(t, 1, "pool", MiningPool, 30)
	exchange := newTestNode(t, 2, "exchange", Exchange, 12)
	retired := newTestNode(t, 3, "retired", Custodian, 50)
	retired.Active = false

	r, err := NewRegistry([]Node{pool.Node, exchange.Node, retired.Node})
	require.NoError(err)
	require.Equal(2, r.Len())
	require.Equal(Network{
		MiningWeight:   30,
		EconomicWeight: 12,
	}, r.Network())

	got, ok := r.Get("exchange")
	require.True(ok)
	require.Equal(exchange.Node, got)

	_, ok = r.Get("retired")
	require.False(ok)
}

func TestNewRegistryErrors(t *testing.T) {
	valid := newTestNode(t, 1, "node", Exchange, 1).Node
	tests := []struct {
		name        string
		modify      func(*Node)
		expectedErr error
	}{
		{
			name:        "missing id",
			modify:      func(n *Node) { n.ID = "" },
			expectedErr: ErrMissingNodeID,
		},
		{
			name:        "unknown type",
			modify:      func(n *Node) { n.Type = 0 },
			expectedErr: ErrUnknownNodeType,
		},
		{
			name:        "negative weight",
			modify:      func(n *Node) { n.Weight = -1 },
			expectedErr: ErrInvalidWeight,
		},
		{
			name:        "infinite weight",
			modify:      func(n *Node) { n.Weight = stdmath.Inf(1) },
			expectedErr: ErrInvalidWeight,
		},
		{
			name:        "NaN weight",
			modify:      func(n *Node) { n.Weight = stdmath.NaN() },
			expectedErr: ErrInvalidWeight,
		},
		{
			name:        "missing public key",
			modify:      func(n *Node) { n.PublicKey = "" },
			expectedErr: ErrMissingPublicKey,
		},
		{
			name:        "malformed public key",
			modify:      func(n *Node) { n.PublicKey = "02ab" },
			expectedErr: signer.ErrInvalidPublicKey,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			n := valid
			test.modify(&n)
			_, err := NewRegistry([]Node{n})
			require.ErrorIs(t, err, test.expectedErr)
		})
	}

	t.Run("duplicate id", func(t *testing.T) {
		inactive := valid
		inactive.Active = false
		_, err := NewRegistry([]Node{valid, inactive})
		require.ErrorIs(t, err, ErrDuplicateNode)
	})
}

func TestNetworkOf(t *testing.T) {
	require := require.New(t)

	require.Equal(Network{
		MiningWeight:   30,
		EconomicWeight: 12,
	}, NetworkOf([]Node{
		{ID: "pool-a", Type: MiningPool, Weight: 10, Active: true},
		{ID: "pool-b", Type: MiningPool, Weight: 20, Active: true},
		{ID: "pool-c", Type: MiningPool, Weight: 50},
		{ID: "exchange", Type: Exchange, Weight: 5, Active: true},
		{ID: "contributor", Type: CommonsContributor, Weight: 7, Active: true},
		{ID: "broken", Type: Exchange, Weight: -3, Active: true},
		{ID: "unknown", Weight: 100, Active: true},
	}))
}
