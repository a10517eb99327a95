// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package votingkey derives single-use voting keys from a long-lived
// registration key.
//
// A voting key lives at m/0'/proposal'/signal' below the registration key.
// Every segment is hardened, so voting public keys cannot be computed from the
// registration public key, and two voting keys of the same registrant cannot
// be linked without the registration secret.
//
// Because of this, proving that a voting key belongs to a registrant requires
// the registration secret (see Verify). Verification from the registration
// public key alone would need a non-hardened segment, which would weaken the
// unlinkability above.
package votingkey

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/luxfi/governance/signer"
	"github.com/luxfi/governance/utils/math"
)

const (
	ChainCodeLen = 32

	// governance voting purpose, the first segment of every voting path
	purposeIndex uint32 = 0
)

var (
	_ signer.Signer = (*Key)(nil)

	ErrCrypto            = errors.New("crypto error")
	ErrIndexOverflow     = fmt.Errorf("%w: hardened index overflow", ErrCrypto)
	ErrInvalidChainCode  = fmt.Errorf("%w: invalid chain code", ErrCrypto)
	ErrInvalidPrivateKey = fmt.Errorf("%w: invalid private key", ErrCrypto)

	// Version bytes are required by the extended key encoding but never
	// serialized by this package.
	extendedKeyVersion = chaincfg.MainNetParams.HDPrivateKeyID[:]
)

// RegistrationKey is the keypair and chain code an economic node registers
// with. It never signs votes directly.
type RegistrationKey struct {
	PrivateKey *btcec.PrivateKey
	ChainCode  [ChainCodeLen]byte
}

// NewRegistrationKey builds a registration key from a BIP32 seed.
func NewRegistrationKey(seed []byte) (*RegistrationKey, error) {
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCrypto, err)
	}
	sk, err := master.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCrypto, err)
	}
	r := &RegistrationKey{PrivateKey: sk}
	copy(r.ChainCode[:], master.ChainCode())
	return r, nil
}

func (r *RegistrationKey) PublicKey() *btcec.PublicKey {
	return r.PrivateKey.PubKey()
}

func (r *RegistrationKey) Derive(proposalID, signalIndex uint32) (*Key, error) {
	return Derive(r.PrivateKey, r.ChainCode, proposalID, signalIndex)
}

// Key is a voting keypair scoped to exactly one (proposal, signal index).
// It is never stored; once the proposal closes it is simply not used again.
type Key struct {
	ProposalID  uint32
	SignalIndex uint32

	sk *btcec.PrivateKey
}

func (k *Key) PrivateKey() *btcec.PrivateKey {
	return k.sk
}

func (k *Key) PublicKey() *btcec.PublicKey {
	return k.sk.PubKey()
}

func (k *Key) Sign(msg []byte) []byte {
	return signer.Sign(k.sk, msg)
}

func (k *Key) Path() string {
	return Path(k.ProposalID, k.SignalIndex)
}

// Derive returns the voting key at m/0'/[proposalID]'/[signalIndex]' below
// the registration key ([sk], [chainCode]). Derivation is deterministic.
func Derive(
	sk *btcec.PrivateKey,
	chainCode [ChainCodeLen]byte,
	proposalID uint32,
	signalIndex uint32,
) (*Key, error) {
	if sk == nil {
		return nil, ErrInvalidPrivateKey
	}

	path := [3]uint32{purposeIndex, proposalID, signalIndex}
	var hardened [3]uint32
	for i, index := range path {
		h, err := HardenedIndex(index)
		if err != nil {
			return nil, fmt.Errorf("segment %d (%d): %w", i, index, err)
		}
		hardened[i] = h
	}

	// The registration key is treated as a depth-0 master key.
	ext := hdkeychain.NewExtendedKey(
		extendedKeyVersion,
		sk.Serialize(),
		chainCode[:],
		[]byte{0, 0, 0, 0},
		0,
		0,
		true,
	)
	for _, index := range hardened {
		child, err := ext.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("%w: deriving child %d: %w", ErrCrypto, index, err)
		}
		ext = child
	}

	votingKey, err := ext.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCrypto, err)
	}
	return &Key{
		ProposalID:  proposalID,
		SignalIndex: signalIndex,
		sk:          votingKey,
	}, nil
}

// Verify reports whether [votingKey] is the key derived for
// ([proposalID], [signalIndex]) from the registration key. It re-derives the
// key and therefore needs the registration secret.
func Verify(
	sk *btcec.PrivateKey,
	chainCode [ChainCodeLen]byte,
	votingKey *btcec.PublicKey,
	proposalID uint32,
	signalIndex uint32,
) (bool, error) {
	if votingKey == nil {
		return false, nil
	}
	derived, err := Derive(sk, chainCode, proposalID, signalIndex)
	if err != nil {
		return false, err
	}
	return derived.PublicKey().IsEqual(votingKey), nil
}

// HardenedIndex offsets [index] into the hardened range.
func HardenedIndex(index uint32) (uint32, error) {
	h, err := math.Add[uint32](hdkeychain.HardenedKeyStart, index)
	if err != nil {
		return 0, ErrIndexOverflow
	}
	return h, nil
}

// Path renders the derivation path for audit logs.
func Path(proposalID, signalIndex uint32) string {
	return fmt.Sprintf("m/%d'/%d'/%d'", purposeIndex, proposalID, signalIndex)
}

func ChainCodeFromHex(s string) ([ChainCodeLen]byte, error) {
	var chainCode [ChainCodeLen]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return chainCode, fmt.Errorf("%w: %w", ErrInvalidChainCode, err)
	}
	if len(b) != ChainCodeLen {
		return chainCode, fmt.Errorf("%w: expected %d bytes but got %d", ErrInvalidChainCode, ChainCodeLen, len(b))
	}
	copy(chainCode[:], b)
	return chainCode, nil
}

func ChainCodeToHex(chainCode [ChainCodeLen]byte) string {
	return hex.EncodeToString(chainCode[:])
}
