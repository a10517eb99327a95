// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package signer produces and checks the secp256k1 ECDSA signatures that
// maintainers attach to proposals and that economic nodes attach to veto
// signals.
package signer

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/luxfi/ids"
)

const messagePrefix = "governance-signature:"

var (
	_ Signer = (*localSigner)(nil)

	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrInvalidSignature = errors.New("invalid signature")
)

type Signer interface {
	// PublicKey returns the key that verifies signatures from this signer.
	PublicKey() *btcec.PublicKey

	// Sign returns the DER encoded signature of sha256([msg]).
	Sign(msg []byte) []byte
}

type localSigner struct {
	sk *btcec.PrivateKey
}

// NewLocal returns a Signer backed by an in-memory private key.
func NewLocal(sk *btcec.PrivateKey) Signer {
	return &localSigner{sk: sk}
}

func (s *localSigner) PublicKey() *btcec.PublicKey {
	return s.sk.PubKey()
}

func (s *localSigner) Sign(msg []byte) []byte {
	return Sign(s.sk, msg)
}

// Message is the canonical byte string a maintainer signs to approve the
// proposal identified by [digest]. It is stable for the lifetime of the
// proposal.
func Message(digest ids.ID, identity string) []byte {
	msg := make([]byte, 0, len(messagePrefix)+len(identity)+1+2*len(digest))
	msg = append(msg, messagePrefix...)
	msg = append(msg, identity...)
	msg = append(msg, ':')
	return hex.AppendEncode(msg, digest[:])
}

func Sign(sk *btcec.PrivateKey, msg []byte) []byte {
	return ecdsa.Sign(sk, chainhash.HashB(msg)).Serialize()
}

// Verify reports whether [sig] is a valid signature of [msg] by [pk].
// A malformed signature is an error; a well-formed signature by another key
// is not.
func Verify(pk *btcec.PublicKey, msg, sig []byte) (bool, error) {
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return parsed.Verify(chainhash.HashB(msg), pk), nil
}

// ParsePublicKey decodes a hex encoded compressed or uncompressed key.
func ParsePublicKey(hexKey string) (*btcec.PublicKey, error) {
	b, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	pk, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	return pk, nil
}

// PublicKeyToHex is the inverse of ParsePublicKey for compressed keys.
func PublicKeyToHex(pk *btcec.PublicKey) string {
	return hex.EncodeToString(pk.SerializeCompressed())
}
