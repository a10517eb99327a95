// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package signer

import (
	"github.com/btcsuite/btcd/btcec/v2"

	lru "github.com/hashicorp/golang-lru"
)

const DefaultKeyCacheSize = 1024

// KeyCache memoizes ParsePublicKey. Maintainer keys are re-parsed on every
// evaluation of every proposal, while the key set itself rarely changes.
// It is safe for concurrent use.
type KeyCache struct {
	keys *lru.Cache
}

func NewKeyCache(size int) (*KeyCache, error) {
	if size <= 0 {
		size = DefaultKeyCacheSize
	}
	keys, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &KeyCache{keys: keys}, nil
}

func (c *KeyCache) Get(hexKey string) (*btcec.PublicKey, error) {
	if v, ok := c.keys.Get(hexKey); ok {
		return v.(*btcec.PublicKey), nil
	}
	pk, err := ParsePublicKey(hexKey)
	if err != nil {
		return nil, err
	}
	c.keys.Add(hexKey, pk)
	return pk, nil
}

func (c *KeyCache) Len() int {
	return c.keys.Len()
}
