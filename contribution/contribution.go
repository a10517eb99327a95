// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contribution

import (
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
)

const (
	MergeMining Kind = iota + 1
	FeeForwarding
	Zap
)

var (
	ErrUnknownKind        = errors.New("unknown contribution kind")
	ErrNegativeAmount     = errors.New("negative contribution amount")
	ErrAmountTooLarge     = errors.New("contribution amount exceeds the bitcoin supply")
	ErrMissingContributor = errors.New("missing contributor id")
	ErrMissingTimestamp   = errors.New("missing contribution timestamp")
	ErrMissingTxHash      = errors.New("fee forwarding contribution without tx hash")
)

// Kind is the economic activity a contribution was made through.
type Kind uint8

func (k Kind) String() string {
	switch k {
	case MergeMining:
		return "merge_mining"
	case FeeForwarding:
		return "fee_forwarding"
	case Zap:
		return "zap"
	default:
		return "unknown"
	}
}

func (k Kind) Valid() bool {
	return k >= MergeMining && k <= Zap
}

func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{MergeMining, FeeForwarding, Zap} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, k)
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Contribution is a single economic contribution by one participant. Rows
// are immutable once verified.
type Contribution struct {
	ContributorID string
	Kind          Kind
	Amount        btcutil.Amount
	Timestamp     time.Time
	// TxHash identifies the on-chain transaction for fee forwarding. It is
	// globally unique so the same forwarded fee is never counted twice.
	TxHash   string
	Verified bool
}

// Age is the time elapsed between the contribution and [now]. Contributions
// timestamped in the future have age 0.
func (c *Contribution) Age(now time.Time) time.Duration {
	return max(now.Sub(c.Timestamp), 0)
}

// Verify checks the row is well-formed. It does not check uniqueness.
func (c *Contribution) Verify() error {
	switch {
	case c.ContributorID == "":
		return ErrMissingContributor
	case !c.Kind.Valid():
		return fmt.Errorf("%w: %d", ErrUnknownKind, c.Kind)
	case c.Amount < 0:
		return fmt.Errorf("%w: %s", ErrNegativeAmount, c.Amount)
	case c.Amount > btcutil.MaxSatoshi:
		return fmt.Errorf("%w: %s", ErrAmountTooLarge, c.Amount)
	case c.Timestamp.IsZero():
		return ErrMissingTimestamp
	case c.Kind == FeeForwarding && c.TxHash == "":
		return ErrMissingTxHash
	default:
		return nil
	}
}
