// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/math/set"

	"github.com/luxfi/governance/signer"
)

var (
	ErrNoTeams             = errors.New("no teams configured")
	ErrInvalidTeam         = errors.New("invalid team")
	ErrDuplicateTeam       = errors.New("duplicate team")
	ErrDuplicateMaintainer = errors.New("maintainer belongs to more than one team")
)

// Signature is a maintainer's signature over a proposal digest.
type Signature struct {
	Identity  string `json:"identity"`
	Signature []byte `json:"signature"`
}

type TeamStatus struct {
	TeamID   string `json:"teamID"`
	TeamName string `json:"teamName"`
	Signed   int    `json:"signed"`
	Required int    `json:"required"`
	Approved bool   `json:"approved"`
}

type Result struct {
	Tier                uint32       `json:"tier"`
	TeamsApproved       int          `json:"teamsApproved"`
	TeamsRequired       int          `json:"teamsRequired"`
	MaintainersApproved int          `json:"maintainersApproved"`
	MaintainersRequired int          `json:"maintainersRequired"`
	Approved            bool         `json:"approved"`
	Teams               []TeamStatus `json:"teams"`
}

type member struct {
	team      int
	publicKey string
}

// Verifier checks nested team signature thresholds. The team configuration is
// fixed at construction; Verify and VerifySigned are safe for concurrent use.
type Verifier struct {
	teams   []Team
	members map[string]member
	tiers   TierTable
	keys    *signer.KeyCache
	log     log.Logger
}

func NewVerifier(teams []Team, tiers TierTable, log log.Logger) (*Verifier, error) {
	if len(teams) == 0 {
		return nil, ErrNoTeams
	}
	if err := tiers.Verify(); err != nil {
		return nil, err
	}

	teamIDs := set.NewSet[string](len(teams))
	members := make(map[string]member)
	for i, team := range teams {
		if team.ID == "" {
			return nil, fmt.Errorf("%w: team %d has no id", ErrInvalidTeam, i)
		}
		if teamIDs.Contains(team.ID) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTeam, team.ID)
		}
		teamIDs.Add(team.ID)

		for _, m := range team.Maintainers {
			if m.Identity == "" {
				return nil, fmt.Errorf("%w: team %q has a maintainer with no identity", ErrInvalidTeam, team.ID)
			}
			if _, ok := members[m.Identity]; ok {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateMaintainer, m.Identity)
			}
			members[m.Identity] = member{
				team:      i,
				publicKey: m.PublicKey,
			}
		}
	}

	keys, err := signer.NewKeyCache(len(members))
	if err != nil {
		return nil, err
	}
	return &Verifier{
		teams:   teams,
		members: members,
		tiers:   tiers,
		keys:    keys,
		log:     log,
	}, nil
}

func (v *Verifier) Teams() []Team {
	return v.teams
}

// Requirement returns the requirement of [tier].
func (v *Verifier) Requirement(tier uint32) (Requirement, error) {
	return v.tiers.Get(tier)
}

// Verify counts [sigs] against the requirement of [tier] without checking
// them cryptographically. Signers that are not members of any team are
// ignored. Repeated signatures from one maintainer count once.
func (v *Verifier) Verify(sigs []Signature, tier uint32) (*Result, error) {
	req, err := v.tiers.Get(tier)
	if err != nil {
		return nil, err
	}

	signed := make([]set.Set[string], len(v.teams))
	for i := range signed {
		signed[i] = set.NewSet[string](0)
	}
	for _, sig := range sigs {
		m, ok := v.members[sig.Identity]
		if !ok {
			v.log.Debug("ignoring signature from unknown signer",
				log.String("identity", sig.Identity),
			)
			continue
		}
		signed[m.team].Add(sig.Identity)
	}

	result := &Result{
		Tier:                tier,
		TeamsRequired:       req.Teams,
		MaintainersRequired: req.Maintainers(),
		Teams:               make([]TeamStatus, len(v.teams)),
	}
	for i, team := range v.teams {
		count := signed[i].Len()
		approved := count >= req.MaintainersPerTeam
		if approved {
			result.TeamsApproved++
			result.MaintainersApproved += count
		}
		result.Teams[i] = TeamStatus{
			TeamID:   team.ID,
			TeamName: team.Name,
			Signed:   count,
			Required: req.MaintainersPerTeam,
			Approved: approved,
		}
	}
	result.Approved = result.TeamsApproved >= result.TeamsRequired
	return result, nil
}

// VerifySigned drops every signature in [sigs] that is not a valid signature
// by the signer's configured key over [digest], then counts the remainder
// like Verify.
func (v *Verifier) VerifySigned(digest ids.ID, sigs []Signature, tier uint32) (*Result, error) {
	if _, err := v.tiers.Get(tier); err != nil {
		return nil, err
	}

	valid := make([]Signature, 0, len(sigs))
	for _, sig := range sigs {
		m, ok := v.members[sig.Identity]
		if !ok {
			continue
		}
		pk, err := v.keys.Get(m.publicKey)
		if err != nil {
			v.log.Warn("maintainer has an unusable public key",
				log.String("identity", sig.Identity),
				log.Err(err),
			)
			continue
		}
		ok, err = signer.Verify(pk, signer.Message(digest, sig.Identity), sig.Signature)
		if !ok {
			v.log.Debug("dropping invalid signature",
				log.String("identity", sig.Identity),
				log.Stringer("digest", digest),
				log.Err(err),
			)
			continue
		}
		valid = append(valid, sig)
	}
	return v.Verify(valid, tier)
}
