// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package multisig

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Maintainer struct {
	Identity  string `yaml:"github" json:"github"`
	PublicKey string `yaml:"public_key" json:"publicKey"`
}

type Team struct {
	ID          string       `yaml:"id" json:"id"`
	Name        string       `yaml:"name" json:"name"`
	Maintainers []Maintainer `yaml:"maintainers" json:"maintainers"`
}

type teamsFile struct {
	Teams []Team `yaml:"teams"`
}

// LoadTeams parses a teams document of the form
//
//	teams:
//	  - id: core
//	    name: Core Team
//	    maintainers:
//	      - github: alice
//	        public_key: 02ab...
//
// An empty document yields no teams.
func LoadTeams(r io.Reader) ([]Team, error) {
	var f teamsFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse teams: %w", err)
	}
	return f.Teams, nil
}

func LoadTeamsFile(path string) ([]Team, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open teams file: %w", err)
	}
	defer f.Close()

	return LoadTeams(f)
}
