// This file is part of ImageAudit
// Copyright (c) 2022 Confident Security, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package audit

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"
)

const latestExpectationVersion = "v1"

var errUnsupportedExpectationVersion = errors.New("unsupported expectation version")

// Expectation points to the latest version of the expectation document.
type Expectation = ExpectationV1

// PartitionExpectation points to the latest version of the partition
// expectation.
type PartitionExpectation = PartitionExpectationV1

// ExpectationV1 describes what a known-good GPT payload must look like.
// Empty fields are not checked. Strict additionally fails the audit on
// partitions the document does not list.
type ExpectationV1 struct {
	Version    string                   `yaml:"version" json:"version"`
	Digest     string                   `yaml:"digest,omitempty" json:"digest,omitempty"`
	DiskGUID   string                   `yaml:"diskGUID,omitempty" json:"diskGUID,omitempty"`
	SectorSize uint64                   `yaml:"sectorSize,omitempty" json:"sectorSize,omitempty"`
	Strict     bool                     `yaml:"strict,omitempty" json:"strict,omitempty"`
	Partitions []PartitionExpectationV1 `yaml:"partitions,omitempty" json:"partitions,omitempty"`
}

// PartitionExpectationV1 pins properties of the partition entry at
// Index. Name is a glob pattern. GUID values match case insensitively.
type PartitionExpectationV1 struct {
	Index      int     `yaml:"index" json:"index"`
	TypeGUID   string  `yaml:"typeGUID,omitempty" json:"typeGUID,omitempty"`
	UniqueGUID string  `yaml:"uniqueGUID,omitempty" json:"uniqueGUID,omitempty"`
	Name       string  `yaml:"name,omitempty" json:"name,omitempty"`
	FirstLBA   *uint64 `yaml:"firstLBA,omitempty" json:"firstLBA,omitempty"`
	LastLBA    *uint64 `yaml:"lastLBA,omitempty" json:"lastLBA,omitempty"`
	Flags      *uint64 `yaml:"flags,omitempty" json:"flags,omitempty"`
}

// Write writes the expectation document in YAML format.
func (expectation Expectation) Write(w io.Writer) error {
	data, err := yaml.Marshal(expectation)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ParseExpectation reads an expectation document and gates on its
// version.
func ParseExpectation(r io.Reader) (*Expectation, error) {
	var expectation Expectation
	if err := yaml.NewDecoder(r).Decode(&expectation); err != nil {
		return nil, fmt.Errorf("unable to parse expectation document; %w", err)
	}
	if expectation.Version != latestExpectationVersion {
		return nil, errUnsupportedExpectationVersion
	}
	return &expectation, nil
}

// LoadExpectation reads an expectation document from path.
func LoadExpectation(path string) (*Expectation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseExpectation(file)
}
