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
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/confidentsecurity/imageaudit/pkg/eventlog"
	"github.com/confidentsecurity/imageaudit/pkg/gpt"
	"github.com/mb0/glob"
	"go.uber.org/multierr"
)

var errMismatch = func(field string, expected, found interface{}) error {
	return fmt.Errorf("%v mismatch; expected: %v, found: %v", field, expected, found)
}

// Report is the outcome of auditing one payload against an expectation.
type Report struct {
	Digest     string   `json:"digest"`
	DiskGUID   string   `json:"diskGUID"`
	Partitions int      `json:"partitions"`
	Failures   []string `json:"failures,omitempty"`
}

// Ok reports whether the payload met every expectation.
func (report *Report) Ok() bool {
	return len(report.Failures) == 0
}

// Verify audits a GPT payload against an expectation document. The
// returned error covers undecodable payloads only; expectation
// mismatches are collected into the report. A sector size set in the
// expectation takes precedence over the sectorSize argument.
func Verify(payload []byte, expectation *Expectation, sectorSize uint64) (*Report, error) {
	if expectation.SectorSize != 0 {
		sectorSize = expectation.SectorSize
	}

	header, err := gpt.DecodeHeader(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to decode GPT header; %w", err)
	}

	partitions := map[int]gpt.Partition{}
	it := gpt.IteratePartitions(payload, header, sectorSize)
	for {
		partition, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read partition entries; %w", err)
		}
		partitions[partition.Index] = *partition
	}

	digest := eventlog.Digest(payload)
	var failures error
	if expectation.Digest != "" && !strings.EqualFold(expectation.Digest, digest) {
		failures = multierr.Append(failures, errMismatch("payload digest", expectation.Digest, digest))
	}
	if expectation.DiskGUID != "" && !strings.EqualFold(expectation.DiskGUID, header.DiskGUID) {
		failures = multierr.Append(failures, errMismatch("disk GUID", expectation.DiskGUID, header.DiskGUID))
	}

	audited := map[int]bool{}
	for _, partitionExpectation := range expectation.Partitions {
		audited[partitionExpectation.Index] = true
		partition, found := partitions[partitionExpectation.Index]
		if !found {
			failures = multierr.Append(failures, fmt.Errorf("partition %v not present", partitionExpectation.Index))
			continue
		}
		failures = multierr.Append(failures, comparePartition(partitionExpectation, partition))
	}

	if expectation.Strict {
		var indices []int
		for index := range partitions {
			if !audited[index] {
				indices = append(indices, index)
			}
		}
		sort.Ints(indices)
		for _, index := range indices {
			failures = multierr.Append(failures, fmt.Errorf("unexpected partition %v of type %v", index, partitions[index].TypeGUID))
		}
	}

	report := &Report{
		Digest:     digest,
		DiskGUID:   header.DiskGUID,
		Partitions: len(partitions),
	}
	for _, err := range multierr.Errors(failures) {
		report.Failures = append(report.Failures, err.Error())
	}
	return report, nil
}

func comparePartition(expected PartitionExpectation, found gpt.Partition) (err error) {
	prefix := fmt.Sprintf("partition %v", expected.Index)
	if expected.TypeGUID != "" && !strings.EqualFold(expected.TypeGUID, found.TypeGUID) {
		err = multierr.Append(err, errMismatch(prefix+" type GUID", expected.TypeGUID, found.TypeGUID))
	}
	if expected.UniqueGUID != "" && !strings.EqualFold(expected.UniqueGUID, found.UniqueGUID) {
		err = multierr.Append(err, errMismatch(prefix+" unique GUID", expected.UniqueGUID, found.UniqueGUID))
	}
	if expected.Name != "" {
		if matched, _ := glob.Match(expected.Name, found.Name); !matched {
			err = multierr.Append(err, errMismatch(prefix+" name", expected.Name, found.Name))
		}
	}
	if expected.FirstLBA != nil && *expected.FirstLBA != found.FirstLBA {
		err = multierr.Append(err, errMismatch(prefix+" first LBA", *expected.FirstLBA, found.FirstLBA))
	}
	if expected.LastLBA != nil && *expected.LastLBA != found.LastLBA {
		err = multierr.Append(err, errMismatch(prefix+" last LBA", *expected.LastLBA, found.LastLBA))
	}
	if expected.Flags != nil && *expected.Flags != found.Flags {
		err = multierr.Append(err, errMismatch(prefix+" flags", *expected.Flags, found.Flags))
	}
	return err
}

// FromPayload snapshots a known-good payload into a strict expectation
// pinning every populated partition entry.
func FromPayload(payload []byte, sectorSize uint64) (*Expectation, error) {
	header, err := gpt.DecodeHeader(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to decode GPT header; %w", err)
	}

	expectation := &Expectation{
		Version:    latestExpectationVersion,
		Digest:     eventlog.Digest(payload),
		DiskGUID:   header.DiskGUID,
		SectorSize: sectorSize,
		Strict:     true,
	}

	it := gpt.IteratePartitions(payload, header, sectorSize)
	for {
		partition, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read partition entries; %w", err)
		}
		firstLBA, lastLBA, flags := partition.FirstLBA, partition.LastLBA, partition.Flags
		expectation.Partitions = append(expectation.Partitions, PartitionExpectation{
			Index:      partition.Index,
			TypeGUID:   partition.TypeGUID,
			UniqueGUID: partition.UniqueGUID,
			Name:       partition.Name,
			FirstLBA:   &firstLBA,
			LastLBA:    &lastLBA,
			Flags:      &flags,
		})
	}
	return expectation, nil
}
