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

package eventlog

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	simd "github.com/minio/sha256-simd"
	"k8s.io/klog/v2"
)

// DecodeHex decodes a hex-encoded event payload as dumped by
// `tpm2_eventlog`, tolerating whitespace anywhere in the string.
func DecodeHex(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	payload, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("unable to decode hex payload; %w", err)
	}
	return payload, nil
}

// ReadPayload reads an event payload from path, or from the standard
// input for "-". Content made up entirely of hex digits and whitespace
// is hex-decoded, anything else is returned as is.
func ReadPayload(path string) ([]byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if payload, err := DecodeHex(string(data)); err == nil && len(payload) != 0 {
		klog.V(5).InfoS("payload decoded from hex", "source", path, "bytes", len(payload))
		return payload, nil
	}
	return data, nil
}

// Digest returns the hex SHA-256 digest of an event payload.
func Digest(payload []byte) string {
	return fmt.Sprintf("%x", simd.Sum256(payload))
}
