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
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDecodeHex(t *testing.T) {
	testCases := []struct {
		payload string
		result  []byte
	}{
		{"", []byte{}},
		{"4546", []byte{0x45, 0x46}},
		{"45 46 49 20", []byte{0x45, 0x46, 0x49, 0x20}},
		{"ef\tbe\nad\r\nde", []byte{0xEF, 0xBE, 0xAD, 0xDE}},
		{"  00FF  ", []byte{0x00, 0xFF}},
	}

	for i, testCase := range testCases {
		result, err := DecodeHex(testCase.payload)
		if err != nil {
			t.Fatalf("case %v: unexpected error %v", i+1, err)
		}
		if !reflect.DeepEqual(result, testCase.result) {
			t.Fatalf("case %v: result: expected: %v, got: %v", i+1, testCase.result, result)
		}
	}
}

func TestDecodeHexInvalid(t *testing.T) {
	testCases := []string{"454", "zz", "45 4", "0x45"}

	for i, testCase := range testCases {
		if _, err := DecodeHex(testCase); err == nil {
			t.Fatalf("case %v: expected error for %q", i+1, testCase)
		}
	}
}

func TestReadPayload(t *testing.T) {
	tempDir := t.TempDir()

	hexFile := filepath.Join(tempDir, "payload.hex")
	if err := os.WriteFile(hexFile, []byte("45464920 50415254\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rawFile := filepath.Join(tempDir, "payload.bin")
	rawData := []byte{0x45, 0x46, 0x49, 0x20, 0x50, 0x41, 0x52, 0x54, 0x00, 0xFF}
	if err := os.WriteFile(rawFile, rawData, 0o644); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		path   string
		result []byte
	}{
		{hexFile, []byte("EFI PART")},
		{rawFile, rawData},
	}

	for i, testCase := range testCases {
		result, err := ReadPayload(testCase.path)
		if err != nil {
			t.Fatalf("case %v: unexpected error %v", i+1, err)
		}
		if !reflect.DeepEqual(result, testCase.result) {
			t.Fatalf("case %v: result: expected: %v, got: %v", i+1, testCase.result, result)
		}
	}

	if _, err := ReadPayload(filepath.Join(tempDir, "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDigest(t *testing.T) {
	testCases := []struct {
		payload []byte
		digest  string
	}{
		{[]byte{}, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{[]byte("abc"), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}

	for i, testCase := range testCases {
		if digest := Digest(testCase.payload); digest != testCase.digest {
			t.Fatalf("case %v: digest: expected: %v, got: %v", i+1, testCase.digest, digest)
		}
	}
}
