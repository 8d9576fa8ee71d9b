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

package b64scan

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"k8s.io/klog/v2"
)

var errInvalidDocument = errors.New("invalid JSON document")

var base64Pattern = regexp.MustCompile(`^(?:[A-Za-z0-9+/]{4})*(?:[A-Za-z0-9+/]{2}==|[A-Za-z0-9+/]{3}=)?$`)

// Finding is one base64 payload decoded out of a JSON document. Path
// locates the carrying string from the document root; findings from a
// payload that is itself JSON carry the " ∇ " marker in their path. Key
// is set when the carrying string is an object key, with Path locating
// the enclosing object.
type Finding struct {
	Path string `json:"path"`
	Key  bool   `json:"key,omitempty"`
	Text string `json:"text"`
}

// Scan walks every string of the JSON document in data, object keys
// included, and decodes the ones shaped like base64. Decoded payloads
// holding JSON themselves are scanned recursively.
func Scan(data []byte) ([]Finding, error) {
	if !jsoniter.Valid(data) {
		return nil, errInvalidDocument
	}
	var findings []Finding
	walkValue(jsoniter.ParseBytes(jsoniter.ConfigDefault, data), "$", &findings)
	return findings, nil
}

func walkValue(iter *jsoniter.Iterator, path string, findings *[]Finding) {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		iter.ReadObjectCB(func(iter *jsoniter.Iterator, key string) bool {
			scanString(key, true, path, findings)
			walkValue(iter, path+"."+key, findings)
			return true
		})
	case jsoniter.ArrayValue:
		index := 0
		iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
			walkValue(iter, path+"["+strconv.Itoa(index)+"]", findings)
			index++
			return true
		})
	case jsoniter.StringValue:
		scanString(iter.ReadString(), false, path, findings)
	default:
		iter.Skip()
	}
}

func scanString(value string, key bool, path string, findings *[]Finding) {
	if !base64Pattern.MatchString(value) {
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		klog.V(5).InfoS("undecodable base64 candidate", "path", path, "err", err)
		return
	}
	*findings = append(*findings, Finding{
		Path: path,
		Key:  key,
		Text: strings.ToValidUTF8(string(decoded), "�"),
	})
	if len(decoded) != 0 && jsoniter.Valid(decoded) {
		walkValue(jsoniter.ParseBytes(jsoniter.ConfigDefault, decoded), path+" ∇ $", findings)
	}
}
