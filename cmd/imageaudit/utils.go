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

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/confidentsecurity/imageaudit/pkg/consts"
	"github.com/confidentsecurity/imageaudit/pkg/eventlog"
	"github.com/confidentsecurity/imageaudit/pkg/utils"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mb0/glob"
	"github.com/mitchellh/go-homedir"
)

const dot = "•"

func printYAML(obj interface{}) error {
	y, err := utils.ToYAML(obj)
	if err != nil {
		return err
	}
	fmt.Println(y)
	return nil
}

func printJSON(obj interface{}) error {
	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal object; %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printableString(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printableBytes(value int64) string {
	if value == 0 {
		return "-"
	}

	return humanize.IBytes(uint64(value))
}

func globMatch(value string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if matched, _ := glob.Match(pattern, value); matched {
			return true
		}
	}
	return false
}

func getDefaultExpectationsFile() string {
	homeDir, err := homedir.Dir()
	if err != nil {
		return consts.ExpectationsFile
	}
	return path.Join(homeDir, consts.ConfigRootDir, consts.ExpectationsFile)
}

func readPayloadArg(arg string) ([]byte, error) {
	payload, err := eventlog.ReadPayload(arg)
	if err != nil {
		return nil, fmt.Errorf("unable to read payload %v; %w", arg, err)
	}
	return payload, nil
}

func newTableWriter(header table.Row, sortBy []table.SortBy, noHeaders bool) table.Writer {
	writer := table.NewWriter()
	writer.SetOutputMirror(os.Stdout)
	writer.AppendHeader(header)
	writer.SortBy(sortBy)
	if noHeaders {
		writer.ResetHeaders()
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	style.Options.SeparateColumns = false
	style.Options.SeparateFooter = false
	style.Options.SeparateHeader = false
	style.Options.SeparateRows = false
	writer.SetStyle(style)
	return writer
}
