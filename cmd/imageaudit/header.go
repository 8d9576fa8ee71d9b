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
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/confidentsecurity/imageaudit/pkg/consts"
	"github.com/confidentsecurity/imageaudit/pkg/eventlog"
	"github.com/confidentsecurity/imageaudit/pkg/gpt"
	"github.com/confidentsecurity/imageaudit/pkg/utils"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type headerView struct {
	Signature              string `json:"signature"`
	Revision               string `json:"revision"`
	HeaderSize             uint32 `json:"headerSize"`
	CRC32                  uint32 `json:"crc32"`
	CurrentLBA             uint64 `json:"currentLBA"`
	BackupLBA              uint64 `json:"backupLBA"`
	FirstUsableLBA         uint64 `json:"firstUsableLBA"`
	LastUsableLBA          uint64 `json:"lastUsableLBA"`
	DiskGUID               string `json:"diskGUID"`
	PartitionEntryStartLBA uint64 `json:"partitionEntryStartLBA"`
	NumPartitionEntries    uint32 `json:"numPartitionEntries"`
	PartitionEntrySize     uint32 `json:"partitionEntrySize"`
	PartitionArrayCRC32    uint32 `json:"partitionArrayCRC32"`
	Digest                 string `json:"digest"`
}

var headerCmd = &cobra.Command{
	Use:           "header PAYLOAD",
	Short:         "Decode the GPT header of a payload",
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: strings.ReplaceAll(
		`# Decode the header of a hex dumped event payload
$ {TOOL_NAME} header event.hex

# Decode the header of a raw payload from the standard input
$ cat gpt.bin | {TOOL_NAME} header -

# Decode the header in YAML format
$ {TOOL_NAME} header event.hex -o yaml`,
		`{TOOL_NAME}`,
		consts.AppName,
	),
	Run: func(c *cobra.Command, args []string) {
		if len(args) != 1 {
			utils.Eprintf(quietFlag, true, "exactly one payload argument must be provided\n")
			os.Exit(-1)
		}
		headerMain(args[0])
	},
}

func init() {
	setFlagOpts(headerCmd)

	addOutputFormatFlag(headerCmd, "output format of the decoded header")
	addNoHeadersFlag(headerCmd)
}

func toHeaderView(header *gpt.Header, payload []byte) headerView {
	revision := binary.LittleEndian.Uint32(header.Revision[:])
	return headerView{
		Signature:              string(header.Signature[:]),
		Revision:               fmt.Sprintf("%v.%v", revision>>16, revision&0xFFFF),
		HeaderSize:             header.HeaderSize,
		CRC32:                  header.CRC32,
		CurrentLBA:             header.CurrentLBA,
		BackupLBA:              header.BackupLBA,
		FirstUsableLBA:         header.FirstUsableLBA,
		LastUsableLBA:          header.LastUsableLBA,
		DiskGUID:               header.DiskGUID,
		PartitionEntryStartLBA: header.PartitionEntryStartLBA,
		NumPartitionEntries:    header.NumPartitionEntries,
		PartitionEntrySize:     header.PartitionEntrySize,
		PartitionArrayCRC32:    header.PartitionArrayCRC32,
		Digest:                 eventlog.Digest(payload),
	}
}

func headerMain(arg string) {
	payload, err := readPayloadArg(arg)
	if err != nil {
		utils.Eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}

	header, err := gpt.DecodeHeader(payload)
	if err != nil {
		utils.Eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}

	view := toHeaderView(header, payload)
	switch outputFormat {
	case "json":
		if err := printJSON(view); err != nil {
			utils.Eprintf(quietFlag, true, "%v\n", err)
			os.Exit(1)
		}
	case "yaml":
		if err := printYAML(view); err != nil {
			utils.Eprintf(quietFlag, true, "%v\n", err)
			os.Exit(1)
		}
	default:
		writer := newTableWriter(
			table.Row{
				"FIELD",
				"VALUE",
			},
			nil,
			noHeaders,
		)
		writer.AppendRow([]interface{}{"Signature", view.Signature})
		writer.AppendRow([]interface{}{"Revision", view.Revision})
		writer.AppendRow([]interface{}{"Header Size", view.HeaderSize})
		writer.AppendRow([]interface{}{"Header CRC32", fmt.Sprintf("%#x", view.CRC32)})
		writer.AppendRow([]interface{}{"Current LBA", view.CurrentLBA})
		writer.AppendRow([]interface{}{"Backup LBA", view.BackupLBA})
		writer.AppendRow([]interface{}{"First Usable LBA", view.FirstUsableLBA})
		writer.AppendRow([]interface{}{"Last Usable LBA", view.LastUsableLBA})
		writer.AppendRow([]interface{}{"Disk GUID", view.DiskGUID})
		writer.AppendRow([]interface{}{"Entries Start LBA", view.PartitionEntryStartLBA})
		writer.AppendRow([]interface{}{"Entries", view.NumPartitionEntries})
		writer.AppendRow([]interface{}{"Entry Size", view.PartitionEntrySize})
		writer.AppendRow([]interface{}{"Entries CRC32", fmt.Sprintf("%#x", view.PartitionArrayCRC32)})
		writer.AppendRow([]interface{}{"Payload Digest", view.Digest})
		writer.Render()
	}
}
