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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/confidentsecurity/imageaudit/pkg/consts"
	"github.com/confidentsecurity/imageaudit/pkg/gpt"
	"github.com/confidentsecurity/imageaudit/pkg/utils"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type partitionView struct {
	Index      int    `json:"index"`
	Name       string `json:"name,omitempty"`
	Type       string `json:"type,omitempty"`
	TypeGUID   string `json:"typeGUID"`
	UniqueGUID string `json:"uniqueGUID"`
	FirstLBA   uint64 `json:"firstLBA"`
	LastLBA    uint64 `json:"lastLBA"`
	Size       uint64 `json:"size"`
	Flags      uint64 `json:"flags"`
}

var partitionsCmd = &cobra.Command{
	Use:           "partitions PAYLOAD",
	Short:         "List partition entries of a payload",
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: strings.ReplaceAll(
		`# List all partition entries
$ {TOOL_NAME} partitions event.hex

# List partition entries of a 4K sector image
$ {TOOL_NAME} partitions event.hex --sector-size=4096

# List EFI system partitions by type name
$ {TOOL_NAME} partitions event.hex --type='EFI*'

# List partitions by name in JSON format
$ {TOOL_NAME} partitions event.hex --name='ROOT-*' -o json`,
		`{TOOL_NAME}`,
		consts.AppName,
	),
	Run: func(c *cobra.Command, args []string) {
		if len(args) != 1 {
			utils.Eprintf(quietFlag, true, "exactly one payload argument must be provided\n")
			os.Exit(-1)
		}
		partitionsMain(args[0])
	},
}

func init() {
	setFlagOpts(partitionsCmd)

	addOutputFormatFlag(partitionsCmd, "output format of the partition list")
	addNoHeadersFlag(partitionsCmd)
	addSectorSizeFlag(partitionsCmd)
	addNameFlag(partitionsCmd, "Filter output by partition names")
	addTypeFlag(partitionsCmd, "Filter output by partition type names or type GUIDs")
}

func toPartitionView(partition *gpt.Partition, sectorSize uint64) partitionView {
	var size uint64
	if partition.LastLBA >= partition.FirstLBA {
		size = (partition.LastLBA - partition.FirstLBA + 1) * sectorSize
	}
	return partitionView{
		Index:      partition.Index,
		Name:       partition.Name,
		Type:       gpt.TypeName(partition.TypeGUID),
		TypeGUID:   partition.TypeGUID,
		UniqueGUID: partition.UniqueGUID,
		FirstLBA:   partition.FirstLBA,
		LastLBA:    partition.LastLBA,
		Size:       size,
		Flags:      partition.Flags,
	}
}

func listPartitions(payload []byte) ([]partitionView, error) {
	header, err := gpt.DecodeHeader(payload)
	if err != nil {
		return nil, err
	}

	var views []partitionView
	it := gpt.IteratePartitions(payload, header, sectorSize)
	for {
		partition, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		view := toPartitionView(partition, sectorSize)
		if !globMatch(view.Name, nameArgs) {
			continue
		}
		if len(typeArgs) != 0 && !globMatch(view.Type, typeArgs) && !globMatch(view.TypeGUID, typeArgs) {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

func partitionsMain(arg string) {
	payload, err := readPayloadArg(arg)
	if err != nil {
		utils.Eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}

	views, err := listPartitions(payload)
	if err != nil {
		utils.Eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}

	switch outputFormat {
	case "json":
		if err := printJSON(views); err != nil {
			utils.Eprintf(quietFlag, true, "%v\n", err)
			os.Exit(1)
		}
	case "yaml":
		if err := printYAML(views); err != nil {
			utils.Eprintf(quietFlag, true, "%v\n", err)
			os.Exit(1)
		}
	default:
		writer := newTableWriter(
			table.Row{
				"INDEX",
				"NAME",
				"TYPE",
				"FIRST LBA",
				"LAST LBA",
				"SIZE",
				"FLAGS",
			},
			[]table.SortBy{
				{
					Name: "INDEX",
					Mode: table.AscNumeric,
				},
			},
			noHeaders,
		)

		for _, view := range views {
			typeValue := view.Type
			if typeValue == "" {
				typeValue = view.TypeGUID
			}
			writer.AppendRow(
				[]interface{}{
					view.Index,
					printableString(view.Name),
					typeValue,
					view.FirstLBA,
					view.LastLBA,
					printableBytes(int64(view.Size)),
					fmt.Sprintf("%#x", view.Flags),
				},
			)
		}

		if writer.Length() > 0 {
			writer.Render()
		} else {
			utils.Eprintf(false, false, "%v\n", color.HiYellowString("No partition entries found"))
		}
	}
}
