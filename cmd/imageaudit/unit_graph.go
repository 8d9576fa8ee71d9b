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
	"os"
	"strings"

	"github.com/confidentsecurity/imageaudit/pkg/consts"
	"github.com/confidentsecurity/imageaudit/pkg/unitgraph"
	"github.com/confidentsecurity/imageaudit/pkg/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var graphFile string // --output-file flag

type graphSummary struct {
	Units      int      `json:"units"`
	Nodes      int      `json:"nodes"`
	Edges      int      `json:"edges"`
	ShellUnits []string `json:"shellUnits,omitempty"`
}

var unitGraphCmd = &cobra.Command{
	Use:           "unit-graph DIR",
	Short:         "Graph systemd service dependencies of an image tree",
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: strings.ReplaceAll(
		`# Graph the system unit directory of a mounted image
$ {TOOL_NAME} unit-graph /mnt/image/etc/systemd/system

# Write the DOT graph to a file
$ {TOOL_NAME} unit-graph /mnt/image/etc/systemd/system --output-file=units.dot

# Print the graph summary in JSON format
$ {TOOL_NAME} unit-graph /mnt/image/etc/systemd/system -o json`,
		`{TOOL_NAME}`,
		consts.AppName,
	),
	Run: func(c *cobra.Command, args []string) {
		if len(args) != 1 {
			utils.Eprintf(quietFlag, true, "exactly one unit directory argument must be provided\n")
			os.Exit(-1)
		}
		unitGraphMain(args[0])
	},
}

func init() {
	setFlagOpts(unitGraphCmd)

	addOutputFormatFlag(unitGraphCmd, "output format of the graph summary")
	unitGraphCmd.PersistentFlags().StringVar(&graphFile, "output-file", graphFile, "output file to write the DOT graph (default standard output)")
}

func unitGraphMain(arg string) {
	g, err := unitgraph.Build(arg)
	if err != nil {
		utils.Eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}

	for _, unit := range g.ShellUnits() {
		utils.Eprintf(quietFlag, false, "%v\n", color.HiYellowString("%v requires a shell", unit))
	}

	switch outputFormat {
	case "json":
		if err := printJSON(graphSummary{Units: g.Units(), Nodes: g.Nodes(), Edges: g.Edges(), ShellUnits: g.ShellUnits()}); err != nil {
			utils.Eprintf(quietFlag, true, "%v\n", err)
			os.Exit(1)
		}
	case "yaml":
		if err := printYAML(graphSummary{Units: g.Units(), Nodes: g.Nodes(), Edges: g.Edges(), ShellUnits: g.ShellUnits()}); err != nil {
			utils.Eprintf(quietFlag, true, "%v\n", err)
			os.Exit(1)
		}
	default:
		data, err := g.DOT()
		if err != nil {
			utils.Eprintf(quietFlag, true, "%v\n", err)
			os.Exit(1)
		}
		if graphFile == "" || graphFile == "-" {
			fmt.Print(string(data))
			return
		}
		if err := os.WriteFile(graphFile, data, 0o644); err != nil {
			utils.Eprintf(quietFlag, true, "unable to write DOT graph; %v\n", err)
			os.Exit(1)
		}
		if !quietFlag {
			color.HiGreen("Generated '%s' successfully.", graphFile)
		}
	}
}
