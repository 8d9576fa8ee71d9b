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

	"github.com/confidentsecurity/imageaudit/pkg/b64scan"
	"github.com/confidentsecurity/imageaudit/pkg/consts"
	"github.com/confidentsecurity/imageaudit/pkg/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var scanB64Cmd = &cobra.Command{
	Use:           "scan-b64 FILE",
	Short:         "Decode base64 payloads hidden in a JSON document",
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: strings.ReplaceAll(
		`# Scan a measured boot report for embedded base64 payloads
$ {TOOL_NAME} scan-b64 report.json

# Scan a JSON document from the standard input
$ cat report.json | {TOOL_NAME} scan-b64 -

# Print the findings in JSON format
$ {TOOL_NAME} scan-b64 report.json -o json`,
		`{TOOL_NAME}`,
		consts.AppName,
	),
	Run: func(c *cobra.Command, args []string) {
		if len(args) != 1 {
			utils.Eprintf(quietFlag, true, "exactly one file argument must be provided\n")
			os.Exit(-1)
		}
		scanB64Main(args[0])
	},
}

func init() {
	setFlagOpts(scanB64Cmd)

	addOutputFormatFlag(scanB64Cmd, "output format of the findings")
}

func scanB64Main(arg string) {
	var data []byte
	var err error
	if arg == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(arg)
	}
	if err != nil {
		utils.Eprintf(quietFlag, true, "unable to read document %v; %v\n", arg, err)
		os.Exit(1)
	}

	findings, err := b64scan.Scan(data)
	if err != nil {
		utils.Eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}

	switch outputFormat {
	case "json":
		if err := printJSON(findings); err != nil {
			utils.Eprintf(quietFlag, true, "%v\n", err)
			os.Exit(1)
		}
	case "yaml":
		if err := printYAML(findings); err != nil {
			utils.Eprintf(quietFlag, true, "%v\n", err)
			os.Exit(1)
		}
	default:
		if len(findings) == 0 {
			utils.Eprintf(false, false, "%v\n", color.HiYellowString("No base64 payloads found"))
			return
		}
		for _, finding := range findings {
			fmt.Printf("----- BEGIN %v key=%v -----\n", finding.Path, finding.Key)
			fmt.Println(finding.Text)
			fmt.Printf("----- END   %v key=%v -----\n", finding.Path, finding.Key)
		}
	}
}
