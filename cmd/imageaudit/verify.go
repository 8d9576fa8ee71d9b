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

	"github.com/confidentsecurity/imageaudit/pkg/audit"
	"github.com/confidentsecurity/imageaudit/pkg/consts"
	"github.com/confidentsecurity/imageaudit/pkg/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var expectedFile = getDefaultExpectationsFile() // --expected flag

var verifyCmd = &cobra.Command{
	Use:           "verify PAYLOAD",
	Short:         "Audit a payload against an expectation document",
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: strings.ReplaceAll(
		`# Audit a hex dumped event payload
$ {TOOL_NAME} verify event.hex

# Audit a raw payload against a golden expectation document
$ cat gpt.bin | {TOOL_NAME} verify - --expected=golden.yaml

# Audit a payload and print the report in JSON format
$ {TOOL_NAME} verify event.hex -o json`,
		`{TOOL_NAME}`,
		consts.AppName,
	),
	Run: func(c *cobra.Command, args []string) {
		if len(args) != 1 {
			utils.Eprintf(quietFlag, true, "exactly one payload argument must be provided\n")
			os.Exit(-1)
		}
		verifyMain(args[0])
	},
}

func init() {
	setFlagOpts(verifyCmd)

	addOutputFormatFlag(verifyCmd, "output format of the audit report")
	addSectorSizeFlag(verifyCmd)
	verifyCmd.PersistentFlags().StringVar(&expectedFile, "expected", expectedFile, "path to the expectation document")
}

func verifyMain(arg string) {
	payload, err := readPayloadArg(arg)
	if err != nil {
		utils.Eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}

	expectation, err := audit.LoadExpectation(expectedFile)
	if err != nil {
		utils.Eprintf(quietFlag, true, "unable to load expectation document; %v\n", err)
		os.Exit(1)
	}

	report, err := audit.Verify(payload, expectation, sectorSize)
	if err != nil {
		utils.Eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}

	switch outputFormat {
	case "json":
		if err := printJSON(report); err != nil {
			utils.Eprintf(quietFlag, true, "%v\n", err)
			os.Exit(1)
		}
	case "yaml":
		if err := printYAML(report); err != nil {
			utils.Eprintf(quietFlag, true, "%v\n", err)
			os.Exit(1)
		}
	default:
		if report.Ok() {
			fmt.Printf("%v disk %v; %v partitions, digest %v\n", color.HiGreenString("PASS"), report.DiskGUID, report.Partitions, report.Digest)
		} else {
			for _, failure := range report.Failures {
				fmt.Printf("%v %v\n", dot, failure)
			}
			fmt.Printf("%v disk %v; %v check(s) failed\n", color.HiRedString("FAIL"), report.DiskGUID, len(report.Failures))
		}
	}

	if !report.Ok() {
		os.Exit(2)
	}
}
