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
	"os"
	"strings"

	"github.com/confidentsecurity/imageaudit/pkg/audit"
	"github.com/confidentsecurity/imageaudit/pkg/consts"
	"github.com/confidentsecurity/imageaudit/pkg/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var outputFile = consts.ExpectationsFile // --output-file flag

var expectCmd = &cobra.Command{
	Use:           "expect PAYLOAD",
	Short:         "Capture an expectation document from a known-good payload",
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: strings.ReplaceAll(
		`# Capture an expectation document from a golden image payload
$ {TOOL_NAME} expect event.hex

# Capture an expectation document to a custom file
$ {TOOL_NAME} expect event.hex --output-file=golden.yaml

# Write the expectation document to the standard output
$ {TOOL_NAME} expect event.hex --output-file=-`,
		`{TOOL_NAME}`,
		consts.AppName,
	),
	Run: func(c *cobra.Command, args []string) {
		if len(args) != 1 {
			utils.Eprintf(quietFlag, true, "exactly one payload argument must be provided\n")
			os.Exit(-1)
		}
		expectMain(args[0])
	},
}

func init() {
	setFlagOpts(expectCmd)

	addSectorSizeFlag(expectCmd)
	expectCmd.PersistentFlags().StringVar(&outputFile, "output-file", outputFile, "output file to write the expectation document")
}

func writeExpectation(expectation *audit.Expectation) error {
	if outputFile == "-" {
		return expectation.Write(os.Stdout)
	}
	f, err := os.OpenFile(outputFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return expectation.Write(f)
}

func expectMain(arg string) {
	payload, err := readPayloadArg(arg)
	if err != nil {
		utils.Eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}

	expectation, err := audit.FromPayload(payload, sectorSize)
	if err != nil {
		utils.Eprintf(quietFlag, true, "%v\n", err)
		os.Exit(1)
	}

	if err := writeExpectation(expectation); err != nil {
		utils.Eprintf(quietFlag, true, "unable to write expectation document; %v\n", err)
		os.Exit(1)
	}

	if outputFile != "-" && !quietFlag {
		color.HiGreen("Generated '%s' successfully.", outputFile)
	}
}
