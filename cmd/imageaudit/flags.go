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

	"github.com/confidentsecurity/imageaudit/pkg/consts"
	"github.com/spf13/cobra"
)

var (
	quietFlag    bool                              // --quiet flag
	outputFormat string                            // --output flag
	noHeaders    bool                              // --no-headers flag
	sectorSize   uint64 = consts.DefaultSectorSize // --sector-size flag
	nameArgs     []string                          // --name flag
	typeArgs     []string                          // --type flag
)

func addOutputFormatFlag(cmd *cobra.Command, usage string) {
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputFormat, fmt.Sprintf("%v; one of: json|yaml", usage))
}

func addNoHeadersFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&noHeaders, "no-headers", noHeaders, "when using the default output format, don't print headers (default print headers)")
}

func addSectorSizeFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Uint64Var(&sectorSize, "sector-size", sectorSize, "logical sector size for LBA calculations")
}

func addNameFlag(cmd *cobra.Command, usage string) {
	cmd.PersistentFlags().StringSliceVar(&nameArgs, "name", nameArgs, usage+"; supports glob pattern e.g. ROOT-*")
}

func addTypeFlag(cmd *cobra.Command, usage string) {
	cmd.PersistentFlags().StringSliceVar(&typeArgs, "type", typeArgs, usage+"; supports glob pattern e.g. *Linux*")
}

func setFlagOpts(cmd *cobra.Command) {
	cmd.Flags().SortFlags = false
	cmd.InheritedFlags().SortFlags = false
	cmd.LocalFlags().SortFlags = false
	cmd.LocalNonPersistentFlags().SortFlags = false
	cmd.NonInheritedFlags().SortFlags = false
	cmd.PersistentFlags().SortFlags = false
}
