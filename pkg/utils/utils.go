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

package utils

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Eprintf prints the message to the standard error. Error messages are
// prefixed with a red ERROR tag. Quiet mode suppresses all output.
func Eprintf(quiet, asErr bool, format string, args ...interface{}) {
	if quiet {
		return
	}
	if asErr {
		fmt.Fprintf(os.Stderr, "%v ", color.HiRedString("ERROR"))
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
