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

package consts

const (
	// AppName denotes application/tool name
	AppName = "imageaudit"

	// AppPrettyName denotes application/tool pretty name
	AppPrettyName = "ImageAudit"

	// AppCapsName denotes application/tool name in capital letters.
	AppCapsName = "IMAGEAUDIT"

	// ConfigRootDir is configuration root directory under the user home.
	ConfigRootDir = "." + AppName

	// ExpectationsFile is default expectation document file name.
	ExpectationsFile = "expectations.yaml"

	// DefaultSectorSize is default logical sector size for LBA math.
	DefaultSectorSize = 512
)
