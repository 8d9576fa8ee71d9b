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

package gpt

import "strings"

// TypeName returns the display name of a well-known partition type GUID,
// or an empty string for unknown types. Input case is ignored.
func TypeName(guid string) string {
	return partitionTypes[strings.ToLower(guid)]
}

// partitionTypes maps well-known partition type GUIDs, in canonical
// lowercase form, to display names. Names seen in boot images audited by
// this tool come first.
var partitionTypes = map[string]string{
	"c12a7328-f81f-11d2-ba4b-00a0c93ec93b": "EFI System",
	"21686148-6449-6e6f-744e-656564454649": "BIOS boot",
	"024dee41-33e7-11d3-9d69-0008c781f39f": "MBR partition scheme",
	"fe3a2a5d-4f32-41a7-b725-accc3285a309": "ChromeOS kernel",
	"3cb8e202-3b7e-47dd-8a3c-7ff2a13cfcec": "ChromeOS rootfs",
	"2e0a753d-9e48-43b0-8337-b15192cb1b5e": "ChromeOS future use",
	"0fc63daf-8483-4772-8e79-3d69d8477de4": "Linux filesystem data",
	"44479540-f297-41b2-9af7-d131d5f0458a": "Linux root (x86)",
	"4f68bce3-e8cd-4db1-96e7-fbcaf984b709": "Linux root (x86-64)",
	"69dad710-2ce4-4e3c-b16c-21a1d49abed3": "Linux root (32-bit ARM)",
	"b921b045-1df0-41c3-af44-4c6f280d3fae": "Linux root (64-bit ARM)",
	"bc13c2ff-59e6-4262-a352-b275fd6f7172": "Linux /boot",
	"933ac7e1-2eb4-4f13-b844-0e14e2aef915": "Linux /home",
	"3b8f8425-20e0-4f3b-907f-1a25a76f98e8": "Linux /srv",
	"0657fd6d-a4ab-43c4-84e5-0933c84b4f4f": "Linux swap",
	"e6d6d379-f507-44c2-a23c-238f2a3df928": "Linux LVM",
	"a19d880f-05fc-4d3b-a006-743f0f84911e": "Linux RAID",
	"7ffec5c9-2d00-49b7-8941-3ea10a5586b7": "Linux plain dm-crypt",
	"ca7d7ccb-63ed-4c53-861c-1742536059cc": "Linux LUKS",
	"8da63339-0007-60c0-c436-083ac8230908": "Linux reserved",
	"e3c9e316-0b5c-4db8-817d-f92df00215ae": "Microsoft reserved",
	"ebd0a0a2-b9e5-4433-87c0-68b6b72699c7": "Microsoft basic data",
	"5808c8aa-7e8f-42e0-85d2-e1e90434cfb3": "Microsoft LDM metadata",
	"af9b60a0-1431-4f62-bc68-3311714a69ad": "Microsoft LDM data",
	"de94bba4-06d1-4d40-a16a-bfd50179d6ac": "Windows Recovery Environment",
	"d3bfe2de-3daf-11df-ba40-e3a556d89593": "Intel Fast Flash",
	"83bd6b9d-7f41-11dc-be0b-001560b84f0f": "FreeBSD boot",
	"516e7cb4-6ecf-11d6-8ff8-00022d09712b": "FreeBSD data",
	"516e7cb5-6ecf-11d6-8ff8-00022d09712b": "FreeBSD swap",
	"516e7cb6-6ecf-11d6-8ff8-00022d09712b": "FreeBSD UFS",
	"516e7cba-6ecf-11d6-8ff8-00022d09712b": "FreeBSD ZFS",
	"48465300-0000-11aa-aa11-00306543ecac": "Apple HFS+",
	"7c3457ef-0000-11aa-aa11-00306543ecac": "Apple APFS",
	"55465300-0000-11aa-aa11-00306543ecac": "Apple UFS",
	"426f6f74-0000-11aa-aa11-00306543ecac": "Apple boot",
	"6a82cb45-1dd2-11b2-99a6-080020736631": "Solaris boot",
	"6a85cf4d-1dd2-11b2-99a6-080020736631": "Solaris root",
	"49f48d32-b10e-11dc-b99b-0019d1879648": "NetBSD swap",
	"49f48d5a-b10e-11dc-b99b-0019d1879648": "NetBSD FFS",
	"824cc7a0-36a8-11e3-890a-952519ad3f61": "OpenBSD data",
	"42465331-3ba3-10f1-802a-4861696b7521": "Haiku BFS",
	"cef5a9ad-73bc-4601-89f3-cdeeeee321a1": "QNX6 power-safe",
	"aa31e02a-400f-11db-9590-000c2911d1b8": "VMware VMFS",
	"9d275380-40ad-11db-bf97-000c2911d1b8": "VMware vmkcore",
	"9198effc-31c0-11db-8f78-000c2911d1b8": "VMware reserved",
	"4fbd7e29-9d25-41b8-afd0-062c0ceff05d": "Ceph OSD",
}
