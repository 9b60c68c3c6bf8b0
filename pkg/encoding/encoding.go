// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package encoding

import (
	"strconv"
	"strings"
)

// Decodes a base-10 string in the formats: 123, +123, -123
func DecodeInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// Decodes a bare hexidecimal string in the formats: FFFFFF, ff, 0
// Prefixed (0x) and signed forms are rejected.
func DecodeHex(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}

// Renders value as lowercase hex, zero-padded to at least width digits.
// A width of zero renders the value unpadded.
func EncodeHex(value uint64, width int) string {
	s := strconv.FormatUint(value, 16)

	if pad := width - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}

	return s
}
