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

package image

import (
	"fmt"

	"github.com/lassandro/gotc/pkg/encoding"
)

type Cell struct {
	Value uint64
	Width int
	Set   bool
}

func (cell Cell) String() string {
	if !cell.Set {
		return ""
	}

	return encoding.EncodeHex(cell.Value, cell.Width)
}

// Image is the 64 word memory of the machine. Program words fill it from
// Cursor upward, data words are stored at explicit addresses.
type Image struct {
	Cells  [IMAGE_SIZE]Cell
	Cursor int
}

type OverflowError struct {
	Size int
}

func (err *OverflowError) Error() string {
	return fmt.Sprintf("Program exceeds image size of %d words", err.Size)
}

type RangeError struct {
	Size     int
	Received int64
}

func (err *RangeError) Error() string {
	return fmt.Sprintf(
		"Address out of range\n\twant:0-%d\n\thave:%d",
		err.Size-1,
		err.Received,
	)
}

type InvalidHeaderError struct {
	Received string
}

func (err *InvalidHeaderError) Error() string {
	return fmt.Sprintf(
		"Invalid image header\n\twant:%s\n\thave:%s",
		HEADER,
		err.Received,
	)
}

type InvalidTokenError struct {
	Index    int
	Received string
}

func (err *InvalidTokenError) Error() string {
	return fmt.Sprintf(
		"Invalid image token '%s' at word %d",
		err.Received,
		err.Index,
	)
}

type OversizedImageError struct {
	Received int
}

func (err *OversizedImageError) Error() string {
	return fmt.Sprintf(
		"Image exceeds allowed size\n\twant:%d\n\thave:%d",
		IMAGE_SIZE,
		err.Received,
	)
}
