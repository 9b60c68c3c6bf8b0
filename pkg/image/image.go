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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lassandro/gotc/pkg/encoding"
)

// Writes word at the cursor and advances it.
func (img *Image) Place(word uint64) (int, error) {
	if img.Cursor >= IMAGE_SIZE {
		return 0, &OverflowError{IMAGE_SIZE}
	}

	addr := img.Cursor
	img.Cells[addr] = Cell{Value: word, Width: WIDTH_PROGRAM, Set: true}
	img.Cursor++

	return addr, nil
}

// Writes value directly at addr. The cursor is neither consulted nor moved.
func (img *Image) Store(addr int64, value uint64) error {
	if addr < 0 || addr >= IMAGE_SIZE {
		return &RangeError{IMAGE_SIZE, addr}
	}

	img.Cells[addr] = Cell{Value: value, Width: WIDTH_DATA, Set: true}

	return nil
}

func (img *Image) Filled() int {
	count := 0

	for _, cell := range img.Cells {
		if cell.Set {
			count++
		}
	}

	return count
}

func (img *Image) Serialize() string {
	var builder strings.Builder

	builder.WriteString(HEADER)
	builder.WriteByte('\n')

	empty := 0

	for _, cell := range img.Cells {
		if !cell.Set {
			empty++
			continue
		}

		if empty > 0 {
			builder.WriteString(strconv.Itoa(empty) + "*0 ")
			empty = 0
		}

		builder.WriteString(cell.String())
		builder.WriteByte(' ')
	}

	if empty > 0 {
		builder.WriteString(strconv.Itoa(empty) + "*0 ")
	}

	return builder.String()
}

func (img *Image) WriteTo(writer io.Writer) (int64, error) {
	n, err := io.WriteString(writer, img.Serialize())
	return int64(n), err
}

// Writes the serialized image to path. The image is rendered in memory and
// written to a temporary file in the same directory, which is renamed over
// path only once it has been fully written and synced.
func WriteFile(path string, img *Image) (err error) {
	data := img.Serialize()

	file, err := os.CreateTemp(
		filepath.Dir(path), "."+filepath.Base(path)+".*",
	)

	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	defer func() {
		if err != nil {
			file.Close()
			os.Remove(file.Name())
		}
	}()

	if _, err = file.WriteString(data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err = file.Chmod(0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err = file.Sync(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err = os.Rename(file.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

// Reads a "v2.0 raw" image. Runs of the form N*V are expanded, a run of
// zeroes leaving its cells empty. Missing trailing cells are left empty.
func Decode(reader io.Reader) (*Image, error) {
	var img Image

	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanWords)

	header := make([]string, 0, 2)

	for len(header) < 2 && scanner.Scan() {
		header = append(header, scanner.Text())
	}

	if have := strings.Join(header, " "); have != HEADER {
		if err := scanner.Err(); err != nil {
			return nil, err
		}

		return nil, &InvalidHeaderError{have}
	}

	index := 0

	for scanner.Scan() {
		token := scanner.Text()

		count := int64(1)
		value := token

		if i := strings.IndexByte(token, '*'); i != -1 {
			var err error

			if count, err = encoding.DecodeInt(token[:i]); err != nil || count < 1 {
				return nil, &InvalidTokenError{index, token}
			}

			value = token[i+1:]
		}

		word, err := encoding.DecodeHex(value)

		if err != nil {
			return nil, &InvalidTokenError{index, token}
		}

		if count > int64(IMAGE_SIZE-index) {
			return nil, &OversizedImageError{index + int(count)}
		}

		for i := int64(0); i < count; i++ {
			if word != 0 || value == token {
				img.Cells[index] = Cell{Value: word, Width: len(value), Set: true}
			}

			index++
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &img, nil
}
