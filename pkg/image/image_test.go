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

package image_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lassandro/gotc/pkg/image"
)

var _ = Describe("Image", func() {
	var img *image.Image

	BeforeEach(func() {
		img = &image.Image{}
	})

	Describe("Place", func() {
		It("should fill cells from the cursor upward", func() {
			addr, err := img.Place(0x500005)
			Expect(err).NotTo(HaveOccurred())
			Expect(addr).To(Equal(0))

			addr, err = img.Place(0xA00000)
			Expect(err).NotTo(HaveOccurred())
			Expect(addr).To(Equal(1))

			Expect(img.Cursor).To(Equal(2))
			Expect(img.Cells[0].String()).To(Equal("500005"))
			Expect(img.Cells[1].String()).To(Equal("a00000"))
		})

		It("should accept exactly 64 words", func() {
			for i := 0; i < image.IMAGE_SIZE; i++ {
				_, err := img.Place(0)
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(img.Filled()).To(Equal(image.IMAGE_SIZE))
		})

		It("should reject the 65th word", func() {
			for i := 0; i < image.IMAGE_SIZE; i++ {
				img.Place(0)
			}

			_, err := img.Place(0)
			Expect(err).To(BeAssignableToTypeOf(&image.OverflowError{}))
			Expect(img.Cursor).To(Equal(image.IMAGE_SIZE))
		})
	})

	Describe("Store", func() {
		It("should write unpadded data without moving the cursor", func() {
			Expect(img.Store(10, 42)).To(Succeed())
			Expect(img.Cursor).To(Equal(0))
			Expect(img.Cells[10].String()).To(Equal("2a"))
		})

		It("should not be blocked by a full cursor", func() {
			for i := 0; i < image.IMAGE_SIZE; i++ {
				img.Place(0)
			}

			Expect(img.Store(63, 1)).To(Succeed())
			Expect(img.Cells[63].String()).To(Equal("1"))
		})

		It("should reject addresses outside the image", func() {
			err := img.Store(64, 1)
			Expect(err).To(BeAssignableToTypeOf(&image.RangeError{}))

			err = img.Store(-1, 1)
			Expect(err).To(BeAssignableToTypeOf(&image.RangeError{}))

			Expect(img.Filled()).To(Equal(0))
		})

		It("should be overwritten by a later placement", func() {
			Expect(img.Store(0, 7)).To(Succeed())
			img.Place(0x200001)

			Expect(img.Cells[0].String()).To(Equal("200001"))
		})
	})

	Describe("Serialize", func() {
		It("should compress an empty image into a single run", func() {
			Expect(img.Serialize()).To(Equal("v2.0 raw\n64*0 "))
		})

		It("should compress leading, inner and trailing runs", func() {
			img.Place(0x500005)
			img.Store(3, 255)
			img.Store(63, 0)

			Expect(img.Serialize()).To(Equal(
				"v2.0 raw\n500005 2*0 ff 59*0 0 ",
			))
		})

		It("should emit a full image without any run", func() {
			for i := 0; i < image.IMAGE_SIZE; i++ {
				img.Place(uint64(i))
			}

			text := img.Serialize()
			Expect(text).NotTo(ContainSubstring("*"))
			Expect(strings.Fields(text)).To(HaveLen(image.IMAGE_SIZE + 2))
			Expect(text).To(HaveSuffix("00003f "))
		})

		It("should match WriteTo", func() {
			img.Place(0xA00000)

			var buffer bytes.Buffer
			n, err := img.WriteTo(&buffer)

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(buffer.Len())))
			Expect(buffer.String()).To(Equal(img.Serialize()))
		})
	})

	Describe("Decode", func() {
		It("should read back a serialized image", func() {
			img.Place(0x500005)
			img.Place(0x100006)
			img.Store(20, 0x2A)
			img.Store(21, 0)

			decoded, err := image.Decode(strings.NewReader(img.Serialize()))

			Expect(err).NotTo(HaveOccurred())
			Expect(decoded.Serialize()).To(Equal(img.Serialize()))
			Expect(decoded.Filled()).To(Equal(4))
		})

		It("should expand non-zero runs", func() {
			decoded, err := image.Decode(strings.NewReader("v2.0 raw\n3*ff 1"))

			Expect(err).NotTo(HaveOccurred())
			Expect(decoded.Cells[2].String()).To(Equal("ff"))
			Expect(decoded.Cells[3].String()).To(Equal("1"))
			Expect(decoded.Filled()).To(Equal(4))
		})

		It("should reject a missing header", func() {
			_, err := image.Decode(strings.NewReader("500005 63*0 "))
			Expect(err).To(BeAssignableToTypeOf(&image.InvalidHeaderError{}))
		})

		It("should reject malformed tokens", func() {
			_, err := image.Decode(strings.NewReader("v2.0 raw\n5000zz"))
			Expect(err).To(BeAssignableToTypeOf(&image.InvalidTokenError{}))

			_, err = image.Decode(strings.NewReader("v2.0 raw\n0*0"))
			Expect(err).To(BeAssignableToTypeOf(&image.InvalidTokenError{}))
		})

		It("should reject more than 64 cells", func() {
			_, err := image.Decode(strings.NewReader("v2.0 raw\n64*0 1"))
			Expect(err).To(BeAssignableToTypeOf(&image.OversizedImageError{}))
		})
	})

	Describe("WriteFile", func() {
		var dir string

		BeforeEach(func() {
			var err error
			dir, err = os.MkdirTemp("", "gotc-image")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(os.RemoveAll, dir)
		})

		It("should write the serialized image", func() {
			img.Place(0xA00000)
			path := filepath.Join(dir, "instruction.img")

			Expect(image.WriteFile(path, img)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("v2.0 raw\na00000 63*0 "))

			entries, err := os.ReadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})

		It("should replace an existing file", func() {
			path := filepath.Join(dir, "instruction.img")
			Expect(os.WriteFile(path, []byte("stale contents"), 0644)).To(Succeed())

			Expect(image.WriteFile(path, img)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("v2.0 raw\n64*0 "))
		})

		It("should leave nothing behind when the destination is unwritable", func() {
			path := filepath.Join(dir, "missing", "instruction.img")

			Expect(image.WriteFile(path, img)).NotTo(Succeed())

			entries, err := os.ReadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})

		It("should clean up and keep the destination when the rename fails", func() {
			img.Place(0xA00000)
			path := filepath.Join(dir, "instruction.img")
			Expect(os.Mkdir(path, 0755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(path, "keep"), []byte("keep"), 0644)).To(Succeed())

			Expect(image.WriteFile(path, img)).NotTo(Succeed())

			entries, err := os.ReadDir(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Name()).To(Equal("instruction.img"))
			Expect(entries[0].IsDir()).To(BeTrue())

			data, err := os.ReadFile(filepath.Join(path, "keep"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("keep"))
		})
	})
})
