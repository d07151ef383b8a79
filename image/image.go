// Package image inspects disk images before they are programmed into
// DataFlash storage.
package image

import (
	"fmt"
	"os"

	"github.com/diskfs/go-diskfs"
)

// Info summarizes a disk image's layout.
type Info struct {
	Path       string
	Size       int64
	SectorSize int
	Table      string // partition table type, empty when the image is raw
	Partitions int
}

func (i Info) String() string {
	if i.Table == "" {
		return fmt.Sprintf("%s: raw image, %d bytes", i.Path, i.Size)
	}
	return fmt.Sprintf("%s: %d bytes, %s table, %d partition(s)",
		i.Path, i.Size, i.Table, i.Partitions)
}

// Describe opens the image and reports its layout. An image without a
// partition table is still flashable; Table stays empty.
func Describe(path string) (Info, error) {
	d, err := diskfs.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("image: open %s: %w", path, err)
	}
	info := Info{
		Path:       path,
		Size:       d.Size,
		SectorSize: int(d.LogicalBlocksize),
	}
	table, err := d.GetPartitionTable()
	if err == nil && table != nil {
		info.Table = table.Type()
		info.Partitions = len(table.GetPartitions())
	}
	return info, nil
}

// Open returns the image file and its size after checking that it fits
// in capacity bytes. The caller closes the file.
func Open(path string, capacity int64) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("image: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("image: %w", err)
	}
	if st.Size() > capacity {
		f.Close()
		return nil, 0, fmt.Errorf("image: %s is %d bytes, exceeds the %d-byte device",
			path, st.Size(), capacity)
	}
	return f, st.Size(), nil
}
