// Package vfs exports the tracks of a disc into a FAT32 disk image, so they
// can be browsed on any machine: audio tracks become WAV files and the data
// track an ISO of its 2048-byte sectors.
package vfs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/diskfs/go-diskfs/filesystem/fat32"
	"github.com/diskfs/go-diskfs/partition/mbr"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rabidaudio/megacd/cdreader"
	"github.com/rabidaudio/megacd/disc"
	"github.com/sirupsen/logrus"
)

// DiskSize fits a full 80 minute disc.
const DiskSize = 800 * fat32.MB
const SECTOR_SIZE = 512

// wavHeaderSize is the size of the canonical header written by the encoder.
const wavHeaderSize = 44

// frames pulled from the reader at a time: one second of audio
const chunkFrames = disc.SampleRate

// Filesystem is a FAT32 disk image holding the tracks of a disc.
type Filesystem struct {
	Path   string
	Logger logrus.FieldLogger

	fs      filesystem.FileSystem
	dir     string
	files   []string
	closefn func() error
}

// sanitizeName takes a file name and converts it to DOS format
// by uppercasing, limiting to ASCII letters, and triming to 8 chars
func sanitizeName(name string) string {
	// https://en.wikipedia.org/wiki/8.3_filename
	newName := make([]rune, 0, 8)
	for _, r := range strings.ToUpper(name) {
		if len(newName) == 8 {
			break
		}
		if r >= 'A' && r <= 'Z' {
			newName = append(newName, r)
		}
	}
	return string(newName)
}

// TrackSize returns the size of the file a track is exported to.
func TrackSize(t disc.TrackInfo) int64 {
	if t.Type == disc.Audio {
		return int64(t.Frames)*disc.BytesPerFrame + wavHeaderSize
	}
	return int64(t.Sectors) * disc.SectorSize
}

// Create a new filesystem of the given size in bytes. Data is backed by a
// temporary file. Be sure to Close() the Filesystem after use.
func Create(size int64) (*Filesystem, error) {
	// Setup a file in the tmp directory to be a virtual filesystem
	tmpdir, err := os.MkdirTemp("", "megacd")
	if err != nil {
		return nil, err
	}
	dskimg := filepath.Join(tmpdir, "disk.img")
	dsk, err := diskfs.Create(dskimg, size, diskfs.SectorSizeDefault)
	if err != nil {
		os.RemoveAll(tmpdir)
		return nil, err
	}

	// create an MBR with one partition
	table := &mbr.Table{
		LogicalSectorSize:  SECTOR_SIZE,
		PhysicalSectorSize: SECTOR_SIZE,
		Partitions: []*mbr.Partition{
			{
				Bootable: false,
				Type:     mbr.Fat32LBA,
				Start:    0,
				Size:     uint32(size / SECTOR_SIZE),
			},
		},
	}
	err = dsk.Partition(table)
	if err != nil {
		defer os.RemoveAll(tmpdir)
		return nil, err
	}
	// Create a FAT32 filesystem
	fatfs, err := dsk.CreateFilesystem(disk.FilesystemSpec{
		Partition:   1,
		FSType:      filesystem.TypeFat32,
		VolumeLabel: "MEGACD",
	})
	if err != nil {
		defer os.RemoveAll(tmpdir)
		return nil, err
	}

	closefn := func() (err error) {
		err = fatfs.Close()
		if err != nil {
			return err
		}
		return os.RemoveAll(tmpdir)
	}

	return &Filesystem{
		Path:    dskimg,
		fs:      fatfs,
		closefn: closefn,
	}, nil
}

func (f *Filesystem) log() logrus.FieldLogger {
	if f.Logger == nil {
		return logrus.StandardLogger()
	}
	return f.Logger
}

// trackPath names the file a track is exported to. Exported names must not
// be valid upper case 8.3 names: fat32 only removes entries by long name.
func trackPath(dir string, t disc.TrackInfo) string {
	ext := "iso"
	if t.Type == disc.Audio {
		ext = "wav"
	}
	return fmt.Sprintf("%v/Track %02d.%s", dir, t.Number, ext)
}

// dirName is the directory a disc is exported to, empty for the root.
func dirName(name string) string {
	s := sanitizeName(name)
	if s == "" {
		return ""
	}
	// lower case keeps a long name, see trackPath
	return "/" + strings.ToLower(s)
}

// LoadDisc writes every track of the disc in r into a directory named after
// the disc. The position and playback of r are restored afterwards.
func (f *Filesystem) LoadDisc(r *cdreader.Reader, name string) (err error) {
	if f.files != nil {
		return fmt.Errorf("vfs: current disc not ejected")
	}
	if !r.IsOpen() {
		return fmt.Errorf("vfs: no disc")
	}
	tracks := r.Tracks()
	if len(tracks) == 0 {
		return fmt.Errorf("vfs: disc does not list its tracks")
	}

	saved := r.CaptureState()
	defer r.RestoreState(saved)

	dir := dirName(name)
	if dir != "" {
		err = f.fs.Mkdir(dir)
		if err != nil {
			return err
		}
	}
	f.dir = dir
	f.files = []string{}

	for _, t := range tracks {
		fname := trackPath(dir, t)
		log := f.log().WithFields(logrus.Fields{
			"track": t.Number,
			"file":  fname,
		})
		if t.Type.IsData() && t.Number != 1 {
			// only the first track is addressable by sector
			log.Warn("vfs: skipping data track")
			continue
		}

		file, err := f.fs.OpenFile(fname, os.O_CREATE|os.O_RDWR)
		if err != nil {
			return fmt.Errorf("vfs: create track %v: %w", fname, err)
		}
		f.files = append(f.files, fname)

		if t.Type == disc.Audio {
			err = writeWAV(file, r, t)
		} else {
			err = writeISO(file, r, t)
		}
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("vfs: write track %v: %w", fname, err)
		}
		log.Debug("vfs: exported track")
	}
	return nil
}

// writeWAV plays the track once and encodes every frame.
func writeWAV(w io.WriteSeeker, r *cdreader.Reader, t disc.TrackInfo) error {
	enc := wav.NewEncoder(w, disc.SampleRate, 8*disc.BytesPerSample, disc.Channels, 1)
	if !r.PlayAudio(t.Number, cdreader.Once) {
		return fmt.Errorf("track %d is not audio", t.Number)
	}

	samples := make([]int16, chunkFrames*disc.Channels)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: disc.Channels, SampleRate: disc.SampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 8 * disc.BytesPerSample,
	}
	for {
		n := r.ReadAudio(samples)
		if n == 0 {
			break
		}
		buf.Data = buf.Data[:n*disc.Channels]
		for i, s := range samples[:n*disc.Channels] {
			buf.Data[i] = int(s)
		}
		if err := enc.Write(buf); err != nil {
			return err
		}
	}
	return enc.Close()
}

// writeISO copies the user data of every sector of the data track.
func writeISO(w io.Writer, r *cdreader.Reader, t disc.TrackInfo) error {
	if t.Sectors == 0 {
		return nil
	}
	if !r.SeekToSector(0) {
		return fmt.Errorf("track %d is not data", t.Number)
	}
	var sector [disc.SectorSize]byte
	for range t.Sectors {
		r.ReadSector(&sector)
		if _, err := w.Write(sector[:]); err != nil {
			return err
		}
	}
	return nil
}

// ReadDir lists the exported files.
func (f *Filesystem) ReadDir() ([]os.FileInfo, error) {
	dir := f.dir
	if dir == "" {
		dir = "/"
	}
	entries, err := f.fs.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := entries[:0]
	for _, fi := range entries {
		if !fi.IsDir() {
			files = append(files, fi)
		}
	}
	return files, nil
}

// Open opens an exported file for reading.
func (f *Filesystem) Open(name string) (filesystem.File, error) {
	return f.fs.OpenFile(f.dir+"/"+name, os.O_RDONLY)
}

// Delete all files from the filesystem
func (f *Filesystem) Eject() error {
	if f.files == nil {
		return nil
	}
	for len(f.files) > 0 {
		err := f.fs.Remove(f.files[0])
		if err != nil {
			return err
		}
		f.files = f.files[1:]
	}
	if f.dir != "" {
		err := f.fs.Remove(f.dir)
		if err != nil {
			return err
		}
	}
	f.files = nil
	f.dir = ""
	return nil
}

// CopyTo writes the disk image to path.
func (f *Filesystem) CopyTo(path string) (err error) {
	r, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer r.Close() // ignore error: file was opened read-only.

	w, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if c := w.Close(); err == nil {
			err = c
		}
	}()

	_, err = io.Copy(w, r)
	return err
}

func (f *Filesystem) Close() error {
	return errors.Join(f.Eject(), f.closefn())
}
