package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/diskfs/go-diskfs/filesystem/fat32"
	"github.com/rabidaudio/megacd/vfs"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func exportCmd(log logrus.FieldLogger) *cobra.Command {
	var sizeMB int64
	var name string

	cmd := &cobra.Command{
		Use:   "export IMAGE OUT",
		Short: "Write the tracks of an image to a FAT32 disk image",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			r, err := openReader(args[0], log)
			if err != nil {
				return err
			}
			defer r.Close()

			if name == "" {
				base := filepath.Base(args[0])
				name = strings.TrimSuffix(base, filepath.Ext(base))
			}

			fsys, err := vfs.Create(sizeMB * fat32.MB)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			defer fsys.Close()
			fsys.Logger = log

			if err := fsys.LoadDisc(r, name); err != nil {
				return err
			}
			if err := fsys.CopyTo(args[1]); err != nil {
				return err
			}
			log.WithField("out", args[1]).Info("exported disc")
			return nil
		},
	}
	cmd.Flags().Int64Var(&sizeMB, "size", vfs.DiskSize/fat32.MB, "disk image size in MB")
	cmd.Flags().StringVar(&name, "name", "", "directory name (default: image file name)")
	return cmd
}
