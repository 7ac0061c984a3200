package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rabidaudio/megacd/cdreader"
	"github.com/rabidaudio/megacd/disc"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func infoCmd(log logrus.FieldLogger) *cobra.Command {
	return &cobra.Command{
		Use:   "info IMAGE",
		Short: "List the tracks and boot header of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openReader(args[0], log)
			if err != nil {
				return err
			}
			defer r.Close()
			return printInfo(cmd.OutOrStdout(), r)
		},
	}
}

func printInfo(w io.Writer, r *cdreader.Reader) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TRACK\tTYPE\tSECTORS\tLENGTH\tPREGAP\tPOSTGAP")
	for _, t := range r.Tracks() {
		fmt.Fprintf(tw, "%02d\t%v\t%d\t%s\t%d\t%d\n", t.Number, t.Type, t.Sectors, t.Duration(), t.Pregap, t.Postgap)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	h, ok := r.ReadHeader()
	if !ok {
		fmt.Fprintln(w, "\nno Mega-CD boot header")
		return nil
	}
	fmt.Fprintf(w, "\nvolume:    %s\n", h.VolumeName)
	fmt.Fprintf(w, "system:    %s\n", h.SystemName)
	fmt.Fprintf(w, "hardware:  %s\n", h.Hardware)
	fmt.Fprintf(w, "copyright: %s\n", h.Copyright)
	fmt.Fprintf(w, "title:     %s\n", h.DomesticTitle)
	fmt.Fprintf(w, "overseas:  %s\n", h.OverseasTitle)
	fmt.Fprintf(w, "serial:    %s\n", h.Serial)
	fmt.Fprintf(w, "regions:   %s\n", h.Regions)
	return nil
}

func sectorCmd(log logrus.FieldLogger) *cobra.Command {
	return &cobra.Command{
		Use:   "sector IMAGE N",
		Short: "Hex dump a sector of the data track",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseUint(args[1], 0, 32)
			if err != nil {
				return fmt.Errorf("sector: %w", err)
			}
			r, err := openReader(args[0], log)
			if err != nil {
				return err
			}
			defer r.Close()

			if !r.SeekToSector(uint32(n)) {
				return fmt.Errorf("sector %d is not on the data track", n)
			}
			var out [disc.SectorSize]byte
			r.ReadSector(&out)
			_, err = io.WriteString(cmd.OutOrStdout(), hex.Dump(out[:]))
			return err
		},
	}
}
