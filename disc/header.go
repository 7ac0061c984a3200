package disc

import (
	"bytes"
	"strings"
)

// Header is the boot header found in sector 0 of a Mega-CD data track.
type Header struct {
	VolumeName    string
	SystemName    string
	Hardware      string // e.g. "SEGA MEGA DRIVE" or "SEGA GENESIS"
	Copyright     string
	DomesticTitle string
	OverseasTitle string
	Serial        string
	Regions       string // any of 'J', 'U' and 'E'
}

// header field offsets within sector 0
const (
	headerID       = 0x000
	headerVolume   = 0x010
	headerSystem   = 0x020
	headerHardware = 0x100
	headerCopy     = 0x110
	headerDomestic = 0x120
	headerOverseas = 0x150
	headerSerial   = 0x180
	headerRegions  = 0x1F0
)

var segaDiscSystem = []byte("SEGADISCSYSTEM")

// ParseHeader decodes the boot header from the user data of sector 0.
func ParseHeader(sector []byte) (Header, error) {
	if len(sector) < SectorSize || !bytes.HasPrefix(sector[headerID:], segaDiscSystem) {
		return Header{}, ErrNotSegaDisc
	}
	field := func(off, n int) string {
		return strings.TrimSpace(strings.TrimRight(string(sector[off:off+n]), "\x00"))
	}
	return Header{
		VolumeName:    field(headerVolume, 11),
		SystemName:    field(headerSystem, 11),
		Hardware:      field(headerHardware, 16),
		Copyright:     field(headerCopy, 16),
		DomesticTitle: field(headerDomestic, 48),
		OverseasTitle: field(headerOverseas, 48),
		Serial:        field(headerSerial, 14),
		Regions:       field(headerRegions, 3),
	}, nil
}
