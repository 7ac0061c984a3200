package disc

// SampleRate is the number of samples per second. All Redbook audio
// CDs use 44.1KHz.
const SampleRate = 44100

// BytesPerSample is 2 bytes, representing signed 16-bit samples.
const BytesPerSample = 2

// Channels is the number of audio channels in CDDA data. All Redbook audio
// CDs are stereo.
const Channels = 2

// BytesPerFrame is the size of one audio frame: a single interleaved
// stereo sample pair.
//
// Note that this package uses "frame" to mean one sample pair, which is the
// unit the emulator pulls audio in. It is distinct from the 1/75th of a second
// timecode frame, which this package calls a sector.
const BytesPerFrame = Channels * BytesPerSample

// SectorsPerSecond is the number of sectors in one second of audio.
// Track offsets in CUE sheets are specified in MM:SS:FF where FF counts
// sectors.
const SectorsPerSecond = 75

// FramesPerSector is the number of audio frames contained in one raw
// sector (588).
const FramesPerSector = SampleRate / SectorsPerSecond

// RawSectorSize is the size of a full sector as stored in a raw BIN image,
// 2352 bytes. Audio sectors are entirely PCM data.
const RawSectorSize = FramesPerSector * BytesPerFrame

// SectorSize is the size of the user data area of a Mode 1 sector. This is
// the unit the emulator reads data in regardless of how the image stores it.
const SectorSize = 2048

// rawHeaderSize is the sync pattern plus the address/mode header that
// precedes the user data in a raw Mode 1 sector.
const rawHeaderSize = 16

// syncPattern starts every raw data sector.
var syncPattern = [12]byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

// MaxTracks is the largest track number a disc can carry.
const MaxTracks = 99
