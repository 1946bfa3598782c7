package gocatorlog

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/pointcloud"
)

// InvalidRange is the sentinel the sensor transmits for pixels with no
// return. It passes through serialization untouched.
const InvalidRange int16 = -32768

// headerTag identifies the surface file format. The last four characters
// are the version number and must be bumped whenever the layout changes.
const headerTag = "GOCATOR SURF0001"

// SurfaceHeaderSize is the byte length of the fixed surface file header:
// the 16-byte tag, a uint64 timestamp, two uint32 dimensions and eight
// float64 fields.
const SurfaceHeaderSize = 16 + 8 + 4 + 4 + 8*8

// NmToMm converts a value in nanometers to millimeters.
func NmToMm(v float64) float64 { return v / 1000000.0 }

// UmToMm converts a value in micrometers to millimeters.
func UmToMm(v float64) float64 { return v / 1000.0 }

// SurfaceFrame is one complete surface scan as delivered by the sensor.
// Offsets are in micrometers and resolutions in nanometers, matching the
// sensor's native units. Ranges holds Length rows of Width samples,
// row-major.
type SurfaceFrame struct {
	Width  uint32
	Length uint32

	XOffset     float64
	XResolution float64
	YOffset     float64
	YResolution float64
	ZOffset     float64
	ZResolution float64

	Ranges []int16
}

// Row returns the samples of one row of the frame.
func (f *SurfaceFrame) Row(i int) []int16 {
	w := int(f.Width)
	return f.Ranges[i*w : (i+1)*w]
}

func (f *SurfaceFrame) validate() error {
	if got, want := len(f.Ranges), int(f.Width)*int(f.Length); got != want {
		return errors.Errorf("surface has %d samples, expected %d (%dx%d)", got, want, f.Width, f.Length)
	}
	return nil
}

// SurfaceMeta is the per-session metadata written into every surface
// file header alongside the frame itself.
type SurfaceMeta struct {
	Timestamp    uint64
	FrameRate    float64
	ExposureTime float64
}

// SurfaceHeader is the decoded fixed-size header of a surface file.
// Offsets and resolutions are in millimeters, as stored on disk.
type SurfaceHeader struct {
	Tag       string
	Timestamp uint64
	Width     uint32
	Length    uint32

	XOffset     float64
	XResolution float64
	YOffset     float64
	YResolution float64
	ZOffset     float64
	ZResolution float64

	FrameRate    float64
	ExposureTime float64
}

// WriteSurfaceFile writes one frame to path in the fixed binary layout:
// the header tag, timestamp, width, length, the six offset/resolution
// fields converted to millimeters, frame rate and exposure time, then the
// range samples row by row, all little-endian with no padding.
//
// If the file cannot be created the frame is dropped and an error is
// returned. A short row write is logged as a warning and the remaining
// rows are still attempted, so the file may be truncated for that row.
func WriteSurfaceFile(frame *SurfaceFrame, meta SurfaceMeta, path string, logger golog.Logger) error {
	if err := frame.validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create surface file %s", path)
	}

	hdr := make([]byte, 0, SurfaceHeaderSize)
	hdr = append(hdr, headerTag...)
	hdr = binary.LittleEndian.AppendUint64(hdr, meta.Timestamp)
	hdr = binary.LittleEndian.AppendUint32(hdr, frame.Width)
	hdr = binary.LittleEndian.AppendUint32(hdr, frame.Length)
	for _, v := range []float64{
		UmToMm(frame.XOffset), NmToMm(frame.XResolution),
		UmToMm(frame.YOffset), NmToMm(frame.YResolution),
		UmToMm(frame.ZOffset), NmToMm(frame.ZResolution),
		meta.FrameRate, meta.ExposureTime,
	} {
		hdr = binary.LittleEndian.AppendUint64(hdr, math.Float64bits(v))
	}
	if _, err := f.Write(hdr); err != nil {
		f.Close()
		return errors.Wrapf(err, "cannot write surface header to %s", path)
	}

	rowBuf := make([]byte, 2*int(frame.Width))
	for rowIdx := 0; rowIdx < int(frame.Length); rowIdx++ {
		for i, s := range frame.Row(rowIdx) {
			binary.LittleEndian.PutUint16(rowBuf[2*i:], uint16(s))
		}
		if n, err := f.Write(rowBuf); err != nil || n != len(rowBuf) {
			logger.Warnf("error while writing surface row %d to %s: %v", rowIdx, path, err)
		}
	}

	return f.Close()
}

// ReadSurfaceFile decodes a surface file written by WriteSurfaceFile and
// returns the header and the row-major range samples.
func ReadSurfaceFile(path string) (SurfaceHeader, []int16, error) {
	var hdr SurfaceHeader

	data, err := os.ReadFile(path)
	if err != nil {
		return hdr, nil, errors.Wrapf(err, "cannot read surface file %s", path)
	}
	if len(data) < SurfaceHeaderSize {
		return hdr, nil, errors.Errorf("surface file %s too small: %d bytes", path, len(data))
	}

	hdr.Tag = string(data[:16])
	if hdr.Tag != headerTag {
		return hdr, nil, errors.Errorf("unrecognized surface file tag %q", hdr.Tag)
	}
	off := 16
	hdr.Timestamp = binary.LittleEndian.Uint64(data[off:])
	off += 8
	hdr.Width = binary.LittleEndian.Uint32(data[off:])
	off += 4
	hdr.Length = binary.LittleEndian.Uint32(data[off:])
	off += 4
	for _, dst := range []*float64{
		&hdr.XOffset, &hdr.XResolution,
		&hdr.YOffset, &hdr.YResolution,
		&hdr.ZOffset, &hdr.ZResolution,
		&hdr.FrameRate, &hdr.ExposureTime,
	} {
		*dst = math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
		off += 8
	}

	want := int(hdr.Width) * int(hdr.Length)
	body := data[off:]
	if len(body) != 2*want {
		return hdr, nil, errors.Errorf("surface file %s has %d sample bytes, expected %d", path, len(body), 2*want)
	}
	samples := make([]int16, want)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(body[2*i:]))
	}
	return hdr, samples, nil
}

// ToPointCloud converts the frame into a point cloud in millimeters,
// skipping invalid samples. Each pixel maps to
// (XOffset + col*XResolution, YOffset + row*YResolution, ZOffset + sample*ZResolution).
func (f *SurfaceFrame) ToPointCloud() (pointcloud.PointCloud, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	return buildPointCloud(
		f.Width, f.Length,
		UmToMm(f.XOffset), NmToMm(f.XResolution),
		UmToMm(f.YOffset), NmToMm(f.YResolution),
		UmToMm(f.ZOffset), NmToMm(f.ZResolution),
		f.Ranges,
	)
}

// PointCloud converts a decoded surface file into a point cloud using the
// same mapping as SurfaceFrame.ToPointCloud.
func (h SurfaceHeader) PointCloud(samples []int16) (pointcloud.PointCloud, error) {
	if got, want := len(samples), int(h.Width)*int(h.Length); got != want {
		return nil, errors.Errorf("surface has %d samples, expected %d (%dx%d)", got, want, h.Width, h.Length)
	}
	return buildPointCloud(
		h.Width, h.Length,
		h.XOffset, h.XResolution,
		h.YOffset, h.YResolution,
		h.ZOffset, h.ZResolution,
		samples,
	)
}

func buildPointCloud(width, length uint32, xOff, xRes, yOff, yRes, zOff, zRes float64, samples []int16) (pointcloud.PointCloud, error) {
	pc := pointcloud.New()
	for rowIdx := 0; rowIdx < int(length); rowIdx++ {
		for colIdx := 0; colIdx < int(width); colIdx++ {
			s := samples[rowIdx*int(width)+colIdx]
			if s == InvalidRange {
				continue
			}
			pos := r3.Vector{
				X: xOff + float64(colIdx)*xRes,
				Y: yOff + float64(rowIdx)*yRes,
				Z: zOff + float64(s)*zRes,
			}
			if err := pc.Set(pos, pointcloud.NewBasicData()); err != nil {
				return nil, err
			}
		}
	}
	return pc, nil
}
