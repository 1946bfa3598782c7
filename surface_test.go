package gocatorlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"
)

func testFrame() *SurfaceFrame {
	return &SurfaceFrame{
		Width:       3,
		Length:      2,
		XOffset:     1000,
		XResolution: 1000000,
		YOffset:     -2500,
		YResolution: 500000,
		ZOffset:     12000,
		ZResolution: 8000,
		Ranges:      []int16{0, 10, -20, 300, InvalidRange, 32767},
	}
}

func TestUnitConversions(t *testing.T) {
	test.That(t, NmToMm(1000000), test.ShouldEqual, 1.0)
	test.That(t, NmToMm(500000), test.ShouldEqual, 0.5)
	test.That(t, UmToMm(1000), test.ShouldEqual, 1.0)
	test.That(t, UmToMm(-2500), test.ShouldEqual, -2.5)
}

func TestSurfaceFileRoundTrip(t *testing.T) {
	logger := golog.NewTestLogger(t)
	frame := testFrame()
	meta := SurfaceMeta{Timestamp: 42, FrameRate: 5.5, ExposureTime: 750}
	path := filepath.Join(t.TempDir(), "surface.bin")

	err := WriteSurfaceFile(frame, meta, path, logger)
	test.That(t, err, test.ShouldBeNil)

	info, err := os.Stat(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldEqual, int64(SurfaceHeaderSize+2*len(frame.Ranges)))

	hdr, samples, err := ReadSurfaceFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hdr.Tag, test.ShouldEqual, "GOCATOR SURF0001")
	test.That(t, hdr.Timestamp, test.ShouldEqual, uint64(42))
	test.That(t, hdr.Width, test.ShouldEqual, uint32(3))
	test.That(t, hdr.Length, test.ShouldEqual, uint32(2))
	test.That(t, hdr.XOffset, test.ShouldEqual, 1.0)
	test.That(t, hdr.XResolution, test.ShouldEqual, 1.0)
	test.That(t, hdr.YOffset, test.ShouldEqual, -2.5)
	test.That(t, hdr.YResolution, test.ShouldEqual, 0.5)
	test.That(t, hdr.ZOffset, test.ShouldEqual, 12.0)
	test.That(t, hdr.ZResolution, test.ShouldEqual, 0.008)
	test.That(t, hdr.FrameRate, test.ShouldEqual, 5.5)
	test.That(t, hdr.ExposureTime, test.ShouldEqual, 750.0)

	// Invalid samples pass through untouched.
	test.That(t, samples, test.ShouldResemble, frame.Ranges)
}

func TestWriteSurfaceFile(t *testing.T) {
	logger := golog.NewTestLogger(t)
	meta := SurfaceMeta{Timestamp: 1, FrameRate: 1, ExposureTime: 1}

	t.Run("missing folder", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "no", "such", "folder", "surface.bin")
		err := WriteSurfaceFile(testFrame(), meta, path, logger)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "cannot create surface file")
	})

	t.Run("sample count mismatch", func(t *testing.T) {
		frame := testFrame()
		frame.Ranges = frame.Ranges[:4]
		err := WriteSurfaceFile(frame, meta, filepath.Join(t.TempDir(), "surface.bin"), logger)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "expected 6")
	})
}

func TestReadSurfaceFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, _, err := ReadSurfaceFile(filepath.Join(t.TempDir(), "nope.bin"))
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("bad tag", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.bin")
		data := make([]byte, SurfaceHeaderSize)
		copy(data, "NOT A SURFACE AT ALL")
		test.That(t, os.WriteFile(path, data, 0o600), test.ShouldBeNil)
		_, _, err := ReadSurfaceFile(path)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "unrecognized surface file tag")
	})

	t.Run("truncated", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "short.bin")
		test.That(t, os.WriteFile(path, []byte(headerTag), 0o600), test.ShouldBeNil)
		_, _, err := ReadSurfaceFile(path)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "too small")
	})
}

func TestToPointCloud(t *testing.T) {
	frame := &SurfaceFrame{
		Width:       2,
		Length:      2,
		XResolution: 1000000,
		YResolution: 1000000,
		ZResolution: 1000000,
		Ranges:      []int16{InvalidRange, 100, 200, 300},
	}

	pc, err := frame.ToPointCloud()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pc.Size(), test.ShouldEqual, 3)

	// col 1, row 0, sample 100 with 1 mm resolutions and no offsets.
	_, got := pc.At(1, 0, 100)
	test.That(t, got, test.ShouldBeTrue)
	_, got = pc.At(0, 1, 200)
	test.That(t, got, test.ShouldBeTrue)
	// The invalid corner pixel must not be present.
	_, got = pc.At(0, 0, float64(InvalidRange))
	test.That(t, got, test.ShouldBeFalse)
}

func TestHeaderPointCloud(t *testing.T) {
	logger := golog.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "surface.bin")
	err := WriteSurfaceFile(testFrame(), SurfaceMeta{}, path, logger)
	test.That(t, err, test.ShouldBeNil)

	hdr, samples, err := ReadSurfaceFile(path)
	test.That(t, err, test.ShouldBeNil)

	pc, err := hdr.PointCloud(samples)
	test.That(t, err, test.ShouldBeNil)
	// One of the six samples is the invalid sentinel.
	test.That(t, pc.Size(), test.ShouldEqual, 5)

	_, err = hdr.PointCloud(samples[:2])
	test.That(t, err, test.ShouldNotBeNil)
}
