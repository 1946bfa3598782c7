package gocatorlog_test

import (
	"context"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/nofima/gocatorlog"
)

func TestFakeSensorCapture(t *testing.T) {
	ctx := context.Background()
	logger := golog.NewTestLogger(t)
	folder := t.TempDir()

	sensor := gocatorlog.NewFakeSensor(4, 3, 50)
	session := gocatorlog.NewSession(sensor, folder, logger)
	test.That(t, session.Start(ctx), test.ShouldBeNil)

	deadline := time.Now().Add(10 * time.Second)
	for session.SurfaceCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	test.That(t, session.SurfaceCount(), test.ShouldBeGreaterThanOrEqualTo, uint32(2))

	test.That(t, session.Stop(ctx), test.ShouldBeNil)
	test.That(t, session.State(), test.ShouldEqual, gocatorlog.Stopped)

	count := session.SurfaceCount()
	files := surfaceFiles(t, folder)
	test.That(t, len(files), test.ShouldEqual, int(count))

	hdr, samples, err := gocatorlog.ReadSurfaceFile(files[0])
	test.That(t, err, test.ShouldBeNil)
	test.That(t, hdr.Width, test.ShouldEqual, uint32(4))
	test.That(t, hdr.Length, test.ShouldEqual, uint32(3))
	test.That(t, hdr.FrameRate, test.ShouldEqual, 50.0)
	// The fake marks its corner pixel invalid; the sentinel survives the
	// trip to disk.
	test.That(t, samples[0], test.ShouldEqual, gocatorlog.InvalidRange)
}

func TestFakeSensorLifecycle(t *testing.T) {
	ctx := context.Background()

	sensor := gocatorlog.NewFakeSensor(2, 2, 10)

	// Everything but Connect requires a connection.
	_, err := sensor.Config(ctx)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, sensor.Start(ctx), test.ShouldNotBeNil)

	test.That(t, sensor.Connect(ctx), test.ShouldBeNil)
	cfg, err := sensor.Config(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ScanMode, test.ShouldEqual, gocatorlog.ScanModeProfile)

	test.That(t, sensor.SetScanMode(ctx, gocatorlog.ScanModeSurface), test.ShouldBeNil)
	cfg, err = sensor.Config(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ScanMode, test.ShouldEqual, gocatorlog.ScanModeSurface)

	// Start without a subscribed handler is refused.
	test.That(t, sensor.Start(ctx), test.ShouldNotBeNil)

	batches := make(chan gocatorlog.DataBatch, 16)
	sensor.Subscribe(func(batch gocatorlog.DataBatch) {
		select {
		case batches <- batch:
		default:
		}
	})
	test.That(t, sensor.Start(ctx), test.ShouldBeNil)

	select {
	case batch := <-batches:
		test.That(t, len(batch), test.ShouldEqual, 3)
		test.That(t, batch[0].Kind(), test.ShouldEqual, gocatorlog.KindStamp)
		test.That(t, batch[1].Kind(), test.ShouldEqual, gocatorlog.KindSurface)
		test.That(t, batch[2].Kind(), test.ShouldEqual, gocatorlog.KindMeasurement)
	case <-time.After(10 * time.Second):
		t.Fatal("no batch delivered")
	}

	test.That(t, sensor.Stop(ctx), test.ShouldBeNil)
	test.That(t, sensor.Close(ctx), test.ShouldBeNil)
}
