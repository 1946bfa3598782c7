// Package gocatorlog logs surface scans and measurement values from an
// LMI Gocator 3D laser profiler to disk. Each surface is written to its
// own binary file and measurement values are appended to one shared text
// log per capture session.
package gocatorlog

import (
	"context"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// SessionState is the lifecycle state of a capture session.
type SessionState int

// Session lifecycle states.
const (
	Idle SessionState = iota
	Configuring
	Streaming
	Stopped
)

// String returns a human readable version of a session state.
func (s SessionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Configuring:
		return "configuring"
	case Streaming:
		return "streaming"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Session owns one capture run against a sensor: it configures the
// device, receives data batches and routes them to the surface serializer
// and the measurement log. The mutex serializes the control path
// (Start/Stop) against the data handler, which the sensor client invokes
// on its own goroutine.
type Session struct {
	mu     sync.Mutex
	state  SessionState
	sensor SensorClient
	logger golog.Logger

	dataFolder string

	seq          uint32
	timestamp    uint64
	frameRate    float64
	exposureTime float64
	measLog      *MeasurementLog
}

// NewSession returns an idle session that will capture from sensor into
// dataFolder.
func NewSession(sensor SensorClient, dataFolder string, logger golog.Logger) *Session {
	return &Session{
		state:      Idle,
		sensor:     sensor,
		dataFolder: dataFolder,
		logger:     logger,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SurfaceCount returns how many surfaces have been received so far.
func (s *Session) SurfaceCount() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// MeasurementLogPath returns the location of the session's measurement
// log, or the empty string before Start.
func (s *Session) MeasurementLogPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.measLog == nil {
		return ""
	}
	return s.measLog.Path()
}

// Start connects to the sensor, reads its acquisition settings, switches
// it to surface mode if needed, opens the measurement log and commands
// the sensor to stream. Any failure aborts the startup with no retry.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return errors.Errorf("cannot start session in state %q", s.state)
	}
	s.state = Configuring

	if err := s.sensor.Connect(ctx); err != nil {
		s.state = Idle
		return errors.Wrap(err, "cannot connect to sensor")
	}
	if err := s.startLocked(ctx); err != nil {
		s.state = Idle
		return multierr.Append(err, s.sensor.Close(ctx))
	}
	s.state = Streaming
	return nil
}

func (s *Session) startLocked(ctx context.Context) error {
	if err := s.sensor.EnableData(ctx, true); err != nil {
		return errors.Wrap(err, "cannot enable sensor data channel")
	}

	cfg, err := s.sensor.Config(ctx)
	if err != nil {
		return errors.Wrap(err, "cannot read sensor configuration")
	}
	s.frameRate = cfg.FrameRate
	s.exposureTime = cfg.ExposureTime

	if cfg.ScanMode != ScanModeSurface {
		if err := s.sensor.SetScanMode(ctx, ScanModeSurface); err != nil {
			return errors.Wrapf(err, "cannot switch scan mode from %q to %q", cfg.ScanMode, ScanModeSurface)
		}
		s.logger.Infof("scan mode changed from %q to %q", cfg.ScanMode, ScanModeSurface)
	}
	if err := s.sensor.Flush(ctx); err != nil {
		s.logger.Warnf("cannot flush sensor configuration: %v", err)
	}

	measLog, err := NewMeasurementLog(measurementFilePath(s.dataFolder, time.Now()))
	if err != nil {
		return err
	}
	s.logger.Infof("measurement output file: %s", measLog.Path())

	s.sensor.Subscribe(s.onData)
	if err := s.sensor.Start(ctx); err != nil {
		return multierr.Append(errors.Wrap(err, "cannot start sensor"), measLog.Close())
	}
	s.measLog = measLog
	return nil
}

// Stop commands the sensor to stop, waits out any in-flight data handler
// invocation, closes the measurement log and releases the connection. No
// handler can write through a closed log handle: the log is only closed
// under the same mutex the handler runs under.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Streaming {
		state := s.state
		s.mu.Unlock()
		return errors.Errorf("cannot stop session in state %q", state)
	}
	s.mu.Unlock()

	// Stop the sensor before tearing anything down so no new batches are
	// produced while the log file is closing.
	stopErr := s.sensor.Stop(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Streaming {
		return stopErr
	}
	s.state = Stopped

	var closeErr error
	if s.measLog != nil {
		closeErr = s.measLog.Close()
		s.measLog = nil
	}
	s.logger.Infof("logging stopped, %d surfaces logged in total", s.seq)
	return multierr.Combine(stopErr, closeErr, s.sensor.Close(ctx))
}

// onData is the subscribed data handler. It runs on the sensor client's
// goroutine and processes every message of the batch in order.
func (s *Session) onData(batch DataBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Streaming {
		s.logger.Debugf("dropping batch of %d messages received while %q", len(batch), s.state)
		return
	}

	for _, msg := range batch {
		switch m := msg.(type) {
		case *StampMessage:
			s.timestamp = m.Timestamp
		case *SurfaceMessage:
			s.handleSurface(m.Frame)
		case *MeasurementMessage:
			if err := s.measLog.Append(m.Records, s.seq); err != nil {
				s.logger.Warnf("measurement records for surface %d not logged: %v", s.seq, err)
			}
		default:
			s.logger.Warnf("ignoring message of unknown kind %d", msg.Kind())
		}
	}
}

func (s *Session) handleSurface(frame *SurfaceFrame) {
	s.seq++

	widthMm := float64(frame.Width) * NmToMm(frame.XResolution)
	lengthMm := float64(frame.Length) * NmToMm(frame.YResolution)
	s.logger.Infof("surface %d received, dimensions [%.0f, %.0f] mm", s.seq, widthMm, lengthMm)

	meta := SurfaceMeta{
		Timestamp:    s.timestamp,
		FrameRate:    s.frameRate,
		ExposureTime: s.exposureTime,
	}
	path := surfaceFilePath(s.dataFolder, time.Now(), s.seq)
	if err := WriteSurfaceFile(frame, meta, path, s.logger); err != nil {
		s.logger.Warnf("surface %d not written: %v", s.seq, err)
		return
	}
	s.logger.Debugf("surface written to %s", path)
}
