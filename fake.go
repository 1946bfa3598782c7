package gocatorlog

import (
	"context"
	"sync"
	"time"

	"go.viam.com/utils"
)

// FakeSensor is an in-process SensorClient that produces synthetic
// surfaces at its configured frame rate. It stands in for the vendor
// SDK backed client in tests and when no sensor is on the network.
type FakeSensor struct {
	mu        sync.Mutex
	cfg       SensorConfig
	width     uint32
	length    uint32
	handler   DataHandler
	connected bool
	timestamp uint64

	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

// NewFakeSensor returns a disconnected fake sensor producing width x
// length surfaces at frameRate frames per second. It starts out in
// profile mode so that a capture session has a mode switch to perform.
func NewFakeSensor(width, length uint32, frameRate float64) *FakeSensor {
	return &FakeSensor{
		cfg: SensorConfig{
			FrameRate:    frameRate,
			ExposureTime: 500,
			ScanMode:     ScanModeProfile,
		},
		width:  width,
		length: length,
	}
}

// Connect marks the fake as connected.
func (f *FakeSensor) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = true
	return nil
}

// EnableData is a no-op for the fake.
func (f *FakeSensor) EnableData(ctx context.Context, enable bool) error {
	return f.checkConnected()
}

// Config returns the fake's acquisition settings.
func (f *FakeSensor) Config(ctx context.Context) (SensorConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected {
		return SensorConfig{}, StatusBadState.Failed()
	}
	return f.cfg, nil
}

// SetScanMode records the requested mode.
func (f *FakeSensor) SetScanMode(ctx context.Context, mode ScanMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected {
		return StatusBadState.Failed()
	}
	f.cfg.ScanMode = mode
	return nil
}

// Flush is a no-op for the fake.
func (f *FakeSensor) Flush(ctx context.Context) error {
	return f.checkConnected()
}

// Subscribe registers the handler that will receive generated batches.
func (f *FakeSensor) Subscribe(handler DataHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = handler
}

// Start begins generating one batch per frame period on a background
// goroutine, each holding a stamp, a surface and two measurement values.
func (f *FakeSensor) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected {
		return StatusBadState.Failed()
	}
	if f.handler == nil {
		return StatusBadParameter.Failed()
	}
	if f.cancelFunc != nil {
		return StatusBadState.Failed()
	}

	period := time.Second
	if f.cfg.FrameRate > 0 {
		period = time.Duration(float64(time.Second) / f.cfg.FrameRate)
	}
	f.cancelCtx, f.cancelFunc = context.WithCancel(context.Background())

	cancelCtx := f.cancelCtx
	handler := f.handler
	f.activeBackgroundWorkers.Add(1)
	utils.PanicCapturingGo(func() {
		defer f.activeBackgroundWorkers.Done()
		for {
			if !utils.SelectContextOrWait(cancelCtx, period) {
				return
			}
			handler(f.nextBatch())
		}
	})
	return nil
}

// Stop halts batch generation and waits for the generator goroutine, so
// no handler invocation is in flight once Stop returns.
func (f *FakeSensor) Stop(ctx context.Context) error {
	f.mu.Lock()
	cancel := f.cancelFunc
	f.cancelFunc = nil
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	f.activeBackgroundWorkers.Wait()
	return nil
}

// Close disconnects the fake.
func (f *FakeSensor) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	return nil
}

func (f *FakeSensor) checkConnected() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected {
		return StatusBadState.Failed()
	}
	return nil
}

// nextBatch builds a batch with a ramp-shaped surface. The corner pixel
// is marked invalid so downstream handling of the sentinel stays
// exercised end to end.
func (f *FakeSensor) nextBatch() DataBatch {
	f.mu.Lock()
	f.timestamp++
	ts := f.timestamp
	width, length := f.width, f.length
	f.mu.Unlock()

	ranges := make([]int16, int(width)*int(length))
	for rowIdx := 0; rowIdx < int(length); rowIdx++ {
		for colIdx := 0; colIdx < int(width); colIdx++ {
			ranges[rowIdx*int(width)+colIdx] = int16((rowIdx*31 + colIdx*17) % 2000)
		}
	}
	ranges[0] = InvalidRange

	frame := &SurfaceFrame{
		Width:       width,
		Length:      length,
		XOffset:     -7500,
		XResolution: 50000,
		YOffset:     -7500,
		YResolution: 50000,
		ZOffset:     12000,
		ZResolution: 8000,
		Ranges:      ranges,
	}

	return DataBatch{
		&StampMessage{Timestamp: ts},
		&SurfaceMessage{Frame: frame},
		&MeasurementMessage{Records: []MeasurementRecord{
			{ID: 0, Value: float64(ts) * 0.25},
			{ID: 1, Value: 100 - float64(ts)*0.25},
		}},
	}
}
