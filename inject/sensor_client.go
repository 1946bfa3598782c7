// Package inject provides an injectable sensor client for testing.
package inject

import (
	"context"

	"github.com/nofima/gocatorlog"
)

// SensorClient is an injected sensor client. Any unset function falls
// through to the embedded client.
type SensorClient struct {
	gocatorlog.SensorClient

	ConnectFunc     func(ctx context.Context) error
	EnableDataFunc  func(ctx context.Context, enable bool) error
	ConfigFunc      func(ctx context.Context) (gocatorlog.SensorConfig, error)
	SetScanModeFunc func(ctx context.Context, mode gocatorlog.ScanMode) error
	FlushFunc       func(ctx context.Context) error
	SubscribeFunc   func(handler gocatorlog.DataHandler)
	StartFunc       func(ctx context.Context) error
	StopFunc        func(ctx context.Context) error
	CloseFunc       func(ctx context.Context) error
}

// Connect calls the injected Connect or the real version.
func (c *SensorClient) Connect(ctx context.Context) error {
	if c.ConnectFunc == nil {
		return c.SensorClient.Connect(ctx)
	}
	return c.ConnectFunc(ctx)
}

// EnableData calls the injected EnableData or the real version.
func (c *SensorClient) EnableData(ctx context.Context, enable bool) error {
	if c.EnableDataFunc == nil {
		return c.SensorClient.EnableData(ctx, enable)
	}
	return c.EnableDataFunc(ctx, enable)
}

// Config calls the injected Config or the real version.
func (c *SensorClient) Config(ctx context.Context) (gocatorlog.SensorConfig, error) {
	if c.ConfigFunc == nil {
		return c.SensorClient.Config(ctx)
	}
	return c.ConfigFunc(ctx)
}

// SetScanMode calls the injected SetScanMode or the real version.
func (c *SensorClient) SetScanMode(ctx context.Context, mode gocatorlog.ScanMode) error {
	if c.SetScanModeFunc == nil {
		return c.SensorClient.SetScanMode(ctx, mode)
	}
	return c.SetScanModeFunc(ctx, mode)
}

// Flush calls the injected Flush or the real version.
func (c *SensorClient) Flush(ctx context.Context) error {
	if c.FlushFunc == nil {
		return c.SensorClient.Flush(ctx)
	}
	return c.FlushFunc(ctx)
}

// Subscribe calls the injected Subscribe or the real version.
func (c *SensorClient) Subscribe(handler gocatorlog.DataHandler) {
	if c.SubscribeFunc == nil {
		c.SensorClient.Subscribe(handler)
		return
	}
	c.SubscribeFunc(handler)
}

// Start calls the injected Start or the real version.
func (c *SensorClient) Start(ctx context.Context) error {
	if c.StartFunc == nil {
		return c.SensorClient.Start(ctx)
	}
	return c.StartFunc(ctx)
}

// Stop calls the injected Stop or the real version.
func (c *SensorClient) Stop(ctx context.Context) error {
	if c.StopFunc == nil {
		return c.SensorClient.Stop(ctx)
	}
	return c.StopFunc(ctx)
}

// Close calls the injected Close or the real version.
func (c *SensorClient) Close(ctx context.Context) error {
	if c.CloseFunc == nil {
		return c.SensorClient.Close(ctx)
	}
	return c.CloseFunc(ctx)
}
