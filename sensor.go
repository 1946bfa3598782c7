package gocatorlog

import "context"

// ScanMode is the acquisition mode a Gocator sensor is configured for.
type ScanMode int32

// The set of scan modes reported by the sensor.
const (
	ScanModeUnknown ScanMode = iota
	ScanModeVideo
	ScanModeRange
	ScanModeProfile
	ScanModeSurface
)

// String returns a human readable version of a scan mode.
func (m ScanMode) String() string {
	switch m {
	case ScanModeVideo:
		return "video"
	case ScanModeRange:
		return "range"
	case ScanModeProfile:
		return "profile"
	case ScanModeSurface:
		return "surface"
	default:
		return "unknown"
	}
}

// SensorConfig holds the acquisition settings read back from a sensor.
type SensorConfig struct {
	FrameRate    float64
	ExposureTime float64
	ScanMode     ScanMode
}

// MessageKind discriminates the message types a sensor delivers.
type MessageKind int

// The message kinds carried in a data batch.
const (
	KindStamp MessageKind = iota
	KindSurface
	KindMeasurement
)

// Message is one item of a data batch delivered by a sensor.
type Message interface {
	Kind() MessageKind
}

// StampMessage carries the sensor-assigned capture time for a frame.
type StampMessage struct {
	Timestamp uint64
}

// Kind returns KindStamp.
func (m *StampMessage) Kind() MessageKind { return KindStamp }

// SurfaceMessage carries one complete surface scan.
type SurfaceMessage struct {
	Frame *SurfaceFrame
}

// Kind returns KindSurface.
func (m *SurfaceMessage) Kind() MessageKind { return KindSurface }

// MeasurementRecord is one scalar value computed by the sensor, tagged
// with the tool output it came from.
type MeasurementRecord struct {
	ID    uint32
	Value float64
}

// MeasurementMessage carries the measurement values emitted for a frame.
type MeasurementMessage struct {
	Records []MeasurementRecord
}

// Kind returns KindMeasurement.
func (m *MeasurementMessage) Kind() MessageKind { return KindMeasurement }

// DataBatch is an ordered set of messages delivered in one callback.
type DataBatch []Message

// DataHandler receives data batches. It is invoked on a goroutine owned
// by the sensor client, so implementations must be safe to call from
// outside the subscriber's own goroutines.
type DataHandler func(batch DataBatch)

// SensorClient is the boundary to the vendor SDK that owns the wire
// protocol to the sensor. Implementations deliver data batches to the
// subscribed handler on their own goroutine(s) between Start and Stop.
type SensorClient interface {
	// Connect establishes the connection to the sensor.
	Connect(ctx context.Context) error

	// EnableData enables or disables the sensor data channel.
	EnableData(ctx context.Context, enable bool) error

	// Config reads the current acquisition settings from the sensor.
	Config(ctx context.Context) (SensorConfig, error)

	// SetScanMode changes the sensor's acquisition mode. This is a side
	// effect on the device itself, not local state.
	SetScanMode(ctx context.Context, mode ScanMode) error

	// Flush commits pending configuration changes on the sensor.
	Flush(ctx context.Context) error

	// Subscribe registers the handler that receives data batches. It must
	// be called before Start.
	Subscribe(handler DataHandler)

	// Start commands the sensor to begin producing data.
	Start(ctx context.Context) error

	// Stop commands the sensor to stop producing data.
	Stop(ctx context.Context) error

	// Close releases the connection to the sensor.
	Close(ctx context.Context) error
}
