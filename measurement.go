package gocatorlog

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// measurementLogHeader names the three columns of the measurement log.
const measurementLogHeader = "Surface number; Measurement ID; Measurement value\r\n"

// MeasurementLog appends measurement values to one shared text file per
// session. Lines are semicolon separated and CRLF terminated. The file
// handle stays open for the life of the session.
type MeasurementLog struct {
	f *os.File
}

// NewMeasurementLog creates (or truncates) the log file at path and
// writes the column header line.
func NewMeasurementLog(path string) (*MeasurementLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open measurement log %s", path)
	}
	if _, err := f.WriteString(measurementLogHeader); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "cannot write measurement log header to %s", path)
	}
	return &MeasurementLog{f: f}, nil
}

// Append writes one line per record, each tagged with the sequence number
// of the surface the records belong to.
func (l *MeasurementLog) Append(records []MeasurementRecord, surfaceNum uint32) error {
	for _, rec := range records {
		if _, err := fmt.Fprintf(l.f, "%4d;%4d; %.2f\r\n", surfaceNum, rec.ID, rec.Value); err != nil {
			return errors.Wrap(err, "cannot append measurement record")
		}
	}
	return nil
}

// Path returns the location of the log file.
func (l *MeasurementLog) Path() string {
	return l.f.Name()
}

// Close closes the log file.
func (l *MeasurementLog) Close() error {
	return l.f.Close()
}
