package gocatorlog

import (
	"fmt"
	"path/filepath"
	"time"
)

const (
	surfaceFileSuffix     = "GocatorSurface.bin"
	measurementFileSuffix = "GocatorMeasurement.txt"

	fileTimeLayout = "2006-01-02_150405"
)

// surfaceFilePath names one surface file. The second-resolution capture
// time plus the monotonically increasing sequence number keeps filenames
// unique within one run even when timestamps repeat.
func surfaceFilePath(folder string, t time.Time, seq uint32) string {
	name := fmt.Sprintf("%s_%04d_%s", t.UTC().Format(fileTimeLayout), seq, surfaceFileSuffix)
	return filepath.Join(folder, name)
}

func measurementFilePath(folder string, t time.Time) string {
	name := fmt.Sprintf("%s_%s", t.UTC().Format(fileTimeLayout), measurementFileSuffix)
	return filepath.Join(folder, name)
}
