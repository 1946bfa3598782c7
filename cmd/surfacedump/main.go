// Package main decodes a surface file written by the logger, prints its
// header and sample statistics, and can export the surface as a PCD
// point cloud.
package main

import (
	"context"
	"os"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/rdk/pointcloud"
	"go.viam.com/utils"

	"github.com/nofima/gocatorlog"
)

var logger = golog.NewDevelopmentLogger("surfacedump")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	File string `flag:"0,required,usage=surface file to decode"`
	PCD  string `flag:"pcd,usage=write the surface as an ascii PCD file to this path"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments

	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	hdr, samples, err := gocatorlog.ReadSurfaceFile(argsParsed.File)
	if err != nil {
		return err
	}

	logger.Infof("tag:           %s", hdr.Tag)
	logger.Infof("timestamp:     %d", hdr.Timestamp)
	logger.Infof("dimensions:    %dx%d samples", hdr.Width, hdr.Length)
	logger.Infof("x offset/res:  %.3f mm / %.6f mm", hdr.XOffset, hdr.XResolution)
	logger.Infof("y offset/res:  %.3f mm / %.6f mm", hdr.YOffset, hdr.YResolution)
	logger.Infof("z offset/res:  %.3f mm / %.6f mm", hdr.ZOffset, hdr.ZResolution)
	logger.Infof("frame rate:    %.2f Hz", hdr.FrameRate)
	logger.Infof("exposure time: %.2f us", hdr.ExposureTime)

	valid := 0
	minSample, maxSample := int16(0), int16(0)
	for _, s := range samples {
		if s == gocatorlog.InvalidRange {
			continue
		}
		if valid == 0 || s < minSample {
			minSample = s
		}
		if valid == 0 || s > maxSample {
			maxSample = s
		}
		valid++
	}
	logger.Infof("samples:       %d valid of %d, range [%d, %d]", valid, len(samples), minSample, maxSample)

	if argsParsed.PCD == "" {
		return nil
	}

	pc, err := hdr.PointCloud(samples)
	if err != nil {
		return err
	}
	f, err := os.Create(argsParsed.PCD)
	if err != nil {
		return errors.Wrapf(err, "cannot create PCD file %s", argsParsed.PCD)
	}
	if err := pointcloud.ToPCD(pc, f, pointcloud.PCDAscii); err != nil {
		return multierr.Append(errors.Wrap(err, "cannot write PCD"), f.Close())
	}
	logger.Infof("point cloud with %d points written to %s", pc.Size(), argsParsed.PCD)
	return f.Close()
}
