// Package main is an interactive surface logger: one ENTER starts a
// capture session, the next ENTER stops it. It currently captures from a
// simulated sensor; a real Gocator is attached by providing a
// SensorClient implementation backed by the vendor SDK.
package main

import (
	"bufio"
	"context"
	"os"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/nofima/gocatorlog"
)

var (
	defaultDataFolder = "data"
	logger            = golog.NewDevelopmentLogger("gocatorlog")
)

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	DataFolder string `flag:"datafolder,usage=output folder for capture files"`
	Width      int    `flag:"width,default=320,usage=simulated surface width in samples"`
	Length     int    `flag:"length,default=240,usage=simulated surface length in rows"`
	FrameRate  int    `flag:"framerate,default=5,usage=simulated frame rate in Hz"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments

	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	dataFolder, err := gocatorlog.GetDataFolder(argsParsed.DataFolder, defaultDataFolder, logger)
	if err != nil {
		return err
	}

	sensor := gocatorlog.NewFakeSensor(uint32(argsParsed.Width), uint32(argsParsed.Length), float64(argsParsed.FrameRate))
	session := gocatorlog.NewSession(sensor, dataFolder, logger)

	logger.Info("press ENTER to start logging data, press ENTER again to stop")
	if err := waitForEnter(ctx); err != nil {
		return err
	}

	if err := session.Start(ctx); err != nil {
		return err
	}
	logger.Info("waiting for surface measurements...")

	if err := waitForEnter(ctx); err != nil {
		// Interrupted; still shut the session down cleanly.
		return multierr.Combine(err, session.Stop(context.Background()))
	}
	return session.Stop(ctx)
}

func waitForEnter(ctx context.Context) error {
	pressed := make(chan struct{})
	utils.PanicCapturingGo(func() {
		reader := bufio.NewReader(os.Stdin)
		_, _ = reader.ReadString('\n')
		close(pressed)
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-pressed:
		return nil
	}
}
