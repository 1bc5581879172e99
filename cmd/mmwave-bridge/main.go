// Command mmwave-bridge bridges a TI IWR1443 mmWave radar's control and
// data UARTs to the local machine: operator commands typed on stdin are
// forwarded to the radar's CLI port, and decoded telemetry frames are
// written to standard output as newline-delimited JSON.
//
// No flags, no environment variables (spec.md §6: "one executable per
// variant"). Port names are compiled-in constants below; building a
// variant for different hardware enumeration means editing those
// constants, not passing new arguments.
package main

import (
	"bufio"
	"context"
	"os"

	"github.com/llhlol/mmwave-bridge/internal/decoder"
	"github.com/llhlol/mmwave-bridge/internal/framer"
	"github.com/llhlol/mmwave-bridge/internal/logging"
	"github.com/llhlol/mmwave-bridge/internal/reactor"
	"github.com/llhlol/mmwave-bridge/internal/serial"
	"github.com/llhlol/mmwave-bridge/internal/telemetry"

	"github.com/llhlol/mmwave-bridge/internal/control"
	"github.com/llhlol/mmwave-bridge/sink"
)

// Default port assignment for the IWR1443's XDS110 dual-UART enumeration:
// the lower-numbered ACM device is the CLI/config port, the next is the
// telemetry data port.
const (
	defaultControlPort = "/dev/ttyACM0"
	defaultDataPort    = "/dev/ttyACM1"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := logging.New(logging.DefaultConfig())
	defer logger.Close()

	reg := telemetry.New()
	metricsSrv, err := telemetry.NewServer(reg)
	if err != nil {
		logger.Warnf("main: metrics server not started: %v", err)
	} else {
		go func() {
			if err := metricsSrv.Serve(); err != nil {
				logger.Warnf("main: metrics server stopped: %v", err)
			}
		}()
		defer metricsSrv.Shutdown(context.Background())
	}

	r := reactor.New(logger)

	ctrl := control.New(r, logger, reg, serial.OpenPort, os.Stdout)
	if err := ctrl.Open(defaultControlPort); err != nil {
		logger.Errorf("main: failed to open control port %s: %v", defaultControlPort, err)
		return 1
	}

	decode := func(frame []byte) (string, error) {
		return decoder.DecodeWithObserver(frame, reg)
	}
	data := framer.New(r, logger, reg, serial.OpenPort, decode, sink.NewStdout())
	if err := data.Open(defaultDataPort); err != nil {
		logger.Errorf("main: failed to open data port %s: %v", defaultDataPort, err)
		return 1
	}

	reactorDone := make(chan struct{})
	go func() {
		r.Run()
		close(reactorDone)
	}()

	stdin := bufio.NewScanner(os.Stdin)
	for stdin.Scan() {
		line := stdin.Text()
		if line == "exit" {
			break
		}
		ctrl.Write([]byte(line + "\n"))
	}

	r.Quit()
	<-reactorDone

	return 0
}
