// Command modem is a software AFSK/FX.25 TNC: it loads a JSON channel
// configuration (§4.16), opens each channel's audio sink and PTT control,
// optionally serves the TCP control protocol of §4.15 for one channel, and
// transmits a single packet given on the command line.
//
// Grounded on the teacher's cmd/direwolf/main.go for its overall flag-parse
// -> configure -> run shape, using github.com/spf13/pflag exactly as the
// teacher does, but without any of the cgo/C-config plumbing: configuration
// here is the package's own JSON loader.
package main

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/kb9vht/afsk25/internal/ax25"
	"github.com/kb9vht/afsk25/internal/config"
	"github.com/kb9vht/afsk25/internal/control"
	"github.com/kb9vht/afsk25/internal/kiss/serialkiss"
	"github.com/kb9vht/afsk25/internal/kiss/tcpkiss"
	"github.com/kb9vht/afsk25/internal/logging"
	"github.com/kb9vht/afsk25/internal/modem"
	"github.com/kb9vht/afsk25/internal/ptt"
)

func main() {
	var configPath = pflag.StringP("config", "c", "", "Configuration file (JSON). Defaults to ./modem.json or ./config.json.")
	var channelName = pflag.StringP("channel", "n", "", "Name of the modulators[] entry to transmit on. Defaults to the first.")
	var from = pflag.String("from", "", "Source callsign, e.g. N0CALL-1.")
	var to = pflag.String("to", "APRS", "Destination callsign.")
	var via = pflag.StringSlice("via", nil, "Digipeater path, e.g. --via WIDE1-1,WIDE2-2.")
	var text = pflag.String("text", "", "Information field to send.")
	var controlAddr = pflag.String("control", "", "If set, serve the control protocol on this address (e.g. :8001) for one channel and block.")
	var logLevel = pflag.String("log-level", "info", "Log level: debug, info, warn, error.")
	var help = pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "modem - a software AFSK/FX.25 TNC.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: modem [options]\n\n")
		pflag.PrintDefaults()
	}
	// Bad options exit 1 (pflag's own ExitOnError handling would exit 2).
	pflag.CommandLine.Init(os.Args[0], pflag.ContinueOnError)
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		pflag.Usage()
		os.Exit(1)
	}

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := logging.New(*logLevel)

	path, err := resolveConfigPath(*configPath)
	if err != nil {
		logger.Error("no configuration file found", "err", err)
		os.Exit(1)
	}

	file, err := config.Load(path)
	if err != nil {
		logger.Error("config load failed", "err", err)
		os.Exit(1)
	}

	channels, err := buildChannels(file, logger)
	if err != nil {
		logger.Error("building channels failed", "err", err)
		os.Exit(1)
	}

	startKISSListeners(file.KISSListeners, channels, logger)

	if *controlAddr != "" {
		runControlServers(*controlAddr, channels, logger)
		return
	}

	if *from == "" || *text == "" {
		if len(file.KISSListeners) > 0 {
			select {} // block forever serving the KISS listeners started above
		}
		pflag.Usage()
		os.Exit(1)
	}

	name := *channelName
	if name == "" && len(file.Modulators) > 0 {
		name = file.Modulators[0].Name
	}
	ch, err := selectChannel(channels, name)
	if err != nil {
		logger.Error("channel selection failed", "err", err)
		os.Exit(1)
	}

	pkt, err := buildPacket(*from, *to, *via, *text)
	if err != nil {
		logger.Error("building packet failed", "err", err)
		os.Exit(1)
	}

	if err := ch.Transmit(pkt); err != nil {
		logger.Error("transmit failed", "err", err)
		os.Exit(1)
	}
}

// resolveConfigPath implements the §4.17 search order: an explicit -c/
// --config path, else ./modem.json, else ./config.json.
func resolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	for _, candidate := range []string{"modem.json", "config.json"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no -c/--config given and neither ./modem.json nor ./config.json exists")
}

// buildChannels realizes every modulators[] entry into a live modem.Channel,
// building each entry's audio sink and (in ptt_controls dependency order)
// PTT controller along the way.
func buildChannels(file *config.File, logger *log.Logger) (map[string]*modem.Channel, error) {
	sinks := make(map[string]*config.AudioStream, len(file.AudioStreams))
	for i := range file.AudioStreams {
		sinks[file.AudioStreams[i].Name] = &file.AudioStreams[i]
	}

	controllers, err := buildAllPTT(file.PTTControls)
	if err != nil {
		return nil, err
	}

	channels := make(map[string]*modem.Channel, len(file.Modulators))
	for _, m := range file.Modulators {
		sink, err := config.BuildSink(*sinks[m.AudioStream])
		if err != nil {
			return nil, fmt.Errorf("channel %q: %w", m.Name, err)
		}
		controller, ok := controllers[m.PTTControl]
		if !ok {
			return nil, fmt.Errorf("channel %q: ptt control %q was not built", m.Name, m.PTTControl)
		}
		orch := modem.New(m.ToModemConfig(), sink, controller, logger)
		channels[m.Name] = modem.NewChannel(m.Name, orch)
	}
	return channels, nil
}

// buildAllPTT builds every ptt_controls entry, resolving "chained" members
// by building non-chained entries first.
func buildAllPTT(entries []config.PTTControl) (map[string]ptt.Controller, error) {
	resolved := make(map[string]ptt.Controller, len(entries))

	var chained []config.PTTControl
	for _, p := range entries {
		if p.Type == "chained" {
			chained = append(chained, p)
			continue
		}
		c, err := config.BuildPTT(p, resolved)
		if err != nil {
			return nil, fmt.Errorf("ptt control %q: %w", p.Name, err)
		}
		resolved[p.Name] = c
	}
	for _, p := range chained {
		c, err := config.BuildPTT(p, resolved)
		if err != nil {
			return nil, fmt.Errorf("ptt control %q: %w", p.Name, err)
		}
		resolved[p.Name] = c
	}
	return resolved, nil
}

func selectChannel(channels map[string]*modem.Channel, name string) (*modem.Channel, error) {
	if name != "" {
		ch, ok := channels[name]
		if !ok {
			return nil, fmt.Errorf("no such channel %q", name)
		}
		return ch, nil
	}
	for _, ch := range channels {
		return ch, nil
	}
	return nil, fmt.Errorf("no modulators configured")
}

// buildPacket assembles an ax25.Packet from the command-line --from/--to/
// --via/--text flags.
func buildPacket(from, to string, via []string, text string) (ax25.Packet, error) {
	fromAddr, err := ax25.ParseAddress(strings.ToUpper(from))
	if err != nil {
		return ax25.Packet{}, fmt.Errorf("--from: %w", err)
	}
	toAddr, err := ax25.ParseAddress(strings.ToUpper(to))
	if err != nil {
		return ax25.Packet{}, fmt.Errorf("--to: %w", err)
	}
	path := make([]ax25.Address, 0, len(via))
	for _, v := range via {
		addr, err := ax25.ParseAddress(strings.ToUpper(v))
		if err != nil {
			return ax25.Packet{}, fmt.Errorf("--via %q: %w", v, err)
		}
		path = append(path, addr)
	}
	pkt := ax25.Packet{From: fromAddr, To: toAddr, Path: path, Data: []byte(text)}
	return pkt, pkt.Validate()
}

// startKISSListeners opens every kiss_listeners[] entry and serves it on
// its own goroutine: each client data frame is parsed as an FCS-stripped
// AX.25 frame (§4.12) and handed to its configured channel's transmitter.
func startKISSListeners(entries []config.KISSListener, channels map[string]*modem.Channel, logger *log.Logger) {
	for _, entry := range entries {
		ch, ok := channels[entry.Channel]
		if !ok {
			logger.Error("kiss listener: no such channel", "listener", entry.Name, "channel", entry.Channel)
			continue
		}
		handle := func(port int, payload []byte) {
			pkt, err := ax25.TryDecodeFrameNoFCS(payload)
			if err != nil {
				logger.Warn("kiss listener: discarding unparseable frame", "listener", entry.Name, "err", err)
				return
			}
			if err := ch.Transmit(pkt); err != nil {
				logger.Error("kiss listener: transmit failed", "listener", entry.Name, "err", err)
			}
		}

		switch entry.Type {
		case "tcp":
			listener, err := net.Listen("tcp", entry.Address)
			if err != nil {
				logger.Error("kiss listener: listen failed", "listener", entry.Name, "err", err)
				continue
			}
			kl := tcpkiss.New(listener, handle, logger)
			logger.Info("kiss listener (tcp) started", "listener", entry.Name, "addr", entry.Address, "channel", entry.Channel)
			go func() {
				if err := kl.Serve(); err != nil {
					logger.Error("kiss listener stopped", "listener", entry.Name, "err", err)
				}
			}()
		case "serial":
			port, err := serialkiss.Open(entry.Device, entry.Baud)
			if err != nil {
				logger.Error("kiss listener: open failed", "listener", entry.Name, "err", err)
				continue
			}
			logger.Info("kiss listener (serial) started", "listener", entry.Name, "device", entry.Device, "channel", entry.Channel)
			go func() {
				if err := port.Serve(handle); err != nil {
					logger.Error("kiss listener stopped", "listener", entry.Name, "err", err)
				}
			}()
		}
	}
}

// runControlServers binds addr and serves one channel's control protocol on
// it, blocking forever. One control listener names one Target (§4.15), so
// multi-channel control setups run one modem process per channel.
func runControlServers(addr string, channels map[string]*modem.Channel, logger *log.Logger) {
	ch, err := selectChannel(channels, "")
	if err != nil {
		logger.Error("control server: no channel to serve", "err", err)
		os.Exit(1)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("control server: listen failed", "err", err)
		os.Exit(1)
	}

	srv := control.NewServer(listener, ch, logger)
	logger.Info("control server listening", "addr", addr, "channel", ch.Name())
	if err := srv.Serve(); err != nil {
		logger.Error("control server stopped", "err", err)
		os.Exit(1)
	}
}
