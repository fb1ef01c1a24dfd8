// Command bb_server runs the reference backend peer (package
// bambooserver) that a bb_proxy dials into over the transfer link.
// Grounded on the same cmd/main.go flag-parsing shape as bb_proxy;
// this side carries none of its hot-swap/prometheus/proxy-protocol
// surface since the distilled spec gives bambooserver no listener
// lifecycle requirements beyond "accept and serve" (§8 non-goals).
package main

import (
	"flag"
	"net"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bamboo-mc/bamboo/bambooserver"
	"github.com/bamboo-mc/bamboo/config"
)

const (
	exitOK           = 0
	exitConfigError  = 1
	exitRuntimeError = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfgPath := flag.String("config", "server.toml", "`path` to server.toml")
	flag.Parse()

	cfg, err := config.LoadServerConfig(*cfgPath)
	if err != nil {
		log.Error().Err(err).Msg("loading server config")
		return exitConfigError
	}

	listener, err := net.Listen("tcp", cfg.ListenTo)
	if err != nil {
		log.Error().Err(err).Str("listen", cfg.ListenTo).Msg("listening")
		return exitRuntimeError
	}

	srv := bambooserver.New(cfg.MOTD, cfg.MaxPlayers)
	log.Info().Str("listen", cfg.ListenTo).Str("motd", cfg.MOTD).Int("max_players", cfg.MaxPlayers).Msg("bb_server running")

	if err := srv.Serve(listener); err != nil {
		log.Error().Err(err).Msg("listener accept loop ended")
		return exitRuntimeError
	}
	return exitOK
}
