// Command bb_proxy is the client-facing edge: it accepts Java Edition
// connections, runs Handshake/Status/Login itself, then multiplexes
// every Play-state session over one transfer link to a bb_server (or
// any other peer speaking the same protocol). Grounded on the
// teacher's cmd/main.go and worker/run.go (RunProxy/createListener/
// tableflipListener), switched from its per-domain WorkerManager to
// supervisor.Pool and from its JSON config to config.LoadProxyConfig.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/cloudflare/tableflip"
	"github.com/pires/go-proxyproto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bamboo-mc/bamboo/auth"
	"github.com/bamboo-mc/bamboo/config"
	"github.com/bamboo-mc/bamboo/conn"
	"github.com/bamboo-mc/bamboo/supervisor"
	"github.com/bamboo-mc/bamboo/transfer"
)

// exit codes per spec: 0 clean shutdown, 1 configuration error, 2
// fatal runtime error.
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

	cfgPath := flag.String("config", "proxy.toml", "`path` to proxy.toml")
	flag.Parse()

	cfg, err := config.LoadProxyConfig(*cfgPath)
	if err != nil {
		log.Error().Err(err).Msg("loading proxy config")
		return exitConfigError
	}

	link, err := dialBackend(cfg)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.Backend.Address).Msg("dialing backend")
		return exitRuntimeError
	}
	defer link.Close()

	loginCfg := conn.LoginConfig{OnlineMode: cfg.OnlineMode}
	if cfg.OnlineMode {
		keys, err := auth.NewKeyPair()
		if err != nil {
			log.Error().Err(err).Msg("generating RSA key pair")
			return exitRuntimeError
		}
		loginCfg.Keys = keys
		loginCfg.Session = &auth.SessionClient{}
	}

	workers := cfg.Workers.Count
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	statusCache := supervisor.NewStatusCache(cfg.StatusCacheCooldown, statusJSON)

	pool := supervisor.NewPool(link, supervisor.Config{
		StatusJSON:     statusCache.JSON,
		Login:          loginCfg,
		BackendName:    cfg.Backend.Address,
		Workers:        workers,
		BackpressureHi: cfg.Workers.BackpressureHi,
		BackpressureLo: cfg.Workers.BackpressureLo,
		LoginRateLimit: cfg.RateLimit.LoginsPerWindow,
	})
	pool.Start()

	if cfg.Prometheus.Enabled {
		serveMetrics(cfg.Prometheus.Bind)
	}

	listener, upg, err := createListener(cfg)
	if err != nil {
		log.Error().Err(err).Msg("creating listener")
		return exitRuntimeError
	}

	go func() {
		if err := pool.Serve(listener); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Error().Err(err).Msg("listener accept loop ended")
		}
	}()

	log.Info().Str("listen", cfg.ListenTo).Str("backend", cfg.Backend.Address).Msg("bb_proxy running")

	if upg == nil {
		select {}
	}
	if err := upg.Ready(); err != nil {
		log.Error().Err(err).Msg("tableflip ready")
		return exitRuntimeError
	}
	<-upg.Exit()
	return exitOK
}

func dialBackend(cfg config.ProxyConfig) (*transfer.Link, error) {
	addr := cfg.Backend.Address
	if addr == "" {
		return nil, fmt.Errorf("bb_proxy: backend.address is empty")
	}
	return transfer.Dial(addr)
}

func statusJSON() string {
	return `{"version":{"name":"Bamboo","protocol":0},"players":{"max":-1,"online":0},"description":{"text":"A Bamboo proxy"}}`
}

// createListener mirrors worker/run.go's hot-swap switch: a plain
// net.Listen normally, or a tableflip-managed listener plus a SIGHUP
// handler when hot-swapping is enabled, optionally wrapped for the
// PROXY protocol either way.
func createListener(cfg config.ProxyConfig) (net.Listener, *tableflip.Upgrader, error) {
	var (
		ln  net.Listener
		upg *tableflip.Upgrader
		err error
	)

	if !cfg.HotSwap.Enabled || runtime.GOOS == "windows" {
		ln, err = net.Listen("tcp", cfg.ListenTo)
	} else {
		upg, err = tableflip.New(tableflip.Options{PIDFile: cfg.HotSwap.PIDFile})
		if err != nil {
			return nil, nil, fmt.Errorf("bb_proxy: tableflip: %w", err)
		}
		go func() {
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGHUP)
			for range sig {
				if err := upg.Upgrade(); err != nil {
					log.Warn().Err(err).Msg("tableflip upgrade failed")
				}
			}
		}()
		ln, err = upg.Listen("tcp", cfg.ListenTo)
	}
	if err != nil {
		return nil, nil, err
	}

	if cfg.AcceptProxyProtocol {
		ln = &proxyproto.Listener{
			Listener: ln,
			Policy: func(net.Addr) (proxyproto.Policy, error) {
				return proxyproto.REQUIRE, nil
			},
		}
	}
	return ln, upg, nil
}

func serveMetrics(bind string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: bind, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("prometheus server stopped")
		}
	}()
	log.Info().Str("bind", bind).Msg("prometheus metrics listening")
}
