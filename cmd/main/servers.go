package main

import (
	"stock-screener/src/config"
	datasource "stock-screener/src/data_source"
	"stock-screener/src/grpc_control"
	"stock-screener/src/interfaces"
	"stock-screener/src/logger"
	"stock-screener/src/refresh"
	"stock-screener/src/server"
)

// -----------------------------------------------------------------------------

type servers struct {
	http    *server.HTTPServer
	control *grpc_control.ControlServer
}

func newServers(conf *config.Config, configPath string, o *refresh.Orchestrator, provider *datasource.MultiSourceManager) *servers {
	httpSrv := server.NewHTTPServer(conf.MConfig, o, logger.NewLogger(conf.MConfig, "HTTPServer"))

	controlLogger := logger.NewLogger(conf.MConfig, "ControlService")
	service := grpc_control.NewControlService(conf, configPath, o, provider, controlLogger)
	control := grpc_control.NewControlServer(conf.MConfig, service, controlLogger)

	return &servers{http: httpSrv, control: control}
}

func (s *servers) all() map[string]interfaces.IServer {
	return map[string]interfaces.IServer{
		"HTTP": s.http,
		"gRPC": s.control,
	}
}

// -----------------------------------------------------------------------------

// startServers launches every server in its own goroutine. A server that
// fails to serve takes the process down.
func startServers(list map[string]interfaces.IServer, appLogger *logger.Logger) {
	for name, srv := range list {
		go func() {
			if err := srv.Start(); err != nil {
				appLogger.Critical("%s server failed: %v", name, err)
			}
		}()
	}
}

// -----------------------------------------------------------------------------

// stopServers stops every server and reports how many failed to stop cleanly.
func stopServers(list map[string]interfaces.IServer, appLogger *logger.Logger) int {
	failed := 0
	for name, srv := range list {
		if err := srv.Stop(); err != nil {
			appLogger.Error("%s shutdown: %v", name, err)
			failed++
		}
	}
	return failed
}
