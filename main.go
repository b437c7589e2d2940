package main

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"github.com/calliope-music/calliope/biz/handler"
	"github.com/calliope-music/calliope/biz/router"
	"github.com/calliope-music/calliope/biz/service"
	"github.com/calliope-music/calliope/pkg/config"
	"github.com/calliope-music/calliope/pkg/database"
	"github.com/calliope-music/calliope/pkg/storage"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		hlog.Fatalf("load config: %v", err)
	}

	gormDB, err := database.Open(cfg.Database)
	if err != nil {
		hlog.Fatalf("open database: %v", err)
	}

	if err := service.EnsureSchema(context.Background(), gormDB); err != nil {
		hlog.Fatalf("migrate database: %v", err)
	}

	store, err := storage.NewStore(cfg.Storage)
	if err != nil {
		var cfgErr *storage.ConfigError
		if errors.As(err, &cfgErr) {
			hlog.Fatalf("storage misconfigured: %v", err)
		}
		hlog.Fatalf("init storage: %v", err)
	}
	hlog.Infof("serving media from %s", store.BasePath())

	svc := service.NewService(gormDB, store, cfg.Session.TTL())

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := svc.PruneExpiredSessions(context.Background()); err != nil {
				hlog.Warnf("prune sessions: %v", err)
			}
		}
	}()

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		// Room for the two 10 MiB upload parts plus form overhead.
		server.WithMaxRequestBodySize(32*1024*1024),
	)
	router.Register(h, handler.NewHandler(svc), svc, cfg)

	hlog.Infof("listening on %s", cfg.Server.Address)
	h.Spin()
}
