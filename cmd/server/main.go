package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"promoadmin/internal/api"
	"promoadmin/internal/config"
	"promoadmin/internal/logger"
	"promoadmin/internal/presentation"
	"promoadmin/internal/store"
	"promoadmin/internal/store/memstore"
	"promoadmin/internal/store/pgstore"
)

// configExitCode: -h/-help завершает процесс успешно, прочие ошибки с кодом 2.
func configExitCode(err error, stderr io.Writer) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	fmt.Fprintf(stderr, "promoadmin: config: %v\n", err)
	return 2
}

func main() {
	cfg, err := config.Load("config.json", os.Args[1:])
	if err != nil {
		os.Exit(configExitCode(err, os.Stderr))
	}
	pool, _ := cfg.Pool() // проверено в config.Load
	log := logger.New(cfg.LogLevel)
	if log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Объявления коллекций + overrides
	reg, err := presentation.Load(cfg.MetaDir, cfg.OverridesFile)
	if err != nil {
		log.WithError(err).Fatal("collection metadata load failed")
	}
	log.WithField("collections", reg.Len()).Info("collection metadata loaded")
	for _, it := range reg.Lint() {
		log.WithFields(logrus.Fields{"entity": it.Entity, "field": it.Field, "code": it.Code}).Warn(it.Message)
	}

	// 2. Хранилище: Postgres, если задан URL, иначе in-memory
	opts := store.Options{UniquePairs: cfg.UniqueLinks}
	var st store.Store
	if cfg.DBURL != "" {
		pgs, err := pgstore.Open(context.Background(), cfg.DBURL, pool, opts, cfg.AutoMigrate, log)
		if err != nil {
			log.WithError(err).Fatal("postgres open failed")
		}
		st = pgs
		log.Info("using postgres store")
	} else {
		st = memstore.New(opts)
		log.Warn("DB URL is empty, using in-memory store")
	}
	defer st.Close()

	// 3. REST API
	srv := api.NewServer(reg, st, log)
	srv.MetaDir = cfg.MetaDir
	srv.OverridesFile = cfg.OverridesFile

	log.WithField("port", cfg.Port).Info("starting promoadmin")
	if err := api.RunServer(":"+cfg.Port, srv); err != nil {
		log.WithError(err).Error("server stopped")
	}
}
