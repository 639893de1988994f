package main

import (
	"context"
	"os"
	"os/signal"

	"portal/api"
	"portal/config"
	"portal/db"
	"portal/message"
	"portal/service"
	observability "portal/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/sirupsen/logrus"
)

func main() {
	log.Init(logrus.InfoLevel)

	cfg, err := config.ParseEnv()
	if err != nil {
		panic(err)
	}

	tp := observability.ConfigureTraceProvider()
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	conn, err := db.NewDBConn(cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	defer conn.Close()
	conn.MigrateSchema()

	redisClient := message.NewRedisClient(cfg.RedisAddr)
	defer redisClient.Close()

	documentStore := api.NewImageHostClient(cfg.ImageHostURL, cfg.ImageHostKey)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	svc := service.New(
		redisClient,
		documentStore,
		conn,
		cfg.BindAddr,
		cfg.JWTSecret,
	)

	if err := svc.Run(ctx); err != nil {
		panic(err)
	}
}
