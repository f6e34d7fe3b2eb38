package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yungbote/fotherbys-backend/internal/app"
	"github.com/yungbote/fotherbys-backend/internal/platform/redis"
	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

// lot-events prints lot lifecycle events published by the API, one JSON object per line.
func main() {
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := app.LoadConfig(log)
	bus, err := redis.NewLotEventBus(log, cfg.Redis)
	if err != nil {
		log.Error("lot event bus unavailable", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	enc := json.NewEncoder(os.Stdout)
	log.Info("Tailing lot events", "channel", bus.Channel())
	err = bus.Subscribe(ctx, func(evt types.LotEvent) {
		if err := enc.Encode(evt); err != nil {
			log.Warn("encode lot event", "error", err)
		}
	})
	if err != nil {
		log.Error("subscribe failed", "error", err)
		os.Exit(1)
	}
	<-ctx.Done()
}
