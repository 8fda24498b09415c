// Command slipcast-d exposes the dependency impact engine over HTTP: analysis
// endpoints, the audit log, reports and Prometheus metrics.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/slipcast-io/slipcast/pkg/api"
	"github.com/slipcast-io/slipcast/pkg/engine"
	"github.com/slipcast-io/slipcast/pkg/risk"
	"github.com/slipcast-io/slipcast/pkg/store"
	"github.com/slipcast-io/slipcast/pkg/store/redis"
)

const shutdownTimeout = 30 * time.Second

func main() {
	fmt.Println(`{"level":"info","msg":"system_started","component":"slipcast-d"}`)

	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Printf(`{"level":"fatal","msg":"invalid_config","error":"%v"}`+"\n", err)
		os.Exit(1)
	}

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		fmt.Printf(`{"level":"fatal","msg":"failed_to_init_store","error":"%v"}`+"\n", err)
		os.Exit(1)
	}
	fmt.Printf(`{"level":"info","msg":"store_initialized","path":"%s"}`+"\n", cfg.DBPath)

	eng := engine.New(risk.NewProvider())

	server := api.NewServer(eng, st, cfg.Addr)
	if cfg.TLSCert != "" && cfg.TLSKey != "" {
		server.SetTLS(cfg.TLSCert, cfg.TLSKey)
	}

	if cfg.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		server.SetMirror(redis.NewRecentAnalysesMirror(client))
		fmt.Printf(`{"level":"info","msg":"redis_mirror_enabled","addr":"%s"}`+"\n", cfg.RedisAddr)
	}

	go func() {
		if err := server.Start(); err != nil {
			fmt.Printf(`{"level":"fatal","msg":"server_failed","error":"%v"}`+"\n", err)
			os.Exit(1)
		}
	}()

	// Periodic audit log pruning.
	pruneDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				count, err := st.PruneAnalyses(context.Background(), cfg.Retention)
				if err != nil {
					log.Printf("Audit prune failed: %v", err)
				} else if count > 0 {
					log.Printf("Pruned %d audit records older than %s", count, cfg.Retention)
				}
			case <-pruneDone:
				return
			}
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigs
	fmt.Printf(`{"level":"info","msg":"shutdown_initiated","signal":"%s"}`+"\n", sig)

	close(pruneDone)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		fmt.Printf(`{"level":"error","msg":"failed_to_stop_server","error":"%v"}`+"\n", err)
	}

	if err := st.Close(); err != nil {
		fmt.Printf(`{"level":"error","msg":"failed_to_close_store","error":"%v"}`+"\n", err)
	} else {
		fmt.Println(`{"level":"info","msg":"store_closed"}`)
	}

	fmt.Println(`{"level":"info","msg":"shutdown_complete"}`)
}
