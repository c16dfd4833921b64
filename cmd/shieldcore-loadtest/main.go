package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	shieldcore "github.com/shieldhq/shieldcore"
	"github.com/shieldhq/shieldcore/permission"
)

func main() {
	var (
		users       = flag.Int("users", 1000, "number of principals to exercise")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (decide + record + query)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "senator:", "store key prefix")
	)
	flag.Parse()

	if *users <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := shieldcore.DefaultConfig()
	cfg.Store.Prefix = *prefix

	engine, err := shieldcore.New().
		WithConfig(cfg).
		WithRedis(client).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	principals := seedPrincipals(engine, *users)
	tokens := engine.Catalog().Tokens()

	decideStats := runDecidePhase(engine, principals, tokens, *ops, *concurrency)
	recordStats := runRecordPhase(ctx, engine, principals, *ops, *concurrency)
	queryStats := runQueryPhase(ctx, engine, principals, *ops/10, *concurrency)

	fmt.Println("---- results ----")
	printStats("decide", decideStats)
	printStats("record", recordStats)
	printStats("query", queryStats)

	snapshot := engine.MetricsSnapshot()
	fmt.Printf("allowed=%d denied=%d recorded=%d write_failures=%d ops_dropped=%d\n",
		snapshot.Counters[shieldcore.MetricAuthzAllowed],
		snapshot.Counters[shieldcore.MetricAuthzDenied],
		snapshot.Counters[shieldcore.MetricActivityRecorded],
		snapshot.Counters[shieldcore.MetricActivityWriteFailure],
		engine.OpsDropped(),
	)
}

func seedPrincipals(engine *shieldcore.Engine, users int) []*shieldcore.Principal {
	roles := []string{permission.RoleUser, permission.RoleManager, permission.RoleAdmin}

	out := make([]*shieldcore.Principal, users)
	for i := 0; i < users; i++ {
		role := roles[i%len(roles)]
		out[i] = &shieldcore.Principal{
			UserID:      fmt.Sprintf("load-user-%d", i),
			Role:        role,
			Permissions: engine.DerivePermissions(role),
		}
	}
	return out
}

func runDecidePhase(engine *shieldcore.Engine, principals []*shieldcore.Principal, tokens []string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				p := principals[r.Intn(len(principals))]
				token := tokens[r.Intn(len(tokens))]
				t0 := time.Now()
				_ = engine.Can(p, token)
				d := time.Since(t0)
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, 0)
}

func runRecordPhase(ctx context.Context, engine *shieldcore.Engine, principals []*shieldcore.Principal, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				p := principals[r.Intn(len(principals))]
				t0 := time.Now()
				engine.RecordActivity(ctx, shieldcore.ActivityEntry{
					UserID: p.UserID,
					Action: "document.view",
				})
				d := time.Since(t0)
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)

	failures := int64(engine.MetricsSnapshot().Counters[shieldcore.MetricActivityWriteFailure])
	return computeStats(total, latencies, failures)
}

func runQueryPhase(ctx context.Context, engine *shieldcore.Engine, principals []*shieldcore.Principal, ops, concurrency int) phaseStats {
	if ops <= 0 {
		ops = 1
	}

	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*4099))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				p := principals[r.Intn(len(principals))]
				t0 := time.Now()
				_, err := engine.ActivityLogs(ctx, shieldcore.ActivityFilter{UserID: p.UserID, Limit: 20})
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
