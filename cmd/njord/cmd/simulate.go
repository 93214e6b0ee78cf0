package cmd

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/ssargent/njorddb/pkg/catalog"
	"github.com/ssargent/njorddb/pkg/config"
)

// simulateCmd soaks the index with moving entities and concurrent queries.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a mixed read/write workload against the index",
	Long: `Spawn a fleet of entities that keep moving while area queries run
against the index. Useful as a smoke test of the concurrent lock protocol
and as a rough throughput probe.

Example:
  njord simulate --entities 1000 --duration 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entities, _ := cmd.Flags().GetInt("entities")
		workers, _ := cmd.Flags().GetInt("workers")
		duration, _ := cmd.Flags().GetDuration("duration")

		cat, err := catalogFromCmd(cmd)
		if err != nil {
			return err
		}
		cfg, err := configFromCmd(cmd)
		if err != nil {
			return err
		}

		world := cfg.World
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))

		log.Printf("Seeding %d entities...", entities)
		ids := make([]ksuid.KSUID, 0, entities)
		for i := 0; i < entities; i++ {
			x := world.OriginX + rng.Float64()*world.Width
			y := world.OriginY + rng.Float64()*world.Height
			e, err := cat.Put(x, y, nil)
			if err != nil {
				return err
			}
			ids = append(ids, e.ID)
		}

		var moves, queries, found int64
		deadline := time.Now().Add(duration)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(seed int64) {
				defer wg.Done()
				mover(cat, world, ids, seed, deadline, &moves)
			}(int64(w))

			wg.Add(1)
			go func(seed int64) {
				defer wg.Done()
				querier(cat, world, seed, deadline, &queries, &found)
			}(int64(workers + w))
		}
		wg.Wait()

		stats := cat.Stats()
		fmt.Printf("moves=%d queries=%d found=%d\n", moves, queries, found)
		fmt.Printf("entities=%d index nodes=%d max depth=%d\n",
			stats.Entities, stats.Index.Nodes, stats.Index.MaxDepth)
		return nil
	},
}

// mover keeps relocating random entities by small steps until the deadline.
func mover(cat *catalog.Catalog, world config.World, ids []ksuid.KSUID, seed int64, deadline time.Time, moves *int64) {
	rng := rand.New(rand.NewSource(seed))
	for time.Now().Before(deadline) {
		id := ids[rng.Intn(len(ids))]
		e, err := cat.Get(id)
		if err != nil {
			continue
		}

		x := clamp(e.X+(rng.Float64()-0.5)*world.Width/100, world.OriginX, world.OriginX+world.Width)
		y := clamp(e.Y+(rng.Float64()-0.5)*world.Height/100, world.OriginY, world.OriginY+world.Height)

		if _, err := cat.Move(id, x, y); err == nil {
			atomic.AddInt64(moves, 1)
		}
	}
}

// querier runs random area queries until the deadline.
func querier(cat *catalog.Catalog, world config.World, seed int64, deadline time.Time, queries, found *int64) {
	rng := rand.New(rand.NewSource(seed))
	for time.Now().Before(deadline) {
		w := world.Width / 10
		h := world.Height / 10
		x := world.OriginX + rng.Float64()*(world.Width-w)
		y := world.OriginY + rng.Float64()*(world.Height-h)

		hits := cat.FindInArea(x, y, w, h)
		atomic.AddInt64(queries, 1)
		atomic.AddInt64(found, int64(len(hits)))
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Int("entities", 1000, "Number of entities to seed")
	simulateCmd.Flags().Int("workers", 4, "Mover/querier goroutine pairs")
	simulateCmd.Flags().Duration("duration", 10*time.Second, "How long to run the workload")
}
