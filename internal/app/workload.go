package app

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/nutsalhan87/zond"
	"github.com/nutsalhan87/zond/zvec"
)

// runWorker drives one instrumented vector through a pseudo-random op
// script. Each worker derives its rng from the base seed plus its own
// index, so the op sequence per worker is reproducible regardless of
// scheduling.
func runWorker(ctx context.Context, worker int, cfg WorkloadConfig, consumer zond.Consumer, policy zond.Policy, logger *zap.Logger) error {
	rng := rand.New(rand.NewSource(cfg.Seed + int64(worker)))

	v := zvec.WithCapacity[int](8, consumer, policy)
	defer func() {
		if err := v.Close(); err != nil {
			logger.Warn("close vector failed", zap.Error(err))
		}
	}()

	for i := 0; i < cfg.OpsPerWorker; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		step(v, rng)
	}

	logger.Debug("worker finished",
		zap.Int("worker", worker),
		zap.Uint64("instance", v.ID()),
	)
	return nil
}

// step applies one weighted random operation. Pushes dominate so the
// vector keeps accumulating material for the structural ops to chew on.
// Introspection calls count as ops too; they are recorded like any
// other.
func step(v *zvec.Vec[int], rng *rand.Rand) {
	switch n := rng.Intn(100); {
	case n < 40:
		v.Push(rng.Intn(1000))
	case n < 50:
		v.Pop()
	case n < 58:
		v.Insert(rng.Intn(v.Len()+1), rng.Intn(1000))
	case n < 62:
		if l := v.Len(); l > 0 {
			v.Remove(rng.Intn(l))
		}
	case n < 66:
		if l := v.Len(); l > 0 {
			v.SwapRemove(rng.Intn(l))
		}
	case n < 72:
		v.Append(rng.Intn(1000), rng.Intn(1000), rng.Intn(1000))
	case n < 76:
		if l := v.Len(); l > 1 {
			start := rng.Intn(l)
			v.AppendWithin(start, start+rng.Intn(l-start)+1)
		}
	case n < 80:
		if l := v.Len(); l > 1 {
			start := rng.Intn(l)
			v.Delete(start, start+rng.Intn(l-start)+1)
		}
	case n < 83:
		v.Truncate(rng.Intn(v.Len() + 1))
	case n < 86:
		v.Resize(rng.Intn(v.Len()+8), rng.Intn(10))
	case n < 88:
		v.SplitOff(rng.Intn(v.Len() + 1))
	case n < 90:
		zvec.Dedup(v)
	case n < 91:
		v.Clear()
	case n < 93:
		floor := rng.Intn(1000)
		v.Retain(func(x int) bool { return x >= floor })
	case n < 95:
		if l := v.Len(); l > 0 {
			v.At(rng.Intn(l))
		}
	case n < 96:
		v.Values()
	case n < 97:
		v.Grow(rng.Intn(32))
	case n < 98:
		v.Clip()
	case n < 99:
		v.IsEmpty()
	default:
		v.Cap()
	}
}
