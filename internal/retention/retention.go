package retention

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/adhocore/gronx"

	"securechat/internal/engine"
)

// DefaultCron runs the sweep at the top of every hour.
const DefaultCron = "0 * * * *"

// Start runs one immediate sweep, then schedules recurring sweeps on the
// given cron expression. Returns a cancel func that stops the scheduler.
func Start(ctx context.Context, eng *engine.Engine, cronExpr string) (context.CancelFunc, error) {
	if cronExpr == "" {
		cronExpr = DefaultCron
	}
	if !gronx.IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid retention cron expression: %s", cronExpr)
	}

	if removed, err := eng.SweepNow(); err != nil {
		log.Printf("retention sweep failed: %v", err)
	} else if removed > 0 {
		log.Printf("retention sweep removed=%d", removed)
	}

	ctx, cancel := context.WithCancel(ctx)
	go run(ctx, eng, cronExpr)
	log.Printf("retention scheduler started cron=%q", cronExpr)
	return cancel, nil
}

func run(ctx context.Context, eng *engine.Engine, cronExpr string) {
	for {
		next, err := gronx.NextTickAfter(cronExpr, time.Now().UTC(), false)
		if err != nil {
			log.Printf("retention next tick failed: %v", err)
			select {
			case <-time.After(30 * time.Second):
				continue
			case <-ctx.Done():
				return
			}
		}

		select {
		case <-time.After(time.Until(next)):
			if removed, err := eng.SweepNow(); err != nil {
				log.Printf("retention sweep failed: %v", err)
			} else if removed > 0 {
				log.Printf("retention sweep removed=%d", removed)
			}
		case <-ctx.Done():
			return
		}
	}
}
