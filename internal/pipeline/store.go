package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/you/deenreels/internal/logx"
)

const postedTTL = 30 * 24 * time.Hour

func keyPosted(source string) string { return "posted:" + source }
func keyQuota(ymd string) string     { return "quota:" + ymd }

func today() string { return time.Now().Format("20060102") }

func untilMidnight() time.Duration {
	now := time.Now()
	tom := now.Add(24 * time.Hour)
	mid := time.Date(tom.Year(), tom.Month(), tom.Day(), 0, 0, 0, 0, now.Location())
	return time.Until(mid)
}

// alreadyPosted reports whether this source was published within the dedup
// window. Without redis every unit counts as fresh.
func (pl *Pipeline) alreadyPosted(ctx context.Context, source string) bool {
	if pl.rdb == nil {
		return false
	}
	n, err := pl.rdb.Exists(ctx, keyPosted(source)).Result()
	if err != nil {
		lg := logx.FromCtx(ctx)
		lg.Warn().Err(err).Msg("dedup lookup failed")
		return false
	}
	return n > 0
}

func (pl *Pipeline) markPosted(ctx context.Context, source string) {
	if pl.rdb == nil {
		return
	}
	if err := pl.rdb.Set(ctx, keyPosted(source), 1, postedTTL).Err(); err != nil {
		lg := logx.FromCtx(ctx)
		lg.Warn().Err(err).Msg("dedup mark failed")
	}
}

// UnderDailyCap charges one publish against today's quota and reports
// whether the run may proceed. The counter expires at midnight.
func (pl *Pipeline) UnderDailyCap(ctx context.Context) (bool, error) {
	if pl.rdb == nil {
		return true, nil
	}
	key := keyQuota(today())
	used, err := pl.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("quota incr: %w", err)
	}
	pl.rdb.Expire(ctx, key, untilMidnight())
	if int(used) > pl.cfg.DailyMax {
		pl.rdb.Decr(ctx, key)
		return false, nil
	}
	return true, nil
}
