package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@daily", func() {
		if err := a.store.PruneOprLogs(context.Background(), time.Now().Add(-time.Hour*24*365)); err != nil {
			zap.L().Error("opr log prune failed", zap.Error(err))
		}
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@hourly", func() {
		a.SchedFeaturedSweepTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedFeaturedSweepTask drops featured entries whose target entity was
// deleted and renumbers each list
func (a *Application) SchedFeaturedSweepTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx := context.Background()
	for listType, cur := range a.curators {
		if err := cur.Sweep(ctx); err != nil {
			zap.L().Error("featured sweep failed",
				zap.String("list_type", listType), zap.Error(err))
		}
	}
}
