package blogfront

import (
	"context"
	"time"

	"github.com/eringen/blogfront/indexnow"
)

// startIndexNowLoop submits the sitemap for the configured site URL once
// after a short delay and then every IndexNow.Every. It is off when Every
// is zero.
func (a *App) startIndexNowLoop() {
	period := a.Config.IndexNow.Every
	if period <= 0 {
		return
	}
	target, err := indexnow.TargetFromURL(a.Config.URL)
	if err != nil {
		a.Echo.Logger.Warnf("indexnow: periodic submission disabled: %v", err)
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		if a.indexNowDelay > 0 {
			select {
			case <-a.stopCh:
				return
			case <-time.After(a.indexNowDelay):
			}
		}

		runOnce := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			go func() {
				select {
				case <-a.stopCh:
					cancel()
				case <-ctx.Done():
				}
			}()
			res, err := a.Submitter.Submit(ctx, target)
			if err != nil {
				a.Echo.Logger.Warnf("indexnow: periodic submission for %s: %v", target.Host, err)
				return
			}
			a.Echo.Logger.Infof("indexnow: periodic submission for %s: %d urls", target.Host, len(res.IndexedURLs))
		}

		runOnce()

		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-a.stopCh:
				return
			case <-t.C:
				runOnce()
			}
		}
	}()
}
