package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jiundev/gongmo-calendar/internal/config"
	"github.com/jiundev/gongmo-calendar/internal/gcal"
	"github.com/jiundev/gongmo-calendar/internal/gitpub"
	"github.com/jiundev/gongmo-calendar/internal/ipo"
	"github.com/jiundev/gongmo-calendar/internal/notifier"
	"github.com/jiundev/gongmo-calendar/internal/scraper"
	"github.com/jiundev/gongmo-calendar/internal/site"
	"github.com/jiundev/gongmo-calendar/internal/state"
)

// Stats summarizes one run.
type Stats struct {
	Collected int
	Created   int
	Updated   int
	Skipped   int
	Deleted   int
	Errors    int
}

type runOptions struct {
	dryRun   bool
	announce bool
	publish  bool
	push     bool
}

// App sequences the pipeline components.
type App struct {
	settings *config.Settings

	// syncClient builds the calendar client; tests swap in a fake API.
	syncClient func(ctx context.Context, store *state.Store) (*gcal.Client, error)
	// listURL overrides the schedule URL when set (tests only).
	listURL string
}

func newApp(settings *config.Settings) *App {
	a := &App{settings: settings}
	a.syncClient = a.newSyncClient
	return a
}

func (a *App) newScraper() *scraper.Scraper {
	opts := []scraper.Option{
		scraper.WithDelay(a.settings.RequestDelay),
		scraper.WithMaxRetries(a.settings.MaxRetries),
	}
	if a.listURL != "" {
		opts = append(opts, scraper.WithListURL(a.listURL))
	}
	return scraper.New(a.settings.RequestTimeout, opts...)
}

// collect scrapes the current offerings. Fetch failure is fatal to the run.
func (a *App) collect() ([]*ipo.Offering, error) {
	offerings, err := a.newScraper().FetchOfferings()
	if err != nil {
		return nil, err
	}

	logrus.Info("--- 수집된 공모주 목록 ---")
	for i, o := range offerings {
		logrus.Infof("  %d. %s", i+1, o)
	}
	return offerings, nil
}

// newSyncClient authenticates and verifies the target calendar.
func (a *App) newSyncClient(ctx context.Context, store *state.Store) (*gcal.Client, error) {
	calendarID, err := a.settings.RequireCalendarID()
	if err != nil {
		return nil, err
	}

	svc, err := gcal.NewService(ctx, gcal.AuthConfig{
		CredentialsFile: a.settings.CredentialsFile,
		TokenFile:       a.settings.TokenFile,
	})
	if err != nil {
		return nil, fmt.Errorf("Google Calendar 인증 실패: %w", err)
	}

	client := gcal.NewClient(gcal.NewEventsAPI(svc, calendarID), store)

	summary, err := client.CalendarSummary()
	if err != nil {
		return nil, fmt.Errorf("캘린더 연결 실패: %w", err)
	}
	logrus.Infof("캘린더: %s", summary)

	return client, nil
}

// syncAll pushes every offering into the calendar. Per-event failures are
// counted and do not stop the batch. Returns offerings whose subscription
// event was newly created (announcement candidates).
func syncAll(client *gcal.Client, offerings []*ipo.Offering, stats *Stats) []*ipo.Offering {
	var created []*ipo.Offering

	for _, o := range offerings {
		newSubscription := false
		for _, result := range client.SyncOffering(o) {
			switch result.Action {
			case gcal.ActionCreate:
				stats.Created++
				if result.EventType == ipo.EventSubscription {
					newSubscription = true
				}
			case gcal.ActionUpdate:
				stats.Updated++
			case gcal.ActionSkip:
				stats.Skipped++
			case gcal.ActionError:
				stats.Errors++
			}
		}
		if newSubscription {
			created = append(created, o)
		}
	}
	return created
}

// Run executes the default pipeline: scrape, sync, optionally publish.
func (a *App) Run(opts runOptions) error {
	logrus.Info("공모주 캘린더 봇 시작")
	stats := &Stats{}

	logrus.Info("[1/3] 공모주 정보 수집 중...")
	offerings, err := a.collect()
	if err != nil {
		return err
	}
	stats.Collected = len(offerings)

	if len(offerings) == 0 {
		logrus.Warn("수집된 공모주 정보가 없습니다.")
		return nil
	}

	if opts.dryRun {
		logrus.Info("[DRY RUN] 캘린더 등록을 건너뜁니다.")
		if opts.announce {
			n := notifier.NewDryRunNotifier()
			_ = n.Notify(ipo.Upcoming(offerings, time.Now()))
		}
		return nil
	}

	logrus.Info("[2/3] Google Calendar 연결 중...")
	store, err := state.Load(a.settings.DataDir)
	if err != nil {
		return err
	}

	client, err := a.syncClient(context.Background(), store)
	if err != nil {
		return err
	}

	logrus.Info("[3/3] 캘린더 동기화 중...")
	newlyCreated := syncAll(client, offerings, stats)

	if err := store.Save(); err != nil {
		return err
	}

	if opts.announce {
		a.announce(newlyCreated)
	}

	if opts.publish {
		if err := a.publishSite(offerings, opts.push); err != nil {
			return err
		}
	}

	// Per-record sync failures are best-effort: counted, logged in the
	// summary, never a nonzero exit. Only fetch/auth/store failures abort.
	a.printSummary(stats)
	return nil
}

// announce posts newly created offerings. Best-effort: failures are logged
// and never affect the exit status.
func (a *App) announce(offerings []*ipo.Offering) {
	if len(offerings) == 0 {
		logrus.Info("공지할 신규 공모주가 없습니다.")
		return
	}

	tw, err := notifier.NewTwitterNotifier()
	if err != nil {
		logrus.WithError(err).Warn("트위터 공지 스킵")
		return
	}
	if err := tw.Notify(offerings); err != nil {
		logrus.WithError(err).Warn("트위터 공지 실패")
		return
	}
	logrus.Infof("신규 공모주 %d건 공지 완료", len(offerings))
}

// publishSite regenerates docs/data.json + calendar.ics and optionally
// pushes. A failed push is logged only; the previous published state
// remains valid.
func (a *App) publishSite(offerings []*ipo.Offering, push bool) error {
	logrus.Info("정적 사이트 데이터 생성 중...")

	gen, err := site.NewGenerator(a.settings.DocsDir)
	if err != nil {
		return err
	}
	dataPath, err := gen.Generate(offerings)
	if err != nil {
		return err
	}
	logrus.Infof("%s 생성 완료", dataPath)

	if !push {
		logrus.Info("GitHub 푸시 스킵 (--no-push)")
		return nil
	}

	logrus.Info("GitHub 푸시 중...")
	pub := gitpub.New(a.settings.DocsDir, a.settings.GitRemote, a.settings.GitBranch)
	message := fmt.Sprintf("Update IPO data (%d건) - %s",
		len(offerings), time.Now().Format("2006-01-02 15:04"))
	if err := pub.Publish(message); err != nil {
		logrus.WithError(err).Warn("GitHub 푸시 실패, 이전 게시 상태 유지")
	}
	return nil
}

// List prints upcoming bot-created calendar events without mutating anything.
func (a *App) List() error {
	logrus.Info("등록된 공모주 이벤트 조회 중...")

	store, err := state.Load(a.settings.DataDir)
	if err != nil {
		return err
	}
	client, err := a.syncClient(context.Background(), store)
	if err != nil {
		return err
	}

	events, err := client.ListUpcoming(10)
	if err != nil {
		return fmt.Errorf("이벤트 조회 실패: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("등록된 공모주 이벤트가 없습니다.")
		return nil
	}

	fmt.Printf("다가오는 공모주 일정 (%d건):\n", len(events))
	for _, ev := range events {
		start := ""
		if ev.Start != nil {
			start = ev.Start.Date
			if start == "" {
				start = ev.Start.DateTime
			}
		}
		fmt.Printf("  - [%s] %s\n", start, ev.Summary)
	}
	return nil
}

// Cleanup deletes bot events: all of them, or one company's.
func (a *App) Cleanup(companyName string) error {
	if companyName != "" {
		logrus.Infof("'%s' 이벤트 정리 시작", companyName)
	} else {
		logrus.Info("전체 이벤트 정리 시작")
	}

	store, err := state.Load(a.settings.DataDir)
	if err != nil {
		return err
	}
	client, err := a.syncClient(context.Background(), store)
	if err != nil {
		return err
	}

	stats := &Stats{}
	var results []gcal.SyncResult
	if companyName != "" {
		results = client.CleanupCompany(companyName)
	} else {
		results = client.CleanupAll()
	}
	for _, r := range results {
		switch r.Action {
		case gcal.ActionDelete:
			stats.Deleted++
		case gcal.ActionError:
			stats.Errors++
		}
	}

	// The client dropped the deleted keys; persist so the next run
	// re-registers the events instead of skipping them.
	if err := store.Save(); err != nil {
		return err
	}

	logrus.Infof("정리 완료: 삭제 %d건, 오류 %d건", stats.Deleted, stats.Errors)
	if stats.Errors > 0 {
		return fmt.Errorf("%d건 삭제 실패", stats.Errors)
	}
	return nil
}

// Resync wipes all bot events and the local store, then re-scrapes and
// re-registers everything.
func (a *App) Resync() error {
	logrus.Info("캘린더 전체 재동기화 시작")
	stats := &Stats{}

	logrus.Info("[1/3] 기존 이벤트 정리 중...")
	store, err := state.Load(a.settings.DataDir)
	if err != nil {
		return err
	}
	client, err := a.syncClient(context.Background(), store)
	if err != nil {
		return err
	}
	for _, r := range client.CleanupAll() {
		switch r.Action {
		case gcal.ActionDelete:
			stats.Deleted++
		case gcal.ActionError:
			stats.Errors++
		}
	}
	store.Reset()

	logrus.Info("[2/3] 공모주 정보 수집 중...")
	offerings, err := a.collect()
	if err != nil {
		return err
	}
	stats.Collected = len(offerings)

	logrus.Info("[3/3] 캘린더 재등록 중...")
	syncAll(client, offerings, stats)

	if err := store.Save(); err != nil {
		return err
	}

	logrus.Infof("재동기화 완료: 정리 %d건, 수집 %d건, 생성 %d건",
		stats.Deleted, stats.Collected, stats.Created)
	if stats.Errors > 0 {
		return fmt.Errorf("%d건 오류 발생", stats.Errors)
	}
	return nil
}

// CheckAuth reports whether calendar credentials are usable.
func (a *App) CheckAuth() {
	ok := gcal.CheckAuth(gcal.AuthConfig{
		CredentialsFile: a.settings.CredentialsFile,
		TokenFile:       a.settings.TokenFile,
	})
	if ok {
		fmt.Println("Google Calendar 인증 완료 상태입니다.")
	} else {
		fmt.Println("Google Calendar 인증이 필요합니다.")
	}
}

func (a *App) printSummary(stats *Stats) {
	logrus.Info("동기화 완료!")
	logrus.Infof("  - 수집: %d건", stats.Collected)
	logrus.Infof("  - 생성: %d건", stats.Created)
	logrus.Infof("  - 수정: %d건", stats.Updated)
	logrus.Infof("  - 스킵: %d건", stats.Skipped)
	if stats.Errors > 0 {
		logrus.Warnf("  - 오류: %d건", stats.Errors)
	}
}
