// Package cli wires the scrape → dedup → calendar-sync → publish pipeline
// behind the gongmo command.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiundev/gongmo-calendar/internal/config"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// cleanupAll is the NoOptDefVal marker for --cleanup without a company.
const cleanupAll = "__ALL__"

var (
	flagDryRun    bool
	flagList      bool
	flagPublish   bool
	flagNoPush    bool
	flagCheckAuth bool
	flagResync    bool
	flagAnnounce  bool
	flagVerbose   bool
	flagCleanup   string
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gongmo",
		Short: "공모주 일정을 구글 캘린더에 자동 등록하는 봇",
		Long: `공모주(IPO) 청약 일정을 수집해 구글 캘린더에 등록하고,
정적 사이트 데이터를 생성하는 CLI 봇.

예시:
  gongmo                    # 공모주 수집 및 캘린더 등록
  gongmo --dry-run          # 수집만 하고 캘린더 등록 안 함
  gongmo --list             # 등록된 이벤트 목록 조회
  gongmo --check-auth       # 인증 상태 확인
  gongmo --publish          # 전체 파이프라인 실행 후 사이트 업데이트
  gongmo --publish --no-push # 사이트 데이터만 생성 (푸시 안 함)
  gongmo --cleanup          # 봇이 만든 모든 이벤트 삭제
  gongmo --cleanup 회사명    # 특정 회사 이벤트만 삭제
  gongmo --resync           # 전체 재동기화 (삭제 후 재등록)`,
		SilenceUsage: true,
		RunE:         runRoot,
	}

	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "캘린더 등록 없이 수집만 실행")
	cmd.Flags().BoolVar(&flagList, "list", false, "등록된 공모주 이벤트 목록 조회")
	cmd.Flags().BoolVar(&flagPublish, "publish", false, "정적 사이트 데이터 생성 및 GitHub 푸시")
	cmd.Flags().BoolVar(&flagNoPush, "no-push", false, "--publish 시 GitHub 푸시 안 함")
	cmd.Flags().BoolVar(&flagCheckAuth, "check-auth", false, "Google Calendar 인증 상태 확인")
	cmd.Flags().BoolVar(&flagResync, "resync", false, "캘린더 전체 재동기화 (기존 삭제 후 재등록)")
	cmd.Flags().BoolVar(&flagAnnounce, "announce", false, "새로 등록된 공모주를 트위터에 공지")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "상세 로그 출력")
	cmd.Flags().StringVar(&flagCleanup, "cleanup", "", "캘린더 이벤트 정리 (회사명 지정 시 해당 회사만)")
	cmd.Flags().Lookup("cleanup").NoOptDefVal = cleanupAll

	return cmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	settings := config.Load()
	setupLogging(settings)

	app := newApp(settings)

	switch {
	case flagCheckAuth:
		app.CheckAuth()
		return nil
	case flagList:
		return app.List()
	case flagCleanup != "":
		return app.Cleanup(cleanupCompany(flagCleanup, args))
	case flagResync:
		return app.Resync()
	default:
		return app.Run(runOptions{
			dryRun:   flagDryRun,
			announce: flagAnnounce,
			publish:  flagPublish,
			push:     flagPublish && !flagNoPush,
		})
	}
}

// cleanupCompany resolves the --cleanup target. pflag only binds inline
// values (--cleanup=회사명) to a flag with NoOptDefVal; a space-separated
// company name arrives as a positional argument instead, so a bare flag
// falls back to the first argument. Neither means every event.
func cleanupCompany(value string, args []string) string {
	if value != cleanupAll {
		return value
	}
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func setupLogging(settings *config.Settings) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(settings.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if flagVerbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "오류: %v\n", err)
		os.Exit(ExitError)
	}
}
