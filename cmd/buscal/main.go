package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/buscal-console/internal/api"
	"github.com/buscal-console/internal/common/config"
	"github.com/buscal-console/internal/common/logger"
	"github.com/buscal-console/internal/common/notify"
	"github.com/buscal-console/internal/export"
	"github.com/buscal-console/internal/view"
	"github.com/buscal-console/pkg/schedule/models"
)

func main() {
	// Load .env if present; plain environment variables work too.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(
		logger.ParseLogLevel(cfg.Logging.Level),
		logger.ConsoleWriter(),
		logger.FileWriter(cfg.Logging.FilePath),
	)

	log.Info("Bus schedule console starting",
		"api_url", cfg.API.BaseURL,
		"log_level", cfg.Logging.Level,
		"refresh_cron", cfg.Refresh.Cron,
	)

	loc, err := cfg.Calendar.Location()
	if err != nil {
		log.Fatal("Invalid calendar timezone", "error", err)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, log)
	notifier := notify.NewClient(cfg.Alert.WebhookURL)

	v := view.New(client, view.Config{
		Location:  loc,
		SlotHours: cfg.Calendar.SlotHours(),
	}, log, notifier)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	refreshCtx, refreshCancel := context.WithTimeout(ctx, cfg.API.Timeout)
	if err := v.Refresh(refreshCtx); err != nil {
		log.Error("Initial refresh failed", "error", err)
	}
	refreshCancel()

	renderMonth(v)

	if cfg.Export.ICSPath != "" {
		if err := exportMonth(v, cfg.Export.ICSPath); err != nil {
			log.Error("ICS export failed", "path", cfg.Export.ICSPath, "error", err)
		} else {
			log.Info("Month exported", "path", cfg.Export.ICSPath)
		}
	}

	if cfg.Refresh.Cron == "" {
		return
	}

	refresher := view.NewRefresher(v, cfg.Refresh.Cron, log)
	if err := refresher.Start(ctx); err != nil {
		log.Error("Auto-refresh error", "error", err)
	}

	log.Info("Bus schedule console stopped")
}

// renderMonth prints the month grid, the selected day's schedule panel, and
// the hourly timeline strip to stdout.
func renderMonth(v *view.View) {
	cur := v.CurrentMonth()
	fmt.Printf("\n%s %d\n", cur.Month(), cur.Year())
	if msg := v.Err(); msg != "" {
		fmt.Printf("! %s\n", msg)
	}

	fmt.Println("Sun Mon Tue Wed Thu Fri Sat")
	grid := v.MonthGrid()
	for i, day := range grid {
		switch {
		case day.IsZero():
			fmt.Print("    ")
		case v.HasSchedulesOn(day):
			fmt.Printf("%2d* ", day.Day())
		default:
			fmt.Printf("%2d  ", day.Day())
		}
		if (i+1)%7 == 0 {
			fmt.Println()
		}
	}
	if len(grid)%7 != 0 {
		fmt.Println()
	}

	selected := v.SelectedDate()
	daySchedules := v.SelectedDaySchedules()
	fmt.Printf("\n%s: %d schedule(s)\n", selected.Format("Mon Jan 2 2006"), len(daySchedules))
	for _, s := range daySchedules {
		fmt.Printf("  %s -> %s (%s)  route %s  bus %s  [%s]  %d passengers\n",
			s.Departure.Format("15:04"),
			s.Arrival.Format("15:04"),
			models.FormatDuration(s.Duration()),
			s.RouteLabel,
			s.BusLabel,
			s.Status,
			s.PassengerCount,
		)
	}

	buckets := v.TimelineBuckets()
	var line strings.Builder
	for _, hour := range v.SlotHours() {
		if n := len(buckets[hour]); n > 0 {
			line.WriteString(fmt.Sprintf("%02d:00[%d] ", hour, n))
		} else {
			line.WriteString(fmt.Sprintf("%02d:00[ ] ", hour))
		}
	}
	fmt.Printf("\n%s\n", line.String())
}

func exportMonth(v *view.View, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	name := fmt.Sprintf("Bus schedules %s", v.CurrentMonth().Format("January 2006"))
	return export.Write(f, v.Schedules(), name)
}
