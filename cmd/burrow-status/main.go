package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/lumipallolabs/burrow/internal/metrics"
	"github.com/lumipallolabs/burrow/internal/stats"
)

func bar(percent float64) string {
	return metrics.PercentStyle(percent).Render(metrics.ProgressBar(percent, 20))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	snap, err := metrics.Collect(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	score, msg := metrics.HealthScore(snap)

	fmt.Printf("%s · up %s\n\n", snap.Hostname, metrics.FormatDuration(snap.Uptime))

	fmt.Printf("CPU     %s %5.1f%%  load %.2f\n",
		bar(snap.CPUPercent), snap.CPUPercent, snap.LoadAvg1)
	fmt.Printf("Memory  %s %5.1f%%  %s / %s\n",
		bar(snap.MemPercent), snap.MemPercent,
		metrics.FormatBytes(snap.MemUsed), metrics.FormatBytes(snap.MemTotal))
	if snap.SwapPercent > 0 {
		fmt.Printf("Swap    %s %5.1f%%\n", bar(snap.SwapPercent), snap.SwapPercent)
	}

	if len(snap.Disks) > 0 {
		fmt.Println()
		for _, d := range snap.Disks {
			fmt.Printf("%-12s %s %5.1f%%  %s free\n",
				d.Path, bar(d.UsedPercent), d.UsedPercent, metrics.FormatBytes(d.Free))
		}
	}

	mgr := stats.NewManager()
	if err := mgr.Load(); err == nil {
		if s := mgr.Stats(); s.FreedLifetime > 0 {
			fmt.Printf("\nFreed   %s across %d deletions",
				metrics.FormatBytes(uint64(s.FreedLifetime)), s.DeleteCount)
			if !s.LastFreedAt.IsZero() {
				fmt.Printf(", last %s", s.LastFreedAt.Format("2006-01-02"))
			}
			fmt.Println()
		}
	}

	fmt.Printf("\nHealth  %s  %s\n",
		metrics.PercentStyle(float64(100-score)).Render(fmt.Sprintf("%d/100", score)), msg)
}
