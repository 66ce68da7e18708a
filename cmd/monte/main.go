package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/srliao/streetfire/pkg/game"
	"github.com/srliao/streetfire/pkg/monte"

	//moves
	_ "github.com/srliao/streetfire/internal/move/block"
	_ "github.com/srliao/streetfire/internal/move/hadouken"
	_ "github.com/srliao/streetfire/internal/move/hook"
	_ "github.com/srliao/streetfire/internal/move/jab"
	_ "github.com/srliao/streetfire/internal/move/sonicboom"
)

func main() {
	def := monte.DefaultConfig()
	t := flag.Int("t", def.Iterations, "how many matches to play")
	prf := flag.String("p", "config.yaml", "which profile to use")
	worker := flag.Int("w", def.Workers, "number of workers")
	bin := flag.Int64("b", def.BinSize, "bin size in seconds")
	gap := flag.Duration("g", def.MeanGap, "mean time between moves of one player")
	seed := flag.Int64("seed", 0, "random seed; 0 seeds from the clock")
	debug := flag.String("d", "info", "output level: debug, info, warn")
	out := flag.String("o", "out.html", "output file")
	flag.Parse()

	cfg, err := game.LoadProfile(*prf)
	if err != nil {
		log.Fatal(err)
	}
	cfg.LogLevel = *debug
	cfg.LogFile = ""
	logger, err := game.NewLogger(cfg.LogConfig)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	mc := def
	mc.Iterations = *t
	mc.Workers = *worker
	mc.BinSize = *bin
	mc.MeanGap = *gap
	mc.Seed = *seed

	start := time.Now()
	sim, err := monte.New(cfg, mc, logger)
	if err != nil {
		log.Fatal(err)
	}
	r := sim.Run()
	elapsed := time.Since(start)
	fmt.Printf("Profile %v done in %s\n", *prf, elapsed)
	fmt.Printf("p1 won %v, p2 won %v, unfinished %v, aborted %v\n", r.Wins[0], r.Wins[1], r.Unfinished, r.Aborted)
	for i := 0; i < 2; i++ {
		fmt.Printf("p%v avg: %.2f hits, %.2f blocks, %.2f damage taken\n", i+1, r.Hits[i], r.Blocks[i], r.Damage[i])
	}

	page := components.NewPage()
	page.PageTitle = "simulation results"

	var bins []int64
	var items []opts.LineData
	var cumul, med float64
	med = -1
	played := float64(r.Wins[0] + r.Wins[1])

	for i, v := range r.Hist {
		bins = append(bins, r.BinStart+*bin*int64(i))
		items = append(items, opts.LineData{Value: v})
		cumul += v / played
		if cumul >= 0.5 && med == -1 {
			med = float64(i)
		}
	}

	med = float64(r.BinStart) + med*float64(*bin)
	label := fmt.Sprintf("min: %.1fs, max %.1fs, mean: %.2fs, med: %.2fs, sd: %.2f", r.Min, r.Max, r.Mean, med, r.SD)

	lineChart := charts.NewLine()
	lineChart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%v (n = %v)", *prf, *t),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Freq",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Match (s)",
		}),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "5%", Right: "0%", Orient: "vertical", Data: []string{label}}),
	)
	lineChart.SetXAxis(bins).AddSeries(label, items)

	winChart := charts.NewBar()
	winChart.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "outcomes"}),
	)
	winChart.SetXAxis([]string{"p1", "p2", "unfinished", "aborted"}).
		AddSeries("matches", []opts.BarData{
			{Value: r.Wins[0]},
			{Value: r.Wins[1]},
			{Value: r.Unfinished},
			{Value: r.Aborted},
		})

	page.AddCharts(
		lineChart,
		winChart,
	)

	graph, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer graph.Close()
	if err := page.Render(io.MultiWriter(graph)); err != nil {
		log.Fatal(err)
	}
}
