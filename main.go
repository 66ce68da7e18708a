package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/srliao/streetfire/pkg/combat"
	"github.com/srliao/streetfire/pkg/game"

	//moves
	_ "github.com/srliao/streetfire/internal/move/block"
	_ "github.com/srliao/streetfire/internal/move/hadouken"
	_ "github.com/srliao/streetfire/internal/move/hook"
	_ "github.com/srliao/streetfire/internal/move/jab"
	_ "github.com/srliao/streetfire/internal/move/sonicboom"
)

func main() {
	debugPtr := flag.String("d", "debug", "output level: debug, info, warn")
	secondsPtr := flag.Int("s", 600, "how many seconds to run the sim for at most")
	pPtr := flag.String("p", "config.yaml", "which profile to use")
	f := flag.String("o", "out.log", "detailed log file")
	showCaller := flag.Bool("c", false, "show caller in debug low")
	w := flag.String("w", "", "test damage weight for specified move")
	flag.Parse()

	cfg, err := game.LoadProfile(*pPtr)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Script == "" {
		log.Fatalf("profile %v has no script to simulate", *pPtr)
	}

	cfg.LogLevel = *debugPtr
	cfg.LogFile = *f
	cfg.LogShowCaller = *showCaller
	os.Remove(*f)

	limit := time.Duration(*secondsPtr) * time.Second

	if *w != "" {
		mp, ok := cfg.Moves[*w]
		if !ok {
			log.Panic("invalid move to test weights")
		}
		cfg.LogFile = ""
		cfg.LogLevel = "error"

		start := time.Now()
		base, err := simulate(cfg, limit)
		if err != nil {
			log.Fatal(err)
		}
		for _, d := range []int{-2, -1, 1, 2} {
			if mp.Damage+d < 0 {
				continue
			}
			changed := mp
			changed.Damage += d
			test := cfg
			test.Moves = cfg.Moves.Merge(combat.MoveBook{*w: changed})

			r, err := simulate(test, limit)
			if err != nil {
				fmt.Printf("%v damage %v: %v\n", *w, changed.Damage, err)
				continue
			}
			fmt.Printf("%v damage %v -> %v: winner p%v (was p%v), match %v (was %v), damage taken %v (was %v)\n",
				*w, mp.Damage, changed.Damage, r.Winner, base.Winner, r.Duration, base.Duration, r.Damage, base.Damage)
		}
		fmt.Printf("Finished in %v\n", time.Since(start))
		return
	}

	start := time.Now()
	r, err := simulate(cfg, limit)
	elapsed := time.Since(start)
	for _, rr := range r.Rounds {
		fmt.Printf("\tround %v: %v\n", rr.Round, rr)
	}
	for i := 0; i < 2; i++ {
		fmt.Printf("p%v landed %v hits, blocked %v flames, took %v damage\n", i+1, r.Hits[i], r.Blocks[i], r.Damage[i])
	}
	if err != nil {
		fmt.Printf("Running profile %v stopped after %v ticks: %v. Sim took %s\n", *pPtr, r.Ticks, err, elapsed)
		os.Exit(1)
	}
	fmt.Printf("Running profile %v, p%v wins after %v (%v ticks). Sim took %s\n", *pPtr, r.Winner, r.Duration, r.Ticks, elapsed)
}

func simulate(cfg game.Profile, limit time.Duration) (game.MatchResult, error) {
	logger, err := game.NewLogger(cfg.LogConfig)
	if err != nil {
		return game.MatchResult{}, err
	}
	defer logger.Sync()
	m, err := game.NewMatch(cfg, nil, logger)
	if err != nil {
		return game.MatchResult{}, err
	}
	return m.Simulate(cfg.Period(), limit)
}
