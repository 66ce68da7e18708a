package game

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/srliao/streetfire/pkg/combat"
)

//Profile is everything needed to run a match
type Profile struct {
	Label     string          `yaml:"Label"`
	TickHz    int             `yaml:"TickHz"`
	Match     MatchConfig     `yaml:"Match"`
	Moves     combat.MoveBook `yaml:"Moves"`
	Script    string          `yaml:"Script"`
	Transport TransportConfig `yaml:"Transport"`
	Stats     StatsConfig     `yaml:"Stats"`
	LogConfig `yaml:"LogConfig"`
}

type MatchConfig struct {
	RoundTime          time.Duration `yaml:"RoundTime"`
	RoundsToWin        int           `yaml:"RoundsToWin"`
	RoundBeginDelay    time.Duration `yaml:"RoundBeginDelay"`
	RoundEndDelay      time.Duration `yaml:"RoundEndDelay"`
	CalibrationTimeout time.Duration `yaml:"CalibrationTimeout"`
	SettleTieTime      time.Duration `yaml:"SettleTieTime"`
}

type TransportConfig struct {
	Addr string `yaml:"Addr"`
}

type StatsConfig struct {
	//Path of the sqlite database; empty keeps results in memory
	Path string `yaml:"Path"`
}

type LogConfig struct {
	LogLevel      string `yaml:"LogLevel"`
	LogFile       string `yaml:"LogFile"`
	LogShowCaller bool   `yaml:"LogShowCaller"`
}

func DefaultProfile() Profile {
	return Profile{
		Label:  "default",
		TickHz: 50,
		Match: MatchConfig{
			RoundTime:          60 * time.Second,
			RoundsToWin:        2,
			RoundBeginDelay:    3 * time.Second,
			RoundEndDelay:      3 * time.Second,
			CalibrationTimeout: 30 * time.Second,
			SettleTieTime:      15 * time.Second,
		},
		Moves: combat.DefaultMoves(),
		Transport: TransportConfig{
			Addr: ":8080",
		},
		LogConfig: LogConfig{
			LogLevel: "info",
		},
	}
}

//ParseProfile reads yaml on top of the default profile. A move listed in the
//yaml only overrides the fields it sets; unlisted moves keep their defaults.
func ParseProfile(src []byte) (Profile, error) {
	def := DefaultProfile()
	p := def
	p.Moves = nil
	if err := yaml.Unmarshal(src, &p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile: %w", err)
	}
	p.Moves = def.Moves.Overlay(p.Moves)
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func LoadProfile(path string) (Profile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}
	return ParseProfile(src)
}

func (p Profile) Validate() error {
	var errs []error
	if p.TickHz <= 0 {
		errs = append(errs, fmt.Errorf("TickHz must be positive, got %v", p.TickHz))
	}
	if p.Match.RoundTime <= 0 {
		errs = append(errs, errors.New("RoundTime must be positive"))
	}
	if p.Match.RoundsToWin < 1 {
		errs = append(errs, fmt.Errorf("RoundsToWin must be at least 1, got %v", p.Match.RoundsToWin))
	}
	if p.Match.RoundBeginDelay < 0 || p.Match.RoundEndDelay < 0 || p.Match.CalibrationTimeout < 0 || p.Match.SettleTieTime < 0 {
		errs = append(errs, errors.New("match delays cannot be negative"))
	}
	if p.Moves != nil {
		if err := p.Moves.Check(); err != nil {
			errs = append(errs, fmt.Errorf("invalid moves: %w", err))
		}
	}
	return errors.Join(errs...)
}

//Period is the wall time between two ticks
func (p Profile) Period() time.Duration {
	return time.Second / time.Duration(p.TickHz)
}
