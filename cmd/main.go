// Command comodin-sim plays a scripted run offline, with the same services
// the server uses but kept in memory, and prints every step as JSON.
package main

import (
	"Comodin/config"
	"Comodin/services/jokers"
	"Comodin/services/poker"
	"Comodin/services/runs"
	"Comodin/services/tags"
	"Comodin/services/vouchers"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted run. Each round lists the hands to play, each hand
// a space separated list of card codes.
type Scenario struct {
	Jokers   []jokers.JokerID     `yaml:"jokers"`
	Vouchers []vouchers.VoucherID `yaml:"vouchers"`
	Rounds   []ScenarioRound      `yaml:"rounds"`
}

type ScenarioRound struct {
	Skip     tags.TagID `yaml:"skip,omitempty"`
	Hands    []string   `yaml:"hands"`
	Discards []string   `yaml:"discards"`
	Shop     bool       `yaml:"shop"`
}

// Step is one line of the report
type Step struct {
	Round  int    `json:"round"`
	Action string `json:"action"`
	Result any    `json:"result"`
	Money  int    `json:"money"`
}

// CLI flags
var (
	scenarioPath string
	jokerList    string
	handList     string
	quiet        bool
)

func init() {
	flag.StringVar(&scenarioPath, "scenario", "", "YAML scenario file (overrides -jokers and -hands)")
	flag.StringVar(&jokerList, "jokers", "joker", "Comma separated joker slugs, in slot order")
	flag.StringVar(&handList, "hands", "Ah Ad 3c", "Semicolon separated hands played in one round")
	flag.BoolVar(&quiet, "quiet", false, "Silence service logs")
}

func main() {
	flag.Parse()
	if quiet {
		log.SetOutput(io.Discard)
	}

	sc, err := loadScenario()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	settings := config.DefaultSettings()
	svc := runs.NewService(runs.NewMemoryStore(), runs.NewMemoryCache(), jokers.NewCatalog(),
		vouchers.Global(), tags.Global(), settings.MaxJokerStateValue).
		WithConditionCache(settings.ConditionCacheSize)

	steps, err := Simulate(context.Background(), svc, sc)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, s := range steps {
		_ = enc.Encode(s)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadScenario() (Scenario, error) {
	var sc Scenario
	if scenarioPath != "" {
		data, err := os.ReadFile(scenarioPath)
		if err != nil {
			return sc, err
		}
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return sc, fmt.Errorf("parsing scenario %s: %w", scenarioPath, err)
		}
		return sc, nil
	}
	for _, slug := range strings.Split(jokerList, ",") {
		if strings.TrimSpace(slug) == "" {
			continue
		}
		id, err := jokers.ParseJokerID(slug)
		if err != nil {
			return sc, err
		}
		sc.Jokers = append(sc.Jokers, id)
	}
	sc.Rounds = []ScenarioRound{{Hands: strings.Split(handList, ";")}}
	return sc, nil
}

// Simulate plays sc on a fresh run. The steps done before an error are
// returned with it.
func Simulate(ctx context.Context, svc *runs.Service, sc Scenario) ([]Step, error) {
	run, err := svc.Create(ctx, "comodin-sim")
	if err != nil {
		return nil, err
	}
	if run, err = svc.ReplaceJokers(ctx, run.ID, runs.StateUpdate{Jokers: sc.Jokers}); err != nil {
		return nil, err
	}

	var steps []Step
	record := func(r *runs.Run, action string, result any) {
		steps = append(steps, Step{Round: r.Round, Action: action, Result: result, Money: r.Game.Money})
	}

	for _, v := range sc.Vouchers {
		if run, err = svc.PurchaseVoucher(ctx, run.ID, v); err != nil {
			return steps, fmt.Errorf("voucher %s: %w", v, err)
		}
		record(run, "voucher "+v.String(), run.Game)
	}

	for _, round := range sc.Rounds {
		if round.Skip != tags.Unknown {
			r, skip, err := svc.SkipBlind(ctx, run.ID, round.Skip)
			if err != nil {
				return steps, fmt.Errorf("skip %s: %w", round.Skip, err)
			}
			record(r, "skip "+round.Skip.String(), skip)
			continue
		}

		r, start, err := svc.StartRound(ctx, run.ID)
		if err != nil {
			return steps, err
		}
		record(r, "start", start)

		for _, codes := range round.Discards {
			cards, err := poker.ParseCards(strings.Fields(codes)...)
			if err != nil {
				return steps, err
			}
			r, out, err := svc.Discard(ctx, run.ID, cards)
			if err != nil {
				return steps, fmt.Errorf("discard %q: %w", codes, err)
			}
			record(r, "discard", out)
		}
		for _, codes := range round.Hands {
			cards, err := poker.ParseCards(strings.Fields(codes)...)
			if err != nil {
				return steps, err
			}
			r, res, err := svc.PlayHand(ctx, run.ID, poker.NewHand(cards...))
			if err != nil {
				return steps, fmt.Errorf("hand %q: %w", codes, err)
			}
			record(r, "play", res)
		}

		r, end, err := svc.EndRound(ctx, run.ID)
		if err != nil {
			return steps, err
		}
		record(r, "end", end)

		if round.Shop {
			r, sh, err := svc.Shop(ctx, run.ID)
			if err != nil {
				return steps, err
			}
			record(r, "shop", sh)
		}
	}
	return steps, nil
}
