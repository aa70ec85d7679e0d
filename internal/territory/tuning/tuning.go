// Package tuning loads gameplay tuning for the influence system from a YAML
// file. Control thresholds are fixed in the domain package; everything a
// designer is expected to retune without a code change lives here.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ashfall-games/territory/internal/territory/domain"
)

// Tuning is the full set of designer-adjustable influence parameters.
type Tuning struct {
	// Floor is the minimum influence a faction keeps in a territory once
	// any mutation has touched the pair. Zero disables the historical
	// presence minimum.
	Floor float64 `yaml:"floor"`

	Decay    Decay    `yaml:"decay"`
	Benefits Benefits `yaml:"benefits"`
}

// Decay controls the daily drift toward equilibrium.
type Decay struct {
	// Rate is the fraction of the gap to equilibrium closed per run.
	Rate float64 `yaml:"rate"`
	// MaxStep bounds any single run's movement to avoid oscillation.
	// Zero disables the bound; the equilibrium guard in the decay step
	// still prevents overshoot.
	MaxStep float64 `yaml:"max_step"`
}

// Tier is one benefit tier of the control-level lookup table.
type Tier struct {
	ShopDiscount         float64 `yaml:"shop_discount"`
	ReputationMultiplier float64 `yaml:"reputation_multiplier"`
	HeatReduction        float64 `yaml:"heat_reduction"`
}

// Benefits holds the per-level benefit tiers. Contested is always all-zero
// and is intentionally not configurable.
type Benefits struct {
	Disputed   Tier `yaml:"disputed"`
	Controlled Tier `yaml:"controlled"`
	Dominated  Tier `yaml:"dominated"`
}

// Default returns the shipped tuning values.
func Default() Tuning {
	return Tuning{
		Floor: domain.DefaultFloor,
		Decay: Decay{
			Rate:    0.01,
			MaxStep: 2,
		},
		Benefits: Benefits{
			Disputed:   Tier{ShopDiscount: 0.05, ReputationMultiplier: 1.05, HeatReduction: 0.05},
			Controlled: Tier{ShopDiscount: 0.15, ReputationMultiplier: 1.15, HeatReduction: 0.10},
			Dominated:  Tier{ShopDiscount: 0.25, ReputationMultiplier: 1.25, HeatReduction: 0.20},
		},
	}
}

// Load reads tuning from a YAML file layered over the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("parse tuning file: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate checks the tuning values are usable.
func (t Tuning) Validate() error {
	if t.Floor < 0 || t.Floor >= domain.InfluenceMax {
		return fmt.Errorf("floor must be in [0, %v)", domain.InfluenceMax)
	}
	if t.Decay.Rate < 0 || t.Decay.Rate > 1 {
		return fmt.Errorf("decay rate must be in [0, 1]")
	}
	if t.Decay.MaxStep < 0 {
		return fmt.Errorf("decay max step must not be negative")
	}
	return nil
}

// BenefitTable converts the configured tiers into the domain lookup table.
func (t Tuning) BenefitTable() domain.BenefitTable {
	toSet := func(tier Tier) domain.BenefitSet {
		return domain.BenefitSet{
			ShopDiscount:         tier.ShopDiscount,
			ReputationMultiplier: tier.ReputationMultiplier,
			HeatReduction:        tier.HeatReduction,
		}
	}
	return domain.BenefitTable{
		domain.LevelContested:  {},
		domain.LevelDisputed:   toSet(t.Benefits.Disputed),
		domain.LevelControlled: toSet(t.Benefits.Controlled),
		domain.LevelDominated:  toSet(t.Benefits.Dominated),
	}
}
