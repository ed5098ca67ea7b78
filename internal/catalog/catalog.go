package catalog

import (
	_ "embed"
	"strings"
	"zyntra/internal/helper"
	"zyntra/internal/models"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var (
	ErrUnknownPlan = errors.New("unknown staking plan")
	ErrUnknownCoin = errors.New("unknown coin")
)

//go:embed data/plans.yaml
var plansYAML []byte

//go:embed data/coins.yaml
var coinsYAML []byte

// Catalog: справочные данные, только чтение после загрузки.
type Catalog struct {
	plans []models.StakingPlan
	coins []models.Coin
}

func New() (*Catalog, error) {
	return Parse(plansYAML, coinsYAML)
}

func Parse(plansRaw, coinsRaw []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(plansRaw, &c.plans); err != nil {
		return nil, errors.Wrap(err, "decode staking plans")
	}
	if err := yaml.Unmarshal(coinsRaw, &c.coins); err != nil {
		return nil, errors.Wrap(err, "decode coins")
	}

	seen := make(map[string]bool, len(c.plans))
	for _, p := range c.plans {
		if p.ID == "" || seen[p.ID] {
			return nil, errors.Errorf("bad or duplicate plan id %q", p.ID)
		}
		if _, ok := visuals[p.Kind]; !ok {
			return nil, errors.Errorf("plan %s: unknown kind %q", p.ID, p.Kind)
		}
		seen[p.ID] = true
	}
	return c, nil
}

// Plans отдаёт копию, чтобы снаружи справочник нельзя было испортить.
func (c *Catalog) Plans() []models.StakingPlan {
	out := make([]models.StakingPlan, len(c.plans))
	copy(out, c.plans)
	return out
}

func (c *Catalog) Plan(id string) (models.StakingPlan, error) {
	for _, p := range c.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return models.StakingPlan{}, errors.Wrap(ErrUnknownPlan, id)
}

func (c *Catalog) Coins() []models.Coin {
	out := make([]models.Coin, len(c.coins))
	copy(out, c.coins)
	return out
}

// Coin ищет по id ("bitcoin") или по символу ("BTC", "btcusdt").
func (c *Catalog) Coin(key string) (models.Coin, error) {
	sym := helper.NormSymbol(key)
	for _, coin := range c.coins {
		if strings.EqualFold(coin.ID, key) || coin.Symbol == sym {
			return coin, nil
		}
	}
	return models.Coin{}, errors.Wrap(ErrUnknownCoin, key)
}
