package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/till/currency"
	"github.com/temoto/till/log2"
	"github.com/temoto/till/till"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()

	type Case struct {
		name      string
		input     string
		check     func(testing.TB, *Config)
		expectErr string
	}
	cases := []Case{
		{"empty", "", func(t testing.TB, c *Config) {
			tc, err := c.TillConfig()
			require.NoError(t, err)
			assert.Equal(t, till.DefaultConfig(), tc)
			assert.False(t, c.Till.LogDebug)
		}, ""},

		{"coins", `till { coins = [2, 1] stock = 0 log_debug = true }`,
			func(t testing.TB, c *Config) {
				tc, err := c.TillConfig()
				require.NoError(t, err)
				assert.Equal(t, []currency.Nominal{2, 1}, tc.Coins)
				assert.Equal(t, uint(0), tc.Stock)
				assert.Equal(t, till.DefaultConfig().Prices, tc.Prices)
				assert.True(t, c.Till.LogDebug)
			},
			"",
		},

		{"products",
			`
till {
	product "Tea" { price = 13 }
	product "Soup" { price = 5 }
}
money { scale = 10 }`,
			func(t testing.TB, c *Config) {
				tc, err := c.TillConfig()
				require.NoError(t, err)
				assert.Equal(t, map[string]currency.Amount{"Tea": 130, "Soup": 50}, tc.Prices)
				assert.Equal(t, []currency.Nominal{10, 50, 100, 200, 250, 500}, tc.Coins)
				assert.Equal(t, uint(1), tc.Stock)
			},
			"",
		},

		{"invalid-values",
			`
till {
	coins = [5, -1]
	stock = -2
	product "Tea" { price = 0 }
	product "Tea" { price = 3 }
}`,
			func(t testing.TB, c *Config) {
				_, err := c.TillConfig()
				require.Error(t, err)
				assert.Equal(t, "till.coins value=-1 not valid\n"+
					"till.stock=-2 not valid\n"+
					"till.product=Tea price=0 not valid", err.Error())
			},
			"",
		},

		{"include-normalize", `
money { scale = 1 }
include "./empty" {}`,
			nil, ""},

		{"include-optional", `
include "money-scale-7" {}
include "non-exist" { optional = true }`,
			func(t testing.TB, c *Config) {
				assert.Equal(t, 7, c.Money.Scale)
			}, ""},

		{"include-overwrites", `
money { scale = 1 }
include "money-scale-7" {}`,
			func(t testing.TB, c *Config) {
				assert.Equal(t, 7, c.Money.Scale)
				tc, err := c.TillConfig()
				require.NoError(t, err)
				assert.Equal(t, currency.Amount(15*7), tc.Prices["Tea"])
			}, ""},

		{"include-required", `include "non-exist" {}`, nil, "config required name=non-exist path=non-exist not found"},
		{"error-syntax", `hello`, nil, "key 'hello' expected start of object"},
		{"error-include-loop", `include "include-loop" {}`, nil, "config include loop: from=include-loop include=include-loop"},
	}
	mkCheck := func(c Case) func(*testing.T) {
		return func(t *testing.T) {
			t.Parallel()
			log := log2.NewTest(t, log2.LDebug)
			fs := NewMockFullReader(map[string]string{
				"test-inline":   c.input,
				"empty":         "",
				"money-scale-7": "money { scale = 7 }",
				"include-loop":  `include "include-loop" {}`,
			})
			config, err := ReadConfig(log, fs, "test-inline")
			if c.expectErr == "" {
				require.NoError(t, err)
				if c.check != nil {
					c.check(t, config)
				}
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), c.expectErr)
			}
		}
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, mkCheck(c))
	}
}

func TestReadConfigSources(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	fs := NewMockFullReader(map[string]string{
		"base.hcl":  "money { scale = 2 }",
		"local.hcl": "till { stock = 4 }",
	})

	names := []string{"base.hcl", "local.hcl"}
	config, err := ReadConfig(log, fs, names...)
	require.NoError(t, err)
	assert.Equal(t, 2, config.Money.Scale)
	require.NotNil(t, config.Till.Stock)
	assert.Equal(t, 4, *config.Till.Stock)

	_, err = ReadConfig(log, fs, "base.hcl", "./base.hcl", "missing.hcl")
	require.Error(t, err)
	assert.Equal(t, "config duplicate source=./base.hcl\n"+
		"config required name=missing.hcl path=missing.hcl not found", err.Error())
}

func TestReadConfigKeepsNames(t *testing.T) {
	// not Parallel, reads ../till.hcl
	log := log2.NewTest(t, log2.LDebug)
	names := []string{"../till.hcl"}
	_, err := ReadConfig(log, NewOsFullReader(), names...)
	require.NoError(t, err)
	assert.Equal(t, []string{"../till.hcl"}, names)
}

func TestTillFromConfig(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	fs := NewMockFullReader(map[string]string{"till.hcl": `
till {
	coins = [1, 2]
	stock = 3
	product "Gum" { price = 4 }
}`})
	config := MustReadConfig(log, fs, "till.hcl")
	tc, err := config.TillConfig()
	require.NoError(t, err)
	tl, err := till.New(tc, log)
	require.NoError(t, err)
	assert.Equal(t, currency.Amount(9), tl.Stock().Total())
	require.NoError(t, tl.AddOrder("Gum", 1))
	require.NoError(t, tl.Insert(2))
	require.NoError(t, tl.Insert(2))
	_, err = tl.Buy()
	require.NoError(t, err)
	assert.Equal(t, currency.Amount(0), tl.Balance())
}

func TestFunctionalBundled(t *testing.T) {
	// not Parallel
	t.Logf("this test needs OS open|read|stat access to file `../till.hcl`")

	log := log2.NewTest(t, log2.LDebug)
	config := MustReadConfig(log, NewOsFullReader(), "../till.hcl")
	tc, err := config.TillConfig()
	require.NoError(t, err)
	assert.Equal(t, till.DefaultConfig(), tc)
}
