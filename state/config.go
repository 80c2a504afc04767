package state

import (
	"path/filepath"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/till/currency"
	"github.com/temoto/till/helpers"
	"github.com/temoto/till/log2"
	"github.com/temoto/till/till"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Money struct {
		Scale int `hcl:"scale"`
	} `hcl:"money"`
	Till struct {
		Coins    []int     `hcl:"coins"`
		Stock    *int      `hcl:"stock"` // nil = default
		LogDebug bool      `hcl:"log_debug"`
		Products []Product `hcl:"product"`
	} `hcl:"till"`
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

type Product struct {
	Name  string `hcl:"name,key"`
	Price int    `hcl:"price"`
}

func (c *Config) scale() currency.Amount {
	if c.Money.Scale <= 0 {
		return 1
	}
	return currency.Amount(c.Money.Scale)
}

// TillConfig applies money scale and defaults for omitted sections.
func (c *Config) TillConfig() (till.Config, error) {
	tc := till.DefaultConfig()
	scale := c.scale()
	errs := make([]error, 0)

	if c.Money.Scale < 0 {
		errs = append(errs, errors.NotValidf("money.scale=%d", c.Money.Scale))
	}
	if len(c.Till.Coins) != 0 {
		tc.Coins = make([]currency.Nominal, 0, len(c.Till.Coins))
		for _, i := range c.Till.Coins {
			if i <= 0 {
				errs = append(errs, errors.NotValidf("till.coins value=%d", i))
				continue
			}
			tc.Coins = append(tc.Coins, currency.Nominal(currency.Amount(i)*scale))
		}
	} else {
		for i, n := range tc.Coins {
			tc.Coins[i] = currency.Nominal(currency.Amount(n) * scale)
		}
	}
	if c.Till.Stock != nil {
		if *c.Till.Stock < 0 {
			errs = append(errs, errors.NotValidf("till.stock=%d", *c.Till.Stock))
		} else {
			tc.Stock = uint(*c.Till.Stock)
		}
	}
	if len(c.Till.Products) != 0 {
		tc.Prices = make(map[string]currency.Amount, len(c.Till.Products))
		for _, p := range c.Till.Products {
			if _, ok := tc.Prices[p.Name]; ok {
				errs = append(errs, errors.Errorf("till.product=%s duplicate", p.Name))
				continue
			}
			if p.Price <= 0 {
				errs = append(errs, errors.NotValidf("till.product=%s price=%d", p.Name, p.Price))
				continue
			}
			tc.Prices[p.Name] = currency.Amount(p.Price) * scale
		}
	} else {
		for name, price := range tc.Prices {
			tc.Prices[name] = price * scale
		}
	}
	return tc, helpers.FoldErrors(errs)
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	// caller's slice stays intact
	names = append([]string(nil), names...)
	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
