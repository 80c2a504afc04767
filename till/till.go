// Package till is coin operated point of sale.
// Overview:
// - user inserts coins, they go into till stock and add to balance
// - user orders products from price list
// - buy spends balance on the whole pending order
// - change returns the rest of balance, coins are taken from till stock
//   largest first
//
// Till is not safe for concurrent use, callers serialize access.
package till

import (
	"fmt"
	"math"
	"sort"

	"github.com/juju/errors"
	"github.com/temoto/till/currency"
	"github.com/temoto/till/helpers"
	"github.com/temoto/till/log2"
)

var (
	ErrNeedMoreMoney     = errors.New("add-money")
	ErrChangeUnavailable = errors.New("change unavailable")
)

type Config struct {
	// Accepted coins, order is kept for SupportedCoins.
	Coins []currency.Nominal
	// Initial count of each coin in till stock.
	Stock  uint
	Prices map[string]currency.Amount
}

func DefaultConfig() Config {
	return Config{
		Coins: []currency.Nominal{1, 5, 10, 20, 25, 50},
		Stock: 1,
		Prices: map[string]currency.Amount{
			"Tea":    15,
			"Coffee": 25,
			"Juice":  35,
		},
	}
}

type Till struct {
	Log *log2.Log

	coins   []currency.Nominal
	stock   currency.NominalGroup
	prices  map[string]currency.Amount
	order   map[string]uint
	deposit currency.Amount
}

func New(c Config, log *log2.Log) (*Till, error) {
	errs := make([]error, 0)
	if len(c.Coins) == 0 {
		errs = append(errs, errors.NotValidf("coins list empty"))
	}
	seen := make(map[currency.Nominal]struct{}, len(c.Coins))
	for _, n := range c.Coins {
		if n == 0 {
			errs = append(errs, errors.NotValidf("coin=0"))
			continue
		}
		if _, ok := seen[n]; ok {
			errs = append(errs, errors.Errorf("coin=%d duplicate", n))
			continue
		}
		seen[n] = struct{}{}
	}
	for name, price := range c.Prices {
		if name == "" {
			errs = append(errs, errors.NotValidf("product name empty"))
		}
		if price == 0 {
			errs = append(errs, errors.NotValidf("product=%s price=0", name))
		}
	}
	if err := helpers.FoldErrors(sortErrors(errs)); err != nil {
		return nil, errors.Annotate(err, "till config")
	}

	self := &Till{
		Log:    log,
		coins:  append([]currency.Nominal(nil), c.Coins...),
		prices: make(map[string]currency.Amount, len(c.Prices)),
		order:  make(map[string]uint),
	}
	for name, price := range c.Prices {
		self.prices[name] = price
	}
	self.stock.SetValid(self.coins)
	for _, n := range self.coins {
		if err := self.stock.Add(n, c.Stock); err != nil {
			return nil, errors.Annotate(err, "till stock")
		}
	}
	self.Log.Debugf("till init coins=%v prices=%v stock=%s", self.coins, self.prices, self.stock.String())
	return self, nil
}

// map iteration order must not leak into error text
func sortErrors(errs []error) []error {
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return errs
}

func (self *Till) SupportedCoins() []currency.Nominal {
	return append([]currency.Nominal(nil), self.coins...)
}

func (self *Till) PriceList() map[string]currency.Amount {
	pl := make(map[string]currency.Amount, len(self.prices))
	for name, price := range self.prices {
		pl[name] = price
	}
	return pl
}

func (self *Till) Balance() currency.Amount { return self.deposit }

// Stock returns copy of coins in till.
func (self *Till) Stock() *currency.NominalGroup { return self.stock.Copy() }

func (self *Till) Insert(n currency.Nominal) error {
	if uint64(self.deposit)+uint64(n) > math.MaxUint32 {
		return errors.NotValidf("insert coin=%d balance=%d overflow", n, self.deposit)
	}
	if err := self.stock.Add(n, 1); err != nil {
		return errors.NewNotValid(err, fmt.Sprintf("insert coin=%d", n))
	}
	self.deposit += currency.Amount(n)
	self.Log.Debugf("till insert coin=%d balance=%d", n, self.deposit)
	return nil
}

// AddOrder rejects quantity which would make order cost overflow Amount.
func (self *Till) AddOrder(name string, quantity uint) error {
	price, ok := self.prices[name]
	if !ok {
		return errors.NotValidf("product=%s", name)
	}
	if quantity == 0 {
		return errors.NotValidf("product=%s quantity=0", name)
	}
	// price < 2^32, so with quantity < 2^32 the product fits uint64
	if uint64(quantity) > math.MaxUint32 ||
		uint64(self.Cost())+uint64(price)*uint64(quantity) > math.MaxUint32 {
		return errors.NotValidf("product=%s quantity=%d cost overflow", name, quantity)
	}
	self.order[name] += quantity
	self.Log.Debugf("till order product=%s quantity=%d total=%d", name, quantity, self.order[name])
	return nil
}

// Order returns copy of pending order.
func (self *Till) Order() map[string]uint {
	o := make(map[string]uint, len(self.order))
	for name, q := range self.order {
		o[name] = q
	}
	return o
}

// Cost of pending order.
func (self *Till) Cost() currency.Amount {
	cost := currency.Amount(0)
	for name, q := range self.order {
		cost += self.prices[name] * currency.Amount(q)
	}
	return cost
}

// Buy spends balance on pending order and returns it as receipt.
func (self *Till) Buy() (map[string]uint, error) {
	cost := self.Cost()
	if cost > self.deposit {
		return nil, errors.Annotatef(ErrNeedMoreMoney, "cost=%d balance=%d", cost, self.deposit)
	}
	receipt := self.order
	self.order = make(map[string]uint)
	self.deposit -= cost
	self.Log.Debugf("till buy receipt=%v cost=%d balance=%d", receipt, cost, self.deposit)
	return receipt, nil
}

func (self *Till) IsChangeAvailable() bool {
	return self.stock.Contains(self.deposit)
}

// GetChange returns whole balance in coins from till stock.
// On error balance and stock are unchanged.
func (self *Till) GetChange() ([]currency.Nominal, error) {
	if self.deposit == 0 {
		return []currency.Nominal{}, nil
	}
	change := self.stock.Expend(self.deposit)
	if sum := currency.Sum(change); sum != self.deposit {
		if err := self.stock.AddAll(change); err != nil {
			panic(fmt.Sprintf("code error till return change=%v err=%v", change, err))
		}
		err := errors.Annotatef(ErrChangeUnavailable, "balance=%d collected=%d stock=%s", self.deposit, sum, self.stock.String())
		self.Log.Error(err)
		return nil, err
	}
	self.Log.Debugf("till change=%v balance=%d stock=%s", change, self.deposit, self.stock.String())
	self.deposit = 0
	return change, nil
}
