package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
)

// Amount is integer counting lowest currency unit, e.g. $1.20 = 120
type Amount uint32

// Nominal is value of one coin
type Nominal Amount

var (
	ErrNominalInvalid = errors.New("Nominal is not valid for this group")
)

// Sum of coin values, e.g. dispensed change.
func Sum(ns []Nominal) Amount {
	sum := Amount(0)
	for _, n := range ns {
		sum += Amount(n)
	}
	return sum
}

// NominalGroup counts coins of each valid nominal.
// coin50: 1
// coin25: 0
// coin10: 4
// total : 90
// Iteration and expend go from largest nominal to smallest.
type NominalGroup struct {
	order  []Nominal
	values map[Nominal]uint
}

func (self *NominalGroup) Copy() *NominalGroup {
	ng2 := &NominalGroup{
		order:  append([]Nominal(nil), self.order...),
		values: make(map[Nominal]uint, len(self.values)),
	}
	for k, v := range self.values {
		ng2.values[k] = v
	}
	return ng2
}

// SetValid resets group to zero count of each nonzero nominal in `valid`.
func (self *NominalGroup) SetValid(valid []Nominal) {
	self.values = make(map[Nominal]uint, len(valid))
	self.order = make([]Nominal, 0, len(valid))
	for _, n := range valid {
		if n == 0 {
			continue
		}
		if _, ok := self.values[n]; !ok {
			self.order = append(self.order, n)
		}
		self.values[n] = 0
	}
	sort.Slice(self.order, func(i, j int) bool { return self.order[i] > self.order[j] })
}

func (self *NominalGroup) Valid(n Nominal) bool {
	_, ok := self.values[n]
	return ok
}

func (self *NominalGroup) Add(n Nominal, count uint) error {
	if !self.Valid(n) {
		return errors.Annotatef(ErrNominalInvalid, "Add(n=%d, c=%d)", n, count)
	}
	self.values[n] += count
	return nil
}

// AddAll puts every coin back, nothing is added if any coin is invalid.
func (self *NominalGroup) AddAll(ns []Nominal) error {
	for _, n := range ns {
		if !self.Valid(n) {
			return errors.Annotatef(ErrNominalInvalid, "AddAll(n=%d)", n)
		}
	}
	for _, n := range ns {
		self.values[n]++
	}
	return nil
}

func (self *NominalGroup) Get(n Nominal) (uint, error) {
	if stored, ok := self.values[n]; !ok {
		return 0, errors.Annotatef(ErrNominalInvalid, "Get(n=%d)", n)
	} else {
		return stored, nil
	}
}

// Iter calls `f` for each nominal, largest first.
func (self *NominalGroup) Iter(f func(nominal Nominal, count uint) error) error {
	for _, nominal := range self.order {
		if err := f(nominal, self.values[nominal]); err != nil {
			return err
		}
	}
	return nil
}

func (self *NominalGroup) Total() Amount {
	sum := Amount(0)
	for nominal, count := range self.values {
		sum += Amount(nominal) * Amount(count)
	}
	return sum
}

// Contains reports whether greedy Expend would collect exactly `a`.
// Group is not modified.
func (self *NominalGroup) Contains(a Amount) bool {
	_, rest := self.Copy().expend(a)
	return rest == 0
}

// Expend takes coins largest first, as many of each nominal as fit into the
// remaining amount and are in stock. Result may sum to less than `a`,
// caller must check and return coins with AddAll.
func (self *NominalGroup) Expend(a Amount) []Nominal {
	taken, _ := self.expend(a)
	return taken
}

func (self *NominalGroup) expend(a Amount) ([]Nominal, Amount) {
	taken := make([]Nominal, 0, 8)
	for _, n := range self.order {
		want := uint(a / Amount(n))
		if want == 0 {
			continue
		}
		take := self.values[n]
		if want < take {
			take = want
		}
		self.values[n] -= take
		a -= Amount(take) * Amount(n)
		for i := uint(0); i < take; i++ {
			taken = append(taken, n)
		}
	}
	return taken, a
}

func (self *NominalGroup) String() string {
	parts := make([]string, 0, len(self.order)+1)
	for _, nominal := range self.order {
		parts = append(parts, fmt.Sprintf("%d:%d", nominal, self.values[nominal]))
	}
	parts = append(parts, fmt.Sprintf("total:%d", self.Total()))
	return strings.Join(parts, ",")
}
