package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/temoto/till/currency"
	"github.com/temoto/till/log2"
	"github.com/temoto/till/till"
)

const usage = `syntax: one command per line
- insert N          insert coin of value N
- order NAME [QTY]  add product to pending order, QTY=1 by default
- cost              pending order cost
- buy               pay pending order from balance
- available         is exact change available for balance
- change            return balance in coins
- balance           current balance
- prices            price list
- coins             supported coins
- stock             coins in till
`

type shell struct {
	log  *log2.Log
	till *till.Till
	w    io.Writer
}

type command struct {
	name string
	args string
	f    func(s *shell, args []string) error
}

var commands = []command{
	{"insert", "N", (*shell).insert},
	{"order", "NAME [QTY]", (*shell).order},
	{"cost", "", func(s *shell, _ []string) error { s.printf("%d", s.till.Cost()); return nil }},
	{"buy", "", (*shell).buy},
	{"available", "", func(s *shell, _ []string) error { s.printf("%t", s.till.IsChangeAvailable()); return nil }},
	{"change", "", (*shell).change},
	{"balance", "", func(s *shell, _ []string) error { s.printf("%d", s.till.Balance()); return nil }},
	{"prices", "", (*shell).prices},
	{"coins", "", func(s *shell, _ []string) error { s.printf("%s", formatCoins(s.till.SupportedCoins())); return nil }},
	{"stock", "", func(s *shell, _ []string) error { s.printf("%s", s.till.Stock().String()); return nil }},
	{"help", "", func(s *shell, _ []string) error { _, err := io.WriteString(s.w, usage); return err }},
}

func (s *shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.w, format+"\n", args...)
}

func (s *shell) exec(line string) error {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}
	name, args := words[0], words[1:]
	for _, c := range commands {
		if c.name == name {
			s.log.Debugf("exec command=%s args=%v", name, args)
			return c.f(s, args)
		}
	}
	return errors.NotFoundf("command='%s' (try help)", name)
}

func (s *shell) insert(args []string) error {
	if len(args) != 1 {
		return errors.NotValidf("insert expects 1 argument")
	}
	i, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return errors.NewNotValid(err, "insert coin="+args[0])
	}
	if err = s.till.Insert(currency.Nominal(i)); err != nil {
		return err
	}
	s.printf("balance=%d", s.till.Balance())
	return nil
}

func (s *shell) order(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.NotValidf("order expects NAME [QTY]")
	}
	quantity := uint64(1)
	if len(args) == 2 {
		var err error
		if quantity, err = strconv.ParseUint(args[1], 10, 32); err != nil {
			return errors.NewNotValid(err, "order quantity="+args[1])
		}
	}
	if err := s.till.AddOrder(args[0], uint(quantity)); err != nil {
		return err
	}
	s.printf("order %s cost=%d", formatOrder(s.till.Order()), s.till.Cost())
	return nil
}

func (s *shell) buy([]string) error {
	receipt, err := s.till.Buy()
	if err != nil {
		return err
	}
	s.printf("receipt %s balance=%d", formatOrder(receipt), s.till.Balance())
	return nil
}

func (s *shell) change([]string) error {
	change, err := s.till.GetChange()
	if err != nil {
		return err
	}
	s.printf("change %s total=%d", formatCoins(change), currency.Sum(change))
	return nil
}

func (s *shell) prices([]string) error {
	pl := s.till.PriceList()
	names := make([]string, 0, len(pl))
	for name := range pl {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.printf("%s=%d", name, pl[name])
	}
	return nil
}

func formatCoins(ns []currency.Nominal) string {
	ss := make([]string, 0, len(ns))
	for _, n := range ns {
		ss = append(ss, strconv.FormatUint(uint64(n), 10))
	}
	return strings.Join(ss, " ")
}

func formatOrder(o map[string]uint) string {
	parts := make([]string, 0, len(o))
	for name, q := range o {
		parts = append(parts, fmt.Sprintf("%s:%d", name, q))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (s *shell) complete(d prompt.Document) []prompt.Suggest {
	before := d.TextBeforeCursor()
	words := strings.Fields(before)
	if len(words) == 0 || (len(words) == 1 && !strings.HasSuffix(before, " ")) {
		suggests := make([]prompt.Suggest, 0, len(commands))
		for _, c := range commands {
			suggests = append(suggests, prompt.Suggest{Text: c.name, Description: c.args})
		}
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
	}

	var suggests []prompt.Suggest
	switch words[0] {
	case "insert":
		for _, n := range s.till.SupportedCoins() {
			suggests = append(suggests, prompt.Suggest{Text: strconv.FormatUint(uint64(n), 10)})
		}
	case "order":
		pl := s.till.PriceList()
		for name, price := range pl {
			suggests = append(suggests, prompt.Suggest{Text: name, Description: strconv.FormatUint(uint64(price), 10)})
		}
		sort.Slice(suggests, func(i, j int) bool { return suggests[i].Text < suggests[j].Text })
	}
	return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
}
