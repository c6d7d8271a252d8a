package analysis

import (
	"math"
	"sort"
)

// Count is a label with its number of occurrences.
type Count struct {
	Label string
	Count int
}

// Rate is the mean of a boolean indicator over the games in a group.
// Value is NaN when the group has no games.
type Rate struct {
	Label string
	Games int
	Wins  int
	Value float64
}

// Defined reports whether the rate has at least one game behind it.
func (r Rate) Defined() bool { return r.Games > 0 && !math.IsNaN(r.Value) }

// counter counts keys and remembers the order in which they were first seen.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter { return &counter{counts: map[string]int{}} }

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// sorted returns all keys by descending count; ties keep first-seen order.
func (c *counter) sorted() []Count {
	out := make([]Count, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, Count{Label: k, Count: c.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// top returns at most n entries of sorted(). n <= 0 means all.
func (c *counter) top(n int) []Count {
	out := c.sorted()
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// rateAcc accumulates wins and games per key.
type rateAcc struct {
	order []string
	games map[string]int
	wins  map[string]int
}

func newRateAcc() *rateAcc {
	return &rateAcc{games: map[string]int{}, wins: map[string]int{}}
}

// declare registers a key with no games so it appears in the output.
func (a *rateAcc) declare(key string) {
	if _, ok := a.games[key]; !ok {
		a.order = append(a.order, key)
		a.games[key] = 0
	}
}

func (a *rateAcc) add(key string, win bool) {
	a.declare(key)
	a.games[key]++
	if win {
		a.wins[key]++
	}
}

func (a *rateAcc) rate(key string) Rate {
	r := Rate{Label: key, Games: a.games[key], Wins: a.wins[key], Value: math.NaN()}
	if r.Games > 0 {
		r.Value = float64(r.Wins) / float64(r.Games)
	}
	return r
}

// rates finalizes every key in declaration order.
func (a *rateAcc) rates() []Rate {
	out := make([]Rate, 0, len(a.order))
	for _, k := range a.order {
		out = append(out, a.rate(k))
	}
	return out
}
