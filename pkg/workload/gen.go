// Package workload generates synthetic student records for seeding and
// benchmarking.
package workload

import (
	"fmt"
	"math/rand"

	"indexdb/pkg/common"
)

var (
	firstNames = []string{"Ada", "Alan", "Barbara", "Claude", "Donald", "Edsger", "Frances", "Grace", "John", "Ken", "Leslie", "Margaret", "Niklaus", "Radia", "Tony"}
	lastNames  = []string{"Lee", "Smith", "Smithson", "Jones", "Chan", "Nguyen", "Garcia", "Kim", "Patel", "Muller", "Okafor", "Rossi", "Silva", "Tanaka", "Walker"}
	majors     = []string{"CS", "Math", "Physics", "Biology", "History", "Art"}
)

type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Record builds one record with the given id. Roughly a third of the last
// names get a numeric suffix so lastIndex has more than a handful of keys.
func (g *Generator) Record(id int64) common.Record {
	last := lastNames[g.rng.Intn(len(lastNames))]
	if g.rng.Intn(3) == 0 {
		last = fmt.Sprintf("%s%d", last, g.rng.Intn(100))
	}
	return common.Record{
		ID:    id,
		First: firstNames[g.rng.Intn(len(firstNames))],
		Last:  last,
		Major: majors[g.rng.Intn(len(majors))],
		Year:  1 + g.rng.Intn(4),
		GPA:   float64(200+g.rng.Intn(201)) / 100,
	}
}

// Records returns n records. With sequential ids run 1..n in order, which
// is the worst case for an unbalanced BST; otherwise ids are a random
// permutation of 1..n.
func (g *Generator) Records(n int, sequential bool) []common.Record {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	if !sequential {
		g.rng.Shuffle(n, func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	}

	out := make([]common.Record, n)
	for i, id := range ids {
		out[i] = g.Record(id)
	}
	return out
}

// Intn exposes the generator's source so callers can draw query arguments
// from the same seed.
func (g *Generator) Intn(n int) int { return g.rng.Intn(n) }

// LastPrefix returns a 1–3 letter prefix of a known last name.
func (g *Generator) LastPrefix() string {
	name := lastNames[g.rng.Intn(len(lastNames))]
	return name[:1+g.rng.Intn(min(3, len(name)))]
}
