package clashes

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMockCount is the size of the synthetic collection.
const DefaultMockCount = 100

var (
	mockDisciplines      = []string{"MEP", "Structure", "Architecture"}
	mockCategoriesMEP    = []string{"Ducts", "Pipes", "Cable Trays", "Conduits", "Air Terminals"}
	mockCategoriesStruct = []string{"Beams", "Columns", "Slabs", "Foundations", "Walls"}
	mockCategoriesArch   = []string{"Walls", "Doors", "Windows", "Ceilings", "Floors"}
	mockLevels           = []string{"L00", "L01", "L02", "L03", "L04", "L05", "Roof"}

	mockTitles = []string{
		"Duct vs Beam",
		"Pipe vs Column",
		"Cable Tray vs Slab",
		"Conduit vs Wall",
		"Duct vs Structural Beam",
		"Pipe vs Architectural Wall",
		"HVAC vs Structure",
		"Electrical vs MEP",
		"Plumbing vs Structure",
	}

	severityWeights = []float64{0.2, 0.5, 0.3}
	statusWeights   = []float64{0.6, 0.3, 0.1}
)

// Generator produces a realistic synthetic clash collection. It is used when
// the live source is disabled or unavailable. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a Generator drawing from rng. A nil rng seeds a fresh
// source from the clock.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Generator{rng: rng, now: time.Now}
}

// WithClock overrides the reference time used for timestamps.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate returns count clashes ordered high severity first, then most
// recently updated first.
func (g *Generator) Generate(count int) []Clash {
	g.mu.Lock()
	defer g.mu.Unlock()

	if count < 0 {
		count = 0
	}

	base := g.now().UTC()
	clashes := make([]Clash, 0, count)
	for i := range count {
		clashes = append(clashes, g.clash(i, base))
	}

	slices.SortStableFunc(clashes, func(a, b Clash) int {
		if c := a.Severity.Rank() - b.Severity.Rank(); c != 0 {
			return c
		}
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})

	return clashes
}

func (g *Generator) clash(index int, base time.Time) Clash {
	id := fmt.Sprintf("clash_%05d", index)
	groupID := fmt.Sprintf("group_%02d", g.rng.IntN(20)+1)

	pick := g.rng.Perm(len(mockDisciplines))
	discA, discB := mockDisciplines[pick[0]], mockDisciplines[pick[1]]

	severity := Severities[g.weighted(severityWeights)]
	status := Statuses[g.weighted(statusWeights)]

	created := base.Add(-time.Duration(g.rng.IntN(60)+1) * 24 * time.Hour)
	updated := created.Add(time.Duration(g.rng.IntN(11)) * 24 * time.Hour)

	link := fmt.Sprintf("https://acc.autodesk.com/docs/files/projects/mock-project?clash=%s", id)

	return Clash{
		ID:          id,
		GroupID:     groupID,
		Title:       choose(g.rng, mockTitles),
		Status:      status,
		Severity:    severity,
		DisciplineA: discA,
		DisciplineB: discB,
		ElementA:    g.element(discA),
		ElementB:    g.element(discB),
		Location: Location{
			X:     round2(g.uniform(-50, 50)),
			Y:     round2(g.uniform(-50, 50)),
			Z:     round2(g.uniform(0, 30)),
			Level: choose(g.rng, mockLevels),
		},
		ACCLink:   &link,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

func (g *Generator) element(discipline string) Element {
	var category string
	switch discipline {
	case "MEP":
		category = choose(g.rng, mockCategoriesMEP)
	case "Structure":
		category = choose(g.rng, mockCategoriesStruct)
	default:
		category = choose(g.rng, mockCategoriesArch)
	}

	guid, err := uuid.NewRandomFromReader(rngReader{g.rng})
	if err != nil {
		guid = uuid.New()
	}

	return Element{
		URN:      fmt.Sprintf("urn:adsk.objects:os.object:demo-bucket/%s", guid),
		GUID:     guid.String(),
		Name:     fmt.Sprintf("%s-%d", category, g.rng.IntN(9000)+1000),
		Category: category,
	}
}

func (g *Generator) weighted(weights []float64) int {
	r := g.rng.Float64()
	var acc float64
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func choose[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// rngReader lets uuid draw from the generator's source so seeded
// generators stay reproducible.
type rngReader struct {
	rng *rand.Rand
}

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}
