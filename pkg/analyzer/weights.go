package analyzer

// WeightTable accumulates weights per candidate id and remembers the order
// in which ids were first added.
type WeightTable struct {
	order   []int
	weights map[int]int
}

// NewWeightTable returns an empty table.
func NewWeightTable() *WeightTable {
	return &WeightTable{weights: make(map[int]int)}
}

// Add adds w to the weight of id.
func (t *WeightTable) Add(id, w int) {
	if _, ok := t.weights[id]; !ok {
		t.order = append(t.order, id)
	}
	t.weights[id] += w
}

// Get returns the accumulated weight of id.
func (t *WeightTable) Get(id int) int {
	return t.weights[id]
}

// Len returns the number of distinct ids.
func (t *WeightTable) Len() int {
	return len(t.order)
}

// Entries returns the table in insertion order.
func (t *WeightTable) Entries() []Weight {
	entries := make([]Weight, 0, len(t.order))
	for _, id := range t.order {
		entries = append(entries, Weight{ID: id, Weight: t.weights[id]})
	}
	return entries
}

// WeightedArgmax returns the id with the strictly highest positive weight.
// Ties go to the id added first. If no weight is positive it returns (0, 0).
func WeightedArgmax(t *WeightTable) (id, weight int) {
	for _, k := range t.order {
		if w := t.weights[k]; w > weight {
			id, weight = k, w
		}
	}
	return id, weight
}
