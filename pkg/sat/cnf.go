package sat

// cnfBuilder accumulates clauses and hands out auxiliary variables after the problem's own variables
type cnfBuilder struct {
	instance SAT
}

func (builder *cnfBuilder) newVariable() int64 {
	builder.instance.Variables++
	return int64(builder.instance.Variables)
}

func (builder *cnfBuilder) add(clause []int64) {
	builder.instance.Clauses = append(builder.instance.Clauses, clause)
}

// ToCNF encodes the problem into clauses. Variables 1..problem.Variables keep their meaning, auxiliary counter variables
// follow them. feasible is false when an unconditional constraint can never hold, in which case no instance is built
func (problem *Problem) ToCNF() (instance SAT, feasible bool) {
	constraints, feasible := normalizeProblem(problem)
	if !feasible {
		return SAT{}, false
	}

	builder := cnfBuilder{instance: SAT{
		Variables: problem.Variables,
		Clauses:   make([][]int64, 0, len(constraints)),
	}}
	for _, constraint := range constraints {
		builder.atLeast(constraint)
	}
	return builder.instance, true
}

// atLeast encodes Σ w·l >= k. Weights are expanded by repeating literals, which the counter below handles soundly
func (builder *cnfBuilder) atLeast(constraint pbConstraint) {
	lits := make([]int64, 0, len(constraint.lits))
	for i, literal := range constraint.lits {
		for range constraint.weights[i] {
			lits = append(lits, literal)
		}
	}

	// Plain clause
	if constraint.atLeast == 1 {
		clause := make([]int64, 0, len(constraint.lits)+1)
		clause = append(clause, constraint.lits...)
		if constraint.enforcement != 0 {
			clause = append(clause, -constraint.enforcement)
		}
		builder.add(clause)
		return
	}

	// At least k out of n literals hold iff at most n-k of their negations hold
	negated := make([]int64, len(lits))
	for i, literal := range lits {
		negated[i] = -literal
	}
	builder.atMost(negated, len(lits)-int(constraint.atLeast), constraint.enforcement)
}

// atMost encodes Σ lits <= k through a sequential counter. Only the overflow clauses carry the enforcement literal:
// the counter definitions merely push registers upwards and can always be satisfied
func (builder *cnfBuilder) atMost(lits []int64, k int, enforcement int64) {
	n := len(lits)
	if k >= n {
		return
	}

	guard := func(clause ...int64) []int64 {
		if enforcement != 0 {
			clause = append(clause, -enforcement)
		}
		return clause
	}

	if k <= 0 {
		for _, literal := range lits {
			builder.add(guard(-literal))
		}
		return
	}

	// registers[i][j] holds when at least j+1 of lits[0..i] are true
	registers := make([][]int64, n-1)
	for i := range n - 1 {
		registers[i] = make([]int64, k)
		for j := range k {
			registers[i][j] = builder.newVariable()
		}
	}

	for i := range n - 1 {
		builder.add([]int64{-lits[i], registers[i][0]})
		if i == 0 {
			continue
		}
		for j := range k {
			builder.add([]int64{-registers[i-1][j], registers[i][j]})
			if j > 0 {
				builder.add([]int64{-lits[i], -registers[i-1][j-1], registers[i][j]})
			}
		}
	}

	// Overflow: lits[i] cannot hold once k literals before it already do
	for i := 1; i < n; i++ {
		builder.add(guard(-lits[i], -registers[i-1][k-1]))
	}
}
