package sat

// pbConstraint is the pseudo-boolean normal form Σ weights[i]·lits[i] >= atLeast, where every weight is positive and atLeast > 0.
// A non-zero enforcement literal makes the constraint conditional on it
type pbConstraint struct {
	lits        []int64
	weights     []int64
	atLeast     int64
	enforcement int64
}

// normalize rewrites a constraint into pseudo-boolean normal form. Constraints that always hold are dropped, and if an
// unconditional constraint can never hold feasible is false
func normalize(constraint LinearConstraint) (constraints []pbConstraint, feasible bool) {
	// Turn every relation into one or two "greater or equal" inequalities
	type inequality struct {
		terms []Term
		bound int64
	}
	inequalities := make([]inequality, 0, 2)
	if constraint.Relation == GreaterOrEqual || constraint.Relation == Equal {
		inequalities = append(inequalities, inequality{constraint.Terms, constraint.Bound})
	}
	if constraint.Relation == LessOrEqual || constraint.Relation == Equal {
		negated := make([]Term, len(constraint.Terms))
		for i, term := range constraint.Terms {
			negated[i] = Term{Literal: term.Literal, Coefficient: -term.Coefficient}
		}
		inequalities = append(inequalities, inequality{negated, -constraint.Bound})
	}

	constraints = make([]pbConstraint, 0, len(inequalities))
	for _, inequality := range inequalities {
		normalized := greaterOrEqual(inequality.terms, inequality.bound)
		if normalized.atLeast <= 0 {
			continue // Always holds
		}

		var total int64
		for _, weight := range normalized.weights {
			total += weight
		}
		if total < normalized.atLeast {
			if constraint.Enforcement == 0 {
				return nil, false
			}
			// The constraint can never hold, so its enforcement literal must be false
			constraints = append(constraints, pbConstraint{
				lits:    []int64{-constraint.Enforcement},
				weights: []int64{1},
				atLeast: 1,
			})
			continue
		}

		normalized.enforcement = constraint.Enforcement
		constraints = append(constraints, normalized)
	}

	return constraints, true
}

// greaterOrEqual merges the terms per variable and flips negative coefficients, yielding positive weights only
func greaterOrEqual(terms []Term, bound int64) pbConstraint {
	// Coefficients over positive literals, in order of first appearance
	order := make([]int64, 0, len(terms))
	coefficients := make(map[int64]int64, len(terms))
	for _, term := range terms {
		variable, coefficient := term.Literal, term.Coefficient
		if variable < 0 {
			// c·¬v = c - c·v
			variable = -variable
			bound -= coefficient
			coefficient = -coefficient
		}
		if _, ok := coefficients[variable]; !ok {
			order = append(order, variable)
		}
		coefficients[variable] += coefficient
	}

	normalized := pbConstraint{
		lits:    make([]int64, 0, len(order)),
		weights: make([]int64, 0, len(order)),
	}
	for _, variable := range order {
		coefficient := coefficients[variable]
		switch {
		case coefficient > 0:
			normalized.lits = append(normalized.lits, variable)
			normalized.weights = append(normalized.weights, coefficient)
		case coefficient < 0:
			// c·v = c - c·¬v with -c > 0
			normalized.lits = append(normalized.lits, -variable)
			normalized.weights = append(normalized.weights, -coefficient)
			bound -= coefficient
		}
	}
	normalized.atLeast = bound

	return normalized
}

// normalizeProblem normalizes every constraint of the problem
func normalizeProblem(problem *Problem) (constraints []pbConstraint, feasible bool) {
	constraints = make([]pbConstraint, 0, len(problem.Constraints))
	for _, constraint := range problem.Constraints {
		normalized, ok := normalize(constraint)
		if !ok {
			return nil, false
		}
		constraints = append(constraints, normalized...)
	}
	return constraints, true
}
