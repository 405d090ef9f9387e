package sat

import "fmt"

type Relation int

const (
	LessOrEqual Relation = iota
	Equal
	GreaterOrEqual
)

func (relation Relation) String() string {
	switch relation {
	case LessOrEqual:
		return "<="
	case Equal:
		return "=="
	case GreaterOrEqual:
		return ">="
	}
	return fmt.Sprintf("Relation(%d)", int(relation))
}

// Term is a weighted literal. A negative literal -v stands for the negation of variable v, whose value is 1 - v
type Term struct {
	Literal     int64
	Coefficient int64
}

// LinearConstraint represents Σ Coefficient·Literal <Relation> Bound.
// When Enforcement is non-zero the constraint only has to hold if the Enforcement literal is true (i.e. it is reified on that literal).
// The Enforcement literal must not refer to a variable present in Terms
type LinearConstraint struct {
	Terms       []Term
	Relation    Relation
	Bound       int64
	Enforcement int64
}

// Problem is a set of boolean variables together with linear constraints over them. Variables are 1-indexed as in DIMACS
type Problem struct {
	Variables   uint64
	Names       []string
	Constraints []LinearConstraint
}

func NewProblem() *Problem {
	return &Problem{
		Names:       make([]string, 0),
		Constraints: make([]LinearConstraint, 0),
	}
}

// DeclareBoolVar declares a fresh boolean variable and returns its handle (a positive literal)
func (problem *Problem) DeclareBoolVar(name string) int64 {
	problem.Variables++
	problem.Names = append(problem.Names, name)
	return int64(problem.Variables)
}

func (problem *Problem) AddLinearConstraint(terms []Term, relation Relation, bound int64) {
	problem.AddConstraint(LinearConstraint{Terms: terms, Relation: relation, Bound: bound})
}

// AddEnforcedConstraint adds a constraint that only has to hold when enforcement is true
func (problem *Problem) AddEnforcedConstraint(enforcement int64, terms []Term, relation Relation, bound int64) {
	problem.AddConstraint(LinearConstraint{Terms: terms, Relation: relation, Bound: bound, Enforcement: enforcement})
}

func (problem *Problem) AddConstraint(constraint LinearConstraint) {
	problem.Constraints = append(problem.Constraints, constraint)
}

// Name returns the name a variable was declared with
func (problem *Problem) Name(variable int64) string {
	if variable < 0 {
		variable = -variable
	}
	if variable == 0 || uint64(variable) > problem.Variables {
		return ""
	}
	return problem.Names[variable-1]
}

// Ones builds unit-coefficient terms for the given literals
func Ones(literals ...int64) []Term {
	terms := make([]Term, len(literals))
	for i, literal := range literals {
		terms[i] = Term{Literal: literal, Coefficient: 1}
	}
	return terms
}

// Satisfied evaluates the constraint under the given value function (used to check solutions)
func (constraint LinearConstraint) Satisfied(value func(variable int64) bool) bool {
	if constraint.Enforcement != 0 && !literalValue(constraint.Enforcement, value) {
		return true
	}

	var sum int64
	for _, term := range constraint.Terms {
		if literalValue(term.Literal, value) {
			sum += term.Coefficient
		}
	}

	switch constraint.Relation {
	case LessOrEqual:
		return sum <= constraint.Bound
	case Equal:
		return sum == constraint.Bound
	default:
		return sum >= constraint.Bound
	}
}

func literalValue(literal int64, value func(variable int64) bool) bool {
	if literal < 0 {
		return !value(-literal)
	}
	return value(literal)
}
