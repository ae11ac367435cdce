package cssselector

// Specificity computes the complex selector's specificity per CSS
// Selectors Level 4 §17: count ID selectors, class/attribute/pseudo-class
// selectors, and type/pseudo-element selectors across every compound,
// with functional pseudo-classes contributing per their own rule (:is/
// :not contribute their most specific argument; :where() and :has()
// always contribute zero).
func (c Complex) Specificity() Specificity {
	var total Specificity
	for _, comp := range c.Compounds {
		total = total.Add(comp.Specificity())
	}
	return total
}

func (c Compound) Specificity() Specificity {
	var total Specificity
	for _, s := range c.Simples {
		total = total.Add(s.specificity())
	}
	return total
}

func (s Simple) specificity() Specificity {
	switch s.Kind {
	case SimpleID:
		return Specificity{IDs: 1}
	case SimpleClass, SimpleAttribute:
		return Specificity{Classes: 1}
	case SimpleType:
		return Specificity{Elements: 1}
	case SimplePseudoElement:
		return Specificity{Elements: 1}
	case SimpleUniversal, SimpleNesting:
		return Specificity{}
	case SimplePseudoClass:
		return s.pseudoClassSpecificity()
	}
	return Specificity{}
}

func (s Simple) pseudoClassSpecificity() Specificity {
	// :where() and :has() always contribute zero. :where() matches the real
	// CSS Selectors Level 4 §17 rule; :has() deliberately does not (the real
	// spec gives :has() its argument's max specificity, same as :is()/:not(),
	// but this module's data model treats :has() as a relational filter with
	// no specificity weight of its own).
	if s.Name == "where" || s.Name == "has" {
		return Specificity{}
	}

	// :is()/:not() contribute the specificity of their most specific
	// argument instead of their own weight.
	if s.SelectorArg != nil {
		return s.SelectorArg.MaxSpecificity()
	}

	// :nth-child(An+B of S) / :nth-last-child(An+B of S) add the selector
	// list's max specificity on top of the pseudo-class's own weight.
	if s.ANB != nil && s.ANB.Of != nil {
		return Specificity{Classes: 1}.Add(s.ANB.Of.MaxSpecificity())
	}

	return Specificity{Classes: 1}
}

// MaxSpecificity returns the highest specificity among the list's
// selectors, used when a forgiving or non-forgiving selector-list
// argument contributes specificity to its containing pseudo-class. An
// empty list (e.g. a fully-forgiving :is() with nothing surviving)
// contributes zero.
func (l SelectorList) MaxSpecificity() Specificity {
	var max Specificity
	for i, sel := range l.Selectors {
		sp := sel.Specificity()
		if i == 0 || max.Less(sp) {
			max = sp
		}
	}
	return max
}
