package cond

// Tristate is the result of evaluating a conditional-compilation
// expression: a definite boolean, or Unknown when the configuration cannot
// resolve it.
type Tristate uint8

const (
	Unknown Tristate = iota
	True
	False
)

// IsResolved reports whether t is True or False (as opposed to Unknown).
func (t Tristate) IsResolved() bool { return t != Unknown }

// Bool reports the resolved value and whether the state was resolved at
// all, mirroring an optional<bool>.
func (t Tristate) Bool() (value, ok bool) {
	switch t {
	case True:
		return true, true
	case False:
		return false, true
	default:
		return false, false
	}
}

func not(t Tristate) Tristate {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// Eval partially evaluates e against cfg, following the §4.3 rules:
// boolean literals evaluate to themselves; bare identifiers are looked up;
// identifiers with arguments are always Unknown; && and || short-circuit on
// a decisive operand and otherwise propagate Unknown; a single-element
// parenthesised tuple evaluates its inner expression.
func Eval(e Expr, cfg Config) Tristate {
	switch e.Kind {
	case ExprBoolLiteral:
		if e.BoolValue {
			return True
		}
		return False

	case ExprIdent:
		return cfg.Lookup(e.Name)

	case ExprCall:
		return Unknown

	case ExprNot:
		if e.Operand == nil {
			return Unknown
		}
		return not(Eval(*e.Operand, cfg))

	case ExprAnd:
		if e.Left == nil || e.Right == nil {
			return Unknown
		}
		left := Eval(*e.Left, cfg)
		if left == False {
			return False
		}
		right := Eval(*e.Right, cfg)
		if right == False {
			return False
		}
		if left == True && right == True {
			return True
		}
		return Unknown

	case ExprOr:
		if e.Left == nil || e.Right == nil {
			return Unknown
		}
		left := Eval(*e.Left, cfg)
		if left == True {
			return True
		}
		right := Eval(*e.Right, cfg)
		if right == True {
			return True
		}
		if left == False && right == False {
			return False
		}
		return Unknown

	case ExprParen:
		if e.Operand == nil {
			return Unknown
		}
		return Eval(*e.Operand, cfg)

	default:
		return Unknown
	}
}
