// Package parse reads the S-expression input syntax of spec.md §6 — type
// and function-symbol declarations and clause assertions — into an
// *mcsat.Env and a []*mcsat.Clause. It deliberately stays as thin as the
// teacher repository's own dimacs.go: a single-pass reader with explicit,
// descriptive error returns and no attempt at a general-purpose Lisp
// dialect.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arrowsat/mcsat"
)

// Error is a structured user-input error: malformed syntax, an unknown
// identifier, an arity mismatch, a type mismatch, or a re-declaration
// (shadowing). These are spec.md §7 class-1 errors: fatal at parse time,
// never panics.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func errf(format string, args ...interface{}) *Error {
	return &Error{Msg: "parse: " + fmt.Sprintf(format, args...)}
}

// sexp is either an atom (string) or a list ([]sexp).
type sexp interface{}

// Parse reads every top-level form in r, applying `ty`/`fun` declarations
// to a fresh *mcsat.Env and collecting `assert`ed clauses, in declaration
// order.
func Parse(r io.Reader) (*mcsat.Env, []*mcsat.Clause, error) {
	forms, err := readTopLevel(r)
	if err != nil {
		return nil, nil, err
	}

	env := mcsat.NewEnv()
	var clauses []*mcsat.Clause

	for _, form := range forms {
		list, ok := form.([]sexp)
		if !ok || len(list) == 0 {
			return nil, nil, errf("top-level form must be a non-empty list, got %v", form)
		}
		head, ok := list[0].(string)
		if !ok {
			return nil, nil, errf("top-level form must start with a keyword, got %v", list[0])
		}
		switch head {
		case "ty":
			if len(list) != 2 {
				return nil, nil, errf("(ty NAME) expects exactly one argument, got %d", len(list)-1)
			}
			name, ok := list[1].(string)
			if !ok {
				return nil, nil, errf("(ty NAME): NAME must be an identifier, got %v", list[1])
			}
			if _, err := env.DeclareType(name); err != nil {
				return nil, nil, &Error{Msg: "parse: " + err.Error()}
			}
		case "fun":
			if len(list) != 3 {
				return nil, nil, errf("(fun NAME TYPE) expects exactly two arguments, got %d", len(list)-1)
			}
			name, ok := list[1].(string)
			if !ok {
				return nil, nil, errf("(fun NAME TYPE): NAME must be an identifier, got %v", list[1])
			}
			typ, err := parseType(env, list[2])
			if err != nil {
				return nil, nil, err
			}
			args, ret := typ.Open()
			if _, err := env.DeclareFun(name, args, ret); err != nil {
				return nil, nil, &Error{Msg: "parse: " + err.Error()}
			}
		case "assert":
			if len(list) != 2 {
				return nil, nil, errf("(assert CLAUSE) expects exactly one argument, got %d", len(list)-1)
			}
			clause, err := parseClause(env, list[1])
			if err != nil {
				return nil, nil, err
			}
			clauses = append(clauses, clause)
		default:
			return nil, nil, errf("unknown top-level form %q", head)
		}
	}
	return env, clauses, nil
}

// parseType resolves a TYPE form: `bool`, a previously declared type
// name, or `(-> T1 ... Tn TRET)`. `rat` is rejected at parse time
// (DESIGN.md's recorded resolution of spec.md §9's open question).
func parseType(env *mcsat.Env, sx sexp) (*mcsat.Type, error) {
	switch v := sx.(type) {
	case string:
		switch v {
		case "bool":
			return mcsat.BoolType, nil
		case "rat":
			return nil, errf("the `rat` type is not supported by this engine's rules (spec.md §9 open question, resolved to reject at parse time)")
		default:
			t := env.LookupType(v)
			if t == nil {
				return nil, errf("unknown type %q", v)
			}
			return t, nil
		}
	case []sexp:
		if len(v) < 2 {
			return nil, errf("(-> ...) requires at least a return type")
		}
		head, ok := v[0].(string)
		if !ok || head != "->" {
			return nil, errf("expected `->` at the head of a function type, got %v", v[0])
		}
		rest := v[1:]
		types := make([]*mcsat.Type, len(rest))
		for i, part := range rest {
			t, err := parseType(env, part)
			if err != nil {
				return nil, err
			}
			types[i] = t
		}
		args, ret := types[:len(types)-1], types[len(types)-1]
		return env.BuildArrow(args, ret), nil
	default:
		return nil, errf("malformed type form %v", sx)
	}
}

// parseClause parses a CLAUSE form: either a single term, or
// `(or t1 ... tn)`.
func parseClause(env *mcsat.Env, sx sexp) (*mcsat.Clause, error) {
	if list, ok := sx.([]sexp); ok && len(list) > 0 {
		if head, ok := list[0].(string); ok && head == "or" {
			lits := make([]*mcsat.Term, 0, len(list)-1)
			for _, part := range list[1:] {
				t, err := parseTerm(env, part)
				if err != nil {
					return nil, err
				}
				if !t.Type().IsBool() {
					return nil, errf("clause literal %s is not boolean (%s)", t, t.Type())
				}
				lits = append(lits, t)
			}
			return mcsat.NewClause(lits...), nil
		}
	}
	t, err := parseTerm(env, sx)
	if err != nil {
		return nil, err
	}
	if !t.Type().IsBool() {
		return nil, errf("asserted term %s is not boolean (%s)", t, t.Type())
	}
	return mcsat.NewClause(t), nil
}

// parseTerm parses a TERM form: `true`, `false`, an identifier, `(= a b)`,
// `(not t)`, `(if c t e)`, or `(f a1 ... an)`.
func parseTerm(env *mcsat.Env, sx sexp) (*mcsat.Term, error) {
	switch v := sx.(type) {
	case string:
		switch v {
		case "true":
			return env.Bool(true), nil
		case "false":
			return env.Bool(false), nil
		default:
			f := env.LookupFun(v)
			if f == nil {
				return nil, errf("unknown identifier %q", v)
			}
			args, _ := f.Type().Open()
			if len(args) != 0 {
				return nil, errf("%s expects %d arguments but was used as a constant", v, len(args))
			}
			return env.App(f, nil), nil
		}
	case []sexp:
		if len(v) == 0 {
			return nil, errf("empty term form")
		}
		head, ok := v[0].(string)
		if !ok {
			return nil, errf("term form must start with a keyword or function name, got %v", v[0])
		}
		switch head {
		case "=":
			if len(v) != 3 {
				return nil, errf("(= a b) expects exactly two arguments, got %d", len(v)-1)
			}
			a, err := parseTerm(env, v[1])
			if err != nil {
				return nil, err
			}
			b, err := parseTerm(env, v[2])
			if err != nil {
				return nil, err
			}
			if a.Type() != b.Type() {
				return nil, errf("(= %s %s): operand types disagree: %s vs %s", a, b, a.Type(), b.Type())
			}
			return env.Eq(a, b), nil
		case "not":
			if len(v) != 2 {
				return nil, errf("(not t) expects exactly one argument, got %d", len(v)-1)
			}
			t, err := parseTerm(env, v[1])
			if err != nil {
				return nil, err
			}
			if !t.Type().IsBool() {
				return nil, errf("(not %s): operand is not boolean (%s)", t, t.Type())
			}
			return env.Not_(t), nil
		case "if":
			if len(v) != 4 {
				return nil, errf("(if c t e) expects exactly three arguments, got %d", len(v)-1)
			}
			cond, err := parseTerm(env, v[1])
			if err != nil {
				return nil, err
			}
			if !cond.Type().IsBool() {
				return nil, errf("(if %s ...): condition is not boolean (%s)", cond, cond.Type())
			}
			then, err := parseTerm(env, v[2])
			if err != nil {
				return nil, err
			}
			els, err := parseTerm(env, v[3])
			if err != nil {
				return nil, err
			}
			if then.Type() != els.Type() {
				return nil, errf("(if %s %s %s): branches disagree in type: %s vs %s", cond, then, els, then.Type(), els.Type())
			}
			return env.If(cond, then, els), nil
		default:
			f := env.LookupFun(head)
			if f == nil {
				return nil, errf("unknown function symbol %q", head)
			}
			wantArgs, _ := f.Type().Open()
			rest := v[1:]
			if len(wantArgs) != len(rest) {
				return nil, errf("%s expects %d arguments, got %d", head, len(wantArgs), len(rest))
			}
			args := make([]*mcsat.Term, len(rest))
			for i, part := range rest {
				t, err := parseTerm(env, part)
				if err != nil {
					return nil, err
				}
				if t.Type() != wantArgs[i] {
					return nil, errf("%s argument %d: expected %s, got %s (%s)", head, i, wantArgs[i], t, t.Type())
				}
				args[i] = t
			}
			return env.App(f, args), nil
		}
	default:
		return nil, errf("malformed term form %v", sx)
	}
}

// readTopLevel tokenizes r into its top-level list forms.
func readTopLevel(r io.Reader) ([]sexp, error) {
	br := bufio.NewReader(r)
	var out []sexp
	for {
		skipSpaceAndComments(br)
		r0, _, err := br.ReadRune()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if r0 != '(' {
			return nil, errf("expected `(` to start a top-level form, got %q", r0)
		}
		if err := br.UnreadRune(); err != nil {
			return nil, err
		}
		form, err := readSexp(br)
		if err != nil {
			return nil, err
		}
		out = append(out, form)
	}
}

func readSexp(br *bufio.Reader) (sexp, error) {
	skipSpaceAndComments(br)
	r0, _, err := br.ReadRune()
	if err == io.EOF {
		return nil, errf("unexpected end of input")
	}
	if err != nil {
		return nil, err
	}
	if r0 == '(' {
		var list []sexp
		for {
			skipSpaceAndComments(br)
			r1, _, err := br.ReadRune()
			if err == io.EOF {
				return nil, errf("unexpected end of input inside a list")
			}
			if err != nil {
				return nil, err
			}
			if r1 == ')' {
				if list == nil {
					list = []sexp{}
				}
				return list, nil
			}
			if err := br.UnreadRune(); err != nil {
				return nil, err
			}
			item, err := readSexp(br)
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
	}
	if r0 == ')' {
		return nil, errf("unexpected `)`")
	}

	var b strings.Builder
	b.WriteRune(r0)
	for {
		r1, _, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if isSexpSpace(r1) || r1 == '(' || r1 == ')' {
			if err := br.UnreadRune(); err != nil {
				return nil, err
			}
			break
		}
		b.WriteRune(r1)
	}
	return b.String(), nil
}

// skipSpaceAndComments consumes whitespace and `;`-prefixed comments,
// which (like the teacher's DIMACS reader) this parser accepts anywhere,
// not just between top-level forms.
func skipSpaceAndComments(br *bufio.Reader) {
	for {
		r0, _, err := br.ReadRune()
		if err != nil {
			return
		}
		if isSexpSpace(r0) {
			continue
		}
		if r0 == ';' {
			for {
				r1, _, err := br.ReadRune()
				if err != nil || r1 == '\n' {
					break
				}
			}
			continue
		}
		_ = br.UnreadRune()
		return
	}
}

func isSexpSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
