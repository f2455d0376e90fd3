package rdf

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/musekg/musegraph/internal/ontology"
)

// WriteTurtle serializes the graph as a line-oriented triple format:
// @prefix declarations followed by one statement per line, in insertion
// order. Serialization is a pure read of the graph; nothing is reordered
// or deduplicated here.
func WriteTurtle(g *Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)

	prefixes := make([]string, 0, len(ontology.Prefixes))
	for p := range ontology.Prefixes {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		if _, err := fmt.Fprintf(bw, "@prefix %s: <%s> .\n", p, ontology.Prefixes[p]); err != nil {
			return fmt.Errorf("write prefix: %w", err)
		}
	}
	if _, err := fmt.Fprintln(bw); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	for _, st := range g.Statements() {
		s, err := renderTerm(IRI(st.Subject))
		if err != nil {
			return err
		}
		p, err := renderTerm(IRI(st.Predicate))
		if err != nil {
			return err
		}
		o, err := renderTerm(st.Object)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, "%s %s %s .\n", s, p, o); err != nil {
			return fmt.Errorf("write statement: %w", err)
		}
	}

	return bw.Flush()
}

// renderTerm renders a term using a prefixed name when the IRI falls under
// a known namespace and the local part is safe, a full <iri> otherwise.
func renderTerm(t Term) (string, error) {
	if !utf8.ValidString(t.Value) {
		return "", fmt.Errorf("encode term: value is not valid UTF-8")
	}
	if t.Kind == KindIRI {
		if name, ok := compactIRI(t.Value); ok {
			return name, nil
		}
		return "<" + t.Value + ">", nil
	}

	lit := "\"" + escapeLiteral(t.Value) + "\""
	if t.Datatype != "" {
		dt, ok := compactIRI(t.Datatype)
		if !ok {
			dt = "<" + t.Datatype + ">"
		}
		lit += "^^" + dt
	}
	return lit, nil
}

func compactIRI(iri string) (string, bool) {
	for prefix, ns := range ontology.Prefixes {
		if strings.HasPrefix(iri, ns) {
			local := iri[len(ns):]
			if local != "" && safeLocalName(local) {
				return prefix + ":" + local, true
			}
		}
	}
	return "", false
}

func safeLocalName(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}

func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseTurtle reads statements back from the line-oriented format. Only the
// subset produced by WriteTurtle is supported: @prefix declarations and one
// statement per line.
func ParseTurtle(r io.Reader) ([]Statement, error) {
	prefixes := make(map[string]string)
	var stmts []Statement

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "@prefix") {
			prefix, ns, err := parsePrefixLine(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			prefixes[prefix] = ns
			continue
		}

		st, err := parseStatementLine(line, prefixes)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		stmts = append(stmts, st)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	return stmts, nil
}

func parsePrefixLine(line string) (string, string, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "@prefix"))
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return "", "", fmt.Errorf("malformed @prefix")
	}
	prefix := strings.TrimSpace(rest[:colon])
	rest = strings.TrimSpace(rest[colon+1:])
	if !strings.HasPrefix(rest, "<") {
		return "", "", fmt.Errorf("malformed @prefix namespace")
	}
	end := strings.Index(rest, ">")
	if end < 0 {
		return "", "", fmt.Errorf("unterminated namespace IRI")
	}
	return prefix, rest[1:end], nil
}

func parseStatementLine(line string, prefixes map[string]string) (Statement, error) {
	p := &termParser{input: line, prefixes: prefixes}

	subject, err := p.next()
	if err != nil {
		return Statement{}, err
	}
	predicate, err := p.next()
	if err != nil {
		return Statement{}, err
	}
	object, err := p.next()
	if err != nil {
		return Statement{}, err
	}

	p.skipSpace()
	if !strings.HasPrefix(p.rest(), ".") {
		return Statement{}, fmt.Errorf("missing statement terminator")
	}

	if subject.Kind != KindIRI || predicate.Kind != KindIRI {
		return Statement{}, fmt.Errorf("subject and predicate must be IRIs")
	}
	return Statement{Subject: subject.Value, Predicate: predicate.Value, Object: object}, nil
}

// termParser walks one statement line, yielding terms
type termParser struct {
	input    string
	pos      int
	prefixes map[string]string
}

func (p *termParser) rest() string {
	return p.input[p.pos:]
}

func (p *termParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *termParser) next() (Term, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return Term{}, fmt.Errorf("unexpected end of statement")
	}

	switch p.input[p.pos] {
	case '<':
		return p.parseFullIRI()
	case '"':
		return p.parseLiteral()
	default:
		return p.parsePrefixedName()
	}
}

func (p *termParser) parseFullIRI() (Term, error) {
	end := strings.IndexByte(p.rest(), '>')
	if end < 0 {
		return Term{}, fmt.Errorf("unterminated IRI")
	}
	iri := p.rest()[1:end]
	p.pos += end + 1
	return IRI(iri), nil
}

func (p *termParser) parsePrefixedName() (Term, error) {
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] != ' ' && p.input[p.pos] != '\t' {
		p.pos++
	}
	name := p.input[start:p.pos]
	colon := strings.Index(name, ":")
	if colon < 0 {
		return Term{}, fmt.Errorf("malformed term %q", name)
	}
	ns, ok := p.prefixes[name[:colon]]
	if !ok {
		return Term{}, fmt.Errorf("unknown prefix %q", name[:colon])
	}
	return IRI(ns + name[colon+1:]), nil
}

func (p *termParser) parseLiteral() (Term, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '\\' {
			if p.pos+1 >= len(p.input) {
				return Term{}, fmt.Errorf("dangling escape")
			}
			switch p.input[p.pos+1] {
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				return Term{}, fmt.Errorf("unknown escape \\%c", p.input[p.pos+1])
			}
			p.pos += 2
			continue
		}
		if c == '"' {
			p.pos++
			return p.parseDatatype(b.String())
		}
		b.WriteByte(c)
		p.pos++
	}
	return Term{}, fmt.Errorf("unterminated literal")
}

func (p *termParser) parseDatatype(value string) (Term, error) {
	if !strings.HasPrefix(p.rest(), "^^") {
		return Literal(value), nil
	}
	p.pos += 2
	dt, err := p.next()
	if err != nil {
		return Term{}, err
	}
	if dt.Kind != KindIRI {
		return Term{}, fmt.Errorf("datatype must be an IRI")
	}
	return TypedLiteral(value, dt.Value), nil
}
