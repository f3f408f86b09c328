package ephem

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/antikythera/internal/astro"
)

// ErrMalformedTable is returned when a vector table does not follow the
// expected grammar.
var ErrMalformedTable = errors.New("malformed vector table")

// TokenKind classifies a vector-table token.
type TokenKind int

const (
	TokenWord TokenKind = iota
	TokenNumber
	TokenEquals
)

// Token is one lexical item of a vector table.
type Token struct {
	Kind  TokenKind
	Text  string
	Value float64 // set for TokenNumber
	Line  int
}

// Tokenize splits table text into words, numbers and '=' signs. Words that
// parse as floats become numbers; '=' always stands alone, so "X =-1.5"
// yields X, =, -1.5.
func Tokenize(text string) []Token {
	var toks []Token
	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		start := -1
		flush := func(end int) {
			if start < 0 {
				return
			}
			word := line[start:end]
			tok := Token{Kind: TokenWord, Text: word, Line: lineNo}
			if v, err := strconv.ParseFloat(word, 64); err == nil {
				tok.Kind = TokenNumber
				tok.Value = v
			}
			toks = append(toks, tok)
			start = -1
		}
		for j := 0; j < len(line); j++ {
			switch c := line[j]; {
			case c == ' ' || c == '\t' || c == '\r':
				flush(j)
			case c == '=':
				flush(j)
				toks = append(toks, Token{Kind: TokenEquals, Text: "=", Line: lineNo})
			default:
				if start < 0 {
					start = j
				}
			}
		}
		flush(len(line))
	}
	return toks
}

// ExtractTable returns the text between the $$SOE and $$EOE markers.
func ExtractTable(result string) (string, error) {
	soe := strings.Index(result, "$$SOE")
	eoe := strings.Index(result, "$$EOE")
	if soe == -1 || eoe == -1 || soe >= eoe {
		return "", fmt.Errorf("%w: could not find $$SOE/$$EOE markers", ErrNoData)
	}
	return result[soe+len("$$SOE") : eoe], nil
}

// ParseVectorTable parses a Horizons VECTORS table body into records.
// Each record has the shape
//
//	JD = A.D. 2024-Dec-05 00:00:00.0000 TDB
//	 X = n Y = n Z = n [label = n ...]
//
// Extra labeled quantities (velocities, light time) are accepted and ignored.
func ParseVectorTable(text string) ([]VectorRecord, error) {
	p := &vectorParser{toks: Tokenize(text)}
	var records []VectorRecord
	for !p.done() {
		rec, err := p.record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Horizons calendar date layout. A fractional-second suffix is accepted.
const horizonsDateLayout = "2006-Jan-02 15:04:05"

type vectorParser struct {
	toks []Token
	pos  int
}

func (p *vectorParser) done() bool {
	return p.pos >= len(p.toks)
}

func (p *vectorParser) peek(offset int) (Token, bool) {
	i := p.pos + offset
	if i >= len(p.toks) {
		return Token{}, false
	}
	return p.toks[i], true
}

func (p *vectorParser) expect(kind TokenKind, what string) (Token, error) {
	tok, ok := p.peek(0)
	if !ok {
		return Token{}, fmt.Errorf("%w: expected %s, got end of table", ErrMalformedTable, what)
	}
	if tok.Kind != kind {
		return Token{}, fmt.Errorf("%w: line %d: expected %s, got %q", ErrMalformedTable, tok.Line, what, tok.Text)
	}
	p.pos++
	return tok, nil
}

func (p *vectorParser) record() (VectorRecord, error) {
	jd, err := p.expect(TokenNumber, "julian date")
	if err != nil {
		return VectorRecord{}, err
	}
	if _, err := p.expect(TokenEquals, "'='"); err != nil {
		return VectorRecord{}, err
	}
	era, err := p.expect(TokenWord, "era")
	if err != nil {
		return VectorRecord{}, err
	}
	if era.Text != "A.D." {
		return VectorRecord{}, fmt.Errorf("%w: line %d: unsupported era %q", ErrMalformedTable, era.Line, era.Text)
	}
	date, err := p.expect(TokenWord, "date")
	if err != nil {
		return VectorRecord{}, err
	}
	clock, err := p.expect(TokenWord, "time of day")
	if err != nil {
		return VectorRecord{}, err
	}
	t, err := time.Parse(horizonsDateLayout, date.Text+" "+clock.Text)
	if err != nil {
		return VectorRecord{}, fmt.Errorf("%w: line %d: %v", ErrMalformedTable, date.Line, err)
	}

	rec := VectorRecord{JD: jd.Value, Time: t.UTC()}

	// Optional time scale: a word not followed by '='.
	if tok, ok := p.peek(0); ok && tok.Kind == TokenWord {
		if next, ok := p.peek(1); !ok || next.Kind != TokenEquals {
			rec.Scale = tok.Text
			p.pos++
		}
	}

	values := make(map[string]float64, 3)
	for {
		label, ok := p.peek(0)
		if !ok || label.Kind != TokenWord {
			break
		}
		p.pos++
		if _, err := p.expect(TokenEquals, "'=' after "+label.Text); err != nil {
			return VectorRecord{}, err
		}
		v, err := p.expect(TokenNumber, "value of "+label.Text)
		if err != nil {
			return VectorRecord{}, err
		}
		values[label.Text] = v.Value
	}

	for _, c := range []string{"X", "Y", "Z"} {
		if _, ok := values[c]; !ok {
			return VectorRecord{}, fmt.Errorf("%w: line %d: record missing %s", ErrMalformedTable, jd.Line, c)
		}
	}
	rec.Pos = astro.Vec3{X: values["X"], Y: values["Y"], Z: values["Z"]}
	return rec, nil
}
