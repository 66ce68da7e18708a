//Package script parses gesture scripts: timed moves used to drive a match
//without gloves, e.g.
//
//	moves+=left_jab player=1 at=500;
//	moves+=right_block player=2 at=900 hold=1500;
//
//Times are in milliseconds from the start of the round. hold on a block
//lowers the guard again after the given time.
package script

import (
	"fmt"
	"strconv"
	"time"

	"github.com/srliao/streetfire/pkg/gesture"
)

type Parser struct {
	input  string
	l      *lexer
	tokens []item
	pos    int
}

func New(name, input string) *Parser {
	p := &Parser{input: input}
	p.l = lex(name, input)
	p.pos = -1
	return p
}

//Parse reads the whole input. Timed moves are returned in source order;
//gesture.NewScript sorts them.
func (p *Parser) Parse() ([]gesture.Timed, error) {
	var r []gesture.Timed
	for n := p.next(); n.typ != itemEOF; n = p.next() {
		switch n.typ {
		case itemError:
			return r, fmt.Errorf("lex error: %v", n.val)
		case itemMoves:
			items, err := p.parseMove()
			if err != nil {
				return r, err
			}
			r = append(r, items...)
		default:
			return r, fmt.Errorf("<script> bad token at line %v - %v: %v", n.line, n.pos, n)
		}
	}
	return r, nil
}

type moveLine struct {
	kind   gesture.Kind
	player int
	at     int
	hold   int
	hasAt  bool
	line   int
}

func (p *Parser) parseMove() ([]gesture.Timed, error) {
	n, err := p.consume(itemAddToList)
	if err != nil {
		return nil, err
	}
	n, err = p.consume(itemIdentifier)
	if err != nil {
		return nil, err
	}
	k, err := gesture.ParseKind(n.val)
	if err != nil {
		return nil, fmt.Errorf("<moves> line %v: %w", n.line, err)
	}
	m := moveLine{kind: k, line: n.line}

LOOP:
	for {
		n = p.next()
		switch n.typ {
		case itemPlayer:
			m.player, err = p.parseNumber()
		case itemAt:
			m.at, err = p.parseNumber()
			m.hasAt = true
		case itemHold:
			m.hold, err = p.parseNumber()
		case itemTerminateLine:
			break LOOP
		case itemError:
			return nil, fmt.Errorf("lex error: %v", n.val)
		default:
			return nil, fmt.Errorf("<moves> bad token at line %v - %v: %v", n.line, n.pos, n)
		}
		if err != nil {
			return nil, err
		}
	}
	return m.timed()
}

func (m moveLine) timed() ([]gesture.Timed, error) {
	mv := gesture.Move{Player: m.player, Kind: m.kind}
	if err := mv.Validate(); err != nil {
		return nil, fmt.Errorf("<moves> line %v: %w", m.line, err)
	}
	if !m.hasAt {
		return nil, fmt.Errorf("<moves> line %v: missing at", m.line)
	}
	if m.at < 0 {
		return nil, fmt.Errorf("<moves> line %v: negative at %v", m.line, m.at)
	}
	at := time.Duration(m.at) * time.Millisecond
	r := []gesture.Timed{{At: at, Move: mv}}
	if m.hold == 0 {
		return r, nil
	}
	if !m.kind.IsBlock() {
		return nil, fmt.Errorf("<moves> line %v: hold is only valid on blocks", m.line)
	}
	if m.hold < 0 {
		return nil, fmt.Errorf("<moves> line %v: negative hold %v", m.line, m.hold)
	}
	r = append(r, gesture.Timed{
		At:   at + time.Duration(m.hold)*time.Millisecond,
		Move: gesture.Move{Player: m.player, Kind: gesture.BlockRelease},
	})
	return r, nil
}

func (p *Parser) parseNumber() (int, error) {
	if _, err := p.consume(itemAssign); err != nil {
		return 0, err
	}
	n, err := p.consume(itemNumber)
	if err != nil {
		return 0, err
	}
	x, err := strconv.ParseInt(n.val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("<number> bad value at line %v - %v: %v", n.line, n.pos, n)
	}
	return int(x), nil
}

//Load parses input into a ready to run gesture script
func Load(name, input string) (*gesture.Script, error) {
	items, err := New(name, input).Parse()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", name, err)
	}
	return gesture.NewScript(items), nil
}

func (p *Parser) consume(i ItemType) (item, error) {
	n := p.next()
	if n.typ == itemError {
		return n, fmt.Errorf("lex error: %v", n.val)
	}
	if n.typ != i {
		return n, fmt.Errorf("expecting %v, got bad token at line %v - %v: %v", i, n.line, n.pos, n)
	}
	return n, nil
}

func (p *Parser) next() item {
	p.pos++
	if p.pos == len(p.tokens) {
		t := p.l.nextItem()
		p.tokens = append(p.tokens, t)
	}
	return p.tokens[p.pos]
}
