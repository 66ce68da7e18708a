package script

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type ItemType int

const (
	itemError ItemType = iota
	itemEOF

	itemTerminateLine // ;
	itemAssign        // =
	itemAddToList     // +=
	itemNumber
	itemIdentifier

	itemKeyword // delimiter; keywords follow
	itemMoves
	itemPlayer
	itemAt
	itemHold
)

var key = map[string]ItemType{
	"moves":  itemMoves,
	"player": itemPlayer,
	"at":     itemAt,
	"hold":   itemHold,
}

var itemNames = map[ItemType]string{
	itemError:         "error",
	itemEOF:           "EOF",
	itemTerminateLine: ";",
	itemAssign:        "=",
	itemAddToList:     "+=",
	itemNumber:        "number",
	itemIdentifier:    "identifier",
}

func (i ItemType) String() string {
	if s, ok := itemNames[i]; ok {
		return s
	}
	for k, v := range key {
		if v == i {
			return k
		}
	}
	return fmt.Sprintf("item(%d)", int(i))
}

type item struct {
	typ  ItemType
	pos  int
	val  string
	line int
}

func (i item) String() string {
	switch {
	case i.typ == itemEOF:
		return "EOF"
	case i.typ == itemError:
		return i.val
	case i.typ > itemKeyword:
		return fmt.Sprintf("<%s>", i.val)
	}
	return fmt.Sprintf("%q", i.val)
}

const eof = -1

type stateFn func(*lexer) stateFn

//lexer turns script text into items; nextItem drives the state functions
//until at least one item is queued
type lexer struct {
	name      string
	input     string
	start     int
	pos       int
	width     int
	line      int
	startLine int
	state     stateFn
	queue     []item
}

func lex(name, input string) *lexer {
	return &lexer{
		name:      name,
		input:     input,
		line:      1,
		startLine: 1,
		state:     lexText,
	}
}

func (l *lexer) nextItem() item {
	for len(l.queue) == 0 && l.state != nil {
		l.state = l.state(l)
	}
	if len(l.queue) == 0 {
		return item{typ: itemEOF, pos: l.pos, line: l.line}
	}
	i := l.queue[0]
	l.queue = l.queue[1:]
	return i
}

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

//backup can only be called once per call of next
func (l *lexer) backup() {
	l.pos -= l.width
	if l.width == 1 && l.input[l.pos] == '\n' {
		l.line--
	}
}

func (l *lexer) emit(t ItemType) {
	l.queue = append(l.queue, item{t, l.start, l.input[l.start:l.pos], l.startLine})
	l.ignore()
}

func (l *lexer) ignore() {
	l.start = l.pos
	l.startLine = l.line
}

func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

func (l *lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

//errorf queues an error item and stops the lexer
func (l *lexer) errorf(format string, args ...interface{}) stateFn {
	l.queue = append(l.queue, item{itemError, l.start, fmt.Sprintf(format, args...), l.startLine})
	return nil
}

func lexText(l *lexer) stateFn {
	switch r := l.next(); {
	case r == eof:
		l.emit(itemEOF)
		return nil
	case isSpace(r):
		l.ignore()
	case r == '#':
		return lexComment
	case r == ';':
		l.emit(itemTerminateLine)
	case r == '=':
		l.emit(itemAssign)
	case r == '+':
		if l.next() != '=' {
			return l.errorf("line %d: expected += after +", l.startLine)
		}
		l.emit(itemAddToList)
	case r == '-' || ('0' <= r && r <= '9'):
		l.backup()
		return lexNumber
	case isAlphaNumeric(r):
		l.backup()
		return lexIdentifier
	default:
		return l.errorf("line %d: unrecognized character %#U", l.startLine, r)
	}
	return lexText
}

func lexComment(l *lexer) stateFn {
	for {
		r := l.next()
		if r == eof || r == '\n' {
			break
		}
	}
	l.ignore()
	return lexText
}

func lexNumber(l *lexer) stateFn {
	l.accept("-")
	digits := "0123456789"
	l.acceptRun(digits)
	if l.accept(".") {
		l.acceptRun(digits)
	}
	if isAlphaNumeric(l.peek()) {
		l.next()
		return l.errorf("line %d: bad number syntax %q", l.startLine, l.input[l.start:l.pos])
	}
	if l.pos-l.start == 1 && l.input[l.start] == '-' {
		return l.errorf("line %d: bad number syntax %q", l.startLine, "-")
	}
	l.emit(itemNumber)
	return lexText
}

func lexIdentifier(l *lexer) stateFn {
	for isAlphaNumeric(l.next()) {
	}
	l.backup()
	word := l.input[l.start:l.pos]
	if t, ok := key[word]; ok {
		l.emit(t)
	} else {
		l.emit(itemIdentifier)
	}
	return lexText
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isAlphaNumeric(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
