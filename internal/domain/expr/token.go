package expr

import (
	"fmt"
	"strconv"
)

type tokenKind uint8

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenSymbol
	tokenPlus
	tokenMinus
	tokenStar
	tokenDoubleStar
	tokenSlash
	tokenDoubleSlash
	tokenPercent
	tokenAmp
	tokenPipe
	tokenCaret
	tokenTilde
	tokenLParen
	tokenRParen
	tokenGt
	tokenGe
	tokenLt
	tokenLe
	tokenEq
	tokenNe
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of expression"
	case tokenNumber:
		return "number"
	case tokenSymbol:
		return "symbol"
	case tokenPlus:
		return "+"
	case tokenMinus:
		return "-"
	case tokenStar:
		return "*"
	case tokenDoubleStar:
		return "**"
	case tokenSlash:
		return "/"
	case tokenDoubleSlash:
		return "//"
	case tokenPercent:
		return "%"
	case tokenAmp:
		return "&"
	case tokenPipe:
		return "|"
	case tokenCaret:
		return "^"
	case tokenTilde:
		return "~"
	case tokenLParen:
		return "("
	case tokenRParen:
		return ")"
	case tokenGt:
		return ">"
	case tokenGe:
		return ">="
	case tokenLt:
		return "<"
	case tokenLe:
		return "<="
	case tokenEq:
		return "=="
	case tokenNe:
		return "!="
	default:
		return "unknown"
	}
}

// token is one lexed unit. pos is the byte offset in the source expression,
// used for error positions.
type token struct {
	kind     tokenKind
	pos      int
	text     string  // identifier name for tokenSymbol
	isFloat  bool    // literal form for tokenNumber
	intVal   int64   // valid when !isFloat
	floatVal float64 // valid when isFloat
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

// lex tokenizes the whole expression up front. Identifiers of any spelling
// lex successfully; symbol validity is checked after parsing so that syntax
// errors take precedence.
func lex(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			tok, next, err := lexNumber(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokenSymbol, pos: start, text: src[start:i]})
		case c == '+':
			tokens = append(tokens, token{kind: tokenPlus, pos: i})
			i++
		case c == '-':
			tokens = append(tokens, token{kind: tokenMinus, pos: i})
			i++
		case c == '*':
			if i+1 < len(src) && src[i+1] == '*' {
				tokens = append(tokens, token{kind: tokenDoubleStar, pos: i})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokenStar, pos: i})
				i++
			}
		case c == '/':
			if i+1 < len(src) && src[i+1] == '/' {
				tokens = append(tokens, token{kind: tokenDoubleSlash, pos: i})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokenSlash, pos: i})
				i++
			}
		case c == '%':
			tokens = append(tokens, token{kind: tokenPercent, pos: i})
			i++
		case c == '&':
			tokens = append(tokens, token{kind: tokenAmp, pos: i})
			i++
		case c == '|':
			tokens = append(tokens, token{kind: tokenPipe, pos: i})
			i++
		case c == '^':
			tokens = append(tokens, token{kind: tokenCaret, pos: i})
			i++
		case c == '~':
			tokens = append(tokens, token{kind: tokenTilde, pos: i})
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokenLParen, pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokenRParen, pos: i})
			i++
		case c == '>':
			if i+1 < len(src) && src[i+1] == '=' {
				tokens = append(tokens, token{kind: tokenGe, pos: i})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokenGt, pos: i})
				i++
			}
		case c == '<':
			if i+1 < len(src) && src[i+1] == '=' {
				tokens = append(tokens, token{kind: tokenLe, pos: i})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokenLt, pos: i})
				i++
			}
		case c == '=':
			if i+1 < len(src) && src[i+1] == '=' {
				tokens = append(tokens, token{kind: tokenEq, pos: i})
				i += 2
			} else {
				return nil, fmt.Errorf("%w: unexpected character '=' at position %d (did you mean '==')", ErrSyntax, i)
			}
		case c == '!':
			if i+1 < len(src) && src[i+1] == '=' {
				tokens = append(tokens, token{kind: tokenNe, pos: i})
				i += 2
			} else {
				return nil, fmt.Errorf("%w: unexpected character '!' at position %d (did you mean '!=')", ErrSyntax, i)
			}
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at position %d", ErrSyntax, string(c), i)
		}
	}
	tokens = append(tokens, token{kind: tokenEOF, pos: len(src)})
	return tokens, nil
}

// lexNumber scans an integer or float literal starting at position start.
func lexNumber(src string, start int) (token, int, error) {
	i := start
	sawDot := false
	sawExp := false
scan:
	for i < len(src) {
		c := src[i]
		switch {
		case isDigit(c):
			i++
		case c == '.' && !sawDot && !sawExp:
			sawDot = true
			i++
		case (c == 'e' || c == 'E') && !sawExp && i > start:
			// Exponent marker must be followed by digits, optionally signed.
			j := i + 1
			if j < len(src) && (src[j] == '+' || src[j] == '-') {
				j++
			}
			if j >= len(src) || !isDigit(src[j]) {
				return token{}, 0, fmt.Errorf("%w: malformed number at position %d", ErrSyntax, start)
			}
			sawExp = true
			i = j
		default:
			break scan
		}
	}
	text := src[start:i]
	if !sawDot && !sawExp {
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return token{}, 0, fmt.Errorf("%w: malformed number %q at position %d", ErrSyntax, text, start)
		}
		return token{kind: tokenNumber, pos: start, intVal: v}, i, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, 0, fmt.Errorf("%w: malformed number %q at position %d", ErrSyntax, text, start)
	}
	return token{kind: tokenNumber, pos: start, isFloat: true, floatVal: v}, i, nil
}
