// Package notation implements the textual codec for piece, move, turn,
// game-type and game strings used by the line protocol. It is a thin,
// regexp-based translation layer: it knows the grammars but nothing
// about legality, which is the rules package's job.
package notation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/hiveuhp/hive/internal/board"
	"github.com/hiveuhp/hive/internal/geom"
)

// ErrBadNotation is wrapped with a descriptive message for every parse
// failure in this package.
var ErrBadNotation = errors.New("notation error")

var pieceTypeLetters = map[byte]board.Type{
	'Q': board.Queen,
	'S': board.Spider,
	'B': board.Beetle,
	'A': board.Ant,
	'G': board.Grasshopper,
	'M': board.Mosquito,
	'L': board.Ladybug,
	'P': board.Pillbug,
}

var pieceStringRE = regexp.MustCompile(`^([bw])(?:(Q)|([SB])([12])|([AG])([1-3])|(M)|(L)|(P))$`)

// ParsePiece decomposes a piece string such as "wA2" or "bQ" into a
// board.Piece.
func ParsePiece(s string) (board.Piece, error) {
	m := pieceStringRE.FindStringSubmatch(s)
	if m == nil {
		return board.Piece{}, errors.Wrapf(ErrBadNotation, "piece string %q", s)
	}
	color := board.White
	if m[1] == "b" {
		color = board.Black
	}
	switch {
	case m[2] != "":
		return board.Piece{Color: color, Type: board.Queen}, nil
	case m[3] != "":
		n, _ := strconv.Atoi(m[4])
		return board.Piece{Color: color, Type: pieceTypeLetters[m[3][0]], Number: n}, nil
	case m[5] != "":
		n, _ := strconv.Atoi(m[6])
		return board.Piece{Color: color, Type: pieceTypeLetters[m[5][0]], Number: n}, nil
	case m[7] != "":
		return board.Piece{Color: color, Type: board.Mosquito}, nil
	case m[8] != "":
		return board.Piece{Color: color, Type: board.Ladybug}, nil
	case m[9] != "":
		return board.Piece{Color: color, Type: board.Pillbug}, nil
	}
	return board.Piece{}, errors.Wrapf(ErrBadNotation, "piece string %q", s)
}

// BuildPiece renders a board.Piece in its canonical string form. It
// never fails: every board.Piece value is representable.
func BuildPiece(p board.Piece) string {
	return p.String()
}

// IsValidPieceString reports whether s parses as a piece string.
func IsValidPieceString(s string) bool {
	return pieceStringRE.MatchString(s)
}

// relation direction <-> (sign, isPrefix) table. Walking the clockwise
// order, NW, N and NE put the sign after the reference piece and SE, S
// and SW put the same three signs before it.
type relSpec struct {
	sign   byte
	prefix bool
}

var dirToRel = map[geom.Direction]relSpec{
	geom.NW: {'/', false},
	geom.N:  {'-', false},
	geom.NE: {'\\', false},
	geom.SE: {'/', true},
	geom.S:  {'-', true},
	geom.SW: {'\\', true},
}

var relToDir = func() map[relSpec]geom.Direction {
	out := map[relSpec]geom.Direction{}
	for d, r := range dirToRel {
		out[r] = d
	}
	return out
}()

// BuildRelPart renders "<sign>ref" or "ref<sign>" for the given
// direction and reference piece string.
func BuildRelPart(dir geom.Direction, refPieceStr string) (string, error) {
	spec, ok := dirToRel[dir]
	if !ok {
		return "", errors.Wrapf(ErrBadNotation, "direction %v has no relation sign", dir)
	}
	if spec.prefix {
		return string(spec.sign) + refPieceStr, nil
	}
	return refPieceStr + string(spec.sign), nil
}

// ParseRelPart splits a relation part into the reference piece string
// and the direction it encodes.
func ParseRelPart(s string) (refPieceStr string, dir geom.Direction, err error) {
	var prefix, suffix byte
	body := s
	if len(s) > 0 && isSign(s[0]) {
		prefix = s[0]
		body = s[1:]
	}
	if len(body) > 0 && isSign(body[len(body)-1]) {
		suffix = body[len(body)-1]
		body = body[:len(body)-1]
	}
	if (prefix == 0) == (suffix == 0) {
		return "", geom.Same, errors.Wrapf(ErrBadNotation, "relation part %q needs exactly one sign", s)
	}
	if !IsValidPieceString(body) {
		return "", geom.Same, errors.Wrapf(ErrBadNotation, "relation part %q has bad reference %q", s, body)
	}
	spec := relSpec{prefix: prefix != 0}
	if spec.prefix {
		spec.sign = prefix
	} else {
		spec.sign = suffix
	}
	dir, ok := relToDir[spec]
	if !ok {
		return "", geom.Same, errors.Wrapf(ErrBadNotation, "relation part %q has unknown sign combination", s)
	}
	return body, dir, nil
}

func isSign(b byte) bool {
	return b == '/' || b == '-' || b == '\\'
}

// Move is a parsed move string: either Pass, a bare placement with no
// reference (the game's opening move), or a piece plus a relation to
// an already-placed reference piece.
type Move struct {
	Pass     bool
	Piece    board.Piece
	HasRef   bool
	Ref      board.Piece
	Relation geom.Direction
}

// ParseMove decomposes a full move string: "pass", a bare piece
// string, or "piece relPart".
func ParseMove(s string) (Move, error) {
	if s == "pass" {
		return Move{Pass: true}, nil
	}
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		p, err := ParsePiece(fields[0])
		if err != nil {
			return Move{}, err
		}
		return Move{Piece: p}, nil
	case 2:
		p, err := ParsePiece(fields[0])
		if err != nil {
			return Move{}, err
		}
		refStr, dir, err := ParseRelPart(fields[1])
		if err != nil {
			return Move{}, err
		}
		ref, err := ParsePiece(refStr)
		if err != nil {
			return Move{}, err
		}
		return Move{Piece: p, HasRef: true, Ref: ref, Relation: dir}, nil
	default:
		return Move{}, errors.Wrapf(ErrBadNotation, "move string %q", s)
	}
}

// BuildMove renders a Move in canonical form.
func BuildMove(m Move) (string, error) {
	if m.Pass {
		return "pass", nil
	}
	pieceStr := BuildPiece(m.Piece)
	if !m.HasRef {
		return pieceStr, nil
	}
	relPart, err := BuildRelPart(m.Relation, BuildPiece(m.Ref))
	if err != nil {
		return "", err
	}
	return pieceStr + " " + relPart, nil
}

// GameType names the Base game plus zero or more declared extension
// piece types.
type GameType struct {
	Extensions []board.Type
}

var gameTypeRE = regexp.MustCompile(`^Base(?:\+([MLP]{1,3}))?$`)

// canonicalExtensionOrder fixes the textual order extensions are
// printed in, independent of the order they were declared.
var canonicalExtensionOrder = []board.Type{board.Mosquito, board.Ladybug, board.Pillbug}

func extensionLetter(t board.Type) byte {
	return t.Letter()
}

// ParseGameType decomposes a game-type string such as "Base" or
// "Base+MP".
func ParseGameType(s string) (GameType, error) {
	m := gameTypeRE.FindStringSubmatch(s)
	if m == nil {
		return GameType{}, errors.Wrapf(ErrBadNotation, "game type string %q", s)
	}
	letters := m[1]
	seen := map[byte]bool{}
	for i := 0; i < len(letters); i++ {
		if seen[letters[i]] {
			return GameType{}, errors.Wrapf(ErrBadNotation, "game type string %q repeats %q", s, string(letters[i]))
		}
		seen[letters[i]] = true
	}
	var ext []board.Type
	for _, t := range canonicalExtensionOrder {
		if seen[extensionLetter(t)] {
			ext = append(ext, t)
		}
	}
	return GameType{Extensions: ext}, nil
}

// BuildGameType renders gt in canonical "Base" / "Base+MLP" form, with
// extensions always printed in M, L, P order regardless of input order.
func BuildGameType(gt GameType) string {
	present := map[board.Type]bool{}
	for _, t := range gt.Extensions {
		present[t] = true
	}
	var b strings.Builder
	b.WriteString("Base")
	var suffix []byte
	for _, t := range canonicalExtensionOrder {
		if present[t] {
			suffix = append(suffix, extensionLetter(t))
		}
	}
	if len(suffix) > 0 {
		b.WriteByte('+')
		b.Write(suffix)
	}
	return b.String()
}

// Turn is a parsed turn string: a color plus a 1-based turn number.
type Turn struct {
	Color  board.Color
	Number int
}

var turnRE = regexp.MustCompile(`^(White|Black)\[([1-9]\d*)\]$`)

// ParseTurn decomposes a turn string such as "White[3]".
func ParseTurn(s string) (Turn, error) {
	m := turnRE.FindStringSubmatch(s)
	if m == nil {
		return Turn{}, errors.Wrapf(ErrBadNotation, "turn string %q", s)
	}
	color := board.White
	if m[1] == "Black" {
		color = board.Black
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return Turn{}, errors.Wrapf(ErrBadNotation, "turn string %q", s)
	}
	return Turn{Color: color, Number: n}, nil
}

// BuildTurn renders t as "<Color>[<N>]".
func BuildTurn(t Turn) string {
	return fmt.Sprintf("%s[%d]", t.Color, t.Number)
}

// GameState is one of the five lifecycle states carried in a game
// string.
type GameState int

const (
	NotStarted GameState = iota
	InProgress
	Draw
	WhiteWins
	BlackWins
)

func (s GameState) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case InProgress:
		return "InProgress"
	case Draw:
		return "Draw"
	case WhiteWins:
		return "WhiteWins"
	case BlackWins:
		return "BlackWins"
	default:
		return "Unknown"
	}
}

var gameStateNames = map[string]GameState{
	"NotStarted": NotStarted,
	"InProgress": InProgress,
	"Draw":       Draw,
	"WhiteWins":  WhiteWins,
	"BlackWins":  BlackWins,
}

// Game is the fully decomposed contents of a game string.
type Game struct {
	Type  GameType
	State GameState
	Turn  Turn
	Moves []string
}

// ParseGame decomposes a full game string:
// "gameType;gameState;turn[;move]*".
func ParseGame(s string) (Game, error) {
	parts := strings.Split(s, ";")
	if len(parts) < 3 {
		return Game{}, errors.Wrapf(ErrBadNotation, "game string %q", s)
	}
	gt, err := ParseGameType(parts[0])
	if err != nil {
		return Game{}, err
	}
	state, ok := gameStateNames[parts[1]]
	if !ok {
		return Game{}, errors.Wrapf(ErrBadNotation, "game string %q: bad state %q", s, parts[1])
	}
	turn, err := ParseTurn(parts[2])
	if err != nil {
		return Game{}, err
	}
	var moves []string
	if len(parts) > 3 {
		moves = parts[3:]
	}
	return Game{Type: gt, State: state, Turn: turn, Moves: moves}, nil
}

// BuildGame renders g as a full game string.
func BuildGame(g Game) string {
	fields := []string{BuildGameType(g.Type), g.State.String(), BuildTurn(g.Turn)}
	fields = append(fields, g.Moves...)
	return strings.Join(fields, ";")
}
