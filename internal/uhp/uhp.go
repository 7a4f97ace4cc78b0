// Package uhp implements the Universal Hive Protocol line loop: reading
// commands from an input stream, dispatching them to a game.Game, and
// writing responses terminated by the "ok" sentinel line.
package uhp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/hiveuhp/hive/internal/game"
	"github.com/hiveuhp/hive/internal/notation"
)

// EngineName and EngineVersion are compile-time constants surfaced by
// the "info" command.
const (
	EngineName    = "HiveUHP"
	EngineVersion = "1.0.0"
)

// UHP implements the Universal Hive Protocol main loop over an input
// and output stream.
type UHP struct {
	g   *game.Game
	out io.Writer
}

// New creates a protocol handler with a fresh Base game and the given
// output stream.
func New(out io.Writer) *UHP {
	g, err := game.New(notation.GameType{})
	if err != nil {
		// A fresh Base game is always constructible; failure here would
		// be an internal invariant violation, not a user-triggerable
		// error.
		panic(err)
	}
	return &UHP{g: g, out: out}
}

// Run reads commands from in, one per line, until end of input. Each
// command's response, success or failure, is always terminated by a
// line containing exactly "ok".
func (u *UHP) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		u.dispatch(line)
	}
}

func (u *UHP) dispatch(line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "info":
		err = u.cmdInfo(args)
	case "newgame":
		err = u.cmdNewGame(args)
	case "play":
		err = u.cmdPlay(args)
	case "pass":
		err = u.cmdPass(args)
	case "validmoves":
		err = u.cmdValidMoves(args)
	case "bestmove":
		err = u.cmdBestMove(args)
	case "undo":
		err = u.cmdUndo(args)
	case "options":
		err = u.cmdOptions(args)
	default:
		err = fmt.Errorf("unrecognized command %q", cmd)
	}

	if err != nil {
		klog.V(2).Infof("command %q failed: %v", line, err)
		fmt.Fprintf(u.out, "err %s\n", err)
	}
	fmt.Fprintln(u.out, "ok")
}

func (u *UHP) cmdInfo(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("info takes no parameters")
	}
	fmt.Fprintf(u.out, "id %s v%s\n", EngineName, EngineVersion)
	return nil
}

func (u *UHP) cmdNewGame(args []string) error {
	switch len(args) {
	case 0:
		g, err := game.New(notation.GameType{})
		if err != nil {
			return err
		}
		u.g = g
	case 1:
		g, err := loadOrType(args[0])
		if err != nil {
			return err
		}
		u.g = g
	default:
		return fmt.Errorf("newgame takes zero or one parameter")
	}
	fmt.Fprintln(u.out, u.g.Status())
	return nil
}

// loadOrType accepts either a bare game-type string ("Base",
// "Base+MLP") or a full game string, distinguishing the two by
// whether the argument contains a ";" separator.
func loadOrType(s string) (*game.Game, error) {
	if strings.Contains(s, ";") {
		return game.Load(s)
	}
	gt, err := notation.ParseGameType(s)
	if err != nil {
		return nil, err
	}
	return game.New(gt)
}

func (u *UHP) cmdPlay(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("play requires a move string")
	}
	status, err := u.g.Play(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(u.out, status)
	return nil
}

func (u *UHP) cmdPass(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("pass takes no parameters")
	}
	status, err := u.g.Play("pass")
	if err != nil {
		return err
	}
	fmt.Fprintln(u.out, status)
	return nil
}

func (u *UHP) cmdValidMoves(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("validmoves takes no parameters")
	}
	moves, err := u.g.ValidMoves()
	if err != nil {
		return err
	}
	fmt.Fprintln(u.out, strings.Join(moves, ";"))
	return nil
}

func (u *UHP) cmdBestMove(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("bestmove requires \"depth N\" or \"time HH:MM:SS\"")
	}
	switch args[0] {
	case "depth":
		if _, err := strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("bestmove depth: %w", err)
		}
	case "time":
		if _, err := time.Parse("15:04:05", args[1]); err != nil {
			return fmt.Errorf("bestmove time: %w", err)
		}
	default:
		return fmt.Errorf("bestmove: unknown parameter %q", args[0])
	}

	move, err := u.g.BestMove()
	if err != nil {
		return err
	}
	fmt.Fprintln(u.out, move)
	return nil
}

func (u *UHP) cmdUndo(args []string) error {
	n := 1
	switch len(args) {
	case 0:
	case 1:
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("undo: %w", err)
		}
		if parsed < 0 {
			return fmt.Errorf("undo: count must not be negative")
		}
		n = parsed
	default:
		return fmt.Errorf("undo takes zero or one parameter")
	}
	if err := u.g.Undo(n); err != nil {
		return err
	}
	fmt.Fprintln(u.out, u.g.Status())
	return nil
}

// cmdOptions is reserved: it accepts and ignores any parameters.
func (u *UHP) cmdOptions(args []string) error {
	return nil
}
