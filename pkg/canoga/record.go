package canoga

import (
	"fmt"
	"strconv"
	"strings"
)

// SaveRecord is the persistence snapshot of a game between turns: both
// boards, both cumulative scores, and the first/next turn labels.
//
// The text format mirrors the classic save file. Each side's squares
// are a fixed-length sequence of integers where 0 means covered and a
// value equal to the square's own 1-based index means uncovered:
//
//	Computer:
//	   Squares: 0 2 3 4 5 6 7 8 9
//	   Score: 12
//	Human:
//	   Squares: 1 0 3 4 5 6 7 8 9
//	   Score: 23
//	First Turn: Human
//	Next Turn: Computer
//
// Decoding is all-or-nothing: a malformed record (wrong length, value
// neither 0 nor the index, unknown label, unsupported size) fails
// without producing any board.
type SaveRecord struct {
	HumanBoard    *Board
	ComputerBoard *Board
	HumanScore    int
	ComputerScore int
	FirstTurn     Side
	NextTurn      Side
}

const (
	squaresPrefix   = "   Squares: "
	scorePrefix     = "   Score: "
	firstTurnPrefix = "First Turn: "
	nextTurnPrefix  = "Next Turn: "
)

// EncodeRecord serializes a SaveRecord to the save-file text format.
func EncodeRecord(rec *SaveRecord) string {
	var b strings.Builder
	b.Grow(256)

	b.WriteString("Computer:\n")
	encodeSquares(&b, rec.ComputerBoard)
	fmt.Fprintf(&b, "%s%d\n", scorePrefix, rec.ComputerScore)

	b.WriteString("Human:\n")
	encodeSquares(&b, rec.HumanBoard)
	fmt.Fprintf(&b, "%s%d\n", scorePrefix, rec.HumanScore)

	fmt.Fprintf(&b, "%s%s\n", firstTurnPrefix, sideLabel(rec.FirstTurn))
	fmt.Fprintf(&b, "%s%s\n", nextTurnPrefix, sideLabel(rec.NextTurn))
	return b.String()
}

func encodeSquares(b *strings.Builder, board *Board) {
	b.WriteString(squaresPrefix)
	for i := 1; i <= board.Size(); i++ {
		if i > 1 {
			b.WriteByte(' ')
		}
		if board.IsCovered(i) {
			b.WriteByte('0')
		} else {
			b.WriteString(strconv.Itoa(i))
		}
	}
	b.WriteByte('\n')
}

func sideLabel(s Side) string {
	if s == Computer {
		return "Computer"
	}
	return "Human"
}

// DecodeRecord parses the save-file text format into a SaveRecord.
func DecodeRecord(s string) (*SaveRecord, error) {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")

	rec := &SaveRecord{}
	var seenComputer, seenHuman, seenFirst, seenNext bool

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case strings.TrimSpace(line) == "":
			continue
		case strings.HasPrefix(line, "Computer:"):
			board, score, consumed, err := decodeSideBlock(lines[i+1:])
			if err != nil {
				return nil, fmt.Errorf("save: computer block: %w", err)
			}
			rec.ComputerBoard, rec.ComputerScore = board, score
			seenComputer = true
			i += consumed
		case strings.HasPrefix(line, "Human:"):
			board, score, consumed, err := decodeSideBlock(lines[i+1:])
			if err != nil {
				return nil, fmt.Errorf("save: human block: %w", err)
			}
			rec.HumanBoard, rec.HumanScore = board, score
			seenHuman = true
			i += consumed
		case strings.HasPrefix(line, firstTurnPrefix):
			side, err := parseSideLabel(strings.TrimPrefix(line, firstTurnPrefix))
			if err != nil {
				return nil, fmt.Errorf("save: first turn: %w", err)
			}
			rec.FirstTurn = side
			seenFirst = true
		case strings.HasPrefix(line, nextTurnPrefix):
			side, err := parseSideLabel(strings.TrimPrefix(line, nextTurnPrefix))
			if err != nil {
				return nil, fmt.Errorf("save: next turn: %w", err)
			}
			rec.NextTurn = side
			seenNext = true
		default:
			return nil, fmt.Errorf("save: unrecognized line %q", line)
		}
	}

	if !seenComputer || !seenHuman || !seenFirst || !seenNext {
		return nil, fmt.Errorf("save: incomplete record")
	}
	if rec.HumanBoard.Size() != rec.ComputerBoard.Size() {
		return nil, fmt.Errorf("save: board sizes differ (%d vs %d)",
			rec.HumanBoard.Size(), rec.ComputerBoard.Size())
	}
	return rec, nil
}

// decodeSideBlock parses the two-line Squares/Score block that follows
// a side header. It returns how many lines it consumed.
func decodeSideBlock(lines []string) (*Board, int, int, error) {
	if len(lines) < 2 {
		return nil, 0, 0, fmt.Errorf("truncated block")
	}
	if !strings.HasPrefix(lines[0], squaresPrefix) {
		return nil, 0, 0, fmt.Errorf("expected squares line, got %q", lines[0])
	}
	board, err := decodeSquares(strings.TrimPrefix(lines[0], squaresPrefix))
	if err != nil {
		return nil, 0, 0, err
	}
	if !strings.HasPrefix(lines[1], scorePrefix) {
		return nil, 0, 0, fmt.Errorf("expected score line, got %q", lines[1])
	}
	score, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(lines[1], scorePrefix)))
	if err != nil || score < 0 {
		return nil, 0, 0, fmt.Errorf("invalid score %q", lines[1])
	}
	return board, score, 2, nil
}

// decodeSquares reconstructs a board from a squares sequence. Each
// value must be 0 (covered) or the position's own 1-based index
// (uncovered); the sequence length must be a supported board size.
func decodeSquares(s string) (*Board, error) {
	fields := strings.Fields(s)
	board, err := NewBoard(len(fields))
	if err != nil {
		return nil, err
	}
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid square value %q", f)
		}
		switch v {
		case 0:
			board.Cover(i + 1)
		case i + 1:
			// uncovered, the fresh board's default
		default:
			return nil, fmt.Errorf("square %d has value %d (want 0 or %d)", i+1, v, i+1)
		}
	}
	return board, nil
}

func parseSideLabel(s string) (Side, error) {
	switch strings.TrimSpace(s) {
	case "Human":
		return Human, nil
	case "Computer":
		return Computer, nil
	}
	return NoSide, fmt.Errorf("unknown side %q", s)
}
