// Package protocol reads tick frames from the host and writes commands back.
//
// A frame is two count lines (own ships, entities) followed by one line per
// entity: "id TYPE x y a1 a2 a3 a4".
package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/game"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hexgrid"
)

var ErrMalformed = errors.New("malformed input")

const entityFields = 8

type Reader struct {
	sc   *bufio.Scanner
	line int
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 64*1024)
	return &Reader{sc: sc}
}

// ReadFrame reads one full frame. It returns io.EOF when the input ends
// cleanly between frames and io.ErrUnexpectedEOF when it ends inside one.
func (r *Reader) ReadFrame() (game.Frame, error) {
	myShips, err := r.readCount()
	if err != nil {
		return game.Frame{}, err
	}
	n, err := r.readCount()
	if err != nil {
		return game.Frame{}, eofInFrame(err)
	}

	f := game.Frame{MyShipCount: myShips, Records: make([]game.Record, 0, n)}
	for i := 0; i < n; i++ {
		text, err := r.next()
		if err != nil {
			return game.Frame{}, eofInFrame(err)
		}
		rec, err := r.parseEntity(text)
		if err != nil {
			return game.Frame{}, err
		}
		f.Records = append(f.Records, rec)
	}
	return f, nil
}

func (r *Reader) next() (string, error) {
	for r.sc.Scan() {
		r.line++
		if text := strings.TrimSpace(r.sc.Text()); text != "" {
			return text, nil
		}
	}
	if err := r.sc.Err(); err != nil {
		return "", fmt.Errorf("read line %d: %w", r.line+1, err)
	}
	return "", io.EOF
}

func (r *Reader) readCount() (int, error) {
	text, err := r.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: line %d: count %q", ErrMalformed, r.line, text)
	}
	return n, nil
}

func (r *Reader) parseEntity(text string) (game.Record, error) {
	fields := strings.Fields(text)
	if len(fields) != entityFields {
		return game.Record{}, fmt.Errorf("%w: line %d: %d fields, want %d", ErrMalformed, r.line, len(fields), entityFields)
	}

	var nums [7]int
	for i, j := range [...]int{0, 2, 3, 4, 5, 6, 7} {
		v, err := strconv.Atoi(fields[j])
		if err != nil {
			return game.Record{}, fmt.Errorf("%w: line %d: field %d %q", ErrMalformed, r.line, j+1, fields[j])
		}
		nums[i] = v
	}

	cell := hexgrid.Cell{X: nums[1], Y: nums[2]}
	if !cell.InBounds() {
		return game.Record{}, fmt.Errorf("%w: line %d: cell %v off board", ErrMalformed, r.line, cell)
	}
	rec, err := game.NewRecord(nums[0], fields[1], cell, [4]int{nums[3], nums[4], nums[5], nums[6]})
	if err != nil {
		return game.Record{}, fmt.Errorf("line %d: %w", r.line, err)
	}
	return rec, nil
}

func eofInFrame(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// WriteCommands writes one line per command, in the order given.
func WriteCommands(w io.Writer, cmds []game.Command) error {
	bw := bufio.NewWriter(w)
	for _, c := range cmds {
		if _, err := bw.WriteString(c.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
