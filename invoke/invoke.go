// Package invoke runs machine instances on behalf of a backend. It encodes
// call arguments to the bencode wire format, streams them to one machine
// instance over a channel, collects the machine's output from another, and
// decodes the result.
//
// Inside a well-formed result, shapes that have no expression form decode to
// Nil. A result that is not exactly one well-formed value is a *ResultError
// carrying the raw bytes.
package invoke

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"

	"github.com/zephyrtronium/tapert"
	"github.com/zephyrtronium/tapert/bencode"
)

// Runner executes one machine instance. It receives the encoded arguments
// from in, which is already filled and closed, and sends its output on out.
// It must not close out.
type Runner func(out chan<- byte, in <-chan byte) error

// ErrTrailing means a machine produced more output after its result value.
var ErrTrailing = errors.New("invoke: output after result")

// ResultError is a machine output that does not decode to exactly one value.
type ResultError struct {
	// Raw is the machine's complete output.
	Raw []byte
	// Err is the decoding failure.
	Err error
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("broken return value %q: %v", Printable(e.Raw), e.Err)
}

func (e *ResultError) Unwrap() error {
	return e.Err
}

// Printable renders raw bytes as text by mapping each byte to the character
// with the same code point.
func Printable(raw []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(s)
}

// outBuffer is the capacity of the output channel.
const outBuffer = 64

// Call runs one machine instance with args and returns its decoded result.
//
// The encoded argument list is placed on the input channel before the
// machine starts. Call then blocks until the machine returns; there is no
// timeout, so a machine that never halts blocks Call forever. If the machine
// returns an error, its output is discarded and Call returns the error.
// Otherwise the output must be exactly one bencode value, or Call returns a
// *ResultError.
func Call[C Code[C]](log zerolog.Logger, run Runner, args []tapert.Value[C]) (tapert.Value[C], error) {
	enc, err := EncodeArgs(args)
	if err != nil {
		return nil, err
	}
	in := make(chan byte, len(enc))
	for _, b := range enc {
		in <- b
	}
	close(in)

	out := make(chan byte, outBuffer)
	var g errgroup.Group
	g.Go(func() error {
		defer close(out)
		return run(out, in)
	})
	var raw []byte
	for b := range out {
		raw = append(raw, b)
	}
	if err := g.Wait(); err != nil {
		log.Debug().Err(err).Int("sent", len(enc)).Int("discarded", len(raw)).Msg("machine failed")
		return nil, fmt.Errorf("failed to start vm: %w", err)
	}
	log.Debug().Int("sent", len(enc)).Int("received", len(raw)).Msg("machine finished")
	return DecodeResult[C](raw)
}

// DecodeResult decodes a machine's complete output, which must be exactly one
// bencode value. The value itself is decoded leniently, as by Decode.
func DecodeResult[C tapert.ByteCode[C]](raw []byte) (tapert.Value[C], error) {
	r := bytes.NewReader(raw)
	v, err := bencode.Parse(r)
	if err == nil && r.Len() != 0 {
		err = ErrTrailing
	}
	if err != nil {
		return nil, &ResultError{Raw: raw, Err: err}
	}
	return Decode[C](v), nil
}
