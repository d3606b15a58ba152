// Package journal exports robot journals as zstd compressed JSON lines.
package journal

import (
	"bufio"
	"encoding/json"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/beka-birhanu/vinom-biolab/game/robot"
)

// ContentType is the media type of an exported journal.
const ContentType = "application/zstd"

// Line is one exported journal record.
type Line struct {
	Time    string `json:"time"`  // RFC 3339 with nanoseconds
	Clock   string `json:"clock"` // HH:MM:SS as shown in the history
	Message string `json:"message"`
}

// WriteZstdJSONL writes entries to w, one JSON object per line, zstd compressed.
func WriteZstdJSONL(w io.Writer, entries []robot.Entry) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)
	je := json.NewEncoder(bw)
	for _, e := range entries {
		line := Line{
			Time:    e.Time.Format(time.RFC3339Nano),
			Clock:   e.Time.Format(robot.ClockLayout),
			Message: e.Message,
		}
		if err := je.Encode(line); err != nil {
			_ = enc.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadZstdJSONL decodes a stream written by WriteZstdJSONL.
func ReadZstdJSONL(r io.Reader) ([]Line, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var lines []Line
	jd := json.NewDecoder(dec)
	for {
		var l Line
		if err := jd.Decode(&l); err == io.EOF {
			return lines, nil
		} else if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
}
