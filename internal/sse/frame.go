package sse

import (
	"bytes"
	"strings"
)

// encodeFrame renders one event in text/event-stream form. Every line of
// data becomes its own data field so multi-line JSON survives the trip.
func encodeFrame(event, data string) []byte {
	var buf bytes.Buffer
	buf.WriteString("event: " + event + "\n")
	for _, line := range dataLines(data) {
		buf.WriteString("data: " + line + "\n")
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

// dataLines splits data on newlines. Carriage returns and one trailing
// newline are dropped; empty data is a single empty line.
func dataLines(data string) []string {
	data = strings.TrimSuffix(strings.ReplaceAll(data, "\r", ""), "\n")
	return strings.Split(data, "\n")
}
