package genome

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Record is one parsed FASTA sequence.
type Record struct {
	ID  string
	Seq string
}

// ParseFASTA reads every record from r. The ID is the first
// whitespace-delimited field of the header line. Sequences are
// upper-cased.
func ParseFASTA(r io.Reader) ([]Record, error) {
	var (
		records []Record
		id      string
		seq     strings.Builder
	)

	flush := func() {
		if id != "" {
			records = append(records, Record{ID: id, Seq: strings.ToUpper(seq.String())})
		}
		seq.Reset()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024) // chromosome-length lines happen

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ">") {
			flush()
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, fmt.Errorf("FASTA header without an ID")
			}
			id = fields[0]
			continue
		}

		if id == "" {
			return nil, fmt.Errorf("FASTA sequence before any header")
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	if len(records) == 0 {
		return nil, fmt.Errorf("no FASTA records found")
	}
	return records, nil
}
