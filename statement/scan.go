package statement

import (
	"bufio"
	"io"
	"strings"

	"github.com/dumpsift/dumpsift/dumptable"
)

// Scanner yields dump statements in order. A statement is complete when the
// accumulated text ends with ";\n", or when its first line is blank or a
// comment. The scanner tracks the active table: a data-section start marker
// opens it and the statement after UNLOCK TABLES closes it, so the unlock
// statement itself still belongs to the table.
type Scanner struct {
	r          *bufio.Reader
	current    dumptable.Name
	unlockNext bool
	stmt       Statement
	err        error
	done       bool
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// Scan advances to the next statement. It returns false at EOF or on the
// first error; check Err afterwards.
func (s *Scanner) Scan() bool {
	if s.done || s.err != nil {
		return false
	}
	raw, err := s.readStatement()
	if err == io.EOF {
		s.done = true
		return false
	}
	if err != nil {
		s.err = err
		return false
	}

	if s.unlockNext {
		s.current = ""
		s.unlockNext = false
	}
	kind := DetectKind(raw)
	switch kind {
	case KindTableDataComment:
		table, err := TableFromDataComment(raw)
		if err != nil {
			s.err = err
			return false
		}
		s.current = table
	case KindUnlockTables:
		s.unlockNext = true
	}
	s.stmt = Statement{Raw: raw, Table: s.current, Kind: kind}
	return true
}

// Statement returns the statement read by the last successful Scan.
func (s *Scanner) Statement() Statement {
	return s.stmt
}

func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) readStatement() (string, error) {
	var b strings.Builder
	for {
		line, err := s.r.ReadString('\n')
		b.WriteString(line)
		if err != nil {
			if err == io.EOF {
				if b.Len() == 0 {
					return "", io.EOF
				}
				return b.String(), nil
			}
			return "", err
		}
		if statementComplete(b.String()) {
			return b.String(), nil
		}
	}
}

func statementComplete(buf string) bool {
	if strings.HasSuffix(buf, ";\n") {
		return true
	}
	// Blank lines and comments never span lines.
	if strings.HasPrefix(buf, "\n") || strings.HasPrefix(buf, "--") {
		return true
	}
	return false
}
