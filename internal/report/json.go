package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gowebpki/jcs"

	"github.com/roach88/moonunit/internal/engine"
	"github.com/roach88/moonunit/internal/outcome"
)

type jsonReport struct {
	Header  Header        `json:"header"`
	Summary engine.Counts `json:"summary"`
	Tests   []jsonTest    `json:"tests"`
}

type jsonTest struct {
	Seq           int64  `json:"seq"`
	Class         string `json:"class"`
	Method        string `json:"method"`
	Status        string `json:"status"`
	Kind          string `json:"kind,omitempty"`
	Expected      string `json:"expected,omitempty"`
	Actual        string `json:"actual,omitempty"`
	Message       string `json:"message,omitempty"`
	StackTrace    string `json:"stack_trace,omitempty"`
	ErrorType     string `json:"error_type,omitempty"`
	SkipReason    string `json:"skip_reason,omitempty"`
	ElapsedMillis int64  `json:"elapsed_ms,omitempty"`
	BudgetMillis  int64  `json:"budget_ms,omitempty"`
}

// MarshalJSON renders the report as RFC 8785 canonical JSON.
func MarshalJSON(r *Report) ([]byte, error) {
	doc := jsonReport{
		Header:  r.Header,
		Summary: r.Counts(),
		Tests:   make([]jsonTest, 0, len(r.Entries)),
	}
	for _, e := range r.Entries {
		doc.Tests = append(doc.Tests, toJSONTest(e))
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize report: %w", err)
	}
	return canonical, nil
}

// EncodeJSON writes the canonical JSON form of the report.
func EncodeJSON(w io.Writer, r *Report) error {
	data, err := MarshalJSON(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Digest returns the hex sha256 of the canonical JSON form. Two runs with
// the same outcomes have the same digest.
func Digest(r *Report) (string, error) {
	data, err := MarshalJSON(r)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// DecodeJSON parses a report written by EncodeJSON. The summary must agree
// with the tests.
func DecodeJSON(data []byte) (*Report, error) {
	var doc jsonReport
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	r := &Report{Header: doc.Header, Entries: make([]engine.Entry, 0, len(doc.Tests))}
	for i, t := range doc.Tests {
		e, err := fromJSONTest(t)
		if err != nil {
			return nil, fmt.Errorf("decode report: test %d: %w", i, err)
		}
		r.Entries = append(r.Entries, e)
	}
	if got := r.Counts(); got != doc.Summary {
		return nil, fmt.Errorf("decode report: summary %+v does not match tests %+v", doc.Summary, got)
	}
	return r, nil
}

func toJSONTest(e engine.Entry) jsonTest {
	o := e.Outcome
	t := jsonTest{
		Seq:    e.Seq,
		Class:  e.ID.Suite,
		Method: e.ID.Method,
		Status: o.Status.String(),
	}
	switch o.Status {
	case outcome.StatusSkipped:
		t.SkipReason = o.SkipReason
	case outcome.StatusFailed:
		t.Kind = o.Kind.String()
		t.Expected = o.Expected
		t.Actual = o.Actual
		t.Message = o.Message
		t.StackTrace = o.StackTrace
	case outcome.StatusTimedOut:
		t.Kind = o.Kind.String()
		t.Message = o.Message
		t.ElapsedMillis = o.ElapsedMillis
		t.BudgetMillis = o.BudgetMillis
	case outcome.StatusUnhandled:
		t.Message = o.Message
		t.StackTrace = o.StackTrace
		t.ErrorType = o.ErrorType
	}
	return t
}

func fromJSONTest(t jsonTest) (engine.Entry, error) {
	status, ok := outcome.ParseStatus(t.Status)
	if !ok {
		return engine.Entry{}, fmt.Errorf("unknown status %q", t.Status)
	}
	var kind outcome.Kind
	if t.Kind != "" {
		if kind, ok = outcome.ParseKind(t.Kind); !ok {
			return engine.Entry{}, fmt.Errorf("unknown kind %q", t.Kind)
		}
	}
	return engine.Entry{
		Seq: t.Seq,
		ID:  engine.TestID{Suite: t.Class, Method: t.Method},
		Outcome: outcome.Outcome{
			Status:        status,
			Kind:          kind,
			Expected:      t.Expected,
			Actual:        t.Actual,
			Message:       t.Message,
			StackTrace:    t.StackTrace,
			ErrorType:     t.ErrorType,
			SkipReason:    t.SkipReason,
			ElapsedMillis: t.ElapsedMillis,
			BudgetMillis:  t.BudgetMillis,
		},
	}, nil
}
