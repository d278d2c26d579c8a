package report

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/roach88/moonunit/internal/outcome"
)

// xmlProlog is written verbatim before the document element.
const xmlProlog = `<?xml version="1.0" encoding="UTF-8" ?>`

// SkippedErrorType is the ErrorType written for a skipped test.
const SkippedErrorType = "Skipped"

type xmlDocument struct {
	XMLName xml.Name  `xml:"MoonUnit"`
	Header  xmlHeader `xml:"Header"`
	Tests   xmlTests  `xml:"Tests"`
	Footer  struct{}  `xml:"Footer"`
}

type xmlHeader struct {
	FileLocation string `xml:"FileLocation"`
	Version      string `xml:"Version"`
}

type xmlTests struct {
	Test []xmlTest `xml:"Test"`
}

type xmlTest struct {
	Class  xmlNamed   `xml:"Class"`
	Method xmlNamed   `xml:"Method"`
	Passed *struct{}  `xml:"Passed"`
	Failed *xmlFailed `xml:"Failed"`
}

type xmlNamed struct {
	Name string `xml:"name,attr"`
}

type xmlFailed struct {
	Expected  string `xml:"Expected"`
	Result    string `xml:"Result"`
	ErrorText string `xml:"ErrorText"`
	Trace     string `xml:"Trace"`
	ErrorType string `xml:"ErrorType"`
}

// MarshalXML renders the report in the wire format.
func MarshalXML(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeXML(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeXML writes the report in the wire format. Characters that XML 1.0
// does not allow are removed from every text field; the rest is escaped.
func EncodeXML(w io.Writer, r *Report) error {
	doc := xmlDocument{
		Header: xmlHeader{
			FileLocation: stripIllegalXML(r.Header.FileLocation),
			Version:      stripIllegalXML(r.Header.Version),
		},
		Tests: xmlTests{Test: make([]xmlTest, 0, len(r.Entries))},
	}
	for _, e := range r.Entries {
		t := xmlTest{
			Class:  xmlNamed{Name: stripIllegalXML(e.ID.Suite)},
			Method: xmlNamed{Name: stripIllegalXML(e.ID.Method)},
		}
		if e.Outcome.Status == outcome.StatusPassed {
			t.Passed = &struct{}{}
		} else {
			t.Failed = failedElement(e.Outcome)
		}
		doc.Tests.Test = append(doc.Tests.Test, t)
	}

	if _, err := io.WriteString(w, xmlProlog); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(doc)
}

func failedElement(o outcome.Outcome) *xmlFailed {
	var f xmlFailed
	switch o.Status {
	case outcome.StatusSkipped:
		f.ErrorText = o.SkipReason
		f.ErrorType = SkippedErrorType
	case outcome.StatusFailed:
		f.Expected = o.Expected
		f.Result = o.Actual
		f.ErrorText = o.Message
		f.Trace = o.StackTrace
		f.ErrorType = o.Kind.String()
	case outcome.StatusTimedOut:
		f.Expected = millis(o.BudgetMillis)
		f.Result = millis(o.ElapsedMillis)
		f.ErrorText = o.Message
		f.ErrorType = outcome.KindTimedOut.String()
	case outcome.StatusUnhandled:
		f.ErrorText = o.Message
		f.Trace = o.StackTrace
		f.ErrorType = o.ErrorType
	}
	f.Expected = stripIllegalXML(f.Expected)
	f.Result = stripIllegalXML(f.Result)
	f.ErrorText = stripIllegalXML(f.ErrorText)
	f.Trace = stripIllegalXML(f.Trace)
	f.ErrorType = stripIllegalXML(f.ErrorType)
	return &f
}

func millis(ms int64) string {
	return strconv.FormatInt(ms, 10) + "ms"
}

// stripIllegalXML removes runes outside the XML 1.0 Char production and
// bytes that are not valid UTF-8. A U+FFFD present in the input is kept.
func stripIllegalXML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !(r == utf8.RuneError && size == 1) && isXMLChar(r) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
