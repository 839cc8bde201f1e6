package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

type runCall struct {
	name string
	args []string
}

// fakeRunner records invocations and replays canned output.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []runCall
	stdout []byte
	stderr []byte
	err    error
	// onRun lets a test emulate side effects such as output files.
	onRun func(name string, args []string)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, runCall{name: name, args: append([]string(nil), args...)})
	f.mu.Unlock()
	if f.onRun != nil {
		f.onRun(name, args)
	}
	return f.stdout, f.stderr, f.err
}

func (f *fakeRunner) lastCall() runCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return runCall{}
	}
	return f.calls[len(f.calls)-1]
}

func containsSeq(args []string, seq ...string) bool {
	for i := 0; i+len(seq) <= len(args); i++ {
		match := true
		for j := range seq {
			if args[i+j] != seq[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func writeFile(path string, data []byte) {
	_ = os.WriteFile(path, data, 0o600)
}

// textPDF builds a one-page PDF with an embedded text layer, one text block
// per line, placed top to bottom.
func textPDF(lines ...string) []byte {
	var content strings.Builder
	y := 720
	for _, l := range lines {
		l = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(l)
		fmt.Fprintf(&content, "BT /F1 12 Tf 1 0 0 1 72 %d Tm (%s) Tj ET\n", y, l)
		y -= 20
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}
