// pkg/progress/progress_test.go
package progress

import (
	"errors"
	"strings"
	"testing"
)

type fakeResult struct {
	errs []error
}

func (r fakeResult) GetFilesTotal() int     { return 3 }
func (r fakeResult) GetFilesProcessed() int { return 2 }
func (r fakeResult) GetErrors() []error     { return r.errs }
func (r fakeResult) GetBytes() uint64       { return 3 * 1024 * 1024 }
func (r fakeResult) GetBlocksDecoded() int  { return 1 }
func (r fakeResult) Success() bool          { return len(r.errs) == 0 }

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(fakeResult{errs: []error{errors.New("bad block")}}, OperationExtract)

	for _, want := range []string{"Completed with 1 errors", "bad block", "Files processed: 2 / 3", "3.0 MiB", "Blocks decoded:  1"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestTruncateLeft(t *testing.T) {
	tests := []struct {
		path   string
		maxLen int
	}{
		{"short.txt", 20},
		{"a/very/long/directory/name/file.txt", 16},
		{"dir/averyveryverylongfilename.txt", 10},
	}
	if got := TruncateLeft("dir/averyveryverylongfilename.txt", 10); got != "...ame.txt" {
		t.Errorf("TruncateLeft kept %q", got)
	}
	for _, tt := range tests {
		got := TruncateLeft(tt.path, tt.maxLen)
		if len(got) > tt.maxLen {
			t.Errorf("TruncateLeft(%q, %d) = %q, longer than limit", tt.path, tt.maxLen, got)
		}
		if !strings.HasPrefix(got, "...") && got != tt.path {
			t.Errorf("TruncateLeft(%q, %d) = %q, missing ellipsis", tt.path, tt.maxLen, got)
		}
	}
}
