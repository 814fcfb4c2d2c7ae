package lsp_test

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// The commonlog simple backend flushes through a process-wide writer.
		goleak.IgnoreTopFunction("github.com/tliron/kutil/util.(*BufferedWriter).run"),
	)
}
