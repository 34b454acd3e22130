// internal/buyer/classify_internal_test.go
package buyer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_TerminalWinsOverlap(t *testing.T) {
	ignorableTexts["已抢光"] = struct{}{}
	t.Cleanup(func() { delete(ignorableTexts, "已抢光") })

	assert.Equal(t, KindTerminal, Classify("已抢光").Kind)
}
