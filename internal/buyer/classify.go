// internal/buyer/classify.go
package buyer

// Kind is the category a trigger control's label falls into.
type Kind int

const (
	// KindActionable means the control should be clicked.
	KindActionable Kind = iota
	// KindIgnorable means the control is a reminder toggle and must be left alone.
	KindIgnorable
	// KindTerminal means the item is sold out and the run must end.
	KindTerminal
)

func (k Kind) String() string {
	switch k {
	case KindIgnorable:
		return "ignorable"
	case KindTerminal:
		return "terminal"
	default:
		return "actionable"
	}
}

// Labels rendered by the sale page. Both sets are part of the page contract and are not
// configurable at runtime.
var (
	terminalTexts  = map[string]struct{}{"已抢光": {}}
	ignorableTexts = map[string]struct{}{"添加提醒": {}, "取消提醒": {}}
)

// Classification is the verdict for a single label.
type Classification struct {
	Kind Kind
	Text string
}

// Classify maps an already trimmed control label to a Classification.
// Terminal membership is checked before the ignore set.
func Classify(text string) Classification {
	if _, ok := terminalTexts[text]; ok {
		return Classification{Kind: KindTerminal, Text: text}
	}
	if _, ok := ignorableTexts[text]; ok {
		return Classification{Kind: KindIgnorable, Text: text}
	}
	return Classification{Kind: KindActionable, Text: text}
}
