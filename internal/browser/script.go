// internal/browser/script.go
package browser

import (
	"fmt"

	json "github.com/json-iterator/go"
)

// snapshotEntry is one matched element as reported by snapshotScript.
type snapshotEntry struct {
	Text      string `json:"text"`
	Invocable bool   `json:"invocable"`
}

// jsString renders s as a JavaScript string literal.
func jsString(s string) (string, error) {
	lit, err := json.ConfigCompatibleWithStandardLibrary.MarshalToString(s)
	if err != nil {
		return "", fmt.Errorf("encode selector: %w", err)
	}
	return lit, nil
}

// snapshotScript lists every element matching selector, in document order.
func snapshotScript(selector string) (string, error) {
	sel, err := jsString(selector)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`(function(sel) {
	return Array.from(document.querySelectorAll(sel), function(el) {
		return {
			text: ((el.innerText || el.textContent || "") + "").trim(),
			invocable: typeof el.click === "function"
		};
	});
})(%s)`, sel), nil
}

// clickScript re-resolves the index-th match and clicks it. It evaluates to
// false when the element is gone or cannot be clicked.
func clickScript(selector string, index int) (string, error) {
	sel, err := jsString(selector)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`(function(sel, idx) {
	var el = document.querySelectorAll(sel)[idx];
	if (!el || typeof el.click !== "function") {
		return false;
	}
	el.click();
	return true;
})(%s, %d)`, sel, index), nil
}

// decodeSnapshot parses the raw evaluation result of snapshotScript.
func decodeSnapshot(raw []byte) ([]snapshotEntry, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var entries []snapshotEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode element snapshot: %w (payload: %.200s)", err, raw)
	}
	return entries, nil
}
