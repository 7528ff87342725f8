package browser

import "fmt"

// Signal selects the progress signal a Session reports.
type Signal string

const (
	// SignalIdentifiers counts distinct song identifiers in the document.
	SignalIdentifiers Signal = "identifiers"

	// SignalHeight reports the document scroll height in pixels. It can
	// plateau early when new rows do not change the layout height.
	SignalHeight Signal = "height"
)

// ParseSignal converts a configuration value to a Signal.
func ParseSignal(s string) (Signal, error) {
	switch Signal(s) {
	case SignalIdentifiers, "":
		return SignalIdentifiers, nil
	case SignalHeight:
		return SignalHeight, nil
	}
	return "", fmt.Errorf("unknown progress signal %q (want %q or %q)", s, SignalIdentifiers, SignalHeight)
}

const scrollToBottomJS = `window.scrollTo(0, document.documentElement.scrollHeight)`

const scrollHeightJS = `document.documentElement.scrollHeight`

const countIdentifiersJS = `(() => {
	const ids = new Set();
	document.querySelectorAll('a[href*="/song/"]').forEach((a) => {
		const m = (a.getAttribute('href') || '').match(/\/song\/([a-f0-9-]{36})/);
		if (m) ids.add(m[1]);
	});
	document.querySelectorAll('[data-clip-id]').forEach((el) => {
		const id = el.getAttribute('data-clip-id') || '';
		if (/^[a-f0-9-]{36}$/.test(id)) ids.add(id);
	});
	return ids.size;
})()`

// progressScript returns the expression evaluated to read signal.
func progressScript(signal Signal) string {
	if signal == SignalHeight {
		return scrollHeightJS
	}
	return countIdentifiersJS
}
