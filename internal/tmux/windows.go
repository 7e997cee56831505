package tmux

import (
	"fmt"
	"strconv"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

type windowLine struct {
	windowID  string
	displayID string
	label     string
}

// fetchWindows lists every window across sessions. Labels come from the
// format query when tmux supports it, and from the window list otherwise.
func fetchWindows(client tmuxClient, format, filter string) ([]Window, error) {
	allWindows, err := client.ListAllWindows()
	if err != nil {
		return nil, err
	}
	lines, err := fetchWindowLines(client, format, filter)
	if err != nil {
		lines = fallbackWindowLines(allWindows)
	}
	windowMap := make(map[string]*gotmux.Window, len(allWindows))
	for _, w := range allWindows {
		windowMap[w.Id] = w
	}
	windows := make([]Window, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.displayID]; dup {
			continue
		}
		seen[line.displayID] = struct{}{}
		w := windowMap[line.windowID]
		if w == nil {
			session, idx := splitDisplayID(line.displayID)
			windows = append(windows, Window{
				ID:         line.displayID,
				InternalID: line.windowID,
				Session:    session,
				Index:      idx,
				Label:      line.label,
			})
			continue
		}
		session := firstSession(w)
		if session == "" {
			session = strings.TrimSpace(w.Session)
		}
		displayID := line.displayID
		if displayID == "" {
			displayID = fmt.Sprintf("%s:%d", session, w.Index)
		}
		windows = append(windows, Window{
			ID:         displayID,
			InternalID: line.windowID,
			Session:    session,
			Index:      w.Index,
			Name:       w.Name,
			Label:      line.label,
			Active:     w.Active,
		})
	}
	return windows, nil
}

func fetchWindowLines(client tmuxClient, formatExpr, filter string) ([]windowLine, error) {
	formatExpr = strings.TrimSpace(formatExpr)
	if formatExpr == "" {
		formatExpr = defaultWindowFormat
	}
	labelFormat := fmt.Sprintf("#S:#{window_index}: %s", formatExpr)
	format := fmt.Sprintf("#{window_id}\t#{session_name}:#{window_index}\t%s", labelFormat)
	rawLines, err := client.ListWindowsFormat("", strings.TrimSpace(filter), format)
	if err != nil {
		return nil, err
	}
	result := make([]windowLine, 0, len(rawLines))
	for _, line := range rawLines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 2 {
			continue
		}
		display := strings.TrimSpace(parts[1])
		label := display
		if len(parts) > 2 {
			if trimmed := strings.TrimSpace(parts[2]); trimmed != "" {
				label = trimmed
			}
		}
		result = append(result, windowLine{windowID: strings.TrimSpace(parts[0]), displayID: display, label: label})
	}
	return result, nil
}

func fallbackWindowLines(windows []*gotmux.Window) []windowLine {
	lines := make([]windowLine, 0, len(windows))
	for _, w := range windows {
		session := firstSession(w)
		if session == "" {
			session = strings.TrimSpace(w.Session)
		}
		id := fmt.Sprintf("%s:%d", session, w.Index)
		label := fmt.Sprintf("%s: %s", id, w.Name)
		lines = append(lines, windowLine{windowID: w.Id, displayID: id, label: label})
	}
	return lines
}

func splitDisplayID(id string) (string, int) {
	session, rest, ok := strings.Cut(id, ":")
	if !ok {
		return strings.TrimSpace(id), 0
	}
	idx, _ := strconv.Atoi(strings.TrimSpace(rest))
	return strings.TrimSpace(session), idx
}

func firstSession(w *gotmux.Window) string {
	if len(w.ActiveSessionsList) > 0 {
		return w.ActiveSessionsList[0]
	}
	if len(w.LinkedSessionsList) > 0 {
		return w.LinkedSessionsList[0]
	}
	return ""
}
