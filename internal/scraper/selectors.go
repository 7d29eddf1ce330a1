package scraper

import (
	"encoding/json"
	"fmt"
	"strings"
)

// field is a bet attribute and the selectors tried in order to find it
type field struct {
	Name      string
	Selectors []string
}

// betPage describes where bets live on an account page
type betPage struct {
	Ready      string
	Containers string
	Fields     []field
}

var historyPage = betPage{
	Ready:      ".bet-item, .history-line",
	Containers: ".bet-item, .history-line, .bet-slip-item",
	Fields: []field{
		{"match_name", []string{".match-name", ".event-name", "[data-event-name]", ".team-name", ".participant"}},
		{"bet_type", []string{".bet-type", ".selection", ".bet-desc", ".outcome"}},
		{"odds", []string{".odds", ".coeff", ".odd-value", ".koeff"}},
		{"stake", []string{".stake", ".sum", ".bet-amount", ".bet-stake"}},
		{"status", []string{".status", ".bet-status", ".slip-status", ".result"}},
		{"date", []string{".date", ".time", ".bet-date", ".created-date"}},
		{"potential_win", []string{".potential-win", ".possible-win", ".max-payout"}},
		{"actual_win", []string{".actual-win", ".won-amount", ".payout"}},
	},
}

var activePage = betPage{
	Ready:      ".active-bet, .current-bet, .live-bet",
	Containers: ".active-bet, .current-bet, .live-bet, .bet-slip",
	Fields: []field{
		{"match_name", []string{".match-name", ".event-name", ".team-name", ".participant"}},
		{"bet_type", []string{".bet-type", ".selection", ".bet-desc", ".outcome"}},
		{"odds", []string{".odds", ".coeff", ".odd-value"}},
		{"stake", []string{".stake", ".sum", ".bet-amount"}},
		{"status", []string{".status", ".bet-status", ".slip-status"}},
		{"potential_win", []string{".potential-win", ".possible-win", ".max-payout"}},
		{"time_left", []string{".time-left", ".remaining-time"}},
	},
}

// historyReady is awaited after navigating to the history page
const historyReady = ".history-table, .bet-slip-history"

// extractScript returns an expression evaluating to one object per bet
// container, holding the trimmed text of the first matching selector for
// each field or null.
func (p betPage) extractScript() string {
	pairs := make([][2]any, 0, len(p.Fields))
	for _, f := range p.Fields {
		pairs = append(pairs, [2]any{f.Name, f.Selectors})
	}
	fields, _ := json.Marshal(pairs)
	containers, _ := json.Marshal(p.Containers)

	var b strings.Builder
	fmt.Fprintf(&b, `(() => {
  const fields = %s;
  const out = [];
  for (const el of document.querySelectorAll(%s)) {
    const row = {};
    for (const [name, selectors] of fields) {
      let node = null;
      for (const sel of selectors) {
        node = el.querySelector(sel);
        if (node) break;
      }
      row[name] = node ? node.textContent.trim() : null;
    }
    out.push(row);
  }
  return out;
})()`, fields, containers)
	return b.String()
}
