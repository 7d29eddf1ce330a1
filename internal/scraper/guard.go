package scraper

import (
	"strings"

	"github.com/chromedp/cdproto/fetch"
)

// ForbiddenKeywords mark URLs that can move funds. Requests to them are
// aborted and navigating onto one fails the scrape.
var ForbiddenKeywords = []string{"payment", "deposit", "withdraw", "cashout"}

// BlockedClickKeywords mark elements whose clicks are swallowed in-page
var BlockedClickKeywords = []string{"payment", "deposit", "withdraw", "cashout", "bet-place", "place-bet"}

// IsForbiddenURL reports whether rawURL mentions a forbidden keyword and
// returns the first one found.
func IsForbiddenURL(rawURL string) (string, bool) {
	lower := strings.ToLower(rawURL)
	for _, kw := range ForbiddenKeywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

// requestPatterns are the Fetch domain patterns paused for inspection
func requestPatterns() []*fetch.RequestPattern {
	patterns := make([]*fetch.RequestPattern, 0, len(ForbiddenKeywords))
	for _, kw := range ForbiddenKeywords {
		patterns = append(patterns, &fetch.RequestPattern{
			URLPattern:   "*" + kw + "*",
			RequestStage: fetch.RequestStageRequest,
		})
	}
	return patterns
}

// clickGuardScript swallows clicks on fund-affecting controls. It is
// installed before any page script runs.
const clickGuardScript = `(() => {
  const blocked = %s;
  document.addEventListener('click', (e) => {
    const target = e.target;
    if (!(target instanceof Element)) return;
    for (const cls of blocked) {
      const isForm = target.tagName.toLowerCase() === 'form' &&
        ((target.action || '').includes(cls) || target.innerHTML.toLowerCase().includes(cls));
      if (target.classList.contains(cls) || target.closest('.' + cls) || isForm) {
        e.preventDefault();
        e.stopPropagation();
        console.warn('Blocked potentially dangerous action:', cls);
        return;
      }
    }
  }, true);
})();`
