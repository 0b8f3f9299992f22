package scrape

import "strings"

// headerReplacer maps the punctuation seen in source table headers onto
// identifier-safe tokens. Replacer picks the longest match, so "$m" wins
// over "$".
var headerReplacer = strings.NewReplacer(
	" ", "_",
	"/", "_per_",
	"$m", "usd_millions",
	"$", "usd",
)

// SlugifyHeader normalizes a display header into a column identifier:
// lowercase, spaces to underscores, "/" to "_per_", currency markers to
// "usd" tokens. The transform is idempotent; slugifying a slug returns it
// unchanged.
func SlugifyHeader(raw string) string {
	return headerReplacer.Replace(strings.ToLower(strings.TrimSpace(raw)))
}
