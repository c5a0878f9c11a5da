package telegram

import (
	"fmt"
	"strings"

	"github.com/vadimtrunov/MovieMate/internal/core"
	"github.com/vadimtrunov/MovieMate/internal/frontend"
)

// mdV2Replacer escapes special characters for Telegram MarkdownV2.
var mdV2Replacer = strings.NewReplacer(
	`\`, `\\`,
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMdV2 escapes a string for safe use in Telegram MarkdownV2.
func EscapeMdV2(s string) string {
	return mdV2Replacer.Replace(s)
}

// FormatBold returns MarkdownV2 bold text.
func FormatBold(s string) string {
	return "*" + EscapeMdV2(s) + "*"
}

// FormatItalic returns MarkdownV2 italic text.
func FormatItalic(s string) string {
	return "_" + EscapeMdV2(s) + "_"
}

// formatList renders a numbered MarkdownV2 list under a bold header.
func formatList(header string, items []core.MovieSummary) string {
	var b strings.Builder
	b.WriteString(FormatBold(header))
	for i, s := range items {
		b.WriteString("\n")
		b.WriteString(EscapeMdV2(fmt.Sprintf("%d. %s", i+1, frontend.SummaryLine(s))))
	}
	return b.String()
}

// formatDetails renders the full record of a title in MarkdownV2.
func formatDetails(d *core.MovieDetails) string {
	var b strings.Builder
	b.WriteString(FormatBold(frontend.SummaryLine(d.MovieSummary)))

	var meta []string
	for _, v := range []string{d.Rated, d.Runtime, d.Released} {
		if v != "" && v != "N/A" {
			meta = append(meta, v)
		}
	}
	if len(meta) > 0 {
		b.WriteString("\n" + EscapeMdV2(strings.Join(meta, " · ")))
	}
	if len(d.Genres) > 0 {
		b.WriteString("\n" + FormatItalic(strings.Join(d.Genres, ", ")))
	}

	b.WriteString("\n\n" + FormatBold("IMDb:") + " " + EscapeMdV2(frontend.FormatIMDbRating(d)))
	for _, r := range d.Ratings {
		if r.Source == "Internet Movie Database" {
			continue
		}
		b.WriteString("\n" + FormatBold(r.Source+":") + " " + EscapeMdV2(r.Value))
	}

	writeField(&b, "Director", d.Director)
	writeField(&b, "Writers", strings.Join(d.Writers, ", "))
	writeField(&b, "Cast", strings.Join(d.Actors, ", "))
	writeField(&b, "Awards", d.Awards)
	writeField(&b, "Box office", d.BoxOffice)

	if d.Plot != "" && d.Plot != "N/A" {
		b.WriteString("\n\n" + EscapeMdV2(d.Plot))
	}
	b.WriteString("\n\n" + EscapeMdV2("https://www.imdb.com/title/"+d.IMDbID+"/"))
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" || value == "N/A" {
		return
	}
	b.WriteString("\n" + FormatBold(label+":") + " " + EscapeMdV2(value))
}

// truncateLabel shortens s to at most n runes.
func truncateLabel(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
