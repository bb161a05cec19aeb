package detect

import "regexp"

// Pattern is a compiled detection signature. The set below is fixed at
// process start and evaluated in declared order.
type Pattern struct {
	Name        string
	Category    string
	Description string
	Regex       *regexp.Regexp
}

// compilePatterns returns the signature set. Order matters: Detect
// short-circuits on the first match, so keep the XSS rules ahead of the
// broad SQLi rules.
func compilePatterns() []Pattern {
	return []Pattern{
		{Name: "xss_script_tag", Category: "xss", Description: "script tag injection",
			Regex: regexp.MustCompile(`(?s)<script\b[^>]*>.*?</script>`)},
		{Name: "xss_javascript_uri", Category: "xss", Description: "javascript: protocol handler",
			Regex: regexp.MustCompile(`(?i)javascript:`)},
		{Name: "xss_event_handler", Category: "xss", Description: "inline event handler attribute",
			Regex: regexp.MustCompile(`(?i)on\w+=`)},
		{Name: "sqli_or_true", Category: "sqli", Description: "boolean bypass (OR 1=1)",
			Regex: regexp.MustCompile(`(?i)'\s*OR\s*1=1`)},
		{Name: "sqli_drop_table", Category: "sqli", Description: "stacked DROP TABLE statement",
			Regex: regexp.MustCompile(`(?i);\s*DROP\s+TABLE`)},
		{Name: "sqli_union", Category: "sqli", Description: "UNION SELECT extraction",
			Regex: regexp.MustCompile(`(?i)UNION\s+SELECT`)},
		// Known over-broad rule: matches any two consecutive hyphens, not
		// just SQL comments. Kept as-is for compatibility with the rule set
		// this replaces; narrowing it would change verdicts.
		{Name: "sqli_comment", Category: "sqli", Description: "SQL comment marker",
			Regex: regexp.MustCompile(`--`)},
	}
}
