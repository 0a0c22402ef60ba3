// Package skill canonicalizes skill strings and measures pairwise similarity.
//
// The similarity cascade is a deliberate tie-break: exact, synonym, and
// substring checks short-circuit before the fuzzy fallback, because string
// distance metrics can score short unrelated tokens too high.
package skill

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xrash/smetrics"
)

// Similarity tiers returned by Compare.
const (
	exactScore     = 1.0
	synonymScore   = 1.0
	substringScore = 0.9
)

// Jaro-Winkler parameters for the fuzzy fallback.
const (
	jwBoostThreshold = 0.7
	jwPrefixSize     = 4
)

// minFuzzyRunes gates the fuzzy fallback. Jaro-Winkler rates short unrelated
// tokens too high (a three-letter acronym shares prefix mass with almost
// anything), so tokens below this length only match via the earlier tiers.
const minFuzzyRunes = 4

// Normalize lower-cases a skill, strips non-alphanumeric characters, and
// collapses internal whitespace. Empty input yields an empty string.
// Normalize is idempotent.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Extract adapts any accepted skills shape (string slice, {name} maps, a
// comma/semicolon/pipe/newline delimited string, or nil) into a normalized,
// deduplicated sequence. It never panics on malformed input.
func Extract(v any) []string {
	raw := rawStrings(v)
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		n := Normalize(s)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// rawStrings flattens the accepted input shapes into raw strings.
func rawStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return t
	case string:
		return strings.FieldsFunc(t, isDelimiter)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			switch it := item.(type) {
			case string:
				out = append(out, it)
			case map[string]any:
				if name, ok := it["name"].(string); ok {
					out = append(out, name)
				}
			}
		}
		return out
	default:
		return nil
	}
}

func isDelimiter(r rune) bool {
	return r == ',' || r == ';' || r == '|' || r == '\n'
}

// Compare returns a similarity in [0,1] for two normalized skills.
// Exact match and synonym-table hits score 1.0, substring containment 0.9,
// and anything else falls through to Jaro-Winkler distance.
func Compare(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return exactScore
	}
	if isSynonym(a, b) || isSynonym(b, a) {
		return synonymScore
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return substringScore
	}
	if utf8.RuneCountInString(a) < minFuzzyRunes || utf8.RuneCountInString(b) < minFuzzyRunes {
		return 0
	}
	return smetrics.JaroWinkler(a, b, jwBoostThreshold, jwPrefixSize)
}

// BestMatch finds the candidate skill with the highest similarity to the
// required skill. Returns an empty match when candidates is empty.
func BestMatch(required string, candidates []string) (match string, score float64) {
	for _, c := range candidates {
		if s := Compare(required, c); s > score {
			match, score = c, s
		}
	}
	return match, score
}

// isSynonym reports whether the table lists b as a synonym of a.
func isSynonym(a, b string) bool {
	for _, syn := range synonyms[a] {
		if syn == b {
			return true
		}
	}
	return false
}

// synonyms maps a canonical skill to terms treated as equivalent. The sets
// are intentionally asymmetric and overlapping; Compare checks both
// directions. Extend freely, values must be pre-normalized.
var synonyms = map[string][]string{
	"javascript": {"js", "node", "nodejs", "node js", "ecmascript", "typescript", "ts"},
	"typescript": {"ts", "javascript", "js"},
	"python":     {"py", "python3"},
	"java":       {"jvm", "spring", "spring boot"},
	"golang":     {"go", "go lang"},
	"go":         {"golang"},
	"csharp":     {"c", "net", "dotnet", "asp net"},
	"cplusplus":  {"cpp", "c"},
	"ruby":       {"rails", "ruby on rails", "ror"},
	"php":        {"laravel", "symfony", "wordpress"},
	"react":      {"reactjs", "react js", "react native"},
	"angular":    {"angularjs", "angular js"},
	"vue":        {"vuejs", "vue js", "nuxt"},
	"database":   {"sql", "mysql", "postgresql", "postgres", "mongodb", "mongo", "db"},
	"sql":        {"mysql", "postgresql", "postgres", "sqlite", "mssql", "oracle"},
	"nosql":      {"mongodb", "mongo", "cassandra", "dynamodb", "redis"},
	"aws":        {"amazon web services", "ec2", "s3", "lambda"},
	"azure":      {"microsoft azure"},
	"gcp":        {"google cloud", "google cloud platform"},
	"devops":     {"ci cd", "cicd", "docker", "kubernetes", "k8s", "jenkins", "terraform"},
	"docker":     {"containers", "containerization"},
	"kubernetes": {"k8s", "kube"},
	"machine learning": {"ml", "deep learning", "ai", "artificial intelligence",
		"tensorflow", "pytorch", "scikit learn"},
	"data science": {"data analysis", "data analytics", "pandas", "numpy"},
	"frontend":     {"front end", "ui", "ux", "html", "css", "web design"},
	"backend":      {"back end", "server side", "api", "rest", "microservices"},
	"fullstack":    {"full stack", "frontend", "backend"},
	"testing":      {"qa", "quality assurance", "unit testing", "selenium", "automation testing"},
	"agile":        {"scrum", "kanban", "sprint"},
	"git":          {"github", "gitlab", "version control", "bitbucket"},
	"linux":        {"unix", "bash", "shell scripting"},
	"mobile":       {"android", "ios", "flutter", "react native", "swift", "kotlin"},
}
