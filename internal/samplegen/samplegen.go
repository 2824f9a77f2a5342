package samplegen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/abusehq/gatekeeper/internal/core"
)

var (
	trustedDomains    = []string{"zoom.us", "google.com", "microsoft.com"}
	suspiciousDomains = []string{"secure-login.click", "update-verify.top", "mail-reset.xyz", "invoicing-rest.work"}
	failFlavors       = []string{"fail", "softfail", "none", "permerror", "temperror", "neutral"}
	sampleReporters   = []string{"alice@example.com", "bob@example.com", "carol@example.com"}
	sampleRecipients  = []string{"student@example.edu", "you@example.com", "it@example.org"}
	sampleSubjects    = []string{
		"Meeting assets are ready",
		"Password reset",
		"Action required",
		"Invoice available",
		"Please verify your account",
	}
	urgencyPrefixes = []string{"URGENT", "VERIFY", "RESET", "ACTION REQUIRED"}
)

// Generator produces randomized but realistic ticket submissions with
// header blocks that either pass all three authentication mechanisms or
// fail at least one of them.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator seeded deterministically
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Sample is one generated submission plus the outcome it was built for
type Sample struct {
	Submission core.TicketSubmission
	AllPass    bool
}

// Next generates a submission whose headers carry an all-pass
// SPF/DKIM/DMARC triplet with probability passProb
func (g *Generator) Next(passProb float64) Sample {
	allPass := g.rng.Float64() < passProb
	legit := allPass || g.rng.Float64() < 0.3

	sub := core.TicketSubmission{
		Reporter: pick(g.rng, sampleReporters),
		Headers:  g.HeaderBlock(allPass, legit),
	}
	if allPass {
		sub.Title = "Benign email"
		sub.Body = "Looks fine to me."
		sub.URLs = []string{"https://zoom.us"}
	} else {
		sub.Title = "Suspicious email"
		sub.Body = "Looks odd, please review."
		sub.URLs = []string{"http://example.bad/reset"}
	}
	return Sample{Submission: sub, AllPass: allPass}
}

// HeaderBlock builds a realistic raw header block: a received chain, one
// Authentication-Results line and the usual envelope headers
func (g *Generator) HeaderBlock(allPass bool, legit bool) string {
	senderDomain := pick(g.rng, suspiciousDomains)
	if legit {
		senderDomain = pick(g.rng, trustedDomains)
	}

	headers := g.receivedChain(3 + g.rng.Intn(3))
	headers = append(headers, g.authResultsLine(allPass, senderDomain))

	fromLocal := "no-reply"
	if !legit {
		fromLocal = pick(g.rng, []string{"support", "security", "it-help"})
	}
	subject := pick(g.rng, sampleSubjects)
	if !allPass {
		subject = pick(g.rng, urgencyPrefixes) + ": " + subject
	}

	headers = append(headers,
		fmt.Sprintf("Date: %s", time.Now().UTC().Format(time.RFC1123Z)),
		fmt.Sprintf("From: %s <%s@%s>", displayName(senderDomain), fromLocal, senderDomain),
		fmt.Sprintf("To: %s", pick(g.rng, sampleRecipients)),
		fmt.Sprintf("Message-ID: <%s@%s>", g.randID(22), senderDomain),
		fmt.Sprintf("Subject: %s", subject),
	)
	return strings.Join(headers, "\n")
}

// authResultsLine builds the Authentication-Results header. When allPass is
// false at least one mechanism carries a non-pass result.
func (g *Generator) authResultsLine(allPass bool, domain string) string {
	var spf, dkim, dmarc string
	if allPass {
		spf, dkim, dmarc = "pass", "pass", "pass"
	} else {
		values := []string{
			pick(g.rng, failFlavors),
			g.passOrFlavor(),
			g.passOrFlavor(),
		}
		g.rng.Shuffle(len(values), func(i, j int) {
			values[i], values[j] = values[j], values[i]
		})
		spf, dkim, dmarc = values[0], values[1], values[2]
	}

	return fmt.Sprintf(
		"Authentication-Results: spf=%s smtp.mailfrom=bounce@%s; dkim=%s header.d=%s; dmarc=%s header.from=%s",
		spf, domain, dkim, domain, dmarc, domain)
}

func (g *Generator) passOrFlavor() string {
	if g.rng.Intn(len(failFlavors)+1) == 0 {
		return "pass"
	}
	return pick(g.rng, failFlavors)
}

func (g *Generator) receivedChain(hops int) []string {
	lines := make([]string, 0, hops)
	src := g.randHost()
	for i := 0; i < hops; i++ {
		dst := g.randHost()
		lines = append(lines, fmt.Sprintf(
			"Received: from %s (%s)\n by %s (%s) with Microsoft SMTP Server; %s",
			src, g.randIPv6(), dst, g.randIPv6(), time.Now().UTC().Format(time.RFC1123Z)))
		src = dst
	}
	return lines
}

func (g *Generator) randHost() string {
	return fmt.Sprintf("%s%d.namprd%02d.prod.outlook.com",
		g.randLocal(6), 10+g.rng.Intn(990), 1+g.rng.Intn(20))
}

func (g *Generator) randIPv6() string {
	groups := make([]string, 8)
	for i := range groups {
		groups[i] = fmt.Sprintf("%04x", g.rng.Intn(0x10000))
	}
	return strings.Join(groups, ":")
}

func (g *Generator) randID(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	return g.randFrom(alphabet, n)
}

func (g *Generator) randLocal(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	return g.randFrom(alphabet, n)
}

func (g *Generator) randFrom(alphabet string, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[g.rng.Intn(len(alphabet))])
	}
	return b.String()
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

// displayName derives a friendly sender name from the domain's first label
func displayName(domain string) string {
	label := strings.Split(domain, ".")[0]
	if label == "" {
		return domain
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
