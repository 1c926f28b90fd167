package section

import "strings"

// boilerplate is the site chrome removed from every extracted span. Exact
// substrings only; the site renders these phrases verbatim.
var boilerplate = []string{
	"This site uses cookies",
	"We use cookies to ensure that we give you the best experience on our website",
	"If you click \"Accept Cookies\", or continue without changing your settings, you consent to their use",
	"You can change your settings at any time",
	"To learn more about how we collect and use cookies, and how you configure or disable cookies please read our Cookie Policy",
	"Menu Home Who We Are",
	"Data Services",
	"Membership Services",
	"Media & Events",
	"Free Trial KYC Emissions",
	"Who We Are",
	"中文 My Baltic",
	"What can we help you find?",
	"Home Data Services Weekly Market Roundups 2025 Dry Back to All",
	"Previous Next Latest News Read More About",
	"Who we are Corporate Governance Our History Membership Services FAQ's",
	"Data services Free Trial Market Information Freight Derivatives Methodology",
	"Connect Apply Newsletter News & Events Baltic App Contact us",
	"Follow X LinkedIn Vimeo Instagram",
	"Data Policy Privacy Policy Terms and Conditions Baltic Rules Cookies Sitemap",
}

// Clean strips known boilerplate phrases from a section span and normalizes
// whitespace. The result is either fully cleaned or empty, never partial.
func Clean(content string) string {
	for _, phrase := range boilerplate {
		content = strings.ReplaceAll(content, phrase, "")
	}
	return strings.Join(strings.Fields(content), " ")
}
