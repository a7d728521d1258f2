// Package templates holds the static HTML pages served on the email-link
// routes (account verification and password reset).
package templates

import "embed"

//go:embed pages/*.html
var pagesFS embed.FS

var (
	VerificationSuccess = mustRead("verification-success.html")
	ResetForm           = mustRead("reset.html")
	ErrorPage           = mustRead("errors.html")
)

func mustRead(name string) []byte {
	data, err := pagesFS.ReadFile("pages/" + name)
	if err != nil {
		panic("templates: missing embedded page " + name)
	}
	return data
}
