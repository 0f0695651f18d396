package templates

import "embed"

// ResumeFS holds the HTML layouts a resume can be rendered with. base.html.tmpl
// is the page shell; every other file fills in its "style" and "content" blocks.
//
//go:embed resume/*.html.tmpl
var ResumeFS embed.FS
