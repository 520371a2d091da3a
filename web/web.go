// Package web bundles the HTML templates of the quotation panel.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
