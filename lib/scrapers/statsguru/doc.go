package statsguru

// this package is stateless by design: every fetch is independent and
// the output of extraction depends solely on the page it was given.
// each category export follows the same shape:
// 1. transform a QuerySpec into a page url.
// 2. fetch the page (paced, retried, blocked-aware).
// 3. lift every structurally valid table off the page.
// 4. merge the tables into one rectangular, text-valued dataset.
//
// all knowledge of the site's markup lives in tables.go. when the site
// rearranges its pages, that file is the only thing that should change.
