// Package mepso harvests the Macedonian TSO's daily system-report PDFs:
// hourly total demand into mepso_data.csv and the generation mix by
// technology group into mepso_gen_mix.csv.
//
// MEPSO publishes one PDF per day under a handful of filename conventions
// that have drifted over the years, so every day is probed against all known
// variants until one responds. The report table is extracted from the PDF's
// positioned text; when that fails, a regex pass over the flattened text
// lines is tried before the raw payload is stashed for manual triage.
package mepso

import (
	"fmt"
	"net/url"
	"time"
)

const baseURL = "https://www.mepso.com.mk/files/mk/dnevni"

// URLVariants returns the candidate report URLs for one day, most recent
// naming convention first. The Cyrillic filenames are percent-escaped the
// way the publisher's own links are.
func URLVariants(base string, day time.Time) []string {
	dmy := day.Format("02.01.2006")
	compact := day.Format("060102")
	names := []string{
		fmt.Sprintf("Информација за %s.pdf", dmy),
		fmt.Sprintf("Информација %s.pdf", dmy),
		fmt.Sprintf("WebReport-%s_mk.pdf", compact),
	}
	urls := make([]string, len(names))
	for i, name := range names {
		urls[i] = base + "/" + url.PathEscape(name)
	}
	return urls
}
