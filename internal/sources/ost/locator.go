package ost

import (
	"fmt"
	"time"
)

const baseURL = "https://ost.al/wp-content/uploads"

// filename suffixes observed on re-uploaded workbooks, bare name first
var suffixes = []string{"", "-1", "-2", "-3", "-4", "-001", "-002", "-003"}

// CandidateURLs returns every location a day's workbook has been observed
// at: each known suffix, in the day's own month folder and the next one.
func CandidateURLs(base string, day time.Time) []string {
	urls := make([]string, 0, len(suffixes)*2)
	for _, suf := range suffixes {
		for _, offset := range []int{0, 1} {
			folder := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
			urls = append(urls, fmt.Sprintf("%s/%04d/%02d/Publikimi-te-dhenave-%02d.%02d.%04d%s.xlsx",
				base, folder.Year(), int(folder.Month()),
				day.Day(), int(day.Month()), day.Year(), suf))
		}
	}
	return urls
}
