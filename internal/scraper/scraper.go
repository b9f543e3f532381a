// Package scraper fetches and parses the Korean IPO subscription schedule
// from 38communications (38.co.kr).
package scraper

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/jiundev/gongmo-calendar/internal/ipo"
)

const (
	BaseURL = "http://www.38.co.kr"
	// ListURL is the IPO schedule index. ?o=k lists subscription windows,
	// ?o=nw lists recent/new listings.
	ListURL = BaseURL + "/html/fund/index.htm"

	SourceName = "38커뮤니케이션"

	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Scraper handles fetching and parsing IPO offerings.
type Scraper struct {
	client     *http.Client
	listURL    string
	maxRetries int
	delay      time.Duration
}

// Option customizes a Scraper.
type Option func(*Scraper)

// WithListURL overrides the schedule URL (tests point this at a local server).
func WithListURL(u string) Option {
	return func(s *Scraper) { s.listURL = u }
}

// WithDelay sets the politeness delay between page fetches.
func WithDelay(d time.Duration) Option {
	return func(s *Scraper) { s.delay = d }
}

// WithMaxRetries sets the retry budget per page fetch.
func WithMaxRetries(n int) Option {
	return func(s *Scraper) { s.maxRetries = n }
}

// New creates a new Scraper instance.
func New(timeout time.Duration, opts ...Option) *Scraper {
	s := &Scraper{
		client:     &http.Client{Timeout: timeout},
		listURL:    ListURL,
		maxRetries: 3,
		delay:      1500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchOfferings fetches and parses the current IPO schedule. It reads the
// subscription page first, then merges listing dates from the new-listings
// page. A fetch failure on either page aborts the run; pages whose structure
// doesn't match simply yield fewer rows.
func (s *Scraper) FetchOfferings() ([]*ipo.Offering, error) {
	logrus.Info("청약 일정 수집 시작")
	html, err := s.fetchPage(s.listURL + "?o=k")
	if err != nil {
		return nil, fmt.Errorf("fetching subscription schedule: %w", err)
	}

	offerings, err := ParseOfferings(html, false)
	if err != nil {
		return nil, fmt.Errorf("parsing subscription schedule: %w", err)
	}
	offerings = filterValid(offerings)

	time.Sleep(s.delay)

	logrus.Info("상장 일정 수집 중")
	listingHTML, err := s.fetchPage(s.listURL + "?o=nw")
	if err != nil {
		return nil, fmt.Errorf("fetching listing schedule: %w", err)
	}

	listings, err := ParseOfferings(listingHTML, true)
	if err != nil {
		return nil, fmt.Errorf("parsing listing schedule: %w", err)
	}

	offerings = mergeListings(offerings, listings)
	offerings = filterValid(offerings)

	logrus.Infof("총 %d건 수집 완료", len(offerings))
	return offerings, nil
}

// fetchPage GETs a page with retries and decodes it from EUC-KR to UTF-8.
func (s *Scraper) fetchPage(url string) (io.Reader, error) {
	var body []byte

	op := func() error {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", UserAgent)
		req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		// The site serves EUC-KR.
		decoded := transform.NewReader(resp.Body, korean.EUCKR.NewDecoder())
		body, err = io.ReadAll(decoded)
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second

	retries := uint64(0)
	if s.maxRetries > 1 {
		retries = uint64(s.maxRetries - 1)
	}
	if err := backoff.Retry(op, backoff.WithMaxRetries(bo, retries)); err != nil {
		return nil, err
	}

	return bytes.NewReader(body), nil
}

// mergeListings folds listing dates from the new-listings page into the
// already-collected offerings, keyed by company name. Companies only seen
// on the listings page are appended.
func mergeListings(offerings, listings []*ipo.Offering) []*ipo.Offering {
	byName := make(map[string]*ipo.Offering, len(offerings))
	for _, o := range offerings {
		byName[o.CompanyName] = o
	}

	for _, l := range listings {
		if existing, ok := byName[l.CompanyName]; ok {
			if !l.ListingDate.IsZero() {
				existing.ListingDate = l.ListingDate
			}
			continue
		}
		offerings = append(offerings, l)
	}
	return offerings
}
