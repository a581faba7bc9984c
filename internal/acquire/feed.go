package acquire

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"time"

	"hypewatch/internal/domain/collection"
	"hypewatch/pkg/errors"
	"hypewatch/pkg/logger"
)

// SocialFeed reads scraped social items from a newline-delimited JSON file.
// The browser scrapers run out of process and drop their items into the feed;
// the collector reads the whole file on each cycle and keeps the entries for
// the requested coin. A missing feed means the scraper has not delivered and
// the source run fails.
type SocialFeed struct {
	path string
	log  *logger.Logger
}

var _ collection.SocialAcquirer = (*SocialFeed)(nil)

// NewSocialFeed creates an acquirer over one feed file
func NewSocialFeed(path string) *SocialFeed {
	return &SocialFeed{
		path: path,
		log:  logger.Get().With("component", "social_feed", "path", path),
	}
}

// feedItem is the wire form one scraped item takes in the feed
type feedItem struct {
	ID               string           `json:"id"`
	CoinSymbol       string           `json:"coin_symbol"`
	AuthorHandle     string           `json:"author"`
	Text             string           `json:"text"`
	Engagement       map[string]int64 `json:"engagement"`
	CreatedAt        time.Time        `json:"created_at"`
	AccountCreatedAt time.Time        `json:"account_created_at"`
}

// Fetch returns the feed's items for one coin. Lines that fail to parse are
// skipped with a warning so one mangled entry cannot void a whole scrape.
func (f *SocialFeed) Fetch(ctx context.Context, coinSymbol string) ([]collection.SourceItem, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrAcquisitionFailed, "open feed: %v", err)
	}
	defer file.Close()

	var items []collection.SourceItem
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var entry feedItem
		if err := json.Unmarshal(raw, &entry); err != nil {
			f.log.Warnf("Skipping malformed feed line: line=%d error=%v", line, err)
			continue
		}
		if entry.CoinSymbol != coinSymbol {
			continue
		}

		items = append(items, collection.SourceItem{
			ID:               entry.ID,
			CoinSymbol:       entry.CoinSymbol,
			AuthorHandle:     entry.AuthorHandle,
			Text:             entry.Text,
			Engagement:       entry.Engagement,
			CreatedAt:        entry.CreatedAt,
			AccountCreatedAt: entry.AccountCreatedAt,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrAcquisitionFailed, "read feed: %v", err)
	}
	return items, nil
}
