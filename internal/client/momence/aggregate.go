package momence

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Jimmeey2323/smart-ticket-manager/internal/models"
)

// ListAllSessionsWithDetails drives the multi-page session collection and
// per-session detail enrichment.
//
// Pages 0..maxPages-1 are fetched sequentially with the client's fixed page
// size; the loop stops early when a page comes back short or when the
// server-reported total count is already covered. Within each page the
// detail fetches fan out concurrently and are joined before the page is
// considered complete; a failed detail fetch keeps that session with only
// its summary fields.
//
// A zero startsBefore defaults to the start of the next UTC calendar day,
// excluding sessions that have not yet occurred from bulk views.
// locationName is resolved through the location table; unresolvable names
// apply no filter. Results are returned in fetch order: page order, then
// within-page server order.
func (c *Client) ListAllSessionsWithDetails(
	ctx context.Context,
	maxPages int,
	startsBefore time.Time,
	locationName string,
) ([]models.Session, error) {
	if maxPages <= 0 || maxPages > c.maxPages {
		maxPages = c.maxPages
	}
	if startsBefore.IsZero() {
		startsBefore = startOfNextDayUTC(time.Now())
	}

	locationID := c.ResolveLocationID(locationName)

	var all []models.Session
	fetched := 0

	for page := 0; page < maxPages; page++ {
		sessionPage, err := c.ListSessions(ctx, page, c.pageSize, startsBefore, locationID)
		if err != nil {
			// Pages already collected are kept; the failure is reported
			// alongside them so callers can tell a partial view apart.
			return all, err
		}

		all = append(all, c.enrichPage(ctx, sessionPage.Payload)...)
		fetched += len(sessionPage.Payload)

		// Termination: short page, or the reported total is covered.
		if len(sessionPage.Payload) < c.pageSize {
			break
		}
		if total := sessionPage.Pagination.TotalCount; total > 0 && fetched >= total {
			break
		}
	}

	c.logger.WithFields(logrus.Fields{
		"sessions": len(all),
		"location": locationName,
	}).Debug("Session aggregation complete")

	return all, nil
}

// enrichPage fans out a concurrent detail fetch for every session in the
// page and joins before returning. A single detail failure is isolated: the
// session keeps its summary record and siblings proceed.
func (c *Client) enrichPage(ctx context.Context, page []RawSession) []models.Session {
	enriched := make([]models.Session, len(page))

	var wg sync.WaitGroup
	wg.Add(len(page))

	for i, raw := range page {
		go func(i int, raw RawSession) {
			defer wg.Done()

			summary := NormalizeSession(raw)

			detail, err := c.GetSessionByID(ctx, raw.ID)
			if err != nil {
				c.logger.WithFields(logrus.Fields{
					"session_id": raw.ID,
					"error":      err,
				}).Debug("Session detail fetch failed, keeping summary only")
				enriched[i] = summary
				return
			}

			enriched[i] = MergeSessionDetail(summary, detail)
		}(i, raw)
	}

	wg.Wait()
	return enriched
}

// startOfNextDayUTC truncates to whole seconds and advances to midnight of
// the following UTC day.
func startOfNextDayUTC(now time.Time) time.Time {
	utc := now.UTC().Truncate(time.Second)
	next := utc.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC)
}
