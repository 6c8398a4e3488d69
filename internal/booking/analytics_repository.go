package booking

import (
	"context"
	"fmt"
	"time"

	"photobook/internal/db"
)

func (r *repository) StatsByDay(ctx context.Context, from, to time.Time) ([]DayStats, error) {
	query := `
SELECT
  to_char(date_trunc('day', created_at AT TIME ZONE 'UTC'), 'YYYY-MM-DD') AS bucket,
  COUNT(*)                                                                         AS bookings_created,
  COUNT(*) FILTER (WHERE state IN ('cancelled_by_client', 'cancelled_by_photographer')) AS bookings_cancelled,
  COUNT(*) FILTER (WHERE state = 'completed')                                      AS bookings_completed
FROM bookings
WHERE created_at >= $1 AND created_at < $2
GROUP BY bucket
ORDER BY bucket;
`
	stats := []DayStats{}
	if err := db.Querier(ctx, r.db).SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, fmt.Errorf("booking stats by day: %w", err)
	}
	return stats, nil
}

func (r *repository) StatsByState(ctx context.Context, from, to time.Time) ([]StateStats, error) {
	query := `
SELECT state, COUNT(*) AS count
FROM bookings
WHERE created_at >= $1 AND created_at < $2
GROUP BY state
ORDER BY state;
`
	stats := []StateStats{}
	if err := db.Querier(ctx, r.db).SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, fmt.Errorf("booking stats by state: %w", err)
	}
	return stats, nil
}
