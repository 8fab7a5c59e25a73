package feed

import (
	"context"

	"yatube/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// Service answers GetFeed: select, then paginate with the configured page size.
type Service struct {
	selector *Selector
	pageSize int
}

// NewService returns a feed service paging by pageSize.
func NewService(selector *Selector, pageSize int) *Service {
	return &Service{selector: selector, pageSize: pageSize}
}

// PageSize is the number of posts per page.
func (s *Service) PageSize() int { return s.pageSize }

// GetFeed returns page of the feed identified by req.
func (s *Service) GetFeed(ctx context.Context, req Request, page int) (*Page, error) {
	defer observability.TrackFeedSelect(string(req.Kind))()

	span, ctx := observability.NewSpan(ctx, "feed.GetFeed",
		attribute.String("feed.kind", string(req.Kind)),
		attribute.String("feed.param", req.Param),
		attribute.Int("feed.page", page),
	)
	defer span.End()

	seq, err := s.selector.Select(ctx, req)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	p, err := Paginate(ctx, seq, page, s.pageSize)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(
		attribute.Int("feed.page.resolved", p.Number),
		attribute.Int("feed.total", p.TotalCount),
	)
	return p, nil
}
