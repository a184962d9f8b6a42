package api

import (
	"errors"
	"strings"

	models "FameFeed/internal/domain/models"
	"FameFeed/internal/service/ratelimit"
	"FameFeed/internal/usecase"
	xhttp "FameFeed/pkg/http"
	xlogger "FameFeed/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SeriesEchoHandler exposes the read-only series API over Echo.
type SeriesEchoHandler struct {
	logger  *xlogger.Logger
	reader  *usecase.SeriesReader
	comp    *usecase.Comparator
	limiter *ratelimit.Limiter
	burst   float64
	refill  float64
}

func NewSeriesEchoHandler(logger *xlogger.Logger, reader *usecase.SeriesReader, comp *usecase.Comparator) *SeriesEchoHandler {
	return &SeriesEchoHandler{logger: logger, reader: reader, comp: comp}
}

// SetRateLimit throttles API clients by address. The stores behind the
// gateway hold single sessions, so unbounded fan-in degrades everyone.
func (h *SeriesEchoHandler) SetRateLimit(l *ratelimit.Limiter, burst, perSecond float64) {
	h.limiter = l
	h.burst = burst
	h.refill = perSecond
}

func (h *SeriesEchoHandler) throttle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limiter != nil && !h.limiter.Allow(c.RealIP(), h.burst, h.refill) {
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many requests"))
		}
		return next(c)
	}
}

func (h *SeriesEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", h.throttle)
	g.GET("/databases", h.Databases)
	g.GET("/catalog", h.Catalog)
	g.GET("/series", h.Series)
	g.GET("/compare", h.Compare)
}

func (h *SeriesEchoHandler) Databases(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.reader.Databases(c.Request().Context()))
}

func (h *SeriesEchoHandler) Catalog(c echo.Context) error {
	req := &models.CatalogRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	infos, err := h.reader.Catalog(c.Request().Context(), req.Database, req.Pattern)
	if err != nil {
		h.logger.Error("catalog error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	return xhttp.SuccessResponse(c, infos)
}

func (h *SeriesEchoHandler) Series(c echo.Context) error {
	req := &models.ReadRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	start, end, appErr := parseBounds(req.Start, req.End)
	if appErr != nil {
		return xhttp.AppErrorResponse(c, appErr)
	}

	table, err := h.reader.Read(c.Request().Context(), usecase.ReadQuery{
		Database: req.Database,
		Names:    splitNames(req.Names),
		Start:    start,
		End:      end,
	})
	if err != nil {
		h.logger.Error("read error",
			xlogger.String("db", req.Database),
			xlogger.String("names", req.Names),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, domainError(err))
	}

	if req.Format == "csv" {
		return xhttp.CSVResponse(c, req.Database+".csv", table.WriteCSV)
	}
	return xhttp.SuccessResponse(c, table)
}

func (h *SeriesEchoHandler) Compare(c echo.Context) error {
	req := &models.CompareRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	start, end, appErr := parseBounds(req.Start, req.End)
	if appErr != nil {
		return xhttp.AppErrorResponse(c, appErr)
	}

	table, err := h.comp.Compare(c.Request().Context(), splitNames(req.Databases), req.Series, start, end)
	if err != nil {
		h.logger.Error("compare error",
			xlogger.String("series", req.Series),
			xlogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, domainError(err))
	}

	if req.Format == "csv" {
		return xhttp.CSVResponse(c, req.Series+".csv", table.WriteCSV)
	}
	return xhttp.SuccessResponse(c, table)
}

// parseBounds parses optional period bounds, expanding bare years toward the
// right edge, and rejects misordered ranges before any store I/O.
func parseBounds(startRaw, endRaw string) (start, end models.Quarter, appErr *xhttp.AppError) {
	var err error
	if startRaw != "" {
		if start, err = models.ParsePeriod(startRaw, models.RangeStart); err != nil {
			return start, end, xhttp.BadRequestErrorf("invalid start: %v", err)
		}
	}
	if endRaw != "" {
		if end, err = models.ParsePeriod(endRaw, models.RangeEnd); err != nil {
			return start, end, xhttp.BadRequestErrorf("invalid end: %v", err)
		}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return start, end, xhttp.BadRequestErrorf("start %s after end %s", start, end)
	}
	return start, end, nil
}

func splitNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// domainError maps read-path sentinels onto HTTP application errors.
func domainError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, models.ErrSeriesNotFound):
		return xhttp.NotFoundErrorf("%v", err)
	case errors.Is(err, models.ErrEmptyRange):
		return xhttp.UnprocessableError("ERR_EMPTY_RANGE", err.Error())
	case errors.Is(err, models.ErrFrequencyMismatch):
		return xhttp.ConflictError("ERR_FREQUENCY_MISMATCH", err.Error())
	case errors.Is(err, models.ErrConnection):
		return xhttp.BadGatewayError(err.Error())
	default:
		return xhttp.InternalError(err.Error()).WithError(err)
	}
}
